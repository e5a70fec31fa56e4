package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/config"
	"github.com/inkwell-cms/inkwell/internal/engagement"
	"github.com/inkwell-cms/inkwell/internal/jobs"
	"github.com/inkwell-cms/inkwell/internal/render"
	"github.com/inkwell-cms/inkwell/internal/repository"
	mysqlRepo "github.com/inkwell-cms/inkwell/internal/repository/mysql"
	redisCache "github.com/inkwell-cms/inkwell/internal/repository/redis"
	"github.com/inkwell-cms/inkwell/internal/rest"
	"github.com/inkwell-cms/inkwell/internal/rest/middleware"
	"github.com/inkwell-cms/inkwell/internal/usecase/article"
	"github.com/inkwell-cms/inkwell/internal/usecase/category"
	"github.com/inkwell-cms/inkwell/internal/usecase/tag"
	"github.com/inkwell-cms/inkwell/internal/usecase/user"
	"github.com/inkwell-cms/inkwell/internal/workers"
)

const (
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from environment")
	}
}

// buildDSN assembles the MySQL connection string. clientFoundRows makes
// UPDATE report matched rows instead of changed rows, so the conditional
// transition guards cannot mistake a no-change write for a missing row.
func buildDSN(cfg *config.Config) string {
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "Local")
	val.Add("clientFoundRows", "true")
	return fmt.Sprintf("%s?%s", connection, val.Encode())
}

// connectWithRetry keeps calling connect until it succeeds or the attempts
// run out, sleeping between every failure. Returns the last error.
func connectWithRetry(attempts int, interval time.Duration, connect func() error) error {
	var err error
	for i := range attempts {
		if err = connect(); err == nil {
			return nil
		}
		log.Printf("database not ready (attempt %d/%d): %v", i+1, attempts, err)
		time.Sleep(interval)
	}
	return err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	// prepare database
	var db *gorm.DB
	err = connectWithRetry(dbMaxRetry, dbRetryIntervalSec*time.Second, func() error {
		var openErr error
		db, openErr = gorm.Open(mysql.Open(buildDSN(cfg)), &gorm.Config{TranslateError: true})
		if openErr != nil {
			return openErr
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		if pingErr := sqlDB.Ping(); pingErr != nil {
			_ = sqlDB.Close()
			return pingErr
		}
		return nil
	})
	if err != nil {
		log.Fatal("could not connect to database after retries: ", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB: ", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection: ", err)
		}
	}()

	if err := mysqlRepo.Migrate(db); err != nil {
		log.Fatal("failed to run migrations: ", err)
	}

	// prepare cache
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.CacheHost + ":" + cfg.CachePort,
		Password: cfg.CachePass,
		DB:       cfg.CacheDB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			log.Fatal("got error when closing the cache connection: ", err)
		}
	}()
	if _, err = client.Ping(context.Background()).Result(); err != nil {
		log.Fatal("failed to open connection to cache: ", err)
	}

	// prepare repository layer
	articleRepo := mysqlRepo.NewArticleRepository(db)
	contentRepo := mysqlRepo.NewContentRepository(db)
	likeRepo := mysqlRepo.NewLikeRepository(db)
	tagRepo := mysqlRepo.NewTagRepository(db)
	categoryRepo := mysqlRepo.NewCategoryRepository(db)
	userRepo := mysqlRepo.NewUserRepository(db)
	articleCache := redisCache.NewArticleCache(client)
	reader := repository.NewArticleReader(articleRepo, contentRepo, articleCache)

	// start workers
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fp := engagement.NewFingerprinter(cfg.FingerprintSalt)
	engageSvc := engagement.NewService(articleRepo, likeRepo, fp, engagement.Options{
		ViewDedupWindow: cfg.ViewDedupWindow,
		InflightTTL:     cfg.LikeInflightTTL,
	})
	go engageSvc.Start(ctx)

	var syncer domain.FrontendSyncWorker
	if cfg.SyncDir != "" {
		worker := workers.NewFrontendSyncWorker(reader, cfg.SyncDir)
		go worker.Start(ctx)
		syncer = worker
	} else {
		log.Println("FRONTEND_SYNC_DIR not set, frontend sync disabled")
		syncer = workers.NoopSync{}
	}

	// build service layer
	renderer := render.New()
	tagSvc := tag.NewService(tagRepo)
	articleSvc := article.NewService(articleRepo, contentRepo, reader, tagSvc, likeRepo, renderer, engageSvc, syncer, article.Policy{
		RetentionDays:      cfg.RetentionDays,
		AuthorGraceDefault: cfg.AuthorGraceDaysDefault,
		ThemeHints:         cfg.ThemeHints,
	})
	categorySvc := category.NewService(categoryRepo, articleRepo, cfg.RetentionDays)
	userSvc := user.NewService(userRepo, articleRepo, contentRepo, likeRepo, cfg.RetentionDays)

	// schedule the purge sweep
	purger := jobs.NewPurger(articleRepo, contentRepo, likeRepo, categoryRepo, userRepo, reader, syncer)
	schedule := cron.New()
	if err := schedule.AddJob(cfg.PurgeSchedule, purger); err != nil {
		log.Fatal("invalid purge schedule: ", err)
	}
	schedule.Start()
	defer schedule.Stop()

	// prepare gin
	rest.RegisterValidations()
	route := gin.Default()
	route.Use(middleware.CORS())
	route.Use(middleware.RequestID())
	route.Use(middleware.Metrics())
	route.Use(middleware.SetRequestContextWithTimeout(cfg.ContextTimeout))

	rest.RegisterRoutes(route, rest.Handlers{
		Article:    rest.NewArticleHandler(articleSvc),
		Engagement: rest.NewEngagementHandler(engageSvc),
		Category:   rest.NewCategoryHandler(categorySvc),
		User:       rest.NewUserHandler(userSvc),
	})

	// start server
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for workers to drain...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}
