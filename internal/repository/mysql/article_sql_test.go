package mysql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	mysqlRepo "github.com/inkwell-cms/inkwell/internal/repository/mysql"
)

// mockDB wires gorm onto a sqlmock connection so tests can assert the exact
// SQL the repository emits. SkipDefaultTransaction keeps single-statement
// updates from being wrapped in BEGIN/COMMIT noise.
func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// The counters must be single relative UPDATEs, never read-modify-write.
func TestAddViewsEmitsRelativeUpdate(t *testing.T) {
	db, mock := mockDB(t)
	repo := mysqlRepo.NewArticleRepository(db)

	mock.ExpectExec("UPDATE `article` SET `views`=views \\+ \\?").
		WithArgs(int64(3), sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddViews(context.Background(), 7, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrLikesGuardsAgainstNegative(t *testing.T) {
	db, mock := mockDB(t)
	repo := mysqlRepo.NewArticleRepository(db)

	mock.ExpectExec("UPDATE `article` SET `likes_count`=likes_count - 1.*likes_count > 0").
		WithArgs(sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Matching zero rows just means the counter was already at zero.
	require.NoError(t, repo.DecrLikes(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
