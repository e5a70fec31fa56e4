package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/repository/mysql/model"
)

const mysqlDupEntry = 1062

// isDuplicate reports whether err is a unique-constraint violation. Both the
// translated gorm error and the raw driver error are checked, since
// TranslateError is a config option callers may not have set.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDupEntry
}

// Migrate creates or updates the engine's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Tag{},
		&model.Article{},
		&model.ArticleContent{},
		&model.ArticleLike{},
	)
}
