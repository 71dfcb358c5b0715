package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens postgres. TranslateError turns driver unique-violations
// into gorm.ErrDuplicatedKey, which the store layer depends on.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}
