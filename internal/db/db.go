package db

import (
	"pantry/internal/auth"
	"pantry/internal/inventory"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres database. TranslateError turns unique
// violations into gorm.ErrDuplicatedKey, which the user store maps to
// the duplicate-email error.
func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&auth.User{}); err != nil {
		return err
	}
	return inventory.Migrate(gdb)
}
