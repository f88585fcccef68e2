package database

import (
	"license-gateway/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func InitTestDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database")
	}

	err = DB.AutoMigrate(
		&model.User{},
		&model.UserRole{},
		&model.Product{},
		&model.LoginAttempt{},
		&model.ActivityLog{},
		&model.AppStatus{},
	)
	if err != nil {
		panic("failed to migrate test database")
	}
}

func CleanTestDB() {
	sqlDB, err := DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
