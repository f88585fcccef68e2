package database

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"license-gateway/internal/model"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(dataDir string) {
	var err error
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatal("failed to create data directory:", err)
	}

	dbPath := filepath.Join(dataDir, "gateway.db")
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
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
		log.Fatal("failed to migrate database:", err)
	}

	seedAdmin()
}

// seedAdmin creates a default admin account on a fresh database so the
// console is reachable before any real accounts exist.
func seedAdmin() {
	var adminCount int64
	DB.Model(&model.UserRole{}).Where("role = ?", model.RoleAdmin).Count(&adminCount)
	if adminCount > 0 {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash default password:", err)
	}

	admin := &model.User{
		Email:     "admin@example.com",
		Password:  string(hashedPassword),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := DB.Create(admin).Error; err != nil {
		log.Fatal("failed to create admin account:", err)
	}
	if err := DB.Create(&model.UserRole{UserID: admin.ID, Role: model.RoleAdmin}).Error; err != nil {
		log.Fatal("failed to grant admin role:", err)
	}

	log.Println("created default admin account")
}
