// Creates the database schema and seeds the first admin account.
package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/navjeevan-trust/orgsite/src/api/config"
	"github.com/navjeevan-trust/orgsite/src/api/data"
	"github.com/navjeevan-trust/orgsite/src/api/types"
)

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("schema migrated")

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatalf("ADMIN_PASSWORD is not set")
	}

	var count int64
	if err := db.Model(&types.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		log.Fatalf("user lookup: %v", err)
	}
	if count > 0 {
		log.Printf("admin user %q already exists", username)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	if err := db.Create(&types.User{Username: username, PasswordHash: string(hash)}).Error; err != nil {
		log.Fatalf("create user: %v", err)
	}
	log.Printf("created admin user %q", username)
}
