package data

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/navjeevan-trust/orgsite/src/api/types"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// Migrate creates the four tables and their unique indexes. The unique
// indexes on registrations.mobile and registrations.voucher are the
// backstop behind the application-level duplicate prechecks.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.Notice{},
		&types.GalleryImage{},
		&types.Registration{},
	)
}
