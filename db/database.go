package db

import (
	"log"

	"bazaar/config"
	"bazaar/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDatabase opens the catalog store and migrates the schema.
// DATABASE_URL selects postgres; otherwise a local sqlite file is used.
func InitDatabase(cfg *config.Config) {
	var err error

	if cfg.DatabaseURL != "" {
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	} else {
		log.Println("DATABASE_URL not set, using sqlite store at", cfg.SQLitePath)
		DB, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	log.Println("Database connected successfully")

	// Auto migrate the schema
	if err := DB.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}
}
