package repository

import (
	"fmt"

	"gorm.io/gorm"

	"documind/internal/model"
)

// mysqlTableOptions makes MySQL compare identifiers byte for byte, matching
// SQLite's default BINARY collation.
const mysqlTableOptions = "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// AutoMigrate creates or updates every table the repositories use.
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		db = db.Set("gorm:table_options", mysqlTableOptions)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Document{}, &model.ChatMessage{}, &model.Activity{}); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}
