package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Slot is one persisted key-value row
type Slot struct {
	Key       string `gorm:"primaryKey;column:slot_key"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// SQLite stores slots in a single table of an embedded SQLite database
type SQLite struct {
	db *gorm.DB
}

// DatabaseFile is the database file name inside the data directory
const DatabaseFile = "daybook.db"

// OpenSQLite sets up the database connection and runs migrations.
// path may be ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		// Ensure the directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var slot Slot
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return slot.Value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	slot := Slot{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("slot_key = ?", key).Delete(&Slot{}).Error; err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
