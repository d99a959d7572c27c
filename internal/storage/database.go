package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/mylib/internal/entities"
)

// Scopes used by the local profile.
const (
	ScopeLocal   = "local"   // survives until explicitly removed
	ScopeSession = "session" // expires after a period of inactivity
)

// OpenDatabase opens (creating if needed) the SQLite file at path and migrates
// the storage schema.
func OpenDatabase(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&entities.StorageEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate storage schema: %w", err)
	}

	return db, nil
}

// Database is a Store persisted in the storage_entries table under one scope.
type Database struct {
	db    *gorm.DB
	scope string
	idle  time.Duration
	now   func() time.Time
}

type DatabaseOption func(*Database)

// WithIdleTimeout makes entries expire when they are not touched for d.
// Every Get and Set pushes the expiry forward.
func WithIdleTimeout(d time.Duration) DatabaseOption {
	return func(s *Database) {
		s.idle = d
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) DatabaseOption {
	return func(s *Database) {
		s.now = now
	}
}

func NewDatabase(db *gorm.DB, scope string, opts ...DatabaseOption) *Database {
	s := &Database{db: db, scope: scope, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Database) Get(key string) (string, bool) {
	var entry entities.StorageEntry
	err := s.db.Where("scope = ? AND key = ?", s.scope, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false
	}
	if err != nil {
		log.Printf("WARNING: storage read %s/%s failed: %v", s.scope, key, err)
		return "", false
	}

	now := s.now()
	if entry.IsExpired(now) {
		s.Remove(key)
		return "", false
	}

	if s.idle > 0 {
		expiresAt := now.Add(s.idle)
		if err := s.db.Model(&entry).Update("expires_at", expiresAt).Error; err != nil {
			log.Printf("WARNING: storage touch %s/%s failed: %v", s.scope, key, err)
		}
	}

	return entry.Value, true
}

func (s *Database) Set(key, value string) {
	var expiresAt *time.Time
	if s.idle > 0 {
		t := s.now().Add(s.idle)
		expiresAt = &t
	}

	entry := entities.StorageEntry{Scope: s.scope, Key: key}
	err := s.db.Where("scope = ? AND key = ?", s.scope, key).
		Assign(map[string]interface{}{
			"value":      value,
			"expires_at": expiresAt,
		}).
		FirstOrCreate(&entry).Error
	if err != nil {
		log.Printf("WARNING: storage write %s/%s failed: %v", s.scope, key, err)
	}
}

func (s *Database) Remove(key string) {
	err := s.db.Where("scope = ? AND key = ?", s.scope, key).Delete(&entities.StorageEntry{}).Error
	if err != nil {
		log.Printf("WARNING: storage delete %s/%s failed: %v", s.scope, key, err)
	}
}

// Clear removes every key in the scope.
func (s *Database) Clear() error {
	return s.db.Where("scope = ?", s.scope).Delete(&entities.StorageEntry{}).Error
}

// PurgeExpired deletes entries of this scope whose expiry has passed.
func (s *Database) PurgeExpired() (int64, error) {
	result := s.db.Where("scope = ? AND expires_at IS NOT NULL AND expires_at < ?", s.scope, s.now()).
		Delete(&entities.StorageEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired entries: %w", result.Error)
	}
	return result.RowsAffected, nil
}
