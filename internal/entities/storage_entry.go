package entities

import (
	"time"
)

// StorageEntry is one persisted key/value pair of the local profile.
// Scope separates durable keys from keys that only live for a session.
type StorageEntry struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Scope     string     `gorm:"size:50;not null;uniqueIndex:idx_scope_key" json:"scope"`
	Key       string     `gorm:"size:200;not null;uniqueIndex:idx_scope_key" json:"key"`
	Value     string     `gorm:"type:text" json:"value"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}

// IsExpired reports whether the entry outlived its scope.
func (e *StorageEntry) IsExpired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

// Known storage keys
const (
	// Session keys, written together on login and cleared together on logout
	StorageKeyIsAuthenticated = "is_authenticated"
	StorageKeyUsername        = "username"
	StorageKeyAuthToken       = "auth_token"
)
