// Package storage provides the key/value persistence the client keeps between runs.
//
// A Store never fails from the caller's point of view: backends log their own
// errors and report the key as absent. A missing key is not an error.
//
// # Backends
//
//   - Memory: process-local map, used in tests and for throwaway state
//   - Database: gorm/SQLite table scoped by name (local profile)
//   - SessionStore: scs session bound to a request context (web frontend)
//   - Sealed: wraps another Store and encrypts selected keys
package storage

import (
	"sync"
)

// Store is a string key/value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// Memory is a goroutine-safe in-memory Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
