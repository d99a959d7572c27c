// Package session keeps the signed-in user's credentials in persistent storage
// and mirrors them in memory for the UI surfaces.
//
// Storage is the source of truth. The mirror is refreshed only by Read, which
// Login and Logout call after writing.
package session

import (
	"sync"

	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/storage"
)

// State is a snapshot of the authentication state. Username and AuthToken are
// empty whenever IsAuthenticated is false.
type State struct {
	IsAuthenticated bool
	Username        string
	AuthToken       string
}

type Store struct {
	storage storage.Store

	mu     sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New seeds the mirror from storage.
func New(store storage.Store) *Store {
	s := &Store{
		storage: store,
		subs:    make(map[int]func(State)),
	}
	s.state = s.Persisted()
	return s
}

// Persisted reads the state straight from storage without touching the mirror.
func (s *Store) Persisted() State {
	if _, ok := s.storage.Get(entities.StorageKeyIsAuthenticated); !ok {
		return State{}
	}
	username, _ := s.storage.Get(entities.StorageKeyUsername)
	token, _ := s.storage.Get(entities.StorageKeyAuthToken)
	return State{
		IsAuthenticated: true,
		Username:        username,
		AuthToken:       token,
	}
}

// Read resyncs the mirror from storage and notifies subscribers.
func (s *Store) Read() State {
	state := s.Persisted()

	s.mu.Lock()
	s.state = state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	return state
}

// State returns the mirror.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to receive every state produced by Read.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Login persists a successful authentication. The flag is written last so an
// interrupted login never leaves a flagged session without a token.
func (s *Store) Login(username, token string) State {
	s.storage.Set(entities.StorageKeyAuthToken, token)
	s.storage.Set(entities.StorageKeyUsername, username)
	s.storage.Set(entities.StorageKeyIsAuthenticated, "true")
	return s.Read()
}

// Logout clears the credentials, flag first.
func (s *Store) Logout() State {
	s.storage.Remove(entities.StorageKeyIsAuthenticated)
	s.storage.Remove(entities.StorageKeyUsername)
	s.storage.Remove(entities.StorageKeyAuthToken)
	return s.Read()
}
