package storage

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// SessionStore exposes one scs session as a Store. The context must already
// carry the session, i.e. come from a request that passed the load middleware.
type SessionStore struct {
	sm  *scs.SessionManager
	ctx context.Context
}

func NewSessionStore(ctx context.Context, sm *scs.SessionManager) *SessionStore {
	return &SessionStore{sm: sm, ctx: ctx}
}

func (s *SessionStore) Get(key string) (string, bool) {
	if !s.sm.Exists(s.ctx, key) {
		return "", false
	}
	value, ok := s.sm.Get(s.ctx, key).(string)
	return value, ok
}

func (s *SessionStore) Set(key, value string) {
	s.sm.Put(s.ctx, key, value)
}

func (s *SessionStore) Remove(key string) {
	s.sm.Remove(s.ctx, key)
}
