package storage

import (
	"log"

	"github.com/mrlokans/mylib/internal/crypto"
)

// Sealed encrypts the values of selected keys before they reach the inner Store.
// Other keys pass through unchanged.
type Sealed struct {
	inner     Store
	encryptor *crypto.Encryptor
	sealed    map[string]bool
}

func NewSealed(inner Store, encryptor *crypto.Encryptor, keys ...string) *Sealed {
	sealed := make(map[string]bool, len(keys))
	for _, k := range keys {
		sealed[k] = true
	}
	return &Sealed{inner: inner, encryptor: encryptor, sealed: sealed}
}

func (s *Sealed) Get(key string) (string, bool) {
	value, ok := s.inner.Get(key)
	if !ok || !s.sealed[key] {
		return value, ok
	}

	plain, err := s.encryptor.Decrypt(value)
	if err != nil {
		// A key rotation or a corrupt row; the value is unusable either way.
		log.Printf("WARNING: failed to decrypt stored %s: %v", key, err)
		return "", false
	}
	return plain, true
}

func (s *Sealed) Set(key, value string) {
	if !s.sealed[key] {
		s.inner.Set(key, value)
		return
	}

	enc, err := s.encryptor.Encrypt(value)
	if err != nil {
		log.Printf("WARNING: failed to encrypt %s, value not stored: %v", key, err)
		return
	}
	s.inner.Set(key, enc)
}

func (s *Sealed) Remove(key string) {
	s.inner.Remove(key)
}
