package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/storage"
)

func TestNewSeedsFromStorage(t *testing.T) {
	t.Run("empty storage", func(t *testing.T) {
		s := New(storage.NewMemory())
		assert.Equal(t, State{}, s.State())
	})

	t.Run("persisted session", func(t *testing.T) {
		mem := storage.NewMemory()
		mem.Set(entities.StorageKeyIsAuthenticated, "true")
		mem.Set(entities.StorageKeyUsername, "alice")
		mem.Set(entities.StorageKeyAuthToken, "tok")

		s := New(mem)
		assert.Equal(t, State{IsAuthenticated: true, Username: "alice", AuthToken: "tok"}, s.State())
	})

	t.Run("flag presence decides, not its value", func(t *testing.T) {
		mem := storage.NewMemory()
		mem.Set(entities.StorageKeyIsAuthenticated, "")
		assert.True(t, New(mem).State().IsAuthenticated)
	})

	t.Run("username without flag is ignored", func(t *testing.T) {
		mem := storage.NewMemory()
		mem.Set(entities.StorageKeyUsername, "stale")
		assert.Equal(t, State{}, New(mem).State())
	})
}

func TestRead(t *testing.T) {
	mem := storage.NewMemory()
	s := New(mem)

	mem.Set(entities.StorageKeyIsAuthenticated, "true")
	mem.Set(entities.StorageKeyUsername, "bob")
	assert.False(t, s.State().IsAuthenticated, "mirror changes only on Read")

	first := s.Read()
	second := s.Read()
	assert.Equal(t, first, second)
	assert.Equal(t, State{IsAuthenticated: true, Username: "bob"}, s.State())

	mem.Remove(entities.StorageKeyIsAuthenticated)
	assert.Equal(t, State{}, s.Read())
}

func TestPersistedDoesNotTouchMirror(t *testing.T) {
	mem := storage.NewMemory()
	s := New(mem)
	mem.Set(entities.StorageKeyIsAuthenticated, "true")
	mem.Set(entities.StorageKeyAuthToken, "tok")

	assert.Equal(t, "tok", s.Persisted().AuthToken)
	assert.False(t, s.State().IsAuthenticated)
}

func TestLoginLogout(t *testing.T) {
	mem := storage.NewMemory()
	s := New(mem)

	state := s.Login("alice", "jwt")
	assert.Equal(t, State{IsAuthenticated: true, Username: "alice", AuthToken: "jwt"}, state)
	assert.Equal(t, state, s.State())

	v, ok := mem.Get(entities.StorageKeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "jwt", v)

	state = s.Logout()
	assert.Equal(t, State{}, state)
	assert.Equal(t, 0, mem.Len())

	// logging out twice is harmless
	assert.Equal(t, State{}, s.Logout())
}

type recordingStore struct {
	*storage.Memory
	ops []string
}

func (r *recordingStore) Set(key, value string) {
	r.ops = append(r.ops, "set:"+key)
	r.Memory.Set(key, value)
}

func (r *recordingStore) Remove(key string) {
	r.ops = append(r.ops, "remove:"+key)
	r.Memory.Remove(key)
}

func TestWriteOrdering(t *testing.T) {
	rec := &recordingStore{Memory: storage.NewMemory()}
	s := New(rec)

	s.Login("alice", "jwt")
	assert.Equal(t, "set:"+entities.StorageKeyIsAuthenticated, rec.ops[len(rec.ops)-1])

	rec.ops = nil
	s.Logout()
	assert.Equal(t, "remove:"+entities.StorageKeyIsAuthenticated, rec.ops[0])
}

func TestSubscribe(t *testing.T) {
	s := New(storage.NewMemory())

	var mu sync.Mutex
	var seen []State
	unsubscribe := s.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st)
	})

	s.Login("alice", "jwt")
	s.Logout()
	unsubscribe()
	unsubscribe()
	s.Login("bob", "jwt2")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, "alice", seen[0].Username)
	assert.False(t, seen[1].IsAuthenticated)
}
