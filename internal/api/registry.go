package api

import (
	"sync"

	"github.com/mrlokans/mylib/internal/backendconfig"
)

// Registry owns the single Client of a process. It must be initialised after
// the runtime config is loaded; asking for the client earlier is an error.
type Registry struct {
	mu     sync.RWMutex
	client *Client
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Init(backend backendconfig.Backend, sess Session, opts ...Option) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return nil, ErrAlreadyInitialized
	}
	r.client = NewClient(backend, sess, opts...)
	return r.client, nil
}

func (r *Registry) Client() (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.client == nil {
		return nil, ErrNotInitialized
	}
	return r.client, nil
}
