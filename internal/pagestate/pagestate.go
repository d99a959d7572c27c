// Package pagestate remembers where a paged view was, so returning to it from
// a detail view lands on the same page with the same page size.
package pagestate

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/mrlokans/mylib/internal/storage"
)

// DefaultDetailRoute is the view that keeps list positions when navigated to.
const DefaultDetailRoute = "book"

// Paginator is the part of a paginated list the adapter drives.
type Paginator interface {
	PageSize() int
	SetPagination(page, size int)
	OnPositionChange(fn func(page, size int)) (unsubscribe func())
}

type Options struct {
	// Key under which {"page":N,"size":M} is stored.
	Key string
	// CleanupKeys are removed when leaving the view for anything but DetailRoute.
	CleanupKeys []string
	// DetailRoute defaults to DefaultDetailRoute.
	DetailRoute string
}

func (o Options) detailRoute() string {
	if o.DetailRoute == "" {
		return DefaultDetailRoute
	}
	return o.DetailRoute
}

type saved struct {
	Page *int `json:"page"`
	Size *int `json:"size"`
}

type Binding struct {
	list  Paginator
	store storage.Store
	opts  Options

	mu          sync.Mutex
	unsubscribe func()
}

func Bind(list Paginator, store storage.Store, opts Options) *Binding {
	return &Binding{list: list, store: store, opts: opts}
}

// Mount restores the saved position, starts persisting changes and calls load
// exactly once, whether or not anything was restored.
func (b *Binding) Mount(load func()) {
	b.mu.Lock()
	if b.unsubscribe == nil {
		b.unsubscribe = b.list.OnPositionChange(b.persist)
	}
	b.mu.Unlock()

	b.restore()
	load()
}

func (b *Binding) restore() {
	raw, ok := b.store.Get(b.opts.Key)
	if !ok || raw == "" {
		return
	}

	var s saved
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		log.Printf("WARNING: invalid pagination data in storage for %s: %v", b.opts.Key, err)
		return
	}

	page := 1
	if s.Page != nil {
		page = *s.Page
	}
	size := b.list.PageSize()
	if s.Size != nil {
		size = *s.Size
	}
	b.list.SetPagination(page, size)
}

func (b *Binding) persist(page, size int) {
	data, err := json.Marshal(saved{Page: &page, Size: &size})
	if err != nil {
		log.Printf("WARNING: failed to encode pagination for %s: %v", b.opts.Key, err)
		return
	}
	b.store.Set(b.opts.Key, string(data))
}

// Leave is the route-leave hook.
func (b *Binding) Leave(destination string) {
	Cleanup(b.store, b.opts, destination)
}

// Close stops persisting changes.
func (b *Binding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// Cleanup removes opts.CleanupKeys unless destination is the detail route.
func Cleanup(store storage.Store, opts Options, destination string) {
	if destination == opts.detailRoute() {
		return
	}
	for _, key := range opts.CleanupKeys {
		store.Remove(key)
	}
}
