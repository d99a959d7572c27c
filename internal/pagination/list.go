// Package pagination drives a paged list view: it owns the page, page size,
// loading and error state and calls an injected fetch function for the rows.
package pagination

import (
	"context"
	"slices"
	"sync"
)

// PageSizes are the page sizes a user can choose from.
var PageSizes = []int{5, 10, 25, 50}

const DefaultPageSize = 10

// Counted is a fetch result that knows how many rows exist across all pages.
type Counted interface {
	ResultCount() int
}

// Fetch loads one page. args are the view's extra arguments, such as search
// keywords.
type Fetch[R Counted, A any] func(ctx context.Context, startIndex, pageSize int, args ...A) (R, error)

// Snapshot is a copy of a list's state.
type Snapshot[R Counted] struct {
	Items       R
	HasItems    bool // false until the first successful load or ResetEmpty
	Loading     bool
	Error       string
	PageSize    int
	CurrentPage int
	TotalPages  int
}

type position struct {
	page int
	size int
}

// List is safe for concurrent use. Observers are called outside the lock.
type List[R Counted, A any] struct {
	fetch       Fetch[R, A]
	placeholder func() R

	mu          sync.Mutex
	items       R
	hasItems    bool
	loading     bool
	err         string
	pageSize    int
	currentPage int
	extraArgs   []A
	seq         uint64

	nextID  int
	subs    map[int]func(Snapshot[R])
	posSubs map[int]func(page, size int)
}

type Option func(*options)

type options struct {
	pageSize    int
	placeholder any
}

// WithPageSize sets the initial page size. Sizes outside PageSizes are ignored.
func WithPageSize(n int) Option {
	return func(o *options) {
		if ValidPageSize(n) {
			o.pageSize = n
		}
	}
}

// WithPlaceholder sets the zero-result value ResetEmpty shows.
func WithPlaceholder[R Counted](fn func() R) Option {
	return func(o *options) {
		o.placeholder = fn
	}
}

func New[R Counted, A any](fetch Fetch[R, A], opts ...Option) *List[R, A] {
	o := options{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&o)
	}

	l := &List[R, A]{
		fetch:       fetch,
		pageSize:    o.pageSize,
		currentPage: 1,
		subs:        make(map[int]func(Snapshot[R])),
		posSubs:     make(map[int]func(page, size int)),
	}
	if fn, ok := o.placeholder.(func() R); ok {
		l.placeholder = fn
	} else {
		l.placeholder = func() R {
			var zero R
			return zero
		}
	}
	return l
}

func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// Load fetches the current page. Non-empty args replace the stored extra
// arguments. If another Load starts before this one finishes, this one's
// result is dropped.
func (l *List[R, A]) Load(ctx context.Context, args ...A) {
	var (
		seq        uint64
		startIndex int
		pageSize   int
		extra      []A
	)
	l.update(func() bool {
		if len(args) > 0 {
			l.extraArgs = slices.Clone(args)
		}
		l.seq++
		seq = l.seq
		l.loading = true
		l.err = ""
		startIndex = (l.currentPage - 1) * l.pageSize
		pageSize = l.pageSize
		extra = slices.Clone(l.extraArgs)
		return true
	})

	items, err := l.fetch(ctx, startIndex, pageSize, extra...)

	l.update(func() bool {
		if seq != l.seq {
			return false
		}
		if err != nil {
			l.err = ErrorMessage(err)
		} else {
			l.items = items
			l.hasItems = true
		}
		l.loading = false
		return true
	})
}

// NextPage loads the following page; it does nothing on the last page.
func (l *List[R, A]) NextPage(ctx context.Context) {
	moved := false
	l.update(func() bool {
		if l.currentPage >= l.totalPagesLocked() {
			return false
		}
		l.currentPage++
		moved = true
		return true
	})
	if moved {
		l.Load(ctx)
	}
}

// PrevPage loads the preceding page; it does nothing on the first page.
func (l *List[R, A]) PrevPage(ctx context.Context) {
	moved := false
	l.update(func() bool {
		if l.currentPage <= 1 {
			return false
		}
		l.currentPage--
		moved = true
		return true
	})
	if moved {
		l.Load(ctx)
	}
}

// SetPageSize switches the page size, returns to page 1 and loads.
func (l *List[R, A]) SetPageSize(ctx context.Context, n int) error {
	if !ValidPageSize(n) {
		return ErrInvalidPageSize
	}
	l.update(func() bool {
		l.pageSize = n
		l.currentPage = 1
		return true
	})
	l.Load(ctx)
	return nil
}

// SetPagination positions the list without loading. A page below 1 becomes 1
// and an unknown size keeps the current one.
func (l *List[R, A]) SetPagination(page, size int) {
	l.update(func() bool {
		if page < 1 {
			page = 1
		}
		l.currentPage = page
		if ValidPageSize(size) {
			l.pageSize = size
		}
		return true
	})
}

// ResetEmpty shows the zero-result placeholder without fetching. Loads still
// in flight are dropped.
func (l *List[R, A]) ResetEmpty() {
	l.update(func() bool {
		l.seq++
		l.loading = false
		l.items = l.placeholder()
		l.hasItems = true
		return true
	})
}

func (l *List[R, A]) SetError(msg string) {
	l.update(func() bool {
		l.err = msg
		return true
	})
}

func (l *List[R, A]) ClearError() {
	l.SetError("")
}

func (l *List[R, A]) Snapshot() Snapshot[R] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *List[R, A]) Items() (R, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items, l.hasItems
}

func (l *List[R, A]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *List[R, A]) Error() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *List[R, A]) PageSize() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pageSize
}

func (l *List[R, A]) CurrentPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentPage
}

func (l *List[R, A]) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalPagesLocked()
}

func (l *List[R, A]) ExtraArgs() []A {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.extraArgs)
}

// Subscribe calls fn with a snapshot after every state change.
func (l *List[R, A]) Subscribe(fn func(Snapshot[R])) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

// OnPositionChange calls fn whenever the page or the page size changes.
func (l *List[R, A]) OnPositionChange(fn func(page, size int)) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.posSubs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.posSubs, id)
		l.mu.Unlock()
	}
}

// update runs fn under the lock; if fn reports a change, observers are
// notified once the lock is released.
func (l *List[R, A]) update(fn func() bool) {
	l.mu.Lock()
	before := position{page: l.currentPage, size: l.pageSize}
	if !fn() {
		l.mu.Unlock()
		return
	}
	after := position{page: l.currentPage, size: l.pageSize}

	snap := l.snapshotLocked()
	subs := make([]func(Snapshot[R]), 0, len(l.subs))
	for _, s := range l.subs {
		subs = append(subs, s)
	}
	var posSubs []func(page, size int)
	if before != after {
		for _, s := range l.posSubs {
			posSubs = append(posSubs, s)
		}
	}
	l.mu.Unlock()

	for _, s := range subs {
		s(snap)
	}
	for _, s := range posSubs {
		s(after.page, after.size)
	}
}

func (l *List[R, A]) snapshotLocked() Snapshot[R] {
	return Snapshot[R]{
		Items:       l.items,
		HasItems:    l.hasItems,
		Loading:     l.loading,
		Error:       l.err,
		PageSize:    l.pageSize,
		CurrentPage: l.currentPage,
		TotalPages:  l.totalPagesLocked(),
	}
}

// totalPagesLocked is never below 1, even with no results.
func (l *List[R, A]) totalPagesLocked() int {
	count := 0
	if l.hasItems {
		count = l.items.ResultCount()
	}
	pages := (count + l.pageSize - 1) / l.pageSize
	return max(1, pages)
}
