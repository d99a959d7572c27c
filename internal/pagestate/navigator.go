package pagestate

import (
	"github.com/mrlokans/mylib/internal/storage"
)

// CurrentViewKey holds the name of the last view entered.
const CurrentViewKey = "current_view"

// Navigator stands in for a router's leave hook on surfaces where views are
// separate requests or separate commands. It remembers the last view in
// storage and runs that view's cleanup when a different one is entered.
type Navigator struct {
	store storage.Store
	views map[string]Options
}

func NewNavigator(store storage.Store, views map[string]Options) *Navigator {
	return &Navigator{store: store, views: views}
}

// Enter records view as current. Re-entering the same view is not a leave.
func (n *Navigator) Enter(view string) {
	if prev, ok := n.store.Get(CurrentViewKey); ok && prev != view {
		if opts, known := n.views[prev]; known {
			Cleanup(n.store, opts, view)
		}
	}
	n.store.Set(CurrentViewKey, view)
}

// Current returns the last view entered, if any.
func (n *Navigator) Current() (string, bool) {
	return n.store.Get(CurrentViewKey)
}

// Options returns the registered options of view.
func (n *Navigator) Options(view string) (Options, bool) {
	opts, ok := n.views[view]
	return opts, ok
}
