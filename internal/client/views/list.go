package views

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

// ErrSuperseded is returned by a load whose response arrived after a newer
// load was started. The list is left as the newer load leaves it.
var ErrSuperseded = errors.New("superseded by a newer request")

// PageFunc fetches one page.
type PageFunc[T any] func(ctx context.Context, page models.PageRequest) (*models.Page[T], error)

// List is a paginated, append-only-on-load collection.
type List[T any] struct {
	fetch PageFunc[T]
	size  int

	mu      sync.Mutex
	items   []T
	page    int
	hasMore bool
	loaded  bool
	loading bool
	gen     uint64
}

// NewList returns an empty list that loads size items per page.
func NewList[T any](fetch PageFunc[T], size int) *List[T] {
	if size <= 0 {
		size = models.DefaultPageSize
	}
	return &List[T]{fetch: fetch, size: size}
}

// Reload fetches page 0 and replaces the items. It supersedes any load in
// flight. On failure the previous items are kept.
func (l *List[T]) Reload(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.loading = true
	l.mu.Unlock()

	return l.load(ctx, gen, models.PageRequest{Page: 0, Size: l.size}, true)
}

// LoadMore fetches the page after the last one loaded and appends it. It is a
// no-op when there is nothing more to load or another load is running. Before
// the first load it behaves like Reload.
func (l *List[T]) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if !l.loaded {
		l.mu.Unlock()
		return l.Reload(ctx)
	}
	if !l.hasMore || l.loading {
		l.mu.Unlock()
		return nil
	}
	l.gen++
	gen := l.gen
	l.loading = true
	next := models.PageRequest{Page: l.page + 1, Size: l.size}
	l.mu.Unlock()

	return l.load(ctx, gen, next, false)
}

func (l *List[T]) load(ctx context.Context, gen uint64, req models.PageRequest, replace bool) error {
	page, err := l.fetch(ctx, req)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		return ErrSuperseded
	}
	l.loading = false
	if err != nil {
		return err
	}

	if replace {
		l.items = append([]T(nil), page.Content...)
	} else {
		l.items = append(l.items, page.Content...)
	}
	l.page = req.Page
	l.hasMore = page.HasMore()
	l.loaded = true
	return nil
}

// Items returns a copy of the current items.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// At returns the i-th item.
func (l *List[T]) At(i int) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

func (l *List[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

func (l *List[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Page is the index of the last page loaded.
func (l *List[T]) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Prepend inserts item at the top, where new posts and comments appear.
func (l *List[T]) Prepend(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T{item}, l.items...)
}

// Remove deletes the first item matching match.
func (l *List[T]) Remove(match func(T) bool) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if match(it) {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Update applies fn to the first item matching match and returns the item
// as it was before.
func (l *List[T]) Update(match func(T) bool, fn func(*T)) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if match(l.items[i]) {
			prev := l.items[i]
			fn(&l.items[i])
			return prev, true
		}
	}
	var zero T
	return zero, false
}

// UpdateAll applies fn to every item.
func (l *List[T]) UpdateAll(fn func(*T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		fn(&l.items[i])
	}
}
