package views

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/postit/internal/client/models"
	"github.com/stretchr/testify/require"
)

// pager serves the integers [0, total) in pages. A page listed in gates
// blocks until its channel is closed; entered is signalled first.
type pager struct {
	total int

	mu      sync.Mutex
	calls   []models.PageRequest
	gates   map[int]chan struct{}
	entered chan int
	failOn  map[int]error
}

func newPager(total int) *pager {
	return &pager{total: total, gates: map[int]chan struct{}{}, entered: make(chan int, 8), failOn: map[int]error{}}
}

func (p *pager) gate(page int) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan struct{})
	p.gates[page] = ch
	return ch
}

func (p *pager) fetch(ctx context.Context, req models.PageRequest) (*models.Page[int], error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	gate := p.gates[req.Page]
	delete(p.gates, req.Page)
	failErr := p.failOn[req.Page]
	p.mu.Unlock()

	if gate != nil {
		p.entered <- req.Page
		<-gate
	}
	if failErr != nil {
		return nil, failErr
	}

	var content []int
	start := req.Page * req.Size
	for i := start; i < start+req.Size && i < p.total; i++ {
		content = append(content, i)
	}
	return &models.Page[int]{
		Content: content,
		Number:  req.Page,
		Size:    req.Size,
		First:   req.Page == 0,
		Last:    start+req.Size >= p.total,
	}, nil
}

func (p *pager) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestList_ReloadAndLoadMore(t *testing.T) {
	ctx := context.Background()
	p := newPager(5)
	l := NewList(p.fetch, 2)

	require.NoError(t, l.Reload(ctx))
	require.Equal(t, []int{0, 1}, l.Items())
	require.True(t, l.HasMore())
	require.Zero(t, l.Page())

	require.NoError(t, l.LoadMore(ctx))
	require.Equal(t, []int{0, 1, 2, 3}, l.Items())

	require.NoError(t, l.LoadMore(ctx))
	require.Equal(t, []int{0, 1, 2, 3, 4}, l.Items())
	require.False(t, l.HasMore())
	require.Equal(t, 2, l.Page())

	calls := p.callCount()
	require.NoError(t, l.LoadMore(ctx))
	require.Equal(t, calls, p.callCount())
	require.Equal(t, 5, l.Len())

	require.NoError(t, l.Reload(ctx))
	require.Equal(t, []int{0, 1}, l.Items())
	require.True(t, l.HasMore())
}

func TestList_DefaultPageSize(t *testing.T) {
	p := newPager(50)
	l := NewList(p.fetch, 0)

	// first LoadMore acts as Reload
	require.NoError(t, l.LoadMore(context.Background()))
	require.Equal(t, models.DefaultPageSize, l.Len())
	require.Equal(t, models.PageRequest{Page: 0, Size: models.DefaultPageSize}, p.calls[0])
}

func TestList_FailureKeepsItems(t *testing.T) {
	ctx := context.Background()
	p := newPager(5)
	l := NewList(p.fetch, 2)
	require.NoError(t, l.Reload(ctx))

	boom := errors.New("boom")
	p.failOn[1] = boom
	require.ErrorIs(t, l.LoadMore(ctx), boom)
	require.Equal(t, []int{0, 1}, l.Items())
	require.False(t, l.Loading())

	delete(p.failOn, 1)
	require.NoError(t, l.LoadMore(ctx))
	require.Equal(t, []int{0, 1, 2, 3}, l.Items())
}

func TestList_ReloadSupersedesLoadMore(t *testing.T) {
	ctx := context.Background()
	p := newPager(5)
	l := NewList(p.fetch, 2)
	require.NoError(t, l.Reload(ctx))

	release := p.gate(1)
	done := make(chan error, 1)
	go func() { done <- l.LoadMore(ctx) }()
	require.Equal(t, 1, <-p.entered)

	// a second LoadMore while one is running does nothing
	require.NoError(t, l.LoadMore(ctx))

	require.NoError(t, l.Reload(ctx))
	close(release)

	require.ErrorIs(t, <-done, ErrSuperseded)
	require.Equal(t, []int{0, 1}, l.Items())
	require.Zero(t, l.Page())
	require.False(t, l.Loading())
}

func TestList_LatestReloadWins(t *testing.T) {
	ctx := context.Background()
	p := newPager(5)
	l := NewList(p.fetch, 2)

	release := p.gate(0)
	done := make(chan error, 1)
	go func() { done <- l.Reload(ctx) }()
	<-p.entered

	p.total = 1
	require.NoError(t, l.Reload(ctx))
	close(release)

	require.ErrorIs(t, <-done, ErrSuperseded)
	require.Equal(t, []int{0}, l.Items())
	require.False(t, l.HasMore())
}

func TestList_LocalEdits(t *testing.T) {
	p := newPager(3)
	l := NewList(p.fetch, 3)
	require.NoError(t, l.Reload(context.Background()))

	l.Prepend(-1)
	require.Equal(t, []int{-1, 0, 1, 2}, l.Items())

	removed, ok := l.Remove(func(v int) bool { return v == 1 })
	require.True(t, ok)
	require.Equal(t, 1, removed)
	_, ok = l.Remove(func(v int) bool { return v == 42 })
	require.False(t, ok)

	prev, ok := l.Update(func(v int) bool { return v == 2 }, func(v *int) { *v = 20 })
	require.True(t, ok)
	require.Equal(t, 2, prev)

	l.UpdateAll(func(v *int) { *v *= 10 })
	require.Equal(t, []int{-10, 0, 200}, l.Items())

	v, ok := l.At(2)
	require.True(t, ok)
	require.Equal(t, 200, v)
	_, ok = l.At(3)
	require.False(t, ok)
}
