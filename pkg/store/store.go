// Package store holds the per-resource caches the screens render from. Each
// store wraps the API client with resource-specific operations, one cached
// list and a load state, and notifies subscribers after every mutation.
package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// LoadState drives pull-to-refresh and empty-state UI.
type LoadState int

const (
	// StateInitial means no fetch has completed yet.
	StateInitial LoadState = iota
	// StateLoading means a fetch is in flight.
	StateLoading
	// StateIdle means the last fetch finished, successfully or not.
	StateIdle
)

// notifier implements the subscribe/notify contract shared by the stores.
// Subscribers are invoked synchronously after each mutation commits.
type notifier struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

// Subscribe registers a change listener and returns its cancel func.
func (n *notifier) Subscribe(fn func()) (cancel func()) {
	n.mu.Lock()
	if n.subs == nil {
		n.subs = make(map[int]func())
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	listeners := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		listeners = append(listeners, fn)
	}
	n.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Fetcher is the common refresh operation every store exposes.
type Fetcher interface {
	FetchAll(context.Context) error
}

// Prefetch warms several stores concurrently, the startup analogue of the
// screens firing their initial list loads on mount. The first error cancels
// the remaining fetches.
func Prefetch(ctx context.Context, stores ...Fetcher) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range stores {
		s := s
		g.Go(func() error { return s.FetchAll(gctx) })
	}
	return g.Wait()
}
