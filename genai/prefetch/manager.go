// Package prefetch keeps "load more" instant by serving recommendation
// batches from a per-category buffer that is refilled in the background.
package prefetch

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/lo"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/recommendation"
)

// ErrNoActiveSearch indicates LoadMore was called for a category that has
// no search in progress.
var ErrNoActiveSearch = errors.New("no active search for category")

const (
	defaultBatchSize = 5
	defaultQueueSize = 1
)

// Query identifies one search context. Buffered items are only ever served
// against the exact query they were fetched for.
type Query struct {
	Category  string
	Location  string
	Interests []string
}

// Fetcher retrieves the next batch of recommendations for a query,
// excluding names the client has already seen or buffered.
type Fetcher interface {
	FetchBatch(ctx context.Context, query Query, exclude []string) ([]recommendation.Item, error)
}

// Manager orchestrates foreground searches and background refills. One
// Manager belongs to one client; categories are independent of each other.
type Manager struct {
	fetcher   Fetcher
	batchSize int
	queueSize int

	mux        sync.Mutex
	categories map[string]*categoryState
}

type categoryState struct {
	query  Query
	active bool

	buffer []recommendation.Item
	// seen holds every name already surfaced or buffered, forming the
	// exclusion list for the next fetch.
	seen map[string]bool

	inFlight   bool
	refillDone chan struct{}
	refillErr  error
	// roundAdded counts items appended by the most recent refill round.
	roundAdded int
}

// Option configures a Manager.
type Option func(*Manager)

// WithBatchSize sets how many items one "load more" surfaces.
func WithBatchSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.batchSize = n
		}
	}
}

// WithQueueSize sets how many batches ahead the buffer is kept filled.
func WithQueueSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.queueSize = n
		}
	}
}

// NewManager creates a Manager backed by the given fetcher.
func NewManager(fetcher Fetcher, options ...Option) *Manager {
	m := &Manager{
		fetcher:    fetcher,
		batchSize:  defaultBatchSize,
		queueSize:  defaultQueueSize,
		categories: make(map[string]*categoryState),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Search starts a fresh paid search for the query's category. Any buffered
// items from the previous query context are dropped, and a refill already
// in flight will have its late results discarded. The foreground batch is
// fetched synchronously; a background refill starts once it returns.
func (m *Manager) Search(ctx context.Context, query Query) ([]recommendation.Item, error) {
	m.mux.Lock()
	state := &categoryState{query: query, active: true, seen: make(map[string]bool)}
	m.categories[query.Category] = state
	m.mux.Unlock()

	items, err := m.fetcher.FetchBatch(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	m.mux.Lock()
	defer m.mux.Unlock()
	// The category may have been reset again while fetching.
	if current := m.categories[query.Category]; current != state {
		return items, nil
	}
	for _, item := range items {
		state.seen[item.Name] = true
	}
	m.maybeRefillLocked(query.Category, state)
	return items, nil
}

// LoadMore returns up to one batch for the category. A non-empty buffer is
// drained without any network round trip; an empty buffer waits for the
// in-flight refill (starting one when none is running).
func (m *Manager) LoadMore(ctx context.Context, category string) ([]recommendation.Item, error) {
	m.mux.Lock()
	state, ok := m.categories[category]
	if !ok || !state.active {
		m.mux.Unlock()
		return nil, ErrNoActiveSearch
	}

	for len(state.buffer) == 0 {
		done := m.ensureRefillLocked(category, state)
		m.mux.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}
		m.mux.Lock()
		state, ok = m.categories[category]
		if !ok || !state.active {
			m.mux.Unlock()
			return nil, ErrNoActiveSearch
		}
		if len(state.buffer) > 0 {
			break
		}
		err := state.refillErr
		if err != nil {
			m.mux.Unlock()
			return nil, err
		}
		// A round that added nothing means the backend has no more
		// unseen results; an empty batch tells the client so. A round
		// whose items were taken by a concurrent waiter is retried.
		if state.roundAdded == 0 {
			m.mux.Unlock()
			return nil, nil
		}
	}

	items := m.popLocked(state)
	m.maybeRefillLocked(category, state)
	m.mux.Unlock()
	return items, nil
}

// Reset drops the category's buffer and deactivates it. A refill still in
// flight is allowed to finish; its results are discarded on arrival.
func (m *Manager) Reset(category string) {
	m.mux.Lock()
	defer m.mux.Unlock()
	delete(m.categories, category)
}

// Buffered reports how many unshown items are held for the category.
func (m *Manager) Buffered(category string) int {
	m.mux.Lock()
	defer m.mux.Unlock()
	if state, ok := m.categories[category]; ok {
		return len(state.buffer)
	}
	return 0
}

func (m *Manager) popLocked(state *categoryState) []recommendation.Item {
	n := m.batchSize
	if n > len(state.buffer) {
		n = len(state.buffer)
	}
	items := make([]recommendation.Item, n)
	copy(items, state.buffer[:n])
	state.buffer = state.buffer[n:]
	return items
}

// maybeRefillLocked starts a background refill when the buffer is below
// target and no fetch is already running.
func (m *Manager) maybeRefillLocked(category string, state *categoryState) {
	if len(state.buffer) < m.batchSize*m.queueSize && !state.inFlight {
		m.ensureRefillLocked(category, state)
	}
}

// ensureRefillLocked returns a channel that closes when the current refill
// round finishes. The single-flight guard lives here: at most one fetch per
// category is ever in flight.
func (m *Manager) ensureRefillLocked(category string, state *categoryState) <-chan struct{} {
	if state.inFlight {
		return state.refillDone
	}
	done := make(chan struct{})
	state.inFlight = true
	state.refillDone = done
	state.refillErr = nil
	exclude := lo.Keys(state.seen)
	query := state.query

	go func() {
		items, err := m.fetcher.FetchBatch(context.Background(), query, exclude)

		m.mux.Lock()
		defer m.mux.Unlock()
		defer close(done)
		// A reset or new search replaced the state object: the results
		// belong to a stale query context and must not be buffered.
		if current := m.categories[category]; current != state {
			return
		}
		state.inFlight = false
		state.roundAdded = 0
		if err != nil {
			state.refillErr = err
			return
		}
		for _, item := range items {
			if state.seen[item.Name] {
				continue
			}
			state.seen[item.Name] = true
			state.buffer = append(state.buffer, item)
			state.roundAdded++
		}
	}()
	return done
}
