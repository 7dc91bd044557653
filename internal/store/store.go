// Package store is the client-side cache of server state: independent
// keyed collections mutated only through a closed set of event types.
// Events are applied by per-aggregate reducers under one lock; reads go
// through selector methods that return copies, never internal slices.
// The synchronizers in internal/sync are the only writers.
package store

import (
	"sync"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// Event is one declared transition. The set of implementations is
// closed: each aggregate defines its events in this package and nothing
// else can satisfy the interface.
type Event interface {
	apply(s *state)
}

type state struct {
	boards      []models.Board
	cards       []models.Card
	cardsByStat map[int64][]models.Card
	statuses    []models.Status
	labelsByBrd map[int64][]models.Label
	itemsByCard map[int64][]models.ChecklistItem
	subsByItem  map[int64][]models.ChecklistSubItem
	positions   []models.UserBoardPosition
}

// Store holds all cached collections behind one lock. bubbletea commands
// run in their own goroutines, so unlike the browser original there is
// real parallelism here and the lock is not optional.
type Store struct {
	mu sync.RWMutex
	st state
}

// New returns an empty store.
func New() *Store {
	return &Store{st: state{
		cardsByStat: make(map[int64][]models.Card),
		labelsByBrd: make(map[int64][]models.Label),
		itemsByCard: make(map[int64][]models.ChecklistItem),
		subsByItem:  make(map[int64][]models.ChecklistSubItem),
	}}
}

// Dispatch applies events in order under the write lock.
func (s *Store) Dispatch(events ...Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		ev.apply(&s.st)
	}
}

// Reset drops every collection. Used on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{
		cardsByStat: make(map[int64][]models.Card),
		labelsByBrd: make(map[int64][]models.Label),
		itemsByCard: make(map[int64][]models.ChecklistItem),
		subsByItem:  make(map[int64][]models.ChecklistSubItem),
	}
}
