package store

import "github.com/alvaro-cozano/organizer-cli/internal/models"

// StatusesLoaded replaces the status collection for the active board.
type StatusesLoaded struct {
	Statuses []models.Status
}

func (e StatusesLoaded) apply(s *state) {
	s.statuses = append([]models.Status(nil), e.Statuses...)
}

// StatusAdded appends a freshly created column.
type StatusAdded struct {
	Status models.Status
}

func (e StatusAdded) apply(s *state) {
	s.statuses = append(s.statuses, e.Status)
}

// StatusUpdated replaces the column with the matching identifier.
type StatusUpdated struct {
	Status models.Status
}

func (e StatusUpdated) apply(s *state) {
	for i := range s.statuses {
		if s.statuses[i].ID == e.Status.ID {
			s.statuses[i] = e.Status
			return
		}
	}
}

// StatusRemoved drops a column and its cached bucket.
type StatusRemoved struct {
	ID int64
}

func (e StatusRemoved) apply(s *state) {
	kept := s.statuses[:0]
	for _, st := range s.statuses {
		if st.ID != e.ID {
			kept = append(kept, st)
		}
	}
	s.statuses = kept
	delete(s.cardsByStat, e.ID)
}

// StatusesCleared drops the status collection.
type StatusesCleared struct{}

func (e StatusesCleared) apply(s *state) {
	s.statuses = nil
}

// Statuses returns a copy of the status collection.
func (s *Store) Statuses() []models.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Status(nil), s.st.statuses...)
}
