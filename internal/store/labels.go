package store

import "github.com/alvaro-cozano/organizer-cli/internal/models"

// LabelsLoaded replaces one board's label collection.
type LabelsLoaded struct {
	BoardID int64
	Labels  []models.Label
}

func (e LabelsLoaded) apply(s *state) {
	s.labelsByBrd[e.BoardID] = append([]models.Label(nil), e.Labels...)
}

// LabelAdded appends a freshly created label to its board's collection.
type LabelAdded struct {
	Label models.Label
}

func (e LabelAdded) apply(s *state) {
	s.labelsByBrd[e.Label.BoardID] = append(s.labelsByBrd[e.Label.BoardID], e.Label)
}

// LabelUpdated replaces the label with the matching identifier.
type LabelUpdated struct {
	Label models.Label
}

func (e LabelUpdated) apply(s *state) {
	labels := s.labelsByBrd[e.Label.BoardID]
	for i := range labels {
		if labels[i].ID == e.Label.ID {
			labels[i] = e.Label
			return
		}
	}
}

// LabelRemoved drops a label by identifier from every board collection.
type LabelRemoved struct {
	ID int64
}

func (e LabelRemoved) apply(s *state) {
	for boardID, labels := range s.labelsByBrd {
		kept := labels[:0]
		for _, l := range labels {
			if l.ID != e.ID {
				kept = append(kept, l)
			}
		}
		s.labelsByBrd[boardID] = kept
	}
}

// LabelsByBoard returns a copy of one board's labels.
func (s *Store) LabelsByBoard(boardID int64) []models.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Label(nil), s.st.labelsByBrd[boardID]...)
}
