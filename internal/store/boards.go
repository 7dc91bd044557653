package store

import "github.com/alvaro-cozano/organizer-cli/internal/models"

// BoardsLoaded replaces the whole board collection: the last successful
// fetch wins, removed boards disappear without a targeted delete.
type BoardsLoaded struct {
	Boards []models.Board
}

func (e BoardsLoaded) apply(s *state) {
	s.boards = append([]models.Board(nil), e.Boards...)
}

// BoardAdded appends a freshly created board.
type BoardAdded struct {
	Board models.Board
}

func (e BoardAdded) apply(s *state) {
	s.boards = append(s.boards, e.Board)
}

// BoardUpdated replaces the board with the matching identifier.
type BoardUpdated struct {
	Board models.Board
}

func (e BoardUpdated) apply(s *state) {
	for i := range s.boards {
		if s.boards[i].ID == e.Board.ID {
			s.boards[i] = e.Board
			return
		}
	}
}

// BoardRemoved drops a board by identifier.
type BoardRemoved struct {
	ID int64
}

func (e BoardRemoved) apply(s *state) {
	kept := s.boards[:0]
	for _, b := range s.boards {
		if b.ID != e.ID {
			kept = append(kept, b)
		}
	}
	s.boards = kept
}

// Boards returns a copy of the board collection.
func (s *Store) Boards() []models.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Board(nil), s.st.boards...)
}

// Board returns the board with the given identifier, if cached.
func (s *Store) Board(id int64) (models.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.st.boards {
		if b.ID == id {
			return b, true
		}
	}
	return models.Board{}, false
}
