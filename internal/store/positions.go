package store

import "github.com/alvaro-cozano/organizer-cli/internal/models"

// PositionUpdated upserts one (user, board) grid coordinate tuple and
// mirrors the coordinates into the matching board's membership reference,
// which is what the board list sorts by. Applied optimistically before
// the batch call resolves; there is no rollback event on failure.
type PositionUpdated struct {
	Position models.UserBoardPosition
}

func (e PositionUpdated) apply(s *state) {
	for i := range s.boards {
		if s.boards[i].ID == e.Position.BoardID {
			s.boards[i].Membership.PosX = e.Position.PosX
			s.boards[i].Membership.PosY = e.Position.PosY
			break
		}
	}
	for i := range s.positions {
		if s.positions[i].UserID == e.Position.UserID &&
			s.positions[i].BoardID == e.Position.BoardID {
			s.positions[i].PosX = e.Position.PosX
			s.positions[i].PosY = e.Position.PosY
			return
		}
	}
	s.positions = append(s.positions, e.Position)
}

// Positions returns a copy of the cached coordinate tuples.
func (s *Store) Positions() []models.UserBoardPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.UserBoardPosition(nil), s.st.positions...)
}
