package store

import (
	"testing"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

func TestBoardsLoadedReplaces(t *testing.T) {
	s := New()
	s.Dispatch(BoardsLoaded{Boards: []models.Board{{ID: 1, BoardName: "one"}, {ID: 2, BoardName: "two"}}})
	s.Dispatch(BoardsLoaded{Boards: []models.Board{{ID: 2, BoardName: "two renamed"}}})

	boards := s.Boards()
	if len(boards) != 1 {
		t.Fatalf("got %d boards, want 1", len(boards))
	}
	if boards[0].BoardName != "two renamed" {
		t.Errorf("board name = %q, want %q", boards[0].BoardName, "two renamed")
	}
}

func TestBoardsLoadedIsIdempotent(t *testing.T) {
	s := New()
	payload := []models.Board{{ID: 1}, {ID: 2}}
	s.Dispatch(BoardsLoaded{Boards: payload})
	s.Dispatch(BoardsLoaded{Boards: payload})

	if got := len(s.Boards()); got != 2 {
		t.Errorf("got %d boards after repeated load, want 2", got)
	}
}

func TestBoardUpdatedPreservesOrder(t *testing.T) {
	s := New()
	s.Dispatch(BoardsLoaded{Boards: []models.Board{{ID: 1}, {ID: 2}, {ID: 3}}})
	s.Dispatch(BoardUpdated{Board: models.Board{ID: 2, BoardName: "renamed"}})

	boards := s.Boards()
	if boards[1].ID != 2 || boards[1].BoardName != "renamed" {
		t.Errorf("boards[1] = %+v, want id 2 renamed", boards[1])
	}
}

func TestSelectorsReturnCopies(t *testing.T) {
	s := New()
	s.Dispatch(BoardsLoaded{Boards: []models.Board{{ID: 1, BoardName: "original"}}})

	got := s.Boards()
	got[0].BoardName = "mutated"

	if name := s.Boards()[0].BoardName; name != "original" {
		t.Errorf("cache mutated through selector result: %q", name)
	}
}

func TestCardRemovedClearsEveryBucket(t *testing.T) {
	s := New()
	card := models.Card{ID: 9, CardTitle: "stray", StatusID: 1}
	s.Dispatch(
		CardsLoaded{Cards: []models.Card{card}},
		BucketLoaded{StatusID: 1, Cards: []models.Card{card}},
		// simulate a stale duplicate left in another bucket
		BucketLoaded{StatusID: 2, Cards: []models.Card{card}},
	)

	s.Dispatch(CardRemoved{ID: 9})

	if _, ok := s.Card(9); ok {
		t.Error("card still present in flat collection")
	}
	for _, statusID := range []int64{1, 2} {
		for _, c := range s.CardsByStatus(statusID) {
			if c.ID == 9 {
				t.Errorf("card still present in bucket %d", statusID)
			}
		}
	}
}

func TestCardUpsertedReplacesInBucket(t *testing.T) {
	s := New()
	s.Dispatch(BucketLoaded{StatusID: 1, Cards: []models.Card{{ID: 1, CardTitle: "old", StatusID: 1}}})
	s.Dispatch(CardUpserted{Card: models.Card{ID: 1, CardTitle: "new", StatusID: 1}})

	cards := s.CardsByStatus(1)
	if len(cards) != 1 || cards[0].CardTitle != "new" {
		t.Errorf("bucket = %+v, want single card titled new", cards)
	}
}

func TestStatusRemovedDropsItsBucket(t *testing.T) {
	s := New()
	s.Dispatch(
		StatusesLoaded{Statuses: []models.Status{{ID: 1, Name: "todo"}, {ID: 2, Name: "doing"}}},
		BucketLoaded{StatusID: 1, Cards: []models.Card{{ID: 5, StatusID: 1}}},
	)
	s.Dispatch(StatusRemoved{ID: 1})

	if got := len(s.Statuses()); got != 1 {
		t.Fatalf("got %d statuses, want 1", got)
	}
	if got := s.CardsByStatus(1); len(got) != 0 {
		t.Errorf("deleted status still has %d cards cached", len(got))
	}
}

func TestChecklistSelectorsAttachSubItems(t *testing.T) {
	s := New()
	s.Dispatch(
		ChecklistItemsLoaded{CardID: 1, Items: []models.ChecklistItem{{ID: 10, CardID: 1, Title: "item"}}},
		SubItemsLoaded{ChecklistItemID: 10, SubItems: []models.ChecklistSubItem{{ID: 100, ChecklistItemID: 10, Done: true}}},
	)

	items := s.ChecklistItemsByCard(1)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if len(items[0].SubItems) != 1 || !items[0].SubItems[0].Done {
		t.Errorf("sub-items not attached: %+v", items[0].SubItems)
	}
}

func TestChecklistItemRemovedDropsSubItems(t *testing.T) {
	s := New()
	s.Dispatch(
		ChecklistItemsLoaded{CardID: 1, Items: []models.ChecklistItem{{ID: 10, CardID: 1}}},
		SubItemsLoaded{ChecklistItemID: 10, SubItems: []models.ChecklistSubItem{{ID: 100, ChecklistItemID: 10}}},
	)
	s.Dispatch(ChecklistItemRemoved{ID: 10, CardID: 1})

	if got := s.SubItemsByChecklistItem(10); len(got) != 0 {
		t.Errorf("orphaned sub-items survived item removal: %+v", got)
	}
}

func TestLabelRemovedScansAllBoards(t *testing.T) {
	s := New()
	s.Dispatch(
		LabelsLoaded{BoardID: 1, Labels: []models.Label{{ID: 1, BoardID: 1}}},
		LabelsLoaded{BoardID: 2, Labels: []models.Label{{ID: 2, BoardID: 2}}},
	)
	s.Dispatch(LabelRemoved{ID: 2})

	if got := len(s.LabelsByBoard(1)); got != 1 {
		t.Errorf("board 1 labels = %d, want 1", got)
	}
	if got := len(s.LabelsByBoard(2)); got != 0 {
		t.Errorf("board 2 labels = %d, want 0", got)
	}
}

func TestPositionUpdatedUpsertsByUserAndBoard(t *testing.T) {
	s := New()
	s.Dispatch(PositionUpdated{Position: models.UserBoardPosition{UserID: 1, BoardID: 1, PosX: 0, PosY: 0}})
	s.Dispatch(PositionUpdated{Position: models.UserBoardPosition{UserID: 1, BoardID: 1, PosX: 3, PosY: 1}})

	positions := s.Positions()
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	if positions[0].PosX != 3 || positions[0].PosY != 1 {
		t.Errorf("position = %+v, want (3,1)", positions[0])
	}
}

func TestPositionUpdatedMirrorsBoardMembership(t *testing.T) {
	s := New()
	s.Dispatch(BoardsLoaded{Boards: []models.Board{
		{ID: 7, Membership: models.MembershipRef{PosX: 0, PosY: 2, IsAdmin: true}},
	}})
	s.Dispatch(PositionUpdated{Position: models.UserBoardPosition{BoardID: 7, PosX: 4, PosY: 1}})

	board, ok := s.Board(7)
	if !ok {
		t.Fatal("board 7 missing")
	}
	if board.Membership.PosX != 4 || board.Membership.PosY != 1 {
		t.Errorf("membership = %+v, want (4,1)", board.Membership)
	}
	if !board.Membership.IsAdmin {
		t.Error("admin flag lost on position update")
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := New()
	s.Dispatch(
		BoardsLoaded{Boards: []models.Board{{ID: 1}}},
		CardsLoaded{Cards: []models.Card{{ID: 1}}},
		StatusesLoaded{Statuses: []models.Status{{ID: 1}}},
	)
	s.Reset()

	if len(s.Boards()) != 0 || len(s.Cards()) != 0 || len(s.Statuses()) != 0 {
		t.Error("reset left cached state behind")
	}
}
