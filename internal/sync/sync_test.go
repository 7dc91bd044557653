package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
)

// fakeCreds satisfies Credentials with in-memory state.
type fakeCreds struct {
	token   string
	cleared bool
}

func (f *fakeCreds) SetToken(token string) error { f.token = token; return nil }
func (f *fakeCreds) Clear() error                { f.cleared = true; return nil }

func newAPIClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := api.NewClient(api.ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func pathID(t *testing.T, r *http.Request, name string) int64 {
	t.Helper()
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		t.Fatalf("path value %s: %v", name, err)
	}
	return id
}

func TestBoardSavePreservesMembership(t *testing.T) {
	var sent models.Board
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /boards/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Fatalf("decode board: %v", err)
		}
		writeJSON(t, w, sent)
	})
	mux.HandleFunc("GET /boards/my-boards", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []models.Board{sent})
	})

	st := store.New()
	st.Dispatch(store.BoardsLoaded{Boards: []models.Board{{
		ID:         4,
		BoardName:  "old name",
		Membership: models.MembershipRef{PosX: 2, PosY: 1, IsAdmin: true},
	}}})

	boards := NewBoards(newAPIClient(t, mux), st, nil)
	// the edit form sends no membership reference
	err := boards.Save(context.Background(), models.Board{ID: 4, BoardName: "new name"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	want := models.MembershipRef{PosX: 2, PosY: 1, IsAdmin: true}
	if sent.Membership != want {
		t.Errorf("outgoing membership = %+v, want %+v", sent.Membership, want)
	}
}

func TestBoardSaveCreateThenReload(t *testing.T) {
	var loads atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /boards", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, models.Board{ID: 10, BoardName: "fresh"})
	})
	mux.HandleFunc("GET /boards/my-boards", func(w http.ResponseWriter, r *http.Request) {
		loads.Add(1)
		writeJSON(t, w, []models.Board{{ID: 10, BoardName: "fresh"}})
	})

	st := store.New()
	boards := NewBoards(newAPIClient(t, mux), st, nil)
	if err := boards.Save(context.Background(), models.Board{BoardName: "fresh"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if loads.Load() != 1 {
		t.Errorf("collection reloaded %d times, want 1", loads.Load())
	}
	if _, ok := st.Board(10); !ok {
		t.Error("created board missing from cache")
	}
}

// moveFixture is a fake server for a board with two statuses and one
// card that moves between them.
type moveFixture struct {
	t       *testing.T
	mux     *http.ServeMux
	buckets map[int64][]models.Card
	loads   map[int64]*atomic.Int32
	updates atomic.Int32
	bulk    atomic.Int32
}

func newMoveFixture(t *testing.T) *moveFixture {
	f := &moveFixture{
		t:       t,
		mux:     http.NewServeMux(),
		buckets: map[int64][]models.Card{},
		loads:   map[int64]*atomic.Int32{1: {}, 2: {}},
	}
	f.mux.HandleFunc("PUT /cards/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.updates.Add(1)
		var card models.Card
		if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
			t.Fatalf("decode card: %v", err)
		}
		// relocate the card server-side
		for statusID, bucket := range f.buckets {
			kept := bucket[:0]
			for _, c := range bucket {
				if c.ID != card.ID {
					kept = append(kept, c)
				}
			}
			f.buckets[statusID] = kept
		}
		f.buckets[card.StatusID] = append(f.buckets[card.StatusID], card)
		writeJSON(t, w, card)
	})
	f.mux.HandleFunc("PUT /cards/bulk", func(w http.ResponseWriter, r *http.Request) {
		f.bulk.Add(1)
		var batch []models.Card
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			t.Fatalf("decode batch: %v", err)
		}
		if len(batch) > 0 {
			f.buckets[batch[0].StatusID] = batch
		}
		writeJSON(t, w, batch)
	})
	f.mux.HandleFunc("GET /cards/boards/{boardID}/cards/status-id/{statusID}", func(w http.ResponseWriter, r *http.Request) {
		statusID := pathID(t, r, "statusID")
		f.loads[statusID].Add(1)
		writeJSON(t, w, f.buckets[statusID])
	})
	return f
}

func TestCardMoveRefreshesBothBuckets(t *testing.T) {
	f := newMoveFixture(t)
	card := models.Card{ID: 7, CardTitle: "migrating", BoardID: 1, StatusID: 1}
	f.buckets[1] = []models.Card{card}

	st := store.New()
	st.Dispatch(
		store.BucketLoaded{StatusID: 1, Cards: []models.Card{card}},
		store.BucketLoaded{StatusID: 2, Cards: nil},
	)

	cards := NewCards(newAPIClient(t, f.mux), st, nil)
	moved := card
	moved.PrevStatusID = moved.StatusID
	moved.StatusID = 2
	if _, err := cards.Save(context.Background(), moved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if f.loads[1].Load() != 1 || f.loads[2].Load() != 1 {
		t.Errorf("bucket loads = (%d, %d), want (1, 1)", f.loads[1].Load(), f.loads[2].Load())
	}
	for _, c := range st.CardsByStatus(1) {
		if c.ID == 7 {
			t.Error("card still cached in origin bucket")
		}
	}
	found := false
	for _, c := range st.CardsByStatus(2) {
		if c.ID == 7 {
			found = true
		}
	}
	if !found {
		t.Error("card missing from destination bucket")
	}
}

func TestReorderIsOneRequest(t *testing.T) {
	f := newMoveFixture(t)
	bucket := []models.Card{
		{ID: 1, BoardID: 1, StatusID: 1, Position: 0},
		{ID: 2, BoardID: 1, StatusID: 1, Position: 1},
		{ID: 3, BoardID: 1, StatusID: 1, Position: 2},
	}
	f.buckets[1] = bucket

	st := store.New()
	st.Dispatch(store.BucketLoaded{StatusID: 1, Cards: bucket})

	cards := NewCards(newAPIClient(t, f.mux), st, nil)
	reordered := []models.Card{bucket[2], bucket[0], bucket[1]}
	for i := range reordered {
		reordered[i].Position = i
	}
	if err := cards.SaveAll(context.Background(), 1, reordered); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	if f.bulk.Load() != 1 {
		t.Errorf("bulk endpoint hit %d times, want 1", f.bulk.Load())
	}
	if f.updates.Load() != 0 {
		t.Errorf("per-card endpoint hit %d times, want 0", f.updates.Load())
	}
	if f.loads[1].Load() != 0 {
		t.Errorf("in-column reorder reloaded the bucket %d times, want 0", f.loads[1].Load())
	}

	got := st.CardsByStatus(1)
	if len(got) != 3 || got[0].ID != 3 {
		t.Errorf("bucket order = %+v, want card 3 first", got)
	}
}

func TestDeleteRemovesAndReloadsBucket(t *testing.T) {
	f := newMoveFixture(t)
	card := models.Card{ID: 7, BoardID: 1, StatusID: 1}
	f.buckets[1] = nil // server already forgot the card
	f.mux.HandleFunc("DELETE /cards/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	st := store.New()
	st.Dispatch(store.BucketLoaded{StatusID: 1, Cards: []models.Card{card}})

	cards := NewCards(newAPIClient(t, f.mux), st, nil)
	if err := cards.Delete(context.Background(), 7, 1, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := st.Card(7); ok {
		t.Error("deleted card still cached")
	}
	if f.loads[1].Load() != 1 {
		t.Errorf("bucket reloaded %d times, want 1", f.loads[1].Load())
	}
}

func TestRegisterMismatchMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	auth := NewAuth(newAPIClient(t, handler), store.New(), &fakeCreds{}, nil)
	err := auth.Register(context.Background(), RegisterForm{
		Email:           "a@b.c",
		Username:        "a",
		Password:        "one",
		PasswordConfirm: "two",
	})

	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("err = %v, want ErrPasswordMismatch", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server saw %d requests, want 0", calls.Load())
	}
}

func TestLoginStoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.AuthResponse{Token: "jwt-here", Username: "alvaro"})
	})

	creds := &fakeCreds{}
	auth := NewAuth(newAPIClient(t, mux), store.New(), creds, nil)
	username, err := auth.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if username != "alvaro" {
		t.Errorf("username = %q, want alvaro", username)
	}
	if creds.token != "jwt-here" {
		t.Errorf("stored token = %q, want jwt-here", creds.token)
	}
}

func TestCheckTokenFailureLogsOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/check-token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"expired"}`))
	})

	st := store.New()
	st.Dispatch(store.BoardsLoaded{Boards: []models.Board{{ID: 1}}})
	creds := &fakeCreds{token: "stale"}
	auth := NewAuth(newAPIClient(t, mux), st, creds, nil)

	if _, err := auth.CheckToken(context.Background()); err == nil {
		t.Fatal("expected error from rejected token")
	}
	if !creds.cleared {
		t.Error("credentials not cleared after rejection")
	}
	if len(st.Boards()) != 0 {
		t.Error("cached collections survived logout")
	}
}

func TestPositionSwapReordersCachedBoards(t *testing.T) {
	var batch []models.UserBoardPosition
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /user-board/position", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			t.Fatalf("decode batch: %v", err)
		}
	})

	st := store.New()
	st.Dispatch(store.BoardsLoaded{Boards: []models.Board{
		{ID: 1, BoardName: "first", Membership: models.MembershipRef{PosX: 0, PosY: 0}},
		{ID: 2, BoardName: "second", Membership: models.MembershipRef{PosX: 1, PosY: 0}},
	}})

	positions := NewPositions(newAPIClient(t, mux), st, nil)
	err := positions.Update(context.Background(),
		models.UserBoardPosition{BoardID: 1, PosX: 1, PosY: 0},
		models.UserBoardPosition{BoardID: 2, PosX: 0, PosY: 0},
	)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("batch size = %d, want 2", len(batch))
	}

	// The board list sorts by membership coordinates, so the swap must
	// land in the boards collection, not just the positions one.
	for _, board := range st.Boards() {
		switch board.ID {
		case 1:
			if board.Membership.PosX != 1 {
				t.Errorf("board 1 PosX = %d, want 1", board.Membership.PosX)
			}
		case 2:
			if board.Membership.PosX != 0 {
				t.Errorf("board 2 PosX = %d, want 0", board.Membership.PosX)
			}
		}
	}
}

func TestGuardDropsStaleGeneration(t *testing.T) {
	var g guard
	first := g.begin(1)
	second := g.begin(1)

	if !g.stale(1, first) {
		t.Error("older generation not reported stale")
	}
	if g.stale(1, second) {
		t.Error("newest generation reported stale")
	}
	if g.stale(2, 0) {
		t.Error("unrelated entity reported stale")
	}
}
