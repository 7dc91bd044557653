package localstore

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "organizer.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTokenRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if got := store.Token(); got != "" {
		t.Errorf("fresh store token = %q, want empty", got)
	}

	before := time.Now().Add(-time.Second)
	if err := store.SetToken("jwt-value"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	if got := store.Token(); got != "jwt-value" {
		t.Errorf("Token() = %q, want jwt-value", got)
	}
	issued := store.TokenIssuedAt()
	if issued.Before(before) || issued.After(time.Now().Add(time.Second)) {
		t.Errorf("TokenIssuedAt() = %v, not close to now", issued)
	}
}

func TestSetTokenOverwrites(t *testing.T) {
	store := newTestStore(t)
	if err := store.SetToken("first"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := store.SetToken("second"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if got := store.Token(); got != "second" {
		t.Errorf("Token() = %q, want second", got)
	}
}

func TestLastView(t *testing.T) {
	store := newTestStore(t)
	if got := store.LastView(); got != "" {
		t.Errorf("fresh store last view = %q, want empty", got)
	}
	if err := store.SetLastView("agenda"); err != nil {
		t.Fatalf("SetLastView: %v", err)
	}
	if got := store.LastView(); got != "agenda" {
		t.Errorf("LastView() = %q, want agenda", got)
	}
}

func TestClearWipesEverything(t *testing.T) {
	store := newTestStore(t)
	if err := store.SetToken("jwt"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := store.SetLastView("agenda"); err != nil {
		t.Fatalf("SetLastView: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if store.Token() != "" || store.LastView() != "" {
		t.Error("settings survived Clear")
	}
	if !store.TokenIssuedAt().IsZero() {
		t.Error("issuance time survived Clear")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "organizer.db")
	store, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if err := store.SetToken("durable"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	store.Close()

	reopened, err := OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if got := reopened.Token(); got != "durable" {
		t.Errorf("Token() after reopen = %q, want durable", got)
	}
}
