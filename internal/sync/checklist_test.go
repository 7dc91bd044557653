package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
)

// checklistFixture is a fake server echoing checklist and card saves,
// counting each mutation endpoint.
type checklistFixture struct {
	mux       *http.ServeMux
	subSaves  atomic.Int32
	itemSaves atomic.Int32
	cardSaves atomic.Int32
}

func newChecklistFixture(t *testing.T) *checklistFixture {
	f := &checklistFixture{mux: http.NewServeMux()}
	echo := func(counter *atomic.Int32) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			counter.Add(1)
			var body json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			w.Write(body)
		}
	}
	f.mux.HandleFunc("PUT /checklist-subitems/{id}", echo(&f.subSaves))
	f.mux.HandleFunc("PUT /checklist-items/{id}", echo(&f.itemSaves))
	f.mux.HandleFunc("PUT /cards/{id}", echo(&f.cardSaves))
	return f
}

// seed puts a card with one checklist item and two sub-items in the
// cache: the first sub-item done, the second pending.
func seedChecklist(st *store.Store) (models.Card, models.ChecklistItem, models.ChecklistSubItem) {
	subs := []models.ChecklistSubItem{
		{ID: 100, Content: "done already", Done: true, ChecklistItemID: 10},
		{ID: 101, Content: "pending", Done: false, ChecklistItemID: 10},
	}
	item := models.ChecklistItem{ID: 10, Title: "item", CardID: 1}
	card := models.Card{ID: 1, CardTitle: "card", BoardID: 1, StatusID: 1}

	st.Dispatch(
		store.CardsLoaded{Cards: []models.Card{card}},
		store.BucketLoaded{StatusID: 1, Cards: []models.Card{card}},
		store.ChecklistItemsLoaded{CardID: 1, Items: []models.ChecklistItem{item}},
		store.SubItemsLoaded{ChecklistItemID: 10, SubItems: subs},
	)
	return card, item, subs[1]
}

func TestToggleSubItemPropagatesUpward(t *testing.T) {
	f := newChecklistFixture(t)
	st := store.New()
	card, item, pending := seedChecklist(st)

	client := newAPIClient(t, f.mux)
	cards := NewCards(client, st, nil)
	checklists := NewChecklists(client, st, cards, nil)

	// completing the last pending sub-item completes the item, which
	// finishes the card
	updated, err := checklists.ToggleSubItem(context.Background(), card, item, pending)
	if err != nil {
		t.Fatalf("ToggleSubItem: %v", err)
	}

	if f.subSaves.Load() != 1 {
		t.Errorf("sub-item saves = %d, want 1", f.subSaves.Load())
	}
	if f.itemSaves.Load() != 1 {
		t.Errorf("item saves = %d, want 1", f.itemSaves.Load())
	}
	if f.cardSaves.Load() != 1 {
		t.Errorf("card saves = %d, want 1", f.cardSaves.Load())
	}
	if !updated.Finished {
		t.Error("returned card not finished")
	}

	items := st.ChecklistItemsByCard(1)
	if len(items) != 1 || !items[0].Completed {
		t.Errorf("cached item = %+v, want completed", items)
	}
}

func TestToggleSubItemWithoutTransitionSavesOnlyTheSub(t *testing.T) {
	f := newChecklistFixture(t)
	st := store.New()
	card, item, _ := seedChecklist(st)

	client := newAPIClient(t, f.mux)
	cards := NewCards(client, st, nil)
	checklists := NewChecklists(client, st, cards, nil)

	// un-doing the first sub-item: the item was not completed before and
	// still is not, so nothing propagates
	doneSub := st.SubItemsByChecklistItem(10)[0]
	if _, err := checklists.ToggleSubItem(context.Background(), card, item, doneSub); err != nil {
		t.Fatalf("ToggleSubItem: %v", err)
	}

	if f.subSaves.Load() != 1 {
		t.Errorf("sub-item saves = %d, want 1", f.subSaves.Load())
	}
	if f.itemSaves.Load() != 0 {
		t.Errorf("item saves = %d, want 0", f.itemSaves.Load())
	}
	if f.cardSaves.Load() != 0 {
		t.Errorf("card saves = %d, want 0", f.cardSaves.Load())
	}
}

func TestToggleItemSyncsSubItems(t *testing.T) {
	f := newChecklistFixture(t)
	st := store.New()
	card, item, _ := seedChecklist(st)

	client := newAPIClient(t, f.mux)
	cards := NewCards(client, st, nil)
	checklists := NewChecklists(client, st, cards, nil)

	// completing the item marks the one pending sub-item to match and
	// finishes the card
	if _, err := checklists.ToggleItem(context.Background(), card, item); err != nil {
		t.Fatalf("ToggleItem: %v", err)
	}

	if f.itemSaves.Load() != 1 {
		t.Errorf("item saves = %d, want 1", f.itemSaves.Load())
	}
	if f.subSaves.Load() != 1 {
		t.Errorf("sub-item saves = %d, want 1 (only the pending one)", f.subSaves.Load())
	}
	if f.cardSaves.Load() != 1 {
		t.Errorf("card saves = %d, want 1", f.cardSaves.Load())
	}

	for _, sub := range st.SubItemsByChecklistItem(10) {
		if !sub.Done {
			t.Errorf("sub-item %d not marked done", sub.ID)
		}
	}
}
