package store

import "github.com/alvaro-cozano/organizer-cli/internal/models"

// ChecklistItemsLoaded replaces one card's checklist bucket.
type ChecklistItemsLoaded struct {
	CardID int64
	Items  []models.ChecklistItem
}

func (e ChecklistItemsLoaded) apply(s *state) {
	s.itemsByCard[e.CardID] = append([]models.ChecklistItem(nil), e.Items...)
}

// ChecklistItemUpserted replaces an item by identifier in its card
// bucket, appending when new.
type ChecklistItemUpserted struct {
	Item models.ChecklistItem
}

func (e ChecklistItemUpserted) apply(s *state) {
	items := s.itemsByCard[e.Item.CardID]
	for i := range items {
		if items[i].ID == e.Item.ID {
			items[i] = e.Item
			return
		}
	}
	s.itemsByCard[e.Item.CardID] = append(items, e.Item)
}

// ChecklistItemRemoved drops an item and its cached sub-items.
type ChecklistItemRemoved struct {
	ID     int64
	CardID int64
}

func (e ChecklistItemRemoved) apply(s *state) {
	items := s.itemsByCard[e.CardID]
	kept := items[:0]
	for _, it := range items {
		if it.ID != e.ID {
			kept = append(kept, it)
		}
	}
	s.itemsByCard[e.CardID] = kept
	delete(s.subsByItem, e.ID)
}

// SubItemsLoaded replaces one item's sub-item bucket.
type SubItemsLoaded struct {
	ChecklistItemID int64
	SubItems        []models.ChecklistSubItem
}

func (e SubItemsLoaded) apply(s *state) {
	s.subsByItem[e.ChecklistItemID] = append([]models.ChecklistSubItem(nil), e.SubItems...)
}

// SubItemUpserted replaces a sub-item by identifier, appending when new.
type SubItemUpserted struct {
	SubItem models.ChecklistSubItem
}

func (e SubItemUpserted) apply(s *state) {
	subs := s.subsByItem[e.SubItem.ChecklistItemID]
	for i := range subs {
		if subs[i].ID == e.SubItem.ID {
			subs[i] = e.SubItem
			return
		}
	}
	s.subsByItem[e.SubItem.ChecklistItemID] = append(subs, e.SubItem)
}

// SubItemRemoved drops a sub-item from its parent bucket.
type SubItemRemoved struct {
	ID              int64
	ChecklistItemID int64
}

func (e SubItemRemoved) apply(s *state) {
	subs := s.subsByItem[e.ChecklistItemID]
	kept := subs[:0]
	for _, sub := range subs {
		if sub.ID != e.ID {
			kept = append(kept, sub)
		}
	}
	s.subsByItem[e.ChecklistItemID] = kept
}

// ChecklistItemsByCard returns a copy of one card's checklist, with each
// item's cached sub-items attached.
func (s *Store) ChecklistItemsByCard(cardID int64) []models.ChecklistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := append([]models.ChecklistItem(nil), s.st.itemsByCard[cardID]...)
	for i := range items {
		if subs, ok := s.st.subsByItem[items[i].ID]; ok {
			items[i].SubItems = append([]models.ChecklistSubItem(nil), subs...)
		}
	}
	return items
}

// SubItemsByChecklistItem returns a copy of one item's sub-items.
func (s *Store) SubItemsByChecklistItem(itemID int64) []models.ChecklistSubItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ChecklistSubItem(nil), s.st.subsByItem[itemID]...)
}
