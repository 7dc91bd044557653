package models

import "math"

// Progress returns the card's completion percentage, derived on read.
// A finished card is always 100 regardless of checklist state. Otherwise
// it is the mean across checklist items of: 1 for a completed item, else
// the fraction of its sub-items marked done. A card with no checklist
// reports 0.
func Progress(card Card) int {
	if card.Finished {
		return 100
	}
	if len(card.ChecklistItems) == 0 {
		return 0
	}

	var completed float64
	for _, item := range card.ChecklistItems {
		switch {
		case item.Completed:
			completed++
		case len(item.SubItems) > 0:
			done := 0
			for _, sub := range item.SubItems {
				if sub.Done {
					done++
				}
			}
			completed += float64(done) / float64(len(item.SubItems))
		}
	}

	return int(math.Round(completed / float64(len(card.ChecklistItems)) * 100))
}

// ItemCompleted derives a checklist item's completed flag: an item with
// sub-items is completed exactly when every sub-item is done. An item
// without sub-items keeps its stored flag.
func ItemCompleted(item ChecklistItem) bool {
	if len(item.SubItems) == 0 {
		return item.Completed
	}
	for _, sub := range item.SubItems {
		if !sub.Done {
			return false
		}
	}
	return true
}

// CardFinished derives a card's finished flag from its checklist: true
// when every item is completed (per ItemCompleted) and the checklist is
// non-empty. Cards without a checklist keep their stored flag.
func CardFinished(card Card) bool {
	if len(card.ChecklistItems) == 0 {
		return card.Finished
	}
	for _, item := range card.ChecklistItems {
		if !ItemCompleted(item) {
			return false
		}
	}
	return true
}
