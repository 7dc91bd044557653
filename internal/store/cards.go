package store

import "github.com/alvaro-cozano/organizer-cli/internal/models"

// CardsLoaded replaces the flat card list (my-cards view).
type CardsLoaded struct {
	Cards []models.Card
}

func (e CardsLoaded) apply(s *state) {
	s.cards = append([]models.Card(nil), e.Cards...)
}

// BucketLoaded replaces one status bucket with the server's ordering.
type BucketLoaded struct {
	StatusID int64
	Cards    []models.Card
}

func (e BucketLoaded) apply(s *state) {
	s.cardsByStat[e.StatusID] = append([]models.Card(nil), e.Cards...)
}

// CardUpserted reconciles one saved card: replaced by identifier in the
// flat list (appended when new) and in its status bucket when that
// bucket is loaded. Bucket membership changes are handled by reloading
// buckets, not by this event.
type CardUpserted struct {
	Card models.Card
}

func (e CardUpserted) apply(s *state) {
	upsertCard(s, e.Card)
}

// CardsUpserted reconciles a batch save.
type CardsUpserted struct {
	Cards []models.Card
}

func (e CardsUpserted) apply(s *state) {
	for _, card := range e.Cards {
		upsertCard(s, card)
	}
}

func upsertCard(s *state, card models.Card) {
	replaced := false
	for i := range s.cards {
		if s.cards[i].ID == card.ID {
			s.cards[i] = card
			replaced = true
			break
		}
	}
	if !replaced {
		s.cards = append(s.cards, card)
	}

	bucket, ok := s.cardsByStat[card.StatusID]
	if !ok {
		return
	}
	for i := range bucket {
		if bucket[i].ID == card.ID {
			bucket[i] = card
			return
		}
	}
}

// CardRemoved drops a card from the flat list and from every bucket,
// not only the one it currently belongs to.
type CardRemoved struct {
	ID int64
}

func (e CardRemoved) apply(s *state) {
	kept := s.cards[:0]
	for _, c := range s.cards {
		if c.ID != e.ID {
			kept = append(kept, c)
		}
	}
	s.cards = kept

	for statusID, bucket := range s.cardsByStat {
		keptBucket := bucket[:0]
		for _, c := range bucket {
			if c.ID != e.ID {
				keptBucket = append(keptBucket, c)
			}
		}
		s.cardsByStat[statusID] = keptBucket
	}
}

// CardsCleared drops the flat list and every bucket, used when leaving
// a board view.
type CardsCleared struct{}

func (e CardsCleared) apply(s *state) {
	s.cards = nil
	s.cardsByStat = make(map[int64][]models.Card)
}

// Cards returns a copy of the flat card list.
func (s *Store) Cards() []models.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Card(nil), s.st.cards...)
}

// CardsByStatus returns a copy of one status bucket.
func (s *Store) CardsByStatus(statusID int64) []models.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Card(nil), s.st.cardsByStat[statusID]...)
}

// Card looks a card up by identifier across the flat list and buckets.
func (s *Store) Card(id int64) (models.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.st.cards {
		if c.ID == id {
			return c, true
		}
	}
	for _, bucket := range s.st.cardsByStat {
		for _, c := range bucket {
			if c.ID == id {
				return c, true
			}
		}
	}
	return models.Card{}, false
}
