// Package history keeps the bounded, newest-first record of hint cards
// shown to the classroom UI.
package history

import (
	"sync"

	"github.com/lingohint/server/domain/entities"
)

// DefaultCapacity bounds the history when no explicit capacity is given.
const DefaultCapacity = 20

// CardHistory is an ordered, capacity-bounded buffer of hint cards,
// newest first. Insertion beyond capacity evicts from the tail.
//
// Whether empty cards belong in history is the caller's decision; the
// history stores whatever it is given, including explicitly empty cards.
type CardHistory struct {
	mu       sync.Mutex
	cards    []entities.HintCard
	capacity int
}

// New creates a history bounded to capacity cards. Non-positive
// capacities fall back to DefaultCapacity.
func New(capacity int) *CardHistory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &CardHistory{capacity: capacity}
}

// Push prepends card and evicts the oldest entries beyond capacity.
func (h *CardHistory) Push(card entities.HintCard) {
	card.Normalize()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cards = append([]entities.HintCard{card}, h.cards...)
	if len(h.cards) > h.capacity {
		h.cards = h.cards[:h.capacity]
	}
}

// Items returns a copy of the stored cards, newest first.
func (h *CardHistory) Items() []entities.HintCard {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]entities.HintCard, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of stored cards.
func (h *CardHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.cards)
}
