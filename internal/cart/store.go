// Package cart owns the ordered collection of kiosk cart lines. Lines are
// created only from validated modifier selections and removed only by an
// explicit action or a full reset; quantity edits are floored at 1.
package cart

import (
	"github.com/lucsky/cuid"

	"github.com/paykiosk/paykiosk/internal/models"
)

// Store holds cart lines in the order they were added. Derived reads (count,
// subtotal) are recomputed on every call so they can never go stale.
type Store struct {
	lines []models.CartLine
}

func NewStore() *Store {
	return &Store{}
}

// AddLine appends a new line for a validated item selection and returns it.
// Quantities below 1 are coerced to 1.
func (s *Store) AddLine(item models.CatalogItem, quantity int, selected []models.SelectedModifier, instructions string, modifierDelta float64) models.CartLine {
	if quantity < 1 {
		quantity = 1
	}
	line := models.CartLine{
		ID:                  cuid.New(),
		Quantity:            quantity,
		Item:                item,
		SelectedModifiers:   selected,
		SpecialInstructions: instructions,
		ModifierDelta:       modifierDelta,
	}
	s.lines = append(s.lines, line)
	return line
}

// RemoveLine deletes a line entirely. Returns false when no line has that id.
func (s *Store) RemoveLine(id string) bool {
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateQty applies a quantity delta to a line, floored at 1. Dropping a line
// is never implicit; a decrement below 1 leaves the quantity at 1.
func (s *Store) UpdateQty(id string, delta int) bool {
	for i := range s.lines {
		if s.lines[i].ID == id {
			qty := s.lines[i].Quantity + delta
			if qty < 1 {
				qty = 1
			}
			s.lines[i].Quantity = qty
			return true
		}
	}
	return false
}

// Clear empties the cart. Used on checkout reset.
func (s *Store) Clear() {
	s.lines = nil
}

// Lines returns a copy of the cart lines in order.
func (s *Store) Lines() []models.CartLine {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of lines.
func (s *Store) Len() int {
	return len(s.lines)
}

// Count is the total item quantity across all lines.
func (s *Store) Count() int {
	var n int
	for i := range s.lines {
		n += s.lines[i].Quantity
	}
	return n
}

// Subtotal is the raw pre-discount subtotal:
// sum of (basePrice + lineModifierDelta) * qty across lines.
func (s *Store) Subtotal() float64 {
	var total float64
	for i := range s.lines {
		total += s.lines[i].Total()
	}
	return total
}
