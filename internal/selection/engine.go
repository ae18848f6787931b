// Package selection enforces per-group modifier rules for a candidate cart
// line: single/multiple/quantity toggling, required-group satisfaction and the
// price delta of the current choices. A cart line may only be created from a
// Selection whose required groups are all satisfied.
package selection

import (
	"errors"
	"fmt"

	"github.com/paykiosk/paykiosk/internal/models"
)

// ErrNotQuantityGroup is returned when AdjustQuantity is called on a group
// whose selection type is not "quantity".
var ErrNotQuantityGroup = errors.New("selection: quantity adjustment only valid for quantity-type groups")

// Selection tracks the customer's in-progress modifier choices for one item.
type Selection struct {
	groups     []models.ModifierGroup
	selections map[string][]string // group id -> selected modifier ids, in pick order
	quantities map[string]int      // "groupID::modifierID" -> quantity
}

func quantityKey(groupID, modifierID string) string {
	return fmt.Sprintf("%s::%s", groupID, modifierID)
}

// New opens a selection over the item's modifier groups. Modifiers flagged as
// defaults are pre-selected per group, skipping unavailable ones.
func New(groups []models.ModifierGroup) *Selection {
	s := &Selection{
		groups:     groups,
		selections: make(map[string][]string),
		quantities: make(map[string]int),
	}
	for _, group := range groups {
		for _, mod := range group.Modifiers {
			if mod.Default && mod.IsAvailable() {
				s.selections[group.ID] = append(s.selections[group.ID], mod.ID)
			}
		}
	}
	return s
}

func (s *Selection) group(groupID string) *models.ModifierGroup {
	for i := range s.groups {
		if s.groups[i].ID == groupID {
			return &s.groups[i]
		}
	}
	return nil
}

func (s *Selection) modifier(group *models.ModifierGroup, modifierID string) *models.Modifier {
	for i := range group.Modifiers {
		if group.Modifiers[i].ID == modifierID {
			return &group.Modifiers[i]
		}
	}
	return nil
}

func (s *Selection) isSelected(groupID, modifierID string) bool {
	for _, id := range s.selections[groupID] {
		if id == modifierID {
			return true
		}
	}
	return false
}

func (s *Selection) deselect(groupID, modifierID string) {
	cur := s.selections[groupID]
	next := make([]string, 0, len(cur))
	for _, id := range cur {
		if id != modifierID {
			next = append(next, id)
		}
	}
	s.selections[groupID] = next
}

// Toggle flips a modifier in a single- or multiple-select group. In a
// single-select group the new pick replaces any prior one, and toggling the
// active pick clears the group. In a multiple-select group an add is a no-op
// when the group is already at maxSelect. Returns whether the state changed.
func (s *Selection) Toggle(groupID, modifierID string) bool {
	group := s.group(groupID)
	if group == nil || group.SelectionType == models.SelectionQuantity {
		return false
	}
	mod := s.modifier(group, modifierID)
	if mod == nil || !mod.IsAvailable() {
		return false
	}

	selected := s.isSelected(groupID, modifierID)
	if group.IsSingle() {
		if selected {
			s.selections[groupID] = nil
		} else {
			s.selections[groupID] = []string{modifierID}
		}
		return true
	}

	if selected {
		s.deselect(groupID, modifierID)
		return true
	}
	if group.MaxSelect > 0 && len(s.selections[groupID]) >= group.MaxSelect {
		return false
	}
	s.selections[groupID] = append(s.selections[groupID], modifierID)
	return true
}

// AdjustQuantity steps a modifier's counter in a quantity-type group. The
// counter is floored at 0; reaching 0 deselects the modifier and a positive
// counter on an unselected modifier selects it. An untouched counter starts
// at the implicit 1 every selected modifier carries.
func (s *Selection) AdjustQuantity(groupID, modifierID string, delta int) error {
	group := s.group(groupID)
	if group == nil {
		return fmt.Errorf("selection: unknown group %q", groupID)
	}
	if group.SelectionType != models.SelectionQuantity {
		return ErrNotQuantityGroup
	}
	mod := s.modifier(group, modifierID)
	if mod == nil {
		return fmt.Errorf("selection: unknown modifier %q in group %q", modifierID, groupID)
	}
	if !mod.IsAvailable() {
		return fmt.Errorf("selection: modifier %q is unavailable", modifierID)
	}

	key := quantityKey(groupID, modifierID)
	cur, ok := s.quantities[key]
	if !ok {
		cur = 1
	}
	next := cur + delta
	if next < 0 {
		next = 0
	}
	s.quantities[key] = next

	if next == 0 {
		s.deselect(groupID, modifierID)
	} else if !s.isSelected(groupID, modifierID) {
		s.selections[groupID] = append(s.selections[groupID], modifierID)
	}
	return nil
}

// IsGroupSatisfied is true when the group is optional or holds at least its
// minimum number of selections.
func (s *Selection) IsGroupSatisfied(groupID string) bool {
	group := s.group(groupID)
	if group == nil || !group.Required {
		return true
	}
	return len(s.selections[groupID]) >= group.EffectiveMinSelect()
}

// AllRequiredSatisfied gates the add-to-cart action.
func (s *Selection) AllRequiredSatisfied() bool {
	for _, group := range s.groups {
		if !s.IsGroupSatisfied(group.ID) {
			return false
		}
	}
	return true
}

// ModifierTotal is the per-unit price delta of the current selections.
// Quantity-type selections multiply by their counter (implicit 1 when unset).
func (s *Selection) ModifierTotal() float64 {
	var total float64
	for _, group := range s.groups {
		for _, modID := range s.selections[group.ID] {
			mod := s.modifier(&group, modID)
			if mod == nil {
				continue
			}
			if group.SelectionType == models.SelectionQuantity {
				qty, ok := s.quantities[quantityKey(group.ID, modID)]
				if !ok {
					qty = 1
				}
				total += mod.PriceAdjustment * float64(qty)
			} else {
				total += mod.PriceAdjustment
			}
		}
	}
	return total
}

// SelectedCount returns how many modifiers are selected in a group.
func (s *Selection) SelectedCount(groupID string) int {
	return len(s.selections[groupID])
}

// IsSelected reports whether a modifier is currently selected.
func (s *Selection) IsSelected(groupID, modifierID string) bool {
	return s.isSelected(groupID, modifierID)
}

// Quantity returns the counter for a quantity-group modifier; selected
// modifiers without an explicit counter report 1, unselected ones 0.
func (s *Selection) Quantity(groupID, modifierID string) int {
	if !s.isSelected(groupID, modifierID) {
		return 0
	}
	if qty, ok := s.quantities[quantityKey(groupID, modifierID)]; ok {
		return qty
	}
	return 1
}

// Build freezes the current choices into SelectedModifier values, group by
// group in selection order. Only quantity-type selections carry a quantity.
func (s *Selection) Build() []models.SelectedModifier {
	var out []models.SelectedModifier
	for _, group := range s.groups {
		for _, modID := range s.selections[group.ID] {
			mod := s.modifier(&group, modID)
			if mod == nil {
				continue
			}
			sel := models.SelectedModifier{
				GroupID:         group.ID,
				ModifierID:      mod.ID,
				Name:            mod.Name,
				PriceAdjustment: mod.PriceAdjustment,
			}
			if group.SelectionType == models.SelectionQuantity {
				qty, ok := s.quantities[quantityKey(group.ID, modID)]
				if !ok {
					qty = 1
				}
				sel.Quantity = qty
			}
			out = append(out, sel)
		}
	}
	return out
}
