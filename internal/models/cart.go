package models

// CartLine is one customized item entry in the kiosk cart. Two lines may hold
// the same catalog item with different modifier selections.
type CartLine struct {
	ID                  string             `json:"id"`
	Quantity            int                `json:"qty"`
	Item                CatalogItem        `json:"item"`
	SelectedModifiers   []SelectedModifier `json:"selectedModifiers,omitempty"`
	SpecialInstructions string             `json:"specialInstructions,omitempty"`
	// ModifierDelta is the per-unit price adjustment from the selected
	// modifiers, computed by the selection engine before the line existed.
	ModifierDelta float64 `json:"lineModifierDelta,omitempty"`
}

// UnitPrice is the base item price plus the line's modifier delta.
func (l *CartLine) UnitPrice() float64 {
	return l.Item.Price + l.ModifierDelta
}

// Total is the full price of the line.
func (l *CartLine) Total() float64 {
	return l.UnitPrice() * float64(l.Quantity)
}
