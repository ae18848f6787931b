package models

import "encoding/json"

// SelectionType is the constraint mode of a modifier group.
type SelectionType string

const (
	SelectionSingle   SelectionType = "single"   // mutually exclusive choices
	SelectionMultiple SelectionType = "multiple" // bounded checklist
	SelectionQuantity SelectionType = "quantity" // per-modifier counter
)

// Modifier is a single add-on choice inside a modifier group, e.g. "Extra Cheese".
type Modifier struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PriceAdjustment float64 `json:"priceAdjustment"`
	Default         bool    `json:"default,omitempty"`
	Available       *bool   `json:"available,omitempty"`
	SortOrder       int     `json:"sortOrder,omitempty"`
}

// IsAvailable treats an absent flag as available, matching the backend contract
// where only an explicit false hides a modifier.
func (m *Modifier) IsAvailable() bool {
	return m.Available == nil || *m.Available
}

// ModifierGroup is a named set of modifiers attached to a catalog item,
// e.g. "Size" (single) or "Toppings" (multiple, up to 3).
type ModifierGroup struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Required      bool          `json:"required"`
	MinSelect     int           `json:"minSelect,omitempty"`
	MaxSelect     int           `json:"maxSelect,omitempty"` // 0 means unlimited
	SelectionType SelectionType `json:"selectionType,omitempty"`
	Modifiers     []Modifier    `json:"modifiers"`
	SortOrder     int           `json:"sortOrder,omitempty"`
}

// IsSingle reports whether the group is mutually exclusive. Legacy groups omit
// selectionType and signal single-select through maxSelect=1.
func (g *ModifierGroup) IsSingle() bool {
	return g.SelectionType == SelectionSingle || (g.SelectionType == "" && g.MaxSelect == 1)
}

// EffectiveMinSelect returns the selection floor for required groups; an unset
// minSelect defaults to 1.
func (g *ModifierGroup) EffectiveMinSelect() int {
	if g.MinSelect <= 0 {
		return 1
	}
	return g.MinSelect
}

// SelectedModifier is a modifier choice frozen onto a cart line.
type SelectedModifier struct {
	GroupID         string  `json:"groupId"`
	ModifierID      string  `json:"modifierId"`
	Name            string  `json:"name"`
	PriceAdjustment float64 `json:"priceAdjustment"`
	Quantity        int     `json:"quantity,omitempty"` // only set for quantity-type groups
}

// LineDelta is the price contribution of this selection to one unit of the item.
func (s *SelectedModifier) LineDelta() float64 {
	qty := s.Quantity
	if qty == 0 {
		qty = 1
	}
	return s.PriceAdjustment * float64(qty)
}

// RestaurantAttributes holds the menu-specific payload of a catalog item.
type RestaurantAttributes struct {
	ModifierGroups []ModifierGroup `json:"modifierGroups,omitempty"`
	DietaryTags    []string        `json:"dietaryTags,omitempty"`
	SpiceLevel     *int            `json:"spiceLevel,omitempty"`
	PrepTime       string          `json:"prepTime,omitempty"`
	Calories       int             `json:"calories,omitempty"`
	Allergens      []string        `json:"allergens,omitempty"`
}

// CatalogItem is a sellable item as served by the inventory API.
type CatalogItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       float64         `json:"priceUsd"`
	Category    string          `json:"category,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Approved    *bool           `json:"approved,omitempty"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`

	// Restaurant is resolved once from Attributes at the ingestion boundary
	// and never re-derived afterwards.
	Restaurant *RestaurantAttributes `json:"-"`
}

// IsApproved treats an absent flag as approved.
func (i *CatalogItem) IsApproved() bool {
	return i.Approved == nil || *i.Approved
}

// ModifierGroups returns the item's modifier groups, if any.
func (i *CatalogItem) ModifierGroups() []ModifierGroup {
	if i.Restaurant == nil {
		return nil
	}
	return i.Restaurant.ModifierGroups
}

// ResolveAttributes populates Restaurant from the raw attribute payload.
func (i *CatalogItem) ResolveAttributes() {
	i.Restaurant = ResolveRestaurantAttributes(i.Attributes)
}

// ResolveRestaurantAttributes locates restaurant menu data under the three
// attribute shapes the backend has shipped over time:
//
//  1. tagged restaurant:  {"type":"restaurant","data":{...}}
//  2. tagged general carrying restaurant fields: {"type":"general","data":{...}}
//  3. legacy flat: {...modifierGroups/dietaryTags/spiceLevel at the top level}
//
// Returns nil when the payload carries no restaurant data.
func ResolveRestaurantAttributes(raw json.RawMessage) *RestaurantAttributes {
	if len(raw) == 0 {
		return nil
	}

	var tagged struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &tagged); err != nil {
		return nil
	}

	switch tagged.Type {
	case "restaurant":
		if len(tagged.Data) == 0 {
			return nil
		}
		var attrs RestaurantAttributes
		if err := json.Unmarshal(tagged.Data, &attrs); err != nil {
			return nil
		}
		return &attrs
	case "general":
		if !carriesRestaurantFields(tagged.Data) {
			return nil
		}
		var attrs RestaurantAttributes
		if err := json.Unmarshal(tagged.Data, &attrs); err != nil {
			return nil
		}
		return &attrs
	}

	// Legacy flat payload
	if !carriesRestaurantFields(raw) {
		return nil
	}
	var attrs RestaurantAttributes
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil
	}
	return &attrs
}

func carriesRestaurantFields(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	for _, key := range []string{"modifierGroups", "dietaryTags", "spiceLevel"} {
		if _, ok := probe[key]; ok {
			return true
		}
	}
	return false
}
