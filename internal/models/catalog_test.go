package models

import (
	"encoding/json"
	"testing"
)

func TestResolveRestaurantAttributes_TaggedRestaurant(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "restaurant",
		"data": {
			"modifierGroups": [{"id": "size", "name": "Size", "required": true, "modifiers": []}],
			"spiceLevel": 2
		}
	}`)

	attrs := ResolveRestaurantAttributes(raw)
	if attrs == nil {
		t.Fatal("expected restaurant attributes")
	}
	if len(attrs.ModifierGroups) != 1 || attrs.ModifierGroups[0].ID != "size" {
		t.Errorf("expected modifier groups decoded, got %+v", attrs.ModifierGroups)
	}
	if attrs.SpiceLevel == nil || *attrs.SpiceLevel != 2 {
		t.Errorf("expected spice level 2, got %v", attrs.SpiceLevel)
	}
}

func TestResolveRestaurantAttributes_GeneralCarryingMenuFields(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "general",
		"data": {"dietaryTags": ["vegan"]}
	}`)

	attrs := ResolveRestaurantAttributes(raw)
	if attrs == nil {
		t.Fatal("expected general payload with menu fields to resolve")
	}
	if len(attrs.DietaryTags) != 1 || attrs.DietaryTags[0] != "vegan" {
		t.Errorf("expected dietary tags decoded, got %v", attrs.DietaryTags)
	}
}

func TestResolveRestaurantAttributes_GeneralWithoutMenuFields(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "general",
		"data": {"brand": "Acme", "weight": "200g"}
	}`)

	if attrs := ResolveRestaurantAttributes(raw); attrs != nil {
		t.Errorf("expected nil for general payload without menu fields, got %+v", attrs)
	}
}

func TestResolveRestaurantAttributes_LegacyFlat(t *testing.T) {
	raw := json.RawMessage(`{
		"modifierGroups": [{"id": "g1", "name": "Toppings", "modifiers": []}]
	}`)

	attrs := ResolveRestaurantAttributes(raw)
	if attrs == nil {
		t.Fatal("expected legacy flat payload to resolve")
	}
	if len(attrs.ModifierGroups) != 1 || attrs.ModifierGroups[0].Name != "Toppings" {
		t.Errorf("expected modifier groups decoded, got %+v", attrs.ModifierGroups)
	}
}

func TestResolveRestaurantAttributes_EmptyAndMalformed(t *testing.T) {
	if ResolveRestaurantAttributes(nil) != nil {
		t.Error("expected nil for empty payload")
	}
	if ResolveRestaurantAttributes(json.RawMessage(`not json`)) != nil {
		t.Error("expected nil for malformed payload")
	}
	if ResolveRestaurantAttributes(json.RawMessage(`{"color": "red"}`)) != nil {
		t.Error("expected nil for flat payload without menu fields")
	}
}

func TestCatalogItem_ApprovalDefaultsToTrue(t *testing.T) {
	item := CatalogItem{ID: "i1"}
	if !item.IsApproved() {
		t.Error("expected absent approval flag to mean approved")
	}

	no := false
	item.Approved = &no
	if item.IsApproved() {
		t.Error("expected explicit false to mean not approved")
	}
}

func TestModifier_AvailabilityDefaultsToTrue(t *testing.T) {
	m := Modifier{ID: "m1"}
	if !m.IsAvailable() {
		t.Error("expected absent availability flag to mean available")
	}

	no := false
	m.Available = &no
	if m.IsAvailable() {
		t.Error("expected explicit false to mean unavailable")
	}
}

func TestModifierGroup_LegacySingleSelect(t *testing.T) {
	legacy := ModifierGroup{ID: "g1", MaxSelect: 1}
	if !legacy.IsSingle() {
		t.Error("expected untyped group with maxSelect 1 to behave as single-select")
	}

	typed := ModifierGroup{ID: "g2", SelectionType: SelectionMultiple, MaxSelect: 1}
	if typed.IsSingle() {
		t.Error("expected explicit multiple type to win over maxSelect")
	}
}

func TestModifierGroup_EffectiveMinSelect(t *testing.T) {
	unset := ModifierGroup{Required: true}
	if got := unset.EffectiveMinSelect(); got != 1 {
		t.Errorf("expected unset minSelect to default to 1, got %d", got)
	}

	explicit := ModifierGroup{Required: true, MinSelect: 2}
	if got := explicit.EffectiveMinSelect(); got != 2 {
		t.Errorf("expected explicit minSelect kept, got %d", got)
	}
}
