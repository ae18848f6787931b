package models

import "testing"

func TestDiscount_Label(t *testing.T) {
	cases := []struct {
		name string
		d    Discount
		want string
	}{
		{"percentage", Discount{Type: DiscountPercentage, Value: 15}, "15% OFF"},
		{"fixed", Discount{Type: DiscountFixedAmount, Value: 2.5}, "$2.5 OFF"},
		{"bxgy", Discount{Type: DiscountBuyXGetY, Value: 2}, "Buy 2 Get 1 Free"},
		{"unknown", Discount{Type: "mystery"}, "SALE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.Label(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDiscount_RequirementLabel(t *testing.T) {
	amount := Discount{MinRequirement: RequireAmount, MinRequirementValue: 25}
	if got := amount.RequirementLabel(); got != "Min $25 order" {
		t.Errorf("expected amount hint, got %q", got)
	}

	qty := Discount{MinRequirement: RequireQuantity, MinRequirementValue: 4}
	if got := qty.RequirementLabel(); got != "Min 4 items" {
		t.Errorf("expected quantity hint, got %q", got)
	}

	none := Discount{MinRequirement: RequireNone}
	if got := none.RequirementLabel(); got != "" {
		t.Errorf("expected empty hint, got %q", got)
	}
}

func TestDiscount_MatchesItem(t *testing.T) {
	item := CatalogItem{ID: "i1", Category: "Pizza"}

	all := Discount{AppliesTo: ScopeAll}
	if !all.MatchesItem(&item) {
		t.Error("expected all-scope to match any item")
	}

	product := Discount{AppliesTo: ScopeProduct, AppliesToIDs: []string{"i1"}}
	if !product.MatchesItem(&item) {
		t.Error("expected product scope to match by id")
	}

	other := Discount{AppliesTo: ScopeProduct, AppliesToIDs: []string{"i2"}}
	if other.MatchesItem(&item) {
		t.Error("expected non-matching product scope to miss")
	}

	uncategorized := CatalogItem{ID: "i3"}
	collection := Discount{AppliesTo: ScopeCollection, AppliesToIDs: []string{"Pizza"}}
	if collection.MatchesItem(&uncategorized) {
		t.Error("expected collection scope to miss items without a category")
	}
}
