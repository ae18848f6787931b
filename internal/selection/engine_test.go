package selection

import (
	"errors"
	"testing"

	"github.com/paykiosk/paykiosk/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func sizeGroup() models.ModifierGroup {
	return models.ModifierGroup{
		ID:            "size",
		Name:          "Size",
		Required:      true,
		SelectionType: models.SelectionSingle,
		Modifiers: []models.Modifier{
			{ID: "small", Name: "Small", PriceAdjustment: 0, Default: true},
			{ID: "medium", Name: "Medium", PriceAdjustment: 1.5},
			{ID: "large", Name: "Large", PriceAdjustment: 3},
		},
	}
}

func toppingsGroup() models.ModifierGroup {
	return models.ModifierGroup{
		ID:            "toppings",
		Name:          "Toppings",
		SelectionType: models.SelectionMultiple,
		MaxSelect:     2,
		Modifiers: []models.Modifier{
			{ID: "cheese", Name: "Extra Cheese", PriceAdjustment: 1},
			{ID: "bacon", Name: "Bacon", PriceAdjustment: 1.5},
			{ID: "avocado", Name: "Avocado", PriceAdjustment: 2},
		},
	}
}

func saucesGroup() models.ModifierGroup {
	return models.ModifierGroup{
		ID:            "sauces",
		Name:          "Sauces",
		SelectionType: models.SelectionQuantity,
		Modifiers: []models.Modifier{
			{ID: "ranch", Name: "Ranch", PriceAdjustment: 0.75},
			{ID: "bbq", Name: "BBQ", PriceAdjustment: 0.75},
		},
	}
}

func TestNew_PreselectsAvailableDefaults(t *testing.T) {
	groups := []models.ModifierGroup{
		{
			ID:            "g1",
			SelectionType: models.SelectionMultiple,
			Modifiers: []models.Modifier{
				{ID: "a", Default: true},
				{ID: "b", Default: true, Available: boolPtr(false)},
				{ID: "c"},
			},
		},
	}
	sel := New(groups)

	if !sel.IsSelected("g1", "a") {
		t.Error("expected available default to be pre-selected")
	}
	if sel.IsSelected("g1", "b") {
		t.Error("expected unavailable default to be skipped")
	}
	if sel.IsSelected("g1", "c") {
		t.Error("expected non-default to stay unselected")
	}
}

func TestToggle_SingleReplacesPriorPick(t *testing.T) {
	sel := New([]models.ModifierGroup{sizeGroup()})

	if !sel.Toggle("size", "large") {
		t.Fatal("expected toggle to report a change")
	}
	if sel.IsSelected("size", "small") {
		t.Error("expected prior pick to be replaced")
	}
	if !sel.IsSelected("size", "large") {
		t.Error("expected new pick to be selected")
	}
	if got := sel.SelectedCount("size"); got != 1 {
		t.Errorf("expected 1 selection, got %d", got)
	}
}

func TestToggle_SingleClearsOnReselect(t *testing.T) {
	sel := New([]models.ModifierGroup{sizeGroup()})

	sel.Toggle("size", "small")
	if sel.SelectedCount("size") != 0 {
		t.Error("expected toggling the active pick to clear the group")
	}
	if sel.AllRequiredSatisfied() {
		t.Error("expected cleared required group to block add-to-cart")
	}
}

func TestToggle_MultipleRespectsMaxSelect(t *testing.T) {
	sel := New([]models.ModifierGroup{toppingsGroup()})

	sel.Toggle("toppings", "cheese")
	sel.Toggle("toppings", "bacon")
	if sel.Toggle("toppings", "avocado") {
		t.Error("expected add beyond maxSelect to be a no-op")
	}
	if got := sel.SelectedCount("toppings"); got != 2 {
		t.Errorf("expected 2 selections, got %d", got)
	}

	// removing one frees a slot
	sel.Toggle("toppings", "cheese")
	if !sel.Toggle("toppings", "avocado") {
		t.Error("expected add to succeed after freeing a slot")
	}
}

func TestToggle_UnavailableModifierIgnored(t *testing.T) {
	group := toppingsGroup()
	group.Modifiers[0].Available = boolPtr(false)
	sel := New([]models.ModifierGroup{group})

	if sel.Toggle("toppings", "cheese") {
		t.Error("expected toggle of unavailable modifier to be a no-op")
	}
}

func TestToggle_QuantityGroupIgnored(t *testing.T) {
	sel := New([]models.ModifierGroup{saucesGroup()})

	if sel.Toggle("sauces", "ranch") {
		t.Error("expected toggle on a quantity group to be a no-op")
	}
}

func TestAdjustQuantity_ImplicitCounterStartsAtOne(t *testing.T) {
	sel := New([]models.ModifierGroup{saucesGroup()})

	if err := sel.AdjustQuantity("sauces", "ranch", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sel.Quantity("sauces", "ranch"); got != 2 {
		t.Errorf("expected untouched counter to step 1 -> 2, got %d", got)
	}
}

func TestAdjustQuantity_ZeroDeselectsAndPositiveReselects(t *testing.T) {
	sel := New([]models.ModifierGroup{saucesGroup()})

	sel.AdjustQuantity("sauces", "ranch", 1) // counter 2
	sel.AdjustQuantity("sauces", "ranch", -1)
	sel.AdjustQuantity("sauces", "ranch", -1)
	if sel.IsSelected("sauces", "ranch") {
		t.Error("expected counter at 0 to deselect the modifier")
	}
	if got := sel.Quantity("sauces", "ranch"); got != 0 {
		t.Errorf("expected quantity 0 for unselected modifier, got %d", got)
	}

	sel.AdjustQuantity("sauces", "ranch", 3)
	if !sel.IsSelected("sauces", "ranch") {
		t.Error("expected positive counter to reselect the modifier")
	}
	if got := sel.Quantity("sauces", "ranch"); got != 3 {
		t.Errorf("expected quantity 3, got %d", got)
	}
}

func TestAdjustQuantity_FlooredAtZero(t *testing.T) {
	sel := New([]models.ModifierGroup{saucesGroup()})

	sel.AdjustQuantity("sauces", "bbq", -5)
	if got := sel.Quantity("sauces", "bbq"); got != 0 {
		t.Errorf("expected counter floored at 0, got %d", got)
	}
}

func TestAdjustQuantity_RejectsNonQuantityGroup(t *testing.T) {
	sel := New([]models.ModifierGroup{sizeGroup()})

	err := sel.AdjustQuantity("size", "small", 1)
	if !errors.Is(err, ErrNotQuantityGroup) {
		t.Errorf("expected ErrNotQuantityGroup, got %v", err)
	}
}

func TestAllRequiredSatisfied_MinSelectDefaultsToOne(t *testing.T) {
	group := models.ModifierGroup{
		ID:            "protein",
		Required:      true,
		SelectionType: models.SelectionMultiple,
		Modifiers: []models.Modifier{
			{ID: "chicken"},
			{ID: "tofu"},
		},
	}
	sel := New([]models.ModifierGroup{group})

	if sel.AllRequiredSatisfied() {
		t.Error("expected empty required group to be unsatisfied")
	}
	sel.Toggle("protein", "chicken")
	if !sel.AllRequiredSatisfied() {
		t.Error("expected one selection to satisfy the implicit minSelect of 1")
	}
}

func TestModifierTotal_MixedGroups(t *testing.T) {
	sel := New([]models.ModifierGroup{sizeGroup(), toppingsGroup(), saucesGroup()})

	sel.Toggle("size", "large")
	sel.Toggle("toppings", "bacon")
	sel.AdjustQuantity("sauces", "ranch", 2)

	// large 3.00 + bacon 1.50 + three ranch at 0.75
	want := 3.0 + 1.5 + 3*0.75
	if got := sel.ModifierTotal(); got != want {
		t.Errorf("expected modifier total %.2f, got %.2f", want, got)
	}
}

func TestBuild_QuantityOnlyOnQuantityGroups(t *testing.T) {
	sel := New([]models.ModifierGroup{sizeGroup(), saucesGroup()})
	sel.AdjustQuantity("sauces", "bbq", 1)

	built := sel.Build()
	if len(built) != 2 {
		t.Fatalf("expected 2 selected modifiers, got %d", len(built))
	}
	for _, m := range built {
		switch m.GroupID {
		case "size":
			if m.Quantity != 0 {
				t.Errorf("expected no quantity on single-select modifier, got %d", m.Quantity)
			}
		case "sauces":
			if m.Quantity != 2 {
				t.Errorf("expected quantity 2 on quantity modifier, got %d", m.Quantity)
			}
		}
	}
}
