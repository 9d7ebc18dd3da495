package core_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"pantryplanner/internal/core"
)

func TestPlanCheckout(t *testing.T) {
	ingredients := []core.Ingredient{
		{ID: 1, Name: "Flour"},
		{ID: 2, Name: "flour"},
		{ID: 3, Name: "Milk"},
	}
	bought := []core.ShoppingListItem{
		{ID: 10, Name: "Flour", Quantity: qty("2"), Unit: ptr("kg"), Bought: true},
		{ID: 11, Name: "Xyz123", Bought: true},
		{ID: 12, Name: "  MILK ", Bought: true},
		{ID: 13, Name: "   ", Bought: true},
	}

	plan := core.PlanCheckout(bought, ingredients)

	if len(plan.Lots) != 2 {
		t.Fatalf("Expected 2 lots, got %d", len(plan.Lots))
	}
	flour := plan.Lots[0]
	if flour.IngredientID != 1 || !flour.Quantity.Equal(dec("2")) || *flour.Unit != "kg" {
		t.Errorf("Expected Flour lot for ingredient 1 with 2 kg, got %+v", flour)
	}
	milk := plan.Lots[1]
	if milk.IngredientID != 3 || !milk.Quantity.Equal(dec("1")) {
		t.Errorf("Expected trimmed case-insensitive Milk match with default qty 1, got %+v", milk)
	}

	skipped := plan.SkippedNames()
	if len(skipped) != 2 || skipped[0] != "Xyz123" {
		t.Errorf("Expected Xyz123 and blank skipped, got %q", skipped)
	}

	if len(plan.Lots)+len(plan.Skipped) != len(bought) {
		t.Errorf("Expected moved + skipped == bought")
	}
	if len(plan.DeleteItemID) != len(bought) {
		t.Errorf("Expected every bought item deleted, got %v", plan.DeleteItemID)
	}
}

func TestPlanCheckout_Empty(t *testing.T) {
	plan := core.PlanCheckout(nil, []core.Ingredient{{ID: 1, Name: "Flour"}})
	if len(plan.Lots) != 0 || len(plan.DeleteItemID) != 0 {
		t.Errorf("Expected empty plan, got %+v", plan)
	}
	if names := plan.SkippedNames(); names == nil || len(names) != 0 {
		t.Errorf("Expected empty non-nil skipped names, got %v", names)
	}
}

func TestItemPatch_JSON(t *testing.T) {
	var p core.ItemPatch
	if err := json.Unmarshal([]byte(`{"name":" Oat milk ","unit":null}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !p.Name.Set || !p.Unit.Set || p.Quantity.Set || p.Bought.Set {
		t.Fatalf("Unexpected Set flags: %+v", p)
	}

	it := core.ShoppingListItem{Name: "Milk", Unit: ptr("l"), Quantity: qty("2"), Bought: true}
	p.ApplyTo(&it)
	if it.Name != "Oat milk" || it.Unit != nil {
		t.Errorf("Expected name and unit replaced, got %q %v", it.Name, it.Unit)
	}
	if !it.Quantity.Valid || !it.Bought {
		t.Errorf("Expected quantity and bought untouched, got %+v", it)
	}
}

func TestItemPatch_Validate(t *testing.T) {
	tests := []struct {
		name  string
		patch core.ItemPatch
		ok    bool
	}{
		{"empty patch", core.ItemPatch{}, true},
		{"blank name", core.ItemPatch{Name: core.Some("  ")}, false},
		{"long name", core.ItemPatch{Name: core.Some(strings.Repeat("a", 256))}, false},
		{"long unit", core.ItemPatch{Unit: core.Some(ptr(strings.Repeat("u", 51)))}, false},
		{"negative quantity", core.ItemPatch{Quantity: core.Some(qty("-1"))}, false},
		{"cleared quantity", core.ItemPatch{Quantity: core.Some(qtyNull())}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.ok && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, core.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}
