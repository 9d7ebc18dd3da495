package core_test

import (
	"testing"
	"time"

	"pantryplanner/internal/core"

	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func qty(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

func qtyNull() decimal.NullDecimal { return decimal.NullDecimal{} }

func meal(recipeID *int, ings ...core.RecipeIngredient) core.PlannedMeal {
	return core.PlannedMeal{Item: core.MealPlanItem{RecipeID: recipeID}, Ingredients: ings}
}

func TestAggregateDemand(t *testing.T) {
	eggs := core.RecipeIngredient{IngredientID: 1, IngredientName: "Eggs", Quantity: qty("2"), Unit: ptr("pcs")}
	moreEggs := core.RecipeIngredient{IngredientID: 1, IngredientName: "Eggs", Quantity: qty("1"), Unit: ptr("dozen")}
	salt := core.RecipeIngredient{IngredientID: 2, IngredientName: "Salt"}

	plan := &core.PlanSnapshot{Meals: []core.PlannedMeal{
		meal(ptr(10), eggs, salt),
		meal(nil),
		meal(ptr(11), moreEggs),
	}}

	d := core.AggregateDemand(plan)
	if d.Len() != 2 {
		t.Fatalf("Expected 2 demand lines, got %d", d.Len())
	}

	line, ok := d.Get(1)
	if !ok {
		t.Fatal("Expected demand for Eggs")
	}
	if !line.Quantity.Equal(dec("3")) {
		t.Errorf("Expected Eggs quantity 3, got %s", line.Quantity)
	}
	if line.Unit == nil || *line.Unit != "pcs" {
		t.Errorf("Expected first-seen unit pcs, got %v", line.Unit)
	}

	salty, _ := d.Get(2)
	if !salty.Quantity.Equal(dec("1")) {
		t.Errorf("Expected missing quantity to default to 1, got %s", salty.Quantity)
	}

	if lines := d.Lines(); lines[0].Name != "Eggs" || lines[1].Name != "Salt" {
		t.Errorf("Expected first-seen order Eggs, Salt, got %s, %s", lines[0].Name, lines[1].Name)
	}
}

func TestAggregateDemand_Empty(t *testing.T) {
	if d := core.AggregateDemand(nil); d.Len() != 0 {
		t.Errorf("Expected empty demand for nil plan, got %d", d.Len())
	}
	plan := &core.PlanSnapshot{Meals: []core.PlannedMeal{meal(nil), meal(nil)}}
	if d := core.AggregateDemand(plan); d.Len() != 0 {
		t.Errorf("Expected empty demand for empty slots, got %d", d.Len())
	}
}

func TestComputeDeficits(t *testing.T) {
	plan := &core.PlanSnapshot{Meals: []core.PlannedMeal{meal(ptr(1),
		core.RecipeIngredient{IngredientID: 1, IngredientName: "Eggs", Quantity: qty("3")},
		core.RecipeIngredient{IngredientID: 2, IngredientName: "Milk", Quantity: qty("1.01")},
		core.RecipeIngredient{IngredientID: 3, IngredientName: "Flour", Quantity: qty("1.011")},
		core.RecipeIngredient{IngredientID: 4, IngredientName: "Rice", Quantity: qty("2")},
		core.RecipeIngredient{IngredientID: 5, IngredientName: "Basil", Quantity: qty("4")},
	)}}
	pantry := []core.PantryItem{
		{IngredientID: 1, Quantity: dec("1")},
		{IngredientID: 2, Quantity: dec("1")},
		{IngredientID: 3, Quantity: dec("1")},
		{IngredientID: 4, Quantity: dec("1.5")},
		{IngredientID: 4, Quantity: dec("1")},
	}

	deficits := core.ComputeDeficits(core.AggregateDemand(plan), core.StockByIngredient(pantry))

	want := []struct {
		name string
		qty  string
	}{
		{"Eggs", "2"},
		{"Flour", "0.011"},
		{"Basil", "4"},
	}
	if len(deficits) != len(want) {
		t.Fatalf("Expected %d deficits, got %d: %+v", len(want), len(deficits), deficits)
	}
	for i, w := range want {
		if deficits[i].IngredientName != w.name || !deficits[i].NeededQuantity.Equal(dec(w.qty)) {
			t.Errorf("Deficit %d: expected %s %s, got %s %s", i, w.name, w.qty,
				deficits[i].IngredientName, deficits[i].NeededQuantity)
		}
	}
}

func TestComputeDeficits_ToleranceBoundary(t *testing.T) {
	tests := []struct {
		need string
		want bool
	}{
		{"1.009", false},
		{"1.01", false},
		{"1.0101", true},
		{"1.02", true},
	}
	for _, tt := range tests {
		t.Run(tt.need, func(t *testing.T) {
			plan := &core.PlanSnapshot{Meals: []core.PlannedMeal{meal(ptr(1),
				core.RecipeIngredient{IngredientID: 1, IngredientName: "Milk", Quantity: qty(tt.need)},
			)}}
			got := core.ComputeDeficits(core.AggregateDemand(plan), map[int]decimal.Decimal{1: dec("1")})
			if (len(got) == 1) != tt.want {
				t.Errorf("Expected deficit=%v for need %s against 1, got %+v", tt.want, tt.need, got)
			}
		})
	}
}

func TestPlanMerge(t *testing.T) {
	existing := []core.ShoppingListItem{
		{ID: 1, Name: "Eggs", Unit: ptr("pcs"), Quantity: qty("5")},
		{ID: 2, Name: "Milk", Unit: nil},
		{ID: 3, Name: "Paper towels", Unit: nil},
	}
	deficits := []core.Deficit{
		{IngredientName: "Eggs", NeededQuantity: dec("2"), Unit: ptr("pcs")},
		{IngredientName: "Eggs", NeededQuantity: dec("1"), Unit: ptr("dozen")},
		{IngredientName: "Milk", NeededQuantity: dec("1")},
		{IngredientName: "Flour", NeededQuantity: dec("0.5"), Unit: ptr("kg")},
	}

	actions := core.PlanMerge(existing, deficits)
	if len(actions) != 4 {
		t.Fatalf("Expected 4 actions, got %d", len(actions))
	}
	if actions[0].ItemID != 1 || !actions[0].Deficit.NeededQuantity.Equal(dec("2")) {
		t.Errorf("Expected Eggs pcs to update item 1 to 2, got %+v", actions[0])
	}
	if !actions[1].Create() {
		t.Errorf("Expected Eggs dozen to create a new line, got item %d", actions[1].ItemID)
	}
	if actions[2].ItemID != 2 {
		t.Errorf("Expected unitless Milk to match item 2, got %d", actions[2].ItemID)
	}
	if !actions[3].Create() {
		t.Errorf("Expected Flour to create a new line")
	}
	for _, a := range actions {
		if a.ItemID == 3 {
			t.Error("Expected manual item to stay untouched")
		}
	}
}

func TestPlanMerge_DuplicateKeyCreatesOnce(t *testing.T) {
	deficits := []core.Deficit{
		{IngredientID: 1, IngredientName: "Tomato", NeededQuantity: dec("2")},
		{IngredientID: 2, IngredientName: "Tomato", NeededQuantity: dec("3")},
	}
	actions := core.PlanMerge(nil, deficits)
	if len(actions) != 1 {
		t.Fatalf("Expected 1 action, got %d", len(actions))
	}
	if !actions[0].Deficit.NeededQuantity.Equal(dec("3")) {
		t.Errorf("Expected later deficit to win, got %s", actions[0].Deficit.NeededQuantity)
	}
}

func TestPlanMerge_Idempotent(t *testing.T) {
	deficits := []core.Deficit{
		{IngredientName: "Eggs", NeededQuantity: dec("2"), Unit: ptr("pcs")},
		{IngredientName: "Milk", NeededQuantity: dec("1")},
	}

	// Apply the first pass to an in-memory list.
	var list []core.ShoppingListItem
	for i, a := range core.PlanMerge(nil, deficits) {
		list = append(list, core.ShoppingListItem{ID: i + 1, Name: a.Deficit.IngredientName,
			Unit: a.Deficit.Unit, Quantity: decimal.NewNullDecimal(a.Deficit.NeededQuantity)})
	}

	for _, a := range core.PlanMerge(list, deficits) {
		if a.Create() {
			t.Errorf("Expected second pass to only update, got create for %s", a.Deficit.IngredientName)
			continue
		}
		cur := list[a.ItemID-1]
		if !cur.Quantity.Decimal.Equal(a.Deficit.NeededQuantity) {
			t.Errorf("Expected unchanged quantity for %s", cur.Name)
		}
	}
}

func TestGeneratedListName(t *testing.T) {
	got := core.GeneratedListName(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	if got != "Meal plan week of 2026-10-19" {
		t.Errorf("Expected generated name, got %q", got)
	}
}
