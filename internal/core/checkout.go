package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NewLot is a pantry row to be created from a bought shopping-list item.
type NewLot struct {
	ItemID       int
	IngredientID int
	Quantity     decimal.Decimal
	Unit         *string
}

// CheckoutPlan is the outcome of matching bought items against household ingredients.
// Every bought item appears in exactly one of Lots or Skipped; all of them are deleted.
type CheckoutPlan struct {
	Lots         []NewLot
	Skipped      []ShoppingListItem
	DeleteItemID []int
}

// SkippedNames returns the names of the skipped items in list order.
func (p CheckoutPlan) SkippedNames() []string {
	names := make([]string, 0, len(p.Skipped))
	for _, it := range p.Skipped {
		names = append(names, it.Name)
	}
	return names
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PlanCheckout maps bought items to ingredients by case-insensitive, trimmed exact
// name. Blank or unmatched names are skipped. When several ingredients share a
// normalized name, the first (lowest id) wins.
func PlanCheckout(bought []ShoppingListItem, ingredients []Ingredient) CheckoutPlan {
	byName := make(map[string]int, len(ingredients))
	for _, ing := range ingredients {
		key := normalizeName(ing.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = ing.ID
		}
	}

	var plan CheckoutPlan
	for _, it := range bought {
		plan.DeleteItemID = append(plan.DeleteItemID, it.ID)

		key := normalizeName(it.Name)
		ingredientID, ok := byName[key]
		if key == "" || !ok {
			plan.Skipped = append(plan.Skipped, it)
			continue
		}
		qty := decimal.NewFromInt(1)
		if it.Quantity.Valid {
			qty = it.Quantity.Decimal
		}
		plan.Lots = append(plan.Lots, NewLot{
			ItemID:       it.ID,
			IngredientID: ingredientID,
			Quantity:     qty,
			Unit:         it.Unit,
		})
	}
	return plan
}
