package core

import "github.com/shopspring/decimal"

// deficitTolerance is the shortfall at or below which an ingredient counts as covered.
var deficitTolerance = decimal.New(1, -2)

// Deficit is a positive shortfall of an ingredient after netting against pantry stock.
type Deficit struct {
	IngredientID   int             `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	NeededQuantity decimal.Decimal `json:"needed_quantity"`
	Unit           *string         `json:"unit,omitempty"`
}

// StockByIngredient sums pantry lot quantities per ingredient. Units are ignored.
func StockByIngredient(pantry []PantryItem) map[int]decimal.Decimal {
	stock := make(map[int]decimal.Decimal, len(pantry))
	for _, p := range pantry {
		stock[p.IngredientID] = stock[p.IngredientID].Add(p.Quantity)
	}
	return stock
}

// ComputeDeficits nets demand against stock. An ingredient is a deficit only when
// demand minus stock is strictly greater than 0.01. Output follows
// demand order.
func ComputeDeficits(demand Demand, stock map[int]decimal.Decimal) []Deficit {
	var out []Deficit
	for _, line := range demand.Lines() {
		missing := line.Quantity.Sub(stock[line.IngredientID])
		if !missing.GreaterThan(deficitTolerance) {
			continue
		}
		out = append(out, Deficit{
			IngredientID:   line.IngredientID,
			IngredientName: line.Name,
			NeededQuantity: missing,
			Unit:           line.Unit,
		})
	}
	return out
}
