package core

import "github.com/shopspring/decimal"

// DemandLine is the aggregated requirement for one ingredient across a meal plan.
type DemandLine struct {
	IngredientID int
	Name         string
	Quantity     decimal.Decimal
	// Unit is the first unit seen for the ingredient. Later recipe rows using a
	// different unit are added to Quantity without conversion.
	Unit *string
}

// Demand is an insertion-ordered mapping of ingredient id to DemandLine.
type Demand struct {
	lines []DemandLine
	index map[int]int
}

// Len returns the number of distinct ingredients demanded.
func (d Demand) Len() int { return len(d.lines) }

// Lines returns the demand lines in aggregation order.
func (d Demand) Lines() []DemandLine { return d.lines }

// Get returns the line for an ingredient id.
func (d Demand) Get(ingredientID int) (DemandLine, bool) {
	i, ok := d.index[ingredientID]
	if !ok {
		return DemandLine{}, false
	}
	return d.lines[i], true
}

func (d *Demand) add(ri RecipeIngredient) {
	if d.index == nil {
		d.index = make(map[int]int)
	}
	qty := decimal.NewFromInt(1)
	if ri.Quantity.Valid {
		qty = ri.Quantity.Decimal
	}
	if i, ok := d.index[ri.IngredientID]; ok {
		d.lines[i].Quantity = d.lines[i].Quantity.Add(qty)
		return
	}
	d.index[ri.IngredientID] = len(d.lines)
	d.lines = append(d.lines, DemandLine{
		IngredientID: ri.IngredientID,
		Name:         ri.IngredientName,
		Quantity:     qty,
		Unit:         ri.Unit,
	})
}

// AggregateDemand sums recipe ingredient requirements over every planned meal
// that has a recipe. Empty slots contribute nothing; a nil plan yields empty demand.
func AggregateDemand(plan *PlanSnapshot) Demand {
	var d Demand
	if plan == nil {
		return d
	}
	for _, m := range plan.Meals {
		if m.Item.RecipeID == nil {
			continue
		}
		for _, ri := range m.Ingredients {
			d.add(ri)
		}
	}
	return d
}
