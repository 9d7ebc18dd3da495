package core

import (
	"fmt"
	"time"
)

// MergeAction is one planned write against a shopping list. ItemID is zero when
// the deficit has no matching line and a new item must be created.
type MergeAction struct {
	ItemID  int
	Deficit Deficit
}

// Create reports whether the action inserts a new item.
func (a MergeAction) Create() bool { return a.ItemID == 0 }

// PlanMerge matches every deficit against the existing list items by exact
// (name, unit) and returns the writes in deficit order. Items that match no
// deficit are never referenced.
func PlanMerge(existing []ShoppingListItem, deficits []Deficit) []MergeAction {
	actions := make([]MergeAction, 0, len(deficits))
	// Creates planned earlier in this call are matched too, so two deficits
	// sharing a key never produce two rows.
	created := make(map[lineKey]int)
	for _, d := range deficits {
		if it, ok := findLine(existing, d.IngredientName, d.Unit); ok {
			actions = append(actions, MergeAction{ItemID: it.ID, Deficit: d})
			continue
		}
		k := keyOf(d.IngredientName, d.Unit)
		if i, ok := created[k]; ok {
			actions[i].Deficit = d
			continue
		}
		created[k] = len(actions)
		actions = append(actions, MergeAction{Deficit: d})
	}
	return actions
}

type lineKey struct {
	name    string
	unit    string
	hasUnit bool
}

func keyOf(name string, unit *string) lineKey {
	if unit == nil {
		return lineKey{name: name}
	}
	return lineKey{name: name, unit: *unit, hasUnit: true}
}

func findLine(items []ShoppingListItem, name string, unit *string) (ShoppingListItem, bool) {
	for _, it := range items {
		if it.Name == name && sameUnit(it.Unit, unit) {
			return it, true
		}
	}
	return ShoppingListItem{}, false
}

// GeneratedListName is the name given to lists created by reconciliation.
func GeneratedListName(weekStart time.Time) string {
	return fmt.Sprintf("Meal plan week of %s", weekStart.Format("2006-01-02"))
}
