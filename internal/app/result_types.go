package app

import (
	"pantryplanner/internal/ai"
	"pantryplanner/internal/core"
)

// SessionResult is returned by Login.
type SessionResult struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ReconcileResult is returned by ReconcileFromMealPlan.
type ReconcileResult struct {
	Outcome      core.Outcome            `json:"outcome"`
	MealPlanID   int                     `json:"meal_plan_id,omitempty"`
	ShoppingList *core.ShoppingList      `json:"shopping_list,omitempty"`
	Items        []core.ShoppingListItem `json:"items"`
	Deficits     []core.Deficit          `json:"deficits"`
}

// CheckoutResult is returned by CheckoutBought.
type CheckoutResult struct {
	Outcome       core.Outcome `json:"outcome"`
	MovedToPantry int          `json:"moved_to_pantry"`
	SkippedNames  []string     `json:"skipped_names"`
}

// ShoppingListResult is returned by GetShoppingList.
type ShoppingListResult struct {
	ShoppingList *core.ShoppingList      `json:"shopping_list"`
	Items        []core.ShoppingListItem `json:"items"`
}

// MealPlanSlotsResult is returned by EnsureMealPlanSlots.
type MealPlanSlotsResult struct {
	MealPlanID int                 `json:"meal_plan_id"`
	Items      []core.MealPlanItem `json:"items"`
}

// AssistantResult is returned by AskAssistant.
type AssistantResult struct {
	HouseholdID int `json:"household_id"`
	ai.AssistantReply
}
