package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Slot is a meal slot within a planned day.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
)

// Slots lists the meal slots in display order.
var Slots = []Slot{SlotBreakfast, SlotLunch, SlotDinner}

// Valid reports whether s is one of the known slots.
func (s Slot) Valid() bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner:
		return true
	}
	return false
}

// SourceMealPlan tags shopping-list rows written by reconciliation.
const SourceMealPlan = "mealplan"

type Household struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Ingredient is a household-scoped ingredient. Name is the identity used for
// matching recipe rows, pantry rows and shopping-list line text.
type Ingredient struct {
	ID          int     `json:"id"`
	HouseholdID int     `json:"household_id"`
	Name        string  `json:"name"`
	Category    *string `json:"category,omitempty"`
}

type Recipe struct {
	ID           int      `json:"id"`
	HouseholdID  int      `json:"household_id"`
	Title        string   `json:"title"`
	Instructions string   `json:"instructions"`
	Tags         []string `json:"tags"`
}

// RecipeIngredient is the recipe/ingredient join row with the recipe-specific
// required quantity and unit.
type RecipeIngredient struct {
	RecipeID       int                 `json:"recipe_id"`
	IngredientID   int                 `json:"ingredient_id"`
	IngredientName string              `json:"ingredient_name"`
	Quantity       decimal.NullDecimal `json:"quantity"`
	Unit           *string             `json:"unit,omitempty"`
}

type MealPlan struct {
	ID            int       `json:"id"`
	HouseholdID   int       `json:"household_id"`
	WeekStartDate time.Time `json:"week_start_date"`
}

type MealPlanItem struct {
	ID         int       `json:"id"`
	MealPlanID int       `json:"meal_plan_id"`
	Date       time.Time `json:"date"`
	Slot       Slot      `json:"slot"`
	RecipeID   *int      `json:"recipe_id,omitempty"`
}

// PantryItem is one pantry lot. Several lots may exist for the same ingredient.
type PantryItem struct {
	ID           int             `json:"id"`
	HouseholdID  int             `json:"household_id"`
	IngredientID int             `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         *string         `json:"unit,omitempty"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Location     *string         `json:"location,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ShoppingList struct {
	ID          int       `json:"id"`
	HouseholdID int       `json:"household_id"`
	Name        *string   `json:"name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ShoppingListItem struct {
	ID             int                 `json:"id"`
	ShoppingListID int                 `json:"shopping_list_id"`
	Name           string              `json:"name"`
	Quantity       decimal.NullDecimal `json:"quantity"`
	Unit           *string             `json:"unit,omitempty"`
	Bought         bool                `json:"bought"`
	Source         *string             `json:"source,omitempty"`
}

// Expense is read only by the household assistant snapshot.
type Expense struct {
	ID          int             `json:"id"`
	HouseholdID int             `json:"household_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    *string         `json:"category,omitempty"`
	Store       *string         `json:"store,omitempty"`
	Note        *string         `json:"note,omitempty"`
	Date        time.Time       `json:"date"`
}

// sameUnit compares two optional units; nil only equals nil.
func sameUnit(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
