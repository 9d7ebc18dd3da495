package app

import (
	"context"

	"pantryplanner/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// Login checks credentials and returns the session identity.
	Login(ctx context.Context, email, password string) (*SessionResult, error)

	// GetUser returns the profile of an authenticated user.
	GetUser(ctx context.Context, userID int) (*core.User, error)

	// SetPassword stores a new password for a user.
	SetPassword(ctx context.Context, userID int, password string) error

	// ReconcileFromMealPlan adds missing meal-plan ingredients to a shopping list.
	// A nothing-to-do outcome is reported on the result, not as an error.
	ReconcileFromMealPlan(ctx context.Context, req ReconcileRequest) (*ReconcileResult, error)

	// CheckoutBought moves bought items of a list into the pantry.
	CheckoutBought(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)

	// GetShoppingList returns a list with its items.
	GetShoppingList(ctx context.Context, userID, listID int) (*ShoppingListResult, error)

	// UpdateShoppingItem applies a partial update to a shopping list item.
	UpdateShoppingItem(ctx context.Context, userID, itemID int, patch core.ItemPatch) (*core.ShoppingListItem, error)

	// ToggleItemBought flips the bought flag of a shopping list item.
	ToggleItemBought(ctx context.Context, userID, itemID int) (*core.ShoppingListItem, error)

	// CreateMealPlan creates an empty plan for the week starting at req.WeekStartDate.
	CreateMealPlan(ctx context.Context, req CreateMealPlanRequest) (*core.MealPlan, error)

	// EnsureMealPlanSlots materialises every day/slot pair of a plan.
	EnsureMealPlanSlots(ctx context.Context, userID, mealPlanID int) (*MealPlanSlotsResult, error)

	// AskAssistant answers a question about a household from its current state.
	AskAssistant(ctx context.Context, req AssistantRequest) (*AssistantResult, error)
}
