package app

// ReconcileRequest is the input for reconciling a meal plan into a shopping list.
type ReconcileRequest struct {
	UserID         int
	HouseholdID    int
	ShoppingListID *int // nil creates a new list when there is something to add
}

// CheckoutRequest is the input for moving bought items into the pantry.
type CheckoutRequest struct {
	UserID         int
	ShoppingListID int
	ExpiryDate     string // YYYY-MM-DD, optional
	Location       string // optional
}

// CreateMealPlanRequest is the input for creating a weekly meal plan.
type CreateMealPlanRequest struct {
	UserID        int
	HouseholdID   int
	WeekStartDate string // YYYY-MM-DD
}

// AssistantRequest is a free-text question about one household.
type AssistantRequest struct {
	UserID      int
	HouseholdID int
	Question    string
}
