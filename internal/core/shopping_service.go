package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReconcileInput selects the household whose latest meal plan is reconciled and,
// optionally, the list to merge into. A nil ShoppingListID creates a new list.
type ReconcileInput struct {
	HouseholdID    int
	ShoppingListID *int
}

// ReconcileResult is returned by ReconcileFromMealPlan. When Outcome is not
// OutcomeOK nothing was written and List is nil.
type ReconcileResult struct {
	Outcome  Outcome
	MealPlan *MealPlan
	List     *ShoppingList
	Items    []ShoppingListItem
	Deficits []Deficit
}

// CheckoutInput selects the list to check out and the metadata stamped on new lots.
type CheckoutInput struct {
	ShoppingListID int
	ExpiryDate     *time.Time
	Location       *string
}

// CheckoutResult is returned by CheckoutBought.
type CheckoutResult struct {
	Outcome       Outcome
	MovedToPantry int
	SkippedNames  []string
	Lots          []PantryItem
}

// ShoppingService reconciles meal-plan demand into shopping lists and checks
// bought items out into the pantry. Each call runs in one serializable transaction.
type ShoppingService interface {
	// ReconcileFromMealPlan merges the pantry deficits of the household's latest
	// meal plan into a shopping list. Running it twice on unchanged data is a no-op.
	ReconcileFromMealPlan(ctx context.Context, userID int, in ReconcileInput) (*ReconcileResult, error)
	// CheckoutBought moves every bought item of a list into new pantry lots and
	// removes it from the list. Items that match no ingredient are removed and reported.
	CheckoutBought(ctx context.Context, userID int, in CheckoutInput) (*CheckoutResult, error)
	// GetList returns a list and its items.
	GetList(ctx context.Context, userID, listID int) (*ShoppingList, []ShoppingListItem, error)
	// UpdateItem applies a partial update to one shopping-list item.
	UpdateItem(ctx context.Context, userID, itemID int, patch ItemPatch) (*ShoppingListItem, error)
	// ToggleBought flips the bought flag of one shopping-list item.
	ToggleBought(ctx context.Context, userID, itemID int) (*ShoppingListItem, error)
}

type shoppingService struct {
	pool *pgxpool.Pool
}

func NewShoppingService(pool *pgxpool.Pool) ShoppingService {
	return &shoppingService{pool: pool}
}

func (s *shoppingService) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (s *shoppingService) ReconcileFromMealPlan(ctx context.Context, userID int, in ReconcileInput) (*ReconcileResult, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if in.HouseholdID <= 0 {
		return nil, fmt.Errorf("household_id is required: %w", ErrValidation)
	}
	if in.ShoppingListID != nil && *in.ShoppingListID <= 0 {
		return nil, fmt.Errorf("shopping_list_id must be positive: %w", ErrValidation)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := resolveHouseholdTx(ctx, tx, userID, in.HouseholdID); err != nil {
		return nil, err
	}

	// The target must belong to the household even when there is nothing to merge.
	var list *ShoppingList
	if in.ShoppingListID != nil {
		list, err = lockListTx(ctx, tx, userID, *in.ShoppingListID, in.HouseholdID)
		if err != nil {
			return nil, err
		}
	}

	plan, err := LoadLatestPlanTx(ctx, tx, in.HouseholdID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return &ReconcileResult{Outcome: OutcomeNoMealPlan}, nil
	}
	result := &ReconcileResult{MealPlan: &plan.Plan}

	demand := AggregateDemand(plan)
	if demand.Len() == 0 {
		result.Outcome = OutcomeNoDemand
		return result, nil
	}

	pantry, err := LoadPantryTx(ctx, tx, in.HouseholdID)
	if err != nil {
		return nil, err
	}
	deficits := ComputeDeficits(demand, StockByIngredient(pantry))
	if len(deficits) == 0 {
		result.Outcome = OutcomeFullyCovered
		return result, nil
	}
	result.Deficits = deficits

	if list == nil {
		list, err = createListTx(ctx, tx, in.HouseholdID, GeneratedListName(plan.Plan.WeekStartDate))
		if err != nil {
			return nil, err
		}
	}

	existing, err := listItemsTx(ctx, tx, list.ID, false)
	if err != nil {
		return nil, err
	}

	touched, err := applyMergeTx(ctx, tx, list.ID, PlanMerge(existing, deficits))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reconciliation: %w", err)
	}

	result.Outcome = OutcomeOK
	result.List = list
	result.Items = touched
	return result, nil
}

func createListTx(ctx context.Context, tx pgx.Tx, householdID int, name string) (*ShoppingList, error) {
	var l ShoppingList
	err := tx.QueryRow(ctx, `
		INSERT INTO shopping_lists (household_id, name)
		VALUES ($1, $2)
		RETURNING id, household_id, name, created_at
	`, householdID, name).Scan(&l.ID, &l.HouseholdID, &l.Name, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}
	return &l, nil
}

// applyMergeTx executes the merge actions and returns each touched item once,
// in order of first touch, carrying its final state.
func applyMergeTx(ctx context.Context, tx pgx.Tx, listID int, actions []MergeAction) ([]ShoppingListItem, error) {
	var touched []ShoppingListItem
	pos := make(map[int]int, len(actions))

	for _, a := range actions {
		var (
			it  ShoppingListItem
			err error
		)
		if a.Create() {
			it, err = scanItem(tx.QueryRow(ctx, `
				INSERT INTO shopping_list_items (shopping_list_id, name, quantity, unit, bought, source)
				VALUES ($1, $2, $3, $4, false, $5)
				RETURNING `+itemColumns,
				listID, a.Deficit.IngredientName, a.Deficit.NeededQuantity, a.Deficit.Unit, SourceMealPlan))
			if err != nil {
				return nil, fmt.Errorf("failed to create item %q: %w", a.Deficit.IngredientName, err)
			}
		} else {
			it, err = scanItem(tx.QueryRow(ctx, `
				UPDATE shopping_list_items
				SET quantity = $1, bought = false, source = $2, updated_at = NOW()
				WHERE id = $3
				RETURNING `+itemColumns,
				a.Deficit.NeededQuantity, SourceMealPlan, a.ItemID))
			if err != nil {
				return nil, fmt.Errorf("failed to update item %d: %w", a.ItemID, err)
			}
		}

		if i, ok := pos[it.ID]; ok {
			touched[i] = it
			continue
		}
		pos[it.ID] = len(touched)
		touched = append(touched, it)
	}
	return touched, nil
}

func (s *shoppingService) CheckoutBought(ctx context.Context, userID int, in CheckoutInput) (*CheckoutResult, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if in.ShoppingListID <= 0 {
		return nil, fmt.Errorf("shopping_list_id is required: %w", ErrValidation)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	list, err := lockListTx(ctx, tx, userID, in.ShoppingListID, 0)
	if err != nil {
		return nil, err
	}

	bought, err := listItemsTx(ctx, tx, list.ID, true)
	if err != nil {
		return nil, err
	}
	if len(bought) == 0 {
		return &CheckoutResult{Outcome: OutcomeNothingToMove, SkippedNames: []string{}}, nil
	}

	ingredients, err := LoadIngredientsTx(ctx, tx, list.HouseholdID)
	if err != nil {
		return nil, err
	}
	plan := PlanCheckout(bought, ingredients)

	result := &CheckoutResult{Outcome: OutcomeOK, SkippedNames: plan.SkippedNames()}
	for _, lot := range plan.Lots {
		p := PantryItem{
			HouseholdID:  list.HouseholdID,
			IngredientID: lot.IngredientID,
			Quantity:     lot.Quantity,
			Unit:         lot.Unit,
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO pantry_items (household_id, ingredient_id, quantity, unit, expiry_date, location)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, expiry_date, location, created_at
		`, list.HouseholdID, lot.IngredientID, lot.Quantity, lot.Unit, in.ExpiryDate, in.Location,
		).Scan(&p.ID, &p.ExpiryDate, &p.Location, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create pantry lot for item %d: %w", lot.ItemID, err)
		}
		result.Lots = append(result.Lots, p)
	}
	result.MovedToPantry = len(result.Lots)

	tag, err := tx.Exec(ctx, `DELETE FROM shopping_list_items WHERE id = ANY($1)`, plan.DeleteItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove checked-out items: %w", err)
	}
	if int(tag.RowsAffected()) != len(plan.DeleteItemID) {
		return nil, fmt.Errorf("removed %d of %d checked-out items", tag.RowsAffected(), len(plan.DeleteItemID))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}
	return result, nil
}

func (s *shoppingService) GetList(ctx context.Context, userID, listID int) (*ShoppingList, []ShoppingListItem, error) {
	if err := requireCaller(userID); err != nil {
		return nil, nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var l ShoppingList
	err = tx.QueryRow(ctx, `
		SELECT sl.id, sl.household_id, sl.name, sl.created_at
		FROM shopping_lists sl
		JOIN household_users hu ON hu.household_id = sl.household_id AND hu.user_id = $2
		WHERE sl.id = $1
	`, listID, userID).Scan(&l.ID, &l.HouseholdID, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("shopping list %d: %w", listID, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to fetch shopping list: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_list_items
		WHERE shopping_list_id = $1
		ORDER BY id
	`, listID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query shopping list items: %w", err)
	}
	defer rows.Close()

	var items []ShoppingListItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan shopping list item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating shopping list items: %w", err)
	}
	return &l, items, nil
}
