package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PlannedMeal is a meal-plan item with its recipe's ingredient rows resolved.
// Ingredients is empty when no recipe is assigned to the slot.
type PlannedMeal struct {
	Item        MealPlanItem
	Ingredients []RecipeIngredient
}

// PlanSnapshot is the most recent meal plan of a household with resolved recipes.
type PlanSnapshot struct {
	Plan  MealPlan
	Meals []PlannedMeal
}

// LoadLatestPlanTx returns the household's most recent meal plan by week start date.
// It returns nil, nil when the household has no meal plan.
func LoadLatestPlanTx(ctx context.Context, tx pgx.Tx, householdID int) (*PlanSnapshot, error) {
	var snap PlanSnapshot
	err := tx.QueryRow(ctx, `
		SELECT id, household_id, week_start_date
		FROM meal_plans
		WHERE household_id = $1
		ORDER BY week_start_date DESC, id DESC
		LIMIT 1
	`, householdID).Scan(&snap.Plan.ID, &snap.Plan.HouseholdID, &snap.Plan.WeekStartDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest meal plan: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, meal_plan_id, date, slot, recipe_id
		FROM meal_plan_items
		WHERE meal_plan_id = $1
		ORDER BY date,
		         CASE slot WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 ELSE 2 END,
		         id
	`, snap.Plan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plan items: %w", err)
	}
	for rows.Next() {
		var it MealPlanItem
		var slot string
		if err := rows.Scan(&it.ID, &it.MealPlanID, &it.Date, &slot, &it.RecipeID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan meal plan item: %w", err)
		}
		it.Slot = Slot(slot)
		snap.Meals = append(snap.Meals, PlannedMeal{Item: it})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal plan items: %w", err)
	}

	// Resolve each distinct recipe once; several slots may share a recipe.
	byRecipe := make(map[int][]RecipeIngredient)
	for i, m := range snap.Meals {
		if m.Item.RecipeID == nil {
			continue
		}
		recipeID := *m.Item.RecipeID
		ings, ok := byRecipe[recipeID]
		if !ok {
			ings, err = loadRecipeIngredientsTx(ctx, tx, recipeID)
			if err != nil {
				return nil, err
			}
			byRecipe[recipeID] = ings
		}
		snap.Meals[i].Ingredients = ings
	}
	return &snap, nil
}

func loadRecipeIngredientsTx(ctx context.Context, tx pgx.Tx, recipeID int) ([]RecipeIngredient, error) {
	rows, err := tx.Query(ctx, `
		SELECT ri.recipe_id, ri.ingredient_id, i.name, ri.quantity, ri.unit
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = $1
		ORDER BY ri.id
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients for recipe %d: %w", recipeID, err)
	}
	defer rows.Close()

	var out []RecipeIngredient
	for rows.Next() {
		var ri RecipeIngredient
		if err := rows.Scan(&ri.RecipeID, &ri.IngredientID, &ri.IngredientName, &ri.Quantity, &ri.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		out = append(out, ri)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe ingredients: %w", err)
	}
	return out, nil
}

// LoadPantryTx returns every pantry lot of the household.
func LoadPantryTx(ctx context.Context, tx pgx.Tx, householdID int) ([]PantryItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, household_id, ingredient_id, quantity, unit, expiry_date, location, created_at
		FROM pantry_items
		WHERE household_id = $1
		ORDER BY id
	`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pantry items: %w", err)
	}
	defer rows.Close()

	var items []PantryItem
	for rows.Next() {
		var p PantryItem
		if err := rows.Scan(&p.ID, &p.HouseholdID, &p.IngredientID, &p.Quantity,
			&p.Unit, &p.ExpiryDate, &p.Location, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pantry item: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pantry items: %w", err)
	}
	return items, nil
}

// LoadIngredientsTx returns all ingredients of the household ordered by id.
func LoadIngredientsTx(ctx context.Context, tx pgx.Tx, householdID int) ([]Ingredient, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, household_id, name, category
		FROM ingredients
		WHERE household_id = $1
		ORDER BY id
	`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.HouseholdID, &ing.Name, &ing.Category); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}
	return out, nil
}
