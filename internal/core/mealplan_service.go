package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DaysPerPlan is the number of days covered by one meal plan.
const DaysPerPlan = 7

// MealPlanService creates meal plans and their empty slot grid.
type MealPlanService interface {
	// CreateMealPlan creates the household's plan for the week starting at weekStart.
	// A second plan for the same week fails with ErrConflict.
	CreateMealPlan(ctx context.Context, userID, householdID int, weekStart time.Time) (*MealPlan, error)
	// EnsureSlots creates any missing (date, slot) items of the plan's week with no
	// recipe assigned and returns all items. Calling it again creates nothing.
	EnsureSlots(ctx context.Context, userID, mealPlanID int) ([]MealPlanItem, error)
}

type mealPlanService struct {
	pool *pgxpool.Pool
}

func NewMealPlanService(pool *pgxpool.Pool) MealPlanService {
	return &mealPlanService{pool: pool}
}

func (s *mealPlanService) CreateMealPlan(ctx context.Context, userID, householdID int, weekStart time.Time) (*MealPlan, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if householdID <= 0 {
		return nil, fmt.Errorf("household_id is required: %w", ErrValidation)
	}
	if weekStart.IsZero() {
		return nil, fmt.Errorf("week_start_date is required: %w", ErrValidation)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := resolveHouseholdTx(ctx, tx, userID, householdID); err != nil {
		return nil, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM meal_plans WHERE household_id = $1 AND week_start_date = $2)
	`, householdID, weekStart).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check existing meal plan: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("meal plan for week %s already exists: %w", weekStart.Format("2006-01-02"), ErrConflict)
	}

	var mp MealPlan
	err = tx.QueryRow(ctx, `
		INSERT INTO meal_plans (household_id, week_start_date)
		VALUES ($1, $2)
		RETURNING id, household_id, week_start_date
	`, householdID, weekStart).Scan(&mp.ID, &mp.HouseholdID, &mp.WeekStartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit meal plan: %w", err)
	}
	return &mp, nil
}

func (s *mealPlanService) EnsureSlots(ctx context.Context, userID, mealPlanID int) ([]MealPlanItem, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var weekStart time.Time
	err = tx.QueryRow(ctx, `
		SELECT mp.week_start_date
		FROM meal_plans mp
		JOIN household_users hu ON hu.household_id = mp.household_id AND hu.user_id = $2
		WHERE mp.id = $1
	`, mealPlanID, userID).Scan(&weekStart)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("meal plan %d: %w", mealPlanID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meal plan: %w", err)
	}

	batch := &pgx.Batch{}
	for day := 0; day < DaysPerPlan; day++ {
		date := weekStart.AddDate(0, 0, day)
		for _, slot := range Slots {
			batch.Queue(`
				INSERT INTO meal_plan_items (meal_plan_id, date, slot, recipe_id)
				VALUES ($1, $2, $3, NULL)
				ON CONFLICT (meal_plan_id, date, slot) DO NOTHING
			`, mealPlanID, date, string(slot))
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to create meal plan slots: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, meal_plan_id, date, slot, recipe_id
		FROM meal_plan_items
		WHERE meal_plan_id = $1
		ORDER BY date,
		         CASE slot WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 ELSE 2 END,
		         id
	`, mealPlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plan items: %w", err)
	}
	var items []MealPlanItem
	for rows.Next() {
		var it MealPlanItem
		var slot string
		if err := rows.Scan(&it.ID, &it.MealPlanID, &it.Date, &slot, &it.RecipeID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan meal plan item: %w", err)
		}
		it.Slot = Slot(slot)
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal plan items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit meal plan slots: %w", err)
	}
	return items, nil
}
