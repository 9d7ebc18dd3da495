package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PantryView is a pantry lot joined with its ingredient name.
type PantryView struct {
	ID           int             `json:"id"`
	IngredientID int             `json:"ingredient_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         *string         `json:"unit,omitempty"`
	Location     *string         `json:"location,omitempty"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
}

// ListView is a shopping list with its items.
type ListView struct {
	ShoppingList
	Items []ShoppingListItem `json:"items"`
}

// HouseholdRef identifies a household without its invite code.
type HouseholdRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HouseholdSnapshot is the read-only state handed to the household assistant.
type HouseholdSnapshot struct {
	Household     HouseholdRef `json:"household"`
	PantryItems   []PantryView `json:"pantry_items"`
	ShoppingLists []ListView   `json:"shopping_lists"`
	Expenses      []Expense    `json:"expenses"`
}

// NewHouseholdSnapshot starts an empty snapshot for h. Collections are non-nil so
// an empty household serialises as [] rather than null.
func NewHouseholdSnapshot(h Household) *HouseholdSnapshot {
	return &HouseholdSnapshot{
		Household:     HouseholdRef{ID: h.ID, Name: h.Name},
		PantryItems:   []PantryView{},
		ShoppingLists: []ListView{},
		Expenses:      []Expense{},
	}
}

// SnapshotService reads a consistent view of a household.
type SnapshotService interface {
	LoadSnapshot(ctx context.Context, userID, householdID int) (*HouseholdSnapshot, error)
}

type snapshotService struct {
	pool *pgxpool.Pool
}

func NewSnapshotService(pool *pgxpool.Pool) SnapshotService {
	return &snapshotService{pool: pool}
}

func (s *snapshotService) LoadSnapshot(ctx context.Context, userID, householdID int) (*HouseholdSnapshot, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if householdID <= 0 {
		return nil, fmt.Errorf("household_id is required: %w", ErrValidation)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	h, err := resolveHouseholdTx(ctx, tx, userID, householdID)
	if err != nil {
		return nil, err
	}
	snap := NewHouseholdSnapshot(*h)

	// Lots with an expiry date first, soonest first.
	rows, err := tx.Query(ctx, `
		SELECT p.id, p.ingredient_id, i.name, p.quantity, p.unit, p.location, p.expiry_date
		FROM pantry_items p
		JOIN ingredients i ON i.id = p.ingredient_id
		WHERE p.household_id = $1
		ORDER BY p.expiry_date IS NULL, p.expiry_date, p.id
	`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pantry: %w", err)
	}
	for rows.Next() {
		var v PantryView
		if err := rows.Scan(&v.ID, &v.IngredientID, &v.Name, &v.Quantity, &v.Unit, &v.Location, &v.ExpiryDate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan pantry row: %w", err)
		}
		snap.PantryItems = append(snap.PantryItems, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pantry rows: %w", err)
	}

	rows, err = tx.Query(ctx, `
		SELECT sl.id, sl.household_id, sl.name, sl.created_at,
		       sli.id, sli.name, sli.quantity, sli.unit, sli.bought, sli.source
		FROM shopping_lists sl
		LEFT JOIN shopping_list_items sli ON sli.shopping_list_id = sl.id
		WHERE sl.household_id = $1
		ORDER BY sl.id, sli.id
	`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping lists: %w", err)
	}
	for rows.Next() {
		var l ShoppingList
		var (
			itemID   *int
			itemName *string
			qty      decimal.NullDecimal
			unit     *string
			bought   *bool
			source   *string
		)
		if err := rows.Scan(&l.ID, &l.HouseholdID, &l.Name, &l.CreatedAt,
			&itemID, &itemName, &qty, &unit, &bought, &source); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan shopping list row: %w", err)
		}
		n := len(snap.ShoppingLists)
		if n == 0 || snap.ShoppingLists[n-1].ID != l.ID {
			snap.ShoppingLists = append(snap.ShoppingLists, ListView{ShoppingList: l, Items: []ShoppingListItem{}})
			n++
		}
		if itemID == nil {
			continue
		}
		snap.ShoppingLists[n-1].Items = append(snap.ShoppingLists[n-1].Items, ShoppingListItem{
			ID:             *itemID,
			ShoppingListID: l.ID,
			Name:           *itemName,
			Quantity:       qty,
			Unit:           unit,
			Bought:         bought != nil && *bought,
			Source:         source,
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shopping list rows: %w", err)
	}

	rows, err = tx.Query(ctx, `
		SELECT id, household_id, amount, category, store, note, date
		FROM expenses
		WHERE household_id = $1
		ORDER BY date DESC, id DESC
	`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.HouseholdID, &e.Amount, &e.Category, &e.Store, &e.Note, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return snap, nil
}
