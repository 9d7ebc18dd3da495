package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// requireCaller rejects calls made without an authenticated user id.
func requireCaller(userID int) error {
	if userID <= 0 {
		return fmt.Errorf("no caller identity: %w", ErrUnauthorized)
	}
	return nil
}

// resolveHouseholdTx loads a household the user belongs to. Households the user
// is not a member of are reported as not found.
func resolveHouseholdTx(ctx context.Context, tx pgx.Tx, userID, householdID int) (*Household, error) {
	var h Household
	var inviteCode *string
	err := tx.QueryRow(ctx, `
		SELECT h.id, h.name, h.invite_code, h.created_at
		FROM households h
		JOIN household_users hu ON hu.household_id = h.id
		WHERE h.id = $1 AND hu.user_id = $2
	`, householdID, userID).Scan(&h.ID, &h.Name, &inviteCode, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("household %d: %w", householdID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve household: %w", err)
	}
	if inviteCode != nil {
		h.InviteCode = *inviteCode
	}
	return &h, nil
}

// lockListTx loads and row-locks a shopping list visible to the user.
// householdID narrows the lookup when non-zero.
func lockListTx(ctx context.Context, tx pgx.Tx, userID, listID, householdID int) (*ShoppingList, error) {
	var l ShoppingList
	err := tx.QueryRow(ctx, `
		SELECT sl.id, sl.household_id, sl.name, sl.created_at
		FROM shopping_lists sl
		JOIN household_users hu ON hu.household_id = sl.household_id AND hu.user_id = $2
		WHERE sl.id = $1 AND ($3 = 0 OR sl.household_id = $3)
		FOR UPDATE OF sl
	`, listID, userID, householdID).Scan(&l.ID, &l.HouseholdID, &l.Name, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("shopping list %d: %w", listID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock shopping list: %w", err)
	}
	return &l, nil
}

const itemColumns = `id, shopping_list_id, name, quantity, unit, bought, source`

func scanItem(row pgx.Row) (ShoppingListItem, error) {
	var it ShoppingListItem
	err := row.Scan(&it.ID, &it.ShoppingListID, &it.Name, &it.Quantity, &it.Unit, &it.Bought, &it.Source)
	return it, err
}

// listItemsTx returns the list's items in id order. boughtOnly restricts the
// result to bought items. Rows are locked for the rest of the transaction.
func listItemsTx(ctx context.Context, tx pgx.Tx, listID int, boughtOnly bool) ([]ShoppingListItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_list_items
		WHERE shopping_list_id = $1 AND (NOT $2 OR bought)
		ORDER BY id
		FOR UPDATE
	`, listID, boughtOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping list items: %w", err)
	}
	defer rows.Close()

	var items []ShoppingListItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping list item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shopping list items: %w", err)
	}
	return items, nil
}
