package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Optional is a patch field. Set is true when the field was supplied, even if
// its value is null.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a supplied Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// ItemPatch is a partial update of a shopping-list item. Only supplied fields
// are written.
type ItemPatch struct {
	Name     Optional[string]              `json:"name"`
	Quantity Optional[decimal.NullDecimal] `json:"quantity"`
	Unit     Optional[*string]             `json:"unit"`
	Bought   Optional[bool]                `json:"bought"`
}

// Validate checks the supplied fields.
func (p ItemPatch) Validate() error {
	if p.Name.Set {
		name := strings.TrimSpace(p.Name.Value)
		if name == "" {
			return fmt.Errorf("name cannot be blank: %w", ErrValidation)
		}
		if len(name) > 255 {
			return fmt.Errorf("name exceeds 255 characters: %w", ErrValidation)
		}
	}
	if p.Unit.Set && p.Unit.Value != nil && len(*p.Unit.Value) > 50 {
		return fmt.Errorf("unit exceeds 50 characters: %w", ErrValidation)
	}
	if p.Quantity.Set && p.Quantity.Value.Valid && p.Quantity.Value.Decimal.IsNegative() {
		return fmt.Errorf("quantity cannot be negative: %w", ErrValidation)
	}
	return nil
}

// ApplyTo writes the supplied fields onto it.
func (p ItemPatch) ApplyTo(it *ShoppingListItem) {
	if p.Name.Set {
		it.Name = strings.TrimSpace(p.Name.Value)
	}
	if p.Quantity.Set {
		it.Quantity = p.Quantity.Value
	}
	if p.Unit.Set {
		it.Unit = p.Unit.Value
	}
	if p.Bought.Set {
		it.Bought = p.Bought.Value
	}
}

func lockItemTx(ctx context.Context, tx pgx.Tx, userID, itemID int) (ShoppingListItem, error) {
	it, err := scanItem(tx.QueryRow(ctx, `
		SELECT sli.id, sli.shopping_list_id, sli.name, sli.quantity, sli.unit, sli.bought, sli.source
		FROM shopping_list_items sli
		JOIN shopping_lists sl   ON sl.id = sli.shopping_list_id
		JOIN household_users hu  ON hu.household_id = sl.household_id AND hu.user_id = $2
		WHERE sli.id = $1
		FOR UPDATE OF sli
	`, itemID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return it, fmt.Errorf("shopping list item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return it, fmt.Errorf("failed to lock shopping list item: %w", err)
	}
	return it, nil
}

func saveItemTx(ctx context.Context, tx pgx.Tx, it ShoppingListItem) (ShoppingListItem, error) {
	saved, err := scanItem(tx.QueryRow(ctx, `
		UPDATE shopping_list_items
		SET name = $1, quantity = $2, unit = $3, bought = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+itemColumns,
		it.Name, it.Quantity, it.Unit, it.Bought, it.ID))
	if err != nil {
		return saved, fmt.Errorf("failed to update shopping list item %d: %w", it.ID, err)
	}
	return saved, nil
}

func (s *shoppingService) UpdateItem(ctx context.Context, userID, itemID int, patch ItemPatch) (*ShoppingListItem, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	it, err := lockItemTx(ctx, tx, userID, itemID)
	if err != nil {
		return nil, err
	}
	patch.ApplyTo(&it)

	saved, err := saveItemTx(ctx, tx, it)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit item update: %w", err)
	}
	return &saved, nil
}

func (s *shoppingService) ToggleBought(ctx context.Context, userID, itemID int) (*ShoppingListItem, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	it, err := lockItemTx(ctx, tx, userID, itemID)
	if err != nil {
		return nil, err
	}
	it.Bought = !it.Bought

	saved, err := saveItemTx(ctx, tx, it)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit bought toggle: %w", err)
	}
	return &saved, nil
}
