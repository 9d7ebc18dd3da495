package core_test

import (
	"context"
	"errors"
	"testing"

	"pantryplanner/internal/core"
)

func TestLoadSnapshot(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	if _, err := pool.Exec(ctx, `
		INSERT INTO pantry_items (household_id, ingredient_id, quantity, expiry_date) VALUES
			(1, 2, 1, '2026-10-25'),
			(1, 3, 1, '2026-10-21');
		INSERT INTO expenses (household_id, amount, category, date) VALUES (1, 42.50, 'groceries', '2026-10-18');
	`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snap, err := core.NewSnapshotService(pool).LoadSnapshot(ctx, ana, 1)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap.Household.Name != "Home" {
		t.Errorf("Expected household Home, got %q", snap.Household.Name)
	}
	if len(snap.PantryItems) != 3 {
		t.Fatalf("Expected 3 pantry lots, got %d", len(snap.PantryItems))
	}
	if snap.PantryItems[0].Name != "Flour" || snap.PantryItems[2].ExpiryDate != nil {
		t.Errorf("Expected soonest expiry first and undated last, got %+v", snap.PantryItems)
	}
	if len(snap.Expenses) != 1 || !snap.Expenses[0].Amount.Equal(dec("42.5")) {
		t.Errorf("Expected one 42.50 expense, got %+v", snap.Expenses)
	}

	if _, err := core.NewSnapshotService(pool).LoadSnapshot(ctx, ben, 1); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for non-member, got %v", err)
	}
}

func TestUserAuthentication(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	users := core.NewUserService(pool)
	ctx := context.Background()

	if _, err := users.Authenticate(ctx, "ana@example.com", "anything"); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized without a stored password, got %v", err)
	}
	if err := users.SetPassword(ctx, ana, "short"); !errors.Is(err, core.ErrValidation) {
		t.Errorf("Expected ErrValidation for short password, got %v", err)
	}
	if err := users.SetPassword(ctx, ana, "correct horse"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	u, err := users.Authenticate(ctx, " ANA@example.com ", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.ID != ana || u.PasswordHash == "correct horse" {
		t.Errorf("Unexpected user %+v", u)
	}
	if _, err := users.Authenticate(ctx, "ana@example.com", "wrong horse"); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for wrong password, got %v", err)
	}
	if err := users.SetPassword(ctx, 99, "correct horse"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}
