package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"pantryplanner/internal/ai"
	"pantryplanner/internal/core"
	"pantryplanner/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

type fakeShopping struct {
	core.ShoppingService
	reconcile *core.ReconcileResult
	checkout  *core.CheckoutResult
	gotIn     core.CheckoutInput
	err       error
}

func (f *fakeShopping) ReconcileFromMealPlan(ctx context.Context, userID int, in core.ReconcileInput) (*core.ReconcileResult, error) {
	return f.reconcile, f.err
}

func (f *fakeShopping) CheckoutBought(ctx context.Context, userID int, in core.CheckoutInput) (*core.CheckoutResult, error) {
	f.gotIn = in
	return f.checkout, f.err
}

type fakePlans struct {
	core.MealPlanService
	gotWeek time.Time
}

func (f *fakePlans) CreateMealPlan(ctx context.Context, userID, householdID int, weekStart time.Time) (*core.MealPlan, error) {
	f.gotWeek = weekStart
	return &core.MealPlan{ID: 7, HouseholdID: householdID, WeekStartDate: weekStart}, nil
}

type fakeSnapshots struct{ called bool }

func (f *fakeSnapshots) LoadSnapshot(ctx context.Context, userID, householdID int) (*core.HouseholdSnapshot, error) {
	f.called = true
	return core.NewHouseholdSnapshot(core.Household{ID: householdID}), nil
}

type fakeAssistant struct{}

func (fakeAssistant) Ask(ctx context.Context, question string, snap *core.HouseholdSnapshot) (*ai.AssistantReply, error) {
	return &ai.AssistantReply{Answer: "Milk expires first.", ReferencedItems: []string{"Milk"}}, nil
}

func TestReconcile_EmptyOutcomeIsSuccess(t *testing.T) {
	m := metrics.New()
	svc := NewAppService(Services{Shopping: &fakeShopping{
		reconcile: &core.ReconcileResult{Outcome: core.OutcomeFullyCovered},
	}}, m)

	res, err := svc.ReconcileFromMealPlan(context.Background(), ReconcileRequest{UserID: 1, HouseholdID: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Outcome != core.OutcomeFullyCovered {
		t.Errorf("Expected fully_covered, got %s", res.Outcome)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Errorf("Expected empty non-nil items, got %v", res.Items)
	}
	if res.ShoppingList != nil {
		t.Errorf("Expected no list, got %+v", res.ShoppingList)
	}
	if got := testutil.ToFloat64(m.ReconcileOutcomes.WithLabelValues("fully_covered")); got != 1 {
		t.Errorf("Expected outcome counter 1, got %v", got)
	}
}

func TestReconcile_CountsTouchedItems(t *testing.T) {
	m := metrics.New()
	qty := decimal.NewNullDecimal(decimal.NewFromInt(2))
	svc := NewAppService(Services{Shopping: &fakeShopping{
		reconcile: &core.ReconcileResult{
			Outcome:  core.OutcomeOK,
			MealPlan: &core.MealPlan{ID: 3},
			List:     &core.ShoppingList{ID: 9},
			Items:    []core.ShoppingListItem{{ID: 1, Name: "Eggs", Quantity: qty}, {ID: 2, Name: "Milk"}},
		},
	}}, m)

	res, err := svc.ReconcileFromMealPlan(context.Background(), ReconcileRequest{UserID: 1, HouseholdID: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.MealPlanID != 3 || res.ShoppingList.ID != 9 {
		t.Errorf("Expected plan 3 and list 9, got %d and %d", res.MealPlanID, res.ShoppingList.ID)
	}
	if got := testutil.ToFloat64(m.ItemsTouched); got != 2 {
		t.Errorf("Expected 2 items touched, got %v", got)
	}
}

func TestReconcile_PropagatesErrors(t *testing.T) {
	svc := NewAppService(Services{Shopping: &fakeShopping{err: core.ErrNotFound}}, metrics.New())

	_, err := svc.ReconcileFromMealPlan(context.Background(), ReconcileRequest{UserID: 1, HouseholdID: 1})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCheckout_ParsesLotMetadata(t *testing.T) {
	m := metrics.New()
	shop := &fakeShopping{checkout: &core.CheckoutResult{
		Outcome:       core.OutcomeOK,
		MovedToPantry: 1,
		SkippedNames:  []string{"Xyz123"},
	}}
	svc := NewAppService(Services{Shopping: shop}, m)

	res, err := svc.CheckoutBought(context.Background(), CheckoutRequest{
		UserID: 1, ShoppingListID: 4, ExpiryDate: "2026-11-01", Location: " fridge ",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if shop.gotIn.ExpiryDate == nil || shop.gotIn.ExpiryDate.Format(dateLayout) != "2026-11-01" {
		t.Errorf("Expected expiry 2026-11-01, got %v", shop.gotIn.ExpiryDate)
	}
	if shop.gotIn.Location == nil || *shop.gotIn.Location != "fridge" {
		t.Errorf("Expected location fridge, got %v", shop.gotIn.Location)
	}
	if res.MovedToPantry != 1 || len(res.SkippedNames) != 1 {
		t.Errorf("Expected 1 moved and 1 skipped, got %d and %v", res.MovedToPantry, res.SkippedNames)
	}
	if got := testutil.ToFloat64(m.ItemsSkipped); got != 1 {
		t.Errorf("Expected skipped counter 1, got %v", got)
	}
}

func TestCheckout_InvalidExpiryDate(t *testing.T) {
	shop := &fakeShopping{}
	svc := NewAppService(Services{Shopping: shop}, metrics.New())

	_, err := svc.CheckoutBought(context.Background(), CheckoutRequest{UserID: 1, ShoppingListID: 4, ExpiryDate: "01/11/2026"})
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
}

func TestCheckout_NothingToMoveHasEmptySkipped(t *testing.T) {
	svc := NewAppService(Services{Shopping: &fakeShopping{
		checkout: &core.CheckoutResult{Outcome: core.OutcomeNothingToMove},
	}}, metrics.New())

	res, err := svc.CheckoutBought(context.Background(), CheckoutRequest{UserID: 1, ShoppingListID: 4})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.SkippedNames == nil || len(res.SkippedNames) != 0 {
		t.Errorf("Expected empty skipped names, got %v", res.SkippedNames)
	}
}

func TestCreateMealPlan_ParsesWeekStart(t *testing.T) {
	plans := &fakePlans{}
	svc := NewAppService(Services{MealPlans: plans}, metrics.New())

	if _, err := svc.CreateMealPlan(context.Background(), CreateMealPlanRequest{UserID: 1, HouseholdID: 2, WeekStartDate: "next monday"}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}

	plan, err := svc.CreateMealPlan(context.Background(), CreateMealPlanRequest{UserID: 1, HouseholdID: 2, WeekStartDate: "2026-10-19"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.ID != 7 || plans.gotWeek.Format(dateLayout) != "2026-10-19" {
		t.Errorf("Expected plan 7 for 2026-10-19, got %d for %s", plan.ID, plans.gotWeek.Format(dateLayout))
	}
}

func TestAskAssistant(t *testing.T) {
	snaps := &fakeSnapshots{}
	svc := NewAppService(Services{Snapshots: snaps, Assistant: fakeAssistant{}}, metrics.New())

	if _, err := svc.AskAssistant(context.Background(), AssistantRequest{UserID: 1, HouseholdID: 1, Question: " "}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
	if snaps.called {
		t.Error("Expected no snapshot for a blank question")
	}

	res, err := svc.AskAssistant(context.Background(), AssistantRequest{UserID: 1, HouseholdID: 5, Question: "What expires first?"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.HouseholdID != 5 || res.Answer != "Milk expires first." {
		t.Errorf("Unexpected result %+v", res)
	}
}
