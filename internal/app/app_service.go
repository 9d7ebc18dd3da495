package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pantryplanner/internal/ai"
	"pantryplanner/internal/core"
	"pantryplanner/internal/logger"
	"pantryplanner/internal/metrics"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type appService struct {
	shopping  core.ShoppingService
	plans     core.MealPlanService
	snapshots core.SnapshotService
	users     core.UserService
	assistant ai.Assistant
	metrics   *metrics.Metrics
}

// Services bundles the domain services an appService delegates to.
type Services struct {
	Shopping  core.ShoppingService
	MealPlans core.MealPlanService
	Snapshots core.SnapshotService
	Users     core.UserService
	Assistant ai.Assistant
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(svcs Services, m *metrics.Metrics) ApplicationService {
	return &appService{
		shopping:  svcs.Shopping,
		plans:     svcs.MealPlans,
		snapshots: svcs.Snapshots,
		users:     svcs.Users,
		assistant: svcs.Assistant,
		metrics:   m,
	}
}

func (s *appService) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		logger.FromContext(ctx).Info("login rejected", zap.Error(err))
		return nil, err
	}
	return &SessionResult{UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *appService) SetPassword(ctx context.Context, userID int, password string) error {
	return s.users.SetPassword(ctx, userID, password)
}

// ReconcileFromMealPlan runs the reconciliation and records its outcome.
func (s *appService) ReconcileFromMealPlan(ctx context.Context, req ReconcileRequest) (_ *ReconcileResult, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("reconcile", start, err) }()

	log := logger.FromContext(ctx).With(
		zap.Int("user_id", req.UserID),
		zap.Int("household_id", req.HouseholdID),
	)

	res, err := s.shopping.ReconcileFromMealPlan(ctx, req.UserID, core.ReconcileInput{
		HouseholdID:    req.HouseholdID,
		ShoppingListID: req.ShoppingListID,
	})
	if err != nil {
		log.Warn("reconcile failed", zap.Error(err))
		return nil, err
	}

	s.metrics.ReconcileOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	s.metrics.ItemsTouched.Add(float64(len(res.Items)))

	out := &ReconcileResult{
		Outcome:      res.Outcome,
		ShoppingList: res.List,
		Items:        res.Items,
		Deficits:     res.Deficits,
	}
	if res.MealPlan != nil {
		out.MealPlanID = res.MealPlan.ID
	}
	if out.Items == nil {
		out.Items = []core.ShoppingListItem{}
	}
	if out.Deficits == nil {
		out.Deficits = []core.Deficit{}
	}

	fields := []zap.Field{zap.String("outcome", string(res.Outcome)), zap.Int("items", len(out.Items))}
	if res.List != nil {
		fields = append(fields, zap.Int("shopping_list_id", res.List.ID))
	}
	log.Info("meal plan reconciled", fields...)
	return out, nil
}

// CheckoutBought parses the optional lot metadata, runs the checkout and records its outcome.
func (s *appService) CheckoutBought(ctx context.Context, req CheckoutRequest) (_ *CheckoutResult, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("checkout", start, err) }()

	in := core.CheckoutInput{ShoppingListID: req.ShoppingListID}
	if d := strings.TrimSpace(req.ExpiryDate); d != "" {
		t, perr := time.Parse(dateLayout, d)
		if perr != nil {
			return nil, fmt.Errorf("expiry_date must be YYYY-MM-DD: %w", core.ErrValidation)
		}
		in.ExpiryDate = &t
	}
	if loc := strings.TrimSpace(req.Location); loc != "" {
		in.Location = &loc
	}

	log := logger.FromContext(ctx).With(
		zap.Int("user_id", req.UserID),
		zap.Int("shopping_list_id", req.ShoppingListID),
	)

	res, err := s.shopping.CheckoutBought(ctx, req.UserID, in)
	if err != nil {
		log.Warn("checkout failed", zap.Error(err))
		return nil, err
	}

	s.metrics.CheckoutOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	s.metrics.LotsCreated.Add(float64(res.MovedToPantry))
	s.metrics.ItemsSkipped.Add(float64(len(res.SkippedNames)))

	skipped := res.SkippedNames
	if skipped == nil {
		skipped = []string{}
	}
	log.Info("bought items checked out",
		zap.String("outcome", string(res.Outcome)),
		zap.Int("moved_to_pantry", res.MovedToPantry),
		zap.Strings("skipped", skipped),
	)
	return &CheckoutResult{
		Outcome:       res.Outcome,
		MovedToPantry: res.MovedToPantry,
		SkippedNames:  skipped,
	}, nil
}

func (s *appService) GetShoppingList(ctx context.Context, userID, listID int) (*ShoppingListResult, error) {
	list, items, err := s.shopping.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []core.ShoppingListItem{}
	}
	return &ShoppingListResult{ShoppingList: list, Items: items}, nil
}

func (s *appService) UpdateShoppingItem(ctx context.Context, userID, itemID int, patch core.ItemPatch) (*core.ShoppingListItem, error) {
	return s.shopping.UpdateItem(ctx, userID, itemID, patch)
}

func (s *appService) ToggleItemBought(ctx context.Context, userID, itemID int) (*core.ShoppingListItem, error) {
	return s.shopping.ToggleBought(ctx, userID, itemID)
}

func (s *appService) CreateMealPlan(ctx context.Context, req CreateMealPlanRequest) (*core.MealPlan, error) {
	weekStart, err := time.Parse(dateLayout, strings.TrimSpace(req.WeekStartDate))
	if err != nil {
		return nil, fmt.Errorf("week_start_date must be YYYY-MM-DD: %w", core.ErrValidation)
	}
	plan, err := s.plans.CreateMealPlan(ctx, req.UserID, req.HouseholdID, weekStart)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("meal plan created",
		zap.Int("meal_plan_id", plan.ID),
		zap.Int("household_id", plan.HouseholdID),
		zap.String("week_start_date", plan.WeekStartDate.Format(dateLayout)),
	)
	return plan, nil
}

func (s *appService) EnsureMealPlanSlots(ctx context.Context, userID, mealPlanID int) (*MealPlanSlotsResult, error) {
	items, err := s.plans.EnsureSlots(ctx, userID, mealPlanID)
	if err != nil {
		return nil, err
	}
	return &MealPlanSlotsResult{MealPlanID: mealPlanID, Items: items}, nil
}

// AskAssistant loads a read-only snapshot of the household and forwards it with the question.
func (s *appService) AskAssistant(ctx context.Context, req AssistantRequest) (_ *AssistantResult, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("assistant", start, err) }()

	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("question is required: %w", core.ErrValidation)
	}
	snap, err := s.snapshots.LoadSnapshot(ctx, req.UserID, req.HouseholdID)
	if err != nil {
		return nil, err
	}
	reply, err := s.assistant.Ask(ctx, req.Question, snap)
	if err != nil {
		if !errors.Is(err, ai.ErrNotConfigured) {
			logger.FromContext(ctx).Error("assistant request failed",
				zap.Int("household_id", req.HouseholdID), zap.Error(err))
		}
		return nil, err
	}
	return &AssistantResult{HouseholdID: req.HouseholdID, AssistantReply: *reply}, nil
}
