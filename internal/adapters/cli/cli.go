package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pantryplanner/internal/app"
	"pantryplanner/internal/core"
)

const usage = `Available commands:
  reconcile <household_id> [shopping_list_id]
  checkout  <shopping_list_id> [expiry YYYY-MM-DD] [location]
  list      <shopping_list_id>
  toggle    <item_id>
  plan      <household_id> <week_start YYYY-MM-DD>
  slots     <meal_plan_id>
  ask       <household_id> "<question>"
  passwd    <new_password>`

// Run executes a one-shot CLI command on behalf of userID.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, userID int, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}

	switch args[0] {
	case "reconcile", "rec":
		if len(args) < 2 {
			return fmt.Errorf("usage: app reconcile <household_id> [shopping_list_id]")
		}
		householdID, err := parseID(args[1], "household_id")
		if err != nil {
			return err
		}
		req := app.ReconcileRequest{UserID: userID, HouseholdID: householdID}
		if len(args) > 2 {
			listID, err := parseID(args[2], "shopping_list_id")
			if err != nil {
				return err
			}
			req.ShoppingListID = &listID
		}
		res, err := svc.ReconcileFromMealPlan(ctx, req)
		if err != nil {
			return fmt.Errorf("reconcile failed: %w", err)
		}
		printReconcile(out, res)

	case "checkout", "co":
		if len(args) < 2 {
			return fmt.Errorf("usage: app checkout <shopping_list_id> [expiry] [location]")
		}
		listID, err := parseID(args[1], "shopping_list_id")
		if err != nil {
			return err
		}
		req := app.CheckoutRequest{UserID: userID, ShoppingListID: listID}
		if len(args) > 2 {
			req.ExpiryDate = args[2]
		}
		if len(args) > 3 {
			req.Location = strings.Join(args[3:], " ")
		}
		res, err := svc.CheckoutBought(ctx, req)
		if err != nil {
			return fmt.Errorf("checkout failed: %w", err)
		}
		printCheckout(out, res)

	case "list", "ls":
		if len(args) < 2 {
			return fmt.Errorf("usage: app list <shopping_list_id>")
		}
		listID, err := parseID(args[1], "shopping_list_id")
		if err != nil {
			return err
		}
		res, err := svc.GetShoppingList(ctx, userID, listID)
		if err != nil {
			return fmt.Errorf("failed to load list: %w", err)
		}
		fmt.Fprintf(out, "Shopping list #%d %s\n", res.ShoppingList.ID, deref(res.ShoppingList.Name))
		printItems(out, res.Items)

	case "toggle":
		if len(args) < 2 {
			return fmt.Errorf("usage: app toggle <item_id>")
		}
		itemID, err := parseID(args[1], "item_id")
		if err != nil {
			return err
		}
		item, err := svc.ToggleItemBought(ctx, userID, itemID)
		if err != nil {
			return fmt.Errorf("toggle failed: %w", err)
		}
		printItems(out, []core.ShoppingListItem{*item})

	case "plan":
		if len(args) < 3 {
			return fmt.Errorf("usage: app plan <household_id> <week_start YYYY-MM-DD>")
		}
		householdID, err := parseID(args[1], "household_id")
		if err != nil {
			return err
		}
		plan, err := svc.CreateMealPlan(ctx, app.CreateMealPlanRequest{
			UserID:        userID,
			HouseholdID:   householdID,
			WeekStartDate: args[2],
		})
		if err != nil {
			return fmt.Errorf("failed to create meal plan: %w", err)
		}
		fmt.Fprintf(out, "Meal plan #%d created for week of %s\n", plan.ID, plan.WeekStartDate.Format("2006-01-02"))

	case "slots":
		if len(args) < 2 {
			return fmt.Errorf("usage: app slots <meal_plan_id>")
		}
		planID, err := parseID(args[1], "meal_plan_id")
		if err != nil {
			return err
		}
		res, err := svc.EnsureMealPlanSlots(ctx, userID, planID)
		if err != nil {
			return fmt.Errorf("failed to ensure slots: %w", err)
		}
		printSlots(out, res)

	case "ask":
		if len(args) < 3 {
			return fmt.Errorf("usage: app ask <household_id> \"<question>\"")
		}
		householdID, err := parseID(args[1], "household_id")
		if err != nil {
			return err
		}
		res, err := svc.AskAssistant(ctx, app.AssistantRequest{
			UserID:      userID,
			HouseholdID: householdID,
			Question:    strings.Join(args[2:], " "),
		})
		if err != nil {
			return fmt.Errorf("assistant error: %w", err)
		}
		fmt.Fprintln(out, res.Answer)
		if res.InsufficientData {
			fmt.Fprintln(out, "(not enough household data to answer fully)")
		}

	case "passwd":
		if len(args) < 2 {
			return fmt.Errorf("usage: app passwd <new_password>")
		}
		if err := svc.SetPassword(ctx, userID, args[1]); err != nil {
			return fmt.Errorf("failed to set password: %w", err)
		}
		fmt.Fprintln(out, "Password updated.")

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
	return nil
}

func parseID(s, name string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func printReconcile(out io.Writer, res *app.ReconcileResult) {
	if res.Outcome.Empty() {
		fmt.Fprintf(out, "Nothing to add (%s).\n", res.Outcome)
		return
	}
	fmt.Fprintf(out, "Shopping list #%d %s: %d item(s) added or updated\n",
		res.ShoppingList.ID, deref(res.ShoppingList.Name), len(res.Items))
	printItems(out, res.Items)
}

func printCheckout(out io.Writer, res *app.CheckoutResult) {
	if res.Outcome.Empty() {
		fmt.Fprintln(out, "No bought items to move.")
		return
	}
	fmt.Fprintf(out, "Moved to pantry: %d\n", res.MovedToPantry)
	if len(res.SkippedNames) > 0 {
		fmt.Fprintf(out, "Skipped (no matching ingredient): %s\n", strings.Join(res.SkippedNames, ", "))
	}
}

func printItems(out io.Writer, items []core.ShoppingListItem) {
	fmt.Fprintln(out, strings.Repeat("-", 56))
	fmt.Fprintf(out, "  %-6s %-28s %10s %-6s %s\n", "ID", "NAME", "QTY", "UNIT", "BOUGHT")
	fmt.Fprintln(out, strings.Repeat("-", 56))
	for _, it := range items {
		qty := ""
		if it.Quantity.Valid {
			qty = it.Quantity.Decimal.String()
		}
		bought := ""
		if it.Bought {
			bought = "yes"
		}
		fmt.Fprintf(out, "  %-6d %-28s %10s %-6s %s\n", it.ID, it.Name, qty, deref(it.Unit), bought)
	}
	fmt.Fprintln(out, strings.Repeat("-", 56))
}

func printSlots(out io.Writer, res *app.MealPlanSlotsResult) {
	fmt.Fprintf(out, "Meal plan #%d: %d slot(s)\n", res.MealPlanID, len(res.Items))
	for _, it := range res.Items {
		recipe := "-"
		if it.RecipeID != nil {
			recipe = strconv.Itoa(*it.RecipeID)
		}
		fmt.Fprintf(out, "  %s %-10s recipe %s\n", it.Date.Format("Mon 2006-01-02"), it.Slot, recipe)
	}
}
