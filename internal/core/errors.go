package core

import "errors"

var (
	// ErrUnauthorized is returned when an entry point is called without a caller identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound covers absent households, shopping lists, meal plans and items.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a create would violate a uniqueness rule.
	ErrConflict = errors.New("conflict")
)

// Outcome distinguishes well-formed requests that had nothing to do from ones
// that produced changes. Empty outcomes are successes, not errors.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeNoMealPlan    Outcome = "no_meal_plan"
	OutcomeNoDemand      Outcome = "no_demand"
	OutcomeFullyCovered  Outcome = "fully_covered"
	OutcomeNothingToMove Outcome = "nothing_to_move"
)

// Empty reports whether o is one of the nothing-to-do outcomes.
func (o Outcome) Empty() bool {
	return o != OutcomeOK
}
