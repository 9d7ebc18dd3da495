package web

import (
	"net/http"

	"pantryplanner/internal/app"
)

// apiCreateMealPlan handles POST /api/meal-plans.
func (h *Handler) apiCreateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HouseholdID   int    `json:"household_id"`
		WeekStartDate string `json:"week_start_date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	plan, err := h.svc.CreateMealPlan(r.Context(), app.CreateMealPlanRequest{
		UserID:        userID(r),
		HouseholdID:   req.HouseholdID,
		WeekStartDate: req.WeekStartDate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, plan)
}

// apiEnsureMealPlanSlots handles POST /api/meal-plans/{id}/slots.
func (h *Handler) apiEnsureMealPlanSlots(w http.ResponseWriter, r *http.Request) {
	planID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.EnsureMealPlanSlots(r.Context(), userID(r), planID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiAskAssistant handles POST /api/ai/assistant.
func (h *Handler) apiAskAssistant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HouseholdID int    `json:"household_id"`
		Question    string `json:"question"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.AskAssistant(r.Context(), app.AssistantRequest{
		UserID:      userID(r),
		HouseholdID: req.HouseholdID,
		Question:    req.Question,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}
