package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pantryplanner/internal/app"
	"pantryplanner/internal/core"
)

// apiReconcileFromMealPlan handles POST /api/shopping-lists/from-meal-plan.
func (h *Handler) apiReconcileFromMealPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HouseholdID    int  `json:"household_id"`
		ShoppingListID *int `json:"shopping_list_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.ReconcileFromMealPlan(r.Context(), app.ReconcileRequest{
		UserID:         userID(r),
		HouseholdID:    req.HouseholdID,
		ShoppingListID: req.ShoppingListID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiCheckoutBought handles POST /api/shopping-lists/{id}/checkout-bought.
// The body is optional.
func (h *Handler) apiCheckoutBought(w http.ResponseWriter, r *http.Request) {
	listID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		ExpiryDate string `json:"expiry_date"`
		Location   string `json:"location"`
	}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	res, err := h.svc.CheckoutBought(r.Context(), app.CheckoutRequest{
		UserID:         userID(r),
		ShoppingListID: listID,
		ExpiryDate:     req.ExpiryDate,
		Location:       req.Location,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiGetShoppingList handles GET /api/shopping-lists/{id}.
func (h *Handler) apiGetShoppingList(w http.ResponseWriter, r *http.Request) {
	listID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetShoppingList(r.Context(), userID(r), listID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiUpdateShoppingItem handles PATCH /api/shopping-list-items/{id}.
func (h *Handler) apiUpdateShoppingItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var patch core.ItemPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	item, err := h.svc.UpdateShoppingItem(r.Context(), userID(r), itemID, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

// apiToggleShoppingItem handles POST /api/shopping-list-items/{id}/toggle.
func (h *Handler) apiToggleShoppingItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.ToggleItemBought(r.Context(), userID(r), itemID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "failed to read body", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
