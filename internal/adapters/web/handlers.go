package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pantryplanner/internal/app"
	"pantryplanner/internal/metrics"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc          app.ApplicationService
	router       chi.Router
	jwtSecret    string
	secureCookie bool
}

// Options configures NewHandler.
type Options struct {
	AllowedOrigins string
	JWTSecret      string
	Production     bool
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	h := &Handler{
		svc:          svc,
		jwtSecret:    opts.JWTSecret,
		secureCookie: opts.Production,
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer)
	r.Use(CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	// ── Public ───────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 16))
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected API routes (401 JSON if unauthenticated) ───────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		r.Post("/api/shopping-lists/from-meal-plan", h.apiReconcileFromMealPlan)
		r.Get("/api/shopping-lists/{id}", h.apiGetShoppingList)
		r.Post("/api/shopping-lists/{id}/checkout-bought", h.apiCheckoutBought)
		r.Patch("/api/shopping-list-items/{id}", h.apiUpdateShoppingItem)
		r.Post("/api/shopping-list-items/{id}/toggle", h.apiToggleShoppingItem)

		r.Post("/api/meal-plans", h.apiCreateMealPlan)
		r.Post("/api/meal-plans/{id}/slots", h.apiEnsureMealPlanSlots)

		r.Post("/api/ai/assistant", h.apiAskAssistant)
	})

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// idParam parses a positive integer URL parameter, writing a 400 on failure.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
