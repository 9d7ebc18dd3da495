package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pantryplanner"

// Metrics groups the collectors recorded by the application and HTTP layers.
type Metrics struct {
	registry *prometheus.Registry

	ReconcileOutcomes *prometheus.CounterVec
	ItemsTouched      prometheus.Counter
	CheckoutOutcomes  *prometheus.CounterVec
	LotsCreated       prometheus.Counter
	ItemsSkipped      prometheus.Counter
	OperationDuration *prometheus.HistogramVec

	RequestDuration *prometheus.HistogramVec
	RequestCounter  *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ReconcileOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_total",
			Help:      "Meal plan reconciliations by outcome",
		}, []string{"outcome"}),
		ItemsTouched: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_items_touched_total",
			Help:      "Shopping list items created or updated by reconciliation",
		}),
		CheckoutOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Checkouts of bought items by outcome",
		}, []string{"outcome"}),
		LotsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_pantry_lots_total",
			Help:      "Pantry lots created by checkout",
		}),
		ItemsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_items_skipped_total",
			Help:      "Bought items removed without a matching ingredient",
		}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of application operations in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		RequestCounter: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveOperation records how long an application operation took.
func (m *Metrics) ObserveOperation(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.OperationDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, route, strconv.Itoa(status)}
		m.RequestCounter.WithLabelValues(labels...).Inc()
		m.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	})
}
