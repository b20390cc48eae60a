package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vkravchuk/courseshop/internal/health"
)

var (
	// Payment metrics

	InvoicesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courseshop",
		Name:      "invoices_created_total",
		Help:      "Total gateway invoices created.",
	})

	PaymentCallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courseshop",
		Name:      "payment_callbacks_total",
		Help:      "Total gateway webhook callbacks, by outcome.",
	}, []string{"outcome"})

	PurchasesGrantedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courseshop",
		Name:      "purchases_granted_total",
		Help:      "Total course purchases granted from paid invoices.",
	})

	GatewayRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "courseshop",
		Name:      "gateway_request_duration_seconds",
		Help:      "Latency of payment gateway API calls.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation"})

	// Password reset metrics

	ResetRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courseshop",
		Name:      "reset_requests_total",
		Help:      "Total password reset codes issued.",
	})

	ResetFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courseshop",
		Name:      "reset_failures_total",
		Help:      "Failed reset verifications, by reason.",
	}, []string{"reason"})

	// Sweeper metrics

	SweepCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "courseshop",
		Name:      "sweep_cycle_duration_seconds",
		Help:      "Time taken for one maintenance sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	SweepReconciledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courseshop",
		Name:      "sweep_reconciled_total",
		Help:      "Invoices found paid by the sweeper after a missed callback.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "courseshop",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courseshop",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		InvoicesCreatedTotal,
		PaymentCallbacksTotal,
		PurchasesGrantedTotal,
		GatewayRequestDuration,
		ResetRequestsTotal,
		ResetFailuresTotal,
		SweepCycleDuration,
		SweepReconciledTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
