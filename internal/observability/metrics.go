// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Settlement metrics
	ClaimsTotal         *prometheus.CounterVec
	ClaimedSol          *prometheus.CounterVec
	ClaimDuration       *prometheus.HistogramVec
	LockContention      *prometheus.CounterVec
	RecordingFailures   *prometheus.CounterVec
	UnconfirmedPayments *prometheus.CounterVec
	FundingBalanceSol   *prometheus.GaugeVec

	// Curve metrics
	QuotesTotal       *prometheus.CounterVec
	CurvePointsStored prometheus.Counter

	// Latency metrics
	RPCCallLatency *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulClaim *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance registered with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "launchpad"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Settlement metrics
		ClaimsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "claims_total",
			Help:      "Total number of claim attempts by surface and outcome",
		}, []string{"surface", "outcome"}),
		ClaimedSol: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "claimed_sol_total",
			Help:      "Total SOL paid out by completed claims",
		}, []string{"surface"}),
		ClaimDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "claim_duration_seconds",
			Help:      "Claim handling duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"surface", "outcome"}),
		LockContention: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "lock_contention_total",
			Help:      "Total number of claims rejected because the beneficiary lock was held",
		}, []string{"surface"}),
		RecordingFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "distribution_recording_failures_total",
			Help:      "Payments sent whose distribution rows could not be written; each needs manual reconciliation",
		}, []string{"surface"}),
		UnconfirmedPayments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "unconfirmed_payments_total",
			Help:      "Payments submitted without confirmation, recorded as pending",
		}, []string{"surface"}),
		FundingBalanceSol: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "funding_balance_sol",
			Help:      "Funding wallet balance observed before the last payment",
		}, []string{"surface"}),

		// Curve metrics
		QuotesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "curve",
			Name:      "quotes_total",
			Help:      "Total number of quotes by side",
		}, []string{"side"}),
		CurvePointsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "curve",
			Name:      "points_stored_total",
			Help:      "Total number of curve observations stored",
		}),

		// Latency metrics
		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulClaim: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_claim_timestamp",
			Help:      "Unix timestamp of the last completed claim",
		}, []string{"surface"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

// RecordClaim records the outcome and duration of one claim attempt.
func RecordClaim(surface, outcome string, seconds float64) {
	DefaultMetrics.ClaimsTotal.WithLabelValues(surface, outcome).Inc()
	DefaultMetrics.ClaimDuration.WithLabelValues(surface, outcome).Observe(seconds)
}

// RecordClaimPaid records SOL paid by a completed claim.
func RecordClaimPaid(surface string, sol float64, unixSeconds int64) {
	DefaultMetrics.ClaimedSol.WithLabelValues(surface).Add(sol)
	DefaultMetrics.LastSuccessfulClaim.WithLabelValues(surface).Set(float64(unixSeconds))
}

// RecordLockContention increments the lock contention counter.
func RecordLockContention(surface string) {
	DefaultMetrics.LockContention.WithLabelValues(surface).Inc()
}

// RecordRecordingFailure increments the critical recording failure counter.
func RecordRecordingFailure(surface string) {
	DefaultMetrics.RecordingFailures.WithLabelValues(surface).Inc()
}

// RecordUnconfirmedPayment increments the unconfirmed payment counter.
func RecordUnconfirmedPayment(surface string) {
	DefaultMetrics.UnconfirmedPayments.WithLabelValues(surface).Inc()
}

// UpdateFundingBalance sets the observed funding balance.
func UpdateFundingBalance(surface string, sol float64) {
	DefaultMetrics.FundingBalanceSol.WithLabelValues(surface).Set(sol)
}

// RecordQuote increments the quote counter.
func RecordQuote(side string) {
	DefaultMetrics.QuotesTotal.WithLabelValues(side).Inc()
}

// RecordCurvePoints increments the stored curve points counter.
func RecordCurvePoints(n int) {
	DefaultMetrics.CurvePointsStored.Add(float64(n))
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.RPCCallLatency.WithLabelValues(method, status).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
