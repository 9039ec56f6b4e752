package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Settlement metrics
	ApprovalsTotal     *prometheus.CounterVec
	RejectionsTotal    *prometheus.CounterVec
	SettlementDuration prometheus.Histogram
	SettlementAmount   prometheus.Histogram
	SettlementErrors   *prometheus.CounterVec

	// Trading backend metrics
	BackendOps          *prometheus.CounterVec
	BackendFallbacks    prometheus.Counter
	MirrorSyncFailures  prometheus.Counter
	AccountsProvisioned prometheus.Counter

	// KYC metrics
	KYCReviews *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ApprovalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_approvals_total",
				Help: "Total number of funding approvals by direction",
			},
			[]string{"direction"},
		),
		RejectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_rejections_total",
				Help: "Total number of funding rejections by direction",
			},
			[]string{"direction"},
		),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "backoffice_settlement_duration_seconds",
			Help:    "Duration of settlement operations",
			Buckets: prometheus.DefBuckets,
		}),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "backoffice_settlement_amount",
			Help:    "Settled amounts",
			Buckets: []float64{1000, 10000, 100000, 1000000, 10000000},
		}),
		SettlementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_settlement_errors_total",
				Help: "Total number of settlement errors by type",
			},
			[]string{"error_type"},
		),

		BackendOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_trading_backend_ops_total",
				Help: "Total trading backend operations by mode and status",
			},
			[]string{"op", "mode", "status"},
		),
		BackendFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_trading_backend_fallbacks_total",
			Help: "Times the live backend was unreachable and the mock took over",
		}),
		MirrorSyncFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_mirror_sync_failures_total",
			Help: "Deposit approvals whose trading-account mirror update failed",
		}),
		AccountsProvisioned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_trading_accounts_provisioned_total",
			Help: "Total trading accounts created on the backend",
		}),

		KYCReviews: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_kyc_reviews_total",
				Help: "Total KYC reviews by outcome",
			},
			[]string{"outcome"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
