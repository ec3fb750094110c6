package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the portal's Prometheus metrics behind one registry.
type Collector struct {
	registry             *prometheus.Registry
	httpRequests         *prometheus.CounterVec
	withdrawalsProcessed *prometheus.CounterVec
	withdrawalsCreated   prometheus.Counter
	bonusesCredited      *prometheus.CounterVec
	walletBalance        *prometheus.GaugeVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		httpRequests: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		withdrawalsProcessed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "withdrawals_processed_total",
			Help: "Withdrawal requests processed, by resulting status",
		}, []string{"status"}),
		withdrawalsCreated: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "withdrawals_created_total",
			Help: "Withdrawal requests created",
		}),
		bonusesCredited: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "bonuses_credited_total",
			Help: "Bonus credits applied, by bonus type",
		}, []string{"type"}),
		walletBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "wallet_balance",
			Help: "Last observed wallet balance per user",
		}, []string{"user_id"}),
	}
}

func (c *Collector) RecordHTTPRequest(method, path, status string) {
	c.httpRequests.WithLabelValues(method, path, status).Inc()
}

func (c *Collector) RecordWithdrawalCreated() {
	c.withdrawalsCreated.Inc()
}

func (c *Collector) RecordWithdrawalProcessed(status string) {
	c.withdrawalsProcessed.WithLabelValues(status).Inc()
}

func (c *Collector) RecordBonusCredited(bonusType string) {
	c.bonusesCredited.WithLabelValues(bonusType).Inc()
}

func (c *Collector) UpdateWalletBalance(userID string, balance float64) {
	c.walletBalance.WithLabelValues(userID).Set(balance)
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
