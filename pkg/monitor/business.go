package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds the settlement-side counters.
type BusinessMetrics struct {
	DepositCreditedTotal *prometheus.CounterVec
	DepositSkippedTotal  *prometheus.CounterVec
	WithdrawOutcomeTotal *prometheus.CounterVec
	WithdrawNotifyTotal  *prometheus.CounterVec
	WithdrawDroppedTotal prometheus.Counter
	RPCTransferDuration  *prometheus.HistogramVec
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics registers the business metrics
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		DepositCreditedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settle_deposit_credited_total",
			Help: "The total number of deposits credited to the ledger",
		}, []string{"coin"}),
		DepositSkippedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settle_deposit_skipped_total",
			Help: "Deposits dropped without crediting, by reason (malformed, unknown_coin, duplicate, dust)",
		}, []string{"reason"}),
		WithdrawOutcomeTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settle_withdraw_outcome_total",
			Help: "Withdraw dispatch outcomes (success, transferring, manual_review, skipped)",
		}, []string{"outcome"}),
		WithdrawNotifyTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settle_withdraw_notify_total",
			Help: "Withdraw notification outcomes (success, failed, ignored)",
		}, []string{"outcome"}),
		WithdrawDroppedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settle_withdraw_dropped_total",
			Help: "Withdraw events dropped before dispatch because the withdraw id could not be parsed",
		}),
		RPCTransferDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "settle_rpc_transfer_duration_seconds",
			Help:    "Duration of wallet RPC transfer calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"coin"}),
	}
}
