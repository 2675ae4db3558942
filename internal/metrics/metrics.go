package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsSubmitted counts submitted transactions by type
	TransactionsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ships_transactions_submitted_total",
			Help: "Total number of transactions submitted by type",
		},
		[]string{"type"},
	)

	// TransactionOutcomes counts monitored transaction outcomes
	TransactionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ships_transaction_outcomes_total",
			Help: "Total number of monitored transaction outcomes by type and status",
		},
		[]string{"type", "status"},
	)

	// ApprovalsSubmitted counts ERC-20 approval transactions submitted
	ApprovalsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ships_approvals_submitted_total",
			Help: "Total number of token approval transactions submitted",
		},
	)

	// ApprovalsSkipped counts allowance checks satisfied without a transaction
	ApprovalsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ships_approvals_skipped_total",
			Help: "Total number of allowance checks that needed no approval",
		},
	)

	// FeeFallbacks counts creation fee queries that fell back to the local constant
	FeeFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ships_fee_fallbacks_total",
			Help: "Total number of fee schedule queries that used the fallback fee",
		},
	)

	// FeeCeilingRejections counts fees rejected by the sanity ceiling
	FeeCeilingRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ships_fee_ceiling_rejections_total",
			Help: "Total number of computed fees rejected by the sanity ceiling",
		},
	)

	// PendingEntries tracks ledger entries awaiting finalization
	PendingEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ships_pending_ledger_entries",
			Help: "Number of ledger entries currently pending for the active account",
		},
	)

	// MonitorWatches tracks in-flight transaction watchers
	MonitorWatches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ships_monitor_watches",
			Help: "Number of transactions currently being monitored",
		},
	)
)
