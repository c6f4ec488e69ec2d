package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomePosted    = "posted"
	outcomeEmpty     = "empty"
	outcomeUnchanged = "unchanged"
	outcomeCleared   = "cleared"
	outcomeNotFound  = "not_found"
	outcomeFailed    = "failed"
)

var (
	postingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "postings_total",
			Help:      "Posting requests by reference type and outcome",
		},
		[]string{"reference_type", "outcome"},
	)
	postingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "posting_duration_seconds",
			Help:      "Time spent building and persisting a journal",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"reference_type"},
	)
	reversalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "reversals_total",
			Help:      "Reversal requests by outcome",
		},
		[]string{"outcome"},
	)
	closingBalanceUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "closing_balance_updates_total",
			Help:      "Closing balance snapshots written, including shifted later snapshots",
		},
	)
)
