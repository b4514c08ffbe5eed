// Package metrics exposes prometheus counters for the HTLC ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SwapsCreated counts successful swap creations, by entry path.
	SwapsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "htlcd",
		Name:      "swaps_created_total",
		Help:      "Number of swaps created",
	}, []string{"path"}) // "native" or "receipt"

	// SwapsWithdrawn counts successful withdrawals.
	SwapsWithdrawn = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "htlcd",
		Name:      "swaps_withdrawn_total",
		Help:      "Number of swaps withdrawn with a valid secret",
	})

	// SwapsRefunded counts successful refunds.
	SwapsRefunded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "htlcd",
		Name:      "swaps_refunded_total",
		Help:      "Number of swaps refunded after deadline",
	})

	// Rejections counts domain rejections by error code.
	Rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "htlcd",
		Name:      "rejections_total",
		Help:      "Number of rejected operations by error code",
	}, []string{"op", "code"})

	// PayoutsDispatched counts payout dispatch attempts by outcome.
	PayoutsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "htlcd",
		Name:      "payouts_dispatched_total",
		Help:      "Number of payout dispatch attempts by outcome",
	}, []string{"outcome"}) // "confirmed" or "failed"
)
