// Package metrics defines and registers all custom Prometheus metrics for
// the courier pricing API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register with the default
// registry at package load via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pricing"

// ── Quote metrics ─────────────────────────────────────────────────────────────

// QuotesTotal counts shipping price quotes by outcome.
// Labels:
//   - service_level: "standard", "express", or "same_day"
//   - outcome: "ok", "validation", "no_pricing", "rule_error", "error"
var QuotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_total",
		Help:      "Total number of shipping price quote requests, by outcome.",
	},
	[]string{"service_level", "outcome"},
)

// QuoteDuration measures how long one quote takes end-to-end, including the
// rate card lookup.
var QuoteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quote_duration_seconds",
		Help:      "Duration of shipping price quotes from request to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Ranking metrics ───────────────────────────────────────────────────────────

// RankingUpdatesTotal counts ranking recompute tasks by result.
// Label:
//   - result: "ok", "error", "debounced", or "dropped"
var RankingUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_updates_total",
		Help:      "Total number of ranking recompute tasks, by result.",
	},
	[]string{"result"},
)

// RankingQueueDepth tracks the number of tasks waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RankingQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ranking_queue_depth",
		Help:      "Current number of ranking tasks pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Rate limit metrics ────────────────────────────────────────────────────────

// RateLimitRejectionsTotal counts requests rejected by the in-memory limiter.
var RateLimitRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratelimit_rejections_total",
		Help:      "Total number of requests rejected by the in-memory rate limiter.",
	},
)
