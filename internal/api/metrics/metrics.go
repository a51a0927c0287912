// Package metrics defines the custom Prometheus metrics for the user
// management API. Metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usermanager"

// Outcome label values.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// ── User mutation metrics ─────────────────────────────────────────────────────

// UserMutationsTotal counts terminal outcomes of create/update/delete requests.
// Labels:
//   - operation: "create", "update", "delete", "profile"
//   - outcome: "applied", "rejected" (validation, conflict, not found) or "failed" (storage)
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of user mutation requests by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// ValidationFailuresTotal counts field-level validation failures.
// Label:
//   - field: "name", "email", "password", "phone", "role", "image"
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of field validation failures.",
	},
	[]string{"field"},
)

// EmailConflictsTotal counts uniqueness rejections.
// Label:
//   - stage: "precheck" (service lookup) or "store" (unique index at write time)
var EmailConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_conflicts_total",
		Help:      "Total number of email uniqueness conflicts by detection stage.",
	},
	[]string{"stage"},
)

// MutationDuration measures store-inclusive latency of a mutation.
var MutationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "user_mutation_duration_seconds",
		Help:      "Duration of user mutation requests including store round-trips.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Upload & auth metrics ─────────────────────────────────────────────────────

// UploadsTotal counts image uploads.
// Label:
//   - result: "stored", "rejected", "failed"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image uploads by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts sign-in attempts.
// Label:
//   - result: "success", "invalid_credentials", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sign-in attempts by result.",
	},
	[]string{"result"},
)
