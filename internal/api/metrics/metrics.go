// Package metrics defines and registers the custom Prometheus metrics of the
// classifieds service. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register with the default registry on package load, so the
// /metrics endpoint exposes them next to the HTTP request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "classifieds"

// ── Account metrics ───────────────────────────────────────────────────────────

// SignupsTotal counts registration attempts.
// Label:
//   - result: "created", "conflict", "invalid" or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "unknown_user", "bad_password" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AdminGrantsTotal counts admin access requests.
// Label:
//   - result: "granted", "denied" or "error"
var AdminGrantsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_grants_total",
		Help:      "Total number of admin access requests, by result.",
	},
	[]string{"result"},
)

// ── Listing metrics ───────────────────────────────────────────────────────────

// PostsWrittenTotal counts successful post writes.
// Label:
//   - op: "create" or "update"
var PostsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_written_total",
		Help:      "Total number of posts created or updated.",
	},
	[]string{"op"},
)

// CategoriesCreatedTotal counts category creation attempts.
// Label:
//   - result: "created", "conflict", "invalid" or "error"
var CategoriesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "categories_created_total",
		Help:      "Total number of category creation attempts, by result.",
	},
	[]string{"result"},
)
