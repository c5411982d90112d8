// Package metrics defines and registers all custom Prometheus metrics for
// the MentorLink Sphere API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mentorlink"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate", or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, labelled by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected" (invalid credentials, deliberately not
//     split further to match the anti-enumeration response)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts minted bearer tokens.
// Label:
//   - purpose: "login", "verify_email", or "password_reset"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by purpose.",
	},
	[]string{"purpose"},
)

// ── Realtime metrics ──────────────────────────────────────────────────────────

// RealtimeClients tracks the number of websocket clients currently attached
// to the hub.
var RealtimeClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_connected_clients",
		Help:      "Current number of connected realtime clients.",
	},
)

// UpdatesPublishedTotal counts course updates that completed the publish
// pipeline.
// Label:
//   - type: "material", "quiz", "video", or "assignment"
var UpdatesPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_published_total",
		Help:      "Total number of course updates published, by type.",
	},
	[]string{"type"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatQueriesTotal counts assistant queries.
// Label:
//   - topic: the rule that matched, or "default"
var ChatQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_queries_total",
		Help:      "Total number of chat assistant queries, by matched topic.",
	},
	[]string{"topic"},
)
