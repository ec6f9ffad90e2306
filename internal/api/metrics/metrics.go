// Package metrics defines and registers all custom Prometheus metrics for the
// natours API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default registry at package init; the /metrics
// route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "natours"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignInsTotal counts sign-in attempts.
// Labels:
//   - result: "ok" or "denied"
//   - kind: "user" or "staff"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result and account kind.",
	},
	[]string{"result", "kind"},
)

// RegistrationsTotal counts account registrations that completed.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of end-user accounts created.",
	},
)

// TokenRefreshesTotal counts refresh attempts.
// Label:
//   - result: "ok" or "denied"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access-token refresh attempts.",
	},
	[]string{"result"},
)

// TokensRevokedTotal counts revocation entries written to the cache.
// Label:
//   - scope: "token" (single token) or "account" (logout-all)
var TokensRevokedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of revocation entries created, by scope.",
	},
	[]string{"scope"},
)

// AuthRejectionsTotal counts requests rejected by the request authenticator.
// Label:
//   - reason: "missing_token", "revoked", "invalid", "unknown_account"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected during authentication, by reason.",
	},
	[]string{"reason"},
)

// ── Email metrics ─────────────────────────────────────────────────────────────

// EmailsSentTotal counts outbound email deliveries attempted by the
// dispatcher workers.
// Labels:
//   - kind: "verification", "password_reset", "otp"
//   - result: "ok" or "error"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of outbound emails attempted, by kind and result.",
	},
	[]string{"kind", "result"},
)
