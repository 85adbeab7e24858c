// Package metrics defines and registers the custom Prometheus metrics of the
// Freelanza auth service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "freelanza"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts credentials created at registration.
// Label:
//   - role: "CLIENT" or "FREELANCER"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// ProfileProvisioningFailuresTotal counts registrations whose profile could not
// be created. The credential is kept in that case.
// Label:
//   - role: the role whose profile collaborator failed
var ProfileProvisioningFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_provisioning_failures_total",
		Help:      "Total number of registrations whose profile creation failed.",
	},
	[]string{"role"},
)

// ProvisioningRetriesTotal counts background provisioning jobs.
// Label:
//   - result: "succeeded", "failed" or "dropped"
var ProvisioningRetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provisioning_retries_total",
		Help:      "Total number of background profile provisioning jobs, by result.",
	},
	[]string{"result"},
)

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts login attempts that reached token issuance.
// Label:
//   - result: "issued" or "unknown_user"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of token issuance attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts token checks.
// Label:
//   - result: "valid" or "invalid"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of token validations, by result.",
	},
	[]string{"result"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CredentialCacheTotal counts credential cache lookups.
// Label:
//   - result: "hit", "miss", "stale" or "error"
var CredentialCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_cache_total",
		Help:      "Total number of credential cache lookups, labelled by result.",
	},
	[]string{"result"},
)

