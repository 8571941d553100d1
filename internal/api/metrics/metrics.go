// Package metrics defines the custom Prometheus collectors of the listing API.
// HTTP request metrics come from echoprometheus; these count domain outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tourism"

// ListingsProposedTotal counts listings created through the moderation flow.
// Labels:
//   - kind: place, activity, circuit, event, artisan
//   - status: the initial moderation status (PENDING for guides, ACTIVE for admins)
var ListingsProposedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_proposed_total",
		Help:      "Total number of listings proposed, by kind and initial status.",
	},
	[]string{"kind", "status"},
)

// ListingsValidatedTotal counts administrator validations.
var ListingsValidatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_validated_total",
		Help:      "Total number of listing validations, by kind.",
	},
	[]string{"kind"},
)

// ReservationsTotal counts reservation outcomes.
// Label:
//   - result: created, replayed, cancelled, overridden, deleted
var ReservationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_total",
		Help:      "Total number of reservation operations, by result.",
	},
	[]string{"result"},
)

// DomainErrorsTotal counts requests rejected with a classified domain error.
// Label:
//   - code: NOT_FOUND, FORBIDDEN, CONFLICT, INVALID_INPUT, PROFILE_MISSING, ...
var DomainErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "domain_errors_total",
		Help:      "Total number of requests rejected with a domain error, by code.",
	},
	[]string{"code"},
)

// LoginsTotal counts login attempts by result (success, failure).
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of place reviews created.",
	},
)
