package services

import "github.com/prometheus/client_golang/prometheus"

// mutationsTotal counts mutation outcomes by action (create, update_status,
// archive, delete, bulk_*) and envelope status.
var mutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "contact_request_mutations_total",
		Help: "Contact request mutations by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// listFallbacks counts list reads downgraded to an empty page.
var listFallbacks = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "contact_request_list_fallbacks_total",
		Help: "List reads served as an empty page because storage failed.",
	},
)

func init() {
	prometheus.MustRegister(mutationsTotal, listFallbacks)
}
