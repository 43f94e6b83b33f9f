package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics carries the service-level counters. A single instance is shared by
// the services; tests pass a fresh registry so counters never collide.
type Metrics struct {
	ReportsSubmitted *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
	SafetyPrompts    prometheus.Counter
	SafetyResponses  *prometheus.CounterVec
}

// New registers the counters on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReportsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "incident_reports_submitted_total",
			Help: "Report submissions by outcome (created, merged, rejected).",
		}, []string{"outcome"}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "incident_status_transitions_total",
			Help: "Lifecycle transitions by target status.",
		}, []string{"status"}),
		SafetyPrompts: factory.NewCounter(prometheus.CounterOpts{
			Name: "safety_prompts_total",
			Help: "Safety confirmations prompted to citizens inside risk zones.",
		}),
		SafetyResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "safety_responses_total",
			Help: "Citizen safety answers by status (safe, unsafe).",
		}, []string{"status"}),
	}
}
