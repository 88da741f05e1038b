package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	activitiesAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activity_intake",
		Subsystem: "intake",
		Name:      "accepted_total",
		Help:      "Browsing activity records accepted and persisted.",
	})

	activitiesRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_intake",
		Subsystem: "intake",
		Name:      "rejected_total",
		Help:      "Requests rejected by field validation, labelled by field.",
	}, []string{"field"})

	sessionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activity_intake",
		Subsystem: "session",
		Name:      "created_total",
		Help:      "Browser sessions created on first contact.",
	})
)

func init() {
	prometheus.MustRegister(activitiesAccepted, activitiesRejected, sessionsCreated)
}

// RecordAccepted counts a persisted activity record.
func RecordAccepted() {
	activitiesAccepted.Inc()
}

// RecordRejected counts a validation rejection for the named field.
func RecordRejected(field string) {
	activitiesRejected.WithLabelValues(field).Inc()
}

// RecordSessionCreated counts a first-contact session creation.
func RecordSessionCreated() {
	sessionsCreated.Inc()
}
