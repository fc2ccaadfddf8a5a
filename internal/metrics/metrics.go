package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"attendancedesk/internal/apperrors"
)

// Procedures counts and times record service calls by procedure and outcome.
type Procedures struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewProcedures registers the collectors with reg. A nil reg skips registration.
func NewProcedures(reg prometheus.Registerer) *Procedures {
	p := &Procedures{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "procedure_calls_total",
			Help:      "Record service calls by procedure and outcome.",
		}, []string{"procedure", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "attendance",
			Name:      "procedure_duration_seconds",
			Help:      "Record service call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}
	if reg != nil {
		reg.MustRegister(p.calls, p.duration)
	}
	return p
}

// Observe records one call. The outcome is "ok" or the error kind.
func (p *Procedures) Observe(procedure string, started time.Time, err error) {
	if p == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.KindOf(err))
	}
	p.calls.WithLabelValues(procedure, outcome).Inc()
	p.duration.WithLabelValues(procedure).Observe(time.Since(started).Seconds())
}

// Calls returns the counter for tests and dashboards.
func (p *Procedures) Calls() *prometheus.CounterVec {
	return p.calls
}
