package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OUTCOME_ISSUED    = "issued"
	OUTCOME_DUPLICATE = "duplicate"
	OUTCOME_INVALID   = "invalid"
	OUTCOME_FAILED    = "failed"
)

var (
	ticketsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issue_requests_total",
			Help: "Ticket issue requests by outcome",
		},
		[]string{"outcome"},
	)

	issuanceStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickets_issuance_step_duration_seconds",
			Help:    "Duration of each ticket issuance step",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"step"},
	)

	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_dispatch_total",
			Help: "Ticket confirmation emails by result",
		},
		[]string{"result"},
	)
)

func RecordIssuance(outcome string) {
	ticketsIssuedTotal.WithLabelValues(outcome).Inc()
}

func ObserveStep(step string, duration time.Duration) {
	issuanceStepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

func RecordDispatch(delivered bool) {
	result := "failed"
	if delivered {
		result = "delivered"
	}
	dispatchTotal.WithLabelValues(result).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
