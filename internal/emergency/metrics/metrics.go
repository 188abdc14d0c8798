package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MatchRequests      *prometheus.CounterVec
	CandidatesReturned prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		MatchRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_emergency_match_requests_total",
			Help: "Total number of emergency donor match requests",
		}, []string{"urgency"}),
		CandidatesReturned: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifeline_emergency_candidates_returned",
			Help:    "Ranked candidates returned per emergency match request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
	}
}

func (m *Metrics) ObserveMatch(urgency string, candidates int) {
	m.MatchRequests.WithLabelValues(urgency).Inc()
	m.CandidatesReturned.Observe(float64(candidates))
}
