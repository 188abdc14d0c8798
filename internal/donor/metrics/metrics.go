package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DonationsRecorded prometheus.Counter
	BadgesAwarded     prometheus.Counter
	EligibilityChecks prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		DonationsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_donor_donations_recorded_total",
			Help: "Total number of donations recorded",
		}),
		BadgesAwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_donor_badges_awarded_total",
			Help: "Total number of achievement badges awarded",
		}),
		EligibilityChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_donor_eligibility_checks_total",
			Help: "Total number of donor eligibility evaluations served",
		}),
	}
}

func (m *Metrics) IncrementDonationsRecorded() {
	m.DonationsRecorded.Inc()
}

func (m *Metrics) AddBadgesAwarded(n int) {
	m.BadgesAwarded.Add(float64(n))
}

func (m *Metrics) IncrementEligibilityChecks() {
	m.EligibilityChecks.Inc()
}
