package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Estimates prometheus.Counter
	Deficit   *prometheus.GaugeVec
	Shortages prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Estimates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_inventory_estimates_total",
			Help: "Total number of inventory snapshots computed",
		}),
		Deficit: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lifeline_inventory_deficit_units",
			Help: "Last computed unit deficit per blood group",
		}, []string{"blood_group"}),
		Shortages: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lifeline_inventory_critical_groups",
			Help: "Blood groups in critical supply at the last summary",
		}),
	}
}

func (m *Metrics) ObserveEstimate(bloodGroup string, deficit int) {
	m.Estimates.Inc()
	m.Deficit.WithLabelValues(bloodGroup).Set(float64(deficit))
}

func (m *Metrics) SetCriticalGroups(n int) {
	m.Shortages.Set(float64(n))
}
