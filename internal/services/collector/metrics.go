package collector

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	fill        *prometheus.GaugeVec
	reports     prometheus.Counter
	rejected    prometheus.Counter
	storeErrors prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fill: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "smartbin_fill_percent",
			Help: "Latest reported fill level per bin.",
		}, []string{"bin_id"}),
		reports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartbin_fill_reports_total",
			Help: "Fill reports accepted from the uplink.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartbin_fill_reports_rejected_total",
			Help: "Payloads dropped because they were not a valid fill report.",
		}),
		storeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartbin_store_write_errors_total",
			Help: "Accepted reports the store failed to persist.",
		}),
	}
	reg.MustRegister(m.fill, m.reports, m.rejected, m.storeErrors)
	return m
}
