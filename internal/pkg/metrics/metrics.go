package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seatwatch"

// Check results used as the "result" label.
const (
	ResultOK             = "ok"
	ResultFetchError     = "fetch_error"
	ResultNotFound       = "not_found"
	ResultMalformed      = "malformed"
	ResultNoAvailability = "no_availability"
)

type Metrics struct {
	registry  *prometheus.Registry
	Checks    *prometheus.CounterVec
	OpenSeats prometheus.Gauge
	Available prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Seat checks by result.",
		}, []string{"result"}),
		OpenSeats: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_seats",
			Help:      "Open seats seen by the last successful check.",
		}),
		Available: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "available",
			Help:      "1 when the last successful check was above the alert threshold.",
		}),
	}
	m.registry.MustRegister(
		m.Checks,
		m.OpenSeats,
		m.Available,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveCheck(result string) {
	m.Checks.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveVerdict(openSeats int, available bool) {
	m.OpenSeats.Set(float64(openSeats))
	if available {
		m.Available.Set(1)
	} else {
		m.Available.Set(0)
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
