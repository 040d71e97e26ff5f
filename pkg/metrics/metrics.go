package metrics

import (
	"net/http"

	"github.com/nergy-se/climate-controller/pkg/actuator"
	"github.com/nergy-se/climate-controller/pkg/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "climatecontroller"

type Metrics struct {
	registry *prometheus.Registry

	target        prometheus.Gauge
	indoor        prometheus.Gauge
	priceNow      prometheus.Gauge
	priceMean     prometheus.Gauge
	heating       prometheus.Gauge
	estimated     prometheus.Gauge
	commandsTotal *prometheus.CounterVec
	ticksTotal    prometheus.Counter
	errorsTotal   *prometheus.CounterVec
	skippedTotal  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		target: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "target_temperature_celsius",
			Help:      "Setpoint decided on the last tick",
		}),
		indoor: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indoor_temperature_celsius",
			Help:      "Room temperature measured by the climate unit",
		}),
		priceNow: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_now",
			Help:      "Effective electricity price for the current hour",
		}),
		priceMean: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_mean",
			Help:      "Mean effective electricity price over today and tomorrow",
		}),
		heating: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heating_binary",
			Help:      "Climate unit is powered and in heat mode",
		}),
		estimated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_estimated_binary",
			Help:      "Tomorrow prices are approximated by today",
		}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands issued to the climate unit",
		}, []string{"kind"}),
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Controller ticks run",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tick_errors_total",
			Help:      "Ticks aborted before actuation",
		}, []string{"stage"}),
		skippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "override_skipped_total",
			Help:      "Ticks where actuation was skipped by manual override",
		}),
	}

	m.registry.MustRegister(
		m.target,
		m.indoor,
		m.priceNow,
		m.priceMean,
		m.heating,
		m.estimated,
		m.commandsTotal,
		m.ticksTotal,
		m.errorsTotal,
		m.skippedTotal,
	)
	return m
}

// Observe records a completed tick.
func (m *Metrics) Observe(obs *state.Observation, commands []actuator.Command) {
	m.ticksTotal.Inc()
	setFloat(m.target, obs.Target)
	setFloat(m.indoor, obs.Indoor)
	setFloat(m.priceNow, obs.PriceNow)
	setFloat(m.priceMean, obs.PriceMean)
	setBool(m.heating, obs.Heating)
	setBool(m.estimated, obs.Estimated)
	if obs.Overridden != nil && *obs.Overridden {
		m.skippedTotal.Inc()
	}
	for _, cmd := range commands {
		m.commandsTotal.WithLabelValues(string(cmd.Kind)).Inc()
	}
}

// Error records a tick aborted at stage.
func (m *Metrics) Error(stage string) {
	m.ticksTotal.Inc()
	m.errorsTotal.WithLabelValues(stage).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func setFloat(g prometheus.Gauge, v *float64) {
	if v != nil {
		g.Set(*v)
	}
}

func setBool(g prometheus.Gauge, v *bool) {
	if v == nil {
		return
	}
	if *v {
		g.Set(1)
		return
	}
	g.Set(0)
}
