// Package metrics expone contadores Prometheus del pipeline y del servidor HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/crm-veiculos/internal/application/pipeline"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

var _ pipeline.Recorder = (*Metrics)(nil)

// Metrics agrupa los collectors registrados en un Registerer.
type Metrics struct {
	transitions         *prometheus.CounterVec
	derivedAppointments *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	activeRequests      prometheus.Gauge
	webhookDeliveries   *prometheus.CounterVec
}

// New registra los collectors en reg. Con nil usa el registro global.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_stage_transitions_total",
				Help: "Total de transiciones de etapa por tipo y resultado",
			},
			[]string{"kind", "outcome"},
		),
		derivedAppointments: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_derived_appointments_total",
				Help: "Agendamientos automáticos al pasar a em_negociacao",
			},
			[]string{"outcome"},
		),
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		activeRequests: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_requests",
				Help: "Number of in-flight HTTP requests",
			},
		),
		webhookDeliveries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_webhook_deliveries_total",
				Help: "Entregas de webhooks por evento y resultado",
			},
			[]string{"event", "outcome"},
		),
	}
}

// Transition implementa pipeline.Recorder.
func (m *Metrics) Transition(kind stage.Kind, outcome string) {
	m.transitions.WithLabelValues(string(kind), outcome).Inc()
}

// DerivedAppointment implementa pipeline.Recorder.
func (m *Metrics) DerivedAppointment(outcome string) {
	m.derivedAppointments.WithLabelValues(outcome).Inc()
}

// WebhookDelivery cuenta una entrega de webhook.
func (m *Metrics) WebhookDelivery(event, outcome string) {
	m.webhookDeliveries.WithLabelValues(event, outcome).Inc()
}

// Middleware mide cada request. El path es la ruta registrada, no la URL,
// para no crear una serie por ID.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.activeRequests.Inc()
		defer m.activeRequests.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		method := c.Method()
		m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}
