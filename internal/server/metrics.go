package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crimson-sun/sentiment/internal/model"
)

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	emptyInputs prometheus.Counter
	batchRows   prometheus.Counter
	duration    *prometheus.HistogramVec
}

// NewMetrics registers the collectors plus Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentiment_predictions_total",
			Help: "Texts classified, by label.",
		}, []string{"label"}),
		emptyInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentiment_empty_inputs_total",
			Help: "Inputs rejected because the text was blank.",
		}),
		batchRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentiment_batch_rows_total",
			Help: "Rows received through CSV classification.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentiment_classify_duration_seconds",
			Help:    "Time spent classifying a request.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	m.registry.MustRegister(
		m.predictions,
		m.emptyInputs,
		m.batchRows,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeResult(res model.Result) {
	m.predictions.WithLabelValues(res.Label.String()).Inc()
}

func (m *Metrics) observeTally(t model.Tally) {
	m.predictions.WithLabelValues(model.Positive.String()).Add(float64(t.Positive))
	m.predictions.WithLabelValues(model.Negative.String()).Add(float64(t.Negative))
	m.emptyInputs.Add(float64(t.Empty))
	m.batchRows.Add(float64(t.Positive + t.Negative + t.Empty))
}
