// Package metrics 定义排期相关的 prometheus 指标
package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeTimeout   = "timeout"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
	SourceHTTP       = "http"
	SourceWorker     = "worker"
	namespace        = "program_scheduler"
	schedulerSystem  = "ga"
)

type Metrics struct {
	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	BestFitness *prometheus.GaugeVec
}

// New 创建指标并注册到 reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: schedulerSystem,
			Name:      "runs_total",
			Help:      "Number of scheduling runs by source and outcome.",
		}, []string{"source", "outcome"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: schedulerSystem,
			Name:      "run_duration_seconds",
			Help:      "Wall time of successful scheduling runs.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"source"}),
		BestFitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: schedulerSystem,
			Name:      "best_fitness",
			Help:      "Best fitness found by the latest successful run.",
		}, []string{"source"}),
	}

	reg.MustRegister(m.Runs, m.RunDuration, m.BestFitness)
	return m
}

func (m *Metrics) ObserveSuccess(source string, seconds float64, fitness float64) {
	m.Runs.WithLabelValues(source, OutcomeSuccess).Inc()
	m.RunDuration.WithLabelValues(source).Observe(seconds)
	m.BestFitness.WithLabelValues(source).Set(fitness)
}

func (m *Metrics) ObserveFailure(source string, outcome string) {
	m.Runs.WithLabelValues(source, outcome).Inc()
}

// Handler 只提供 GET /metrics，供没有 HTTP 接口的进程单独监听
func Handler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
