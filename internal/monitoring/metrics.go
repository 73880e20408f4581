package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the optimizer's Prometheus collectors
type Metrics struct {
	registry prometheus.Gatherer

	generationsTotal *prometheus.CounterVec
	bestFitness      *prometheus.GaugeVec
	averageFitness   *prometheus.GaugeVec
	generationTime   *prometheus.HistogramVec
	runsTotal        *prometheus.CounterVec
	discardedTotal   *prometheus.CounterVec

	mu       sync.Mutex
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewMetrics creates the collectors and registers them on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := newMetrics(registry)
	m.registry = registry
	return m
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crop_optimizer_generations_total",
				Help: "Total number of generations evaluated",
			},
			[]string{"run_id"},
		),
		bestFitness: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "crop_optimizer_best_fitness",
				Help: "Best annual profit in the latest generation",
			},
			[]string{"run_id"},
		),
		averageFitness: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "crop_optimizer_average_fitness",
				Help: "Average annual profit in the latest generation",
			},
			[]string{"run_id"},
		),
		generationTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crop_optimizer_generation_seconds",
				Help:    "Wall time between consecutive generation snapshots",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"run_id"},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crop_optimizer_runs_total",
				Help: "Total number of finished runs by outcome",
			},
			[]string{"status"},
		),
		discardedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crop_optimizer_discarded_offspring_total",
				Help: "Offspring discarded for referencing the same crop twice",
			},
			[]string{"run_id"},
		),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}

	reg.MustRegister(
		m.generationsTotal,
		m.bestFitness,
		m.averageFitness,
		m.generationTime,
		m.runsTotal,
		m.discardedTotal,
	)
	return m
}

// Observer returns a generation observer that records metrics for runID
func (m *Metrics) Observer(runID string) func(types.GenerationStats) error {
	return func(stats types.GenerationStats) error {
		m.RecordGeneration(runID, stats)
		return nil
	}
}

// RecordGeneration records one generation snapshot
func (m *Metrics) RecordGeneration(runID string, stats types.GenerationStats) {
	m.generationsTotal.WithLabelValues(runID).Inc()
	m.bestFitness.WithLabelValues(runID).Set(stats.BestFitness)
	m.averageFitness.WithLabelValues(runID).Set(stats.AverageFitness)

	m.mu.Lock()
	now := m.now()
	if last, ok := m.lastSeen[runID]; ok {
		m.generationTime.WithLabelValues(runID).Observe(now.Sub(last).Seconds())
	}
	m.lastSeen[runID] = now
	m.mu.Unlock()
}

// RecordRun records the outcome of a finished run
func (m *Metrics) RecordRun(runID, status string, discarded int) {
	m.runsTotal.WithLabelValues(status).Inc()
	if discarded > 0 {
		m.discardedTotal.WithLabelValues(runID).Add(float64(discarded))
	}

	m.mu.Lock()
	delete(m.lastSeen, runID)
	m.mu.Unlock()
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
