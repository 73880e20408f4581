package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// ProgressTracker reports the progress of the current run over HTTP
type ProgressTracker struct {
	mu          sync.RWMutex
	runID       string
	startTime   time.Time
	generations int
	latest      types.GenerationStats
	seen        bool
	finished    bool
	errors      []string
}

// ProgressStatus is the JSON document served by ProgressTracker
type ProgressStatus struct {
	Status         string    `json:"status"`
	RunID          string    `json:"run_id"`
	Timestamp      time.Time `json:"timestamp"`
	Generation     int       `json:"generation"`
	Generations    int       `json:"generations"`
	BestFitness    float64   `json:"best_fitness"`
	AverageFitness float64   `json:"average_fitness"`
	Uptime         string    `json:"uptime"`
	Errors         []string  `json:"errors,omitempty"`
}

func NewProgressTracker(runID string, generations int) *ProgressTracker {
	return &ProgressTracker{
		runID:       runID,
		startTime:   time.Now(),
		generations: generations,
		errors:      make([]string, 0),
	}
}

// Observer returns a generation observer that updates the tracker
func (p *ProgressTracker) Observer() func(types.GenerationStats) error {
	return func(stats types.GenerationStats) error {
		p.mu.Lock()
		p.latest = stats
		p.seen = true
		p.mu.Unlock()
		return nil
	}
}

// MarkFinished flags the run as complete
func (p *ProgressTracker) MarkFinished() {
	p.mu.Lock()
	p.finished = true
	p.mu.Unlock()
}

// RecordError stores an error message for the status endpoint
func (p *ProgressTracker) RecordError(err error) {
	p.mu.Lock()
	p.errors = append(p.errors, err.Error())
	p.mu.Unlock()
}

// Status returns the current snapshot
func (p *ProgressTracker) Status() ProgressStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := "starting"
	switch {
	case len(p.errors) > 0:
		status = "failed"
	case p.finished:
		status = "done"
	case p.seen:
		status = "running"
	}

	generation := 0
	if p.seen {
		generation = p.latest.Generation + 1
	}

	return ProgressStatus{
		Status:         status,
		RunID:          p.runID,
		Timestamp:      time.Now(),
		Generation:     generation,
		Generations:    p.generations,
		BestFitness:    p.latest.BestFitness,
		AverageFitness: p.latest.AverageFitness,
		Uptime:         time.Since(p.startTime).String(),
		Errors:         p.errors,
	}
}

func (p *ProgressTracker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := p.Status()

	w.Header().Set("Content-Type", "application/json")
	if status.Status == "failed" {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(status)
}
