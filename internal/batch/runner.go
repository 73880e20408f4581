package batch

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	perrors "github.com/ducminhle1904/crop-allocation-optimizer/internal/errors"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/optimization"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

const component = "batch"

// RunResult is the outcome of one seeded run
type RunResult struct {
	ID       string
	Seed     int64
	Result   *optimization.Result
	Duration time.Duration
	Error    error
}

// BestFitness returns the top fitness of the run, or false if it produced none
func (r RunResult) BestFitness() (float64, bool) {
	if r.Error != nil || r.Result == nil {
		return 0, false
	}
	_, fitness, ok := r.Result.Best()
	return fitness, ok
}

// ObserverFactory returns the observer for one run; nil means no observer
type ObserverFactory func(runID string) optimization.Observer

// Runner executes several independent optimizer runs, each with its own
// seeded generator, on a worker pool. Runs share only the read-only catalog.
type Runner struct {
	workers     int
	generations int
	config      optimization.OptimizationConfig
	catalog     types.Catalog
	observerFor ObserverFactory
}

func NewRunner(workers int, cfg optimization.OptimizationConfig, catalog types.Catalog, observerFor ObserverFactory) *Runner {
	generations := cfg.Generations
	if generations <= 0 {
		generations = optimization.DefaultGenerations
	}
	return &Runner{
		workers:     workers,
		generations: generations,
		config:      cfg,
		catalog:     catalog,
		observerFor: observerFor,
	}
}

// Run executes one run per seed and returns the results in seed order.
// Cancelling ctx stops every run at its next generation boundary.
func (r *Runner) Run(ctx context.Context, runID string, seeds []int64) ([]RunResult, error) {
	if len(seeds) == 0 {
		return nil, perrors.NewConfigurationError(component, "run", "at least one seed is required")
	}

	// Fail fast on a bad configuration instead of once per worker
	if _, err := optimization.NewOptimizer(r.config, r.catalog, rand.New(rand.NewSource(seeds[0]))); err != nil {
		return nil, err
	}

	pool := NewWorkerPool(ctx, min(r.workers, len(seeds)), len(seeds), r.process)
	pool.Start()

	for i, seed := range seeds {
		job := Job{ID: fmt.Sprintf("%s-%d", runID, i+1), Index: i, Seed: seed}
		if err := pool.SubmitJob(job); err != nil {
			break
		}
	}
	pool.Close()

	results := make([]RunResult, len(seeds))
	for i, seed := range seeds {
		results[i] = RunResult{ID: fmt.Sprintf("%s-%d", runID, i+1), Seed: seed, Error: context.Canceled}
	}
	for res := range pool.GetResults() {
		run := RunResult{ID: res.Job.ID, Seed: res.Job.Seed, Duration: res.Duration, Error: res.Error}
		if result, ok := res.Value.(*optimization.Result); ok {
			run.Result = result
		}
		results[res.Job.Index] = run
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// process drives one optimizer step by step, checking ctx between generations
func (r *Runner) process(ctx context.Context, job Job) (interface{}, error) {
	opt, err := optimization.NewOptimizer(r.config, r.catalog, rand.New(rand.NewSource(job.Seed)))
	if err != nil {
		return nil, err
	}

	var observer optimization.Observer
	if r.observerFor != nil {
		observer = r.observerFor(job.ID)
	}

	if err := opt.Start(r.generations, observer); err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done, err := opt.Step()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return opt.Finish()
}

// Best returns the successful run with the highest top fitness. Ties keep
// the earliest run.
func Best(results []RunResult) (RunResult, bool) {
	var best RunResult
	found := false
	bestFitness := 0.0
	for _, res := range results {
		fitness, ok := res.BestFitness()
		if !ok {
			continue
		}
		if !found || fitness > bestFitness {
			best, bestFitness, found = res, fitness, true
		}
	}
	return best, found
}

// Seeds derives n run seeds from a base seed
func Seeds(base int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = base + int64(i)
	}
	return seeds
}
