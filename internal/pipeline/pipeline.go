// Package pipeline runs the named stages of the trip analysis strictly in
// order, logging the start, outcome and duration of each stage and stopping
// at the first failure. There is no retry or parallelism: the run either
// completes or aborts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Stage is one named step of the run
type Stage struct {
	ID   string
	Name string
	Run  func(ctx context.Context) error
}

// Result records the outcome of one executed stage
type Result struct {
	ID       string
	Name     string
	Duration time.Duration
	Err      error
}

// Runner executes stages sequentially
type Runner struct {
	logger *slog.Logger
	stages []Stage
}

// NewRunner creates a new runner. A nil logger falls back to slog.Default.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Add appends a stage to the run order
func (r *Runner) Add(stage Stage) {
	r.stages = append(r.stages, stage)
}

// Run executes the stages in the order they were added. It stops at the
// first stage error or context cancellation and returns the results of every
// stage that ran, including the failed one.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(r.stages))

	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("run cancelled before stage %s: %w", stage.ID, err)
		}

		r.logger.InfoContext(ctx, "stage started",
			slog.String("stage", stage.ID),
			slog.String("name", stage.Name))

		start := time.Now()
		err := stage.Run(ctx)
		result := Result{
			ID:       stage.ID,
			Name:     stage.Name,
			Duration: time.Since(start),
			Err:      err,
		}
		results = append(results, result)

		if err != nil {
			r.logger.ErrorContext(ctx, "stage failed",
				slog.String("stage", stage.ID),
				slog.Duration("duration", result.Duration),
				slog.String("error", err.Error()))
			return results, fmt.Errorf("stage %s: %w", stage.ID, err)
		}

		r.logger.InfoContext(ctx, "stage completed",
			slog.String("stage", stage.ID),
			slog.Duration("duration", result.Duration))
	}

	return results, nil
}
