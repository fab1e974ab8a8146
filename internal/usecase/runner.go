package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"CrossPoster/internal/domain"
)

// Runner executes stages in order, threading each stage's output into
// the next, pausing between stages to respect external service pacing.
type Runner struct {
	stages []Stage
	delay  time.Duration
	logger *slog.Logger
}

func NewRunner(stages []Stage, delay time.Duration, logger *slog.Logger) *Runner {
	return &Runner{stages: stages, delay: delay, logger: logger}
}

// Run is fail-fast: the first stage error aborts the pipeline. A Skip
// outcome ends the run cleanly without invoking later stages.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()

	var doc domain.Document
	for i, stage := range r.stages {
		if i > 0 {
			if err := pause(ctx, r.delay); err != nil {
				return err
			}
		}

		logInfo(r.logger, "stage starting", "run_id", runID, "stage", stage.Name())

		out, outcome, err := stage.Run(ctx, doc)
		if err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		if outcome == Skip {
			logInfo(r.logger, "pipeline stopped early", "run_id", runID, "stage", stage.Name())
			return nil
		}
		doc = out
	}

	logInfo(r.logger, "pipeline finished", "run_id", runID)
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
