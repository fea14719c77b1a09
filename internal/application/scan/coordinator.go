// Package scan drives a scan end to end: submit to the backend, wait out
// the asynchronous evaluation pipeline, resolve local context, and run
// the decision cascade.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ncuskey/lothelper-engine/internal/adapters/lothelper"
	"github.com/ncuskey/lothelper-engine/internal/domain/book"
)

// Backend is the evaluation backend surface the coordinator drives.
type Backend interface {
	SubmitScan(ctx context.Context, isbn string, attrs lothelper.ScanAttributes) error
	FetchEvaluation(ctx context.Context, isbn string) (book.EvaluationRecord, error)
}

// SleepFunc waits for a backoff delay. Injectable so tests can assert
// the delays without waiting them out.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CoordinatorConfig tunes the evaluation polling loop.
type CoordinatorConfig struct {
	// MaxAttempts is the total number of fetch calls, not extra retries.
	MaxAttempts int

	// BackoffStep scales linearly per attempt: the wait before attempt
	// n+1 is n * BackoffStep.
	BackoffStep time.Duration

	// Sleep overrides the backoff wait; nil uses a real timer.
	Sleep SleepFunc
}

// DefaultCoordinatorConfig matches the backend's typical evaluation
// latency: three polls spaced 1s then 2s apart cover it comfortably.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		MaxAttempts: 3,
		BackoffStep: time.Second,
	}
}

// Coordinator polls the backend until an evaluation is ready or the
// attempt budget runs out.
type Coordinator struct {
	backend     Backend
	sleep       SleepFunc
	maxAttempts int
	backoffStep time.Duration
	logger      *slog.Logger
}

// NewCoordinator builds a coordinator over the backend.
func NewCoordinator(backend Backend, cfg CoordinatorConfig, logger *slog.Logger) *Coordinator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultCoordinatorConfig().MaxAttempts
	}
	if cfg.BackoffStep <= 0 {
		cfg.BackoffStep = DefaultCoordinatorConfig().BackoffStep
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepWithContext
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		backend:     backend,
		sleep:       cfg.Sleep,
		maxAttempts: cfg.MaxAttempts,
		backoffStep: cfg.BackoffStep,
		logger:      logger,
	}
}

// AwaitEvaluation fetches the evaluation record, retrying not-ready
// responses with linearly increasing backoff. Any other error is
// terminal and returned as-is.
func (c *Coordinator) AwaitEvaluation(ctx context.Context, isbn string) (book.EvaluationRecord, error) {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		rec, err := c.backend.FetchEvaluation(ctx, isbn)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, lothelper.ErrEvaluationNotReady) {
			return book.EvaluationRecord{}, err
		}
		if attempt == c.maxAttempts {
			break
		}

		delay := time.Duration(attempt) * c.backoffStep
		c.logger.Debug("evaluation not ready, backing off",
			"isbn", isbn, "attempt", attempt, "delay", delay)
		if err := c.sleep(ctx, delay); err != nil {
			return book.EvaluationRecord{}, err
		}
	}

	return book.EvaluationRecord{}, fmt.Errorf(
		"evaluation not ready after %d attempts: %w", c.maxAttempts, lothelper.ErrEvaluationNotReady)
}
