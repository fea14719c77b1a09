package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncuskey/lothelper-engine/internal/adapters/lothelper"
	"github.com/ncuskey/lothelper-engine/internal/domain/book"
)

// fakeBackend scripts FetchEvaluation responses and records every call.
type fakeBackend struct {
	submitErr    error
	submitted    []string
	fetchResults []fetchResult
	fetchCalls   int
}

type fetchResult struct {
	rec book.EvaluationRecord
	err error
}

func (f *fakeBackend) SubmitScan(_ context.Context, isbn string, _ lothelper.ScanAttributes) error {
	f.submitted = append(f.submitted, isbn)
	return f.submitErr
}

func (f *fakeBackend) FetchEvaluation(_ context.Context, _ string) (book.EvaluationRecord, error) {
	idx := f.fetchCalls
	f.fetchCalls++
	if idx >= len(f.fetchResults) {
		return book.EvaluationRecord{}, errors.New("unexpected extra fetch call")
	}
	r := f.fetchResults[idx]
	return r.rec, r.err
}

func recordedSleep(delays *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestCoordinator_AwaitEvaluation(t *testing.T) {
	ready := book.EvaluationRecord{ISBN: "9780306406157", Title: "Numerical Recipes"}

	t.Run("succeeds on third attempt with linear backoff", func(t *testing.T) {
		backend := &fakeBackend{fetchResults: []fetchResult{
			{err: lothelper.ErrEvaluationNotReady},
			{err: lothelper.ErrEvaluationNotReady},
			{rec: ready},
		}}
		var delays []time.Duration
		c := NewCoordinator(backend, CoordinatorConfig{
			MaxAttempts: 3,
			BackoffStep: time.Second,
			Sleep:       recordedSleep(&delays),
		}, nil)

		rec, err := c.AwaitEvaluation(context.Background(), "9780306406157")
		require.NoError(t, err)
		assert.Equal(t, "Numerical Recipes", rec.Title)
		assert.Equal(t, 3, backend.fetchCalls)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
	})

	t.Run("immediate success sleeps zero times", func(t *testing.T) {
		backend := &fakeBackend{fetchResults: []fetchResult{{rec: ready}}}
		var delays []time.Duration
		c := NewCoordinator(backend, CoordinatorConfig{Sleep: recordedSleep(&delays)}, nil)

		_, err := c.AwaitEvaluation(context.Background(), "9780306406157")
		require.NoError(t, err)
		assert.Equal(t, 1, backend.fetchCalls)
		assert.Empty(t, delays)
	})

	t.Run("gives up after exactly three calls", func(t *testing.T) {
		backend := &fakeBackend{fetchResults: []fetchResult{
			{err: lothelper.ErrEvaluationNotReady},
			{err: lothelper.ErrEvaluationNotReady},
			{err: lothelper.ErrEvaluationNotReady},
		}}
		var delays []time.Duration
		c := NewCoordinator(backend, CoordinatorConfig{
			MaxAttempts: 3,
			BackoffStep: time.Second,
			Sleep:       recordedSleep(&delays),
		}, nil)

		_, err := c.AwaitEvaluation(context.Background(), "9780306406157")
		require.ErrorIs(t, err, lothelper.ErrEvaluationNotReady)
		// No sleep and no fourth call after the final failed attempt.
		assert.Equal(t, 3, backend.fetchCalls)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
	})

	t.Run("hard errors are terminal on the first attempt", func(t *testing.T) {
		boom := errors.New("backend exploded")
		backend := &fakeBackend{fetchResults: []fetchResult{{err: boom}}}
		var delays []time.Duration
		c := NewCoordinator(backend, CoordinatorConfig{Sleep: recordedSleep(&delays)}, nil)

		_, err := c.AwaitEvaluation(context.Background(), "9780306406157")
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, backend.fetchCalls)
		assert.Empty(t, delays)
	})

	t.Run("cancelled context aborts the backoff wait", func(t *testing.T) {
		backend := &fakeBackend{fetchResults: []fetchResult{
			{err: lothelper.ErrEvaluationNotReady},
		}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := NewCoordinator(backend, CoordinatorConfig{BackoffStep: time.Minute}, nil)

		_, err := c.AwaitEvaluation(ctx, "9780306406157")
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, backend.fetchCalls)
	})
}
