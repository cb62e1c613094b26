//go:build unit

package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-reservation-engine/internal/infra/scheduler"
	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	calls int
	err   error
}

func (f *fakeCompleter) CompleteElapsedStays(context.Context) (int, error) {
	f.calls++
	return 3, f.err
}

type fakePurger struct {
	at []time.Time
}

func (f *fakePurger) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.at = append(f.at, now)
	return 7, nil
}

func TestScheduler_New(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := scheduler.New(config.SchedulerConfig{CompletionSpec: "not a spec"}, &fakeCompleter{}, &fakePurger{}, clk)
	assert.Error(t, err)

	_, err = scheduler.New(config.SchedulerConfig{CompletionSpec: "@hourly", PurgeSpec: "61 * * * *"}, &fakeCompleter{}, &fakePurger{}, clk)
	assert.Error(t, err)

	s, err := scheduler.New(config.SchedulerConfig{CompletionSpec: "@every 1h", PurgeSpec: "@daily"}, &fakeCompleter{}, &fakePurger{}, clk)
	require.NoError(t, err)
	s.Start()
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_Jobs(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	completer := &fakeCompleter{}
	purger := &fakePurger{}

	s, err := scheduler.New(config.SchedulerConfig{CompletionSpec: "@hourly"}, completer, purger, clk)
	require.NoError(t, err)

	s.CompleteStays(context.Background())
	completer.err = errors.New("db down")
	s.CompleteStays(context.Background())
	assert.Equal(t, 2, completer.calls)

	s.PurgeIdempotencyKeys(context.Background())
	require.Len(t, purger.at, 1)
	assert.True(t, purger.at[0].Equal(now))
}
