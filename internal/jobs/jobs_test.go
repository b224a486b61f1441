package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage/storagetest"
	"github.com/julianstephens/lifequest/internal/tasks"
)

func TestAddRejectsBadSpec(t *testing.T) {
	r := New(time.UTC)
	assert.Error(t, r.Add("broken", "every day at noon", func(context.Context) error { return nil }))
	assert.Error(t, r.Add("seconds", "0 0 0 * * *", func(context.Context) error { return nil }))
	assert.NoError(t, r.Add("nightly", "0 0 * * *", func(context.Context) error { return nil }))
}

func TestRunAppliesTimeout(t *testing.T) {
	r := New(time.UTC)
	r.timeout = 10 * time.Millisecond

	err := r.run("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunPropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	r := New(nil)
	assert.ErrorIs(t, r.run("failing", func(context.Context) error { return boom }), boom)
}

func TestDailyReset(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)
	tr := tasks.New(storagetest.New(t), tasks.DefaultReminderOptions(), time.UTC, func() time.Time { return now })

	daily, err := tr.Create(ctx, models.Task{Title: "Stretch", Type: models.TaskTypeDaily})
	require.NoError(t, err)
	normal, err := tr.Create(ctx, models.Task{Title: "File taxes", Type: models.TaskTypeNormal})
	require.NoError(t, err)
	_, err = tr.Complete(ctx, daily.ID)
	require.NoError(t, err)
	_, err = tr.Complete(ctx, normal.ID)
	require.NoError(t, err)

	r := New(time.UTC)
	require.NoError(t, r.run("daily_reset", DailyReset(tr)))

	got, err := tr.Get(ctx, daily.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)

	got, err = tr.Get(ctx, normal.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestStartStop(t *testing.T) {
	r := New(time.UTC)
	require.NoError(t, r.Add("noop", "@every 1h", func(context.Context) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	r.Stop(stopCtx)
	assert.NoError(t, stopCtx.Err())
}
