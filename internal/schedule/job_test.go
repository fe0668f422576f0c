package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/wodcycle/internal/periodization"
	"github.com/2beens/wodcycle/internal/schedule"
	"github.com/2beens/wodcycle/internal/telemetry/metrics"

	"cloud.google.com/go/civil"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jobMocks struct {
	projector    *MockdayProjector
	ledger       *MockgenerationLedger
	materializer *Mockmaterializer
	metrics      *metrics.Manager
}

func newTestJob(t *testing.T, location *time.Location, runAt string, now time.Time) (*schedule.GenerationJob, jobMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mocks := jobMocks{
		projector:    NewMockdayProjector(ctrl),
		ledger:       NewMockgenerationLedger(ctrl),
		materializer: NewMockmaterializer(ctrl),
		metrics:      metrics.NewTestManager(),
	}
	job, err := schedule.NewGenerationJob(mocks.projector, mocks.ledger, mocks.materializer, mocks.metrics, location, runAt)
	require.NoError(t, err)
	job.Now = func() time.Time { return now }
	return job, mocks
}

func projectedDay(date civil.Date) schedule.ProjectedDay {
	resolved := periodization.Resolve(date)
	return schedule.ProjectedDay{
		Date:                     date,
		Resolved:                 resolved,
		EffectiveCategory:        resolved.Category,
		EffectiveFormatChoices:   resolved.AllowedFormats,
		EffectiveDifficultyLabel: resolved.DifficultyLabel(),
	}
}

func TestGenerationJob_RunOnce(t *testing.T) {
	now := time.Date(2025, 3, 26, 7, 0, 0, 0, time.UTC)
	today := civil.Date{Year: 2025, Month: 3, Day: 26}
	job, mocks := newTestJob(t, time.UTC, "06:00", now)

	day := projectedDay(today)
	gomock.InOrder(
		mocks.ledger.EXPECT().MarkGenerated(gomock.Any(), today, now).Return(true, nil),
		mocks.projector.EXPECT().ProjectDay(gomock.Any(), today).Return(day, nil),
		mocks.materializer.EXPECT().Materialize(gomock.Any(), day).Return(nil),
	)

	result, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schedule.RunResultGenerated, result)
	assert.Equal(t, float64(1), testutil.ToFloat64(mocks.metrics.CounterGenerationRuns.WithLabelValues("generated")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mocks.metrics.GaugeDayInCycle))

	// second run on the same day is a no-op
	mocks.ledger.EXPECT().MarkGenerated(gomock.Any(), today, now).Return(false, nil)
	result, err = job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schedule.RunResultSkipped, result)
	assert.Equal(t, float64(1), testutil.ToFloat64(mocks.metrics.CounterGenerationRuns.WithLabelValues("skipped")))
}

func TestGenerationJob_RunOnce_ReferenceTimezone(t *testing.T) {
	// 23:30 UTC on the 25th is already the 26th in UTC+2
	location := time.FixedZone("EET", 2*3600)
	now := time.Date(2025, 3, 25, 23, 30, 0, 0, time.UTC)
	today := civil.Date{Year: 2025, Month: 3, Day: 26}
	job, mocks := newTestJob(t, location, "00:15", now)

	day := projectedDay(today)
	mocks.ledger.EXPECT().MarkGenerated(gomock.Any(), today, now).Return(true, nil)
	mocks.projector.EXPECT().ProjectDay(gomock.Any(), today).Return(day, nil)
	mocks.materializer.EXPECT().Materialize(gomock.Any(), day).Return(nil)

	result, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schedule.RunResultGenerated, result)
}

func TestGenerationJob_RunOnce_Failures(t *testing.T) {
	now := time.Date(2025, 3, 26, 7, 0, 0, 0, time.UTC)
	today := civil.Date{Year: 2025, Month: 3, Day: 26}

	t.Run("LedgerUnavailable", func(t *testing.T) {
		job, mocks := newTestJob(t, time.UTC, "06:00", now)
		mocks.ledger.EXPECT().MarkGenerated(gomock.Any(), today, now).Return(false, errors.New("redis down"))

		result, err := job.RunOnce(context.Background())
		assert.ErrorContains(t, err, "redis down")
		assert.Equal(t, schedule.RunResultFailed, result)
		assert.Equal(t, float64(1), testutil.ToFloat64(mocks.metrics.CounterGenerationRuns.WithLabelValues("failed")))
	})

	t.Run("MaterializeFailsReleasesDate", func(t *testing.T) {
		job, mocks := newTestJob(t, time.UTC, "06:00", now)
		day := projectedDay(today)
		gomock.InOrder(
			mocks.ledger.EXPECT().MarkGenerated(gomock.Any(), today, now).Return(true, nil),
			mocks.projector.EXPECT().ProjectDay(gomock.Any(), today).Return(day, nil),
			mocks.materializer.EXPECT().Materialize(gomock.Any(), day).Return(errors.New("content service 503")),
			mocks.ledger.EXPECT().Unmark(gomock.Any(), today).Return(nil),
		)

		result, err := job.RunOnce(context.Background())
		assert.ErrorContains(t, err, "content service 503")
		assert.Equal(t, schedule.RunResultFailed, result)
	})

	t.Run("ProjectFailsReleasesDate", func(t *testing.T) {
		job, mocks := newTestJob(t, time.UTC, "06:00", now)
		gomock.InOrder(
			mocks.ledger.EXPECT().MarkGenerated(gomock.Any(), today, now).Return(true, nil),
			mocks.projector.EXPECT().ProjectDay(gomock.Any(), today).Return(schedule.ProjectedDay{}, context.DeadlineExceeded),
			mocks.ledger.EXPECT().Unmark(gomock.Any(), today).Return(errors.New("redis down")),
		)

		result, err := job.RunOnce(context.Background())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, schedule.RunResultFailed, result)
	})
}

func TestGenerationJob_NextRun(t *testing.T) {
	location := time.FixedZone("CET", 3600)
	job, _ := newTestJob(t, location, "06:30", time.Time{})

	before := time.Date(2025, 3, 26, 5, 0, 0, 0, location)
	assert.Equal(t, time.Date(2025, 3, 26, 6, 30, 0, 0, location), job.NextRun(before))

	exactly := time.Date(2025, 3, 26, 6, 30, 0, 0, location)
	assert.Equal(t, time.Date(2025, 3, 27, 6, 30, 0, 0, location), job.NextRun(exactly))

	// 05:45 UTC is 06:45 CET, already past the run time
	utc := time.Date(2025, 3, 26, 5, 45, 0, 0, time.UTC)
	assert.True(t, time.Date(2025, 3, 27, 6, 30, 0, 0, location).Equal(job.NextRun(utc)))
}

func TestParseRunTime(t *testing.T) {
	at, err := schedule.ParseRunTime("06:05")
	require.NoError(t, err)
	assert.Equal(t, civil.Time{Hour: 6, Minute: 5}, at)

	for _, invalid := range []string{"", "6am", "25:00", "06:61", "06:00:00"} {
		_, err := schedule.ParseRunTime(invalid)
		assert.Error(t, err, invalid)
	}

	_, err = schedule.NewGenerationJob(nil, nil, nil, nil, time.UTC, "noon")
	assert.Error(t, err)
}

func TestGenerationJob_Start(t *testing.T) {
	now := time.Date(2025, 3, 26, 7, 0, 0, 0, time.UTC)
	today := civil.Date{Year: 2025, Month: 3, Day: 26}
	job, mocks := newTestJob(t, time.UTC, "06:00", now)

	generated := make(chan struct{})
	day := projectedDay(today)
	mocks.ledger.EXPECT().MarkGenerated(gomock.Any(), today, now).Return(true, nil)
	mocks.projector.EXPECT().ProjectDay(gomock.Any(), today).Return(day, nil)
	mocks.materializer.EXPECT().
		Materialize(gomock.Any(), day).
		DoAndReturn(func(context.Context, schedule.ProjectedDay) error {
			close(generated)
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	job.Start(ctx)

	select {
	case <-generated:
	case <-time.After(5 * time.Second):
		t.Fatal("today was not generated on start")
	}
}

func TestGenerationJob_NextWake(t *testing.T) {
	job, _ := newTestJob(t, time.UTC, "00:05", time.Time{})
	job.RetryBackoff = time.Minute
	job.MaxRetryBackoff = 30 * time.Minute

	afterRun := time.Date(2025, 3, 26, 0, 5, 1, 0, time.UTC)
	tomorrowRun := time.Date(2025, 3, 27, 0, 5, 0, 0, time.UTC)

	assert.Equal(t, tomorrowRun, job.NextWake(afterRun, 0))
	assert.Equal(t, afterRun.Add(time.Minute), job.NextWake(afterRun, 1))
	assert.Equal(t, afterRun.Add(4*time.Minute), job.NextWake(afterRun, 3))
	assert.Equal(t, afterRun.Add(30*time.Minute), job.NextWake(afterRun, 10))

	// retries stay on the failed date
	lateEvening := time.Date(2025, 3, 26, 23, 50, 0, 0, time.UTC)
	assert.Equal(t, lateEvening.Add(time.Minute), job.NextWake(lateEvening, 1))
	assert.Equal(t, tomorrowRun, job.NextWake(lateEvening, 6))

	job.RetryBackoff = 0
	assert.Equal(t, tomorrowRun, job.NextWake(afterRun, 1))
}

func TestGenerationJob_Start_RetriesFailedDay(t *testing.T) {
	now := time.Date(2025, 3, 26, 0, 5, 0, 0, time.UTC)
	today := civil.Date{Year: 2025, Month: 3, Day: 26}
	job, mocks := newTestJob(t, time.UTC, "00:05", now)
	job.RetryBackoff = 10 * time.Millisecond

	generated := make(chan struct{})
	day := projectedDay(today)
	gomock.InOrder(
		mocks.ledger.EXPECT().MarkGenerated(gomock.Any(), today, now).Return(true, nil),
		mocks.projector.EXPECT().ProjectDay(gomock.Any(), today).Return(day, nil),
		mocks.materializer.EXPECT().Materialize(gomock.Any(), day).Return(errors.New("content service 503")),
		mocks.ledger.EXPECT().Unmark(gomock.Any(), today).Return(nil),
		mocks.ledger.EXPECT().MarkGenerated(gomock.Any(), today, now).Return(true, nil),
		mocks.projector.EXPECT().ProjectDay(gomock.Any(), today).Return(day, nil),
		mocks.materializer.EXPECT().
			Materialize(gomock.Any(), day).
			DoAndReturn(func(context.Context, schedule.ProjectedDay) error {
				close(generated)
				return nil
			}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	job.Start(ctx)

	select {
	case <-generated:
	case <-time.After(5 * time.Second):
		t.Fatal("failed day was not retried")
	}
}
