package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/wodcycle/internal/periodization"
	"github.com/2beens/wodcycle/internal/telemetry/metrics"
	"github.com/2beens/wodcycle/internal/telemetry/tracing"

	"cloud.google.com/go/civil"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=job_mocks_test.go -package=schedule_test

type dayProjector interface {
	ProjectDay(ctx context.Context, date civil.Date) (ProjectedDay, error)
}

type generationLedger interface {
	MarkGenerated(ctx context.Context, date civil.Date, at time.Time) (bool, error)
	Unmark(ctx context.Context, date civil.Date) error
}

type materializer interface {
	Materialize(ctx context.Context, day ProjectedDay) error
}

type RunResult string

const (
	RunResultGenerated RunResult = "generated"
	RunResultSkipped   RunResult = "skipped"
	RunResultFailed    RunResult = "failed"
)

// GenerationJob materializes today's effective workout once per day, at a
// fixed civil time in the reference timezone.
type GenerationJob struct {
	projector    dayProjector
	ledger       generationLedger
	materializer materializer
	metrics      *metrics.Manager
	location     *time.Location
	runAt        civil.Time

	// a failed day is retried after RetryBackoff, doubling up to MaxRetryBackoff
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration

	// overridable for tests
	Now func() time.Time
}

func NewGenerationJob(
	projector dayProjector,
	ledger generationLedger,
	materializer materializer,
	metricsManager *metrics.Manager,
	location *time.Location,
	runAt string,
) (*GenerationJob, error) {
	at, err := ParseRunTime(runAt)
	if err != nil {
		return nil, err
	}
	if location == nil {
		location = time.UTC
	}

	return &GenerationJob{
		projector:    projector,
		ledger:       ledger,
		materializer: materializer,
		metrics:      metricsManager,
		location:     location,
		runAt:        at,

		RetryBackoff:    time.Minute,
		MaxRetryBackoff: 30 * time.Minute,
		Now:             time.Now,
	}, nil
}

// ParseRunTime parses a HH:MM time of day.
func ParseRunTime(runAt string) (civil.Time, error) {
	t, err := time.Parse("15:04", runAt)
	if err != nil {
		return civil.Time{}, fmt.Errorf("invalid generation time [%s], expected HH:MM: %w", runAt, err)
	}
	return civil.TimeOf(t), nil
}

// NextRun returns the first run instant strictly after now.
func (j *GenerationJob) NextRun(now time.Time) time.Time {
	now = now.In(j.location)
	today := civil.DateOf(now)
	next := civil.DateTime{Date: today, Time: j.runAt}.In(j.location)
	if !next.After(now) {
		next = civil.DateTime{Date: today.AddDays(1), Time: j.runAt}.In(j.location)
	}
	return next
}

// NextWake returns when the background loop should run next, given the number
// of consecutive failed runs. Failures are retried with exponential backoff as
// long as the retry still falls on the same civil date. Past that, the regular
// schedule takes over.
func (j *GenerationJob) NextWake(now time.Time, failed int) time.Time {
	next := j.NextRun(now)
	if failed <= 0 || j.RetryBackoff <= 0 {
		return next
	}

	backoff := j.RetryBackoff
	for i := 1; i < failed && backoff < j.MaxRetryBackoff; i++ {
		backoff *= 2
	}
	if j.MaxRetryBackoff > 0 && backoff > j.MaxRetryBackoff {
		backoff = j.MaxRetryBackoff
	}

	retry := now.Add(backoff)
	if civil.DateOf(retry.In(j.location)) != civil.DateOf(now.In(j.location)) {
		return next
	}
	if retry.Before(next) {
		return retry
	}
	return next
}

// RunOnce generates content for today, unless it was already generated.
func (j *GenerationJob) RunOnce(ctx context.Context) (_ RunResult, err error) {
	ctx, span := tracing.GlobalJobTracer.Start(ctx, "schedule.job.run_once")
	defer func() { tracing.EndSpan(span, err) }()

	startTime := j.Now()
	today := periodization.CivilDateIn(startTime, j.location)
	span.SetAttributes(attribute.String("date", today.String()))

	result, err := j.run(ctx, today, startTime)
	if j.metrics != nil {
		j.metrics.CounterGenerationRuns.WithLabelValues(string(result)).Inc()
		j.metrics.HistGenerationDuration.Observe(j.Now().Sub(startTime).Seconds())
	}
	return result, err
}

func (j *GenerationJob) run(ctx context.Context, today civil.Date, now time.Time) (RunResult, error) {
	claimed, err := j.ledger.MarkGenerated(ctx, today, now)
	if err != nil {
		return RunResultFailed, fmt.Errorf("mark %s generated: %w", today, err)
	}
	if !claimed {
		log.Debugf("generation job: %s already generated, skipping", today)
		return RunResultSkipped, nil
	}

	day, err := j.projector.ProjectDay(ctx, today)
	if err != nil {
		j.release(ctx, today)
		return RunResultFailed, fmt.Errorf("project %s: %w", today, err)
	}
	if j.metrics != nil {
		j.metrics.GaugeDayInCycle.Set(float64(day.Resolved.DayInCycle))
	}

	if err := j.materializer.Materialize(ctx, day); err != nil {
		j.release(ctx, today)
		return RunResultFailed, fmt.Errorf("materialize %s: %w", today, err)
	}

	log.Infof(
		"generation job: %s generated, day %d of cycle %d, %s %s",
		today, day.Resolved.DayInCycle, day.Resolved.CycleNumber,
		day.EffectiveCategory, day.EffectiveDifficultyLabel,
	)
	return RunResultGenerated, nil
}

func (j *GenerationJob) release(ctx context.Context, date civil.Date) {
	if err := j.ledger.Unmark(ctx, date); err != nil {
		log.Errorf("generation job: release %s: %s", date, err)
	}
}

// Start runs the job in the background until ctx is done. If today's run
// time has already passed, today is generated right away. A failed run is
// retried later the same day.
func (j *GenerationJob) Start(ctx context.Context) {
	go func() {
		failed := 0
		now := j.Now().In(j.location)
		todayRun := civil.DateTime{Date: civil.DateOf(now), Time: j.runAt}.In(j.location)
		if !now.Before(todayRun) {
			failed = j.runLogged(ctx, failed)
		}

		for {
			now := j.Now()
			wait := j.NextWake(now, failed).Sub(now)
			log.Debugf("generation job: next run in %s (failed attempts: %d)", wait, failed)

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Debugln("generation job: context done, stopping")
				return
			case <-timer.C:
				failed = j.runLogged(ctx, failed)
			}
		}
	}()
}

// runLogged returns the updated count of consecutive failed runs
func (j *GenerationJob) runLogged(ctx context.Context, failed int) int {
	result, err := j.RunOnce(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("generation job: %s", err)
	}
	if result == RunResultFailed {
		return failed + 1
	}
	return 0
}
