// Package schedule projects the training calendar forward in time, with the
// operator overrides applied, and drives the daily content generation.
package schedule

import (
	"context"
	"fmt"

	"github.com/2beens/wodcycle/internal/overrides"
	"github.com/2beens/wodcycle/internal/periodization"
	"github.com/2beens/wodcycle/internal/telemetry/metrics"
	"github.com/2beens/wodcycle/internal/telemetry/tracing"

	"cloud.google.com/go/civil"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	MaxConcurrentLookups = 8
	MaxProjectionDays    = periodization.SuperCycleLength
)

type overrideGetter interface {
	Get(ctx context.Context, date civil.Date) (*overrides.ManualOverride, error)
}

type ProjectedDay struct {
	Date                     civil.Date                `json:"date"`
	Resolved                 periodization.CycleDay    `json:"resolved"`
	Override                 *overrides.ManualOverride `json:"override"`
	EffectiveCategory        periodization.Category    `json:"effectiveCategory"`
	EffectiveFormat          *periodization.Format     `json:"effectiveFormat"`
	EffectiveFormatChoices   []periodization.Format    `json:"effectiveFormatChoices"`
	EffectiveDifficultyLabel string                    `json:"effectiveDifficultyLabel"`
	// OverrideLookupFailed is set when the store could not be read and the
	// day was projected from the calendar alone.
	OverrideLookupFailed bool `json:"overrideLookupFailed,omitempty"`
}

// Effective returns the merged view of the day.
func (d ProjectedDay) Effective() overrides.Effective {
	return overrides.Merge(d.Resolved, d.Override)
}

type Projector struct {
	store   overrideGetter
	metrics *metrics.Manager
}

func NewProjector(store overrideGetter, metricsManager *metrics.Manager) *Projector {
	return &Projector{
		store:   store,
		metrics: metricsManager,
	}
}

// Project returns n consecutive days starting at start, in date order.
// A failed override lookup does not fail the projection: the date is
// projected as if it had no override.
func (p *Projector) Project(ctx context.Context, start civil.Date, n int) (_ []ProjectedDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "schedule.projector.project")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(
		attribute.String("start", start.String()),
		attribute.Int("days", n),
	)

	if !start.IsValid() {
		return nil, fmt.Errorf("invalid start date %s", start)
	}
	if n < 0 {
		return nil, fmt.Errorf("negative number of days: %d", n)
	}

	days := make([]ProjectedDay, n)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentLookups)
	for i := 0; i < n; i++ {
		date := start.AddDays(i)
		g.Go(func() error {
			day, err := p.projectDay(gCtx, date)
			if err != nil {
				return err
			}
			days[i] = day
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if p.metrics != nil {
		p.metrics.CounterProjectedDays.Add(float64(n))
	}
	return days, nil
}

// ProjectDay is Project for a single date.
func (p *Projector) ProjectDay(ctx context.Context, date civil.Date) (ProjectedDay, error) {
	days, err := p.Project(ctx, date, 1)
	if err != nil {
		return ProjectedDay{}, err
	}
	return days[0], nil
}

func (p *Projector) projectDay(ctx context.Context, date civil.Date) (ProjectedDay, error) {
	if err := ctx.Err(); err != nil {
		return ProjectedDay{}, err
	}

	day := ProjectedDay{
		Date:     date,
		Resolved: periodization.Resolve(date),
	}

	o, err := p.store.Get(ctx, date)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ProjectedDay{}, ctxErr
		}
		log.Errorf("projector: get override %s: %s", date, err)
		if p.metrics != nil {
			p.metrics.CounterOverrideLookupFailures.Inc()
		}
		day.OverrideLookupFailed = true
		o = nil
	}
	day.Override = o

	eff := overrides.Merge(day.Resolved, o)
	day.EffectiveCategory = eff.Category
	day.EffectiveFormat = eff.Format
	day.EffectiveFormatChoices = eff.FormatChoices
	day.EffectiveDifficultyLabel = eff.DifficultyLabel
	return day, nil
}
