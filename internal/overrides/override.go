package overrides

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/2beens/wodcycle/internal/periodization"

	"cloud.google.com/go/civil"
)

var (
	ErrOverrideNotFound = errors.New("override not found")
	ErrInvalidOverride  = errors.New("invalid override")
)

// ManualOverride pins parts of a single date's schedule. It never moves the
// cycle: the days around it resolve exactly as if it did not exist.
//
// An explicit null on Category or Format means "use the calendar", same as
// leaving it unset. An explicit null on DifficultyStars clears the difficulty
// for that date.
type ManualOverride struct {
	Date            civil.Date                    `json:"date"`
	Category        Field[periodization.Category] `json:"category,omitzero"`
	Format          Field[periodization.Format]   `json:"format,omitzero"`
	DifficultyStars Field[int]                    `json:"difficultyStars,omitzero"`
	Note            string                        `json:"note,omitempty"`
	UpdatedAt       time.Time                     `json:"updatedAt,omitzero"`
}

func (o ManualOverride) IsEmpty() bool {
	return !o.Category.IsSet() && !o.Format.IsSet() && !o.DifficultyStars.IsSet()
}

// Validate checks the override against the calendar of its own date.
func (o ManualOverride) Validate() error {
	if !o.Date.IsValid() {
		return fmt.Errorf("%w: invalid date %s", ErrInvalidOverride, o.Date)
	}
	if o.IsEmpty() {
		return fmt.Errorf("%w: nothing to override on %s", ErrInvalidOverride, o.Date)
	}

	category := periodization.Resolve(o.Date).Category
	if c, ok := o.Category.Get(); ok {
		if !c.IsValid() {
			return fmt.Errorf("%w: unknown category [%s]", ErrInvalidOverride, c)
		}
		category = c
	}

	if f, ok := o.Format.Get(); ok {
		if !f.IsValid() {
			return fmt.Errorf("%w: unknown format [%s]", ErrInvalidOverride, f)
		}
		if !slices.Contains(periodization.AllowedFormats(category), f) {
			return fmt.Errorf("%w: format [%s] not allowed for category [%s]", ErrInvalidOverride, f, category)
		}
	}

	if stars, ok := o.DifficultyStars.Get(); ok {
		if stars < periodization.MinStars || stars > periodization.MaxStars {
			return fmt.Errorf(
				"%w: difficulty stars must be in [%d, %d], got %d",
				ErrInvalidOverride, periodization.MinStars, periodization.MaxStars, stars,
			)
		}
		if category == periodization.CategoryRecovery {
			return fmt.Errorf("%w: recovery days carry no difficulty", ErrInvalidOverride)
		}
	}

	return nil
}
