package overrides

import (
	"github.com/2beens/wodcycle/internal/periodization"
)

// Effective is what the generator should produce for a date once the
// operator's override (if any) is applied on top of the calendar.
type Effective struct {
	Category periodization.Category `json:"category"`
	// Format is nil when the generator picks one of FormatChoices.
	Format        *periodization.Format  `json:"format"`
	FormatChoices []periodization.Format `json:"formatChoices"`
	// DifficultyStars is nil when the rotation decides.
	DifficultyStars *int                      `json:"difficultyStars"`
	Difficulty      *periodization.Difficulty `json:"difficulty"`
	DifficultyLabel string                    `json:"difficultyLabel"`
	Overridden      bool                      `json:"overridden"`
}

// Merge applies o (which may be nil) to the resolved calendar day.
// Every field o leaves unset falls back to resolved. A recovery day moved to
// another category without stars takes the band of the next calendar day of
// that category.
func Merge(resolved periodization.CycleDay, o *ManualOverride) Effective {
	if o == nil {
		o = &ManualOverride{}
	}

	eff := Effective{
		Category:   resolved.Category,
		Overridden: !o.IsEmpty(),
	}
	if c, ok := o.Category.Get(); ok {
		eff.Category = c
	}

	if f, ok := o.Format.Get(); ok {
		eff.Format = &f
		eff.FormatChoices = []periodization.Format{f}
	} else {
		eff.FormatChoices = periodization.AllowedFormats(eff.Category)
		if fixed, ok := periodization.FixedFormat(eff.Category); ok {
			eff.Format = &fixed
		}
	}

	switch {
	case o.DifficultyStars.IsNull():
		// cleared by the operator
	case eff.Category == periodization.CategoryRecovery:
		// recovery never carries a difficulty
	default:
		if stars, ok := o.DifficultyStars.Get(); ok {
			eff.DifficultyStars = &stars
			if d, ok := periodization.DifficultyForStars(stars); ok {
				eff.Difficulty = &d
			}
			eff.DifficultyLabel = periodization.StarsLabel(stars)
		} else if resolved.Difficulty != nil {
			d := *resolved.Difficulty
			eff.Difficulty = &d
			eff.DifficultyLabel = d.Label()
		}
	}

	return eff
}

func calendarDifficulty(resolved periodization.CycleDay, category periodization.Category) *periodization.Difficulty {
	if resolved.Difficulty != nil {
		return resolved.Difficulty
	}
	return periodization.NextDifficulty(resolved.Date, category)
}
