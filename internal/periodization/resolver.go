// Package periodization maps civil dates onto the 28-day training cycle and its
// 84-day strength super-cycle. Everything here is a pure function of the date:
// there is no I/O and no state, so it is safe for concurrent use.
package periodization

import (
	"time"

	"cloud.google.com/go/civil"
)

// CycleDay is what the calendar says about a date before any operator override.
type CycleDay struct {
	Date           civil.Date  `json:"date"`
	DayInCycle     int         `json:"dayInCycle"`
	CycleNumber    int         `json:"cycleNumber"`
	GlobalDayIn84  int         `json:"globalDayIn84"`
	Category       Category    `json:"category"`
	Difficulty     *Difficulty `json:"difficulty"`
	AllowedFormats []Format    `json:"allowedFormats"`
}

// RotationIndex is the position of the day's 28-day cycle within the super-cycle, in [0, 2].
func (d CycleDay) RotationIndex() int {
	return floorMod(d.CycleNumber-1, RotationCycles)
}

func (d CycleDay) DifficultyLabel() string {
	if d.Difficulty == nil {
		return ""
	}
	return d.Difficulty.Label()
}

// Resolve computes the cycle position of date. Dates before CycleStartDate
// wrap backwards, so the day before the epoch is day 28 of cycle 0.
func Resolve(date civil.Date) CycleDay {
	offset := date.DaysSince(CycleStartDate)

	dayInCycle := floorMod(offset, CycleLength) + 1
	cycleNumber := floorDiv(offset, CycleLength) + 1
	rotationIndex := floorMod(cycleNumber-1, RotationCycles)

	base := baseTable[dayInCycle]

	var difficulty *Difficulty
	switch base.category {
	case CategoryStrength:
		d := strengthRotation[dayInCycle][rotationIndex]
		difficulty = &d
	case CategoryRecovery:
		difficulty = nil
	default:
		d := *base.difficulty
		difficulty = &d
	}

	return CycleDay{
		Date:           date,
		DayInCycle:     dayInCycle,
		CycleNumber:    cycleNumber,
		GlobalDayIn84:  rotationIndex*CycleLength + dayInCycle,
		Category:       base.category,
		Difficulty:     difficulty,
		AllowedFormats: AllowedFormats(base.category),
	}
}

// NextDifficulty returns the difficulty of the first date on or after from
// whose calendar category is c. Recovery has no difficulty, so it returns nil.
func NextDifficulty(from civil.Date, c Category) *Difficulty {
	if c == CategoryRecovery {
		return nil
	}
	for i := 0; i < CycleLength; i++ {
		if day := Resolve(from.AddDays(i)); day.Category == c {
			return day.Difficulty
		}
	}
	return nil
}

// CivilDateIn converts an instant to the calendar date observed in loc.
// This is the only place where time zones are taken into account; callers
// hand the result to Resolve.
func CivilDateIn(t time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(t.In(loc))
}

func floorMod(x, n int) int {
	return ((x % n) + n) % n
}

func floorDiv(x, n int) int {
	q := x / n
	if x%n != 0 && (x < 0) != (n < 0) {
		q--
	}
	return q
}
