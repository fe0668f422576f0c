package periodization

import "cloud.google.com/go/civil"

// TablesVersion identifies the epoch and the tables below. Any change to either
// re-labels every past and future date, so it has to ship as a new version.
const TablesVersion = "2025.1"

const (
	CycleLength      = 28
	RotationCycles   = 3
	SuperCycleLength = CycleLength * RotationCycles
)

// CycleStartDate is day 1 of cycle 1.
var CycleStartDate = civil.Date{Year: 2025, Month: 1, Day: 1}

type baseDay struct {
	category   Category
	difficulty *Difficulty // fixed difficulty, unused on strength days
}

func fixed(c Category, d Difficulty) baseDay {
	return baseDay{category: c, difficulty: &d}
}

// baseTable is indexed by day-in-cycle, slot 0 is unused.
var baseTable = [CycleLength + 1]baseDay{
	{},
	// week 1
	fixed(CategoryCardio, Intermediate),
	{category: CategoryStrength},
	fixed(CategoryMobilityStability, Beginner),
	fixed(CategoryMetabolic, Intermediate),
	{category: CategoryStrength},
	fixed(CategoryCalorieBurning, Intermediate),
	{category: CategoryRecovery},
	// week 2
	fixed(CategoryPilates, Beginner),
	{category: CategoryStrength},
	fixed(CategoryCardio, Advanced),
	fixed(CategoryChallenge, Advanced),
	{category: CategoryStrength},
	fixed(CategoryMobilityStability, Intermediate),
	{category: CategoryRecovery},
	// week 3
	fixed(CategoryMetabolic, Advanced),
	{category: CategoryStrength},
	fixed(CategoryCalorieBurning, Beginner),
	fixed(CategoryPilates, Intermediate),
	{category: CategoryStrength},
	fixed(CategoryCardio, Beginner),
	{category: CategoryRecovery},
	// week 4
	fixed(CategoryChallenge, Intermediate),
	{category: CategoryStrength},
	fixed(CategoryMobilityStability, Beginner),
	fixed(CategoryMetabolic, Beginner),
	{category: CategoryStrength},
	fixed(CategoryCalorieBurning, Advanced),
	{category: CategoryRecovery},
}

// strengthRotation holds, per strength day-in-cycle, the difficulty used in
// each of the three 28-day cycles of the 84-day super-cycle.
var strengthRotation = map[int][RotationCycles]Difficulty{
	2:  {Advanced, Intermediate, Beginner},
	5:  {Intermediate, Beginner, Advanced},
	9:  {Beginner, Advanced, Intermediate},
	12: {Advanced, Intermediate, Beginner},
	16: {Intermediate, Advanced, Beginner},
	19: {Beginner, Intermediate, Advanced},
	23: {Advanced, Beginner, Intermediate},
	26: {Intermediate, Advanced, Beginner},
}

var formatRules = map[Category][]Format{
	CategoryStrength:          {FormatRepsAndSets},
	CategoryMobilityStability: {FormatRepsAndSets},
	CategoryPilates:           {FormatRepsAndSets},
	CategoryCardio:            {FormatCircuit, FormatTabata, FormatEMOM},
	CategoryMetabolic:         {FormatAMRAP, FormatEMOM, FormatForTime},
	CategoryCalorieBurning:    {FormatCircuit, FormatTabata, FormatAMRAP},
	CategoryChallenge:         {FormatForTime, FormatAMRAP},
	CategoryRecovery:          {FormatCircuit, FormatRepsAndSets},
}

// AllowedFormats returns a copy of the formats a generator may use for the category.
func AllowedFormats(c Category) []Format {
	formats := formatRules[c]
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// FixedFormat reports the only format allowed for the category, if there is exactly one.
func FixedFormat(c Category) (Format, bool) {
	formats := formatRules[c]
	if len(formats) != 1 {
		return "", false
	}
	return formats[0], true
}
