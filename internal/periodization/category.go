package periodization

// Category is the training focus assigned to a day of the cycle.
type Category string

const (
	CategoryStrength          Category = "strength"
	CategoryCardio            Category = "cardio"
	CategoryMetabolic         Category = "metabolic"
	CategoryCalorieBurning    Category = "calorie_burning"
	CategoryMobilityStability Category = "mobility_stability"
	CategoryChallenge         Category = "challenge"
	CategoryPilates           Category = "pilates"
	CategoryRecovery          Category = "recovery"
)

var Categories = []Category{
	CategoryStrength,
	CategoryCardio,
	CategoryMetabolic,
	CategoryCalorieBurning,
	CategoryMobilityStability,
	CategoryChallenge,
	CategoryPilates,
	CategoryRecovery,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryStrength,
		CategoryCardio,
		CategoryMetabolic,
		CategoryCalorieBurning,
		CategoryMobilityStability,
		CategoryChallenge,
		CategoryPilates,
		CategoryRecovery:
		return true
	default:
		return false
	}
}

// Format is the workout structure a generator may pick for a day.
type Format string

const (
	FormatRepsAndSets Format = "reps_and_sets"
	FormatCircuit     Format = "circuit"
	FormatAMRAP       Format = "amrap"
	FormatEMOM        Format = "emom"
	FormatTabata      Format = "tabata"
	FormatForTime     Format = "for_time"
)

func (f Format) String() string {
	return string(f)
}

func (f Format) IsValid() bool {
	switch f {
	case FormatRepsAndSets,
		FormatCircuit,
		FormatAMRAP,
		FormatEMOM,
		FormatTabata,
		FormatForTime:
		return true
	default:
		return false
	}
}

// Level is a named difficulty band.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

func (l Level) String() string {
	return string(l)
}
