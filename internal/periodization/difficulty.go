package periodization

import "fmt"

const (
	MinStars = 1
	MaxStars = 6
)

type Difficulty struct {
	Level    Level `json:"level"`
	MinStars int   `json:"minStars"`
	MaxStars int   `json:"maxStars"`
}

var (
	Beginner     = Difficulty{Level: LevelBeginner, MinStars: 1, MaxStars: 2}
	Intermediate = Difficulty{Level: LevelIntermediate, MinStars: 3, MaxStars: 4}
	Advanced     = Difficulty{Level: LevelAdvanced, MinStars: 5, MaxStars: 6}
)

// Label renders the difficulty the way the admin console shows it, e.g. "Advanced (5–6★)".
func (d Difficulty) Label() string {
	return fmt.Sprintf("%s (%d–%d★)", d.Level, d.MinStars, d.MaxStars)
}

func (d Difficulty) Contains(stars int) bool {
	return stars >= d.MinStars && stars <= d.MaxStars
}

// DifficultyForStars returns the band a single star rating belongs to.
// ok is false for ratings outside [MinStars, MaxStars].
func DifficultyForStars(stars int) (_ Difficulty, ok bool) {
	for _, d := range []Difficulty{Beginner, Intermediate, Advanced} {
		if d.Contains(stars) {
			return d, true
		}
	}
	return Difficulty{}, false
}

// StarsLabel renders a pinned star rating, e.g. "Advanced (5★)".
func StarsLabel(stars int) string {
	d, ok := DifficultyForStars(stars)
	if !ok {
		return fmt.Sprintf("%d★", stars)
	}
	return fmt.Sprintf("%s (%d★)", d.Level, stars)
}
