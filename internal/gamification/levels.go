package gamification

import (
	"fmt"

	"github.com/mentora-app/mentora/internal/i18n"
)

// levelThresholds holds the points needed to reach each level, in
// order. Names live in the i18n catalog under level.<index>.
var levelThresholds = []int{0, 50, 150, 300, 600, 1200, 2500}

// Level is a named rank on the points ladder.
type Level struct {
	Index     int
	Threshold int
	// Next is the threshold of the following level, -1 at the top.
	Next int
}

// Name resolves the localized level name.
func (l Level) Name(lang i18n.Lang) string {
	return i18n.T(lang, fmt.Sprintf("level.%d", l.Index))
}

// LevelFor returns the level the given point total sits in.
func LevelFor(points int) Level {
	idx := 0
	for i, threshold := range levelThresholds {
		if points >= threshold {
			idx = i
		}
	}

	next := -1
	if idx+1 < len(levelThresholds) {
		next = levelThresholds[idx+1]
	}
	return Level{Index: idx, Threshold: levelThresholds[idx], Next: next}
}

// Progress returns the current level and the percentage toward the next
// one. The top level always reports 100.
func Progress(points int) (Level, int) {
	level := LevelFor(points)
	if level.Next < 0 {
		return level, 100
	}

	span := level.Next - level.Threshold
	pct := (points - level.Threshold) * 100 / span
	if pct > 100 {
		pct = 100
	}
	return level, pct
}
