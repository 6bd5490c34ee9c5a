package points

// levelThresholds maps cumulative points to levels: index i holds the
// minimum points for level i+1. Levels cap at 10.
var levelThresholds = []int{0, 200, 500, 1000, 1500, 2000, 2500, 3000, 4000, 5000}

// maxLevelSentinel is reported as the next-level requirement once the
// table is exhausted
const maxLevelSentinel = 10000

// LevelForPoints returns the level for a cumulative point total: the
// largest tier whose threshold does not exceed points.
func LevelForPoints(pts int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if pts >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// NextLevelPoints returns the point threshold required to reach the next
// level, or the terminal sentinel at the level cap.
func NextLevelPoints(level int) int {
	if level < 1 {
		level = 1
	}
	if level >= len(levelThresholds) {
		return maxLevelSentinel
	}
	return levelThresholds[level]
}
