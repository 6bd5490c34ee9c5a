package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		level  int
	}{
		{0, 1},
		{199, 1},
		{200, 2},
		{499, 2},
		{500, 3},
		{999, 3},
		{1000, 4},
		{4999, 9},
		{5000, 10},
		{999999, 10},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.level, LevelForPoints(tc.points), "points=%d", tc.points)
	}
}

func TestLevelForPointsNegative(t *testing.T) {
	assert.Equal(t, 1, LevelForPoints(-50))
}

func TestLevelMonotonic(t *testing.T) {
	prev := 1
	for pts := 0; pts <= 6000; pts += 50 {
		level := LevelForPoints(pts)
		assert.GreaterOrEqual(t, level, prev)
		prev = level
	}
}

func TestNextLevelPoints(t *testing.T) {
	assert.Equal(t, 200, NextLevelPoints(1))
	assert.Equal(t, 500, NextLevelPoints(2))
	assert.Equal(t, 5000, NextLevelPoints(9))
	assert.Equal(t, 10000, NextLevelPoints(10))
	assert.Equal(t, 10000, NextLevelPoints(42))
	assert.Equal(t, 200, NextLevelPoints(0))
}
