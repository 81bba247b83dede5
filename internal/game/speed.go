package game

import "time"

// BaseFallInterval applies until the score reaches the first threshold.
const BaseFallInterval = 1000 * time.Millisecond

// speedTable maps score thresholds to fall intervals, ascending by score.
var speedTable = []struct {
	Score    int
	Interval time.Duration
}{
	{10, 900 * time.Millisecond},
	{20, 800 * time.Millisecond},
	{30, 700 * time.Millisecond},
	{40, 500 * time.Millisecond},
	{50, 300 * time.Millisecond},
	{60, 200 * time.Millisecond},
	{70, 100 * time.Millisecond},
	{100, 50 * time.Millisecond},
}

// FallIntervalFor returns the interval set by the highest threshold that
// score has reached.
func FallIntervalFor(score int) time.Duration {
	interval := BaseFallInterval
	for _, step := range speedTable {
		if score < step.Score {
			break
		}
		interval = step.Interval
	}
	return interval
}

// addLine credits one cleared row and re-evaluates the fall interval.
// Reports whether the interval changed.
func (s *Session) addLine() bool {
	s.Score++
	interval := FallIntervalFor(s.Score)
	if interval == s.FallInterval {
		return false
	}
	s.FallInterval = interval
	return true
}
