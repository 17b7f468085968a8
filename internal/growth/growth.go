// Package growth holds the pure tree-growth arithmetic: stage from
// accumulated WiFi hours and health decay from time since last watering.
package growth

import (
	"math"
	"time"
)

// DefaultMaxStage bounds growth for trees without catalog stage data
// (stages 0 through 5).
const DefaultMaxStage = 5

const healthLossPerDay = 10

// StageFromHours derives the growth stage from accumulated WiFi hours.
// Stage is never set directly; it is always recomputed from hours.
func StageFromHours(hours float64, maxStage int) int {
	if maxStage <= 0 {
		maxStage = DefaultMaxStage
	}
	if hours <= 0 {
		return 0
	}
	stage := int(math.Floor(hours))
	if stage > maxStage {
		return maxStage
	}
	return stage
}

// HealthScore decays from 100 by 10 per whole day since the tree was last
// watered, clamped to [0, 100].
func HealthScore(lastWatered, now time.Time) int {
	if !now.After(lastWatered) {
		return 100
	}
	days := int(now.Sub(lastWatered).Hours() / 24)
	score := 100 - days*healthLossPerDay
	if score < 0 {
		return 0
	}
	return score
}
