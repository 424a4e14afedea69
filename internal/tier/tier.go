// Package tier maps continuous district scores to discrete ranking tiers.
//
// A single threshold table is canonical:
//
//	tier 1: 85-100
//	tier 2: 70-84
//	tier 3: 50-69
//	tier 4: below 50
//
// The same table is embedded in the scoring rubric, so a provider that
// follows the rubric agrees with FromScore.
package tier

import "strconv"

const (
	// Best is the highest ranking tier.
	Best = 1
	// Worst is the lowest ranking tier, also used for unscored rows.
	Worst = 4
)

// Threshold is the inclusive lower score bound of a tier.
type Threshold struct {
	Tier     int
	MinScore float64
}

// Table is the canonical threshold table, ordered best tier first.
var Table = []Threshold{
	{Tier: 1, MinScore: 85},
	{Tier: 2, MinScore: 70},
	{Tier: 3, MinScore: 50},
	{Tier: 4, MinScore: 0},
}

// FromScore returns the tier for score. Scores below zero land in the worst
// tier; scores above 100 land in the best.
func FromScore(score float64) int {
	for _, th := range Table {
		if score >= th.MinScore {
			return th.Tier
		}
	}
	return Worst
}

// Valid reports whether t is one of the four tiers.
func Valid(t int) bool {
	return t >= Best && t <= Worst
}

// Color returns the display colour for a tier. Invalid tiers get the worst
// tier's colour.
func Color(t int) string {
	switch t {
	case 1:
		return "#48bb78" // green
	case 2:
		return "#4299e1" // blue
	case 3:
		return "#ed8936" // orange
	default:
		return "#f56565" // red
	}
}

// Label returns a short human label such as "Tier 1".
func Label(t int) string {
	if !Valid(t) {
		return "Unranked"
	}
	return "Tier " + strconv.Itoa(t)
}
