package dashboard

import (
	"github.com/sells-group/water-intel/internal/model"
	"github.com/sells-group/water-intel/internal/rank"
	"github.com/sells-group/water-intel/internal/tier"
)

// APLStatusColors is the fixed pie colour per APL status.
var APLStatusColors = map[model.APLStatus]string{
	model.APLStatusApproved:        "#48bb78",
	model.APLStatusVerified:        "#4299e1",
	model.APLStatusPending:         "#ed8936",
	model.APLStatusNeedsSubmission: "#f56565",
	model.APLStatusNotSubmitted:    "#718096",
}

// AlignmentColors colours the budget bars.
var AlignmentColors = map[model.APLAlignment]string{
	model.APLStrong:   "#48bb78",
	model.APLModerate: "#ed8936",
	model.APLUnknown:  "#4299e1",
}

const otherColor = "#a0aec0"

func budgetBars(districts []model.WaterDistrict) []BudgetBar {
	out := make([]BudgetBar, 0, len(districts))
	for _, d := range districts {
		alignment := d.APLAlignment
		if alignment == "" {
			alignment = model.APLUnknown
		}
		color, ok := AlignmentColors[alignment]
		if !ok {
			color = otherColor
		}
		out = append(out, BudgetBar{
			District:       d.Name,
			Budget:         d.Budget,
			BudgetMillions: float64(d.Budget) / 1_000_000,
			Alignment:      string(alignment),
			Color:          color,
		})
	}
	return out
}

// aplPie counts cities per status. Known statuses come first in their
// canonical order; unknown labels follow in first-seen order. Empty slices
// are omitted.
func aplPie(cities []model.CityRecord) []PieSlice {
	counts := make(map[model.APLStatus]int)
	var extra []model.APLStatus
	for _, c := range cities {
		if _, known := APLStatusColors[c.APLStatus]; !known && counts[c.APLStatus] == 0 {
			extra = append(extra, c.APLStatus)
		}
		counts[c.APLStatus]++
	}

	out := make([]PieSlice, 0, len(counts))
	for _, s := range model.APLStatuses {
		if n := counts[s]; n > 0 {
			out = append(out, PieSlice{Status: string(s), Count: n, Color: APLStatusColors[s]})
		}
	}
	for _, s := range extra {
		out = append(out, PieSlice{Status: string(s), Count: counts[s], Color: otherColor})
	}
	return out
}

func scatter(rows []rank.DisplayRow) []ScatterPoint {
	out := make([]ScatterPoint, 0, len(rows))
	for _, r := range rows {
		if !r.Scored {
			continue
		}
		out = append(out, ScatterPoint{
			City:      r.City,
			District:  r.District,
			Budget:    r.BudgetValue,
			Score:     r.ScoreValue,
			Tier:      r.Tier,
			Color:     tier.Color(r.Tier),
			Alignment: r.APLAlignment,
		})
	}
	return out
}
