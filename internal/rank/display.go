package rank

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/water-intel/internal/tier"
)

// Column keys in display order.
var columnKeys = []string{
	"name_district",
	"city_name",
	"county",
	"annual_budget",
	"cip_budget",
	"sewer_budget",
	"apl_status",
	"apl_alignment",
	"project_activity",
	"internal_support",
	"score",
	"tier",
	"tier_color",
}

// DisplayColumns is the human-readable header row, in display order.
var DisplayColumns = func() []string {
	out := make([]string, len(columnKeys))
	for i, k := range columnKeys {
		out[i] = ColumnName(k)
	}
	return out
}()

// ColumnName turns a snake_case field key into a title-cased header, e.g.
// "apl_alignment" becomes "Apl Alignment".
func ColumnName(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// DisplayRow is one presentation-ready table row. Tier is always 1-4;
// unscored rows show tier 4 with Scored false and Score "N/A".
type DisplayRow struct {
	District        string `json:"name_district" csv:"Name District"`
	City            string `json:"city_name" csv:"City Name"`
	County          string `json:"county" csv:"County"`
	AnnualBudget    string `json:"annual_budget" csv:"Annual Budget"`
	CIPBudget       string `json:"cip_budget" csv:"Cip Budget"`
	SewerBudget     string `json:"sewer_budget" csv:"Sewer Budget"`
	APLStatus       string `json:"apl_status" csv:"Apl Status"`
	APLAlignment    string `json:"apl_alignment" csv:"Apl Alignment"`
	ProjectActivity int    `json:"project_activity" csv:"Project Activity"`
	InternalSupport string `json:"internal_support" csv:"Internal Support"`
	Score           string `json:"score" csv:"Score"`
	Tier            int    `json:"tier" csv:"Tier"`
	TierColor       string `json:"tier_color" csv:"Tier Color"`

	Scored      bool    `json:"scored" csv:"-"`
	ScoreValue  float64 `json:"score_value" csv:"-"`
	BudgetValue int64   `json:"budget_value" csv:"-"`
}

// Cells returns the row's values in DisplayColumns order.
func (d DisplayRow) Cells() []string {
	return []string{
		d.District,
		d.City,
		d.County,
		d.AnnualBudget,
		d.CIPBudget,
		d.SewerBudget,
		d.APLStatus,
		d.APLAlignment,
		strconv.Itoa(d.ProjectActivity),
		d.InternalSupport,
		d.Score,
		strconv.Itoa(d.Tier),
		d.TierColor,
	}
}

// Display formats ranked rows for presentation.
func Display(rows []Row) []DisplayRow {
	out := make([]DisplayRow, len(rows))
	for i, r := range rows {
		d := DisplayRow{
			District:    r.DistrictName(),
			City:        r.Name,
			County:      r.CountyName,
			CIPBudget:   FormatMillions(r.CIPBudget),
			SewerBudget: FormatMillions(r.SewerBudget),
			APLStatus:   string(r.APLStatus),
			Score:       "N/A",
			Tier:        tier.Worst,
		}
		if r.District != nil {
			d.AnnualBudget = FormatMillions(r.District.Budget)
			d.BudgetValue = r.District.Budget
			d.APLAlignment = string(r.District.APLAlignment)
			d.ProjectActivity = r.District.ProjectActivity
			d.InternalSupport = r.District.InternalSupport
		} else {
			d.AnnualBudget = FormatMillions(0)
		}
		if r.Score != nil {
			d.Scored = true
			d.ScoreValue = *r.Score
			d.Score = strconv.FormatFloat(*r.Score, 'f', -1, 64)
			d.Tier = tier.FromScore(*r.Score)
			if r.Tier != nil && tier.Valid(*r.Tier) {
				d.Tier = *r.Tier
			}
		}
		d.TierColor = tier.Color(d.Tier)
		out[i] = d
	}
	return out
}

// FormatMillions renders whole dollars as "$X.YM".
func FormatMillions(dollars int64) string {
	return fmt.Sprintf("$%.1fM", float64(dollars)/1_000_000)
}
