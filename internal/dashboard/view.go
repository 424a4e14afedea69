package dashboard

import (
	"time"

	"github.com/sells-group/water-intel/internal/auth"
	"github.com/sells-group/water-intel/internal/graph"
	"github.com/sells-group/water-intel/internal/rank"
)

// View is everything one dashboard page shows.
type View struct {
	User        string    `json:"user"`
	Page        auth.Page `json:"page"`
	GeneratedAt time.Time `json:"generated_at"`

	Degraded bool   `json:"degraded"`
	Notice   string `json:"notice,omitempty"`

	Selection SelectionView     `json:"selection"`
	Filters   FilterOptions     `json:"filters"`
	Summary   Summary           `json:"summary"`
	Rows      []rank.DisplayRow `json:"rows"`
	Rankings  []DistrictRanking `json:"rankings"`
	Charts    Charts            `json:"charts"`
	Failures  []FailureView     `json:"failures"`

	graphInput graph.Input
}

// Relationships lays out the filtered cities against the full district and
// county tables.
func (v *View) Relationships(layout graph.Layout) *graph.Graph {
	return graph.Build(v.graphInput, layout)
}

// Summary holds the four headline metrics.
type Summary struct {
	TotalCities    int     `json:"total_cities"`
	AvgBudget      string  `json:"avg_annual_budget"`
	AvgBudgetValue float64 `json:"avg_annual_budget_value"`
	APLApproved    int     `json:"apl_approved"`
	ActiveProjects int     `json:"active_projects"`
}

// SelectionView echoes the applied filters. Wildcards show as ["All"].
type SelectionView struct {
	Counties          []string `json:"counties"`
	Districts         []string `json:"districts"`
	APLStatuses       []string `json:"apl_statuses"`
	MinBudgetMillions int64    `json:"min_budget_millions"`
}

// FilterOptions lists the choices offered by each filter control.
type FilterOptions struct {
	Counties    []string     `json:"counties"`
	Districts   []string     `json:"districts"`
	APLStatuses []string     `json:"apl_statuses"`
	MinBudget   BudgetSlider `json:"min_budget"`
}

// BudgetSlider describes the minimum-budget control, in millions.
type BudgetSlider struct {
	Min   int64 `json:"min"`
	Max   int64 `json:"max"`
	Step  int64 `json:"step"`
	Value int64 `json:"value"`
}

// Slider bounds in millions of dollars.
const (
	SliderMin  = 0
	SliderMax  = 5000
	SliderStep = 10
)

// DistrictRanking is one row of the district rankings table.
type DistrictRanking struct {
	Rank            int                `json:"rank"`
	Name            string             `json:"name"`
	County          string             `json:"county"`
	Budget          string             `json:"budget"`
	BudgetValue     int64              `json:"budget_value"`
	CitiesServed    int                `json:"cities_served"`
	APLAlignment    string             `json:"apl_alignment"`
	ProjectActivity int                `json:"project_activity"`
	InternalSupport string             `json:"internal_support"`
	Score           *float64           `json:"score"`
	Tier            *int               `json:"tier"`
	TierColor       string             `json:"tier_color"`
	Breakdown       map[string]float64 `json:"breakdown,omitempty"`
}

// Charts holds the series for the three analytics charts.
type Charts struct {
	BudgetBars []BudgetBar    `json:"budget_bars"`
	APLPie     []PieSlice     `json:"apl_pie"`
	Scatter    []ScatterPoint `json:"budget_vs_score"`
}

// BudgetBar is one district's annual budget, coloured by APL alignment.
type BudgetBar struct {
	District       string  `json:"district"`
	Budget         int64   `json:"budget"`
	BudgetMillions float64 `json:"budget_millions"`
	Alignment      string  `json:"apl_alignment"`
	Color          string  `json:"color"`
}

// PieSlice counts filtered cities with one APL status.
type PieSlice struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
}

// ScatterPoint plots one scored city row's district budget against its score.
type ScatterPoint struct {
	City      string  `json:"city"`
	District  string  `json:"district"`
	Budget    int64   `json:"budget"`
	Score     float64 `json:"score"`
	Tier      int     `json:"tier"`
	Color     string  `json:"color"`
	Alignment string  `json:"apl_alignment"`
}

// FailureView reports a district that could not be scored this render.
type FailureView struct {
	District  string `json:"district"`
	Reason    string `json:"reason"`
	Transient bool   `json:"transient"`
}
