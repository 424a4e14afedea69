package model

// Criterion names used in score breakdowns.
const (
	CriterionBudget          = "budget"
	CriterionCitiesServed    = "cities_served"
	CriterionAPLAlignment    = "apl_alignment"
	CriterionProjectActivity = "project_activity"
	CriterionInternalSupport = "internal_support"
)

// Criteria lists the scoring criteria in rubric order.
var Criteria = []string{
	CriterionBudget,
	CriterionCitiesServed,
	CriterionAPLAlignment,
	CriterionProjectActivity,
	CriterionInternalSupport,
}

// ScoreResult is the derived ranking for one district. It is recomputed on
// every render and never persisted.
type ScoreResult struct {
	Score     float64            `json:"score"`
	Tier      int                `json:"tier"`
	Breakdown map[string]float64 `json:"breakdown"`
}
