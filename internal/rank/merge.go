package rank

import (
	"maps"
	"sort"

	"github.com/sells-group/water-intel/internal/model"
)

// Row is a city with its district's score joined on. Score and Tier are nil
// when the district has no score.
type Row struct {
	model.CityRecord
	Score     *float64
	Tier      *int
	Breakdown map[string]float64
}

// Scored reports whether the row carries a score.
func (r Row) Scored() bool { return r.Score != nil }

// Merge left-joins scores onto cities by exact district name. It returns new
// rows and never modifies its inputs.
func Merge(cities []model.CityRecord, scores map[string]model.ScoreResult) []Row {
	rows := make([]Row, len(cities))
	for i, c := range cities {
		rows[i] = Row{CityRecord: c}
		if c.District == nil {
			continue
		}
		res, ok := scores[c.District.Name]
		if !ok {
			continue
		}
		score, t := res.Score, res.Tier
		rows[i].Score = &score
		rows[i].Tier = &t
		rows[i].Breakdown = maps.Clone(res.Breakdown)
	}
	return rows
}

// SortByScore orders rows by descending score in place. Equal scores keep
// their input order and unscored rows go last.
func SortByScore(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Score, rows[j].Score
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}

// Rank filters, merges and sorts in one step.
func Rank(cities []model.CityRecord, scores map[string]model.ScoreResult, sel Selection) []Row {
	rows := Merge(ApplyFilters(cities, sel), scores)
	SortByScore(rows)
	return rows
}
