// Package rank filters city rows, joins district scores onto them and
// orders the result for display.
package rank

import (
	"slices"
	"strings"

	"github.com/sells-group/water-intel/internal/model"
)

// All is the wildcard literal used by the dashboard filters.
const All = "All"

// Choice is either a wildcard or a finite set of literal values.
type Choice struct {
	values map[string]struct{}
}

// Any returns the wildcard choice.
func Any() Choice { return Choice{} }

// OneOf returns a choice that accepts exactly the given values. With no
// values it accepts nothing.
func OneOf(values ...string) Choice {
	c := Choice{values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		c.values[v] = struct{}{}
	}
	return c
}

// ParseChoice reads a UI selection list. An empty list, or any list that
// contains "All", is the wildcard.
func ParseChoice(values []string) Choice {
	var kept []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if v == All {
			return Any()
		}
		kept = append(kept, v)
	}
	if len(kept) == 0 {
		return Any()
	}
	return OneOf(kept...)
}

// IsAll reports whether c is the wildcard.
func (c Choice) IsAll() bool { return c.values == nil }

// Accepts reports whether v passes the choice. The empty string stands for
// a missing joined value and fails every non-wildcard choice.
func (c Choice) Accepts(v string) bool {
	if c.IsAll() {
		return true
	}
	if v == "" {
		return false
	}
	_, ok := c.values[v]
	return ok
}

// Values returns the selected literals in sorted order, or nil for the wildcard.
func (c Choice) Values() []string {
	if c.IsAll() {
		return nil
	}
	out := make([]string, 0, len(c.values))
	for v := range c.values {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Selection is the full set of dashboard filters.
type Selection struct {
	Counties          Choice
	Districts         Choice
	APLStatuses       Choice
	MinBudgetMillions int64
}

// AllSelection matches every city.
func AllSelection() Selection {
	return Selection{Counties: Any(), Districts: Any(), APLStatuses: Any()}
}

// MinBudget returns the threshold in whole dollars.
func (s Selection) MinBudget() int64 {
	return s.MinBudgetMillions * 1_000_000
}

// Match reports whether one city passes every predicate.
func (s Selection) Match(c model.CityRecord) bool {
	if !s.Counties.Accepts(c.CountyName) {
		return false
	}
	if !s.Districts.Accepts(c.DistrictName()) {
		return false
	}
	if !s.APLStatuses.Accepts(string(c.APLStatus)) {
		return false
	}
	if c.District == nil {
		return s.MinBudget() <= 0
	}
	return c.District.Budget >= s.MinBudget()
}

// ApplyFilters returns the cities that pass every predicate, in input order.
// The input slice is not modified.
func ApplyFilters(cities []model.CityRecord, sel Selection) []model.CityRecord {
	out := make([]model.CityRecord, 0, len(cities))
	for _, c := range cities {
		if sel.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
