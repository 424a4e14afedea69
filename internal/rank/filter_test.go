package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/water-intel/internal/model"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		wantAll bool
		values  []string
	}{
		{"nil", nil, true, nil},
		{"empty strings", []string{"", " "}, true, nil},
		{"all only", []string{"All"}, true, nil},
		{"all mixed in", []string{"Collin", "All"}, true, nil},
		{"literals", []string{"Dallas", "Collin"}, false, []string{"Collin", "Dallas"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseChoice(tt.in)
			assert.Equal(t, tt.wantAll, c.IsAll())
			assert.Equal(t, tt.values, c.Values())
		})
	}
}

func TestChoice_Accepts(t *testing.T) {
	assert.True(t, Any().Accepts(""))
	assert.True(t, Any().Accepts("Collin"))

	c := OneOf("Collin")
	assert.True(t, c.Accepts("Collin"))
	assert.False(t, c.Accepts("Dallas"))
	assert.False(t, c.Accepts(""), "missing values fail literal choices")

	assert.False(t, OneOf().Accepts("Collin"), "an empty set accepts nothing")
}

func TestApplyFilters_AllWildcardsReturnsEverything(t *testing.T) {
	cities := sampleCities()
	got := ApplyFilters(cities, AllSelection())
	assert.Equal(t, names(cities), names(got))
}

func TestApplyFilters_Conjunctive(t *testing.T) {
	sel := AllSelection()
	sel.Counties = OneOf("Collin", "Tarrant")
	sel.APLStatuses = OneOf(string(model.APLStatusApproved), string(model.APLStatusVerified))

	got := ApplyFilters(sampleCities(), sel)
	assert.Equal(t, []string{"Arlington", "Plano"}, names(got))
}

func TestApplyFilters_District(t *testing.T) {
	sel := AllSelection()
	sel.Districts = OneOf("Trinity River Authority")

	got := ApplyFilters(sampleCities(), sel)
	assert.Equal(t, []string{"Arlington", "Ennis"}, names(got))
}

func TestApplyFilters_MissingJoinsFailLiteralChoices(t *testing.T) {
	sel := AllSelection()
	sel.APLStatuses = OneOf(string(model.APLStatusApproved))
	assert.Equal(t, []string{"Arlington", "Orphan"}, names(ApplyFilters(sampleCities(), sel)))

	sel.Counties = OneOf("Tarrant", "Collin")
	assert.Equal(t, []string{"Arlington"}, names(ApplyFilters(sampleCities(), sel)))
}

func TestApplyFilters_BudgetScaling(t *testing.T) {
	tests := []struct {
		millions int64
		want     []string
	}{
		{0, []string{"Arlington", "Plano", "Frisco", "Decatur", "Orphan", "Ennis"}},
		{40, []string{"Arlington", "Plano", "Frisco", "Decatur", "Ennis"}},
		{41, []string{"Arlington", "Plano", "Frisco", "Ennis"}},
		{1200, []string{"Arlington", "Plano", "Frisco", "Ennis"}},
		{1201, []string{"Arlington", "Ennis"}},
		{5000, []string{}},
	}
	for _, tt := range tests {
		sel := AllSelection()
		sel.MinBudgetMillions = tt.millions
		got := ApplyFilters(sampleCities(), sel)
		assert.Equal(t, tt.want, names(got), "min budget %dM", tt.millions)
		for _, c := range got {
			if c.District != nil {
				assert.GreaterOrEqual(t, c.District.Budget, tt.millions*1_000_000)
			}
		}
	}
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	cities := sampleCities()
	before := names(cities)
	sel := AllSelection()
	sel.Counties = OneOf("Wise")
	_ = ApplyFilters(cities, sel)
	assert.Equal(t, before, names(cities))
}

func TestSelection_MinBudget(t *testing.T) {
	assert.Equal(t, int64(250_000_000), Selection{MinBudgetMillions: 250}.MinBudget())
}
