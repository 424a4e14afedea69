package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/water-intel/internal/model"
)

const sampleReport = `North Texas Water District Ranking Data

Water District: TRA
Trinity River Authority
Annual Budget: $1.2B
Cities Served: 40
APL/Spec Alignment: Strong
Active Projects: 12
Internal Support: Yes, champion in engineering

Water District: NTMWD
Budget $350M
- City: Plano
- City: Frisco
- City: McKinney
APL/Spec Alignment - moderate

Water District: UTRWD
Capital plan $40
`

func TestParseReport(t *testing.T) {
	got := ParseReport(sampleReport)
	require.Len(t, got, 3)

	assert.Equal(t, model.WaterDistrict{
		Name:            "TRA",
		Budget:          1_200_000_000,
		CitiesServed:    40,
		APLAlignment:    model.APLStrong,
		ProjectActivity: 12,
		InternalSupport: "Yes, champion in engineering",
	}, got[0])

	assert.Equal(t, "NTMWD", got[1].Name)
	assert.Equal(t, int64(350_000_000), got[1].Budget)
	assert.Equal(t, 3, got[1].CitiesServed, "falls back to counting city lines")
	assert.Equal(t, model.APLModerate, got[1].APLAlignment)

	assert.Equal(t, "UTRWD", got[2].Name)
	assert.Equal(t, int64(40_000_000), got[2].Budget)
	assert.Equal(t, model.APLUnknown, got[2].APLAlignment)
	assert.Zero(t, got[2].CitiesServed)
}

func TestParseReport_NoSections(t *testing.T) {
	assert.Nil(t, ParseReport("nothing to see here"))
	assert.Empty(t, ParseReport("Water District:\n\n"))
}

func TestParseBudget(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "$1.2B", want: 1_200_000_000},
		{in: "350M", want: 350_000_000},
		{in: "$ 40", want: 40_000_000},
		{in: "1,250M", want: 1_250_000_000},
		{in: "500K", want: 500_000},
		{in: "0.5", want: 500_000},
		{in: "", wantErr: true},
		{in: "$B", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBudget(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
