package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHierarchy = `# North Texas Water Systems

- City: Stray (Water)

## **County: Tarrant**

**Water District: Trinity River Authority (TRA)**
- City: Arlington (Water & Sewer)
- City: Mansfield

## **County: Collin**

**Water District: North Texas Municipal Water District (NTMWD)**

- City: Plano (Water)
- City: Frisco (Wholesale)

**Water District: Upper Trinity Regional Water District (UTRWD)**
`

func TestParseHierarchy(t *testing.T) {
	got := ParseHierarchy([]byte(sampleHierarchy))
	require.Len(t, got, 2)

	tarrant := got[0]
	assert.Equal(t, "Tarrant", tarrant.Name)
	require.Len(t, tarrant.Districts, 1)
	assert.Equal(t, "Trinity River Authority (TRA)", tarrant.Districts[0].Name)
	assert.Equal(t, []CityEntry{
		{Name: "Arlington", ServiceType: "Water & Sewer"},
		{Name: "Mansfield"},
	}, tarrant.Districts[0].Cities)

	collin := got[1]
	assert.Equal(t, "Collin", collin.Name)
	require.Len(t, collin.Districts, 2)
	assert.Equal(t, "North Texas Municipal Water District (NTMWD)", collin.Districts[0].Name)
	assert.Len(t, collin.Districts[0].Cities, 2)
	assert.Empty(t, collin.Districts[1].Cities)
}

func TestParseHierarchy_DistrictBeforeCounty(t *testing.T) {
	got := ParseHierarchy([]byte("**Water District: Lost**\n\n- City: Nowhere\n"))
	assert.Empty(t, got)
}

func TestCountyColor(t *testing.T) {
	assert.Equal(t, "#96CEB4", CountyColor("Tarrant"))
	assert.Equal(t, "#C44569", CountyColor("Wise"))
	assert.Equal(t, DefaultCountyColor, CountyColor("Harris"))
}
