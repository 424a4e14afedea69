package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/water-intel/internal/model"
	"github.com/sells-group/water-intel/internal/ocr"
	"github.com/sells-group/water-intel/internal/store"
)

type staticExtractor struct {
	text string
	err  error
}

func (s staticExtractor) ExtractText(context.Context, string) (string, error) {
	return s.text, s.err
}

var _ ocr.Extractor = staticExtractor{}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func writeHierarchy(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hierarchy.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleHierarchy), 0o644))
	return path
}

func TestImporter_Run(t *testing.T) {
	st := newTestStore(t)
	im := New(st, staticExtractor{text: sampleReport})
	src := Sources{ReportPath: "report.pdf", HierarchyPath: writeHierarchy(t)}

	sum, err := im.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, &Summary{
		ReportDistricts:  3,
		Counties:         2,
		MatchedDistricts: 3,
		NewDistricts:     0,
		Cities:           4,
	}, sum)

	cities, err := st.LoadCities(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 4)

	byName := map[string]model.CityRecord{}
	for _, c := range cities {
		byName[c.Name] = c
	}
	arlington := byName["Arlington"]
	assert.Equal(t, "Tarrant", arlington.CountyName)
	assert.Equal(t, model.APLStatusNotSubmitted, arlington.APLStatus)
	assert.Equal(t, "Water & Sewer", arlington.ServiceType)
	require.NotNil(t, arlington.District)
	assert.Equal(t, "TRA", arlington.District.Name)
	assert.Equal(t, int64(1_200_000_000), arlington.District.Budget)

	assert.Equal(t, "NTMWD", byName["Plano"].DistrictName())

	counties, err := st.ListCounties(context.Background())
	require.NoError(t, err)
	require.Len(t, counties, 2)
	for _, c := range counties {
		assert.Equal(t, CountyColor(c.Name), c.ColorCode)
	}
}

func TestImporter_RunTwiceIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	im := New(st, staticExtractor{text: sampleReport})
	src := Sources{ReportPath: "report.txt", HierarchyPath: writeHierarchy(t)}

	_, err := im.Run(context.Background(), src)
	require.NoError(t, err)
	_, err = im.Run(context.Background(), src)
	require.NoError(t, err)

	tables, err := store.LoadTables(context.Background(), st)
	require.NoError(t, err)
	assert.Len(t, tables.Cities, 4)
	assert.Len(t, tables.Districts, 3)
	assert.Len(t, tables.Counties, 2)
}

func TestImporter_HierarchyOnly(t *testing.T) {
	st := newTestStore(t)
	im := New(st, staticExtractor{err: errors.New("must not be called")})

	sum, err := im.Run(context.Background(), Sources{HierarchyPath: writeHierarchy(t)})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.ReportDistricts)
	assert.Equal(t, 3, sum.NewDistricts)

	districts, err := st.ListDistricts(context.Background())
	require.NoError(t, err)
	require.Len(t, districts, 3)
	for _, d := range districts {
		assert.NotZero(t, d.CountyID)
		assert.Zero(t, d.Budget)
	}
}

func TestImporter_ExtractError(t *testing.T) {
	st := newTestStore(t)
	im := New(st, staticExtractor{err: errors.New("pdftotext missing")})

	_, err := im.Run(context.Background(), Sources{ReportPath: "report.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "importer: extract report")
}

func TestImporter_MissingHierarchy(t *testing.T) {
	st := newTestStore(t)
	im := New(st, staticExtractor{})

	_, err := im.Run(context.Background(), Sources{HierarchyPath: "/nonexistent/hierarchy.md"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "importer: read hierarchy")
}

func TestMatchReportDistrict(t *testing.T) {
	report := []model.WaterDistrict{
		{Name: "Trinity", Budget: 1},
		{Name: "Upper Trinity", Budget: 2},
		{Name: ""},
	}

	got, ok := MatchReportDistrict("Upper Trinity Regional Water District", report)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Budget)

	got, ok = MatchReportDistrict("Trinity River Authority", report)
	require.True(t, ok)
	assert.Equal(t, int64(1), got.Budget)

	_, ok = MatchReportDistrict("Dallas Water Utilities", report)
	assert.False(t, ok)
}
