package dashboard

import (
	"context"
	"errors"

	"github.com/sells-group/water-intel/internal/model"
	"github.com/sells-group/water-intel/internal/scorer"
)

// memStore serves fixed tables, or fails every read when err is set.
type memStore struct {
	tables model.Tables
	err    error
}

func (m *memStore) LoadCities(context.Context) ([]model.CityRecord, error) {
	return m.tables.Cities, m.err
}

func (m *memStore) ListDistricts(context.Context) ([]model.WaterDistrict, error) {
	return m.tables.Districts, m.err
}

func (m *memStore) ListCounties(context.Context) ([]model.County, error) {
	return m.tables.Counties, m.err
}

func (m *memStore) UpsertCounty(context.Context, model.County) (int64, error) {
	return 0, errors.New("read-only")
}

func (m *memStore) UpsertDistrict(context.Context, model.WaterDistrict) (int64, error) {
	return 0, errors.New("read-only")
}

func (m *memStore) UpsertCity(context.Context, model.City) (int64, error) {
	return 0, errors.New("read-only")
}

func (m *memStore) UpsertDistricts(context.Context, []model.WaterDistrict) (int64, error) {
	return 0, errors.New("read-only")
}

func (m *memStore) Ping(context.Context) error    { return m.err }
func (m *memStore) Migrate(context.Context) error { return nil }
func (m *memStore) Close() error                  { return nil }

// fixedScorer returns canned results and failures.
type fixedScorer struct {
	results  map[string]model.ScoreResult
	failures []*scorer.Failure
	calls    int
}

func (f *fixedScorer) ScoreAll(_ context.Context, _ []model.WaterDistrict) *scorer.Batch {
	f.calls++
	return &scorer.Batch{Results: f.results, Failures: f.failures}
}

var (
	tra = model.WaterDistrict{
		ID: 1, Name: "TRA", CountyID: 1, Budget: 4_000_000_000, CitiesServed: 40,
		APLAlignment: model.APLStrong, ProjectActivity: 12, InternalSupport: "yes",
	}
	ntmwd = model.WaterDistrict{
		ID: 2, Name: "NTMWD", CountyID: 2, Budget: 2_000_000_000, CitiesServed: 25,
		APLAlignment: model.APLModerate, ProjectActivity: 8, InternalSupport: "no",
	}
	small = model.WaterDistrict{
		ID: 3, Name: "Small", Budget: 30_000_000, CitiesServed: 2,
		APLAlignment: model.APLUnknown, ProjectActivity: 1,
	}
)

func fixtureTables() model.Tables {
	city := func(id int64, name, county string, d *model.WaterDistrict, status model.APLStatus) model.CityRecord {
		return model.CityRecord{
			City:       model.City{ID: id, Name: name, APLStatus: status, CIPBudget: 10_000_000},
			CountyName: county,
			District:   d,
		}
	}
	return model.Tables{
		Counties: []model.County{
			{ID: 1, Name: "Tarrant", ColorCode: "#96CEB4"},
			{ID: 2, Name: "Collin", ColorCode: "#FF6B6B"},
		},
		Districts: []model.WaterDistrict{tra, ntmwd, small},
		Cities: []model.CityRecord{
			city(1, "Arlington", "Tarrant", &tra, model.APLStatusApproved),
			city(2, "Plano", "Collin", &ntmwd, model.APLStatusApproved),
			city(3, "Frisco", "Collin", &ntmwd, model.APLStatusPending),
			city(4, "Tiny", "Collin", &small, model.APLStatusNotSubmitted),
		},
	}
}

func fixtureScores() map[string]model.ScoreResult {
	return map[string]model.ScoreResult{
		"TRA":   {Score: 92, Tier: 1, Breakdown: map[string]float64{"budget": 30}},
		"NTMWD": {Score: 74.5, Tier: 2},
	}
}
