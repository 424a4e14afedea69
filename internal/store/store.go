// Package store persists counties, water districts and cities. The dashboard
// only reads; the import command writes with upsert-by-name so re-running an
// import never duplicates rows.
package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/water-intel/internal/model"
)

// Store defines the persistence interface for the ranking dataset.
type Store interface {
	// Reads
	LoadCities(ctx context.Context) ([]model.CityRecord, error)
	ListDistricts(ctx context.Context) ([]model.WaterDistrict, error)
	ListCounties(ctx context.Context) ([]model.County, error)

	// Import writes, keyed by name. Each returns the row id.
	UpsertCounty(ctx context.Context, c model.County) (int64, error)
	UpsertDistrict(ctx context.Context, d model.WaterDistrict) (int64, error)
	UpsertCity(ctx context.Context, c model.City) (int64, error)

	// UpsertDistricts writes report districts in one batch. County links are
	// left untouched on existing rows.
	UpsertDistricts(ctx context.Context, ds []model.WaterDistrict) (int64, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// LoadTables reads the full dataset behind one dashboard render.
func LoadTables(ctx context.Context, s Store) (*model.Tables, error) {
	cities, err := s.LoadCities(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "store: load cities")
	}
	districts, err := s.ListDistricts(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "store: list districts")
	}
	counties, err := s.ListCounties(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "store: list counties")
	}
	return &model.Tables{Cities: cities, Districts: districts, Counties: counties}, nil
}

const loadCitiesSQL = `SELECT c.id, c.name, c.county_id, c.district_id, c.apl_status, c.cip_budget, c.sewer_budget, c.service_type,
	co.name,
	d.id, d.name, d.county_id, d.budget, d.cities_served, d.apl_alignment, d.project_activity, d.internal_support
FROM cities c
LEFT JOIN counties co ON co.id = c.county_id
LEFT JOIN water_districts d ON d.id = c.district_id
ORDER BY c.name, c.id`

const listDistrictsSQL = `SELECT id, name, county_id, budget, cities_served, apl_alignment, project_activity, internal_support
FROM water_districts ORDER BY name, id`

const listCountiesSQL = `SELECT id, name, color_code FROM counties ORDER BY name, id`

type scannable interface {
	Scan(dest ...any) error
}

// scanCityRecord scans one loadCitiesSQL row. Both joins are LEFT so every
// joined column may be NULL.
func scanCityRecord(row scannable) (model.CityRecord, error) {
	var (
		r          model.CityRecord
		countyID   sql.NullInt64
		districtID sql.NullInt64
		aplStatus  sql.NullString
		cip        sql.NullInt64
		sewer      sql.NullInt64
		service    sql.NullString
		countyName sql.NullString

		dID        sql.NullInt64
		dName      sql.NullString
		dCountyID  sql.NullInt64
		dBudget    sql.NullInt64
		dServed    sql.NullInt64
		dAlignment sql.NullString
		dProjects  sql.NullInt64
		dSupport   sql.NullString
	)
	err := row.Scan(
		&r.ID, &r.Name, &countyID, &districtID, &aplStatus, &cip, &sewer, &service,
		&countyName,
		&dID, &dName, &dCountyID, &dBudget, &dServed, &dAlignment, &dProjects, &dSupport,
	)
	if err != nil {
		return model.CityRecord{}, err
	}

	r.CountyID = countyID.Int64
	r.DistrictID = districtID.Int64
	r.APLStatus = model.APLStatus(aplStatus.String)
	r.CIPBudget = cip.Int64
	r.SewerBudget = sewer.Int64
	r.ServiceType = service.String
	r.CountyName = countyName.String

	if dID.Valid {
		r.District = &model.WaterDistrict{
			ID:              dID.Int64,
			Name:            dName.String,
			CountyID:        dCountyID.Int64,
			Budget:          dBudget.Int64,
			CitiesServed:    int(dServed.Int64),
			APLAlignment:    model.ParseAPLAlignment(dAlignment.String),
			ProjectActivity: int(dProjects.Int64),
			InternalSupport: dSupport.String,
		}
	}
	return r, nil
}

func scanDistrict(row scannable) (model.WaterDistrict, error) {
	var (
		d         model.WaterDistrict
		countyID  sql.NullInt64
		alignment sql.NullString
		support   sql.NullString
	)
	err := row.Scan(&d.ID, &d.Name, &countyID, &d.Budget, &d.CitiesServed, &alignment, &d.ProjectActivity, &support)
	if err != nil {
		return model.WaterDistrict{}, err
	}
	d.CountyID = countyID.Int64
	d.APLAlignment = model.ParseAPLAlignment(alignment.String)
	d.InternalSupport = support.String
	return d, nil
}

func scanCounty(row scannable) (model.County, error) {
	var c model.County
	if err := row.Scan(&c.ID, &c.Name, &c.ColorCode); err != nil {
		return model.County{}, err
	}
	return c, nil
}

// nullID maps the zero id to SQL NULL for optional foreign keys.
func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

func validateName(entity, name string) error {
	if strings.TrimSpace(name) == "" {
		return eris.Errorf("store: %s name is required", entity)
	}
	return nil
}
