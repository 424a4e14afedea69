package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/water-intel/internal/db"
	"github.com/sells-group/water-intel/internal/model"
)

// PostgresStore implements Store using pgxpool. It targets both plain
// Postgres and Supabase.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS counties (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	color_code TEXT NOT NULL DEFAULT '#CCCCCC'
);

CREATE TABLE IF NOT EXISTS water_districts (
	id               BIGSERIAL PRIMARY KEY,
	name             TEXT NOT NULL UNIQUE,
	county_id        BIGINT REFERENCES counties(id),
	budget           BIGINT NOT NULL DEFAULT 0,
	cities_served    INTEGER NOT NULL DEFAULT 0,
	apl_alignment    TEXT NOT NULL DEFAULT 'UNKNOWN',
	project_activity INTEGER NOT NULL DEFAULT 0,
	internal_support TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS cities (
	id           BIGSERIAL PRIMARY KEY,
	name         TEXT NOT NULL UNIQUE,
	county_id    BIGINT REFERENCES counties(id),
	district_id  BIGINT REFERENCES water_districts(id),
	apl_status   TEXT NOT NULL DEFAULT 'Not Submitted',
	cip_budget   BIGINT NOT NULL DEFAULT 0,
	sewer_budget BIGINT NOT NULL DEFAULT 0,
	service_type TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_water_districts_county ON water_districts(county_id);
CREATE INDEX IF NOT EXISTS idx_cities_county ON cities(county_id);
CREATE INDEX IF NOT EXISTS idx_cities_district ON cities(district_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) LoadCities(ctx context.Context) ([]model.CityRecord, error) {
	rows, err := s.pool.Query(ctx, loadCitiesSQL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load cities")
	}
	defer rows.Close()

	var out []model.CityRecord
	for rows.Next() {
		r, err := scanCityRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan city")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate cities")
}

func (s *PostgresStore) ListDistricts(ctx context.Context) ([]model.WaterDistrict, error) {
	rows, err := s.pool.Query(ctx, listDistrictsSQL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list districts")
	}
	defer rows.Close()

	var out []model.WaterDistrict
	for rows.Next() {
		d, err := scanDistrict(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan district")
		}
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate districts")
}

func (s *PostgresStore) ListCounties(ctx context.Context) ([]model.County, error) {
	rows, err := s.pool.Query(ctx, listCountiesSQL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list counties")
	}
	defer rows.Close()

	var out []model.County
	for rows.Next() {
		c, err := scanCounty(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan county")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate counties")
}

func (s *PostgresStore) UpsertCounty(ctx context.Context, c model.County) (int64, error) {
	if err := validateName("county", c.Name); err != nil {
		return 0, err
	}
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO counties (name, color_code) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET color_code = EXCLUDED.color_code
		RETURNING id`,
		c.Name, c.ColorCode,
	).Scan(&id)
	return id, eris.Wrapf(err, "postgres: upsert county %s", c.Name)
}

func (s *PostgresStore) UpsertDistrict(ctx context.Context, d model.WaterDistrict) (int64, error) {
	if err := validateName("district", d.Name); err != nil {
		return 0, err
	}
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO water_districts (name, county_id, budget, cities_served, apl_alignment, project_activity, internal_support)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			county_id = COALESCE(EXCLUDED.county_id, water_districts.county_id),
			budget = EXCLUDED.budget,
			cities_served = EXCLUDED.cities_served,
			apl_alignment = EXCLUDED.apl_alignment,
			project_activity = EXCLUDED.project_activity,
			internal_support = EXCLUDED.internal_support
		RETURNING id`,
		d.Name, nullID(d.CountyID), d.Budget, d.CitiesServed, string(model.ParseAPLAlignment(string(d.APLAlignment))), d.ProjectActivity, d.InternalSupport,
	).Scan(&id)
	return id, eris.Wrapf(err, "postgres: upsert district %s", d.Name)
}

func (s *PostgresStore) UpsertCity(ctx context.Context, c model.City) (int64, error) {
	if err := validateName("city", c.Name); err != nil {
		return 0, err
	}
	status := c.APLStatus
	if status == "" {
		status = model.APLStatusNotSubmitted
	}
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cities (name, county_id, district_id, apl_status, cip_budget, sewer_budget, service_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			county_id = EXCLUDED.county_id,
			district_id = EXCLUDED.district_id,
			apl_status = EXCLUDED.apl_status,
			cip_budget = EXCLUDED.cip_budget,
			sewer_budget = EXCLUDED.sewer_budget,
			service_type = EXCLUDED.service_type
		RETURNING id`,
		c.Name, nullID(c.CountyID), nullID(c.DistrictID), string(status), c.CIPBudget, c.SewerBudget, c.ServiceType,
	).Scan(&id)
	return id, eris.Wrapf(err, "postgres: upsert city %s", c.Name)
}

// districtColumns are the report-owned columns written by UpsertDistricts.
var districtColumns = []string{"name", "budget", "cities_served", "apl_alignment", "project_activity", "internal_support"}

func (s *PostgresStore) UpsertDistricts(ctx context.Context, ds []model.WaterDistrict) (int64, error) {
	rows := make([][]any, 0, len(ds))
	for _, d := range ds {
		if err := validateName("district", d.Name); err != nil {
			return 0, err
		}
		rows = append(rows, []any{
			d.Name, d.Budget, d.CitiesServed,
			string(model.ParseAPLAlignment(string(d.APLAlignment))),
			d.ProjectActivity, d.InternalSupport,
		})
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "water_districts",
		Columns:      districtColumns,
		ConflictKeys: []string{"name"},
	}, rows)
	return n, eris.Wrap(err, "postgres: upsert districts")
}
