package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/water-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It backs local runs
// and demos where no Postgres is available.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// :memory: databases are per-connection.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS counties (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	color_code TEXT NOT NULL DEFAULT '#CCCCCC'
);

CREATE TABLE IF NOT EXISTS water_districts (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT NOT NULL UNIQUE,
	county_id        INTEGER REFERENCES counties(id),
	budget           INTEGER NOT NULL DEFAULT 0,
	cities_served    INTEGER NOT NULL DEFAULT 0,
	apl_alignment    TEXT NOT NULL DEFAULT 'UNKNOWN',
	project_activity INTEGER NOT NULL DEFAULT 0,
	internal_support TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS cities (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL UNIQUE,
	county_id    INTEGER REFERENCES counties(id),
	district_id  INTEGER REFERENCES water_districts(id),
	apl_status   TEXT NOT NULL DEFAULT 'Not Submitted',
	cip_budget   INTEGER NOT NULL DEFAULT 0,
	sewer_budget INTEGER NOT NULL DEFAULT 0,
	service_type TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_water_districts_county ON water_districts(county_id);
CREATE INDEX IF NOT EXISTS idx_cities_county ON cities(county_id);
CREATE INDEX IF NOT EXISTS idx_cities_district ON cities(district_id);
`

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadCities(ctx context.Context) ([]model.CityRecord, error) {
	rows, err := s.db.QueryContext(ctx, loadCitiesSQL)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load cities")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.CityRecord
	for rows.Next() {
		r, err := scanCityRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan city")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate cities")
}

func (s *SQLiteStore) ListDistricts(ctx context.Context) ([]model.WaterDistrict, error) {
	rows, err := s.db.QueryContext(ctx, listDistrictsSQL)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list districts")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.WaterDistrict
	for rows.Next() {
		d, err := scanDistrict(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan district")
		}
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate districts")
}

func (s *SQLiteStore) ListCounties(ctx context.Context) ([]model.County, error) {
	rows, err := s.db.QueryContext(ctx, listCountiesSQL)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list counties")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.County
	for rows.Next() {
		c, err := scanCounty(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan county")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate counties")
}

func (s *SQLiteStore) UpsertCounty(ctx context.Context, c model.County) (int64, error) {
	if err := validateName("county", c.Name); err != nil {
		return 0, err
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO counties (name, color_code) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET color_code = excluded.color_code
		RETURNING id`,
		c.Name, c.ColorCode,
	).Scan(&id)
	return id, eris.Wrapf(err, "sqlite: upsert county %s", c.Name)
}

const sqliteUpsertDistrict = `INSERT INTO water_districts (name, county_id, budget, cities_served, apl_alignment, project_activity, internal_support)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
	county_id = COALESCE(excluded.county_id, water_districts.county_id),
	budget = excluded.budget,
	cities_served = excluded.cities_served,
	apl_alignment = excluded.apl_alignment,
	project_activity = excluded.project_activity,
	internal_support = excluded.internal_support
RETURNING id`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func upsertDistrictSQLite(ctx context.Context, q queryRower, d model.WaterDistrict) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, sqliteUpsertDistrict,
		d.Name, nullID(d.CountyID), d.Budget, d.CitiesServed,
		string(model.ParseAPLAlignment(string(d.APLAlignment))),
		d.ProjectActivity, d.InternalSupport,
	).Scan(&id)
	return id, err
}

func (s *SQLiteStore) UpsertDistrict(ctx context.Context, d model.WaterDistrict) (int64, error) {
	if err := validateName("district", d.Name); err != nil {
		return 0, err
	}
	id, err := upsertDistrictSQLite(ctx, s.db, d)
	return id, eris.Wrapf(err, "sqlite: upsert district %s", d.Name)
}

func (s *SQLiteStore) UpsertDistricts(ctx context.Context, ds []model.WaterDistrict) (int64, error) {
	if len(ds) == 0 {
		return 0, nil
	}
	for _, d := range ds {
		if err := validateName("district", d.Name); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert districts: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, d := range ds {
		// Report rows never carry a county; keep whatever link exists.
		d.CountyID = 0
		if _, err := upsertDistrictSQLite(ctx, tx, d); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert district %s", d.Name)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert districts: commit tx")
	}
	return int64(len(ds)), nil
}

func (s *SQLiteStore) UpsertCity(ctx context.Context, c model.City) (int64, error) {
	if err := validateName("city", c.Name); err != nil {
		return 0, err
	}
	status := c.APLStatus
	if status == "" {
		status = model.APLStatusNotSubmitted
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO cities (name, county_id, district_id, apl_status, cip_budget, sewer_budget, service_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			county_id = excluded.county_id,
			district_id = excluded.district_id,
			apl_status = excluded.apl_status,
			cip_budget = excluded.cip_budget,
			sewer_budget = excluded.sewer_budget,
			service_type = excluded.service_type
		RETURNING id`,
		c.Name, nullID(c.CountyID), nullID(c.DistrictID), string(status), c.CIPBudget, c.SewerBudget, c.ServiceType,
	).Scan(&id)
	return id, eris.Wrapf(err, "sqlite: upsert city %s", c.Name)
}
