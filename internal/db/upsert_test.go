package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var districtCols = []string{"name", "budget", "cities_served", "apl_alignment", "project_activity", "internal_support"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "water_districts",
		Columns:      districtCols,
		ConflictKeys: []string{"name"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "water_districts",
		ConflictKeys: []string{"name"},
	}, [][]any{{"Trinity River Authority"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:   "water_districts",
		Columns: districtCols,
	}, [][]any{{"Trinity River Authority"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_KeyNotAColumn(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "water_districts",
		Columns:      []string{"budget"},
		ConflictKeys: []string{"name"},
	}, [][]any{{int64(1)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `conflict key "name" is not a column`)
}

func TestBulkUpsert_RowWidth(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "water_districts",
		Columns:      districtCols,
		ConflictKeys: []string{"name"},
	}, [][]any{{"Trinity River Authority"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0 has 1 values, want 6")
}

func TestBulkUpsert_NilPool(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "water_districts",
		Columns:      districtCols,
		ConflictKeys: []string{"name"},
	}, [][]any{{"Trinity River Authority", int64(1), 1, "STRONG", 1, "yes"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil pool")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock := newMockPool(t)
	rows := [][]any{
		{"Trinity River Authority", int64(4_000_000_000), 40, "STRONG", 12, "yes"},
		{"North Texas MWD", int64(1_200_000_000), 13, "MODERATE", 6, "N/A"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_water_districts"}, districtCols).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "water_districts" .* ON CONFLICT \("name"\) DO UPDATE SET "budget" = EXCLUDED."budget"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "water_districts",
		Columns:      districtCols,
		ConflictKeys: []string{"name"},
	}, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_CopyFails(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_water_districts"}, districtCols).
		WillReturnError(errors.New("copy broke"))
	mock.ExpectRollback()

	_, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "water_districts",
		Columns:      districtCols,
		ConflictKeys: []string{"name"},
	}, [][]any{{"Trinity River Authority", int64(1), 1, "STRONG", 1, "yes"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into temp table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertConfig_Statements(t *testing.T) {
	cfg := UpsertConfig{Table: "public.counties", Columns: []string{"name", "color_code"}, ConflictKeys: []string{"name"}}
	create, merge := cfg.statements()
	assert.Equal(t, `CREATE TEMP TABLE "_tmp_upsert_public_counties" (LIKE "public"."counties" INCLUDING DEFAULTS) ON COMMIT DROP`, create)
	assert.Equal(t, `INSERT INTO "public"."counties" ("name", "color_code") SELECT "name", "color_code" FROM "_tmp_upsert_public_counties" ON CONFLICT ("name") DO UPDATE SET "color_code" = EXCLUDED."color_code"`, merge)

	keysOnly := UpsertConfig{Table: "counties", Columns: []string{"name"}, ConflictKeys: []string{"name"}}
	_, merge = keysOnly.statements()
	assert.True(t, strings.HasSuffix(merge, `ON CONFLICT ("name") DO NOTHING`))

	explicit := UpsertConfig{Table: "t", Columns: []string{"a", "b", "c"}, ConflictKeys: []string{"a"}, UpdateCols: []string{"c"}}
	assert.Equal(t, []string{"c"}, explicit.updateColumns())
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"cities", `"cities"`},
		{"public.water_districts", `"public"."water_districts"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeTable(tt.input))
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	assert.Equal(t, `"name", "budget", "cities_served"`, quoteAndJoin([]string{"name", "budget", "cities_served"}))
}
