// Package dashboard runs one full render pass for a signed-in user: load the
// tables, score every district, filter and merge, then build the summary
// metrics, ranking tables and charts.
package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/water-intel/internal/model"
	"github.com/sells-group/water-intel/internal/store"
)

// DegradedNotice is shown when the store could not be read.
const DegradedNotice = "Data could not be loaded from the database; showing empty tables."

// Loaded is the result of one store read. A failed read yields empty tables
// and Degraded set; it is never an error.
type Loaded struct {
	Tables   model.Tables
	Degraded bool
	Notice   string
}

// Load reads the full dataset.
func Load(ctx context.Context, s store.Store) Loaded {
	tables, err := store.LoadTables(ctx, s)
	if err != nil {
		zap.L().Error("dashboard: load failed, rendering empty tables", zap.Error(err))
		return Loaded{Degraded: true, Notice: DegradedNotice}
	}
	return Loaded{Tables: *tables}
}
