// Package export writes ranked dashboard rows as CSV, XLSX or a
// tier-coloured terminal table.
package export

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/water-intel/internal/rank"
)

// WriteCSV writes a header row and one record per row, using the display
// column names. The header is written even when rows is empty.
func WriteCSV(w io.Writer, rows []rank.DisplayRow) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(rank.DisplayRow{}); err != nil {
		return eris.Wrap(err, "export: csv header")
	}
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return eris.Wrapf(err, "export: csv row %s", r.City)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
