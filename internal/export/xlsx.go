package export

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/water-intel/internal/rank"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Rankings"

// tierColumn is the index of the Tier cell in rank.DisplayColumns.
var tierColumn = indexOf(rank.DisplayColumns, rank.ColumnName("tier"))

// WriteXLSX writes rows to a single-sheet workbook. The Tier cell of each
// row is filled with the tier colour.
func WriteXLSX(w io.Writer, rows []rank.DisplayRow) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	bold := xlsx.NewStyle()
	bold.Font.Bold = true
	bold.ApplyFont = true
	for _, h := range rank.DisplayColumns {
		c := header.AddCell()
		c.SetString(h)
		c.SetStyle(bold)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		for i, v := range r.Cells() {
			c := row.AddCell()
			c.SetString(v)
			if i == tierColumn {
				c.SetStyle(fillStyle(r.TierColor))
			}
		}
	}

	return eris.Wrap(f.Write(w), "xlsx: write")
}

// ReadXLSX reads the first sheet of a workbook as string rows, header
// included.
func ReadXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}

	var out [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		out = append(out, cells)
	}
	return out, nil
}

// fillStyle turns "#48bb78" into a solid ARGB fill.
func fillStyle(hex string) *xlsx.Style {
	argb := "FF" + strings.ToUpper(strings.TrimPrefix(hex, "#"))
	s := xlsx.NewStyle()
	s.Fill = *xlsx.NewFill("solid", argb, argb)
	s.ApplyFill = true
	return s
}

func indexOf(xs []string, want string) int {
	for i, x := range xs {
		if x == want {
			return i
		}
	}
	return -1
}
