// Package document holds the in-memory shapes of translatable files and the
// walkers that route their translatable units through a translator while
// preserving structure.
package document

import "context"

// Translator is the single operation walkers need. *memoize.Memoizer
// satisfies it.
type Translator interface {
	TranslateUnit(ctx context.Context, value string) string
}

// Table is an ordered header row plus data rows. CSV files and individual
// spreadsheet sheets both parse into it.
type Table struct {
	Header []string
	Rows   [][]string
}

// Sheet is one named table inside a workbook.
type Sheet struct {
	Name string
	Table
}

// Workbook is an ordered collection of sheets.
type Workbook struct {
	Sheets []Sheet
}

// Translate returns a new table of identical shape with every header and cell
// routed through the translator. Headers go first, then cells column by
// column — the order only affects cache warm-up, not the output. Blank cells
// come back unchanged from the translator's short-circuit. Duplicate
// translated headers are allowed.
func (t *Table) Translate(ctx context.Context, tr Translator) *Table {
	out := &Table{
		Header: make([]string, len(t.Header)),
		Rows:   make([][]string, len(t.Rows)),
	}

	for i, name := range t.Header {
		out.Header[i] = tr.TranslateUnit(ctx, name)
	}

	for i, row := range t.Rows {
		out.Rows[i] = make([]string, len(row))
	}

	width := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	for col := 0; col < width; col++ {
		for i, row := range t.Rows {
			if col < len(row) {
				out.Rows[i][col] = tr.TranslateUnit(ctx, row[col])
			}
		}
	}

	return out
}

// Translate returns a new workbook with the same sheets in the same order.
// Sheet names are not translated; only header and cell content is.
func (w *Workbook) Translate(ctx context.Context, tr Translator) *Workbook {
	out := &Workbook{Sheets: make([]Sheet, len(w.Sheets))}
	for i, sheet := range w.Sheets {
		out.Sheets[i] = Sheet{
			Name:  sheet.Name,
			Table: *sheet.Table.Translate(ctx, tr),
		}
	}
	return out
}
