package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/text"
)

// defaultColumnWidth caps table cells when neither the column nor the
// --width flag sets a limit.
const defaultColumnWidth = 50

// minColumnWidth is the floor below which width fitting stops shrinking
// a column.
const minColumnWidth = 8

// Column describes one table column. Render, when set, overrides the
// default dotted-path lookup.
type Column struct {
	Header   string
	Path     string
	MaxWidth int
	Render   func(record any) string
}

// PrintRecords is the common tail of every list command: JSON formats
// print the records as-is; the table path applies client-side filters
// and sorting first.
func PrintRecords(records []any, columns []Column, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return PrintJSON(records, opts)
	case FormatNDJSON:
		return PrintNDJSON(records, opts)
	}

	records = ApplyFilters(records, opts.Filters)
	SortRecords(records, opts.SortKey, opts.Order)
	return PrintTable(records, columns, opts)
}

// PrintTable renders records as an aligned two-space-gutter table with
// a styled header row.
func PrintTable(records []any, columns []Column, opts Options) error {
	w := opts.writer()

	if len(records) == 0 {
		fmt.Fprintln(w, cliui.DimStyle.Render("No results."))
		return nil
	}

	rows := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(columns))
		for j, col := range columns {
			cell := ""
			if col.Render != nil {
				cell = col.Render(record)
			} else {
				v, _ := jsonpath.GetDotted(record, col.Path)
				cell = renderValue(v)
			}
			cell = strings.ReplaceAll(cell, "\n", " ")
			row[j] = text.Truncate(cell, columnCap(col, opts))
		}
		rows[i] = row
	}

	widths := make([]int, len(columns))
	for j, col := range columns {
		widths[j] = ansi.StringWidth(col.Header)
	}
	for _, row := range rows {
		for j, cell := range row {
			if cw := ansi.StringWidth(cell); cw > widths[j] {
				widths[j] = cw
			}
		}
	}

	fitWidths(widths, budget(opts))

	header := make([]string, len(columns))
	for j, col := range columns {
		header[j] = pad(ansi.Truncate(col.Header, widths[j], ""), widths[j])
	}
	fmt.Fprintln(w, cliui.HeaderStyle.Render(strings.Join(header, "  ")))

	for _, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			if ansi.StringWidth(cell) > widths[j] {
				cell = ansi.Truncate(cell, widths[j], "...")
			}
			cells[j] = pad(cell, widths[j])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	return nil
}

// budget is the total display width the table may occupy. An explicit
// --width pins cell widths directly, so terminal fitting only kicks in
// without one. Non-terminal stdout (pipes, tests) gets no budget.
func budget(opts Options) int {
	if opts.Width > 0 {
		return 0
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w
	}
	return 0
}

// fitWidths shrinks the widest columns one cell at a time until the
// table (with two-space gutters) fits the budget or every column is at
// the minimum width.
func fitWidths(widths []int, budget int) {
	if budget <= 0 {
		return
	}
	total := 2 * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	for total > budget {
		widest := 0
		for j, w := range widths {
			if w > widths[widest] {
				widest = j
			}
		}
		if widths[widest] <= minColumnWidth {
			return
		}
		widths[widest]--
		total--
	}
}

func columnCap(col Column, opts Options) int {
	limit := col.MaxWidth
	if limit <= 0 {
		limit = defaultColumnWidth
	}
	if opts.Width > 0 && opts.Width < limit {
		limit = opts.Width
	}
	return limit
}

// pad right-pads s to the given display width. Styled cells measure by
// visible width, not byte length.
func pad(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
