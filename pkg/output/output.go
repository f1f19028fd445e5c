// Package output renders command results as tables, JSON, or NDJSON,
// and applies the client-side filter/sort/projection flags shared by
// every list command.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/linctl/linctl/pkg/jsonpath"
)

// Format selects the output encoding.
type Format string

// Supported output formats.
const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
)

// Filter is a client-side equality filter on a dotted field path. The
// record's value is rendered to a string before comparing.
type Filter struct {
	Path  string
	Value string
}

// Options is the resolved output configuration for one command run.
type Options struct {
	Format  Format
	Fields  []string // dotted projection paths for json/ndjson
	Compact bool
	Filters []Filter
	SortKey string
	Order   string // "asc" or "desc"

	Limit    int
	PageSize int
	All      bool

	IDOnly bool
	DryRun bool
	Width  int // caps the widest table column, 0 for the default

	// Writer receives all rendered output. Defaults to os.Stdout.
	Writer io.Writer
}

func (o Options) writer() io.Writer {
	if o.Writer != nil {
		return o.Writer
	}
	return os.Stdout
}

// IsJSON reports whether the format is json or ndjson.
func (o Options) IsJSON() bool {
	return o.Format == FormatJSON || o.Format == FormatNDJSON
}

// ApplyFilters drops records whose rendered value at each filter path
// does not equal the filter value.
func ApplyFilters(records []any, filters []Filter) []any {
	if len(filters) == 0 {
		return records
	}

	kept := make([]any, 0, len(records))
	for _, record := range records {
		match := true
		for _, f := range filters {
			v, ok := jsonpath.GetDotted(record, f.Path)
			if !ok || renderValue(v) != f.Value {
				match = false
				break
			}
		}
		if match {
			kept = append(kept, record)
		}
	}
	return kept
}

// SortRecords stably sorts records by the rendered value at the dotted
// key. Values compare numerically when both parse as numbers. Order
// "desc" reverses.
func SortRecords(records []any, key, order string) {
	if key == "" {
		return
	}

	desc := strings.EqualFold(order, "desc")
	sort.SliceStable(records, func(i, j int) bool {
		a, _ := jsonpath.GetDotted(records[i], key)
		b, _ := jsonpath.GetDotted(records[j], key)
		less := compareValues(a, b)
		if desc {
			return !less && !equalValues(a, b)
		}
		return less
	})
}

func compareValues(a, b any) bool {
	as, bs := renderValue(a), renderValue(b)
	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		return af < bf
	}
	return as < bs
}

func equalValues(a, b any) bool {
	return renderValue(a) == renderValue(b)
}

// renderValue flattens a JSON value to the string form used for
// filtering, sorting, and table cells.
func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
