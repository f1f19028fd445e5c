package output

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds the raw flag values shared by commands that print
// records. Register them on a command's flag set, then resolve with
// Options after parsing.
type Flags struct {
	Output   string
	Fields   string
	Compact  bool
	Filters  []string
	Sort     string
	Order    string
	Limit    int
	PageSize int
	All      bool
	IDOnly   bool
	DryRun   bool
	Width    int
}

// RegisterList adds the full set of list flags: format, projection,
// filtering, sorting, and pagination.
func (f *Flags) RegisterList(fs *pflag.FlagSet) {
	f.RegisterFormat(fs)
	fs.StringArrayVar(&f.Filters, "filter", nil, "client-side filter field=value (repeatable)")
	fs.StringVar(&f.Sort, "sort", "", "client-side sort key (dotted path)")
	fs.StringVar(&f.Order, "order", "asc", "sort order: asc or desc")
	fs.IntVar(&f.Limit, "limit", 0, "maximum records to fetch (default 50)")
	fs.IntVar(&f.PageSize, "page-size", 0, "records per API request (max 250)")
	fs.BoolVar(&f.All, "all", false, "fetch every page, overriding --limit")
}

// RegisterFormat adds only the format flags, for get-style commands
// that print a single record.
func (f *Flags) RegisterFormat(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Output, "output", "o", "", "output format: table, json, or ndjson")
	fs.StringVar(&f.Fields, "fields", "", "comma-separated field paths for json output")
	fs.BoolVar(&f.Compact, "compact", false, "minified single-line json")
	fs.IntVar(&f.Width, "width", 0, "maximum table column width")
}

// RegisterMutation adds the flags mutations share.
func (f *Flags) RegisterMutation(fs *pflag.FlagSet) {
	fs.BoolVar(&f.IDOnly, "id-only", false, "print only the affected identifier")
	fs.BoolVar(&f.DryRun, "dry-run", false, "print the intended request without sending it")
}

// Options validates the raw flags and resolves them into Options,
// applying config defaults for format and page size when the flags are
// unset.
func (f *Flags) Options(defaultFormat string, defaultPageSize int) (Options, error) {
	format := f.Output
	if format == "" {
		format = defaultFormat
	}
	if format == "" {
		format = string(FormatTable)
	}

	switch Format(format) {
	case FormatTable, FormatJSON, FormatNDJSON:
	default:
		return Options{}, fmt.Errorf("invalid output format %q: expected table, json, or ndjson", format)
	}

	switch strings.ToLower(f.Order) {
	case "", "asc", "desc":
	default:
		return Options{}, fmt.Errorf("invalid order %q: expected asc or desc", f.Order)
	}

	filters, err := parseFilters(f.Filters)
	if err != nil {
		return Options{}, err
	}

	limit := f.Limit
	if limit == 0 && defaultPageSize > 0 {
		limit = defaultPageSize
	}

	return Options{
		Format:   Format(format),
		Fields:   splitFields(f.Fields),
		Compact:  f.Compact,
		Filters:  filters,
		SortKey:  f.Sort,
		Order:    strings.ToLower(f.Order),
		Limit:    limit,
		PageSize: f.PageSize,
		All:      f.All,
		IDOnly:   f.IDOnly,
		DryRun:   f.DryRun,
		Width:    f.Width,
	}, nil
}

func parseFilters(raw []string) ([]Filter, error) {
	filters := make([]Filter, 0, len(raw))
	for _, r := range raw {
		path, value, ok := strings.Cut(r, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid filter %q: expected field=value", r)
		}
		filters = append(filters, Filter{Path: path, Value: value})
	}
	return filters, nil
}

func splitFields(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}
