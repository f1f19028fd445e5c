package output

import (
	"encoding/json"
	"fmt"

	"github.com/linctl/linctl/pkg/jsonpath"
)

// PrintJSON writes value as JSON per the options: pretty by default,
// minified with Compact. Field projection applies to the value itself
// or, for a slice, to each element.
func PrintJSON(value any, opts Options) error {
	value = project(value, opts.Fields)

	enc := json.NewEncoder(opts.writer())
	if !opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// PrintNDJSON writes one compact JSON line per record.
func PrintNDJSON(records []any, opts Options) error {
	enc := json.NewEncoder(opts.writer())
	for _, record := range records {
		if err := enc.Encode(project(record, opts.Fields)); err != nil {
			return fmt.Errorf("encoding ndjson: %w", err)
		}
	}
	return nil
}

// project reduces value to the requested dotted field paths. The result
// is keyed by the dotted path, so "state.name" stays addressable in the
// projected object.
func project(value any, fields []string) any {
	if len(fields) == 0 {
		return value
	}

	if records, ok := value.([]any); ok {
		projected := make([]any, len(records))
		for i, record := range records {
			projected[i] = projectOne(record, fields)
		}
		return projected
	}
	return projectOne(value, fields)
}

func projectOne(record any, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		v, ok := jsonpath.GetDotted(record, field)
		if !ok {
			v = nil
		}
		out[field] = v
	}
	return out
}
