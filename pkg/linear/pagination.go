package linear

import (
	"context"
	"fmt"

	"github.com/linctl/linctl/pkg/jsonpath"
)

// Pagination bounds on Linear connections.
const (
	// DefaultPageSize is the per-request page size when none is set.
	DefaultPageSize = 50

	// MaxPageSize is the largest page Linear accepts per request.
	MaxPageSize = 250
)

// PageOptions controls connection walking.
type PageOptions struct {
	// Limit is the total number of nodes to collect. Ignored when All
	// is set. Zero means DefaultPageSize.
	Limit int

	// PageSize is the per-request page size, clamped to MaxPageSize.
	// Zero means DefaultPageSize.
	PageSize int

	// All walks every page regardless of Limit.
	All bool
}

func (o PageOptions) normalize() PageOptions {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	if o.Limit <= 0 {
		o.Limit = DefaultPageSize
	}
	return o
}

// PaginateNodes walks a GraphQL connection at path (e.g. "data",
// "issues") and collects its nodes. The query must declare $first and
// $after variables and select pageInfo { hasNextPage endCursor }.
// Extra variables are passed through on every page.
func (c *Client) PaginateNodes(ctx context.Context, query string, variables map[string]any, opts PageOptions, path ...string) ([]any, error) {
	opts = opts.normalize()

	var collected []any
	var after any

	for {
		remaining := opts.PageSize
		if !opts.All {
			if left := opts.Limit - len(collected); left < remaining {
				remaining = left
			}
		}

		vars := map[string]any{
			"first": remaining,
			"after": after,
		}
		for k, v := range variables {
			vars[k] = v
		}

		result, err := c.Query(ctx, query, vars)
		if err != nil {
			return nil, err
		}

		conn, ok := jsonpath.Get(result, path...)
		if !ok {
			return nil, fmt.Errorf("response missing connection at %v", path)
		}

		collected = append(collected, jsonpath.Array(conn, "nodes")...)

		if !opts.All && len(collected) >= opts.Limit {
			return collected[:opts.Limit], nil
		}

		pageInfo, _ := jsonpath.Get(conn, "pageInfo")
		if !jsonpath.Bool(pageInfo, "hasNextPage") {
			return collected, nil
		}
		cursor := jsonpath.String(pageInfo, "", "endCursor")
		if cursor == "" {
			return collected, nil
		}
		after = cursor
	}
}
