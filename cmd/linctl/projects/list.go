package projectscmder

import (
	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const listLongDesc string = `List projects across the workspace.

Examples:
  linctl projects list
  linctl p list --archived
  linctl p list --filter state=started --output json`

// The node selection stays lean: wide project selections blow Linear's
// query complexity limit.
const listQuery = `
	query($includeArchived: Boolean, $first: Int, $after: String) {
		projects(first: $first, after: $after, includeArchived: $includeArchived) {
			nodes {
				id
				name
				state
				url
				startDate
				targetDate
			}
			pageInfo {
				hasNextPage
				endCursor
			}
		}
	}
`

func newListCmd() *cobra.Command {
	var flags output.Flags
	var archived bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Long:    listLongDesc,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, flags, archived)
		},
	}

	flags.RegisterList(cmd.Flags())
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived projects")

	return cmd
}

func runList(cmd *cobra.Command, flags output.Flags, archived bool) error {
	ctx := cmd.Context()

	sess, err := session.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts, err := sess.OutputOptions(&flags)
	if err != nil {
		return err
	}

	client, err := sess.Client()
	if err != nil {
		return err
	}

	projects, err := client.PaginateNodes(ctx, listQuery,
		map[string]any{"includeArchived": archived},
		linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
		"data", "projects")
	if err != nil {
		return err
	}

	return output.PrintRecords(projects, projectColumns(), opts)
}

func projectColumns() []output.Column {
	return []output.Column{
		{Header: "NAME", Path: "name", Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "name"))
		}},
		{Header: "STATE", Path: "state", Render: func(r any) string {
			return jsonpath.String(r, "-", "state")
		}},
		{Header: "TARGET", Path: "targetDate", Render: func(r any) string {
			return jsonpath.String(r, "-", "targetDate")
		}},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
