package teamscmder

import (
	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const listQuery = `
	query($first: Int, $after: String) {
		teams(first: $first, after: $after) {
			nodes {
				id
				name
				key
				private
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

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List teams",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			teams, err := client.PaginateNodes(ctx, listQuery, nil,
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "teams")
			if err != nil {
				return err
			}

			return output.PrintRecords(teams, teamColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())

	return cmd
}

func teamColumns() []output.Column {
	return []output.Column{
		{Header: "KEY", Path: "key", Render: func(r any) string {
			return cliui.IDStyle.Render(jsonpath.String(r, "", "key"))
		}},
		{Header: "NAME", Path: "name", MaxWidth: 40, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "name"))
		}},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
