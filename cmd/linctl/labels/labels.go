// Package labelscmder provides the labels command group.
package labelscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const labelsLongDesc string = `Manage workspace labels.

Labels come in two flavors: project labels (the default) and issue
labels. Issue labels belong to a team and support descriptions;
project labels are workspace-wide.

Examples:
  linctl labels list
  linctl l list --type issue
  linctl l create "Bug" --type issue --team ENG
  linctl l create "UI" --color-hex "#FF5733"`

const labelsShortDesc string = "Manage workspace labels"

func NewLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "labels",
		Aliases: []string{"l"},
		Short:   labelsShortDesc,
		Long:    labelsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}

// labelNames holds the GraphQL identifiers that differ between issue
// and project labels.
type labelNames struct {
	connection string // query field, e.g. issueLabels
	prefix     string // mutation prefix, e.g. issueLabel
	inputType  string // input type prefix, e.g. IssueLabel
}

func labelConnection(labelType string) (labelNames, error) {
	switch labelType {
	case "project":
		return labelNames{"projectLabels", "projectLabel", "ProjectLabel"}, nil
	case "issue":
		return labelNames{"issueLabels", "issueLabel", "IssueLabel"}, nil
	default:
		return labelNames{}, fmt.Errorf("invalid label type %q: expected issue or project", labelType)
	}
}

func newListCmd() *cobra.Command {
	var flags output.Flags
	var labelType string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List labels",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			names, err := labelConnection(labelType)
			if err != nil {
				return err
			}

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

			query := fmt.Sprintf(`
				query($first: Int, $after: String) {
					%s(first: $first, after: $after) {
						nodes {
							id
							name
							color
							parent { name }
						}
						pageInfo {
							hasNextPage
							endCursor
						}
					}
				}
			`, names.connection)

			labels, err := client.PaginateNodes(ctx, query, nil,
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", names.connection)
			if err != nil {
				return err
			}

			return output.PrintRecords(labels, labelColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())
	cmd.Flags().StringVarP(&labelType, "type", "t", "project", "label type (issue or project)")

	return cmd
}

func labelColumns() []output.Column {
	return []output.Column{
		{Header: "NAME", Path: "name", MaxWidth: 30, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "name"))
		}},
		{Header: "GROUP", Path: "parent.name", MaxWidth: 30, Render: func(r any) string {
			return jsonpath.String(r, "-", "parent", "name")
		}},
		{Header: "COLOR", Path: "color"},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
