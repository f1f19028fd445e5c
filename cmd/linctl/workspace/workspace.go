// Package workspacecmder provides the workspace command group.
package workspacecmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const workspaceShortDesc string = "Show workspace information"

const showQuery = `
	query {
		organization {
			id
			name
			urlKey
			userCount
			createdIssueCount
			createdAt
			gitBranchFormat
		}
	}
`

func NewWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   workspaceShortDesc,
	}

	cmd.AddCommand(newShowCmd())

	return cmd
}

func newShowCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current workspace",
		Args:  cobra.NoArgs,
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

			result, err := client.Query(ctx, showQuery, nil)
			if err != nil {
				return err
			}

			org, _ := jsonpath.Get(result, "data", "organization")
			if opts.IsJSON() {
				return output.PrintJSON(org, opts)
			}

			fmt.Println(cliui.NameStyle.Render(jsonpath.String(org, "", "name")))
			printField("URL key", jsonpath.String(org, "-", "urlKey"))
			if users, ok := jsonpath.Number(org, "userCount"); ok {
				printField("Users", fmt.Sprintf("%.0f", users))
			}
			if issues, ok := jsonpath.Number(org, "createdIssueCount"); ok {
				printField("Issues created", fmt.Sprintf("%.0f", issues))
			}
			if format := jsonpath.String(org, "", "gitBranchFormat"); format != "" {
				printField("Branch format", format)
			}
			created := jsonpath.String(org, "-", "createdAt")
			if len(created) > 10 {
				created = created[:10]
			}
			printField("Created", created)
			printField("ID", jsonpath.String(org, "-", "id"))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())

	return cmd
}

func printField(key, value string) {
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}
