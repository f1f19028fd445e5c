// Package userscmder provides the users command group.
package userscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const usersLongDesc string = `Look up workspace members.

Examples:
  linctl users list
  linctl u me
  linctl u list --filter active=true --output json`

const usersShortDesc string = "Look up workspace members"

const listQuery = `
	query($first: Int, $after: String) {
		users(first: $first, after: $after) {
			nodes {
				id
				name
				displayName
				email
				active
				admin
			}
			pageInfo {
				hasNextPage
				endCursor
			}
		}
	}
`

const meQuery = `
	query {
		viewer {
			id
			name
			displayName
			email
			admin
			createdAt
			organization { name urlKey }
		}
	}
`

func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"u"},
		Short:   usersShortDesc,
		Long:    usersLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newMeCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workspace members",
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

			users, err := client.PaginateNodes(ctx, listQuery, nil,
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "users")
			if err != nil {
				return err
			}

			return output.PrintRecords(users, userColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())

	return cmd
}

func newMeCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user",
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

			result, err := client.Query(ctx, meQuery, nil)
			if err != nil {
				return err
			}

			viewer, _ := jsonpath.Get(result, "data", "viewer")
			if opts.IsJSON() {
				return output.PrintJSON(viewer, opts)
			}

			fmt.Println(cliui.NameStyle.Render(jsonpath.String(viewer, "", "name")))
			printField("Email", jsonpath.String(viewer, "-", "email"))
			if display := jsonpath.String(viewer, "", "displayName"); display != "" {
				printField("Display Name", display)
			}
			admin, _ := jsonpath.Get(viewer, "admin")
			printField("Admin", fmt.Sprintf("%v", admin == true))
			if org := jsonpath.String(viewer, "", "organization", "name"); org != "" {
				printField("Workspace", org)
			}
			printField("ID", jsonpath.String(viewer, "-", "id"))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())

	return cmd
}

func printField(key, value string) {
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}

func userColumns() []output.Column {
	return []output.Column{
		{Header: "NAME", Path: "name", MaxWidth: 30, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "name"))
		}},
		{Header: "EMAIL", Path: "email", MaxWidth: 40},
		{Header: "ACTIVE", Path: "active", Render: func(r any) string {
			if active, _ := jsonpath.Get(r, "active"); active == true {
				return "yes"
			}
			return "no"
		}},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
