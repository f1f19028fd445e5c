package projectscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const updatesLongDesc string = `Read and post project status updates.

Examples:
  linctl projects updates list "Q1 Roadmap"
  linctl p updates create "Q1 Roadmap" "Shipped the first milestone" --health onTrack`

const updatesListQuery = `
	query($id: String!, $first: Int, $after: String) {
		project(id: $id) {
			projectUpdates(first: $first, after: $after) {
				nodes {
					id
					body
					health
					url
					createdAt
					user { name }
				}
				pageInfo {
					hasNextPage
					endCursor
				}
			}
		}
	}
`

func newUpdatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Work with project status updates",
		Long:  updatesLongDesc,
	}

	cmd.AddCommand(newUpdatesListCmd())
	cmd.AddCommand(newUpdatesCreateCmd())

	return cmd
}

func newUpdatesListCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:     "list <project>",
		Aliases: []string{"ls"},
		Short:   "List status updates for a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			projectID, err := sess.ResolveProjectID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			updates, err := client.PaginateNodes(ctx, updatesListQuery,
				map[string]any{"id": projectID},
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "project", "projectUpdates")
			if err != nil {
				return err
			}

			return output.PrintRecords(updates, updateColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())

	return cmd
}

func newUpdatesCreateCmd() *cobra.Command {
	var flags output.Flags
	var health string

	cmd := &cobra.Command{
		Use:   "create <project> <body>",
		Short: "Post a status update to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			projectID, err := sess.ResolveProjectID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			body, err := cliui.ReadArg(args[1])
			if err != nil {
				return err
			}

			input := map[string]any{
				"projectId": projectID,
				"body":      body,
			}
			if health != "" {
				input["health"] = health
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			result, err := client.Mutate(ctx, `
				mutation($input: ProjectUpdateCreateInput!) {
					projectUpdateCreate(input: $input) {
						success
						projectUpdate { id body health url createdAt }
					}
				}
			`, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "projectUpdateCreate", "success") {
				return fmt.Errorf("failed to create project update")
			}

			update, _ := jsonpath.Get(result, "data", "projectUpdateCreate", "projectUpdate")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(update, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(update, opts)
			}

			fmt.Printf("%s Posted update to %s\n", cliui.SuccessMark, cliui.NameStyle.Render(args[0]))
			fmt.Printf("  %s\n", cliui.DimStyle.Render(jsonpath.String(update, "", "url")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVar(&health, "health", "", "update health (onTrack, atRisk, offTrack)")

	return cmd
}

func updateColumns() []output.Column {
	return []output.Column{
		{Header: "CREATED", Path: "createdAt", Render: func(r any) string {
			created := jsonpath.String(r, "", "createdAt")
			if len(created) >= 10 {
				created = created[:10]
			}
			return created
		}},
		{Header: "HEALTH", Path: "health", Render: func(r any) string {
			return jsonpath.String(r, "-", "health")
		}},
		{Header: "AUTHOR", Path: "user.name", Render: func(r any) string {
			return jsonpath.String(r, "-", "user", "name")
		}},
		{Header: "BODY", Path: "body", MaxWidth: 60},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
