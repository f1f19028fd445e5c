// Package commentscmder provides the comments command group.
package commentscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const commentsLongDesc string = `Read and write issue comments.

Examples:
  linctl comments list ENG-123
  linctl cm create ENG-123 "On it."
  echo "Long writeup" | linctl cm create ENG-123 -`

const commentsShortDesc string = "Read and write issue comments"

const listQuery = `
	query($id: String!, $first: Int, $after: String) {
		issue(id: $id) {
			comments(first: $first, after: $after) {
				nodes {
					id
					body
					createdAt
					url
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

func NewCommentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"cm"},
		Short:   commentsShortDesc,
		Long:    commentsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCreateCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:     "list <issue>",
		Aliases: []string{"ls"},
		Short:   "List comments on an issue",
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

			issueID, err := sess.ResolveIssueID(ctx, client, args[0], false)
			if err != nil {
				return err
			}

			comments, err := client.PaginateNodes(ctx, listQuery,
				map[string]any{"id": issueID},
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "issue", "comments")
			if err != nil {
				return err
			}

			return output.PrintRecords(comments, commentColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())

	return cmd
}

func newCreateCmd() *cobra.Command {
	var flags output.Flags
	var parent string

	cmd := &cobra.Command{
		Use:   "create <issue> <body>",
		Short: "Comment on an issue",
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

			issueID, err := sess.ResolveIssueID(ctx, client, args[0], false)
			if err != nil {
				return err
			}

			body, err := cliui.ReadArg(args[1])
			if err != nil {
				return err
			}

			input := map[string]any{
				"issueId": issueID,
				"body":    body,
			}
			if parent != "" {
				input["parentId"] = parent
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			result, err := client.Mutate(ctx, `
				mutation($input: CommentCreateInput!) {
					commentCreate(input: $input) {
						success
						comment { id body url createdAt }
					}
				}
			`, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "commentCreate", "success") {
				return fmt.Errorf("failed to create comment")
			}

			comment, _ := jsonpath.Get(result, "data", "commentCreate", "comment")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(comment, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(comment, opts)
			}

			fmt.Printf("%s Commented on %s\n", cliui.SuccessMark, cliui.IDStyle.Render(args[0]))
			fmt.Printf("  %s\n", cliui.DimStyle.Render(jsonpath.String(comment, "", "url")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent comment ID for a threaded reply")

	return cmd
}

func commentColumns() []output.Column {
	return []output.Column{
		{Header: "CREATED", Path: "createdAt", Render: func(r any) string {
			created := jsonpath.String(r, "", "createdAt")
			if len(created) >= 10 {
				created = created[:10]
			}
			return created
		}},
		{Header: "AUTHOR", Path: "user.name", Render: func(r any) string {
			return jsonpath.String(r, "-", "user", "name")
		}},
		{Header: "BODY", Path: "body", MaxWidth: 70},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
