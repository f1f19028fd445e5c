// Package docscmder provides the docs command group.
package docscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const docsLongDesc string = `Read and write Linear documents.

Examples:
  linctl docs list
  linctl j get DOC_ID
  linctl j create "Design notes" --project "Q1 Roadmap"
  cat notes.md | linctl j create "Design notes" --content -`

const docsShortDesc string = "Read and write Linear documents"

const listQuery = `
	query($first: Int, $after: String) {
		documents(first: $first, after: $after) {
			nodes {
				id
				title
				icon
				url
				updatedAt
				project { name }
				creator { name }
			}
			pageInfo {
				hasNextPage
				endCursor
			}
		}
	}
`

const getQuery = `
	query($id: String!) {
		document(id: $id) {
			id
			title
			icon
			color
			content
			url
			createdAt
			updatedAt
			project { name }
			creator { name }
		}
	}
`

func NewDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"j"},
		Short:   docsShortDesc,
		Long:    docsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newCreateCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List documents",
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

			docs, err := client.PaginateNodes(ctx, listQuery, nil,
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "documents")
			if err != nil {
				return err
			}

			return output.PrintRecords(docs, docColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())

	return cmd
}

func newGetCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "get <doc-id>",
		Short: "Show a document",
		Args:  cobra.ExactArgs(1),
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

			result, err := client.Query(ctx, getQuery, map[string]any{"id": args[0]})
			if err != nil {
				return err
			}

			doc, ok := jsonpath.Get(result, "data", "document")
			if !ok || doc == nil {
				return clierr.New(clierr.CodeNotFound, "Document not found: %s", args[0])
			}

			if opts.IsJSON() {
				return output.PrintJSON(doc, opts)
			}

			fmt.Println(cliui.NameStyle.Render(jsonpath.String(doc, "", "title")))
			if project := jsonpath.String(doc, "", "project", "name"); project != "" {
				printField("Project", project)
			}
			printField("Author", jsonpath.String(doc, "-", "creator", "name"))
			printField("Updated", jsonpath.String(doc, "-", "updatedAt"))
			printField("URL", jsonpath.String(doc, "-", "url"))

			if content := jsonpath.String(doc, "", "content"); content != "" {
				fmt.Println()
				rendered, err := cliui.RenderMarkdown(content, 0)
				if err != nil {
					rendered = content
				}
				fmt.Println(rendered)
			}
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())

	return cmd
}

func newCreateCmd() *cobra.Command {
	var flags output.Flags
	var content, project string

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a document",
		Args:  cobra.ExactArgs(1),
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

			input := map[string]any{"title": args[0]}
			if content != "" {
				body, err := cliui.ReadArg(content)
				if err != nil {
					return err
				}
				input["content"] = body
			}
			if project != "" {
				projectID, err := sess.ResolveProjectID(ctx, client, project, false)
				if err != nil {
					return err
				}
				input["projectId"] = projectID
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			result, err := client.Mutate(ctx, `
				mutation($input: DocumentCreateInput!) {
					documentCreate(input: $input) {
						success
						document { id title url }
					}
				}
			`, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "documentCreate", "success") {
				return fmt.Errorf("failed to create document")
			}

			doc, _ := jsonpath.Get(result, "data", "documentCreate", "document")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(doc, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(doc, opts)
			}

			fmt.Printf("%s Created document %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(doc, "", "title")))
			fmt.Printf("  %s\n", cliui.DimStyle.Render(jsonpath.String(doc, "", "url")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&content, "content", "c", "", "document markdown content ('-' for stdin)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "project name or ID")

	return cmd
}

func printField(key, value string) {
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}

func docColumns() []output.Column {
	return []output.Column{
		{Header: "TITLE", Path: "title", MaxWidth: 40, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "title"))
		}},
		{Header: "PROJECT", Path: "project.name", MaxWidth: 30, Render: func(r any) string {
			return jsonpath.String(r, "-", "project", "name")
		}},
		{Header: "AUTHOR", Path: "creator.name", Render: func(r any) string {
			return jsonpath.String(r, "-", "creator", "name")
		}},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
