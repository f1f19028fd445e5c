// Package searchcmder provides the search command group.
package searchcmder

import (
	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const searchLongDesc string = `Search issues, projects, and documents.

Issue and project searches match case-insensitively against titles
(and issue descriptions). Document search uses Linear's full-text
search and can include comments.

Examples:
  linctl search issues "login timeout"
  linctl s projects roadmap --archived
  linctl s docs "incident review" --team ENG --comments`

const searchShortDesc string = "Search issues, projects, and documents"

func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search",
		Aliases: []string{"s"},
		Short:   searchShortDesc,
		Long:    searchLongDesc,
	}

	cmd.AddCommand(newIssuesCmd())
	cmd.AddCommand(newProjectsCmd())
	cmd.AddCommand(newDocsCmd())

	return cmd
}

const issuesQuery = `
	query($first: Int, $after: String, $includeArchived: Boolean, $filter: IssueFilter) {
		issues(first: $first, after: $after, includeArchived: $includeArchived, filter: $filter) {
			nodes {
				id
				identifier
				title
				priority
				state { name }
			}
			pageInfo {
				hasNextPage
				endCursor
			}
		}
	}
`

func newIssuesCmd() *cobra.Command {
	var flags output.Flags
	var archived bool

	cmd := &cobra.Command{
		Use:   "issues <query>",
		Short: "Search issues by title and description",
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

			variables := map[string]any{
				"includeArchived": archived,
				"filter": map[string]any{
					"or": []any{
						map[string]any{"title": map[string]any{"containsIgnoreCase": args[0]}},
						map[string]any{"description": map[string]any{"containsIgnoreCase": args[0]}},
					},
				},
			}

			issues, err := client.PaginateNodes(ctx, issuesQuery, variables,
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "issues")
			if err != nil {
				return err
			}

			return output.PrintRecords(issues, issueColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived issues")

	return cmd
}

const projectsQuery = `
	query($first: Int, $after: String, $includeArchived: Boolean, $filter: ProjectFilter) {
		projects(first: $first, after: $after, includeArchived: $includeArchived, filter: $filter) {
			nodes {
				id
				name
				url
				status { name }
			}
			pageInfo {
				hasNextPage
				endCursor
			}
		}
	}
`

func newProjectsCmd() *cobra.Command {
	var flags output.Flags
	var archived bool

	cmd := &cobra.Command{
		Use:   "projects <query>",
		Short: "Search projects by name",
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

			variables := map[string]any{
				"includeArchived": archived,
				"filter": map[string]any{
					"name": map[string]any{"containsIgnoreCase": args[0]},
				},
			}

			projects, err := client.PaginateNodes(ctx, projectsQuery, variables,
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "projects")
			if err != nil {
				return err
			}

			return output.PrintRecords(projects, projectColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived projects")

	return cmd
}

const docsQuery = `
	query($term: String!, $includeArchived: Boolean, $includeComments: Boolean, $teamId: String, $first: Int, $after: String) {
		searchDocuments(term: $term, includeArchived: $includeArchived, includeComments: $includeComments, teamId: $teamId, first: $first, after: $after) {
			nodes {
				id
				title
				url
				updatedAt
				team { key }
				project { name }
				issue { identifier }
			}
			pageInfo {
				hasNextPage
				endCursor
			}
		}
	}
`

func newDocsCmd() *cobra.Command {
	var flags output.Flags
	var archived, comments bool
	var team string

	cmd := &cobra.Command{
		Use:   "docs <query>",
		Short: "Full-text search across documents",
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

			variables := map[string]any{
				"term":            args[0],
				"includeArchived": archived,
				"includeComments": comments,
			}
			if team != "" {
				teamID, err := sess.ResolveTeamID(ctx, client, team)
				if err != nil {
					return err
				}
				variables["teamId"] = teamID
			}

			docs, err := client.PaginateNodes(ctx, docsQuery, variables,
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "searchDocuments")
			if err != nil {
				return err
			}

			return output.PrintRecords(docs, docColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived documents")
	cmd.Flags().BoolVar(&comments, "comments", false, "search comment bodies too")
	cmd.Flags().StringVarP(&team, "team", "t", "", "restrict to a team")

	return cmd
}

func issueColumns() []output.Column {
	return []output.Column{
		{Header: "ID", Path: "identifier", Render: func(r any) string {
			return cliui.IDStyle.Render(jsonpath.String(r, "", "identifier"))
		}},
		{Header: "TITLE", Path: "title", MaxWidth: 50},
		{Header: "STATE", Path: "state.name", Render: func(r any) string {
			return jsonpath.String(r, "-", "state", "name")
		}},
		{Header: "PRIORITY", Path: "priority", Render: func(r any) string {
			p, _ := jsonpath.Number(r, "priority")
			return cliui.Priority(int(p))
		}},
	}
}

func projectColumns() []output.Column {
	return []output.Column{
		{Header: "NAME", Path: "name", MaxWidth: 40, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "name"))
		}},
		{Header: "STATUS", Path: "status.name", Render: func(r any) string {
			return jsonpath.String(r, "-", "status", "name")
		}},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}

// linkedTo prefers the issue a document hangs off, then its project.
func linkedTo(r any) string {
	if identifier := jsonpath.String(r, "", "issue", "identifier"); identifier != "" {
		return identifier
	}
	return jsonpath.String(r, "-", "project", "name")
}

func docColumns() []output.Column {
	return []output.Column{
		{Header: "TITLE", Path: "title", MaxWidth: 40, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "title"))
		}},
		{Header: "TEAM", Path: "team.key", Render: func(r any) string {
			return jsonpath.String(r, "-", "team", "key")
		}},
		{Header: "LINKED TO", Path: "issue.identifier", MaxWidth: 28, Render: linkedTo},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
