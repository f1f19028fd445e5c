// Package viewscmder provides the views command group for Linear
// custom views.
package viewscmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const viewsLongDesc string = `Manage custom views.

Custom views are saved filters over issues, projects, or initiatives.
Filter payloads are raw Linear filter objects passed as JSON, inline,
from a file with @path, or from stdin with "-".

Examples:
  linctl views list
  linctl ui create "My bugs" --filter-data '{"labels":{"name":{"eq":"bug"}}}'
  linctl ui get 0c3790ab-... --output json`

const viewsShortDesc string = "Manage custom views"

const listQuery = `
	query($includeArchived: Boolean, $first: Int, $after: String) {
		customViews(includeArchived: $includeArchived, first: $first, after: $after) {
			nodes {
				id
				name
				description
				icon
				color
				shared
				slugId
				updatedAt
				archivedAt
				team { key name }
				owner { name }
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
		customView(id: $id) {
			id
			name
			description
			icon
			color
			shared
			slugId
			createdAt
			updatedAt
			archivedAt
			owner { id name email }
			team { id key name }
			filterData
			projectFilterData
			initiativeFilterData
			feedItemFilterData
		}
	}
`

func NewViewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "views",
		Aliases: []string{"ui"},
		Short:   viewsShortDesc,
		Long:    viewsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	var flags output.Flags
	var archived bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List custom views",
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

			views, err := client.PaginateNodes(ctx, listQuery,
				map[string]any{"includeArchived": archived},
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "customViews")
			if err != nil {
				return err
			}

			return output.PrintRecords(views, viewColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived views")

	return cmd
}

func newGetCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "get <view-id>...",
		Short: "Show custom view details",
		Args:  cobra.MinimumNArgs(1),
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

			ids, err := cliui.ReadLines(args)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return fmt.Errorf("no view IDs given")
			}

			var views []any
			for _, id := range ids {
				result, err := client.Query(ctx, getQuery, map[string]any{"id": id})
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s Failed to fetch %s: %v\n", cliui.WarnStyle.Render("!"), id, err)
					continue
				}
				view, ok := jsonpath.Get(result, "data", "customView")
				if !ok || view == nil {
					fmt.Fprintf(os.Stderr, "%s Custom view not found: %s\n", cliui.WarnStyle.Render("!"), id)
					continue
				}
				views = append(views, view)
			}

			if opts.IsJSON() {
				if len(views) == 1 {
					return output.PrintJSON(views[0], opts)
				}
				return output.PrintJSON(views, opts)
			}

			for i, view := range views {
				if i > 0 {
					fmt.Println()
				}
				printView(view)
			}
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())

	return cmd
}

func printView(view any) {
	fmt.Println(cliui.NameStyle.Render(jsonpath.String(view, "", "name")))

	if desc := jsonpath.String(view, "", "description"); desc != "" {
		printField("Description", desc)
	}
	shared := "no"
	if jsonpath.Bool(view, "shared") {
		shared = "yes"
	}
	printField("Shared", shared)
	printField("Slug", jsonpath.String(view, "-", "slugId"))
	printField("Team", jsonpath.String(view, "-", "team", "key"))
	printField("Owner", jsonpath.String(view, "-", "owner", "name"))
	printField("Color", jsonpath.String(view, "-", "color"))
	printField("Icon", jsonpath.String(view, "-", "icon"))
	printField("ID", jsonpath.String(view, "-", "id"))
}

func printField(key, value string) {
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}

func viewColumns() []output.Column {
	return []output.Column{
		{Header: "NAME", Path: "name", MaxWidth: 36, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "name"))
		}},
		{Header: "OWNER", Path: "owner.name"},
		{Header: "TEAM", Path: "team.key"},
		{Header: "SHARED", Path: "shared", Render: func(r any) string {
			if jsonpath.Bool(r, "shared") {
				return "yes"
			}
			return "no"
		}},
		{Header: "UPDATED", Path: "updatedAt", Render: func(r any) string {
			updated := jsonpath.String(r, "-", "updatedAt")
			if len(updated) > 10 {
				updated = updated[:10]
			}
			return updated
		}},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
