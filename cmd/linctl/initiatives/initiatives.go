// Package initiativescmder provides the initiatives command group.
// Initiatives group projects toward a larger goal.
package initiativescmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const initiativesLongDesc string = `Manage initiatives.

Examples:
  linctl initiatives list
  linctl in get "Q1 Growth"
  linctl in create "Modernize" -d "Replatform the billing stack"
  linctl in link "Q1 Growth" "Checkout revamp"`

const initiativesShortDesc string = "Manage initiatives"

const listQuery = `
	query($includeArchived: Boolean, $first: Int, $after: String) {
		initiatives(includeArchived: $includeArchived, first: $first, after: $after) {
			nodes {
				id
				name
				status
				targetDate
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
		initiative(id: $id) {
			id
			name
			description
			content
			status
			targetDate
			url
			owner { name }
			projects(first: 50) {
				nodes { id name }
			}
		}
	}
`

func NewInitiativesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initiatives",
		Aliases: []string{"in"},
		Short:   initiativesShortDesc,
		Long:    initiativesLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(initiativeToggleCmd("archive", "Archive an initiative", "initiativeArchive", "archived"))
	cmd.AddCommand(initiativeToggleCmd("unarchive", "Unarchive an initiative", "initiativeUnarchive", "unarchived"))
	cmd.AddCommand(newLinkCmd())
	cmd.AddCommand(newUnlinkCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	var flags output.Flags
	var archived bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List initiatives",
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

			initiatives, err := client.PaginateNodes(ctx, listQuery,
				map[string]any{"includeArchived": archived},
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "initiatives")
			if err != nil {
				return err
			}

			return output.PrintRecords(initiatives, initiativeColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived initiatives")

	return cmd
}

func newGetCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "get <initiative>...",
		Short: "Show initiative details",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			refs, err := cliui.ReadLines(args)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return fmt.Errorf("no initiatives given")
			}

			var initiatives []any
			for _, ref := range refs {
				initiative, err := fetchInitiative(cmd, sess, client, ref)
				if err != nil {
					if len(refs) == 1 {
						return err
					}
					fmt.Fprintf(os.Stderr, "%s %v\n", cliui.WarnStyle.Render("!"), err)
					continue
				}
				initiatives = append(initiatives, initiative)
			}

			if opts.IsJSON() {
				if len(initiatives) == 1 {
					return output.PrintJSON(initiatives[0], opts)
				}
				return output.PrintJSON(initiatives, opts)
			}

			for i, initiative := range initiatives {
				if i > 0 {
					fmt.Println()
				}
				printInitiative(initiative)
			}
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())

	return cmd
}

func fetchInitiative(cmd *cobra.Command, sess *session.Session, client *linear.Client, ref string) (any, error) {
	ctx := cmd.Context()

	id, err := sess.ResolveInitiativeID(ctx, client, ref, true)
	if err != nil {
		return nil, err
	}

	result, err := client.Query(ctx, getQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}

	initiative, ok := jsonpath.Get(result, "data", "initiative")
	if !ok || initiative == nil {
		return nil, clierr.New(clierr.CodeNotFound, "Initiative not found: %s", ref)
	}
	return initiative, nil
}

func printInitiative(initiative any) {
	fmt.Println(cliui.NameStyle.Render(jsonpath.String(initiative, "", "name")))

	if desc := jsonpath.String(initiative, "", "description"); desc != "" {
		printField("Description", desc)
	}
	printField("Status", jsonpath.String(initiative, "-", "status"))
	printField("Target Date", jsonpath.String(initiative, "-", "targetDate"))
	printField("Owner", jsonpath.String(initiative, "-", "owner", "name"))
	printField("URL", jsonpath.String(initiative, "-", "url"))
	printField("ID", jsonpath.String(initiative, "-", "id"))

	projects := jsonpath.Array(initiative, "projects", "nodes")
	if len(projects) > 0 {
		fmt.Printf("\n  %s\n", cliui.HeaderStyle.Render("Projects"))
		for _, project := range projects {
			fmt.Printf("    - %s\n", jsonpath.String(project, "-", "name"))
		}
	}
}

func printField(key, value string) {
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}

func initiativeColumns() []output.Column {
	return []output.Column{
		{Header: "NAME", Path: "name", MaxWidth: 40, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "name"))
		}},
		{Header: "STATUS", Path: "status"},
		{Header: "TARGET", Path: "targetDate"},
		{Header: "OWNER", Path: "owner.name"},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
