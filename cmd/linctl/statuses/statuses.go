// Package statusescmder provides the statuses command group for team
// workflow states.
package statusescmder

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const statusesLongDesc string = `Inspect a team's workflow states.

Examples:
  linctl statuses list -t ENG
  linctl sy get "In Progress" -t ENG
  linctl sy list -t ENG --output json --fields name,type`

const statusesShortDesc string = "Inspect a team's workflow states"

const listQuery = `
	query($teamId: String!, $first: Int, $after: String) {
		team(id: $teamId) {
			states(first: $first, after: $after) {
				nodes {
					id
					name
					type
					color
					position
					description
				}
				pageInfo {
					hasNextPage
					endCursor
				}
			}
		}
	}
`

const getQuery = `
	query($teamId: String!) {
		team(id: $teamId) {
			id
			name
			states {
				nodes {
					id
					name
					type
					color
					position
					description
				}
			}
		}
	}
`

func NewStatusesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "statuses",
		Aliases: []string{"sy"},
		Short:   statusesShortDesc,
		Long:    statusesLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	var flags output.Flags
	var team string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workflow states for a team",
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

			if team == "" {
				team = sess.Config.Defaults.Team
			}
			if team == "" {
				return fmt.Errorf("team required: pass -t or set defaults.team")
			}
			teamID, err := sess.ResolveTeamID(ctx, client, team)
			if err != nil {
				return err
			}

			states, err := client.PaginateNodes(ctx, listQuery,
				map[string]any{"teamId": teamID},
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "team", "states")
			if err != nil {
				return err
			}

			return output.PrintRecords(states, statusColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())
	cmd.Flags().StringVarP(&team, "team", "t", "", "team key or name")

	return cmd
}

func newGetCmd() *cobra.Command {
	var flags output.Flags
	var team string

	cmd := &cobra.Command{
		Use:   "get <status>...",
		Short: "Show workflow state details",
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

			if team == "" {
				team = sess.Config.Defaults.Team
			}
			if team == "" {
				return fmt.Errorf("team required: pass -t or set defaults.team")
			}
			teamID, err := sess.ResolveTeamID(ctx, client, team)
			if err != nil {
				return err
			}

			refs, err := cliui.ReadLines(args)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return fmt.Errorf("no status names given")
			}

			result, err := client.Query(ctx, getQuery, map[string]any{"teamId": teamID})
			if err != nil {
				return err
			}
			teamData, ok := jsonpath.Get(result, "data", "team")
			if !ok || teamData == nil {
				return clierr.New(clierr.CodeNotFound, "Team not found: %s", team)
			}

			states := jsonpath.Array(teamData, "states", "nodes")
			var found []any
			for _, ref := range refs {
				state := findState(states, ref)
				if state == nil {
					fmt.Fprintf(os.Stderr, "%s Status not found: %s\n", cliui.WarnStyle.Render("!"), ref)
					continue
				}
				found = append(found, state)
			}

			if opts.IsJSON() {
				return output.PrintJSON(found, opts)
			}

			for i, state := range found {
				if i > 0 {
					fmt.Println()
				}
				printStatus(state)
			}
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	cmd.Flags().StringVarP(&team, "team", "t", "", "team key or name")

	return cmd
}

func findState(states []any, ref string) any {
	for _, state := range states {
		if jsonpath.String(state, "", "id") == ref ||
			strings.EqualFold(jsonpath.String(state, "", "name"), ref) {
			return state
		}
	}
	return nil
}

func printStatus(state any) {
	fmt.Println(cliui.NameStyle.Render(jsonpath.String(state, "", "name")))
	printField("Type", jsonpath.String(state, "-", "type"))
	printField("Color", jsonpath.String(state, "-", "color"))
	if position, ok := jsonpath.Number(state, "position"); ok {
		printField("Position", fmt.Sprintf("%.0f", position))
	}
	if desc := jsonpath.String(state, "", "description"); desc != "" {
		printField("Description", desc)
	}
	printField("ID", jsonpath.String(state, "-", "id"))
}

func printField(key, value string) {
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}

func statusColumns() []output.Column {
	return []output.Column{
		{Header: "NAME", Path: "name", MaxWidth: 30, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "name"))
		}},
		{Header: "TYPE", Path: "type"},
		{Header: "COLOR", Path: "color"},
		{Header: "POSITION", Path: "position", Render: func(r any) string {
			if position, ok := jsonpath.Number(r, "position"); ok {
				return fmt.Sprintf("%.0f", position)
			}
			return "-"
		}},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}
