// Package cyclescmder provides the cycles command group.
package cyclescmder

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const cyclesLongDesc string = `Work with team cycles (sprints).

Every cycle command is scoped to a team, passed with -t or taken from
defaults.team in the config file.

Examples:
  linctl cycles list -t ENG
  linctl c current -t ENG
  linctl c create -t ENG --starts-at 2026-09-07 --ends-at 2026-09-21`

const cyclesShortDesc string = "Work with team cycles"

func NewCyclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cycles",
		Aliases: []string{"c"},
		Short:   cyclesShortDesc,
		Long:    cyclesLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCurrentCmd())
	cmd.AddCommand(newCreateCmd())

	return cmd
}

// requireTeam resolves the -t value, falling back to defaults.team.
func requireTeam(ctx context.Context, sess *session.Session, client *linear.Client, team string) (string, error) {
	if team == "" {
		team = sess.Config.Defaults.Team
	}
	if team == "" {
		return "", fmt.Errorf("team required: pass -t or set defaults.team")
	}
	return sess.ResolveTeamID(ctx, client, team)
}

const listQuery = `
	query($teamId: String!, $first: Int, $after: String) {
		team(id: $teamId) {
			cycles(first: $first, after: $after) {
				nodes {
					id
					name
					number
					startsAt
					endsAt
					completedAt
					progress
				}
				pageInfo {
					hasNextPage
					endCursor
				}
			}
		}
	}
`

func newListCmd() *cobra.Command {
	var flags output.Flags
	var team string
	var includeCompleted bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cycles for a team",
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

			teamID, err := requireTeam(ctx, sess, client, team)
			if err != nil {
				return err
			}

			cycles, err := client.PaginateNodes(ctx, listQuery,
				map[string]any{"teamId": teamID},
				linear.PageOptions{Limit: opts.Limit, PageSize: opts.PageSize, All: opts.All},
				"data", "team", "cycles")
			if err != nil {
				return err
			}

			if !includeCompleted {
				live := cycles[:0]
				for _, c := range cycles {
					if completed, ok := jsonpath.Get(c, "completedAt"); !ok || completed == nil {
						live = append(live, c)
					}
				}
				cycles = live
			}

			return output.PrintRecords(cycles, cycleColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())
	cmd.Flags().StringVarP(&team, "team", "t", "", "team key or name")
	cmd.Flags().BoolVar(&includeCompleted, "completed", false, "include completed cycles")

	return cmd
}

func cycleColumns() []output.Column {
	return []output.Column{
		{Header: "NUMBER", Path: "number", Render: func(r any) string {
			number, _ := jsonpath.Number(r, "number")
			return fmt.Sprintf("%d", int(number))
		}},
		{Header: "NAME", Path: "name", MaxWidth: 40, Render: func(r any) string {
			return cliui.NameStyle.Render(jsonpath.String(r, "", "name"))
		}},
		{Header: "STARTS", Path: "startsAt", Render: func(r any) string {
			return jsonpath.String(r, "-", "startsAt")
		}},
		{Header: "ENDS", Path: "endsAt", Render: func(r any) string {
			return jsonpath.String(r, "-", "endsAt")
		}},
		{Header: "PROGRESS", Path: "progress", Render: func(r any) string {
			progress, _ := jsonpath.Number(r, "progress")
			return fmt.Sprintf("%.0f%%", progress*100)
		}},
		{Header: "ID", Path: "id", Render: func(r any) string {
			return cliui.DimStyle.Render(jsonpath.String(r, "", "id"))
		}},
	}
}

const currentQuery = `
	query($teamId: String!) {
		team(id: $teamId) {
			id
			name
			activeCycle {
				id
				name
				number
				startsAt
				endsAt
				progress
				issues(first: 50) {
					nodes {
						id
						identifier
						title
						state { name type }
					}
				}
			}
		}
	}
`

func newCurrentCmd() *cobra.Command {
	var flags output.Flags
	var team string

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the team's active cycle",
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

			teamID, err := requireTeam(ctx, sess, client, team)
			if err != nil {
				return err
			}

			result, err := client.Query(ctx, currentQuery, map[string]any{"teamId": teamID})
			if err != nil {
				return err
			}

			teamData, _ := jsonpath.Get(result, "data", "team")
			if opts.IsJSON() {
				return output.PrintJSON(teamData, opts)
			}

			teamName := jsonpath.String(teamData, "", "name")
			cycle, ok := jsonpath.Get(teamData, "activeCycle")
			if !ok || cycle == nil {
				fmt.Printf("No active cycle for team %s.\n", cliui.NameStyle.Render(teamName))
				return nil
			}

			printCycle(teamName, cycle)
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	cmd.Flags().StringVarP(&team, "team", "t", "", "team key or name")

	return cmd
}

func printCycle(teamName string, cycle any) {
	number, _ := jsonpath.Number(cycle, "number")
	name := jsonpath.String(cycle, "", "name")
	if name == "" {
		name = fmt.Sprintf("Cycle %d", int(number))
	}

	fmt.Println(cliui.HeaderStyle.Render("Current Cycle: " + name))
	printField("Team", teamName)
	printField("Number", fmt.Sprintf("%d", int(number)))
	printField("Start", dateOnly(jsonpath.String(cycle, "-", "startsAt")))
	printField("End", dateOnly(jsonpath.String(cycle, "-", "endsAt")))
	progress, _ := jsonpath.Number(cycle, "progress")
	printField("Progress", fmt.Sprintf("%.0f%%", progress*100))
	printField("ID", jsonpath.String(cycle, "-", "id"))

	issues := jsonpath.Array(cycle, "issues", "nodes")
	if len(issues) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(cliui.HeaderStyle.Render("Issues in this cycle"))
	for _, issue := range issues {
		fmt.Printf("  %s %s [%s]\n",
			cliui.IDStyle.Render(jsonpath.String(issue, "", "identifier")),
			jsonpath.String(issue, "", "title"),
			jsonpath.String(issue, "-", "state", "name"))
	}
}

func printField(key, value string) {
	fmt.Printf("%s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}

func dateOnly(value string) string {
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}

func newCreateCmd() *cobra.Command {
	var flags output.Flags
	var team, name, description, startsAt, endsAt string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if startsAt == "" || endsAt == "" {
				return fmt.Errorf("--starts-at and --ends-at are required")
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

			teamID, err := requireTeam(ctx, sess, client, team)
			if err != nil {
				return err
			}

			input := map[string]any{
				"teamId":   teamID,
				"startsAt": normalizeDatetime(startsAt, false),
				"endsAt":   normalizeDatetime(endsAt, true),
			}
			if name != "" {
				input["name"] = name
			}
			if description != "" {
				input["description"] = description
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			result, err := client.Mutate(ctx, `
				mutation($input: CycleCreateInput!) {
					cycleCreate(input: $input) {
						success
						cycle { id name number startsAt endsAt }
					}
				}
			`, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "cycleCreate", "success") {
				return fmt.Errorf("failed to create cycle")
			}

			cycle, _ := jsonpath.Get(result, "data", "cycleCreate", "cycle")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(cycle, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(cycle, opts)
			}

			created := jsonpath.String(cycle, "", "name")
			if created == "" {
				number, _ := jsonpath.Number(cycle, "number")
				created = fmt.Sprintf("Cycle %d", int(number))
			}
			fmt.Printf("%s Created cycle %s\n", cliui.SuccessMark, cliui.NameStyle.Render(created))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&team, "team", "t", "", "team key or name")
	cmd.Flags().StringVarP(&name, "name", "n", "", "cycle name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "cycle description")
	cmd.Flags().StringVar(&startsAt, "starts-at", "", "start date (YYYY-MM-DD or ISO datetime)")
	cmd.Flags().StringVar(&endsAt, "ends-at", "", "end date (YYYY-MM-DD or ISO datetime)")

	return cmd
}

// normalizeDatetime expands a bare YYYY-MM-DD date into a full ISO
// timestamp at the start or end of the day. Full datetimes pass through
// untouched.
func normalizeDatetime(value string, endOfDay bool) string {
	if len(value) != 10 {
		return value
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return value
	}
	if endOfDay {
		return value + "T23:59:59.000Z"
	}
	return value + "T00:00:00.000Z"
}
