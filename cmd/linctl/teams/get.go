package teamscmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const getQuery = `
	query($id: String!) {
		team(id: $id) {
			id
			name
			key
			description
			icon
			color
			private
			timezone
			issueCount
			createdAt
			updatedAt
		}
	}
`

func newGetCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "get <team>...",
		Short: "Show team details",
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

			refs, err := cliui.ReadLines(args)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return fmt.Errorf("no team IDs given")
			}

			teams := make([]any, 0, len(refs))
			for _, ref := range refs {
				team, err := fetchTeam(ctx, sess, client, ref)
				if err != nil {
					return err
				}
				teams = append(teams, team)
			}

			if opts.IsJSON() {
				if len(teams) == 1 {
					return output.PrintJSON(teams[0], opts)
				}
				return output.PrintJSON(teams, opts)
			}

			for i, team := range teams {
				if i > 0 {
					fmt.Println()
				}
				printTeam(team)
			}
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())

	return cmd
}

func fetchTeam(ctx context.Context, sess *session.Session, client *linear.Client, ref string) (any, error) {
	id, err := sess.ResolveTeamID(ctx, client, ref)
	if err != nil {
		return nil, err
	}

	result, err := client.Query(ctx, getQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}

	team, ok := jsonpath.Get(result, "data", "team")
	if !ok || team == nil {
		return nil, clierr.New(clierr.CodeNotFound, "Team not found: %s", ref)
	}
	return team, nil
}

func printTeam(team any) {
	fmt.Printf("%s %s\n",
		cliui.IDStyle.Render(jsonpath.String(team, "", "key")),
		cliui.NameStyle.Render(jsonpath.String(team, "", "name")))

	if desc := jsonpath.String(team, "", "description"); desc != "" {
		printField("Description", desc)
	}
	private, _ := jsonpath.Get(team, "private")
	printField("Private", fmt.Sprintf("%v", private == true))
	if tz := jsonpath.String(team, "", "timezone"); tz != "" {
		printField("Timezone", tz)
	}
	if count, ok := jsonpath.Number(team, "issueCount"); ok {
		printField("Issues", fmt.Sprintf("%d", int(count)))
	}
	if color := jsonpath.String(team, "", "color"); color != "" {
		printField("Color", color)
	}
	printField("ID", jsonpath.String(team, "-", "id"))
	if created := jsonpath.String(team, "", "createdAt"); created != "" {
		printField("Created", created)
	}
}

func printField(key, value string) {
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}
