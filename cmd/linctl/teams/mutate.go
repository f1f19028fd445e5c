package teamscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

func newCreateCmd() *cobra.Command {
	var flags output.Flags
	var description, color, icon string

	cmd := &cobra.Command{
		Use:   "create <name> <key>",
		Short: "Create a team",
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

			input := map[string]any{
				"name": args[0],
				"key":  args[1],
			}
			if description != "" {
				input["description"] = description
			}
			if color != "" {
				input["color"] = color
			}
			if icon != "" {
				input["icon"] = icon
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			result, err := client.Mutate(ctx, `
				mutation($input: TeamCreateInput!) {
					teamCreate(input: $input) {
						success
						team { id key name description color icon }
					}
				}
			`, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "teamCreate", "success") {
				return fmt.Errorf("failed to create team")
			}

			team, _ := jsonpath.Get(result, "data", "teamCreate", "team")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(team, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(team, opts)
			}

			fmt.Printf("%s Created team %s %s\n", cliui.SuccessMark,
				cliui.IDStyle.Render(jsonpath.String(team, "", "key")),
				cliui.NameStyle.Render(jsonpath.String(team, "", "name")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&description, "description", "d", "", "team description")
	cmd.Flags().StringVarP(&color, "color-hex", "c", "", "team color (hex)")
	cmd.Flags().StringVar(&icon, "icon", "", "team icon")

	return cmd
}

func newUpdateCmd() *cobra.Command {
	var flags output.Flags
	var name, description, color, icon string

	cmd := &cobra.Command{
		Use:   "update <team>",
		Short: "Update a team",
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

			teamID, err := sess.ResolveTeamID(ctx, client, args[0])
			if err != nil {
				return err
			}

			input := map[string]any{}
			if name != "" {
				input["name"] = name
			}
			if description != "" {
				input["description"] = description
			}
			if color != "" {
				input["color"] = color
			}
			if icon != "" {
				input["icon"] = icon
			}
			if len(input) == 0 {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"id": teamID, "input": input}, opts)
			}

			result, err := client.Mutate(ctx, `
				mutation($id: String!, $input: TeamUpdateInput!) {
					teamUpdate(id: $id, input: $input) {
						success
						team { id key name description color icon }
					}
				}
			`, map[string]any{"id": teamID, "input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "teamUpdate", "success") {
				return fmt.Errorf("failed to update team")
			}

			team, _ := jsonpath.Get(result, "data", "teamUpdate", "team")
			if opts.IsJSON() {
				return output.PrintJSON(team, opts)
			}

			fmt.Printf("%s Updated team %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(team, "", "name")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&name, "name", "n", "", "new team name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&color, "color-hex", "c", "", "new color (hex)")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon")

	return cmd
}
