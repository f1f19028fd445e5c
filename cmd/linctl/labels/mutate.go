package labelscmder

import (
	"fmt"
	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const defaultLabelColor = "#6B7280"

func newCreateCmd() *cobra.Command {
	var flags output.Flags
	var labelType, team, color, description, parent string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			names, err := labelConnection(labelType)
			if err != nil {
				return err
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

			input := map[string]any{
				"name":  args[0],
				"color": color,
			}
			if parent != "" {
				input["parentId"] = parent
			}
			if description != "" {
				input["description"] = description
			}

			if labelType == "issue" {
				if team == "" {
					team = sess.Config.Defaults.Team
				}
				if team == "" {
					return fmt.Errorf("--team is required for issue labels")
				}
				teamID, err := sess.ResolveTeamID(ctx, client, team)
				if err != nil {
					return err
				}
				input["teamId"] = teamID
			} else if description != "" {
				return fmt.Errorf("description is only supported for issue labels")
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			mutation := fmt.Sprintf(`
				mutation($input: %sCreateInput!) {
					%sCreate(input: $input) {
						success
						%s { id name color }
					}
				}
			`, names.inputType, names.prefix, names.prefix)

			result, err := client.Mutate(ctx, mutation, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", names.prefix+"Create", "success") {
				return fmt.Errorf("failed to create label")
			}

			label, _ := jsonpath.Get(result, "data", names.prefix+"Create", names.prefix)
			if opts.IDOnly {
				fmt.Println(jsonpath.String(label, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(label, opts)
			}

			fmt.Printf("%s Created %s label %s\n", cliui.SuccessMark, labelType,
				cliui.NameStyle.Render(jsonpath.String(label, "", "name")))
			fmt.Printf("  %s\n", cliui.DimStyle.Render(jsonpath.String(label, "", "id")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&labelType, "type", "t", "project", "label type (issue or project)")
	cmd.Flags().StringVar(&team, "team", "", "team key or name (required for issue labels)")
	cmd.Flags().StringVarP(&color, "color-hex", "c", defaultLabelColor, "label color (hex)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "label description (issue labels only)")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent label ID for grouped labels")

	return cmd
}

func newUpdateCmd() *cobra.Command {
	var flags output.Flags
	var labelType, name, color, description string

	cmd := &cobra.Command{
		Use:   "update <label-id>",
		Short: "Update a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			names, err := labelConnection(labelType)
			if err != nil {
				return err
			}
			if labelType == "project" && description != "" {
				return fmt.Errorf("description is only supported for issue labels")
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

			input := map[string]any{}
			if name != "" {
				input["name"] = name
			}
			if color != "" {
				input["color"] = color
			}
			if description != "" {
				input["description"] = description
			}
			if len(input) == 0 {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"id": args[0], "input": input}, opts)
			}

			mutation := fmt.Sprintf(`
				mutation($id: String!, $input: %sUpdateInput!) {
					%sUpdate(id: $id, input: $input) {
						success
						%s { id name color }
					}
				}
			`, names.inputType, names.prefix, names.prefix)

			result, err := client.Mutate(ctx, mutation, map[string]any{"id": args[0], "input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", names.prefix+"Update", "success") {
				return fmt.Errorf("failed to update label")
			}

			label, _ := jsonpath.Get(result, "data", names.prefix+"Update", names.prefix)
			if opts.IsJSON() {
				return output.PrintJSON(label, opts)
			}

			fmt.Printf("%s Updated %s label %s\n", cliui.SuccessMark, labelType,
				cliui.NameStyle.Render(jsonpath.String(label, "", "name")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&labelType, "type", "t", "project", "label type (issue or project)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "new label name")
	cmd.Flags().StringVarP(&color, "color-hex", "c", "", "new color (hex)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description (issue labels only)")

	return cmd
}

func newDeleteCmd() *cobra.Command {
	var labelType string
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <label-id>",
		Short: "Delete a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			names, err := labelConnection(labelType)
			if err != nil {
				return err
			}

			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			client, err := sess.Client()
			if err != nil {
				return err
			}

			if !force {
				ok, err := cliui.Confirm(fmt.Sprintf("Delete %s label %s?", labelType, args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Aborted.")
					return nil
				}
			}

			mutation := fmt.Sprintf(`
				mutation($id: String!) {
					%sDelete(id: $id) { success }
				}
			`, names.prefix)

			result, err := client.Mutate(ctx, mutation, map[string]any{"id": args[0]})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", names.prefix+"Delete", "success") {
				return fmt.Errorf("failed to delete label")
			}

			fmt.Printf("%s Deleted %s label %s\n", cliui.SuccessMark, labelType, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&labelType, "type", "t", "project", "label type (issue or project)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}
