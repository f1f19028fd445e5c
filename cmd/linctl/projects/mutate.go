package projectscmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const createLongDesc string = `Create a project on a team.

Examples:
  linctl projects create "Q1 Roadmap" -t ENG
  linctl p create "Redesign" -t ENG -d "New design system" --target-date 2026-12-01
  linctl p create "Infra" -t ENG --status started`

type projectFields struct {
	description string
	content     string
	color       string
	icon        string
	startDate   string
	targetDate  string
	status      string
}

func (f *projectFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "project summary")
	cmd.Flags().StringVar(&f.content, "content", "", "long-form markdown content")
	cmd.Flags().StringVarP(&f.color, "color", "c", "", "project color (hex)")
	cmd.Flags().StringVar(&f.icon, "icon", "", "project icon")
	cmd.Flags().StringVar(&f.startDate, "start-date", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.targetDate, "target-date", "", "target date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.status, "status", "", "status name or type (planned, started, paused, completed, canceled)")
}

func newCreateCmd() *cobra.Command {
	var flags output.Flags
	var fields projectFields
	var team string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Long:  createLongDesc,
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

			input := map[string]any{
				"name":    args[0],
				"teamIds": []string{teamID},
			}
			if err := fields.apply(ctx, sess, client, input); err != nil {
				return err
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			result, err := client.Mutate(ctx, `
				mutation($input: ProjectCreateInput!) {
					projectCreate(input: $input) {
						success
						project { id name url }
					}
				}
			`, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "projectCreate", "success") {
				return fmt.Errorf("failed to create project")
			}

			project, _ := jsonpath.Get(result, "data", "projectCreate", "project")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(project, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(project, opts)
			}

			fmt.Printf("%s Created project %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(project, "", "name")))
			fmt.Printf("  %s\n", cliui.DimStyle.Render(jsonpath.String(project, "", "url")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&team, "team", "t", "", "team key or name")
	fields.register(cmd)

	return cmd
}

// apply copies the set field flags into a mutation input, resolving
// the status reference.
func (f *projectFields) apply(ctx context.Context, sess *session.Session, client *linear.Client, input map[string]any) error {
	if f.description != "" {
		input["description"] = f.description
	}
	if f.content != "" {
		content, err := cliui.ReadArg(f.content)
		if err != nil {
			return err
		}
		input["content"] = content
	}
	if f.color != "" {
		input["color"] = f.color
	}
	if f.icon != "" {
		input["icon"] = f.icon
	}
	if f.startDate != "" {
		input["startDate"] = f.startDate
	}
	if f.targetDate != "" {
		input["targetDate"] = f.targetDate
	}
	if f.status != "" {
		statusID, err := sess.ResolveProjectStatusID(ctx, client, f.status)
		if err != nil {
			return err
		}
		input["statusId"] = statusID
	}
	return nil
}

func newUpdateCmd() *cobra.Command {
	var flags output.Flags
	var fields projectFields
	var name string

	cmd := &cobra.Command{
		Use:   "update <project>",
		Short: "Update a project",
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

			projectID, err := sess.ResolveProjectID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			input := map[string]any{}
			if name != "" {
				input["name"] = name
			}
			if err := fields.apply(ctx, sess, client, input); err != nil {
				return err
			}
			if len(input) == 0 {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"id": projectID, "input": input}, opts)
			}

			result, err := client.Mutate(ctx, `
				mutation($id: String!, $input: ProjectUpdateInput!) {
					projectUpdate(id: $id, input: $input) {
						success
						project { id name state url }
					}
				}
			`, map[string]any{"id": projectID, "input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "projectUpdate", "success") {
				return fmt.Errorf("failed to update project")
			}

			project, _ := jsonpath.Get(result, "data", "projectUpdate", "project")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(project, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(project, opts)
			}

			fmt.Printf("%s Updated project %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(project, "", "name")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&name, "name", "n", "", "new project name")
	fields.register(cmd)

	return cmd
}

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			client, err := sess.Client()
			if err != nil {
				return err
			}

			projectID, err := sess.ResolveProjectID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			if !force {
				ok, err := cliui.Confirm(fmt.Sprintf("Delete project %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Aborted.")
					return nil
				}
			}

			result, err := client.Mutate(ctx, `
				mutation($id: String!) {
					projectDelete(id: $id) { success }
				}
			`, map[string]any{"id": projectID})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "projectDelete", "success") {
				return fmt.Errorf("failed to delete project")
			}

			fmt.Printf("%s Deleted project %s\n", cliui.SuccessMark, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func newArchiveCmd() *cobra.Command {
	return projectToggleCmd("archive", "Archive a project", "projectArchive", "Archived")
}

func newUnarchiveCmd() *cobra.Command {
	return projectToggleCmd("unarchive", "Unarchive a project", "projectUnarchive", "Unarchived")
}

// projectToggleCmd builds the archive and unarchive commands, which
// differ only in the mutation field.
func projectToggleCmd(use, short, mutation, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <project>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			client, err := sess.Client()
			if err != nil {
				return err
			}

			projectID, err := sess.ResolveProjectID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			query := fmt.Sprintf(`
				mutation($id: String!) {
					%s(id: $id) { success }
				}
			`, mutation)
			result, err := client.Mutate(ctx, query, map[string]any{"id": projectID})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", mutation, "success") {
				return fmt.Errorf("failed to %s project", use)
			}

			fmt.Printf("%s %s project %s\n", cliui.SuccessMark, verb, args[0])
			return nil
		},
	}
}
