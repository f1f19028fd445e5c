package initiativescmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const createMutation = `
	mutation($input: InitiativeCreateInput!) {
		initiativeCreate(input: $input) {
			success
			initiative { id name status }
		}
	}
`

const updateMutation = `
	mutation($id: String!, $input: InitiativeUpdateInput!) {
		initiativeUpdate(id: $id, input: $input) {
			success
			initiative { id name status }
		}
	}
`

const linkMutation = `
	mutation($input: InitiativeToProjectCreateInput!) {
		initiativeToProjectCreate(input: $input) {
			success
			initiativeToProject {
				id
				initiative { id }
				project { id }
			}
		}
	}
`

const unlinkMutation = `
	mutation($id: String!) {
		initiativeToProjectDelete(id: $id) {
			success
		}
	}
`

const linkLookupQuery = `
	query($projectId: String!, $first: Int, $after: String) {
		project(id: $projectId) {
			initiativeToProjects(first: $first, after: $after) {
				nodes {
					id
					initiative { id }
				}
				pageInfo {
					hasNextPage
					endCursor
				}
			}
		}
	}
`

// normalizeInitiativeStatus maps the lowercase CLI value to the cased
// value the API expects.
func normalizeInitiativeStatus(status string) (string, error) {
	switch strings.ToLower(status) {
	case "planned":
		return "Planned", nil
	case "active":
		return "Active", nil
	case "completed":
		return "Completed", nil
	default:
		return "", fmt.Errorf("invalid status %q: use planned, active, or completed", status)
	}
}

// initiativeFields carries the flag values shared by create and update.
type initiativeFields struct {
	description string
	content     string
	owner       string
	status      string
	targetDate  string
	color       string
	icon        string
}

func (f *initiativeFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "initiative description")
	cmd.Flags().StringVar(&f.content, "content", "", "initiative content (markdown, or - for stdin)")
	cmd.Flags().StringVar(&f.owner, "owner", "", "owner (user name, email, or \"me\")")
	cmd.Flags().StringVar(&f.status, "status", "", "status (planned, active, completed)")
	cmd.Flags().StringVar(&f.targetDate, "target-date", "", "target date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.color, "color-hex", "", "initiative color (hex)")
	cmd.Flags().StringVar(&f.icon, "icon", "", "initiative icon")
}

func (f *initiativeFields) apply(ctx context.Context, sess *session.Session, client *linear.Client, input map[string]any) error {
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
	if f.owner != "" {
		ownerID, err := sess.ResolveUserID(ctx, client, f.owner)
		if err != nil {
			return err
		}
		input["ownerId"] = ownerID
	}
	if f.status != "" {
		status, err := normalizeInitiativeStatus(f.status)
		if err != nil {
			return err
		}
		input["status"] = status
	}
	if f.targetDate != "" {
		input["targetDate"] = f.targetDate
	}
	if f.color != "" {
		input["color"] = f.color
	}
	if f.icon != "" {
		input["icon"] = f.icon
	}
	return nil
}

func newCreateCmd() *cobra.Command {
	var flags output.Flags
	var fields initiativeFields

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an initiative",
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

			input := map[string]any{"name": args[0]}
			if err := fields.apply(ctx, sess, client, input); err != nil {
				return err
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			result, err := client.Mutate(ctx, createMutation, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "initiativeCreate", "success") {
				return fmt.Errorf("failed to create initiative")
			}

			initiative, _ := jsonpath.Get(result, "data", "initiativeCreate", "initiative")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(initiative, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(initiative, opts)
			}

			fmt.Printf("%s Created initiative %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(initiative, "", "name")))
			fmt.Printf("  %s\n", cliui.DimStyle.Render(jsonpath.String(initiative, "", "id")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	fields.register(cmd)

	return cmd
}

func newUpdateCmd() *cobra.Command {
	var flags output.Flags
	var fields initiativeFields
	var name string

	cmd := &cobra.Command{
		Use:   "update <initiative>",
		Short: "Update an initiative",
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

			initiativeID, err := sess.ResolveInitiativeID(ctx, client, args[0], true)
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
				return output.PrintJSON(map[string]any{"id": initiativeID, "input": input}, opts)
			}

			result, err := client.Mutate(ctx, updateMutation, map[string]any{"id": initiativeID, "input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "initiativeUpdate", "success") {
				return fmt.Errorf("failed to update initiative")
			}

			initiative, _ := jsonpath.Get(result, "data", "initiativeUpdate", "initiative")
			if opts.IsJSON() {
				return output.PrintJSON(initiative, opts)
			}

			fmt.Printf("%s Updated initiative %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(initiative, "", "name")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	fields.register(cmd)
	cmd.Flags().StringVarP(&name, "name", "n", "", "new initiative name")

	return cmd
}

// initiativeToggleCmd builds the archive and unarchive commands, which
// differ only in the mutation field.
func initiativeToggleCmd(use, short, mutation, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <initiative>",
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

			initiativeID, err := sess.ResolveInitiativeID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			query := fmt.Sprintf(`
				mutation($id: String!) {
					%s(id: $id) {
						success
						entity { id name }
					}
				}
			`, mutation)
			result, err := client.Mutate(ctx, query, map[string]any{"id": initiativeID})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", mutation, "success") {
				return fmt.Errorf("failed to %s initiative", use)
			}

			name := jsonpath.String(result, args[0], "data", mutation, "entity", "name")
			fmt.Printf("%s Initiative %s: %s\n", cliui.SuccessMark, verb, cliui.NameStyle.Render(name))
			return nil
		},
	}
}

func newLinkCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "link <initiative> <project>",
		Short: "Link a project to an initiative",
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

			initiativeID, err := sess.ResolveInitiativeID(ctx, client, args[0], true)
			if err != nil {
				return err
			}
			projectID, err := sess.ResolveProjectID(ctx, client, args[1], true)
			if err != nil {
				return err
			}

			input := map[string]any{
				"initiativeId": initiativeID,
				"projectId":    projectID,
			}
			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			result, err := client.Mutate(ctx, linkMutation, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "initiativeToProjectCreate", "success") {
				return fmt.Errorf("failed to link project to initiative")
			}

			if opts.IsJSON() {
				link, _ := jsonpath.Get(result, "data", "initiativeToProjectCreate", "initiativeToProject")
				return output.PrintJSON(link, opts)
			}

			fmt.Printf("%s Linked %s to %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(args[1]), cliui.NameStyle.Render(args[0]))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())

	return cmd
}

func newUnlinkCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "unlink <initiative> <project>",
		Short: "Unlink a project from an initiative",
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

			initiativeID, err := sess.ResolveInitiativeID(ctx, client, args[0], true)
			if err != nil {
				return err
			}
			projectID, err := sess.ResolveProjectID(ctx, client, args[1], true)
			if err != nil {
				return err
			}

			linkID, err := resolveLinkID(ctx, client, initiativeID, projectID)
			if err != nil {
				return err
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"id": linkID}, opts)
			}

			result, err := client.Mutate(ctx, unlinkMutation, map[string]any{"id": linkID})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "initiativeToProjectDelete", "success") {
				return fmt.Errorf("failed to unlink project from initiative")
			}

			if opts.IsJSON() {
				return output.PrintJSON(map[string]any{
					"unlinked":     true,
					"initiativeId": initiativeID,
					"projectId":    projectID,
				}, opts)
			}

			fmt.Printf("%s Unlinked %s from %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(args[1]), cliui.NameStyle.Render(args[0]))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())

	return cmd
}

// resolveLinkID finds the initiativeToProject join record connecting an
// initiative and a project.
func resolveLinkID(ctx context.Context, client *linear.Client, initiativeID, projectID string) (string, error) {
	links, err := client.PaginateNodes(ctx, linkLookupQuery,
		map[string]any{"projectId": projectID},
		linear.PageOptions{Limit: 200, PageSize: 100},
		"data", "project", "initiativeToProjects")
	if err != nil {
		return "", err
	}

	for _, link := range links {
		if jsonpath.String(link, "", "initiative", "id") == initiativeID {
			if id := jsonpath.String(link, "", "id"); id != "" {
				return id, nil
			}
		}
	}
	return "", fmt.Errorf("project is not linked to the specified initiative")
}
