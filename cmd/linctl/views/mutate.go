package viewscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const createMutation = `
	mutation($input: CustomViewCreateInput!) {
		customViewCreate(input: $input) {
			success
			customView {
				id
				name
				shared
				slugId
				updatedAt
				owner { name }
				team { key }
			}
		}
	}
`

const updateMutation = `
	mutation($id: String!, $input: CustomViewUpdateInput!) {
		customViewUpdate(id: $id, input: $input) {
			success
			customView {
				id
				name
				shared
				slugId
				updatedAt
				owner { name }
				team { key }
			}
		}
	}
`

const deleteMutation = `
	mutation($id: String!) {
		customViewDelete(id: $id) {
			success
			entityId
		}
	}
`

// viewFields carries the flag values shared by create and update.
type viewFields struct {
	description    string
	icon           string
	color          string
	team           string
	project        string
	initiative     string
	owner          string
	filter         string
	projectFilter  string
	initFilter     string
	feedItemFilter string
}

func (f *viewFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "view description")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon emoji or identifier")
	cmd.Flags().StringVarP(&f.color, "color-hex", "c", "", "view color (hex)")
	cmd.Flags().StringVarP(&f.team, "team", "t", "", "team key or name to scope the view to")
	cmd.Flags().StringVar(&f.project, "project", "", "project name or ID to scope the view to")
	cmd.Flags().StringVar(&f.initiative, "initiative", "", "initiative name or ID to scope the view to")
	cmd.Flags().StringVar(&f.owner, "owner", "", "view owner (user name, email, or \"me\")")
	cmd.Flags().StringVar(&f.filter, "filter-data", "", "issue filter JSON (inline, @file, or -)")
	cmd.Flags().StringVar(&f.projectFilter, "project-filter-data", "", "project filter JSON (inline, @file, or -)")
	cmd.Flags().StringVar(&f.initFilter, "initiative-filter-data", "", "initiative filter JSON (inline, @file, or -)")
	cmd.Flags().StringVar(&f.feedItemFilter, "feed-item-filter-data", "", "feed item filter JSON (inline, @file, or -)")
}

func (f *viewFields) apply(ctx context.Context, sess *session.Session, client *linear.Client, input map[string]any) error {
	if f.description != "" {
		input["description"] = f.description
	}
	if f.icon != "" {
		input["icon"] = f.icon
	}
	if f.color != "" {
		input["color"] = f.color
	}

	filters := []struct {
		key string
		raw string
	}{
		{"filterData", f.filter},
		{"projectFilterData", f.projectFilter},
		{"initiativeFilterData", f.initFilter},
		{"feedItemFilterData", f.feedItemFilter},
	}
	for _, filter := range filters {
		if filter.raw == "" {
			continue
		}
		parsed, err := parseJSONObject(filter.raw)
		if err != nil {
			return err
		}
		input[filter.key] = parsed
	}

	if f.team != "" {
		teamID, err := sess.ResolveTeamID(ctx, client, f.team)
		if err != nil {
			return err
		}
		input["teamId"] = teamID
	}
	if f.project != "" {
		projectID, err := sess.ResolveProjectID(ctx, client, f.project, true)
		if err != nil {
			return err
		}
		input["projectId"] = projectID
	}
	if f.initiative != "" {
		initiativeID, err := sess.ResolveInitiativeID(ctx, client, f.initiative, true)
		if err != nil {
			return err
		}
		input["initiativeId"] = initiativeID
	}
	if f.owner != "" {
		ownerID, err := sess.ResolveUserID(ctx, client, f.owner)
		if err != nil {
			return err
		}
		input["ownerId"] = ownerID
	}
	return nil
}

func newCreateCmd() *cobra.Command {
	var flags output.Flags
	var fields viewFields
	var shared bool
	var data string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a custom view",
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

			input, err := baseInput(data)
			if err != nil {
				return err
			}
			input["name"] = args[0]
			if shared {
				input["shared"] = true
			}
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
			if !jsonpath.Bool(result, "data", "customViewCreate", "success") {
				return fmt.Errorf("failed to create custom view")
			}

			view, _ := jsonpath.Get(result, "data", "customViewCreate", "customView")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(view, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(view, opts)
			}

			fmt.Printf("%s Created custom view %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(view, "", "name")))
			fmt.Printf("  %s\n", cliui.DimStyle.Render(jsonpath.String(view, "", "id")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	fields.register(cmd)
	cmd.Flags().BoolVar(&shared, "shared", false, "share the view with the workspace")
	cmd.Flags().StringVar(&data, "data", "", "full input JSON (inline, @file, or -)")

	return cmd
}

func newUpdateCmd() *cobra.Command {
	var flags output.Flags
	var fields viewFields
	var name string
	var shared bool
	var data string

	cmd := &cobra.Command{
		Use:   "update <view-id>",
		Short: "Update a custom view",
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

			input, err := baseInput(data)
			if err != nil {
				return err
			}
			if name != "" {
				input["name"] = name
			}
			if cmd.Flags().Changed("shared") {
				input["shared"] = shared
			}
			if err := fields.apply(ctx, sess, client, input); err != nil {
				return err
			}
			if len(input) == 0 {
				return fmt.Errorf("nothing to update: pass field flags or --data")
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"id": args[0], "input": input}, opts)
			}

			result, err := client.Mutate(ctx, updateMutation, map[string]any{"id": args[0], "input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "customViewUpdate", "success") {
				return fmt.Errorf("failed to update custom view")
			}

			view, _ := jsonpath.Get(result, "data", "customViewUpdate", "customView")
			if opts.IsJSON() {
				return output.PrintJSON(view, opts)
			}

			fmt.Printf("%s Updated custom view %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(view, "", "name")))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	fields.register(cmd)
	cmd.Flags().StringVarP(&name, "name", "n", "", "new view name")
	cmd.Flags().BoolVar(&shared, "shared", false, "share or unshare the view")
	cmd.Flags().StringVar(&data, "data", "", "full input JSON (inline, @file, or -)")

	return cmd
}

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <view-id>",
		Short: "Delete a custom view",
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

			if !force {
				ok, err := cliui.Confirm(fmt.Sprintf("Delete custom view %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Aborted.")
					return nil
				}
			}

			result, err := client.Mutate(ctx, deleteMutation, map[string]any{"id": args[0]})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "customViewDelete", "success") {
				return fmt.Errorf("failed to delete custom view")
			}

			fmt.Printf("%s Deleted custom view %s\n", cliui.SuccessMark, cliui.IDStyle.Render(args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

// baseInput seeds a mutation input from --data, or an empty map.
func baseInput(data string) (map[string]any, error) {
	if data == "" {
		return map[string]any{}, nil
	}
	return parseJSONObject(data)
}

// parseJSONObject reads a JSON object from an inline string, a file
// (@path or an existing path), or stdin when the value is "-".
func parseJSONObject(value string) (map[string]any, error) {
	var raw []byte
	switch {
	case value == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		raw = data
	case strings.HasPrefix(value, "@"):
		data, err := os.ReadFile(strings.TrimPrefix(value, "@"))
		if err != nil {
			return nil, err
		}
		raw = data
	default:
		if _, err := os.Stat(value); err == nil {
			data, err := os.ReadFile(value)
			if err != nil {
				return nil, err
			}
			raw = data
		} else {
			raw = []byte(value)
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return parsed, nil
}
