package projectscmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const getLongDesc string = `Show a project's details: status, dates, progress, and description.

Examples:
  linctl projects get "Q1 Roadmap"
  linctl p get PROJECT_UUID --output json
  echo "Q1 Roadmap" | linctl p get -`

const getQuery = `
	query($id: String!) {
		project(id: $id) {
			id
			name
			description
			state
			progress
			url
			color
			startDate
			targetDate
			status { name }
			teams { nodes { key name } }
			lead { name }
		}
	}
`

func newGetCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "get <id>...",
		Short: "Show project details",
		Long:  getLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args, flags)
		},
	}

	flags.RegisterFormat(cmd.Flags())

	return cmd
}

func runGet(cmd *cobra.Command, args []string, flags output.Flags) error {
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

	projects := make([]any, 0, len(refs))
	for _, ref := range refs {
		id, err := sess.ResolveProjectID(ctx, client, ref, true)
		if err != nil {
			return err
		}

		result, err := client.Query(ctx, getQuery, map[string]any{"id": id})
		if err != nil {
			return err
		}

		project, ok := jsonpath.Get(result, "data", "project")
		if !ok || project == nil {
			return clierr.New(clierr.CodeNotFound, "Project not found: %s", ref)
		}
		projects = append(projects, project)
	}

	if opts.IsJSON() {
		if len(projects) == 1 {
			return output.PrintJSON(projects[0], opts)
		}
		return output.PrintJSON(projects, opts)
	}

	for i, project := range projects {
		if i > 0 {
			fmt.Println()
		}
		printProject(project)
	}
	return nil
}

func printProject(project any) {
	fmt.Println(cliui.NameStyle.Render(jsonpath.String(project, "", "name")))

	printField("Status", jsonpath.String(project, "-", "status", "name"))
	printField("State", jsonpath.String(project, "-", "state"))
	if p, ok := jsonpath.Number(project, "progress"); ok {
		printField("Progress", fmt.Sprintf("%.0f%%", p*100))
	}
	printField("Lead", jsonpath.String(project, "-", "lead", "name"))
	if start := jsonpath.String(project, "", "startDate"); start != "" {
		printField("Start", start)
	}
	if target := jsonpath.String(project, "", "targetDate"); target != "" {
		printField("Target", target)
	}

	teams := jsonpath.Array(project, "teams", "nodes")
	if len(teams) > 0 {
		keys := make([]string, 0, len(teams))
		for _, t := range teams {
			keys = append(keys, jsonpath.String(t, "", "key"))
		}
		printField("Teams", strings.Join(keys, ", "))
	}

	printField("URL", jsonpath.String(project, "-", "url"))
	printField("ID", jsonpath.String(project, "-", "id"))

	if desc := jsonpath.String(project, "", "description"); desc != "" {
		fmt.Println()
		rendered, err := cliui.RenderMarkdown(desc, 0)
		if err != nil {
			rendered = desc
		}
		fmt.Println(rendered)
	}
}

func printField(key, value string) {
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}
