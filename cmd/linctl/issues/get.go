package issuescmder

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

const getLongDesc string = `Show one or more issues with full details: description, state, team,
assignee, labels, and attachments. Descriptions render as markdown on
the terminal.

Examples:
  linctl issues get ENG-123
  linctl i get ENG-1 ENG-2 ENG-3
  linctl i get ENG-123 --output json --fields identifier,state.name
  echo ENG-123 | linctl i get -`

const getShortDesc string = "Show issue details"

const getQuery = `
	query($id: String!) {
		issue(id: $id) {
			id
			identifier
			title
			description
			priority
			estimate
			dueDate
			url
			branchName
			createdAt
			updatedAt
			state { name type }
			team { key name }
			assignee { name email }
			labels { nodes { name } }
			attachments { nodes { id title url } }
		}
	}
`

func newGetCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "get <id>...",
		Short: getShortDesc,
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

	ids, err := cliui.ReadLines(args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no issue IDs given")
	}

	issues := make([]any, 0, len(ids))
	for _, ref := range ids {
		issue, err := fetchIssue(ctx, sess, client, ref)
		if err != nil {
			return err
		}
		issues = append(issues, issue)
	}

	if opts.IsJSON() {
		if len(issues) == 1 {
			return output.PrintJSON(issues[0], opts)
		}
		return output.PrintJSON(issues, opts)
	}

	for i, issue := range issues {
		if i > 0 {
			fmt.Println()
		}
		printIssue(issue)
	}
	return nil
}

func fetchIssue(ctx context.Context, sess *session.Session, client *linear.Client, ref string) (any, error) {
	id, err := sess.ResolveIssueID(ctx, client, ref, true)
	if err != nil {
		return nil, err
	}

	result, err := client.Query(ctx, getQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}

	issue, ok := jsonpath.Get(result, "data", "issue")
	if !ok || issue == nil {
		return nil, clierr.New(clierr.CodeNotFound, "Issue not found: %s", ref)
	}
	return issue, nil
}

func printIssue(issue any) {
	identifier := jsonpath.String(issue, "", "identifier")
	title := jsonpath.String(issue, "", "title")

	fmt.Printf("%s %s\n", cliui.IDStyle.Render(identifier), cliui.NameStyle.Render(title))

	printField("State", jsonpath.String(issue, "-", "state", "name"))
	p, _ := jsonpath.Number(issue, "priority")
	printField("Priority", cliui.Priority(int(p)))
	printField("Team", jsonpath.String(issue, "-", "team", "name"))
	printField("Assignee", jsonpath.String(issue, "-", "assignee", "name"))
	if due := jsonpath.String(issue, "", "dueDate"); due != "" {
		printField("Due", due)
	}
	if e, ok := jsonpath.Number(issue, "estimate"); ok && e > 0 {
		printField("Estimate", fmt.Sprintf("%g", e))
	}

	labels := jsonpath.Array(issue, "labels", "nodes")
	if len(labels) > 0 {
		names := make([]string, 0, len(labels))
		for _, l := range labels {
			names = append(names, jsonpath.String(l, "", "name"))
		}
		printField("Labels", joinNonEmpty(names))
	}

	printField("URL", jsonpath.String(issue, "-", "url"))
	if branch := jsonpath.String(issue, "", "branchName"); branch != "" {
		printField("Branch", branch)
	}

	if desc := jsonpath.String(issue, "", "description"); desc != "" {
		fmt.Println()
		rendered, err := cliui.RenderMarkdown(desc, 0)
		if err != nil {
			rendered = desc
		}
		fmt.Println(rendered)
	}

	attachments := jsonpath.Array(issue, "attachments", "nodes")
	if len(attachments) > 0 {
		fmt.Printf("\n%s\n", cliui.HeaderStyle.Render("Attachments"))
		for _, a := range attachments {
			fmt.Printf("  %s  %s\n",
				jsonpath.String(a, "", "title"),
				cliui.DimStyle.Render(jsonpath.String(a, "", "url")),
			)
		}
	}
}

func printField(key, value string) {
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}

func joinNonEmpty(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
