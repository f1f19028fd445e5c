package issuescmder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const updateLongDesc string = `Update an issue. Only the given flags change; --labels replaces the
full label set. --data merges raw IssueUpdateInput JSON under the
flags.

Examples:
  linctl issues update ENG-123 -s Done
  linctl i update ENG-123 -T "New title" -p 1
  linctl i update ENG-123 -a me --due 2026-09-15
  linctl i update ENG-123 --dry-run -s Done`

const updateShortDesc string = "Update an issue"

const updateMutation = `
	mutation($id: String!, $input: IssueUpdateInput!) {
		issueUpdate(id: $id, input: $input) {
			success
			issue {
				id
				identifier
				title
				url
				state { name }
				assignee { name }
			}
		}
	}
`

type updateFlags struct {
	out         output.Flags
	title       string
	description string
	data        string
	priority    int
	state       string
	assignee    string
	labels      []string
	project     string
	estimate    int
	due         string
	parent      string
}

func newUpdateCmd() *cobra.Command {
	var flags updateFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: updateShortDesc,
		Long:  updateLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args[0], flags)
		},
	}

	flags.out.RegisterFormat(cmd.Flags())
	flags.out.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&flags.title, "title", "T", "", "new title")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "new description (\"-\" for stdin)")
	cmd.Flags().StringVar(&flags.data, "data", "", "raw IssueUpdateInput JSON (\"-\" for stdin)")
	cmd.Flags().IntVarP(&flags.priority, "priority", "p", -1, "new priority (0 none, 1 urgent, 2 high, 3 normal, 4 low)")
	cmd.Flags().StringVarP(&flags.state, "state", "s", "", "new state name")
	cmd.Flags().StringVarP(&flags.assignee, "assignee", "a", "", "new assignee (name, email, or \"me\")")
	cmd.Flags().StringArrayVarP(&flags.labels, "label", "l", nil, "new labels, replacing existing (repeatable)")
	cmd.Flags().StringVar(&flags.project, "project", "", "new project name")
	cmd.Flags().IntVar(&flags.estimate, "estimate", -1, "new estimate points")
	cmd.Flags().StringVar(&flags.due, "due", "", "new due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.parent, "parent", "", "new parent issue identifier")

	return cmd
}

func runUpdate(cmd *cobra.Command, ref string, flags updateFlags) error {
	ctx := cmd.Context()

	sess, err := session.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts, err := sess.OutputOptions(&flags.out)
	if err != nil {
		return err
	}

	client, err := sess.Client()
	if err != nil {
		return err
	}

	id, err := sess.ResolveIssueID(ctx, client, ref, true)
	if err != nil {
		return err
	}

	input, err := buildUpdateInput(ctx, sess, client, id, flags)
	if err != nil {
		return err
	}
	if len(input) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	if opts.DryRun {
		return output.PrintJSON(map[string]any{"id": id, "input": input}, opts)
	}

	result, err := client.Mutate(ctx, updateMutation, map[string]any{"id": id, "input": input})
	if err != nil {
		return err
	}
	if !jsonpath.Bool(result, "data", "issueUpdate", "success") {
		return fmt.Errorf("failed to update issue")
	}

	issue, _ := jsonpath.Get(result, "data", "issueUpdate", "issue")
	identifier := jsonpath.String(issue, "", "identifier")

	if opts.IDOnly {
		fmt.Println(identifier)
		return nil
	}
	if opts.IsJSON() {
		return output.PrintJSON(issue, opts)
	}

	fmt.Printf("%s Updated %s %s\n",
		cliui.SuccessMark,
		cliui.IDStyle.Render(identifier),
		jsonpath.String(issue, "", "title"),
	)
	return nil
}

// buildUpdateInput needs the issue's team for state and label
// resolution, fetched only when one of those flags is set.
func buildUpdateInput(ctx context.Context, sess *session.Session, client *linear.Client, id string, flags updateFlags) (map[string]any, error) {
	input := map[string]any{}

	if flags.data != "" {
		raw, err := cliui.ReadArg(flags.data)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return nil, fmt.Errorf("parsing --data JSON: %w", err)
		}
	}

	var teamID string
	if flags.state != "" || len(flags.labels) > 0 {
		result, err := client.Query(ctx, `query($id: String!) { issue(id: $id) { team { id } } }`,
			map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		teamID = jsonpath.String(result, "", "data", "issue", "team", "id")
		if teamID == "" {
			return nil, fmt.Errorf("could not determine the issue's team")
		}
	}

	if flags.title != "" {
		input["title"] = flags.title
	}
	if flags.description != "" {
		desc, err := cliui.ReadArg(flags.description)
		if err != nil {
			return nil, err
		}
		input["description"] = desc
	}
	if flags.priority >= 0 {
		input["priority"] = flags.priority
	}
	if flags.state != "" {
		stateID, err := sess.ResolveStateID(ctx, client, teamID, flags.state)
		if err != nil {
			return nil, err
		}
		input["stateId"] = stateID
	}
	if flags.assignee != "" {
		userID, err := sess.ResolveUserID(ctx, client, flags.assignee)
		if err != nil {
			return nil, err
		}
		input["assigneeId"] = userID
	}
	if len(flags.labels) > 0 {
		labelIDs, err := sess.ResolveLabelIDs(ctx, client, teamID, flags.labels)
		if err != nil {
			return nil, err
		}
		input["labelIds"] = labelIDs
	}
	if flags.project != "" {
		projectID, err := sess.ResolveProjectID(ctx, client, flags.project, false)
		if err != nil {
			return nil, err
		}
		input["projectId"] = projectID
	}
	if flags.estimate >= 0 {
		input["estimate"] = flags.estimate
	}
	if flags.due != "" {
		input["dueDate"] = flags.due
	}
	if flags.parent != "" {
		parentID, err := sess.ResolveIssueID(ctx, client, flags.parent, true)
		if err != nil {
			return nil, err
		}
		input["parentId"] = parentID
	}

	return input, nil
}
