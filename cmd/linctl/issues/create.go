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

const createLongDesc string = `Create an issue. The team comes from -t or the defaults.team config
key. State, assignee, labels, and project accept names; they resolve to
UUIDs before the mutation.

--data merges raw IssueCreateInput JSON under the flags, for fields
without a dedicated flag. --dry-run prints the resolved input instead
of creating.

Examples:
  linctl issues create "Fix login" -t ENG
  linctl i create "Spike" -t ENG -p 2 -a me -l Bug -l Backend
  linctl i create "Task" -t ENG --description - < body.md
  linctl i create "Bug" -t ENG --dry-run`

const createShortDesc string = "Create an issue"

const createMutation = `
	mutation($input: IssueCreateInput!) {
		issueCreate(input: $input) {
			success
			issue {
				id
				identifier
				title
				url
			}
		}
	}
`

type createFlags struct {
	out         output.Flags
	team        string
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

func newCreateCmd() *cobra.Command {
	var flags createFlags

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: createShortDesc,
		Long:  createLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args[0], flags)
		},
	}

	flags.out.RegisterFormat(cmd.Flags())
	flags.out.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&flags.team, "team", "t", "", "team key or name")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "issue description (markdown, \"-\" for stdin)")
	cmd.Flags().StringVar(&flags.data, "data", "", "raw IssueCreateInput JSON (\"-\" for stdin)")
	cmd.Flags().IntVarP(&flags.priority, "priority", "p", -1, "priority (0 none, 1 urgent, 2 high, 3 normal, 4 low)")
	cmd.Flags().StringVarP(&flags.state, "state", "s", "", "state name")
	cmd.Flags().StringVarP(&flags.assignee, "assignee", "a", "", "assignee (name, email, or \"me\")")
	cmd.Flags().StringArrayVarP(&flags.labels, "label", "l", nil, "label to add (repeatable)")
	cmd.Flags().StringVar(&flags.project, "project", "", "project name")
	cmd.Flags().IntVar(&flags.estimate, "estimate", -1, "estimate points")
	cmd.Flags().StringVar(&flags.due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.parent, "parent", "", "parent issue identifier")

	return cmd
}

func runCreate(cmd *cobra.Command, title string, flags createFlags) error {
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

	input, err := buildCreateInput(ctx, sess, client, title, flags)
	if err != nil {
		return err
	}

	if opts.DryRun {
		return output.PrintJSON(map[string]any{"input": input}, opts)
	}

	result, err := client.Mutate(ctx, createMutation, map[string]any{"input": input})
	if err != nil {
		return err
	}
	if !jsonpath.Bool(result, "data", "issueCreate", "success") {
		return fmt.Errorf("failed to create issue")
	}

	issue, _ := jsonpath.Get(result, "data", "issueCreate", "issue")
	identifier := jsonpath.String(issue, "", "identifier")

	if opts.IDOnly {
		fmt.Println(identifier)
		return nil
	}
	if opts.IsJSON() {
		return output.PrintJSON(issue, opts)
	}

	fmt.Printf("%s Created %s %s\n",
		cliui.SuccessMark,
		cliui.IDStyle.Render(identifier),
		jsonpath.String(issue, "", "title"),
	)
	fmt.Printf("  %s\n", cliui.DimStyle.Render(jsonpath.String(issue, "", "url")))
	return nil
}

func buildCreateInput(ctx context.Context, sess *session.Session, client *linear.Client, title string, flags createFlags) (map[string]any, error) {
	input := map[string]any{}

	// --data seeds the input; flags override it below.
	if flags.data != "" {
		raw, err := cliui.ReadArg(flags.data)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return nil, fmt.Errorf("parsing --data JSON: %w", err)
		}
	}

	input["title"] = title

	team := flags.team
	if team == "" {
		if t, ok := input["teamId"].(string); ok && t != "" {
			team = t
		} else {
			team = sess.Config.Defaults.Team
		}
	}
	if team == "" {
		return nil, fmt.Errorf("team required: pass -t or set defaults.team")
	}
	teamID, err := sess.ResolveTeamID(ctx, client, team)
	if err != nil {
		return nil, err
	}
	input["teamId"] = teamID

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
