package issuescmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/gitutil"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/session"
)

// Lifecycle commands: start, stop, archive, unarchive, subscribe,
// unsubscribe.

const startLongDesc string = `Start working on an issue: move it to the team's "started" state and
assign it to you. With --checkout, also switch to the issue's git
branch, creating it if needed.

Examples:
  linctl issues start ENG-123
  linctl i start ENG-123 --checkout
  linctl i start ENG-123 -c -b feature/login-fix`

const startQuery = `
	query($id: String!) {
		issue(id: $id) {
			id
			identifier
			title
			branchName
			team {
				id
				states { nodes { id name type } }
			}
		}
		viewer { id }
	}
`

func newStartCmd() *cobra.Command {
	var checkout bool
	var branch string

	cmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start working on an issue",
		Long:  startLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, args[0], checkout, branch)
		},
	}

	cmd.Flags().BoolVarP(&checkout, "checkout", "c", false, "checkout a git branch for the issue")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "custom branch name")

	return cmd
}

func runStart(cmd *cobra.Command, ref string, checkout bool, customBranch string) error {
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

	id, err := sess.ResolveIssueID(ctx, client, ref, true)
	if err != nil {
		return err
	}

	result, err := client.Query(ctx, startQuery, map[string]any{"id": id})
	if err != nil {
		return err
	}

	issue, ok := jsonpath.Get(result, "data", "issue")
	if !ok || issue == nil {
		return clierr.New(clierr.CodeNotFound, "Issue not found: %s", ref)
	}

	viewerID := jsonpath.String(result, "", "data", "viewer", "id")
	stateID, stateName := findStateByType(jsonpath.Array(issue, "team", "states", "nodes"), "started")
	if stateID == "" {
		return fmt.Errorf("no 'started' state found for this team")
	}

	if err := updateIssueState(ctx, client, id, map[string]any{
		"stateId":    stateID,
		"assigneeId": viewerID,
	}); err != nil {
		return err
	}

	fmt.Printf("%s Started %s %s\n",
		cliui.SuccessMark,
		cliui.IDStyle.Render(jsonpath.String(issue, "", "identifier")),
		jsonpath.String(issue, "", "title"),
	)
	printField("State", stateName)
	printField("Assignee", "me")

	if !checkout {
		return nil
	}

	branch := customBranch
	if branch == "" {
		branch = jsonpath.String(issue, "", "branchName")
	}
	if branch == "" {
		branch = gitutil.GenerateBranchName(
			jsonpath.String(issue, "", "identifier"),
			jsonpath.String(issue, "", "title"),
		)
	}

	created, err := gitutil.Checkout(ctx, branch)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("\n%s Created and checked out branch %s\n", cliui.SuccessMark, cliui.NameStyle.Render(branch))
	} else {
		fmt.Printf("\n%s Checked out branch %s\n", cliui.SuccessMark, cliui.NameStyle.Render(branch))
	}
	return nil
}

const stopLongDesc string = `Stop working on an issue: return it to the team's backlog (or
unstarted) state, optionally unassigning it.

Examples:
  linctl issues stop ENG-123
  linctl i stop ENG-123 --unassign`

func newStopCmd() *cobra.Command {
	var unassign bool

	cmd := &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop working on an issue",
		Long:  stopLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(cmd, args[0], unassign)
		},
	}

	cmd.Flags().BoolVarP(&unassign, "unassign", "u", false, "also unassign the issue")

	return cmd
}

func runStop(cmd *cobra.Command, ref string, unassign bool) error {
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

	id, err := sess.ResolveIssueID(ctx, client, ref, true)
	if err != nil {
		return err
	}

	result, err := client.Query(ctx, startQuery, map[string]any{"id": id})
	if err != nil {
		return err
	}

	issue, ok := jsonpath.Get(result, "data", "issue")
	if !ok || issue == nil {
		return clierr.New(clierr.CodeNotFound, "Issue not found: %s", ref)
	}

	states := jsonpath.Array(issue, "team", "states", "nodes")
	stateID, stateName := findStateByType(states, "backlog")
	if stateID == "" {
		stateID, stateName = findStateByType(states, "unstarted")
	}
	if stateID == "" {
		return fmt.Errorf("no backlog or unstarted state found for this team")
	}

	input := map[string]any{"stateId": stateID}
	if unassign {
		input["assigneeId"] = nil
	}
	if err := updateIssueState(ctx, client, id, input); err != nil {
		return err
	}

	fmt.Printf("%s Stopped %s %s\n",
		cliui.SuccessMark,
		cliui.IDStyle.Render(jsonpath.String(issue, "", "identifier")),
		jsonpath.String(issue, "", "title"),
	)
	printField("State", stateName)
	return nil
}

func findStateByType(states []any, stateType string) (id, name string) {
	for _, s := range states {
		if jsonpath.String(s, "", "type") == stateType {
			return jsonpath.String(s, "", "id"), jsonpath.String(s, "", "name")
		}
	}
	return "", ""
}

func updateIssueState(ctx context.Context, client *linear.Client, id string, input map[string]any) error {
	result, err := client.Mutate(ctx,
		`mutation($id: String!, $input: IssueUpdateInput!) { issueUpdate(id: $id, input: $input) { success } }`,
		map[string]any{"id": id, "input": input})
	if err != nil {
		return err
	}
	if !jsonpath.Bool(result, "data", "issueUpdate", "success") {
		return fmt.Errorf("failed to update issue")
	}
	return nil
}

func newArchiveCmd() *cobra.Command {
	return simpleIssueCmd("archive",
		"Archive an issue",
		`mutation($id: String!) { issueArchive(id: $id) { success } }`,
		"issueArchive", "Archived")
}

func newUnarchiveCmd() *cobra.Command {
	return simpleIssueCmd("unarchive",
		"Restore an archived issue",
		`mutation($id: String!) { issueUnarchive(id: $id) { success } }`,
		"issueUnarchive", "Unarchived")
}

// simpleIssueCmd covers the mutations that take only the issue ID.
func simpleIssueCmd(use, short, mutation, field, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
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

			id, err := sess.ResolveIssueID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			result, err := client.Mutate(ctx, mutation, map[string]any{"id": id})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", field, "success") {
				return fmt.Errorf("failed to %s issue", use)
			}

			fmt.Printf("%s %s %s\n", cliui.SuccessMark, verb, cliui.IDStyle.Render(args[0]))
			return nil
		},
	}
}

const subscribeLongDesc string = `Subscribe a user to an issue's notifications. Defaults to you.

Examples:
  linctl issues subscribe ENG-123
  linctl i subscribe ENG-123 --user ada@example.com`

func newSubscribeCmd() *cobra.Command {
	return subscriptionCmd("subscribe", "Subscribe to an issue", subscribeLongDesc,
		`mutation($id: String!, $userId: String!) { issueSubscribe(id: $id, userId: $userId) { success } }`,
		"issueSubscribe", "Subscribed to")
}

func newUnsubscribeCmd() *cobra.Command {
	return subscriptionCmd("unsubscribe", "Unsubscribe from an issue", "",
		`mutation($id: String!, $userId: String!) { issueUnsubscribe(id: $id, userId: $userId) { success } }`,
		"issueUnsubscribe", "Unsubscribed from")
}

func subscriptionCmd(use, short, long, mutation, field, verb string) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Long:  long,
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

			id, err := sess.ResolveIssueID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			userID, err := sess.ResolveUserID(ctx, client, user)
			if err != nil {
				return err
			}

			result, err := client.Mutate(ctx, mutation, map[string]any{"id": id, "userId": userID})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", field, "success") {
				return fmt.Errorf("failed to %s issue", use)
			}

			fmt.Printf("%s %s %s\n", cliui.SuccessMark, verb, cliui.IDStyle.Render(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "me", "user to affect (name, email, or \"me\")")

	return cmd
}
