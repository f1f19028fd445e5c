package bulkcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

// inputFunc builds the batch update input. teamID is empty for inputs
// that do not depend on the issue's team.
type inputFunc func(ctx context.Context, sess *session.Session, client *linear.Client, teamID string) (map[string]any, error)

// runBatch is the shared driver for the update-style bulk commands.
// When perTeam is set the input is rebuilt for each team bucket, so
// team-scoped references (states, cycles) resolve against the right
// team.
func runBatch(cmd *cobra.Command, refs []string, flags *output.Flags, action string, perTeam bool, inputFor inputFunc) error {
	ctx := cmd.Context()

	sess, err := session.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts, err := sess.OutputOptions(flags)
	if err != nil {
		return err
	}

	refs, err = readIssueRefs(refs)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return fmt.Errorf("no issues specified: pass -i or pipe IDs with -i -")
	}

	client, err := sess.Client()
	if err != nil {
		return err
	}

	if opts.DryRun {
		input, err := inputFor(ctx, sess, client, "")
		if err != nil && !perTeam {
			return err
		}
		return output.PrintJSON(map[string]any{
			"action": action,
			"issues": refs,
			"input":  input,
		}, opts)
	}

	infos, failures := resolveIssueInfos(ctx, sess, client, refs)

	var results []bulkResult
	if perTeam {
		for teamID, teamInfos := range groupByTeam(infos) {
			input, err := inputFor(ctx, sess, client, teamID)
			if err != nil {
				results = append(results, failAll(teamInfos, err)...)
				continue
			}
			results = append(results, batchUpdate(ctx, client, teamInfos, input)...)
		}
	} else {
		input, err := inputFor(ctx, sess, client, "")
		if err != nil {
			return err
		}
		results = batchUpdate(ctx, client, infos, input)
	}

	return printSummary(append(failures, results...), action, opts)
}

func newUpdateStateCmd() *cobra.Command {
	var flags output.Flags
	var refs []string

	cmd := &cobra.Command{
		Use:     "update-state <state>",
		Aliases: []string{"state"},
		Short:   "Move issues to a workflow state",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, refs, &flags, "state updated", true,
				func(ctx context.Context, sess *session.Session, client *linear.Client, teamID string) (map[string]any, error) {
					if teamID == "" {
						return map[string]any{"state": args[0]}, nil
					}
					stateID, err := sess.ResolveStateID(ctx, client, teamID, args[0])
					if err != nil {
						return nil, err
					}
					return map[string]any{"stateId": stateID}, nil
				})
		},
	}

	registerBatchFlags(cmd, &flags, &refs)
	return cmd
}

func newAssignCmd() *cobra.Command {
	var flags output.Flags
	var refs []string

	cmd := &cobra.Command{
		Use:   "assign <user>",
		Short: "Assign issues to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, refs, &flags, "assigned", false,
				func(ctx context.Context, sess *session.Session, client *linear.Client, _ string) (map[string]any, error) {
					userID, err := sess.ResolveUserID(ctx, client, args[0])
					if err != nil {
						return nil, err
					}
					return map[string]any{"assigneeId": userID}, nil
				})
		},
	}

	registerBatchFlags(cmd, &flags, &refs)
	return cmd
}

func newUnassignCmd() *cobra.Command {
	var flags output.Flags
	var refs []string

	cmd := &cobra.Command{
		Use:   "unassign",
		Short: "Clear the assignee on issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, refs, &flags, "unassigned", false,
				func(context.Context, *session.Session, *linear.Client, string) (map[string]any, error) {
					return map[string]any{"assigneeId": nil}, nil
				})
		},
	}

	registerBatchFlags(cmd, &flags, &refs)
	return cmd
}

func newPriorityCmd() *cobra.Command {
	var flags output.Flags
	var refs []string

	cmd := &cobra.Command{
		Use:   "priority <0-4>",
		Short: "Set priority on issues (0=none, 1=urgent, 4=low)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var priority int
			if _, err := fmt.Sscanf(args[0], "%d", &priority); err != nil || priority < 0 || priority > 4 {
				return fmt.Errorf("priority must be between 0 and 4")
			}
			return runBatch(cmd, refs, &flags, "priority updated", false,
				func(context.Context, *session.Session, *linear.Client, string) (map[string]any, error) {
					return map[string]any{"priority": priority}, nil
				})
		},
	}

	registerBatchFlags(cmd, &flags, &refs)
	return cmd
}

func newLabelCmd() *cobra.Command {
	var flags output.Flags
	var refs []string

	cmd := &cobra.Command{
		Use:   "label <label>",
		Short: "Add a label to issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, refs, &flags, "labeled", false,
				func(ctx context.Context, sess *session.Session, client *linear.Client, _ string) (map[string]any, error) {
					labelID, err := sess.ResolveGlobalLabelID(ctx, client, args[0])
					if err != nil {
						return nil, err
					}
					return map[string]any{"addedLabelIds": []string{labelID}}, nil
				})
		},
	}

	registerBatchFlags(cmd, &flags, &refs)
	return cmd
}

func newProjectCmd() *cobra.Command {
	var flags output.Flags
	var refs []string

	cmd := &cobra.Command{
		Use:   "project <project>",
		Short: "Move issues into a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, refs, &flags, "moved to project", false,
				func(ctx context.Context, sess *session.Session, client *linear.Client, _ string) (map[string]any, error) {
					projectID, err := sess.ResolveProjectID(ctx, client, args[0], true)
					if err != nil {
						return nil, err
					}
					return map[string]any{"projectId": projectID}, nil
				})
		},
	}

	registerBatchFlags(cmd, &flags, &refs)
	return cmd
}

func newCycleCmd() *cobra.Command {
	var flags output.Flags
	var refs []string

	cmd := &cobra.Command{
		Use:   "cycle <cycle>",
		Short: "Move issues into a cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, refs, &flags, "moved to cycle", true,
				func(ctx context.Context, sess *session.Session, client *linear.Client, teamID string) (map[string]any, error) {
					if teamID == "" {
						return map[string]any{"cycle": args[0]}, nil
					}
					cycleID, err := sess.ResolveCycleID(ctx, client, teamID, args[0])
					if err != nil {
						return nil, err
					}
					return map[string]any{"cycleId": cycleID}, nil
				})
		},
	}

	registerBatchFlags(cmd, &flags, &refs)
	return cmd
}

const archiveMutation = `
	mutation($id: String!) {
		issueArchive(id: $id) { success }
	}
`

func newArchiveCmd() *cobra.Command {
	var flags output.Flags
	var refs []string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			refs, err = readIssueRefs(refs)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return fmt.Errorf("no issues specified: pass -i or pipe IDs with -i -")
			}

			client, err := sess.Client()
			if err != nil {
				return err
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{
					"action": "archived",
					"issues": refs,
				}, opts)
			}

			infos, results := resolveIssueInfos(ctx, sess, client, refs)
			for _, info := range infos {
				data, err := client.Mutate(ctx, archiveMutation, map[string]any{"id": info.uuid})
				switch {
				case err != nil:
					results = append(results, bulkResult{IssueID: info.ref, Identifier: info.identifier, Error: err.Error()})
				case !jsonpath.Bool(data, "data", "issueArchive", "success"):
					results = append(results, bulkResult{IssueID: info.ref, Identifier: info.identifier, Error: "archive failed"})
				default:
					results = append(results, bulkResult{IssueID: info.ref, Identifier: info.identifier, Success: true})
				}
			}

			return printSummary(results, "archived", opts)
		},
	}

	registerBatchFlags(cmd, &flags, &refs)
	return cmd
}

func registerBatchFlags(cmd *cobra.Command, flags *output.Flags, refs *[]string) {
	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringSliceVarP(refs, "issues", "i", nil, "comma-separated issue IDs ('-' for stdin)")
}
