// Package gitcmder provides the git command group, which bridges
// issues to local branches.
package gitcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/gitutil"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const gitLongDesc string = `Work with git branches tied to issues.

Branch names come from Linear's suggested branch name when one exists,
otherwise from the issue identifier and a slug of its title.

Examples:
  linctl git branch ENG-123
  linctl g checkout ENG-123
  git checkout -b "$(linctl g branch ENG-123)"`

const gitShortDesc string = "Work with git branches tied to issues"

const branchQuery = `
	query($id: String!) {
		issue(id: $id) {
			id
			identifier
			title
			branchName
		}
	}
`

func NewGitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "git",
		Aliases: []string{"g"},
		Short:   gitShortDesc,
		Long:    gitLongDesc,
	}

	cmd.AddCommand(newBranchCmd())
	cmd.AddCommand(newCheckoutCmd())

	return cmd
}

func newBranchCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "branch <issue>",
		Short: "Print the branch name for an issue",
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

			issue, branch, err := issueBranch(ctx, sess, client, args[0])
			if err != nil {
				return err
			}

			if opts.IsJSON() {
				return output.PrintJSON(map[string]any{
					"identifier": jsonpath.String(issue, "", "identifier"),
					"branch":     branch,
				}, opts)
			}

			fmt.Println(branch)
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())

	return cmd
}

func newCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout <issue>",
		Short: "Check out the branch for an issue, creating it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !gitutil.Installed() {
				return fmt.Errorf("git is not installed")
			}
			if !gitutil.IsRepo(ctx) {
				return fmt.Errorf("not inside a git repository")
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

			_, branch, err := issueBranch(ctx, sess, client, args[0])
			if err != nil {
				return err
			}

			created, err := gitutil.Checkout(ctx, branch)
			if err != nil {
				return err
			}

			verb := "Checked out"
			if created {
				verb = "Created"
			}
			fmt.Printf("%s %s branch %s\n", cliui.SuccessMark, verb, cliui.NameStyle.Render(branch))
			return nil
		},
	}

	return cmd
}

// issueBranch fetches an issue and picks its branch name: Linear's
// suggestion when present, a generated identifier/slug otherwise.
func issueBranch(ctx context.Context, sess *session.Session, client *linear.Client, ref string) (any, string, error) {
	id, err := sess.ResolveIssueID(ctx, client, ref, true)
	if err != nil {
		return nil, "", err
	}

	result, err := client.Query(ctx, branchQuery, map[string]any{"id": id})
	if err != nil {
		return nil, "", err
	}

	issue, ok := jsonpath.Get(result, "data", "issue")
	if !ok || issue == nil {
		return nil, "", clierr.New(clierr.CodeNotFound, "Issue not found: %s", ref)
	}

	branch := jsonpath.String(issue, "", "branchName")
	if branch == "" {
		branch = gitutil.GenerateBranchName(
			jsonpath.String(issue, "", "identifier"),
			jsonpath.String(issue, "", "title"))
	}
	return issue, branch, nil
}
