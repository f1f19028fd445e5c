package issuescmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/session"
)

const deleteLongDesc string = `Delete an issue. Asks for confirmation unless --force is given.

Examples:
  linctl issues delete ENG-123
  linctl i delete ENG-123 --force`

const deleteShortDesc string = "Delete an issue"

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: deleteShortDesc,
		Long:  deleteLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func runDelete(cmd *cobra.Command, ref string, force bool) error {
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

	if !force {
		ok, err := cliui.Confirm(fmt.Sprintf("Delete issue %s?", ref))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	result, err := client.Mutate(ctx,
		`mutation($id: String!) { issueDelete(id: $id) { success } }`,
		map[string]any{"id": id})
	if err != nil {
		return err
	}
	if !jsonpath.Bool(result, "data", "issueDelete", "success") {
		return fmt.Errorf("failed to delete issue")
	}

	fmt.Printf("%s Deleted %s\n", cliui.SuccessMark, cliui.IDStyle.Render(ref))
	return nil
}
