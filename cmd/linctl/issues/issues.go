// Package issuescmder provides the issues command group: listing,
// inspecting, creating, updating, and driving the lifecycle of Linear
// issues.
package issuescmder

import (
	"github.com/spf13/cobra"
)

const issuesLongDesc string = `Work with Linear issues.

Issues are referenced by identifier (ENG-123) or UUID. Team, state,
assignee, label, and project references accept names as well as UUIDs;
names resolve case-insensitively.

Examples:
  linctl issues list -t ENG                List a team's issues
  linctl i list --assignee me              List my issues
  linctl i get ENG-123                     Show one issue
  linctl i create "Fix login" -t ENG       Create an issue
  linctl i update ENG-123 -s Done          Mark an issue done
  linctl i start ENG-123 --checkout        Start work on a branch`

const issuesShortDesc string = "Work with Linear issues"

func NewIssuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issues",
		Aliases: []string{"i"},
		Short:   issuesShortDesc,
		Long:    issuesLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newArchiveCmd())
	cmd.AddCommand(newUnarchiveCmd())
	cmd.AddCommand(newSubscribeCmd())
	cmd.AddCommand(newUnsubscribeCmd())

	return cmd
}
