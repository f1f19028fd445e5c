// Package linctlcmder assembles the linctl root command.
package linctlcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/linctl/linctl/cmd/linctl/auth"
	bulkcmder "github.com/linctl/linctl/cmd/linctl/bulk"
	cachecmder "github.com/linctl/linctl/cmd/linctl/cache"
	commentscmder "github.com/linctl/linctl/cmd/linctl/comments"
	configcmder "github.com/linctl/linctl/cmd/linctl/config"
	cyclescmder "github.com/linctl/linctl/cmd/linctl/cycles"
	docscmder "github.com/linctl/linctl/cmd/linctl/docs"
	doctorcmder "github.com/linctl/linctl/cmd/linctl/doctor"
	gitcmder "github.com/linctl/linctl/cmd/linctl/git"
	initiativescmder "github.com/linctl/linctl/cmd/linctl/initiatives"
	issuescmder "github.com/linctl/linctl/cmd/linctl/issues"
	labelscmder "github.com/linctl/linctl/cmd/linctl/labels"
	projectscmder "github.com/linctl/linctl/cmd/linctl/projects"
	relationscmder "github.com/linctl/linctl/cmd/linctl/relations"
	searchcmder "github.com/linctl/linctl/cmd/linctl/search"
	statusescmder "github.com/linctl/linctl/cmd/linctl/statuses"
	teamscmder "github.com/linctl/linctl/cmd/linctl/teams"
	uploadscmder "github.com/linctl/linctl/cmd/linctl/uploads"
	userscmder "github.com/linctl/linctl/cmd/linctl/users"
	viewscmder "github.com/linctl/linctl/cmd/linctl/views"
	workspacecmder "github.com/linctl/linctl/cmd/linctl/workspace"
	versioncmder "github.com/linctl/linctl/cmd/version"
	"github.com/linctl/linctl/pkg/cliui"
)

const linctlLongDesc string = `linctl is a command line client for Linear.

Authenticate once with 'linctl auth login' (or set LINEAR_API_KEY),
then manage issues, projects, teams, and the rest of your workspace
from the terminal. Most references accept either a name or an ID, and
'-' reads values from stdin for piping between commands.

Common commands:
  linctl issues list -t ENG            List a team's issues
  linctl i create "Fix login" -t ENG   Create an issue
  linctl p list                        List projects
  linctl search issues "timeout"       Search issue titles and bodies`

const linctlShortDesc string = "A command line client for Linear"

func NewLinctlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "linctl",
		Short:         linctlShortDesc,
		Long:          linctlLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().String("config-dir", "", "Override the .linctl directory location")
	cmd.PersistentFlags().String("profile", "", "Credential profile to use")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("no-retry", false, "Disable retries on transient API failures")
	cmd.PersistentFlags().Bool("no-cache", false, "Disable the local resolution cache")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor || cliui.ColorDisabledByEnv() {
			cliui.DisableColor()
		}
	}

	// Add subcommands
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(bulkcmder.NewBulkCmd())
	cmd.AddCommand(cachecmder.NewCacheCmd())
	cmd.AddCommand(commentscmder.NewCommentsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(cyclescmder.NewCyclesCmd())
	cmd.AddCommand(docscmder.NewDocsCmd())
	cmd.AddCommand(doctorcmder.NewDoctorCmd())
	cmd.AddCommand(gitcmder.NewGitCmd())
	cmd.AddCommand(initiativescmder.NewInitiativesCmd())
	cmd.AddCommand(issuescmder.NewIssuesCmd())
	cmd.AddCommand(labelscmder.NewLabelsCmd())
	cmd.AddCommand(projectscmder.NewProjectsCmd())
	cmd.AddCommand(relationscmder.NewRelationsCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(statusescmder.NewStatusesCmd())
	cmd.AddCommand(teamscmder.NewTeamsCmd())
	cmd.AddCommand(uploadscmder.NewUploadsCmd())
	cmd.AddCommand(userscmder.NewUsersCmd())
	cmd.AddCommand(viewscmder.NewViewsCmd())
	cmd.AddCommand(workspacecmder.NewWorkspaceCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
