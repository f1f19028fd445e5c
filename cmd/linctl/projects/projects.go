// Package projectscmder provides the projects command group.
package projectscmder

import (
	"github.com/spf13/cobra"
)

const projectsLongDesc string = `Work with Linear projects.

Projects are referenced by name or UUID; names resolve
case-insensitively, falling back to archived projects when no live
match exists.

Examples:
  linctl projects list
  linctl p get "Q1 Roadmap"
  linctl p create "Q1 Roadmap" -t ENG
  linctl p updates list "Q1 Roadmap"`

const projectsShortDesc string = "Work with Linear projects"

func NewProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"p"},
		Short:   projectsShortDesc,
		Long:    projectsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newArchiveCmd())
	cmd.AddCommand(newUnarchiveCmd())
	cmd.AddCommand(newUpdatesCmd())

	return cmd
}
