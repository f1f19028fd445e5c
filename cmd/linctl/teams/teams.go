// Package teamscmder provides the teams command group.
package teamscmder

import (
	"github.com/spf13/cobra"
)

const teamsLongDesc string = `Work with Linear teams.

Teams are referenced by key (ENG), name, or UUID; keys and names
resolve case-insensitively.

Examples:
  linctl teams list
  linctl t get ENG
  linctl t create "Platform" PLT
  echo -e "ENG\nOPS" | linctl t get -`

const teamsShortDesc string = "Work with Linear teams"

func NewTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teams",
		Aliases: []string{"t"},
		Short:   teamsShortDesc,
		Long:    teamsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newUpdateCmd())

	return cmd
}
