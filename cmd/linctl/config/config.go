// Package configcmder provides the config command for managing persistent
// linctl configuration stored in the .linctl/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent linctl configuration.

Configuration is stored as config.toml in the .linctl/ directory and
provides default values for command flags. CLI flags always take
precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  profile, api.url,
  defaults.team, defaults.page_size,
  output.format, output.width,
  retry.max_retries, retry.initial_delay_ms, retry.max_delay_ms

Use subcommands to get, set, or list configuration values:
  linctl config set <key> <value>   Set a configuration value
  linctl config get <key>           Get a configuration value
  linctl config list                List all configuration values

Examples:
  linctl config set defaults.team ENG
  linctl config set output.format json
  linctl config get defaults.team
  linctl config list`

const configShortDesc string = "Manage persistent linctl configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
