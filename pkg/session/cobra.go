package session

import (
	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/output"
)

// FromCommand builds a session from the root command's persistent
// flags.
func FromCommand(cmd *cobra.Command) (*Session, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	profile, _ := cmd.Flags().GetString("profile")
	debug, _ := cmd.Flags().GetBool("debug")
	noRetry, _ := cmd.Flags().GetBool("no-retry")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	return New(Options{
		ConfigDir: configDir,
		Profile:   profile,
		Debug:     debug,
		NoRetry:   noRetry,
		NoCache:   noCache,
	})
}

// OutputOptions resolves output flags against the config defaults for
// format, page size, and table width.
func (s *Session) OutputOptions(f *output.Flags) (output.Options, error) {
	opts, err := f.Options(s.Config.Output.Format, s.Config.Defaults.PageSize)
	if err != nil {
		return output.Options{}, err
	}
	if opts.Width == 0 {
		opts.Width = s.Config.Output.Width
	}
	return opts, nil
}
