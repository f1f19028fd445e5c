// Package cachecmder provides the cache command group for the local
// resolution cache.
package cachecmder

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/session"
)

const cacheLongDesc string = `Inspect and clear the local resolution cache.

Resolved IDs for teams, users, labels, states, and other references
are cached in cache.db in the .linctl/ directory so repeated commands
skip the lookup round trips. Entries expire after a day.

Examples:
  linctl cache status
  linctl cache clear`

const cacheShortDesc string = "Inspect and clear the local resolution cache"

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: cacheShortDesc,
		Long:  cacheLongDesc,
	}

	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newClearCmd())

	return cmd
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cache entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			c := sess.Cache()
			if c == nil {
				fmt.Printf("  %s Cache disabled.\n", cliui.DimStyle.Render("●"))
				return nil
			}

			stats, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}

			if stats.Entries == 0 {
				fmt.Printf("  %s Cache is empty.\n", cliui.DimStyle.Render("●"))
				return nil
			}

			fmt.Printf("\n  %s  %d\n\n", cliui.KeyStyle.Render("Cached resolutions:"), stats.Entries)

			kinds := make([]string, 0, len(stats.ByKind))
			for kind := range stats.ByKind {
				kinds = append(kinds, kind)
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				fmt.Printf("    %-16s %d\n", kind, stats.ByKind[kind])
			}
			fmt.Println()
			return nil
		},
	}

	return cmd
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached resolutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			c := sess.Cache()
			if c == nil {
				fmt.Printf("  %s Cache disabled.\n", cliui.DimStyle.Render("●"))
				return nil
			}

			if err := c.Clear(cmd.Context()); err != nil {
				return err
			}

			fmt.Printf("  %s Cache cleared.\n", cliui.SuccessMark)
			return nil
		},
	}

	return cmd
}
