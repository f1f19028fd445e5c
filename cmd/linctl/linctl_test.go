package linctlcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	linctlcmder "github.com/linctl/linctl/cmd/linctl"
)

var _ = Describe("NewLinctlCmd", func() {
	var cmd *cobra.Command

	BeforeEach(func() {
		cmd = linctlcmder.NewLinctlCmd()
	})

	It("creates a command with the correct use string", func() {
		Expect(cmd.Use).To(Equal("linctl"))
	})

	It("registers all command groups", func() {
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements(
			"auth", "bulk", "cache", "comments", "config", "cycles",
			"docs", "doctor", "git", "initiatives", "issues", "labels",
			"projects", "relations", "search", "statuses", "teams",
			"uploads", "users", "views", "workspace", "version",
		))
	})

	It("registers the short aliases", func() {
		aliases := map[string]string{
			"i":   "issues",
			"p":   "projects",
			"t":   "teams",
			"u":   "users",
			"c":   "cycles",
			"l":   "labels",
			"cm":  "comments",
			"s":   "search",
			"b":   "bulk",
			"g":   "git",
			"j":   "docs",
			"sy":  "statuses",
			"ui":  "views",
			"ws":  "workspace",
			"in":  "initiatives",
			"rel": "relations",
			"up":  "uploads",
		}
		for alias, want := range aliases {
			found, _, err := cmd.Find([]string{alias})
			Expect(err).NotTo(HaveOccurred(), "alias %q", alias)
			Expect(found.Name()).To(Equal(want), "alias %q", alias)
		}
	})

	It("defines the global flags", func() {
		for _, name := range []string{"config-dir", "profile", "debug", "no-retry", "no-cache", "no-color"} {
			Expect(cmd.PersistentFlags().Lookup(name)).NotTo(BeNil(), "flag %q", name)
		}
	})
})
