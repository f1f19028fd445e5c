package viewscmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	viewscmder "github.com/linctl/linctl/cmd/linctl/views"
)

var _ = Describe("NewViewsCmd", func() {
	It("creates a command with the ui alias", func() {
		cmd := viewscmder.NewViewsCmd()
		Expect(cmd.Use).To(Equal("views"))
		Expect(cmd.Aliases).To(ContainElement("ui"))
	})

	It("has the full set of subcommands", func() {
		cmd := viewscmder.NewViewsCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("list", "get", "create", "update", "delete"))
	})

	It("requires a name argument for create", func() {
		cmd := viewscmder.NewViewsCmd()
		cmd.SetArgs([]string{"create"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})

	It("requires a view ID for update", func() {
		cmd := viewscmder.NewViewsCmd()
		cmd.SetArgs([]string{"update"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})

	It("defines the filter payload flags on create", func() {
		cmd := viewscmder.NewViewsCmd()
		create, _, err := cmd.Find([]string{"create"})
		Expect(err).NotTo(HaveOccurred())
		for _, name := range []string{"filter-data", "project-filter-data", "initiative-filter-data", "feed-item-filter-data", "data", "shared"} {
			Expect(create.Flags().Lookup(name)).NotTo(BeNil(), "flag %q", name)
		}
	})
})
