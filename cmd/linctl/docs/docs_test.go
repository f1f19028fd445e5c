package docscmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	docscmder "github.com/linctl/linctl/cmd/linctl/docs"
)

var _ = Describe("Docs Command", func() {
	It("creates a command with expected properties", func() {
		cmd := docscmder.NewDocsCmd()
		Expect(cmd.Use).To(Equal("docs"))
		Expect(cmd.Aliases).To(ContainElement("j"))
		Expect(cmd.Short).NotTo(BeEmpty())
	})

	It("registers every subcommand", func() {
		cmd := docscmder.NewDocsCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("list", "get", "create"))
	})

	It("requires a title argument for create", func() {
		cmd := docscmder.NewDocsCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{"create"})
		Expect(cmd.Execute()).To(HaveOccurred())
	})
})
