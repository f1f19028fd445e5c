package commentscmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	commentscmder "github.com/linctl/linctl/cmd/linctl/comments"
)

var _ = Describe("Comments Command", func() {
	It("creates a command with expected properties", func() {
		cmd := commentscmder.NewCommentsCmd()
		Expect(cmd.Use).To(Equal("comments"))
		Expect(cmd.Aliases).To(ContainElement("cm"))
		Expect(cmd.Short).NotTo(BeEmpty())
	})

	It("registers list and create subcommands", func() {
		cmd := commentscmder.NewCommentsCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("list", "create"))
	})

	It("requires issue and body arguments for create", func() {
		cmd := commentscmder.NewCommentsCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{"create", "ENG-1"})
		Expect(cmd.Execute()).To(HaveOccurred())
	})

	It("requires an issue argument for list", func() {
		cmd := commentscmder.NewCommentsCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{"list"})
		Expect(cmd.Execute()).To(HaveOccurred())
	})
})
