package labelscmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	labelscmder "github.com/linctl/linctl/cmd/linctl/labels"
)

var _ = Describe("NewLabelsCmd", func() {
	It("creates a command with the l alias", func() {
		cmd := labelscmder.NewLabelsCmd()
		Expect(cmd.Use).To(Equal("labels"))
		Expect(cmd.Aliases).To(ContainElement("l"))
	})

	It("has list, create, update, and delete subcommands", func() {
		cmd := labelscmder.NewLabelsCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("list", "create", "update", "delete"))
	})

	It("rejects an unknown label type on create", func() {
		cmd := labelscmder.NewLabelsCmd()
		cmd.SetArgs([]string{"create", "bug", "--type", "workspace"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid label type"))
	})

	It("rejects an unknown label type on delete", func() {
		cmd := labelscmder.NewLabelsCmd()
		cmd.SetArgs([]string{"delete", "some-id", "--type", "workspace"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid label type"))
	})

	It("requires a name argument for create", func() {
		cmd := labelscmder.NewLabelsCmd()
		cmd.SetArgs([]string{"create"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})
})
