package relationscmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	relationscmder "github.com/linctl/linctl/cmd/linctl/relations"
)

var _ = Describe("NewRelationsCmd", func() {
	It("creates a command with the rel alias", func() {
		cmd := relationscmder.NewRelationsCmd()
		Expect(cmd.Use).To(Equal("relations"))
		Expect(cmd.Aliases).To(ContainElement("rel"))
	})

	It("has list, add, remove, and children subcommands", func() {
		cmd := relationscmder.NewRelationsCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("list", "add", "remove", "children"))
	})

	It("rejects an unknown relation kind on add", func() {
		cmd := relationscmder.NewRelationsCmd()
		cmd.SetArgs([]string{"add", "ENG-1", "prevents", "ENG-2"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid relation"))
	})

	It("rejects an unknown relation kind on remove", func() {
		cmd := relationscmder.NewRelationsCmd()
		cmd.SetArgs([]string{"remove", "ENG-1", "prevents", "ENG-2"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid relation"))
	})

	It("requires three arguments for add", func() {
		cmd := relationscmder.NewRelationsCmd()
		cmd.SetArgs([]string{"add", "ENG-1", "blocks"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})
})
