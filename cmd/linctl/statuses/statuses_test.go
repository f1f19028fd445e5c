package statusescmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	statusescmder "github.com/linctl/linctl/cmd/linctl/statuses"
)

var _ = Describe("NewStatusesCmd", func() {
	It("creates a command with the sy alias", func() {
		cmd := statusescmder.NewStatusesCmd()
		Expect(cmd.Use).To(Equal("statuses"))
		Expect(cmd.Aliases).To(ContainElement("sy"))
	})

	It("has list and get subcommands", func() {
		cmd := statusescmder.NewStatusesCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("list", "get"))
	})

	It("aliases ls to list", func() {
		cmd := statusescmder.NewStatusesCmd()
		found, _, err := cmd.Find([]string{"ls"})
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Name()).To(Equal("list"))
	})

	It("requires at least one argument for get", func() {
		cmd := statusescmder.NewStatusesCmd()
		cmd.SetArgs([]string{"get"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})

	It("defines a team flag on both subcommands", func() {
		cmd := statusescmder.NewStatusesCmd()
		for _, sub := range cmd.Commands() {
			Expect(sub.Flags().Lookup("team")).NotTo(BeNil(), "subcommand %q", sub.Name())
		}
	})
})
