package teamscmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	teamscmder "github.com/linctl/linctl/cmd/linctl/teams"
)

var _ = Describe("Teams Command", func() {
	It("creates a command with expected properties", func() {
		cmd := teamscmder.NewTeamsCmd()
		Expect(cmd.Use).To(Equal("teams"))
		Expect(cmd.Aliases).To(ContainElement("t"))
		Expect(cmd.Short).NotTo(BeEmpty())
	})

	It("registers every subcommand", func() {
		cmd := teamscmder.NewTeamsCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("list", "get", "create", "update"))
	})

	It("requires name and key arguments for create", func() {
		cmd := teamscmder.NewTeamsCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{"create", "Engineering"})
		Expect(cmd.Execute()).To(HaveOccurred())
	})

	It("requires at least one reference for get", func() {
		cmd := teamscmder.NewTeamsCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{"get"})
		Expect(cmd.Execute()).To(HaveOccurred())
	})
})
