package uploadscmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	uploadscmder "github.com/linctl/linctl/cmd/linctl/uploads"
)

var _ = Describe("Uploads Command", func() {
	It("creates a command with expected properties", func() {
		cmd := uploadscmder.NewUploadsCmd()
		Expect(cmd.Use).To(Equal("uploads"))
		Expect(cmd.Aliases).To(ContainElement("up"))
		Expect(cmd.Short).NotTo(BeEmpty())
	})

	It("registers every subcommand", func() {
		cmd := uploadscmder.NewUploadsCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("upload", "fetch", "attach-url"))
	})

	It("rejects a non-Linear URL before touching the API", func() {
		cmd := uploadscmder.NewUploadsCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{"fetch", "https://example.com/file.png"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("expected a Linear upload URL"))
	})

	It("requires issue and file arguments for upload", func() {
		cmd := uploadscmder.NewUploadsCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{"upload", "ENG-1"})
		Expect(cmd.Execute()).To(HaveOccurred())
	})
})
