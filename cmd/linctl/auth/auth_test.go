package authcmder_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	authcmder "github.com/linctl/linctl/cmd/linctl/auth"
	"github.com/linctl/linctl/pkg/credentials"
)

// withGlobalFlags mirrors the persistent flags the root command provides.
func withGlobalFlags(cmd *cobra.Command) *cobra.Command {
	cmd.PersistentFlags().String("config-dir", "", "Override the .linctl directory location")
	cmd.PersistentFlags().String("profile", "", "Credential profile to use")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("no-retry", false, "Disable retries")
	cmd.PersistentFlags().Bool("no-cache", false, "Disable the resolution cache")
	return cmd
}

var _ = Describe("Auth Command", func() {
	var (
		tmpDir  string
		origKey string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "linctl-auth-test-*")
		Expect(err).NotTo(HaveOccurred())

		origKey = os.Getenv(credentials.EnvAPIKey)
		os.Unsetenv(credentials.EnvAPIKey)
	})

	AfterEach(func() {
		if origKey != "" {
			os.Setenv(credentials.EnvAPIKey, origKey)
		}
		os.RemoveAll(tmpDir)
	})

	Describe("NewAuthCmd", func() {
		It("creates a command with expected properties", func() {
			cmd := authcmder.NewAuthCmd()
			Expect(cmd.Use).To(Equal("auth"))
			Expect(cmd.Short).NotTo(BeEmpty())
		})

		It("has login, logout, and status subcommands", func() {
			cmd := authcmder.NewAuthCmd()
			names := make([]string, 0)
			for _, sub := range cmd.Commands() {
				names = append(names, sub.Name())
			}
			Expect(names).To(ContainElements("login", "logout", "status"))
		})
	})

	Describe("logout subcommand", func() {
		It("reports when no credentials are stored", func() {
			cmd := withGlobalFlags(authcmder.NewAuthCmd())
			cmd.SetArgs([]string{"logout", "--config-dir", tmpDir})

			err := cmd.Execute()
			Expect(err).NotTo(HaveOccurred())
		})

		It("removes stored credentials", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			err = mgr.SetKey(credentials.DefaultProfile, "lin_api_test")
			Expect(err).NotTo(HaveOccurred())

			cmd := withGlobalFlags(authcmder.NewAuthCmd())
			cmd.SetArgs([]string{"logout", "--config-dir", tmpDir})

			err = cmd.Execute()
			Expect(err).NotTo(HaveOccurred())

			key, err := mgr.GetKey(credentials.DefaultProfile)
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(BeEmpty())
		})

		It("removes only the selected profile", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.SetKey("work", "lin_api_work")).To(Succeed())
			Expect(mgr.SetKey("personal", "lin_api_personal")).To(Succeed())

			cmd := withGlobalFlags(authcmder.NewAuthCmd())
			cmd.SetArgs([]string{"logout", "--config-dir", tmpDir, "--profile", "work"})

			err = cmd.Execute()
			Expect(err).NotTo(HaveOccurred())

			key, err := mgr.GetKey("work")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(BeEmpty())

			key, err = mgr.GetKey("personal")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("lin_api_personal"))
		})
	})

	Describe("status subcommand", func() {
		It("reports when not logged in", func() {
			cmd := withGlobalFlags(authcmder.NewAuthCmd())
			cmd.SetArgs([]string{"status", "--config-dir", tmpDir})

			err := cmd.Execute()
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
