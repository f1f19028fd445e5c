package projectscmder_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	projectscmder "github.com/linctl/linctl/cmd/linctl/projects"
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

func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, err := os.Pipe()
	Expect(err).NotTo(HaveOccurred())
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	Expect(err).NotTo(HaveOccurred())
	return string(out)
}

var _ = Describe("Projects Command", func() {
	Describe("NewProjectsCmd", func() {
		It("creates a command with expected properties", func() {
			cmd := projectscmder.NewProjectsCmd()
			Expect(cmd.Use).To(Equal("projects"))
			Expect(cmd.Aliases).To(ContainElement("p"))
		})

		It("registers every subcommand", func() {
			cmd := projectscmder.NewProjectsCmd()
			names := make([]string, 0)
			for _, sub := range cmd.Commands() {
				names = append(names, sub.Name())
			}
			Expect(names).To(ContainElements(
				"list", "get", "create", "update", "delete",
				"archive", "unarchive", "updates",
			))
		})

		It("requires a name argument for create", func() {
			cmd := withGlobalFlags(projectscmder.NewProjectsCmd())
			cmd.SetArgs([]string{"create"})
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			Expect(cmd.Execute()).To(HaveOccurred())
		})
	})

	Describe("create against the API", func() {
		const teamUUID = "0199a8e5-35ef-7000-8000-000000000001"
		const projectUUID = "0199a8e5-35ef-7000-8000-00000000000b"

		var (
			tmpDir    string
			server    *httptest.Server
			mutations int
		)

		BeforeEach(func() {
			tmpDir = GinkgoT().TempDir()
			mutations = 0

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				Expect(err).NotTo(HaveOccurred())
				var req struct {
					Query string `json:"query"`
				}
				Expect(json.Unmarshal(body, &req)).To(Succeed())
				if strings.Contains(req.Query, "mutation") {
					mutations++
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
					"projectCreate": map[string]any{
						"success": true,
						"project": map[string]any{
							"id":   projectUUID,
							"name": "Roadmap",
							"url":  "https://linear.app/acme/project/roadmap",
						},
					},
				}})
			}))

			GinkgoT().Setenv(credentials.EnvAPIKey, "lin_api_test")
			GinkgoT().Setenv("LINCTL_API_URL", server.URL)
		})

		AfterEach(func() {
			server.Close()
		})

		run := func(args ...string) (string, error) {
			cmd := withGlobalFlags(projectscmder.NewProjectsCmd())
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			cmd.SetArgs(append(args, "--config-dir", tmpDir, "--no-cache"))

			var err error
			out := captureStdout(func() {
				err = cmd.Execute()
			})
			return out, err
		}

		It("sends nothing under --dry-run with a UUID team", func() {
			out, err := run("create", "Roadmap", "-t", teamUUID, "--dry-run")
			Expect(err).NotTo(HaveOccurred())

			Expect(mutations).To(Equal(0))
			Expect(out).To(ContainSubstring(`"name": "Roadmap"`))
			Expect(out).To(ContainSubstring(teamUUID))
		})

		It("prints exactly the project id under --id-only", func() {
			out, err := run("create", "Roadmap", "-t", teamUUID, "--id-only")
			Expect(err).NotTo(HaveOccurred())

			Expect(mutations).To(Equal(1))
			Expect(out).To(Equal(projectUUID + "\n"))
		})

		It("fails without a team", func() {
			_, err := run("create", "Roadmap", "--dry-run")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("team required"))
		})
	})
})
