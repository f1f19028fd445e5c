package issuescmder_test

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

	issuescmder "github.com/linctl/linctl/cmd/linctl/issues"
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

// captureStdout swaps os.Stdout for a pipe while fn runs and returns
// everything written to it.
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

var _ = Describe("Issues Command", func() {
	Describe("NewIssuesCmd", func() {
		It("creates a command with expected properties", func() {
			cmd := issuescmder.NewIssuesCmd()
			Expect(cmd.Use).To(Equal("issues"))
			Expect(cmd.Aliases).To(ContainElement("i"))
			Expect(cmd.Short).NotTo(BeEmpty())
		})

		It("registers every subcommand", func() {
			cmd := issuescmder.NewIssuesCmd()
			names := make([]string, 0)
			for _, sub := range cmd.Commands() {
				names = append(names, sub.Name())
			}
			Expect(names).To(ContainElements(
				"list", "get", "create", "update", "delete",
				"start", "stop", "archive", "unarchive",
				"subscribe", "unsubscribe",
			))
		})

		It("requires a title argument for create", func() {
			cmd := withGlobalFlags(issuescmder.NewIssuesCmd())
			cmd.SetArgs([]string{"create"})
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			Expect(cmd.Execute()).To(HaveOccurred())
		})
	})

	Describe("create against the API", func() {
		var (
			tmpDir    string
			server    *httptest.Server
			mutations int
			queries   int
		)

		BeforeEach(func() {
			tmpDir = GinkgoT().TempDir()
			mutations = 0
			queries = 0

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				Expect(err).NotTo(HaveOccurred())
				var req struct {
					Query string `json:"query"`
				}
				Expect(json.Unmarshal(body, &req)).To(Succeed())

				w.Header().Set("Content-Type", "application/json")
				if strings.Contains(req.Query, "mutation") {
					mutations++
					json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
						"issueCreate": map[string]any{
							"success": true,
							"issue": map[string]any{
								"id":         "0199a8e5-35ef-7000-8000-00000000000a",
								"identifier": "ENG-42",
								"title":      "Fix login",
								"url":        "https://linear.app/acme/issue/ENG-42",
							},
						},
					}})
					return
				}

				queries++
				json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
					"teams": map[string]any{
						"nodes": []map[string]any{
							{"id": "0199a8e5-35ef-7000-8000-000000000001", "key": "ENG", "name": "Engineering"},
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
			cmd := withGlobalFlags(issuescmder.NewIssuesCmd())
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			cmd.SetArgs(append(args, "--config-dir", tmpDir, "--no-cache"))

			var err error
			out := captureStdout(func() {
				err = cmd.Execute()
			})
			return out, err
		}

		It("sends no mutation request under --dry-run", func() {
			out, err := run("create", "Fix login", "-t", "ENG", "--dry-run")
			Expect(err).NotTo(HaveOccurred())

			Expect(mutations).To(Equal(0))
			Expect(queries).To(BeNumerically(">=", 1), "team resolution still queries")
			Expect(out).To(ContainSubstring(`"title": "Fix login"`))
			Expect(out).To(ContainSubstring("0199a8e5-35ef-7000-8000-000000000001"))
		})

		It("emits valid JSON under --dry-run", func() {
			out, err := run("create", "Fix login", "-t", "ENG", "--dry-run")
			Expect(err).NotTo(HaveOccurred())

			var payload map[string]any
			Expect(json.Unmarshal([]byte(out), &payload)).To(Succeed())
			Expect(payload).To(HaveKey("input"))
		})

		It("prints exactly the identifier under --id-only", func() {
			out, err := run("create", "Fix login", "-t", "ENG", "--id-only")
			Expect(err).NotTo(HaveOccurred())

			Expect(mutations).To(Equal(1))
			Expect(out).To(Equal("ENG-42\n"))
		})

		It("skips team resolution for a UUID team reference", func() {
			_, err := run("create", "Fix login",
				"-t", "0199a8e5-35ef-7000-8000-000000000001", "--dry-run")
			Expect(err).NotTo(HaveOccurred())
			Expect(queries).To(Equal(0))
			Expect(mutations).To(Equal(0))
		})

		It("fails without a team", func() {
			_, err := run("create", "Fix login", "--dry-run")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("team required"))
		})
	})
})
