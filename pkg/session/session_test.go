package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/credentials"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/retry"
	"github.com/linctl/linctl/pkg/session"
)

var _ = Describe("Session", func() {
	var configDir string

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		GinkgoT().Setenv(credentials.EnvAPIKey, "")
	})

	Describe("New", func() {
		It("loads defaults when no config file exists", func() {
			s, err := session.New(session.Options{ConfigDir: configDir})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			Expect(s.Config.API.URL).To(Equal("https://api.linear.app/graphql"))
			Expect(s.Profile()).To(Equal("default"))
		})
	})

	Describe("Client", func() {
		It("fails with the auth exit code when no key is available", func() {
			s, err := session.New(session.Options{ConfigDir: configDir})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			_, err = s.Client()
			Expect(err).To(HaveOccurred())
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeAuth))
		})

		It("prefers the environment key", func() {
			GinkgoT().Setenv(credentials.EnvAPIKey, "lin_api_env")

			s, err := session.New(session.Options{ConfigDir: configDir})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			client, err := s.Client()
			Expect(err).NotTo(HaveOccurred())
			Expect(client).NotTo(BeNil())
		})

		It("uses a stored profile key", func() {
			mgr, err := credentials.NewManager(configDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.SetKey("default", "lin_api_stored")).To(Succeed())

			s, err := session.New(session.Options{ConfigDir: configDir})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			_, err = s.Client()
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("cached resolution", func() {
		var (
			ctx    context.Context
			calls  int
			server *httptest.Server
			client *linear.Client
		)

		BeforeEach(func() {
			ctx = context.Background()
			calls = 0
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
					"teams": map[string]any{
						"nodes": []map[string]any{
							{"id": "team-uuid-1", "key": "ENG", "name": "Engineering"},
						},
					},
				}})
			}))

			var err error
			client, err = linear.NewClient(linear.ClientConfig{
				APIURL: server.URL,
				APIKey: "lin_api_test",
				Retry:  retry.NoRetry(),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			server.Close()
		})

		It("hits the API once and the cache afterwards", func() {
			s, err := session.New(session.Options{ConfigDir: configDir})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			id, err := s.ResolveTeamID(ctx, client, "ENG")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("team-uuid-1"))
			Expect(calls).To(Equal(1))

			id, err = s.ResolveTeamID(ctx, client, "ENG")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("team-uuid-1"))
			Expect(calls).To(Equal(1))
		})

		It("bypasses cache and API for UUID input", func() {
			s, err := session.New(session.Options{ConfigDir: configDir})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			id, err := s.ResolveTeamID(ctx, client, "0199a8e5-35ef-7000-8000-000000000001")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("0199a8e5-35ef-7000-8000-000000000001"))
			Expect(calls).To(Equal(0))
		})

		It("always hits the API with NoCache", func() {
			s, err := session.New(session.Options{ConfigDir: configDir, NoCache: true})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			_, err = s.ResolveTeamID(ctx, client, "ENG")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.ResolveTeamID(ctx, client, "ENG")
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(2))
		})
	})
})

var _ = Describe("Session profile override", func() {
	It("keeps an explicit profile over the config value", func() {
		configDir := GinkgoT().TempDir()
		os.WriteFile(configDir+"/config.toml", []byte("profile = \"work\"\n"), 0o600)

		s, err := session.New(session.Options{ConfigDir: configDir, Profile: "personal"})
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		Expect(s.Profile()).To(Equal("personal"))
	})
})
