package linear_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/retry"
)

// graphqlRouter dispatches on a substring of the incoming query so a
// single fake server can answer the multi-step resolver flows.
func graphqlRouter(routes map[string]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())

		w.Header().Set("Content-Type", "application/json")
		for marker, data := range routes {
			if strings.Contains(body.Query, marker) {
				json.NewEncoder(w).Encode(map[string]any{"data": data})
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "unexpected query"}},
		})
	}
}

func mustClient(apiURL string) *linear.Client {
	client, err := linear.NewClient(linear.ClientConfig{
		APIURL: apiURL,
		APIKey: "lin_api_test",
		Retry:  retry.NoRetry(),
	})
	Expect(err).NotTo(HaveOccurred())
	return client
}

var _ = Describe("Resolvers", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("ResolveTeamID", func() {
		teams := map[string]any{
			"teams": map[string]any{
				"nodes": []map[string]any{
					{"id": "team-uuid-1", "key": "ENG", "name": "Engineering"},
					{"id": "team-uuid-2", "key": "OPS", "name": "Operations"},
				},
			},
		}

		It("passes a UUID through without a lookup", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Fail("unexpected API call")
			}))
			defer server.Close()

			id, err := client.ResolveTeamID(ctx, "0199a8e5-35ef-7000-8000-000000000001")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("0199a8e5-35ef-7000-8000-000000000001"))
		})

		It("matches a team key case-insensitively", func() {
			client, server := newTestClient(graphqlRouter(map[string]map[string]any{"teams(": teams}))
			defer server.Close()

			id, err := client.ResolveTeamID(ctx, "eng")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("team-uuid-1"))
		})

		It("falls back to a name match", func() {
			client, server := newTestClient(graphqlRouter(map[string]map[string]any{"teams(": teams}))
			defer server.Close()

			id, err := client.ResolveTeamID(ctx, "operations")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("team-uuid-2"))
		})

		It("returns not-found for an unknown team", func() {
			client, server := newTestClient(graphqlRouter(map[string]map[string]any{"teams(": teams}))
			defer server.Close()

			_, err := client.ResolveTeamID(ctx, "nope")
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeNotFound))
		})
	})

	Describe("ResolveIssueID", func() {
		It("rejects a value that is neither identifier nor UUID", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Fail("unexpected API call")
			}))
			defer server.Close()

			_, err := client.ResolveIssueID(ctx, "not an issue", false)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Invalid issue identifier"))
		})

		It("finds the issue by exact identifier match via search", func() {
			client, server := newTestClient(graphqlRouter(map[string]map[string]any{
				"searchIssues(": {
					"searchIssues": map[string]any{
						"nodes": []map[string]any{
							{"id": "issue-uuid-9", "identifier": "ENG-9"},
							{"id": "issue-uuid-42", "identifier": "ENG-42"},
						},
						"pageInfo": map[string]any{"hasNextPage": false},
					},
				},
			}))
			defer server.Close()

			id, err := client.ResolveIssueID(ctx, "eng-42", false)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("issue-uuid-42"))
		})

		It("retries with archived issues before giving up", func() {
			var sawArchived []bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					Variables map[string]any `json:"variables"`
				}
				json.NewDecoder(r.Body).Decode(&body)
				include, _ := body.Variables["includeArchived"].(bool)
				sawArchived = append(sawArchived, include)

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
					"searchIssues": map[string]any{
						"nodes":    []any{},
						"pageInfo": map[string]any{"hasNextPage": false},
					},
				}})
			}))
			defer server.Close()

			client := mustClient(server.URL)
			_, err := client.ResolveIssueID(ctx, "ENG-404", false)
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeNotFound))
			Expect(sawArchived).To(Equal([]bool{false, true}))
		})
	})

	Describe("ResolveUserID", func() {
		It("resolves 'me' through the viewer query", func() {
			client, server := newTestClient(graphqlRouter(map[string]map[string]any{
				"viewer": {"viewer": map[string]any{"id": "viewer-uuid"}},
			}))
			defer server.Close()

			id, err := client.ResolveUserID(ctx, "me")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("viewer-uuid"))
		})

		It("matches users by name or email", func() {
			client, server := newTestClient(graphqlRouter(map[string]map[string]any{
				"users(": {
					"users": map[string]any{
						"nodes": []map[string]any{
							{"id": "user-1", "name": "Ada Lovelace", "email": "ada@example.com"},
						},
					},
				},
			}))
			defer server.Close()

			id, err := client.ResolveUserID(ctx, "ADA@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("user-1"))
		})
	})

	Describe("ResolveLabelIDs", func() {
		labels := map[string]any{
			"team": map[string]any{
				"labels": map[string]any{
					"nodes": []map[string]any{
						{"id": "label-1", "name": "Bug"},
						{"id": "label-2", "name": "Feature"},
					},
				},
			},
		}

		It("resolves names and passes UUIDs through", func() {
			client, server := newTestClient(graphqlRouter(map[string]map[string]any{"labels(": labels}))
			defer server.Close()

			ids, err := client.ResolveLabelIDs(ctx, "team-uuid", []string{
				"bug",
				"0199a8e5-35ef-7000-8000-00000000beef",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]string{"label-1", "0199a8e5-35ef-7000-8000-00000000beef"}))
		})

		It("fails the whole batch when one label is unknown", func() {
			client, server := newTestClient(graphqlRouter(map[string]map[string]any{"labels(": labels}))
			defer server.Close()

			_, err := client.ResolveLabelIDs(ctx, "team-uuid", []string{"bug", "nope"})
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeNotFound))
		})

		It("returns nothing for an empty request without a lookup", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Fail("unexpected API call")
			}))
			defer server.Close()

			ids, err := client.ResolveLabelIDs(ctx, "team-uuid", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(BeEmpty())
		})
	})

	Describe("ResolveProjectStatusID", func() {
		It("prefers a type match over a name match", func() {
			client, server := newTestClient(graphqlRouter(map[string]map[string]any{
				"projectStatuses(": {
					"projectStatuses": map[string]any{
						"nodes": []map[string]any{
							{"id": "status-1", "name": "Started", "type": "backlog"},
							{"id": "status-2", "name": "Backlog", "type": "started"},
						},
					},
				},
			}))
			defer server.Close()

			id, err := client.ResolveProjectStatusID(ctx, "started")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("status-2"))
		})
	})
})
