package linear_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/retry"
)

func newTestClient(handler http.Handler) (*linear.Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client, err := linear.NewClient(linear.ClientConfig{
		APIURL: server.URL,
		APIKey: "lin_api_test",
		Retry:  retry.NoRetry(),
	})
	Expect(err).NotTo(HaveOccurred())
	return client, server
}

func graphqlOK(data map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}
}

var _ = Describe("Client", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NewClient", func() {
		It("rejects an empty API key with an auth error", func() {
			_, err := linear.NewClient(linear.ClientConfig{})
			Expect(err).To(HaveOccurred())
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeAuth))
		})
	})

	Describe("Query", func() {
		It("sends the API key as the Authorization header", func() {
			var gotAuth string
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				graphqlOK(map[string]any{"viewer": map[string]any{"id": "u1"}})(w, r)
			}))
			defer server.Close()

			result, err := client.Query(ctx, `query { viewer { id } }`, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotAuth).To(Equal("lin_api_test"))
			Expect(result).To(HaveKey("data"))
		})

		It("maps 401 to the auth exit code", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			_, err := client.Query(ctx, `query { viewer { id } }`, nil)
			Expect(err).To(HaveOccurred())
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeAuth))
			Expect(err.Error()).To(ContainSubstring("Authentication failed"))
		})

		It("maps 403 to the auth exit code", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			defer server.Close()

			_, err := client.Query(ctx, `query { viewer { id } }`, nil)
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeAuth))
		})

		It("maps 404 to the not-found exit code", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			_, err := client.Query(ctx, `query { viewer { id } }`, nil)
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeNotFound))
		})

		It("maps 429 to the rate-limit exit code and captures Retry-After", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "7")
				w.WriteHeader(http.StatusTooManyRequests)
			}))
			defer server.Close()

			_, err := client.Query(ctx, `query { viewer { id } }`, nil)
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeRateLimited))
			Expect(clierr.RetryAfter(err)).To(Equal(7))
		})

		It("surfaces GraphQL errors from a 200 response", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"errors": []map[string]any{{"message": "Field 'bogus' doesn't exist"}},
				})
			}))
			defer server.Close()

			_, err := client.Query(ctx, `query { bogus }`, nil)
			Expect(err).To(HaveOccurred())
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeGeneral))
			Expect(err.Error()).To(ContainSubstring("GraphQL error"))
			Expect(err.Error()).To(ContainSubstring("Field 'bogus' doesn't exist"))
		})

		It("retries transient failures when the policy allows", func() {
			attempts := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				if attempts == 1 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				graphqlOK(map[string]any{"viewer": map[string]any{"id": "u1"}})(w, r)
			}))
			defer server.Close()

			client, err := linear.NewClient(linear.ClientConfig{
				APIURL: server.URL,
				APIKey: "lin_api_test",
				Retry: retry.Config{
					MaxRetries:   2,
					InitialDelay: time.Millisecond,
					MaxDelay:     5 * time.Millisecond,
					Base:         2.0,
				},
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = client.Query(ctx, `query { viewer { id } }`, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(attempts).To(Equal(2))
		})
	})

	Describe("FetchBytes", func() {
		It("returns the raw body on success", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("Authorization")).To(Equal("lin_api_test"))
				w.Write([]byte("binary payload"))
			}))
			defer server.Close()

			data, err := client.FetchBytes(ctx, server.URL+"/uploads/abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("binary payload")))
		})

		It("maps a 404 download to the not-found exit code", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			_, err := client.FetchBytes(ctx, server.URL+"/uploads/missing")
			Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeNotFound))
		})
	})

	Describe("PutBytes", func() {
		It("sends the provided headers without the API key", func() {
			var gotAuth, gotType string
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotType = r.Header.Get("Content-Type")
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			err := client.PutBytes(ctx, server.URL+"/signed", map[string]string{
				"Content-Type": "image/png",
			}, []byte{1, 2, 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(gotAuth).To(BeEmpty())
			Expect(gotType).To(Equal("image/png"))
		})

		It("fails on a non-2xx response", func() {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			defer server.Close()

			err := client.PutBytes(ctx, server.URL+"/signed", nil, []byte{1})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("403"))
		})
	})
})
