package clierr_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/clierr"
)

var _ = Describe("Error", func() {
	It("renders the bare message without details", func() {
		err := clierr.New(clierr.CodeGeneral, "simple error")
		Expect(err.Error()).To(Equal("simple error"))
	})

	It("appends messages from a GraphQL errors array", func() {
		details := []any{
			map[string]any{"message": "Field 'foo' not found"},
			map[string]any{"message": "Invalid query syntax"},
		}
		err := clierr.New(clierr.CodeGeneral, "GraphQL error").WithDetails(details)
		Expect(err.Error()).To(Equal("GraphQL error: Field 'foo' not found; Invalid query syntax"))
	})

	It("appends a message from an object detail", func() {
		details := map[string]any{"message": "Rate limit exceeded", "code": 429}
		err := clierr.New(clierr.CodeRateLimited, "API error").WithDetails(details)
		Expect(err.Error()).To(Equal("API error: Rate limit exceeded"))
	})

	It("appends messages from a nested errors array", func() {
		details := map[string]any{
			"errors": []any{
				map[string]any{"message": "Permission denied"},
				map[string]any{"message": "Insufficient scope"},
			},
		}
		err := clierr.New(clierr.CodeAuth, "Auth error").WithDetails(details)
		Expect(err.Error()).To(Equal("Auth error: Permission denied; Insufficient scope"))
	})

	It("ignores detail entries without a message", func() {
		details := []any{
			map[string]any{"code": 123},
			map[string]any{"extensions": map[string]any{}},
		}
		err := clierr.New(clierr.CodeGeneral, "GraphQL error").WithDetails(details)
		Expect(err.Error()).To(Equal("GraphQL error"))
	})
})

var _ = Describe("ExitCode", func() {
	It("returns 0 for nil", func() {
		Expect(clierr.ExitCode(nil)).To(Equal(clierr.CodeOK))
	})

	It("returns the code of a wrapped Error", func() {
		err := fmt.Errorf("fetching issue: %w", clierr.New(clierr.CodeNotFound, "not found"))
		Expect(clierr.ExitCode(err)).To(Equal(clierr.CodeNotFound))
	})

	It("returns 1 for plain errors", func() {
		Expect(clierr.ExitCode(errors.New("boom"))).To(Equal(clierr.CodeGeneral))
	})
})

var _ = Describe("Retryable", func() {
	It("retries rate limit errors", func() {
		err := clierr.New(clierr.CodeRateLimited, "Rate limit exceeded")
		Expect(clierr.Retryable(err)).To(BeTrue())
	})

	It("never retries auth or not-found errors", func() {
		Expect(clierr.Retryable(clierr.New(clierr.CodeAuth, "Authentication failed"))).To(BeFalse())
		Expect(clierr.Retryable(clierr.New(clierr.CodeNotFound, "Resource not found"))).To(BeFalse())
	})

	It("retries transient transport failures by message", func() {
		Expect(clierr.Retryable(errors.New("connection reset by peer"))).To(BeTrue())
		Expect(clierr.Retryable(errors.New("HTTP 503 Service Unavailable"))).To(BeTrue())
		Expect(clierr.Retryable(errors.New("bad request"))).To(BeFalse())
	})

	It("exposes the server retry-after hint", func() {
		err := clierr.New(clierr.CodeRateLimited, "Rate limit exceeded").WithRetryAfter(12)
		Expect(clierr.RetryAfter(err)).To(Equal(12))
		Expect(clierr.RetryAfter(errors.New("boom"))).To(Equal(0))
	})
})
