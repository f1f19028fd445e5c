package linear_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/linear"
)

// pagedServer serves a connection of total issues, honoring $first and
// $after, and records the page sizes it was asked for.
func pagedServer(total int, firsts *[]int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Variables map[string]any `json:"variables"`
		}
		Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())

		first := int(body.Variables["first"].(float64))
		*firsts = append(*firsts, first)

		start := 0
		if after, ok := body.Variables["after"].(string); ok && after != "" {
			fmt.Sscanf(after, "cursor-%d", &start)
		}

		end := start + first
		if end > total {
			end = total
		}
		nodes := make([]map[string]any, 0, end-start)
		for i := start; i < end; i++ {
			nodes = append(nodes, map[string]any{"identifier": fmt.Sprintf("ENG-%d", i+1)})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"issues": map[string]any{
				"nodes": nodes,
				"pageInfo": map[string]any{
					"hasNextPage": end < total,
					"endCursor":   fmt.Sprintf("cursor-%d", end),
				},
			},
		}})
	}))
}

var _ = Describe("PaginateNodes", func() {
	var (
		ctx    context.Context
		firsts []int
	)

	BeforeEach(func() {
		ctx = context.Background()
		firsts = nil
	})

	It("collects a single page when the limit fits", func() {
		server := pagedServer(10, &firsts)
		defer server.Close()

		nodes, err := mustClient(server.URL).PaginateNodes(ctx, "query", nil,
			linear.PageOptions{Limit: 5}, "data", "issues")
		Expect(err).NotTo(HaveOccurred())
		Expect(nodes).To(HaveLen(5))
		Expect(firsts).To(Equal([]int{5}))
	})

	It("walks pages until the limit is reached", func() {
		server := pagedServer(100, &firsts)
		defer server.Close()

		nodes, err := mustClient(server.URL).PaginateNodes(ctx, "query", nil,
			linear.PageOptions{Limit: 70, PageSize: 30}, "data", "issues")
		Expect(err).NotTo(HaveOccurred())
		Expect(nodes).To(HaveLen(70))
		Expect(firsts).To(Equal([]int{30, 30, 10}))
	})

	It("walks every page with All regardless of limit", func() {
		server := pagedServer(120, &firsts)
		defer server.Close()

		nodes, err := mustClient(server.URL).PaginateNodes(ctx, "query", nil,
			linear.PageOptions{Limit: 10, PageSize: 50, All: true}, "data", "issues")
		Expect(err).NotTo(HaveOccurred())
		Expect(nodes).To(HaveLen(120))
		Expect(firsts).To(Equal([]int{50, 50, 50}))
	})

	It("clamps the page size to the API maximum", func() {
		server := pagedServer(10, &firsts)
		defer server.Close()

		_, err := mustClient(server.URL).PaginateNodes(ctx, "query", nil,
			linear.PageOptions{PageSize: 1000, All: true}, "data", "issues")
		Expect(err).NotTo(HaveOccurred())
		Expect(firsts).To(Equal([]int{250}))
	})

	It("stops cleanly when the connection path is missing", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
		}))
		defer server.Close()

		_, err := mustClient(server.URL).PaginateNodes(ctx, "query", nil,
			linear.PageOptions{}, "data", "issues")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("missing connection"))
	})
})
