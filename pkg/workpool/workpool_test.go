package workpool_test

import (
	"context"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/workpool"
)

var _ = Describe("Pool", func() {
	It("runs every enqueued job before Close returns", func() {
		var count atomic.Int64
		pool := workpool.New(context.Background(), nil)

		for range 100 {
			pool.Enqueue(func(ctx context.Context) {
				count.Add(1)
			})
		}
		pool.Close()

		Expect(count.Load()).To(Equal(int64(100)))
	})

	It("passes the pool context to jobs", func() {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "present")

		var got string
		pool := workpool.New(ctx, &workpool.Config{NumWorkers: 1})
		pool.Enqueue(func(ctx context.Context) {
			got, _ = ctx.Value(key{}).(string)
		})
		pool.Close()

		Expect(got).To(Equal("present"))
	})

	It("fans work out across multiple workers", func() {
		var mu sync.Mutex
		seen := map[int]bool{}

		pool := workpool.New(context.Background(), &workpool.Config{NumWorkers: 4})
		for i := range 50 {
			pool.Enqueue(func(ctx context.Context) {
				mu.Lock()
				seen[i] = true
				mu.Unlock()
			})
		}
		pool.Close()

		Expect(seen).To(HaveLen(50))
	})
})
