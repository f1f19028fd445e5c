package cache_test

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/cache"
)

var _ = Describe("Cache", func() {
	var (
		ctx context.Context
		c   *cache.Cache
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		c, err = cache.Open(filepath.Join(GinkgoT().TempDir(), "cache.db"), 0)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(c.Close()).To(Succeed())
	})

	It("round-trips a resolution", func() {
		Expect(c.Put(ctx, cache.KindTeam, "ENG", "team-uuid-1")).To(Succeed())

		id, ok := c.Get(ctx, cache.KindTeam, "ENG")
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal("team-uuid-1"))
	})

	It("matches keys case-insensitively", func() {
		Expect(c.Put(ctx, cache.KindTeam, "ENG", "team-uuid-1")).To(Succeed())

		id, ok := c.Get(ctx, cache.KindTeam, "eng")
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal("team-uuid-1"))
	})

	It("misses on an unknown key or wrong kind", func() {
		Expect(c.Put(ctx, cache.KindTeam, "ENG", "team-uuid-1")).To(Succeed())

		_, ok := c.Get(ctx, cache.KindTeam, "OPS")
		Expect(ok).To(BeFalse())

		_, ok = c.Get(ctx, cache.KindUser, "ENG")
		Expect(ok).To(BeFalse())
	})

	It("replaces an existing entry", func() {
		Expect(c.Put(ctx, cache.KindUser, "ada", "user-old")).To(Succeed())
		Expect(c.Put(ctx, cache.KindUser, "ada", "user-new")).To(Succeed())

		id, ok := c.Get(ctx, cache.KindUser, "ada")
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal("user-new"))
	})

	It("clears everything", func() {
		Expect(c.Put(ctx, cache.KindTeam, "ENG", "team-uuid-1")).To(Succeed())
		Expect(c.Put(ctx, cache.KindUser, "ada", "user-1")).To(Succeed())

		Expect(c.Clear(ctx)).To(Succeed())

		_, ok := c.Get(ctx, cache.KindTeam, "ENG")
		Expect(ok).To(BeFalse())
	})

	It("counts live entries per kind", func() {
		Expect(c.Put(ctx, cache.KindTeam, "ENG", "team-uuid-1")).To(Succeed())
		Expect(c.Put(ctx, cache.KindTeam, "OPS", "team-uuid-2")).To(Succeed())
		Expect(c.Put(ctx, cache.KindLabel, "bug", "label-1")).To(Succeed())

		stats, err := c.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Entries).To(Equal(3))
		Expect(stats.ByKind).To(HaveKeyWithValue(cache.KindTeam, 2))
		Expect(stats.ByKind).To(HaveKeyWithValue(cache.KindLabel, 1))
	})

	It("expires entries past the TTL", func() {
		short, err := cache.Open(filepath.Join(GinkgoT().TempDir(), "cache.db"), time.Nanosecond)
		Expect(err).NotTo(HaveOccurred())
		defer short.Close()

		Expect(short.Put(ctx, cache.KindTeam, "ENG", "team-uuid-1")).To(Succeed())
		time.Sleep(10 * time.Millisecond)

		_, ok := short.Get(ctx, cache.KindTeam, "ENG")
		Expect(ok).To(BeFalse())

		dropped, err := short.Prune(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(dropped).To(Equal(int64(1)))
	})
})
