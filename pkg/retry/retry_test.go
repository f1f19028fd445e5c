package retry_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/retry"
)

var _ = Describe("DelayForAttempt", func() {
	cfg := retry.Config{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Base:         2.0,
	}

	It("prefers the server retry-after hint", func() {
		Expect(cfg.DelayForAttempt(0, 7)).To(Equal(7 * time.Second))
	})

	It("grows exponentially within the jitter window", func() {
		// ±25% jitter around 1s, 2s, 4s.
		Expect(cfg.DelayForAttempt(0, 0)).To(BeNumerically("~", time.Second, 250*time.Millisecond))
		Expect(cfg.DelayForAttempt(1, 0)).To(BeNumerically("~", 2*time.Second, 500*time.Millisecond))
		Expect(cfg.DelayForAttempt(2, 0)).To(BeNumerically("~", 4*time.Second, time.Second))
	})

	It("caps at the max delay", func() {
		Expect(cfg.DelayForAttempt(20, 0)).To(BeNumerically("<=", 30*time.Second+8*time.Second))
	})
})

var _ = Describe("Do", func() {
	fast := retry.Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Base:         2.0,
	}

	It("returns the first success", func() {
		calls := 0
		result, err := retry.Do(context.Background(), fast, nil, func() (string, error) {
			calls++
			return "ok", nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal("ok"))
		Expect(calls).To(Equal(1))
	})

	It("retries retryable errors until success", func() {
		calls := 0
		result, err := retry.Do(context.Background(), fast, nil, func() (string, error) {
			calls++
			if calls < 3 {
				return "", clierr.New(clierr.CodeRateLimited, "Rate limit exceeded")
			}
			return "ok", nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal("ok"))
		Expect(calls).To(Equal(3))
	})

	It("fails fast on non-retryable errors", func() {
		calls := 0
		_, err := retry.Do(context.Background(), fast, nil, func() (string, error) {
			calls++
			return "", clierr.New(clierr.CodeAuth, "Authentication failed")
		})
		Expect(err).To(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("gives up after max retries and returns the last error", func() {
		calls := 0
		_, err := retry.Do(context.Background(), fast, nil, func() (string, error) {
			calls++
			return "", fmt.Errorf("connection refused (attempt %d)", calls)
		})
		Expect(err).To(MatchError("connection refused (attempt 4)"))
		Expect(calls).To(Equal(4))
	})

	It("does not retry with NoRetry", func() {
		calls := 0
		_, err := retry.Do(context.Background(), retry.NoRetry(), nil, func() (string, error) {
			calls++
			return "", errors.New("connection refused")
		})
		Expect(err).To(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("honors context cancellation between attempts", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := retry.Do(ctx, fast, nil, func() (string, error) {
			return "", errors.New("timeout")
		})
		Expect(err).To(MatchError(context.Canceled))
	})
})
