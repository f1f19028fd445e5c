package text_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/text"
)

var _ = Describe("Truncate", func() {
	It("returns short strings unchanged", func() {
		Expect(text.Truncate("hi", 10)).To(Equal("hi"))
	})

	It("returns strings exactly at the limit unchanged", func() {
		Expect(text.Truncate("hello", 5)).To(Equal("hello"))
	})

	It("truncates with an ellipsis inside the limit", func() {
		Expect(text.Truncate("hello world", 8)).To(Equal("hello..."))
	})

	It("returns empty for a zero limit", func() {
		Expect(text.Truncate("hello", 0)).To(Equal(""))
	})

	It("cuts hard when the limit leaves no room for the ellipsis", func() {
		Expect(text.Truncate("hello", 2)).To(Equal("he"))
	})

	It("counts runes, not bytes", func() {
		Expect(text.Truncate("こんにちは世界", 5)).To(Equal("こん..."))
		Expect(text.Truncate("hello世界", 8)).To(Equal("hello世界"))
		Expect(text.Truncate("hello世界", 6)).To(Equal("hel..."))
	})
})

var _ = Describe("IsUUID", func() {
	It("accepts canonical UUIDs", func() {
		Expect(text.IsUUID("550e8400-e29b-41d4-a716-446655440000")).To(BeTrue())
		Expect(text.IsUUID("00000000-0000-0000-0000-000000000000")).To(BeTrue())
	})

	It("rejects everything else", func() {
		Expect(text.IsUUID("not-a-uuid")).To(BeFalse())
		Expect(text.IsUUID("550e8400e29b41d4a716446655440000")).To(BeFalse())
		Expect(text.IsUUID("550e8400-e29b-41d4-a716")).To(BeFalse())
		Expect(text.IsUUID("")).To(BeFalse())
	})
})

var _ = Describe("IsIssueIdentifier", func() {
	It("accepts team-prefixed identifiers", func() {
		Expect(text.IsIssueIdentifier("ENG-123")).To(BeTrue())
		Expect(text.IsIssueIdentifier("lin-1")).To(BeTrue())
	})

	It("rejects malformed identifiers", func() {
		Expect(text.IsIssueIdentifier("ENG")).To(BeFalse())
		Expect(text.IsIssueIdentifier("ENG-")).To(BeFalse())
		Expect(text.IsIssueIdentifier("-123")).To(BeFalse())
		Expect(text.IsIssueIdentifier("ENG-12a")).To(BeFalse())
		Expect(text.IsIssueIdentifier("EN G-12")).To(BeFalse())
	})
})
