package jsonpath_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/jsonpath"
)

var _ = Describe("Get", func() {
	doc := map[string]any{
		"user": map[string]any{
			"name": "Bob",
			"age":  float64(30),
		},
		"items":  []any{float64(1), float64(2)},
		"active": true,
	}

	It("resolves a single level", func() {
		v, ok := jsonpath.Get(doc, "active")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(true))
	})

	It("resolves nested keys", func() {
		v, ok := jsonpath.Get(doc, "user", "name")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("Bob"))
	})

	It("reports missing keys", func() {
		_, ok := jsonpath.Get(doc, "user", "email")
		Expect(ok).To(BeFalse())
	})

	It("reports traversal through non-objects", func() {
		_, ok := jsonpath.Get(doc, "items", "0")
		Expect(ok).To(BeFalse())
	})

	It("returns the root for an empty path", func() {
		v, ok := jsonpath.Get(doc)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(doc))
	})
})

var _ = Describe("GetDotted", func() {
	doc := map[string]any{
		"state": map[string]any{"name": "In Progress"},
	}

	It("splits on dots", func() {
		v, ok := jsonpath.GetDotted(doc, "state.name")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("In Progress"))
	})

	It("returns the root for an empty path", func() {
		v, ok := jsonpath.GetDotted(doc, "")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(doc))
	})
})

var _ = Describe("typed accessors", func() {
	doc := map[string]any{
		"title":    "Fix bug",
		"priority": float64(2),
		"archived": false,
		"labels":   []any{"bug"},
	}

	It("returns strings with fallback", func() {
		Expect(jsonpath.String(doc, "-", "title")).To(Equal("Fix bug"))
		Expect(jsonpath.String(doc, "-", "missing")).To(Equal("-"))
		Expect(jsonpath.String(doc, "-", "priority")).To(Equal("-"))
	})

	It("returns numbers", func() {
		n, ok := jsonpath.Number(doc, "priority")
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(2.0))
		_, ok = jsonpath.Number(doc, "title")
		Expect(ok).To(BeFalse())
	})

	It("returns bools and arrays", func() {
		Expect(jsonpath.Bool(doc, "archived")).To(BeFalse())
		Expect(jsonpath.Bool(doc, "missing")).To(BeFalse())
		Expect(jsonpath.Array(doc, "labels")).To(HaveLen(1))
		Expect(jsonpath.Array(doc, "missing")).To(BeNil())
	})
})
