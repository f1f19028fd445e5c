package gitutil_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/linctl/linctl/pkg/gitutil"
)

var _ = Describe("GenerateBranchName", func() {
	It("lowercases the identifier and kebab-cases the title", func() {
		name := gitutil.GenerateBranchName("ENG-123", "Fix the Build Pipeline")
		Expect(name).To(Equal("eng-123/fix-the-build-pipeline"))
	})

	It("collapses punctuation runs into single dashes", func() {
		name := gitutil.GenerateBranchName("ENG-7", "OAuth 2.0 -- token refresh!")
		Expect(name).To(Equal("eng-7/oauth-2-0-token-refresh"))
	})

	It("caps the slug at fifty characters", func() {
		long := "a title that is far too long to serve as a reasonable branch name suffix"
		name := gitutil.GenerateBranchName("ENG-1", long)
		slug := name[len("eng-1/"):]
		Expect(len(slug)).To(BeNumerically("<=", 50))
		Expect(slug).NotTo(HaveSuffix("-"))
	})
})
