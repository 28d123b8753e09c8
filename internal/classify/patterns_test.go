package classify

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("cleanText", func() {
	It("should strip symbol noise", func() {
		Expect(cleanText("Jane Doe ★ CEO ♦ Acme")).To(Equal("Jane Doe CEO Acme"))
	})

	It("should keep contact punctuation", func() {
		Expect(cleanText("+1 (415) 555-0132 jane@acme.com")).To(Equal("+1 (415) 555-0132 jane@acme.com"))
	})

	It("should collapse whitespace runs and trim", func() {
		Expect(cleanText("  Jane\t\tDoe \n ")).To(Equal("Jane Doe"))
	})
})

var _ = Describe("normalizePhone", func() {
	It("should keep a leading plus", func() {
		Expect(normalizePhone("+1 (415) 555-0132")).To(Equal("+14155550132"))
	})

	It("should drop separators", func() {
		Expect(normalizePhone("415.555.0132")).To(Equal("4155550132"))
	})

	It("should drop a plus that is not leading", func() {
		Expect(normalizePhone("41+5")).To(Equal("415"))
	})
})

var _ = Describe("extractContactMatches", func() {
	It("should take the earliest email", func() {
		m := extractContactMatches("first@acme.com second@other.com")
		Expect(m.email.value).To(Equal("first@acme.com"))
	})

	It("should prefer the national phone shape over the international one", func() {
		m := extractContactMatches("+44 20 7946 0958 or 415.555.0132")
		Expect(m.phone.value).To(Equal("4155550132"))
	})

	It("should keep the raw matched text for exclusion checks", func() {
		m := extractContactMatches("call 415.555.0132 today")
		Expect(m.phone.raw).To(Equal("415.555.0132"))
	})
})
