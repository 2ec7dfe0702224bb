package parsing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("segmentItems", func() {
	var (
		span      string
		intervals []interval
	)

	JustBeforeEach(func() {
		intervals = segmentItems(span)
	})

	When("each item sits on its own line", func() {
		BeforeEach(func() {
			span = "\nMILK 2.50 F\nBREAD 3.99 F\nYou Saved 1.00\n"
		})

		It("should find one interval per item", func() {
			Expect(intervals).To(HaveLen(2))
		})

		It("should cut the first interval at the next name", func() {
			Expect(intervals[0].name).To(Equal("MILK"))
			Expect(intervals[0].raw).To(Equal(" 2.50 "))
		})

		It("should carry the tax flag into the next name", func() {
			Expect(intervals[1].name).To(Equal("F\nBREAD"))
		})

		It("should run the last interval to the end of the span", func() {
			Expect(intervals[1].raw).To(Equal(" 3.99 F\nYou Saved 1.00\n"))
		})
	})

	When("an item wraps its details onto the next line", func() {
		BeforeEach(func() {
			span = "\nBANANAS\n1.52 lb @ 0.69 / lb 1.05 F\nMILK 2.50\n"
		})

		It("should keep the details with the item", func() {
			Expect(intervals).To(HaveLen(2))
			Expect(intervals[0].name).To(Equal("BANANAS"))
			Expect(intervals[0].raw).To(Equal("\n1.52 lb @ 0.69 / lb 1.05 "))
		})
	})

	When("an item name is printed twice", func() {
		BeforeEach(func() {
			span = "\nEGGS 3.49\nEGGS 3.49\n"
		})

		It("should segment each occurrence", func() {
			Expect(intervals).To(HaveLen(2))
			Expect(intervals[0].raw).To(Equal(" 3.49\n"))
			Expect(intervals[1].raw).To(Equal(" 3.49\n"))
		})
	})

	When("the span has a multi-buy line", func() {
		BeforeEach(func() {
			span = "\nYOGURT 2 FOR 3.00\n"
		})

		It("should not treat FOR as an item", func() {
			Expect(intervals).To(HaveLen(1))
			Expect(intervals[0].name).To(Equal("YOGURT"))
			Expect(intervals[0].raw).To(Equal(" 2 FOR 3.00\n"))
		})
	})

	When("a tax flag wraps onto a multi-buy line", func() {
		BeforeEach(func() {
			span = "\nMILK 2.50 F\nFOR 2 3.00\n"
		})

		It("should not treat the flagged FOR as an item", func() {
			Expect(intervals).To(HaveLen(1))
			Expect(intervals[0].name).To(Equal("MILK"))
			Expect(intervals[0].raw).To(Equal(" 2.50 F\nFOR 2 3.00\n"))
		})
	})

	When("a name also appears inside an earlier word", func() {
		BeforeEach(func() {
			span = "\nYOGURT 2 FOR 3.00\nOR 1.00\n"
		})

		It("should cut at the position where the name was printed", func() {
			Expect(intervals).To(HaveLen(2))
			Expect(intervals[0].raw).To(Equal(" 2 FOR 3.00\n"))
			Expect(intervals[1].name).To(Equal("OR"))
			Expect(intervals[1].raw).To(Equal(" 1.00\n"))
		})
	})

	When("the span has no upper-case names", func() {
		BeforeEach(func() {
			span = "\nthank you for shopping 2.00\n"
		})

		It("should return no intervals", func() {
			Expect(intervals).To(BeEmpty())
		})
	})
})

var _ = Describe("itemKey", func() {
	It("should strip a leading tax flag", func() {
		Expect(itemKey("F\nBANANAS")).To(Equal("bananas"))
		Expect(itemKey("F MILK")).To(Equal("milk"))
	})

	It("should leave an F inside a word alone", func() {
		Expect(itemKey("HALF AND HALF")).To(Equal("half and half"))
	})

	It("should expose a flagged multi-buy token", func() {
		Expect(itemKey("F\nFOR")).To(Equal("for"))
		Expect(isMultiBuyToken("F\nFOR")).To(BeTrue())
		Expect(isMultiBuyToken("FORK")).To(BeFalse())
	})

	It("should lower-case the name", func() {
		Expect(itemKey("GREEN BEANS")).To(Equal("green beans"))
	})
})
