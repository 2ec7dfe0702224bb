package parsing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("aggregateItems", func() {
	var (
		occurrences []namedItem
		items       map[string]ItemRecord
	)

	priced := func(id, cost string) ItemRecord {
		return ItemRecord{ID: id, Cost: nullDecimal(cost)}
	}

	JustBeforeEach(func() {
		items = aggregateItems(occurrences)
	})

	When("every name is distinct", func() {
		BeforeEach(func() {
			occurrences = []namedItem{
				{key: "milk", record: priced("a", "2.50")},
				{key: "bread", record: priced("b", "3.99")},
			}
		})

		It("should insert each record unchanged", func() {
			Expect(items).To(HaveLen(2))
			Expect(items["milk"]).To(Equal(occurrences[0].record))
			Expect(items["bread"]).To(Equal(occurrences[1].record))
		})
	})

	When("a name repeats without printed quantities", func() {
		BeforeEach(func() {
			occurrences = []namedItem{
				{key: "milk", record: priced("first", "2.50")},
				{key: "milk", record: priced("second", "2.50")},
			}
		})

		It("should keep a single entry", func() {
			Expect(items).To(HaveLen(1))
		})

		It("should sum the costs", func() {
			Expect(items["milk"].Cost).To(EqualDecimal("5.00"))
		})

		It("should count the occurrences as the quantity", func() {
			Expect(items["milk"].Quantity).To(EqualDecimal("2.00"))
		})

		It("should set savings to zero", func() {
			Expect(items["milk"].Savings).To(EqualDecimal("0.00"))
		})

		It("should keep the first id", func() {
			Expect(items["milk"].ID).To(Equal("first"))
		})
	})

	When("a name repeats three times", func() {
		BeforeEach(func() {
			occurrences = []namedItem{
				{key: "soda", record: priced("a", "1.00")},
				{key: "soda", record: ItemRecord{ID: "b", Cost: nullDecimal("1.00"), Savings: nullDecimal("0.25")}},
				{key: "soda", record: ItemRecord{ID: "c", Cost: nullDecimal("1.00"), Savings: nullDecimal("0.50")}},
			}
		})

		It("should count up the quantity", func() {
			Expect(items["soda"].Quantity).To(EqualDecimal("3.00"))
		})

		It("should sum the savings", func() {
			Expect(items["soda"].Savings).To(EqualDecimal("0.75"))
		})

		It("should sum the costs", func() {
			Expect(items["soda"].Cost).To(EqualDecimal("3.00"))
		})
	})

	When("a repeated name prints its quantities", func() {
		BeforeEach(func() {
			occurrences = []namedItem{
				{key: "bananas", record: ItemRecord{ID: "a", Cost: nullDecimal("1.05"), Quantity: nullDecimal("1.52")}},
				{key: "bananas", record: ItemRecord{ID: "b", Cost: nullDecimal("0.69"), Quantity: nullDecimal("1.00")}},
			}
		})

		It("should sum the printed quantities", func() {
			Expect(items["bananas"].Quantity).To(EqualDecimal("2.52"))
		})

		It("should sum the costs", func() {
			Expect(items["bananas"].Cost).To(EqualDecimal("1.74"))
		})
	})

	When("only a later occurrence prints a quantity", func() {
		BeforeEach(func() {
			occurrences = []namedItem{
				{key: "grapes", record: priced("a", "2.00")},
				{key: "grapes", record: ItemRecord{ID: "b", Cost: nullDecimal("3.00"), Quantity: nullDecimal("1.25")}},
				{key: "grapes", record: priced("c", "1.00")},
			}
		})

		It("should use the printed quantity rather than the count", func() {
			Expect(items["grapes"].Quantity).To(EqualDecimal("1.25"))
		})
	})

	When("no occurrence has a cost", func() {
		BeforeEach(func() {
			occurrences = []namedItem{
				{key: "bag", record: ItemRecord{ID: "a"}},
				{key: "bag", record: ItemRecord{ID: "b"}},
			}
		})

		It("should leave the cost null", func() {
			Expect(items["bag"].Cost.Valid).To(BeFalse())
		})
	})

	When("a name appears once without a quantity", func() {
		BeforeEach(func() {
			occurrences = []namedItem{{key: "bread", record: priced("a", "3.99")}}
		})

		It("should leave the quantity null", func() {
			Expect(items["bread"].Quantity.Valid).To(BeFalse())
		})
	})

	When("there are no occurrences", func() {
		BeforeEach(func() {
			occurrences = nil
		})

		It("should return an empty map", func() {
			Expect(items).NotTo(BeNil())
			Expect(items).To(BeEmpty())
		})
	})
})
