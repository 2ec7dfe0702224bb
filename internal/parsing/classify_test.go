package parsing

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classify", func() {
	It("should route Publix receipts to the pattern parser", func() {
		Expect(Classify(publixReceipt)).To(Equal(PublixStrategy{Text: publixReceipt}))
	})

	It("should route Kroger receipts to entity analysis with the store line", func() {
		text := "\n  KROGER #412  \nMILK 2.50\n"
		Expect(Classify(text)).To(Equal(GenericStrategy{Text: text, StoreLine: "kroger #412"}))
	})

	It("should route unknown stores to entity analysis without a store line", func() {
		text := "CORNER MARKET\nMILK 2.50\n"
		Expect(Classify(text)).To(Equal(GenericStrategy{Text: text}))
	})

	It("should only look at the first ten non-empty lines", func() {
		text := strings.Repeat("line\n\n", 10) + "Publix\n"
		Expect(Classify(text)).To(BeAssignableToTypeOf(GenericStrategy{}))
	})
})

var _ = Describe("FromEntities", func() {
	var (
		storeLine string
		entities  []Entity
		doc       *Document
	)

	BeforeEach(func() {
		entities = []Entity{
			{Name: "Decatur", Type: EntityLocation},
			{Name: "March 3, 2024", Type: EntityDate},
			{Name: "Whole Milk", Type: EntityConsumerGood},
			{Name: "whole milk", Type: EntityConsumerGood},
			{Name: "Eggs", Type: EntityConsumerGood},
			{Name: "Jane", Type: "PERSON"},
		}
	})

	JustBeforeEach(func() {
		doc = FromEntities(storeLine, entities, &sequentialIDs{})
	})

	When("the store line is known", func() {
		BeforeEach(func() {
			storeLine = "kroger #412"
		})

		It("should use it as name and location", func() {
			Expect(doc.Store.Name).To(Equal("kroger #412"))
			Expect(doc.Store.Location).To(Equal("kroger #412"))
		})
	})

	When("the store line is unknown", func() {
		BeforeEach(func() {
			storeLine = ""
		})

		It("should take the location from the first location entity", func() {
			Expect(doc.Store.Name).To(Equal("unknown"))
			Expect(doc.Store.Location).To(Equal("Decatur"))
		})
	})

	It("should take the datetime from the first date entity", func() {
		Expect(doc.Transaction.DateTime).To(Equal("March 3, 2024"))
	})

	It("should add one null record per consumer good", func() {
		Expect(doc.Items).To(HaveLen(2))
		Expect(doc.Items["whole milk"].ID).To(Equal("item-1"))
		Expect(doc.Items["whole milk"].Cost.Valid).To(BeFalse())
		Expect(doc.Items).To(HaveKey("eggs"))
	})

	It("should mark the document as entity-derived and valid", func() {
		Expect(doc.Source).To(Equal(SourceEntities))
		Expect(ValidateDocument(doc)).To(Succeed())
	})

	When("there are no entities", func() {
		BeforeEach(func() {
			entities = nil
		})

		It("should default the datetime to Unknown", func() {
			Expect(doc.Transaction.DateTime).To(Equal(Unknown))
			Expect(doc.Items).To(BeEmpty())
		})
	})
})

var _ = Describe("ValidateDocument", func() {
	It("should reject an item without an id", func() {
		doc := &Document{
			Store:  unknownStore(),
			Items:  map[string]ItemRecord{"milk": {}},
			Totals: extractTotals(""),
			Source: SourcePublix,
		}
		Expect(ValidateDocument(doc)).To(MatchError(ContainSubstring("does not match schema")))
	})

	It("should accept a document without a transaction", func() {
		doc := &Document{
			Store:  unknownStore(),
			Items:  map[string]ItemRecord{},
			Totals: extractTotals(""),
			Source: SourcePublix,
		}
		Expect(ValidateDocument(doc)).To(Succeed())
	})
})
