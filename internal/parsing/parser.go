// Package parsing turns the OCR text of a grocery receipt into a structured Document.
//
// Parsing runs in stages over the text: the store header, the item span between the
// store phone number and "Order Total", and the totals and transaction block after it.
// A Parser holds no state between calls and is safe for concurrent use.
package parsing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator supplies item identifiers
type IDGenerator interface {
	Generate() string
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

// Parser parses Publix-style receipt text
type Parser struct {
	ids IDGenerator
}

// NewParser creates a Parser that identifies items with random UUIDs
func NewParser() *Parser {
	return &Parser{ids: uuidGenerator{}}
}

// NewParserWithIDs creates a Parser with a custom ID generator for testing
func NewParserWithIDs(ids IDGenerator) *Parser {
	return &Parser{ids: ids}
}

// Parse builds a Document from receipt text.
//
// Missing optional fields take their defaults. When the "Order Total" marker is
// absent the document has no items and no transaction. When the transaction block
// has no datetime, Parse returns the document without its transaction together with
// an error wrapping ErrMissingDateTime; callers decide whether to keep it.
func (p *Parser) Parse(text string) (*Document, error) {
	doc := &Document{
		Items:  map[string]ItemRecord{},
		Source: SourcePublix,
	}

	store, itemsStart, ok := extractStore(text)
	doc.Store = store
	if !ok {
		doc.Diagnostics = append(doc.Diagnostics, "store phone number not found; item span starts at beginning of text")
	}

	totalAt := strings.Index(text, orderTotalMarker)
	if totalAt < 0 {
		doc.Diagnostics = append(doc.Diagnostics, `"Order Total" marker not found; items, totals and transaction skipped`)
		doc.Totals = extractTotals("")
		return doc, nil
	}
	if totalAt < itemsStart {
		doc.Diagnostics = append(doc.Diagnostics, `"Order Total" precedes the store phone number; items skipped`)
		itemsStart = totalAt
	}

	var occurrences []namedItem
	for _, iv := range segmentItems(text[itemsStart:totalAt]) {
		rec, notes := parseItem(iv.raw, p.ids.Generate())
		key := itemKey(iv.name)
		for _, note := range notes {
			doc.Diagnostics = append(doc.Diagnostics, fmt.Sprintf("item %q: %s", key, note))
		}
		occurrences = append(occurrences, namedItem{key: key, record: rec})
	}
	doc.Items = aggregateItems(occurrences)

	section := text[totalAt:]
	doc.Totals = extractTotals(section)

	tx, err := extractTransaction(section)
	if err != nil {
		return doc, fmt.Errorf("extracting transaction: %w", err)
	}
	doc.Transaction = &tx
	return doc, nil
}
