package parsing

import "strings"

// Entity types used by FromEntities
const (
	EntityLocation     = "LOCATION"
	EntityDate         = "DATE"
	EntityConsumerGood = "CONSUMER_GOOD"
)

// Entity is a named entity found in receipt text by an external analyzer
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FromEntities builds a Document for receipts the pattern parser doesn't know.
// Only store, date and item names can be recovered this way; item details stay null.
func FromEntities(storeLine string, entities []Entity, ids IDGenerator) *Document {
	if ids == nil {
		ids = uuidGenerator{}
	}

	doc := &Document{
		Store:  unknownStore(),
		Items:  map[string]ItemRecord{},
		Totals: extractTotals(""),
		Source: SourceEntities,
	}

	doc.Store.Name = "unknown"
	if storeLine != "" {
		doc.Store.Name = storeLine
		doc.Store.Location = storeLine
	} else if loc, ok := firstEntity(entities, EntityLocation); ok {
		doc.Store.Location = loc
	}

	tx := TransactionInfo{
		ReceiptID:           Unknown,
		TraceNumber:         Unknown,
		ReferenceNumber:     Unknown,
		AccountNumber:       Unknown,
		PurchaseType:        Unknown,
		AmountPaid:          Unknown,
		AuthorizationNumber: Unknown,
		CreditCard:          Unknown,
		Mode:                Unknown,
		Cashier:             Unknown,
		DateTime:            Unknown,
	}
	if date, ok := firstEntity(entities, EntityDate); ok {
		tx.DateTime = date
	}
	doc.Transaction = &tx

	for _, e := range entities {
		if e.Type != EntityConsumerGood {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			continue
		}
		if _, dup := doc.Items[key]; dup {
			continue
		}
		doc.Items[key] = ItemRecord{ID: ids.Generate()}
	}
	return doc
}

func firstEntity(entities []Entity, typ string) (string, bool) {
	for _, e := range entities {
		if e.Type == typ && strings.TrimSpace(e.Name) != "" {
			return strings.TrimSpace(e.Name), true
		}
	}
	return "", false
}
