package parsing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// documentSchema describes the JSON encoding of a Document
func documentSchema() map[string]any {
	text := map[string]any{"type": "string"}
	money := decimalProp()
	nullableMoney := map[string]any{"oneOf": []any{decimalProp(), map[string]any{"type": "null"}}}
	nullableText := map[string]any{"type": []any{"string", "null"}}

	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":       map[string]any{"type": "string", "minLength": 1},
			"cost":     nullableMoney,
			"quantity": nullableMoney,
			"unit":     nullableText,
			"unitPrice": map[string]any{
				"oneOf": []any{
					map[string]any{"type": "null"},
					map[string]any{
						"type":       "object",
						"properties": map[string]any{"price": money, "unit": text},
						"required":   []string{"price", "unit"},
					},
				},
			},
			"savings": nullableMoney,
			"other":   nullableText,
		},
		"required": []string{"id", "cost", "quantity", "unit", "unitPrice", "savings", "other"},
	}

	txFields := []string{
		"receipt_id", "trace_number", "reference_number", "account_number",
		"purchase_type", "amount_paid", "authorization_number", "credit_card",
		"mode", "cashier", "datetime",
	}
	txProps := map[string]any{}
	for _, f := range txFields {
		txProps[f] = text
	}
	txProps["datetime"] = map[string]any{"type": "string", "minLength": 1}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"store": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":          text,
					"location":      text,
					"store_manager": text,
					"phone":         text,
				},
				"required": []string{"name", "location", "store_manager", "phone"},
			},
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": item,
			},
			"totals": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"order_total": money,
					"food_tax":    money,
					"grand_total": money,
					"change":      money,
				},
				"required": []string{"order_total", "food_tax", "grand_total", "change"},
			},
			"transaction": map[string]any{
				"oneOf": []any{
					map[string]any{"type": "null"},
					map[string]any{"type": "object", "properties": txProps, "required": txFields},
				},
			},
			"source":      map[string]any{"enum": []string{SourcePublix, SourceEntities}},
			"diagnostics": map[string]any{"type": "array", "items": text},
		},
		"required": []string{"store", "items", "totals", "transaction", "source"},
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d+)?$`,
	}
}

func documentValidator() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(documentSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("document.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("document.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateDocument checks the JSON encoding of doc against the document schema
func ValidateDocument(doc *Document) error {
	schema, err := documentValidator()
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
