package receipt

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ybae45/chopchop/internal/parsing"
)

const (
	itemsSheet   = "Items"
	summarySheet = "Summary"
)

var itemHeaders = []any{"Item", "ID", "Cost", "Quantity", "Unit", "Unit Price", "Price Unit", "Savings", "Other"}

// ExportXLSX renders a stored receipt as a spreadsheet with an item sheet and a summary sheet
func (s *Service) ExportXLSX(userID, id string) ([]byte, error) {
	receipt, err := s.GetReceipt(userID, id)
	if err != nil {
		return nil, err
	}
	if receipt.ReceiptInfo == nil {
		return nil, fmt.Errorf("receipt %s has no parsed document", id)
	}

	data, err := writeWorkbook(receipt.ReceiptInfo)
	if err != nil {
		return nil, fmt.Errorf("exporting receipt %s: %w", id, err)
	}
	return data, nil
}

func writeWorkbook(doc *parsing.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if err := f.SetSheetRow(itemsSheet, "A1", &itemHeaders); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	keys := make([]string, 0, len(doc.Items))
	for key := range doc.Items {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for i, key := range keys {
		item := doc.Items[key]
		row := []any{
			key,
			item.ID,
			nullCell(item.Cost),
			nullCell(item.Quantity),
			stringCell(item.Unit),
			nil,
			nil,
			nullCell(item.Savings),
			stringCell(item.Other),
		}
		if item.UnitPrice != nil {
			row[5] = item.UnitPrice.Price.InexactFloat64()
			row[6] = item.UnitPrice.Unit
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing item %q: %w", key, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("creating summary sheet: %w", err)
	}
	for i, pair := range summaryRows(doc) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &pair); err != nil {
			return nil, fmt.Errorf("writing summary: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryRows(doc *parsing.Document) [][]any {
	rows := [][]any{
		{"Store", doc.Store.Name},
		{"Location", doc.Store.Location},
		{"Store Manager", doc.Store.StoreManager},
		{"Phone", doc.Store.Phone},
		{"Order Total", doc.Totals.OrderTotal.InexactFloat64()},
		{"Food Tax", doc.Totals.FoodTax.InexactFloat64()},
		{"Grand Total", doc.Totals.GrandTotal.InexactFloat64()},
		{"Change", doc.Totals.Change.InexactFloat64()},
	}
	if tx := doc.Transaction; tx != nil {
		rows = append(rows,
			[]any{"Date", tx.DateTime},
			[]any{"Receipt ID", tx.ReceiptID},
			[]any{"Cashier", tx.Cashier},
			[]any{"Amount Paid", tx.AmountPaid},
		)
	}
	return rows
}

// nullCell leaves the cell empty for a null value
func nullCell(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func stringCell(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
