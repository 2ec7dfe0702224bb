package parsing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Unknown is the value given to any text field whose pattern did not match
const Unknown = "Unknown"

// DateTimeLayout is the layout of TransactionInfo.DateTime
const DateTimeLayout = "01/02/2006 15:04"

// Document sources
const (
	SourcePublix   = "publix"
	SourceEntities = "entities"
)

// Document is the structured form of one receipt
type Document struct {
	Store       StoreInfo             `json:"store"`
	Items       map[string]ItemRecord `json:"items"`
	Totals      TotalsInfo            `json:"totals"`
	Transaction *TransactionInfo      `json:"transaction"`
	Source      string                `json:"source"`
	Diagnostics []string              `json:"diagnostics,omitempty"`
}

// StoreInfo identifies the store that printed the receipt
type StoreInfo struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	StoreManager string `json:"store_manager"`
	Phone        string `json:"phone"`
}

// ItemRecord is one purchased line item, after duplicates have been merged
type ItemRecord struct {
	ID        string              `json:"id"`
	Cost      decimal.NullDecimal `json:"cost"`
	Quantity  decimal.NullDecimal `json:"quantity"`
	Unit      *string             `json:"unit"`
	UnitPrice *UnitPrice          `json:"unitPrice"`
	Savings   decimal.NullDecimal `json:"savings"`
	Other     *string             `json:"other"`
}

// UnitPrice is a price per unit of measure, e.g. 0.69 / lb
type UnitPrice struct {
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
}

// TotalsInfo holds the receipt's summary figures
type TotalsInfo struct {
	OrderTotal decimal.Decimal `json:"order_total"`
	FoodTax    decimal.Decimal `json:"food_tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Change     decimal.Decimal `json:"change"`
}

// TransactionInfo holds payment and checkout metadata
type TransactionInfo struct {
	ReceiptID           string `json:"receipt_id"`
	TraceNumber         string `json:"trace_number"`
	ReferenceNumber     string `json:"reference_number"`
	AccountNumber       string `json:"account_number"`
	PurchaseType        string `json:"purchase_type"`
	AmountPaid          string `json:"amount_paid"`
	AuthorizationNumber string `json:"authorization_number"`
	CreditCard          string `json:"credit_card"`
	Mode                string `json:"mode"`
	Cashier             string `json:"cashier"`
	DateTime            string `json:"datetime"`
}

// Time parses DateTime. Documents built from entities may carry free-form dates,
// in which case an error is returned.
func (t TransactionInfo) Time() (time.Time, error) {
	ts, err := time.Parse(DateTimeLayout, t.DateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing transaction datetime %q: %w", t.DateTime, err)
	}
	return ts, nil
}

func unknownStore() StoreInfo {
	return StoreInfo{
		Name:         Unknown,
		Location:     Unknown,
		StoreManager: Unknown,
		Phone:        Unknown,
	}
}

func stringPtr(s string) *string {
	return &s
}
