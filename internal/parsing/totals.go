package parsing

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMissingDateTime is returned when the transaction block has no MM/DD/YYYY HH:MM stamp.
// Receipts are sorted and displayed by this value, so it is never defaulted.
var ErrMissingDateTime = errors.New("transaction datetime not found")

const (
	orderTotalMarker = "Order Total"
	receiptIDMarker  = "Receipt ID"
)

var (
	orderTotalPattern = regexp.MustCompile(`Order Total\s*(\d+(?:\.\d+)?)`)
	foodTaxPattern    = regexp.MustCompile(`Food Tax\s*(\d+(?:\.\d+)?)`)
	grandTotalPattern = regexp.MustCompile(`Grand Total\s*(\d+(?:\.\d+)?)`)
	changePattern     = regexp.MustCompile(`Change\s*(\d+(?:\.\d+)?)`)
)

var (
	receiptIDPattern     = regexp.MustCompile(`Receipt ID:\s*([\w ]+)`)
	traceNumberPattern   = regexp.MustCompile(`Trace #:\s*(\d+)`)
	referencePattern     = regexp.MustCompile(`Reference #:\s*(\d+)`)
	accountNumberPattern = regexp.MustCompile(`Acct #:\s*([\w*]+)`)
	purchaseTypePattern  = regexp.MustCompile(`Purchase\s*(\w+)`)
	amountPaidPattern    = regexp.MustCompile(`Amount:\s*\$(\d+\.\d{2})`)
	authorizationPattern = regexp.MustCompile(`Auth #:\s*(\w+)`)
	creditCardPattern    = regexp.MustCompile(`CREDIT CARD`)
	modePattern          = regexp.MustCompile(`Mode:\s*([\w ]+)`)
	cashierPattern       = regexp.MustCompile(`Your cashier was\s*(.*?)\s\d{2}/\d{2}/\d{4}`)
	dateTimePattern      = regexp.MustCompile(`\d{2}/\d{2}/\d{4} \d{2}:\d{2}`)
)

// extractTotals reads the four summary figures; a missing one is zero
func extractTotals(section string) TotalsInfo {
	return TotalsInfo{
		OrderTotal: matchAmount(orderTotalPattern, section),
		FoodTax:    matchAmount(foodTaxPattern, section),
		GrandTotal: matchAmount(grandTotalPattern, section),
		Change:     matchAmount(changePattern, section),
	}
}

// extractTransaction reads payment metadata from the Receipt ID line onwards
func extractTransaction(section string) (TransactionInfo, error) {
	if at := strings.Index(section, receiptIDMarker); at >= 0 {
		section = section[at:]
	}

	info := TransactionInfo{
		ReceiptID:           matchGroup(receiptIDPattern, section),
		TraceNumber:         matchGroup(traceNumberPattern, section),
		ReferenceNumber:     matchGroup(referencePattern, section),
		AccountNumber:       matchGroup(accountNumberPattern, section),
		PurchaseType:        matchGroup(purchaseTypePattern, section),
		AmountPaid:          matchGroup(amountPaidPattern, section),
		AuthorizationNumber: matchGroup(authorizationPattern, section),
		CreditCard:          Unknown,
		Mode:                matchGroup(modePattern, section),
		Cashier:             matchGroup(cashierPattern, section),
	}
	if creditCardPattern.MatchString(section) {
		info.CreditCard = "CREDIT CARD"
	}

	info.DateTime = dateTimePattern.FindString(section)
	if info.DateTime == "" {
		return info, ErrMissingDateTime
	}
	return info, nil
}

func matchGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return Unknown
	}
	if v := strings.TrimSpace(m[1]); v != "" {
		return v
	}
	return Unknown
}

func matchAmount(re *regexp.Regexp, text string) decimal.Decimal {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero
	}
	return d
}
