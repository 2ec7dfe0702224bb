package parsing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	decimalPattern   = regexp.MustCompile(`\d+\.\d+`)
	youSavedPattern  = regexp.MustCompile(`You Saved\s+(\d+\.\d+)`)
	promotionPattern = regexp.MustCompile(`Promotion\s+(-\d+\.\d+)`)
	unitPricePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s+([a-zA-Z]+)\s*@\s*(\d+(?:\.\d+)?)\s*/\s*([a-zA-Z]+)`)
)

// itemState is what the rules work on. raw never changes; rest shrinks as rules
// consume the text they recognize.
type itemState struct {
	raw   string
	rest  string
	rec   ItemRecord
	notes []string
}

// cut removes rest[loc[0]:loc[1]] and trims what is left
func (s *itemState) cut(loc []int) {
	s.rest = strings.TrimSpace(s.rest[:loc[0]] + s.rest[loc[1]:])
}

func (s *itemState) setOther() {
	if s.rest == "" {
		s.rec.Other = nil
		return
	}
	s.rec.Other = stringPtr(s.rest)
}

// itemRules run in order; a later rule only sees text earlier rules left behind.
// A rule returns true when parsing is finished.
var itemRules = []func(s *itemState) (done bool){
	applySinglePrice,
	applyYouSaved,
	applyPromotion,
	applyMultiBuy,
	applyUnitPrice,
	applyLonePrice,
	applyLastPrice,
}

// parseItem turns one raw interval into an ItemRecord. The returned notes describe
// ambiguities worth surfacing in the document's diagnostics.
func parseItem(raw, id string) (ItemRecord, []string) {
	s := &itemState{
		raw:  raw,
		rest: strings.TrimSpace(raw),
		rec:  ItemRecord{ID: id},
	}
	for _, apply := range itemRules {
		if apply(s) {
			break
		}
	}
	return s.rec, s.notes
}

func applySinglePrice(s *itemState) bool {
	prices := decimalPattern.FindAllString(s.raw, -1)
	if len(prices) != 1 {
		return false
	}
	s.rec.Cost = nullDecimal(prices[0])
	return true
}

func applyYouSaved(s *itemState) bool {
	m := youSavedPattern.FindStringSubmatchIndex(s.rest)
	if m == nil {
		return false
	}
	s.rec.Savings = nullDecimal(s.rest[m[2]:m[3]])
	s.cut(m[:2])
	return false
}

// applyPromotion overwrites any savings already found by applyYouSaved
func applyPromotion(s *itemState) bool {
	if !strings.Contains(s.rest, "Promotion") {
		return false
	}
	m := promotionPattern.FindStringSubmatchIndex(s.rest)
	if m == nil {
		return false
	}
	amount := decimal.RequireFromString(s.rest[m[2]:m[3]]).Abs()
	if s.rec.Savings.Valid {
		s.notes = append(s.notes, fmt.Sprintf("promotion %s replaced you-saved %s", amount, s.rec.Savings.Decimal))
	}
	s.rec.Savings = decimal.NewNullDecimal(amount)
	s.cut(m[:2])
	return false
}

// applyMultiBuy handles "2 FOR 3.00" lines. The last price is taken as the line
// cost, which is wrong when a per-unit price is printed after the total.
func applyMultiBuy(s *itemState) bool {
	if !strings.Contains(s.rest, multiBuyToken) {
		return false
	}
	loc := lastDecimal(s.rest)
	if loc == nil {
		return false
	}
	s.rec.Cost = nullDecimal(s.rest[loc[0]:loc[1]])
	s.cut(loc)
	s.setOther()
	return false
}

func applyUnitPrice(s *itemState) bool {
	if !strings.Contains(s.rest, "@") || !strings.Contains(s.rest, "/") {
		return false
	}
	m := unitPricePattern.FindStringSubmatchIndex(s.rest)
	if m == nil {
		return false
	}
	s.rec.Quantity = nullDecimal(s.rest[m[2]:m[3]])
	s.rec.Unit = stringPtr(s.rest[m[4]:m[5]])
	s.rec.UnitPrice = &UnitPrice{
		Price: decimal.RequireFromString(s.rest[m[6]:m[7]]),
		Unit:  s.rest[m[8]:m[9]],
	}
	s.cut(m[:2])
	return false
}

func applyLonePrice(s *itemState) bool {
	locs := decimalPattern.FindAllStringIndex(s.rest, -1)
	if len(locs) != 1 {
		return false
	}
	if !s.rec.Cost.Valid {
		s.rec.Cost = nullDecimal(s.rest[locs[0][0]:locs[0][1]])
		s.cut(locs[0])
	}
	return true
}

func applyLastPrice(s *itemState) bool {
	if !s.rec.Cost.Valid {
		if loc := lastDecimal(s.rest); loc != nil {
			s.rec.Cost = nullDecimal(s.rest[loc[0]:loc[1]])
			s.cut(loc)
		}
	}
	s.setOther()
	return true
}

func lastDecimal(text string) []int {
	locs := decimalPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	return locs[len(locs)-1]
}

// nullDecimal parses a token the caller has already matched against a numeric pattern
func nullDecimal(token string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(token))
}
