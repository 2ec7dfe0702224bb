package parsing

import "github.com/shopspring/decimal"

// namedItem is one item occurrence as it came out of segmentation
type namedItem struct {
	key    string
	record ItemRecord
}

// tally carries what merge needs to know beyond the record itself
type tally struct {
	record      ItemRecord
	occurrences int
	explicitQty bool
}

// aggregateItems folds occurrences into one record per key, in order, so the id of
// the first occurrence is the one kept.
func aggregateItems(occurrences []namedItem) map[string]ItemRecord {
	tallies := make(map[string]tally, len(occurrences))
	for _, occ := range occurrences {
		acc, seen := tallies[occ.key]
		if !seen {
			tallies[occ.key] = tally{
				record:      occ.record,
				occurrences: 1,
				explicitQty: occ.record.Quantity.Valid,
			}
			continue
		}
		tallies[occ.key] = merge(acc, occ.record)
	}

	items := make(map[string]ItemRecord, len(tallies))
	for key, t := range tallies {
		items[key] = t.record
	}
	return items
}

// merge combines a repeated occurrence into the running tally.
//
// Quantity: when no occurrence has printed a quantity, the quantity is the number of
// times the item was rung up; once any occurrence prints one, printed quantities
// are summed instead.
func merge(acc tally, next ItemRecord) tally {
	out := acc
	out.occurrences++
	rec := acc.record

	if rec.Cost.Valid || next.Cost.Valid {
		rec.Cost = decimal.NewNullDecimal(orZero(rec.Cost).Add(orZero(next.Cost)))
	}
	rec.Savings = decimal.NewNullDecimal(orZero(rec.Savings).Add(orZero(next.Savings)))

	switch {
	case next.Quantity.Valid && acc.explicitQty:
		rec.Quantity = decimal.NewNullDecimal(rec.Quantity.Decimal.Add(next.Quantity.Decimal))
	case next.Quantity.Valid:
		rec.Quantity = next.Quantity
		out.explicitQty = true
	case !acc.explicitQty:
		rec.Quantity = decimal.NewNullDecimal(decimal.NewFromInt(int64(out.occurrences)))
	}

	out.record = rec
	return out
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
