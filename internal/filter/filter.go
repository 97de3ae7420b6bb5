// Package filter narrows a ticker snapshot set down to the rows a user wants to see.
package filter

import (
	"strings"

	"github.com/rxtech-lab/argo-ticker/internal/types"
)

// DefaultQuoteAsset is the settlement currency tracked when none is configured.
const DefaultQuoteAsset = "USDT"

// Apply returns the rows of set that satisfy criteria, in their original order.
//
// Stages run in a fixed order, each narrowing the previous output:
//  1. symbols containing quoteAsset (case-insensitive, skipped when quoteAsset is empty)
//  2. price change threshold
//  3. minimum price, inclusive
//  4. name pattern, case-insensitive substring
//
// Apply never sorts, duplicates or modifies rows and does not retain set.
func Apply(set types.SnapshotSet, criteria Criteria, quoteAsset string) types.SnapshotSet {
	rows := make(types.SnapshotSet, 0, len(set))

	quote := strings.ToLower(quoteAsset)
	for _, t := range set {
		if quote == "" || strings.Contains(strings.ToLower(t.Symbol), quote) {
			rows = append(rows, t)
		}
	}

	if criteria.PriceChangeThreshold.IsSome() {
		threshold := criteria.PriceChangeThreshold.Unwrap()
		rows = keep(rows, func(t types.TickerSnapshot) bool {
			return threshold.Match(t.PriceChangePercent)
		})
	}

	if criteria.MinPrice.IsSome() {
		minPrice := criteria.MinPrice.Unwrap()
		rows = keep(rows, func(t types.TickerSnapshot) bool {
			return t.LastPrice.GreaterThanOrEqual(minPrice)
		})
	}

	if criteria.NamePattern.IsSome() {
		pattern := strings.ToLower(criteria.NamePattern.Unwrap())
		rows = keep(rows, func(t types.TickerSnapshot) bool {
			return strings.Contains(strings.ToLower(t.Symbol), pattern)
		})
	}

	return rows
}

// keep filters rows in place.
func keep(rows types.SnapshotSet, pred func(types.TickerSnapshot) bool) types.SnapshotSet {
	out := rows[:0]
	for _, t := range rows {
		if pred(t) {
			out = append(out, t)
		}
	}

	return out
}
