package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickerSnapshot is one market symbol's rolling 24h state at a point in time.
type TickerSnapshot struct {
	// Symbol is the exchange trading pair code (e.g. BTCUSDT).
	Symbol string `json:"symbol" yaml:"symbol"`
	// LastPrice is the latest traded price.
	LastPrice decimal.Decimal `json:"lastPrice" yaml:"lastPrice"`
	// PriceChangePercent is the signed percentage change over the window.
	PriceChangePercent decimal.Decimal `json:"priceChangePercent" yaml:"priceChangePercent"`
	// Volume is the base asset volume traded over the window.
	Volume decimal.Decimal `json:"volume" yaml:"volume"`
	// EventTime is when the exchange produced the record. Zero if the feed omits it.
	EventTime time.Time `json:"eventTime" yaml:"eventTime"`
}

// SnapshotSet is the complete collection of tickers carried by one feed message.
// Symbols are unique within a set and order follows the message.
type SnapshotSet []TickerSnapshot

// Symbols returns the symbols of the set in order.
func (s SnapshotSet) Symbols() []string {
	symbols := make([]string, 0, len(s))
	for _, t := range s {
		symbols = append(symbols, t.Symbol)
	}

	return symbols
}

// Lookup returns the snapshot for symbol, if present.
func (s SnapshotSet) Lookup(symbol string) (TickerSnapshot, bool) {
	for _, t := range s {
		if t.Symbol == symbol {
			return t, true
		}
	}

	return TickerSnapshot{}, false
}

// Clone returns a copy that shares no backing array with s.
func (s SnapshotSet) Clone() SnapshotSet {
	if s == nil {
		return nil
	}

	out := make(SnapshotSet, len(s))
	copy(out, s)

	return out
}
