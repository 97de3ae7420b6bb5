package feed

import (
	"time"

	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Wire keys of the Binance 24hr ticker payload.
const (
	keySymbol        = "s"
	keyLastPrice     = "c"
	keyChangePercent = "P"
	keyVolume        = "v"
	keyEventTime     = "E"
)

// DecodeSnapshotSet parses one feed frame into a snapshot set.
//
// The frame is either a JSON array of ticker records or a combined-stream
// envelope ({"stream": ..., "data": [...]}). Any malformed record rejects the
// whole frame so that a partial set never replaces a good one.
func DecodeSnapshotSet(data []byte) (types.SnapshotSet, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrCodeFeedParseFailed, "frame is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("data")
	}

	if !root.IsArray() {
		return nil, errors.New(errors.ErrCodeFeedParseFailed, "frame is not a ticker array")
	}

	records := root.Array()
	rawRecords := make([]rawTicker, 0, len(records))

	for _, record := range records {
		if !record.IsObject() {
			return nil, errors.Newf(errors.ErrCodeFeedParseFailed, "ticker record is not an object: %s", record.Raw)
		}

		rawRecords = append(rawRecords, rawTicker{
			Symbol:        record.Get(keySymbol).String(),
			LastPrice:     scalar(record.Get(keyLastPrice)),
			ChangePercent: scalar(record.Get(keyChangePercent)),
			Volume:        scalar(record.Get(keyVolume)),
			EventTime:     record.Get(keyEventTime).Int(),
		})
	}

	return buildSnapshotSet(rawRecords)
}

// scalar returns the textual value of a string or number field.
func scalar(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}

// rawTicker is a ticker record before numeric conversion.
type rawTicker struct {
	Symbol        string
	LastPrice     string
	ChangePercent string
	Volume        string
	EventTime     int64
}

// buildSnapshotSet converts raw records, rejecting missing fields, bad numbers and duplicate symbols.
func buildSnapshotSet(records []rawTicker) (types.SnapshotSet, error) {
	set := make(types.SnapshotSet, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		if r.Symbol == "" {
			return nil, errors.Wrap(errors.ErrCodeFeedParseFailed, "ticker record without symbol",
				errors.NewFieldParseError("", keySymbol, r.Symbol))
		}

		if _, dup := seen[r.Symbol]; dup {
			return nil, errors.Newf(errors.ErrCodeFeedDuplicateSymbol, "symbol %s repeated in one frame", r.Symbol)
		}

		seen[r.Symbol] = struct{}{}

		lastPrice, err := parseField(r.Symbol, keyLastPrice, r.LastPrice)
		if err != nil {
			return nil, err
		}

		changePercent, err := parseField(r.Symbol, keyChangePercent, r.ChangePercent)
		if err != nil {
			return nil, err
		}

		volume, err := parseField(r.Symbol, keyVolume, r.Volume)
		if err != nil {
			return nil, err
		}

		var eventTime time.Time
		if r.EventTime > 0 {
			eventTime = time.UnixMilli(r.EventTime)
		}

		set = append(set, types.TickerSnapshot{
			Symbol:             r.Symbol,
			LastPrice:          lastPrice,
			PriceChangePercent: changePercent,
			Volume:             volume,
			EventTime:          eventTime,
		})
	}

	return set, nil
}

func parseField(symbol, key, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrap(errors.ErrCodeFeedParseFailed, "malformed ticker record",
			errors.NewFieldParseError(symbol, key, raw))
	}

	return d, nil
}
