// Package feed subscribes to streaming market data and yields whole ticker snapshot sets.
package feed

import (
	"context"
	"iter"
	"time"

	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"go.uber.org/zap"
)

// SourceType defines the kind of market data feed.
type SourceType string

const (
	SourceBinance   SourceType = "binance"
	SourceWebSocket SourceType = "websocket"
	SourceReplay    SourceType = "replay"
)

// DefaultEndpoint is Binance's all-market 24hr ticker stream.
const DefaultEndpoint = "wss://stream.binance.com:9443/ws/!ticker@arr"

// SourceTypes lists every supported source.
var SourceTypes = []SourceType{SourceBinance, SourceWebSocket, SourceReplay}

// Source is a streaming market data feed.
type Source interface {
	// Stream opens one connection and yields a complete snapshot set per message.
	// Parse failures are yielded as recoverable errors and the stream continues.
	// Connection failures are yielded once and end the stream.
	// Cancel the context or stop ranging to close the connection.
	Stream(ctx context.Context) iter.Seq2[types.SnapshotSet, error]
}

// Config carries the settings needed by NewSource.
type Config struct {
	// Endpoint is the WebSocket URL used by SourceWebSocket.
	Endpoint string
	// ReplayFile is the recording played back by SourceReplay.
	ReplayFile string
	// ReplayInterval overrides the recording's frame interval when positive.
	ReplayInterval time.Duration
	Logger         *zap.Logger
}

// NewSource creates a feed source based on the source type.
func NewSource(sourceType SourceType, config Config) (Source, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch sourceType {
	case SourceBinance:
		return NewBinanceSource(logger), nil
	case SourceWebSocket:
		endpoint := config.Endpoint
		if endpoint == "" {
			endpoint = DefaultEndpoint
		}

		return NewWebSocketSource(endpoint, logger), nil
	case SourceReplay:
		if config.ReplayFile == "" {
			return nil, errors.New(errors.ErrCodeMissingParameter, "replay source requires a replay file")
		}

		return NewReplaySource(config.ReplayFile, config.ReplayInterval, logger), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidSource, "unsupported feed source: %s", sourceType)
	}
}
