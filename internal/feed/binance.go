package feed

import (
	"context"
	stderrors "errors"
	"io"
	"iter"
	"net"

	binance "github.com/adshao/go-binance/v2"
	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"go.uber.org/zap"
)

// BinanceWebSocketService is the subset of the go-binance WebSocket API used by BinanceSource.
type BinanceWebSocketService interface {
	WsAllMarketsStatServe(
		handler binance.WsAllMarketsStatHandler,
		errHandler binance.ErrHandler,
	) (doneC chan struct{}, stopC chan struct{}, err error)
}

// binanceWebSocketService forwards to the package level go-binance functions.
type binanceWebSocketService struct{}

func (binanceWebSocketService) WsAllMarketsStatServe(
	handler binance.WsAllMarketsStatHandler,
	errHandler binance.ErrHandler,
) (chan struct{}, chan struct{}, error) {
	return binance.WsAllMarketsStatServe(handler, errHandler)
}

// BinanceSource streams the all-market 24hr ticker array through go-binance.
type BinanceSource struct {
	ws     BinanceWebSocketService
	logger *zap.Logger
}

// NewBinanceSource creates a source backed by the live Binance stream.
func NewBinanceSource(logger *zap.Logger) *BinanceSource {
	return NewBinanceSourceWithWebSocket(binanceWebSocketService{}, logger)
}

// NewBinanceSourceWithWebSocket creates a source with a custom WebSocket service.
func NewBinanceSourceWithWebSocket(ws BinanceWebSocketService, logger *zap.Logger) *BinanceSource {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BinanceSource{
		ws:     ws,
		logger: logger.Named("binance"),
	}
}

// Stream implements Source.
func (s *BinanceSource) Stream(ctx context.Context) iter.Seq2[types.SnapshotSet, error] {
	return func(yield func(types.SnapshotSet, error) bool) {
		// one channel for sets and parse errors keeps them in arrival order
		results := make(chan result, 16)
		quit := make(chan struct{})

		var connErr error

		send := func(r result) {
			select {
			case results <- r:
			case <-quit:
			}
		}

		handler := func(event binance.WsAllMarketsStatEvent) {
			set, err := convertBinanceEvent(event)
			send(result{set: set, err: err})
		}

		errHandler := func(err error) {
			if isConnectionError(err) {
				// the serve loop exits right after and doneC reports the loss
				connErr = err

				return
			}

			send(result{set: nil, err: errors.Wrap(errors.ErrCodeFeedParseFailed, "malformed ticker frame", err)})
		}

		doneC, stopC, err := s.ws.WsAllMarketsStatServe(handler, errHandler)
		if err != nil {
			yield(nil, errors.Wrap(errors.ErrCodeFeedConnectionFailed, "failed to subscribe to binance ticker stream", err))

			return
		}

		s.logger.Info("subscribed to all market tickers")

		defer func() {
			close(quit)
			select {
			case <-doneC:
			default:
				close(stopC)
				<-doneC
			}
			s.logger.Info("binance ticker stream closed")
		}()

		deliver := func(r result) bool {
			if r.err != nil {
				s.logger.Warn("dropping malformed ticker frame", zap.Error(r.err))
			}

			return yield(r.set, r.err)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case r := <-results:
				if !deliver(r) {
					return
				}
			case <-doneC:
				if ctx.Err() != nil {
					return
				}

				// hand over whatever arrived before the socket closed
				for pending := true; pending; {
					select {
					case r := <-results:
						if !deliver(r) {
							return
						}
					default:
						pending = false
					}
				}

				lost := errors.Wrap(errors.ErrCodeFeedConnectionLost, "binance ticker stream closed", connErr)
				s.logger.Error("connection lost", zap.Error(lost))
				yield(nil, lost)

				return
			}
		}
	}
}

// result is one item travelling from the go-binance callbacks to the iterator.
type result struct {
	set types.SnapshotSet
	err error
}

// convertBinanceEvent converts a go-binance ticker array into a snapshot set.
func convertBinanceEvent(event binance.WsAllMarketsStatEvent) (types.SnapshotSet, error) {
	records := make([]rawTicker, 0, len(event))

	for _, e := range event {
		if e == nil {
			continue
		}

		records = append(records, rawTicker{
			Symbol:        e.Symbol,
			LastPrice:     e.LastPrice,
			ChangePercent: e.PriceChangePercent,
			Volume:        e.BaseVolume,
			EventTime:     e.Time,
		})
	}

	return buildSnapshotSet(records)
}

// isConnectionError separates socket failures from payload decoding failures.
func isConnectionError(err error) bool {
	var closeErr *websocket.CloseError
	if stderrors.As(err, &closeErr) {
		return true
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	return stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, net.ErrClosed)
}
