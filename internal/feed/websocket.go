package feed

import (
	"context"
	"iter"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"go.uber.org/zap"
)

const (
	handshakeTimeout = 10 * time.Second
	closeWriteWait   = time.Second
	maxFrameSize     = 8 << 20
)

// WebSocketSource reads ticker arrays from any WebSocket endpoint that speaks
// the Binance 24hr ticker payload.
type WebSocketSource struct {
	endpoint string
	dialer   *websocket.Dialer
	logger   *zap.Logger
}

// NewWebSocketSource creates a source for the given ws:// or wss:// URL.
func NewWebSocketSource(endpoint string, logger *zap.Logger) *WebSocketSource {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebSocketSource{
		endpoint: endpoint,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: handshakeTimeout,
		},
		logger: logger.Named("websocket").With(zap.String("endpoint", endpoint)),
	}
}

// Endpoint returns the URL the source dials.
func (s *WebSocketSource) Endpoint() string {
	return s.endpoint
}

// Stream implements Source.
func (s *WebSocketSource) Stream(ctx context.Context) iter.Seq2[types.SnapshotSet, error] {
	return func(yield func(types.SnapshotSet, error) bool) {
		conn, _, err := s.dialer.DialContext(ctx, s.endpoint, nil)
		if err != nil {
			if ctx.Err() == nil {
				yield(nil, errors.Wrapf(errors.ErrCodeFeedConnectionFailed, err, "failed to connect to %s", s.endpoint))
			}

			return
		}

		conn.SetReadLimit(maxFrameSize)
		s.logger.Info("connected")

		// ReadMessage only returns once the socket closes, so cancellation closes it.
		stop := context.AfterFunc(ctx, func() {
			_ = conn.Close()
		})

		defer func() {
			if stop() {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(closeWriteWait))
				_ = conn.Close()
			}
			s.logger.Info("disconnected")
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				lost := errors.Wrap(errors.ErrCodeFeedConnectionLost, "ticker stream closed", err)
				s.logger.Error("connection lost", zap.Error(err))
				yield(nil, lost)

				return
			}

			set, err := DecodeSnapshotSet(data)
			if err != nil {
				s.logger.Warn("dropping malformed ticker frame", zap.Error(err), zap.Int("bytes", len(data)))

				if !yield(nil, err) {
					return
				}

				continue
			}

			if !yield(set, nil) {
				return
			}
		}
	}
}
