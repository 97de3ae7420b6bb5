// Package session owns the state of one ticker view: the latest snapshot set,
// the filter criteria and the feed status.
//
// A Session is not safe for concurrent use. Feed handlers and criteria
// changes must run one at a time, either from a Bubble Tea Update loop or
// from Consume.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-ticker/internal/feed"
	"github.com/rxtech-lab/argo-ticker/internal/filter"
	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"go.uber.org/zap"
)

// Status is the health of the feed as seen by the view.
type Status int

const (
	// StatusConnecting means no message has arrived yet.
	StatusConnecting Status = iota
	// StatusLive means the snapshot set reflects the latest message.
	StatusLive
	// StatusStale means the connection is gone and the last good set is shown.
	StatusStale
	// StatusClosed means the view was torn down.
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusLive:
		return "live"
	case StatusStale:
		return "stale"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stats counts what the session has received.
type Stats struct {
	Messages         int
	ParseErrors      int
	ConnectionErrors int
	LastUpdate       time.Time
}

// Observer is notified of session events, e.g. to export metrics.
type Observer interface {
	ObserveMessage(symbols int)
	ObserveParseError()
	ObserveConnectionError()
	ObserveRows(rows int)
}

type nopObserver struct{}

func (nopObserver) ObserveMessage(int)      {}
func (nopObserver) ObserveParseError()      {}
func (nopObserver) ObserveConnectionError() {}
func (nopObserver) ObserveRows(int)         {}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithObserver sets the event observer.
func WithObserver(observer Observer) Option {
	return func(s *Session) {
		s.observer = observer
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session is the single owner of a view's ticker state.
type Session struct {
	id         string
	quoteAsset string
	snapshots  types.SnapshotSet
	criteria   filter.Criteria
	status     Status
	lastErr    error
	stats      Stats

	logger   *zap.Logger
	observer Observer
	now      func() time.Time
}

// New creates a session with an empty snapshot set.
func New(quoteAsset string, criteria filter.Criteria, opts ...Option) *Session {
	s := &Session{
		id:         uuid.NewString(),
		quoteAsset: quoteAsset,
		snapshots:  types.SnapshotSet{},
		criteria:   criteria,
		status:     StatusConnecting,
		logger:     zap.NewNop(),
		observer:   nopObserver{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With(zap.String("session", s.id))

	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// QuoteAsset returns the tracked settlement currency.
func (s *Session) QuoteAsset() string {
	return s.quoteAsset
}

// OnFeedMessage replaces the snapshot set with the newest message.
// Symbols missing from set are dropped.
func (s *Session) OnFeedMessage(set types.SnapshotSet) {
	if s.status == StatusClosed {
		return
	}

	s.snapshots = set.Clone()
	if s.snapshots == nil {
		s.snapshots = types.SnapshotSet{}
	}

	s.status = StatusLive
	s.stats.Messages++
	s.stats.LastUpdate = s.now()
	s.observer.ObserveMessage(len(set))

	s.logger.Debug("snapshot set replaced", zap.Int("symbols", len(set)))
}

// OnFeedError records a feed error. Parse errors leave the current snapshot set
// in place; connection errors additionally mark the view stale.
func (s *Session) OnFeedError(err error) {
	if err == nil || s.status == StatusClosed {
		return
	}

	s.lastErr = err

	if errors.IsRecoverable(err) {
		s.stats.ParseErrors++
		s.observer.ObserveParseError()
		s.logger.Warn("ignoring malformed feed message", zap.Error(err))

		return
	}

	s.stats.ConnectionErrors++
	s.status = StatusStale
	s.observer.ObserveConnectionError()
	s.logger.Error("feed connection failed, showing last good data", zap.Error(err))
}

// OnFeedClosed marks the view stale when the stream ends on its own.
func (s *Session) OnFeedClosed() {
	if s.status == StatusClosed || s.status == StatusStale {
		return
	}

	s.status = StatusStale
	s.logger.Info("feed ended")
}

// OnCriteriaChange updates one filter field from raw user input.
func (s *Session) OnCriteriaChange(field filter.Field, raw string) error {
	if err := s.criteria.Set(field, raw); err != nil {
		return err
	}

	s.logger.Debug("criteria changed", zap.Stringer("field", field), zap.String("criteria", s.criteria.String()))

	return nil
}

// SetCriteria replaces every filter field at once.
func (s *Session) SetCriteria(criteria filter.Criteria) {
	s.criteria = criteria
}

// Criteria returns the current filter criteria.
func (s *Session) Criteria() filter.Criteria {
	return s.criteria
}

// Snapshots returns the latest snapshot set.
func (s *Session) Snapshots() types.SnapshotSet {
	return s.snapshots
}

// Rows derives the displayed rows from the snapshot set and the criteria.
func (s *Session) Rows() types.SnapshotSet {
	rows := filter.Apply(s.snapshots, s.criteria, s.quoteAsset)
	s.observer.ObserveRows(len(rows))

	return rows
}

// Status returns the feed status.
func (s *Session) Status() Status {
	return s.status
}

// LastError returns the most recent feed error, or nil.
func (s *Session) LastError() error {
	return s.lastErr
}

// Stats returns message counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// Close tears the view down. Later feed events are ignored.
func (s *Session) Close() {
	if s.status == StatusClosed {
		return
	}

	s.status = StatusClosed
	s.logger.Info("session closed",
		zap.Int("messages", s.stats.Messages),
		zap.Int("parse_errors", s.stats.ParseErrors))
}

// Consume ranges over source and dispatches every item to the session
// handlers, calling notify after each one. It returns when the stream ends or
// ctx is cancelled, with the terminal connection error if there was one.
func (s *Session) Consume(ctx context.Context, source feed.Source, notify func(*Session)) error {
	if notify == nil {
		notify = func(*Session) {}
	}

	var terminal error

	for set, err := range source.Stream(ctx) {
		if err != nil {
			s.OnFeedError(err)

			if !errors.IsRecoverable(err) {
				terminal = err
			}
		} else {
			s.OnFeedMessage(set)
		}

		notify(s)
	}

	if ctx.Err() != nil {
		return nil
	}

	s.OnFeedClosed()
	notify(s)

	return terminal
}
