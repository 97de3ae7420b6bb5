// Package metrics exports ticker feed counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "argo_ticker"

// Recorder holds the collectors of one process. It implements session.Observer.
type Recorder struct {
	registry *prometheus.Registry

	messages         prometheus.Counter
	parseErrors      prometheus.Counter
	connectionErrors prometheus.Counter
	snapshotSymbols  prometheus.Gauge
	displayedRows    prometheus.Gauge
	lastMessage      prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "messages_total",
			Help:      "Total number of ticker frames applied.",
		}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "parse_errors_total",
			Help:      "Total number of malformed ticker frames dropped.",
		}),
		connectionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "connection_errors_total",
			Help:      "Total number of feed connection failures.",
		}),
		snapshotSymbols: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "snapshot_symbols",
			Help:      "Number of symbols in the latest snapshot set.",
		}),
		displayedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "displayed_rows",
			Help:      "Number of rows left after filtering.",
		}),
		lastMessage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "last_message_timestamp_seconds",
			Help:      "Unix time of the latest applied ticker frame.",
		}),
	}

	r.registry.MustRegister(
		r.messages,
		r.parseErrors,
		r.connectionErrors,
		r.snapshotSymbols,
		r.displayedRows,
		r.lastMessage,
	)

	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveMessage counts a feed message and records its symbol count and arrival time.
func (r *Recorder) ObserveMessage(symbols int) {
	r.messages.Inc()
	r.snapshotSymbols.Set(float64(symbols))
	r.lastMessage.SetToCurrentTime()
}

// ObserveParseError counts a dropped malformed message.
func (r *Recorder) ObserveParseError() {
	r.parseErrors.Inc()
}

// ObserveConnectionError counts a failed or lost feed connection.
func (r *Recorder) ObserveConnectionError() {
	r.connectionErrors.Inc()
}

// ObserveRows records how many rows the view displays.
func (r *Recorder) ObserveRows(rows int) {
	r.displayedRows.Set(float64(rows))
}

// Handler returns the /metrics handler for this recorder.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", zap.String("addr", addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
