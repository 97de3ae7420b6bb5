package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-ticker/internal/config"
	"github.com/rxtech-lab/argo-ticker/internal/feed"
	"github.com/rxtech-lab/argo-ticker/internal/logger"
	"github.com/rxtech-lab/argo-ticker/internal/metrics"
	"github.com/rxtech-lab/argo-ticker/internal/session"
	"github.com/rxtech-lab/argo-ticker/internal/version"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// app is everything a command needs to run one ticker session.
type app struct {
	config  config.Config
	logger  *logger.Logger
	source  feed.Source
	session *session.Session
}

// buildConfig loads the config file, if any, and applies the flags set on the command line.
func buildConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}

		cfg = loaded
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"source", &cfg.Source},
		{"endpoint", &cfg.Endpoint},
		{"quote", &cfg.QuoteAsset},
		{"replay-file", &cfg.ReplayFile},
		{"replay-interval", &cfg.ReplayInterval},
		{"log-level", &cfg.LogLevel},
		{"log-file", &cfg.LogFile},
		{"metrics-addr", &cfg.MetricsAddr},
		{"name", &cfg.Filters.Name},
		{"min-price", &cfg.Filters.MinPrice},
		{"change", &cfg.Filters.PriceChange},
	}

	for _, o := range overrides {
		if cmd.IsSet(o.flag) {
			*o.dst = cmd.String(o.flag)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// newApp wires logging, metrics, the feed source and the session from the command flags.
// logOutput replaces the configured log file unless --log-file was given.
func newApp(ctx context.Context, cmd *cli.Command, logOutput string) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	output := cfg.LogFile
	if logOutput != "" && !cmd.IsSet("log-file") {
		output = logOutput
	}

	appLogger, err := logger.NewLoggerWithOptions(logger.Options{Level: cfg.LogLevel, OutputPath: output})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create logger", err)
	}

	source, err := feed.NewSource(feed.SourceType(cfg.Source), cfg.FeedConfig(appLogger.Logger))
	if err != nil {
		return nil, err
	}

	opts := []session.Option{session.WithLogger(appLogger.Logger)}

	if cfg.MetricsAddr != "" {
		recorder := metrics.NewRecorder()
		opts = append(opts, session.WithObserver(recorder))

		go func() {
			if err := recorder.Serve(ctx, cfg.MetricsAddr, appLogger.Logger); err != nil {
				appLogger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	sess := session.New(cfg.QuoteAsset, cfg.Criteria(), opts...)

	appLogger.Info("session started",
		zap.String("session", sess.ID()),
		zap.String("source", cfg.Source),
		zap.String("quote", cfg.QuoteAsset),
		zap.Stringer("criteria", sess.Criteria()))

	return &app{config: cfg, logger: appLogger, source: source, session: sess}, nil
}

func watchAction(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(ctx, cmd, "")
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	p := tea.NewProgram(NewModel(a.session, cancel), tea.WithAltScreen())

	go streamFeed(ctx, p, a.source)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	a.session.Close()

	return nil
}

func printAction(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	a, err := newApp(ctx, cmd, "stderr")
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	// The first good message is all print needs.
	err = a.session.Consume(ctx, a.source, func(s *session.Session) {
		if s.Status() == session.StatusLive {
			cancel()
		}
	})
	a.session.Close()

	if a.session.Stats().Messages == 0 {
		if err != nil {
			return err
		}

		return errors.Newf(errors.ErrCodeFeedConnectionFailed, "no ticker data received within %s", cmd.Duration("timeout"))
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, RenderStaticTable(a.session.Rows()))

	return err
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Bool("sample") {
		data, err := config.SampleYAML("config.schema.json")
		if err != nil {
			return err
		}

		_, err = cmd.Root().Writer.Write(data)

		return err
	}

	schema, err := config.Schema()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

// newCommand builds the ticker CLI.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "ticker",
		Usage:   "Live cryptocurrency ticker with filters",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars("TICKER_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   fmt.Sprintf("Feed source (%s, %s or %s)", feed.SourceBinance, feed.SourceWebSocket, feed.SourceReplay),
				Sources: cli.EnvVars("TICKER_SOURCE"),
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "WebSocket URL for the websocket source",
				Sources: cli.EnvVars("TICKER_ENDPOINT"),
			},
			&cli.StringFlag{
				Name:  "quote",
				Usage: "Only show symbols containing this quote asset; empty shows all (default: USDT)",
			},
			&cli.StringFlag{
				Name:  "replay-file",
				Usage: "Recording played back by the replay source",
			},
			&cli.StringFlag{
				Name:  "replay-interval",
				Usage: "Override the recording frame interval, e.g. 500ms",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("TICKER_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file; empty disables logging (default: ticker.log)",
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "host:port to serve Prometheus metrics on",
				Sources: cli.EnvVars("TICKER_METRICS_ADDR"),
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Initial name filter",
			},
			&cli.StringFlag{
				Name:  "min-price",
				Usage: "Initial minimum price filter",
			},
			&cli.StringFlag{
				Name:  "change",
				Usage: "Initial price change threshold; negative selects rows below it",
			},
		},
		Action: watchAction,
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "Show the live ticker table",
				Action: watchAction,
			},
			{
				Name:  "print",
				Usage: "Print the filtered table once and exit",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the first message",
						Value: 15 * time.Second,
					},
				},
				Action: printAction,
			},
			{
				Name:  "schema",
				Usage: "Print the config file JSON schema",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "sample",
						Usage: "Print a sample YAML config instead",
					},
				},
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
