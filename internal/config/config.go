// Package config loads the ticker configuration from YAML and validates it.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-ticker/internal/feed"
	"github.com/rxtech-lab/argo-ticker/internal/filter"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FilterConfig seeds the filter inputs. Values use the same text the inputs accept.
type FilterConfig struct {
	Name        string `yaml:"name" json:"name,omitempty" jsonschema:"title=Name,description=Case-insensitive substring of the symbol"`
	MinPrice    string `yaml:"minPrice" json:"minPrice,omitempty" jsonschema:"title=Minimum Price,description=Inclusive lower bound on the last price"`
	PriceChange string `yaml:"priceChange" json:"priceChange,omitempty" jsonschema:"title=Price Change,description=Percent change threshold; negative keeps rows below it and positive keeps rows above it"`
}

// Config is the complete ticker configuration.
type Config struct {
	Source         string       `yaml:"source" json:"source" jsonschema:"title=Source,description=Market data feed,enum=binance,enum=websocket,enum=replay,default=binance" validate:"required,oneof=binance websocket replay"`
	Endpoint       string       `yaml:"endpoint" json:"endpoint,omitempty" jsonschema:"title=Endpoint,description=WebSocket URL used by the websocket source" validate:"omitempty,url"`
	QuoteAsset     string       `yaml:"quoteAsset" json:"quoteAsset" jsonschema:"title=Quote Asset,description=Only symbols containing this currency are shown; empty shows all,default=USDT" validate:"omitempty,alphanum"`
	ReplayFile     string       `yaml:"replayFile" json:"replayFile,omitempty" jsonschema:"title=Replay File,description=Recording played back by the replay source" validate:"required_if=Source replay"`
	ReplayInterval string       `yaml:"replayInterval" json:"replayInterval,omitempty" jsonschema:"title=Replay Interval,description=Overrides the recording frame interval (e.g. 500ms)"`
	LogLevel       string       `yaml:"logLevel" json:"logLevel" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"omitempty,oneof=debug info warn error"`
	LogFile        string       `yaml:"logFile" json:"logFile" jsonschema:"title=Log File,description=Log destination; empty disables logging,default=ticker.log"`
	MetricsAddr    string       `yaml:"metricsAddr" json:"metricsAddr,omitempty" jsonschema:"title=Metrics Address,description=host:port serving Prometheus metrics; empty disables them" validate:"omitempty,hostname_port"`
	Filters        FilterConfig `yaml:"filters" json:"filters" jsonschema:"title=Filters,description=Initial filter values"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Source:     string(feed.SourceBinance),
		Endpoint:   feed.DefaultEndpoint,
		QuoteAsset: filter.DefaultQuoteAsset,
		LogLevel:   "info",
		LogFile:    "ticker.log",
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrapf(errors.ErrCodeConfigNotFound, err, "config file %s not found", path)
		}

		return cfg, errors.Wrapf(errors.ErrCodeConfigReadFailed, err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(errors.ErrCodeConfigReadFailed, err, "failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := c.ReplayIntervalDuration(); err != nil {
		return err
	}

	return nil
}

// ReplayIntervalDuration parses ReplayInterval. Empty means "use the recording's interval".
func (c *Config) ReplayIntervalDuration() (time.Duration, error) {
	if c.ReplayInterval == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.ReplayInterval)
	if err != nil || d < 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid replay interval: %q", c.ReplayInterval)
	}

	return d, nil
}

// Criteria returns the initial filter criteria.
func (c *Config) Criteria() filter.Criteria {
	return filter.ParseCriteria(c.Filters.Name, c.Filters.MinPrice, c.Filters.PriceChange)
}

// FeedConfig returns the settings for feed.NewSource. Call Validate first.
func (c *Config) FeedConfig(logger *zap.Logger) feed.Config {
	interval, _ := c.ReplayIntervalDuration()

	return feed.Config{
		Endpoint:       c.Endpoint,
		ReplayFile:     c.ReplayFile,
		ReplayInterval: interval,
		Logger:         logger,
	}
}

// Schema returns the JSON schema of the config file.
func Schema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	schema := r.Reflect(Config{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// SampleYAML renders the defaults as a YAML document pointing at schemaName.
func SampleYAML(schemaName string) ([]byte, error) {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return nil, err
	}

	return append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), data...), nil
}
