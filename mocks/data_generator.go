package mocks

import (
	"encoding/json"
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/shopspring/decimal"
)

// DataGenerator generates realistic ticker frames for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how ticker frames are generated.
type GeneratorConfig struct {
	// Symbols are the trading pairs carried by every frame
	Symbols []string
	// StartTime is the event time of the first frame
	StartTime time.Time
	// Interval is the duration between frames
	Interval time.Duration
	// Frames is the number of frames to generate
	Frames int
	// InitialPrice is the average starting price, varied per symbol
	InitialPrice float64
	// Volatility controls price movement per frame (0.01 = 1%)
	Volatility float64
	// VolumeBase is the average 24h volume
	VolumeBase float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbols:      []string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "XRPUSDT", "ETHBTC"},
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     time.Second,
		Frames:       60,
		InitialPrice: 100.0,
		Volatility:   0.002, // 0.2% per frame
		VolumeBase:   100000,
	}
}

// Generate creates a sequence of snapshot sets. Each symbol follows a
// geometric Brownian motion and its change percent is measured against the
// price it opened with.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.SnapshotSet {
	opens := make([]float64, len(config.Symbols))
	prices := make([]float64, len(config.Symbols))
	volumes := make([]float64, len(config.Symbols))

	for i := range config.Symbols {
		opens[i] = config.InitialPrice * (0.5 + g.rng.Float64())
		prices[i] = opens[i]
		volumes[i] = config.VolumeBase * (0.5 + g.rng.Float64())
	}

	frames := make([]types.SnapshotSet, config.Frames)
	currentTime := config.StartTime

	for f := 0; f < config.Frames; f++ {
		set := make(types.SnapshotSet, len(config.Symbols))

		for i, symbol := range config.Symbols {
			// Box-Muller transform for a normal step
			u1 := g.rng.Float64()
			u2 := g.rng.Float64()
			z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

			next := prices[i] * (1 + config.Volatility*z)
			if next <= 0 {
				next = prices[i] * 0.99 // Prevent negative prices
			}

			prices[i] = next
			volumes[i] += config.VolumeBase * config.Volatility * g.rng.Float64()

			change := (prices[i] - opens[i]) / opens[i] * 100

			set[i] = types.TickerSnapshot{
				Symbol:             symbol,
				LastPrice:          decimal.NewFromFloat(prices[i]).Round(4),
				PriceChangePercent: decimal.NewFromFloat(change).Round(3),
				Volume:             decimal.NewFromFloat(volumes[i]).Round(2),
				EventTime:          currentTime,
			}
		}

		frames[f] = set
		currentTime = currentTime.Add(config.Interval)
	}

	return frames
}

// GenerateSymbols returns n distinct symbols, alternating USDT and BTC quoted pairs.
func GenerateSymbols(n int) []string {
	symbols := make([]string, n)
	for i := range symbols {
		quote := "USDT"
		if i%4 == 3 {
			quote = "BTC"
		}

		symbols[i] = base26(i) + quote
	}

	return symbols
}

func base26(n int) string {
	name := []byte{}
	for {
		name = append([]byte{byte('A' + n%26)}, name...)
		n = n/26 - 1

		if n < 0 {
			break
		}
	}

	return string(name)
}

// wireTicker is the Binance 24hr ticker record shape.
type wireTicker struct {
	EventType          string `json:"e"`
	EventTime          int64  `json:"E"`
	Symbol             string `json:"s"`
	PriceChangePercent string `json:"P"`
	LastPrice          string `json:"c"`
	Volume             string `json:"v"`
}

// EncodeFrame renders a snapshot set as a Binance !ticker@arr frame.
func EncodeFrame(set types.SnapshotSet) string {
	records := make([]wireTicker, len(set))
	for i, t := range set {
		records[i] = wireTicker{
			EventType:          "24hrTicker",
			EventTime:          t.EventTime.UnixMilli(),
			Symbol:             t.Symbol,
			PriceChangePercent: t.PriceChangePercent.String(),
			LastPrice:          t.LastPrice.String(),
			Volume:             t.Volume.String(),
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		panic(err) // only plain strings and ints
	}

	return string(data)
}

// Generate1K is a convenience function producing one frame of 1000 symbols for benchmarking.
func Generate1K() types.SnapshotSet {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Symbols = GenerateSymbols(1000)
	config.Frames = 1

	return gen.Generate(config)[0]
}
