package feed

import (
	"context"
	"iter"
	"os"
	"time"

	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/rxtech-lab/argo-ticker/internal/version"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultReplayInterval matches the one second cadence of the live ticker stream.
const DefaultReplayInterval = time.Second

// Recording is a captured sequence of raw feed frames.
//
//	version: 1.0.0
//	interval: 1s
//	loop: true
//	frames:
//	  - '[{"s":"BTCUSDT","c":"42000.5","P":"1.2","v":"9000"}]'
type Recording struct {
	Version  string        `yaml:"version"`
	Interval time.Duration `yaml:"interval"`
	Loop     bool          `yaml:"loop"`
	Frames   []string      `yaml:"frames"`
}

// LoadRecording reads a recording from a YAML file.
func LoadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReplayFileUnavailable, err, "failed to read replay file %s", path)
	}

	var rec Recording
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReplayFileUnavailable, err, "failed to parse replay file %s", path)
	}

	if err := version.CheckRecordingCompatibility(version.RecordingFormat, rec.Version); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeIncompatibleRecording, err, "cannot replay %s", path)
	}

	return &rec, nil
}

// ReplaySource plays a recording back as if it came from the network.
// Every frame goes through DecodeSnapshotSet, so malformed frames behave like live ones.
type ReplaySource struct {
	path     string
	interval time.Duration
	logger   *zap.Logger
}

// NewReplaySource creates a source for the recording at path.
// A positive interval overrides the one stored in the recording.
func NewReplaySource(path string, interval time.Duration, logger *zap.Logger) *ReplaySource {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReplaySource{
		path:     path,
		interval: interval,
		logger:   logger.Named("replay").With(zap.String("file", path)),
	}
}

// Stream implements Source.
func (s *ReplaySource) Stream(ctx context.Context) iter.Seq2[types.SnapshotSet, error] {
	return func(yield func(types.SnapshotSet, error) bool) {
		rec, err := LoadRecording(s.path)
		if err != nil {
			yield(nil, err)

			return
		}

		interval := s.interval
		if interval <= 0 {
			interval = rec.Interval
		}

		if interval <= 0 {
			interval = DefaultReplayInterval
		}

		s.logger.Info("replaying recording", zap.Int("frames", len(rec.Frames)), zap.Duration("interval", interval))

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for first := true; ; first = false {
			if !first && !rec.Loop {
				s.logger.Info("recording finished")

				return
			}

			for i, frame := range rec.Frames {
				if i > 0 || !first {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
					}
				}

				if ctx.Err() != nil {
					return
				}

				set, err := DecodeSnapshotSet([]byte(frame))
				if err != nil {
					s.logger.Warn("dropping malformed ticker frame", zap.Int("frame", i), zap.Error(err))
				}

				if !yield(set, err) {
					return
				}
			}

			if len(rec.Frames) == 0 {
				return
			}
		}
	}
}
