package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-ticker/internal/config"
	"github.com/rxtech-lab/argo-ticker/internal/feed"
	"github.com/rxtech-lab/argo-ticker/internal/version"
	"github.com/rxtech-lab/argo-ticker/mocks"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"
)

const (
	schemaName        = "ticker-config.json"
	recordingFrames   = 120
	recordingSeed     = 7
	recordingInterval = time.Second
)

func main() {
	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", "ticker-config.yaml")
	recordingPath := filepath.Join("./config", "recording.yaml")

	if err := validatePaths(schemaPath, sampleConfigPath); err != nil {
		log.Fatalf("Invalid paths: %v", err)
	}

	if err := generateSchemaFile(schemaPath); err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	if err := generateSampleConfig(sampleConfigPath, schemaName); err != nil {
		log.Fatalf("Failed to generate sample config: %v", err)
	}

	if err := generateRecording(recordingPath, recordingFrames); err != nil {
		log.Fatalf("Failed to generate recording: %v", err)
	}

	log.Printf("Replay recording generated at %s", recordingPath)
}

// generateSchemaFile writes the config JSON schema, creating parent directories.
func generateSchemaFile(schemaPath string) error {
	schemaJSON, err := config.Schema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes the default config unless the file already exists.
func generateSampleConfig(sampleConfigPath, schemaName string) error {
	if err := validateSchemaName(schemaName); err != nil {
		return err
	}

	if _, err := os.Stat(sampleConfigPath); err == nil {
		return nil
	}

	yamlBytes, err := config.SampleYAML(schemaName)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	log.Printf("Sample config successfully generated at %s", sampleConfigPath)

	return nil
}

// generateRecording writes a looping replay recording of synthetic ticker frames.
func generateRecording(recordingPath string, frames int) error {
	generator := mocks.NewDataGenerator(recordingSeed)

	cfg := mocks.DefaultConfig()
	cfg.Symbols = append(cfg.Symbols, mocks.GenerateSymbols(20)...)
	cfg.Interval = recordingInterval
	cfg.Frames = frames

	rec := feed.Recording{
		Version:  version.RecordingFormat,
		Interval: recordingInterval,
		Loop:     true,
	}

	sets := generator.Generate(cfg)
	bar := progressbar.NewOptions(len(sets),
		progressbar.OptionSetDescription("Encoding frames"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount())

	for _, set := range sets {
		rec.Frames = append(rec.Frames, mocks.EncodeFrame(set))
		_ = bar.Add(1)
	}

	_ = bar.Finish()

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recording: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(recordingPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(recordingPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write recording: %w", err)
	}

	return nil
}

func validatePaths(schemaPath, sampleConfigPath string) error {
	if schemaPath == "" {
		return fmt.Errorf("schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return fmt.Errorf("sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	if !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("schema name %q must have .json extension", name)
	}

	return nil
}
