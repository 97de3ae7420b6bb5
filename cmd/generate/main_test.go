package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-ticker/internal/feed"
	"github.com/stretchr/testify/suite"
)

type GenerateCmdTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func (suite *GenerateCmdTestSuite) SetupTest() {
	origDir, err := os.Getwd()
	suite.Require().NoError(err)
	suite.origDir = origDir

	suite.tempDir = suite.T().TempDir()

	// Change to the temporary directory
	err = os.Chdir(suite.tempDir)
	suite.Require().NoError(err)
}

func (suite *GenerateCmdTestSuite) TearDownTest() {
	suite.Require().NoError(os.Chdir(suite.origDir))
}

func (suite *GenerateCmdTestSuite) TestMainGeneratesAllFiles() {
	main()

	configDir := filepath.Join(suite.tempDir, "config")
	suite.FileExists(filepath.Join(configDir, schemaName))
	suite.FileExists(filepath.Join(configDir, "ticker-config.yaml"))
	suite.FileExists(filepath.Join(configDir, "recording.yaml"))

	sample, err := os.ReadFile(filepath.Join(configDir, "ticker-config.yaml"))
	suite.Require().NoError(err)
	suite.Contains(string(sample), "# yaml-language-server: $schema="+schemaName)
}

func (suite *GenerateCmdTestSuite) TestSampleConfigNotOverwritten() {
	main()

	sampleConfigPath := filepath.Join(suite.tempDir, "config", "ticker-config.yaml")
	suite.Require().NoError(os.WriteFile(sampleConfigPath, []byte("source: replay\n"), 0644))

	// Run main again - it should not overwrite the existing sample config
	main()

	content, err := os.ReadFile(sampleConfigPath)
	suite.Require().NoError(err)
	suite.Equal("source: replay\n", string(content))
}

func (suite *GenerateCmdTestSuite) TestGenerateSchemaFile() {
	schemaPath := filepath.Join(suite.tempDir, "test-schema", "schema.json")

	suite.Require().NoError(generateSchemaFile(schemaPath))

	content, err := os.ReadFile(schemaPath)
	suite.Require().NoError(err)
	suite.Contains(string(content), "quoteAsset")
}

func (suite *GenerateCmdTestSuite) TestGenerateSchemaFileInvalidPath() {
	// A regular file cannot be used as a parent directory.
	blocker := filepath.Join(suite.tempDir, "blocker")
	suite.Require().NoError(os.WriteFile(blocker, nil, 0644))

	err := generateSchemaFile(filepath.Join(blocker, "schema.json"))
	suite.Error(err)
	suite.Contains(err.Error(), "failed to")
}

func (suite *GenerateCmdTestSuite) TestGenerateSampleConfigRejectsBadSchemaName() {
	err := generateSampleConfig(filepath.Join(suite.tempDir, "config.yaml"), "schema.txt")
	suite.Error(err)
	suite.Contains(err.Error(), "must have .json extension")
	suite.NoFileExists(filepath.Join(suite.tempDir, "config.yaml"))
}

func (suite *GenerateCmdTestSuite) TestGenerateRecordingIsReplayable() {
	path := filepath.Join(suite.tempDir, "rec", "recording.yaml")

	suite.Require().NoError(generateRecording(path, 5))

	rec, err := feed.LoadRecording(path)
	suite.Require().NoError(err)
	suite.True(rec.Loop)
	suite.Equal(recordingInterval, rec.Interval)
	suite.Len(rec.Frames, 5)

	for _, frame := range rec.Frames {
		set, err := feed.DecodeSnapshotSet([]byte(frame))
		suite.Require().NoError(err)
		suite.NotEmpty(set)
	}
}

func (suite *GenerateCmdTestSuite) TestValidatePaths() {
	suite.NoError(validatePaths("/some/path/schema.json", "/some/path/config.yaml"))

	err := validatePaths("", "/some/path/config.yaml")
	suite.Error(err)
	suite.Contains(err.Error(), "schema path cannot be empty")

	err = validatePaths("/some/path/schema.json", "")
	suite.Error(err)
	suite.Contains(err.Error(), "sample config path cannot be empty")
}

func (suite *GenerateCmdTestSuite) TestValidateSchemaName() {
	suite.NoError(validateSchemaName("schema.json"))
	suite.NoError(validateSchemaName("my-schema-file.json"))

	err := validateSchemaName("")
	suite.Error(err)
	suite.Contains(err.Error(), "schema name cannot be empty")

	suite.Error(validateSchemaName("schema"))
}

func TestGenerateCmdSuite(t *testing.T) {
	suite.Run(t, new(GenerateCmdTestSuite))
}
