package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRecordingCompatibility(t *testing.T) {
	tests := []struct {
		name             string
		readerVersion    string
		recordingVersion string
		expectError      bool
		errorContains    string
	}{
		{
			name:             "exact match",
			readerVersion:    "1.2.0",
			recordingVersion: "1.2.0",
		},
		{
			name:             "recording patch higher",
			readerVersion:    "1.2.0",
			recordingVersion: "1.2.5",
		},
		{
			name:             "recording minor lower",
			readerVersion:    "1.2.0",
			recordingVersion: "1.1.0",
		},
		{
			name:             "v prefix",
			readerVersion:    "v1.0.0",
			recordingVersion: "v1.0.3",
		},
		{
			name:             "unversioned recording",
			readerVersion:    "1.0.0",
			recordingVersion: "",
		},
		{
			name:             "recording minor higher",
			readerVersion:    "1.2.0",
			recordingVersion: "1.3.0",
			expectError:      true,
			errorContains:    "minor version mismatch",
		},
		{
			name:             "major version differs",
			readerVersion:    "1.2.0",
			recordingVersion: "2.0.0",
			expectError:      true,
			errorContains:    "major version mismatch",
		},
		{
			name:             "invalid recording version",
			readerVersion:    "1.0.0",
			recordingVersion: "latest",
			expectError:      true,
			errorContains:    "invalid recording version",
		},
		{
			name:             "invalid reader version",
			readerVersion:    "main",
			recordingVersion: "1.0.0",
			expectError:      true,
			errorContains:    "invalid reader version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRecordingCompatibility(tt.readerVersion, tt.recordingVersion)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRecordingFormatIsSemver(t *testing.T) {
	assert.NoError(t, CheckRecordingCompatibility(RecordingFormat, RecordingFormat))
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}
