package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckRecordingCompatibility checks if a recording can be played back by a reader
// of the given format version. Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - An empty recording version predates versioning and is treated as compatible
//   - Major versions must match exactly
//   - The recording's minor version must not be newer than the reader's
//   - Patch versions can differ
//
// Examples:
//   - Reader 1.2.0, Recording 1.2.5 -> OK (patch differs)
//   - Reader 1.2.0, Recording 1.1.0 -> OK (older minor)
//   - Reader 1.2.0, Recording 1.3.0 -> ERROR (newer minor)
//   - Reader 1.2.0, Recording 2.0.0 -> ERROR (major differs)
func CheckRecordingCompatibility(readerVersion, recordingVersion string) error {
	if strings.TrimSpace(recordingVersion) == "" {
		return nil
	}

	readerSemver, err := semver.NewVersion(strings.TrimPrefix(readerVersion, "v"))
	if err != nil {
		return fmt.Errorf("invalid reader version '%s': %w", readerVersion, err)
	}

	recordingSemver, err := semver.NewVersion(strings.TrimPrefix(recordingVersion, "v"))
	if err != nil {
		return fmt.Errorf("invalid recording version '%s': %w", recordingVersion, err)
	}

	if readerSemver.Major() != recordingSemver.Major() {
		return fmt.Errorf("major version mismatch: reader is %d.x.x but recording is %d.x.x",
			readerSemver.Major(), recordingSemver.Major())
	}

	if recordingSemver.Minor() > readerSemver.Minor() {
		return fmt.Errorf("minor version mismatch: reader is %d.%d.x but recording requires %d.%d.x",
			readerSemver.Major(), readerSemver.Minor(),
			recordingSemver.Major(), recordingSemver.Minor())
	}

	return nil
}
