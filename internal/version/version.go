package version

// Version is the current version of argo-ticker.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-ticker/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// RecordingFormat is the version of the replay recording format written by this build.
const RecordingFormat = "1.0.0"

// GetVersion returns the current version of the ticker.
func GetVersion() string {
	return Version
}
