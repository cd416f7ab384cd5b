package version

// Version is the current version of the backtestkit library.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/quantfold/backtestkit/internal/version.Version=1.2.3"
var Version = "v0.3.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
