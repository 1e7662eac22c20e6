// Package version holds the engine's identity and build version string.
// Name and Author mirror the "id name"/"id author" constants the engine
// reports over UCI; Build is overridable at link time via
// -ldflags "-X github.com/orbita2d/admete-go/internal/version.Build=...".
package version

const (
	// Name is the engine name reported in the UCI "id name" response.
	Name = "admete-go"
	// Author is the engine author reported in the UCI "id author" response.
	Author = "orbita2d"
)

// Build is the build/release version string. It defaults to "dev" unless
// it is set at link time with -X.
var Build = "dev"

// Version returns the build version string.
func Version() string {
	return Build
}
