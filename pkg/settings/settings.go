// Package settings holds build metadata and the per-run options shared by
// the nvset commands.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "nvset"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Paths carries command-line overrides for file locations. Empty fields
// fall back to the tool settings file and then to the defaults under $HOME.
type Paths struct {
	ConfigPath   string
	DataDir      string
	SettingsFile string
	LogFile      string
}

// Run holds configuration settings for a single execution.
type Run struct {
	MinLogLevel int8
	Paths       Paths
	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used by the CLI before flags are parsed.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}

// DebugLogLevel is the zap level enabled by --debug. Routine events are
// logged at logr V(1), which maps to zap level -1.
const DebugLogLevel int8 = -1
