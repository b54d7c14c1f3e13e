package lifecycle

// Version is the current version of the go-lifecycle library
const Version = "1.0.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Events is the number of lifecycle event kinds emitted
	Events int
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version: Version,
		Events:  int(eventKindCount),
	}
}
