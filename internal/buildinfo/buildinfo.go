// Package buildinfo supplies the "version" field stamped into every
// serialized document, adapted from the module's own build-info reflection
// (see version/version.go in the corpus this was built from) down to just
// the one value the serializer needs.
package buildinfo

import "runtime/debug"

// Version reports the running binary's module version, or "devel" when
// running from source with no pseudo-version available (go run, or a test
// binary).
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "devel"
}
