package app

import "github.com/kart-io/version"

// Version reports the build information stamped into the binary.
func Version() version.Info {
	return version.Get()
}
