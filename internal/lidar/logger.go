package lidar

import "log"

// Logf is the package-level diagnostic logger used for per-cycle events
// (chain aborts, sink failures, scene query degradation). It defaults to
// log.Printf but may be replaced by SetLogger; tests redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil sets a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
