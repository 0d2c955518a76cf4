// Package diag provides zero-allocation, cold-path-only diagnostic
// logging, adapted from the teacher's own debug package (debug/debug.go).
//
// It must never be called from a Reserve/Commit/Readable/Advance hot path —
// only from registration and close transitions, which happen orders of
// magnitude less often than messages move through a ring.
package diag

import "os"

// Message writes prefix + ": " + message + "\n" straight to stderr,
// avoiding fmt.Sprintf's allocation. Used for cold-path diagnostics:
// producer registration, channel close, and similar rare events.
//
//go:nosplit
//go:inline
func Message(prefix, message string) {
	os.Stderr.WriteString(prefix + ": " + message + "\n")
}

// Error writes prefix + ": " + err.Error() + "\n" to stderr, or just
// prefix + "\n" when err is nil.
//
//go:nosplit
//go:inline
func Error(prefix string, err error) {
	if err != nil {
		os.Stderr.WriteString(prefix + ": " + err.Error() + "\n")
		return
	}
	os.Stderr.WriteString(prefix + "\n")
}
