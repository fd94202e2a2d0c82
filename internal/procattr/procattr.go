package procattr

import "os"

// PID identifies a process in the OS process table.
type PID int32

// UID is a real user ID. It is wide enough to hold any uint32 uid plus the
// UnknownUID sentinel.
type UID int64

const (
	// UnknownPID is cached when the parent of a process cannot be determined.
	UnknownPID PID = -1
	// UnknownUID is cached when the owner of a process cannot be determined.
	UnknownUID UID = -1
)

// Self returns the pid of the calling process.
func Self() PID {
	return PID(os.Getpid())
}
