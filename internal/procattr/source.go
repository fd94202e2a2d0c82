package procattr

import (
	"github.com/pkg/errors"
)

const (
	// SourceProcFS reads attributes straight from a procfs mount.
	SourceProcFS = "procfs"
	// SourceGopsutil reads attributes through gopsutil.
	SourceGopsutil = "gopsutil"
)

// Source is the OS boundary: it answers owner and parent queries for a single
// pid without caching.
type Source interface {
	Owner(pid PID) (UID, error)
	Parent(pid PID) (PID, error)
}

// NewSource returns the Source registered under kind. root only applies to
// SourceProcFS.
func NewSource(kind, root string) (Source, error) {
	switch kind {
	case "", SourceProcFS:
		return ProcFS{Root: root}, nil
	case SourceGopsutil:
		return Gopsutil{}, nil
	default:
		return nil, errors.Errorf("unknown attribute source %q", kind)
	}
}
