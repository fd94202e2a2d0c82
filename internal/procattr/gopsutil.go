package procattr

import (
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"
)

// Gopsutil reads attributes through gopsutil, which covers platforms without
// a procfs mount.
type Gopsutil struct{}

// Owner returns the first entry of the process's uid set (real uid).
func (Gopsutil) Owner(pid PID) (UID, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return UnknownUID, errors.Wrapf(err, "owner of pid %d", pid)
	}

	uids, err := proc.Uids()
	if err != nil {
		return UnknownUID, errors.Wrapf(err, "owner of pid %d", pid)
	}
	if len(uids) == 0 {
		return UnknownUID, errors.Wrapf(ErrMalformedStatus, "no uids reported for pid %d", pid)
	}
	return UID(uint32(uids[0])), nil
}

func (Gopsutil) Parent(pid PID) (PID, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return UnknownPID, errors.Wrapf(err, "parent of pid %d", pid)
	}

	ppid, err := proc.Ppid()
	if err != nil {
		return UnknownPID, errors.Wrapf(err, "parent of pid %d", pid)
	}
	return PID(ppid), nil
}
