package procattr

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DefaultProcRoot is where procfs is normally mounted.
const DefaultProcRoot = "/proc"

var ppidPattern = regexp.MustCompile(`(?m)^PPid:\s+(\d+)`)

// ProcFS reads attributes from a procfs tree rooted at Root.
type ProcFS struct {
	Root string
}

func (p ProcFS) dir(pid PID) string {
	root := p.Root
	if root == "" {
		root = DefaultProcRoot
	}
	return filepath.Join(root, strconv.Itoa(int(pid)))
}

// Owner returns the uid owning /proc/<pid>, which the kernel sets to the
// process's real uid.
func (p ProcFS) Owner(pid PID) (UID, error) {
	path := p.dir(pid)

	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return UnknownUID, errors.Wrapf(&os.PathError{Op: "stat", Path: path, Err: err}, "owner of pid %d", pid)
	}
	return UID(st.Uid), nil
}

// Parent returns the first "PPid:" value from /proc/<pid>/status.
func (p ProcFS) Parent(pid PID) (PID, error) {
	path := filepath.Join(p.dir(pid), "status")

	data, err := os.ReadFile(path)
	if err != nil {
		return UnknownPID, errors.Wrapf(err, "parent of pid %d", pid)
	}
	return parsePPid(data, path)
}

func parsePPid(status []byte, path string) (PID, error) {
	m := ppidPattern.FindSubmatch(status)
	if m == nil {
		return UnknownPID, errors.Wrapf(ErrMalformedStatus, "no PPid field in %s", path)
	}

	ppid, err := strconv.ParseInt(string(m[1]), 10, 32)
	if err != nil {
		return UnknownPID, errors.Wrapf(ErrMalformedStatus, "PPid %q in %s: %v", m[1], path, err)
	}
	return PID(ppid), nil
}
