package realuser

import (
	"github.com/mrzor/realuser/internal/procattr"
	"github.com/pkg/errors"
)

// ErrInvalidRequest is returned for requests not built by ByPID or ByOptions,
// or naming an impossible pid.
var ErrInvalidRequest = errors.New("invalid resolution request")

type requestKind uint8

const (
	requestInvalid requestKind = iota
	requestPID
	requestOptions
)

// Options selects the pid and traversal policy of a request.
type Options struct {
	// PID to resolve; zero means the calling process
	PID PID
	// Deep selects deep resolution; false means shallow
	Deep bool
}

// Request is what Resolve works on. The zero Request is invalid.
type Request struct {
	kind requestKind
	opts Options
}

// ByPID requests deep resolution of pid.
func ByPID(pid PID) Request {
	return Request{kind: requestPID, opts: Options{PID: pid, Deep: true}}
}

// ByOptions requests resolution as described by opts.
func ByOptions(opts Options) Request {
	return Request{kind: requestOptions, opts: opts}
}

// target returns the pid to start from and whether to walk deep.
func (r Request) target() (PID, bool, error) {
	switch r.kind {
	case requestPID:
		if r.opts.PID <= 0 {
			return 0, false, errors.Wrapf(ErrInvalidRequest, "pid %d", r.opts.PID)
		}
		return r.opts.PID, true, nil
	case requestOptions:
		pid := r.opts.PID
		if pid < 0 {
			return 0, false, errors.Wrapf(ErrInvalidRequest, "pid %d", pid)
		}
		if pid == 0 {
			pid = procattr.Self()
		}
		return pid, r.opts.Deep, nil
	default:
		return 0, false, errors.Wrap(ErrInvalidRequest, "request not built with ByPID or ByOptions")
	}
}
