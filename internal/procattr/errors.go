package procattr

import (
	"fmt"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"
)

var (
	// ErrAttributeUnavailable matches every AttributeError via errors.Is.
	ErrAttributeUnavailable = errors.New("process attribute unavailable")

	// ErrMalformedStatus is wrapped by sources when a status record lacks
	// the expected field.
	ErrMalformedStatus = errors.New("malformed process status")
)

// Attr names the attribute a lookup was for.
type Attr string

const (
	AttrOwner  Attr = "owner"
	AttrParent Attr = "parent"
)

// Kind classifies why an attribute could not be read.
type Kind int

const (
	KindUnavailable Kind = iota
	KindNotFound
	KindPermission
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindParse:
		return "parse"
	default:
		return "unavailable"
	}
}

// AttributeError records a failed owner or parent lookup.
type AttributeError struct {
	Attr Attr
	PID  PID
	Kind Kind
	Err  error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s of pid %d unavailable (%s): %v", e.Attr, e.PID, e.Kind, e.Err)
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrAttributeUnavailable so callers need not know the
// concrete type.
func (e *AttributeError) Is(target error) bool {
	return target == ErrAttributeUnavailable
}

func newAttributeError(attr Attr, pid PID, err error) *AttributeError {
	return &AttributeError{
		Attr: attr,
		PID:  pid,
		Kind: classify(err),
		Err:  err,
	}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, unix.ESRCH),
		errors.Is(err, process.ErrorProcessNotRunning):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, ErrMalformedStatus):
		return KindParse
	default:
		return KindUnavailable
	}
}
