package ancestry

import (
	"fmt"
	"io"

	"github.com/mrzor/realuser/internal/procattr"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// RootPID is init, the reaper every chain ends under.
	RootPID procattr.PID = 1

	// DefaultMaxHops is PID_MAX_LIMIT on 64-bit Linux. No real chain can
	// be longer than the process table.
	DefaultMaxHops = 4194304
)

// ErrLoopGuardExceeded is wrapped by every *LoopError.
var ErrLoopGuardExceeded = errors.New("ancestry loop guard exceeded")

// LoopError reports a walk that was cut short.
type LoopError struct {
	Start procattr.PID // pid the walk began at
	At    procattr.PID // pid that tripped the guard
	Hops  int
	Cycle bool // At had already been visited
}

func (e *LoopError) Error() string {
	if e.Cycle {
		return fmt.Sprintf("%v: pid %d revisited after %d hops from pid %d", ErrLoopGuardExceeded, e.At, e.Hops, e.Start)
	}
	return fmt.Sprintf("%v: more than %d hops from pid %d (at pid %d)", ErrLoopGuardExceeded, e.Hops, e.Start, e.At)
}

func (e *LoopError) Unwrap() error {
	return ErrLoopGuardExceeded
}

// Attributes is the read side of procattr.Reader.
type Attributes interface {
	Owner(pid procattr.PID) procattr.UID
	Parent(pid procattr.PID) procattr.PID
}

// Resolver walks ancestry chains over an Attributes reader.
type Resolver struct {
	attrs   Attributes
	maxHops int
	log     logrus.FieldLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxHops bounds the number of parent transitions per walk. Values <= 0
// select DefaultMaxHops.
func WithMaxHops(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxHops = n
		}
	}
}

// WithLogger sets the logger aborted walks are reported to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a Resolver reading from attrs.
func New(attrs Attributes, opts ...Option) *Resolver {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Resolver{
		attrs:   attrs,
		maxHops: DefaultMaxHops,
		log:     discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Deep returns the owner of the topmost ancestor of pid that is not init.
// If pid has no qualifying parent its own owner is returned.
func (r *Resolver) Deep(pid procattr.PID) (procattr.UID, error) {
	w := r.newWalk(pid)

	cur := pid
	for {
		parent, ok := r.parent(cur)
		if !ok {
			return r.attrs.Owner(cur), nil
		}
		if err := w.step(parent); err != nil {
			return procattr.UnknownUID, r.abort(err)
		}
		cur = parent
	}
}

// Shallow climbs from pid while ownership is unchanged and returns the owner
// of the first ancestor whose owner differs from its child's.
func (r *Resolver) Shallow(pid procattr.PID) (procattr.UID, error) {
	return r.ShallowFrom(pid, procattr.UnknownUID)
}

// ShallowFrom is Shallow with an explicit comparison owner for pid itself.
// If pid's owner already differs from owner it is returned without looking
// at the parent. UnknownUID means no comparison.
func (r *Resolver) ShallowFrom(pid procattr.PID, owner procattr.UID) (procattr.UID, error) {
	w := r.newWalk(pid)

	cur, compare := pid, owner
	for {
		uid := r.attrs.Owner(cur)
		if uid == procattr.UnknownUID {
			return procattr.UnknownUID, nil
		}
		if compare != procattr.UnknownUID && uid != compare {
			return uid, nil
		}

		parent, ok := r.parent(cur)
		if !ok {
			return uid, nil
		}
		if err := w.step(parent); err != nil {
			return procattr.UnknownUID, r.abort(err)
		}
		cur, compare = parent, uid
	}
}

// parent returns the parent of pid if the walk should continue to it.
func (r *Resolver) parent(pid procattr.PID) (procattr.PID, bool) {
	ppid := r.attrs.Parent(pid)
	if ppid == procattr.UnknownPID || ppid <= RootPID {
		return 0, false
	}
	return ppid, true
}

func (r *Resolver) abort(err error) error {
	r.log.WithError(err).Warn("ancestry walk aborted")
	return err
}

type walk struct {
	start   procattr.PID
	maxHops int
	hops    int
	seen    map[procattr.PID]struct{}
}

func (r *Resolver) newWalk(start procattr.PID) *walk {
	return &walk{
		start:   start,
		maxHops: r.maxHops,
		seen:    map[procattr.PID]struct{}{start: {}},
	}
}

func (w *walk) step(next procattr.PID) error {
	if _, ok := w.seen[next]; ok {
		return &LoopError{Start: w.start, At: next, Hops: w.hops, Cycle: true}
	}
	if w.hops >= w.maxHops {
		return &LoopError{Start: w.start, At: next, Hops: w.maxHops}
	}
	w.hops++
	w.seen[next] = struct{}{}
	return nil
}
