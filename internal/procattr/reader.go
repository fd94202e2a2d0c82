package procattr

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

type errKey struct {
	attr Attr
	pid  PID
}

// Reader memoizes owner and parent lookups against a Source.
// It provides command-query separation for cache access.
type Reader struct {
	src Source
	log logrus.FieldLogger

	mu      sync.RWMutex
	owners  map[PID]UID                // PID -> real uid, or UnknownUID
	parents map[PID]PID                // PID -> parent pid, or UnknownPID
	errs    map[errKey]*AttributeError // (attr, PID) -> cause of an Unknown entry
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger failed lookups are reported to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reader) {
		if log != nil {
			r.log = log
		}
	}
}

// NewReader creates a Reader over src with empty caches.
func NewReader(src Source, opts ...Option) *Reader {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Reader{
		src:     src,
		log:     discard,
		owners:  make(map[PID]UID),
		parents: make(map[PID]PID),
		errs:    make(map[errKey]*AttributeError),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Owner returns the real uid of pid, or UnknownUID (query).
func (r *Reader) Owner(pid PID) UID {
	r.mu.RLock()
	uid, ok := r.owners[pid]
	r.mu.RUnlock()
	if ok {
		return uid
	}

	uid, err := r.src.Owner(pid)
	if err != nil {
		uid = UnknownUID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.owners[pid]; ok {
		return prev
	}
	r.owners[pid] = uid
	if err != nil {
		r.recordLocked(AttrOwner, pid, err)
	}
	return uid
}

// Parent returns the parent pid of pid, or UnknownPID (query).
func (r *Reader) Parent(pid PID) PID {
	r.mu.RLock()
	ppid, ok := r.parents[pid]
	r.mu.RUnlock()
	if ok {
		return ppid
	}

	ppid, err := r.src.Parent(pid)
	if err != nil {
		ppid = UnknownPID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.parents[pid]; ok {
		return prev
	}
	r.parents[pid] = ppid
	if err != nil {
		r.recordLocked(AttrParent, pid, err)
	}
	return ppid
}

// Err returns the failure behind an Unknown attr for pid (query).
// Returns nil if the lookup succeeded or has not happened yet.
func (r *Reader) Err(attr Attr, pid PID) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.errs[errKey{attr, pid}]; ok {
		return e
	}
	return nil
}

// Forget drops every cached entry for pid (command).
func (r *Reader) Forget(pid PID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owners, pid)
	delete(r.parents, pid)
	delete(r.errs, errKey{AttrOwner, pid})
	delete(r.errs, errKey{AttrParent, pid})
}

// Reset empties both caches (command).
func (r *Reader) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners = make(map[PID]UID)
	r.parents = make(map[PID]PID)
	r.errs = make(map[errKey]*AttributeError)
}

func (r *Reader) recordLocked(attr Attr, pid PID, err error) {
	ae := newAttributeError(attr, pid, err)
	r.errs[errKey{attr, pid}] = ae
	r.log.WithFields(logrus.Fields{
		"pid":  pid,
		"attr": string(attr),
		"kind": ae.Kind.String(),
	}).WithError(err).Debug("process attribute unavailable")
}
