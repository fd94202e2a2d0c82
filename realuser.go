package realuser

import (
	"context"

	"github.com/mrzor/realuser/internal/ancestry"
	"github.com/mrzor/realuser/internal/config"
	"github.com/mrzor/realuser/internal/procattr"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type (
	// PID identifies a process.
	PID = procattr.PID
	// UID is a real user ID, or Unknown.
	UID = procattr.UID
	// Source answers uncached owner and parent queries.
	Source = procattr.Source
	// Config holds settings read by LoadConfig.
	Config = config.Config
)

// Unknown is returned when no owner could be determined.
const Unknown = procattr.UnknownUID

// ErrLoopGuardExceeded is returned for ancestry chains that are cyclic or
// longer than the configured hop limit.
var ErrLoopGuardExceeded = ancestry.ErrLoopGuardExceeded

// Resolver resolves requests against a cached attribute reader.
type Resolver struct {
	source     Source
	log        logrus.FieldLogger
	maxHops    int
	tracerProv trace.TracerProvider
	tracerName string

	reader *procattr.Reader
	walker *ancestry.Resolver
	tracer trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSource replaces the default procfs source.
func WithSource(src Source) Option {
	return func(r *Resolver) { r.source = src }
}

// WithLogger sets the logger for lookup failures and aborted walks.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithMaxHops bounds ancestry walks. n <= 0 keeps the default.
func WithMaxHops(n int) Option {
	return func(r *Resolver) { r.maxHops = n }
}

// WithTracerProvider sets where Resolve spans go. The global provider is
// used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Resolver) { r.tracerProv = tp }
}

// New creates a Resolver. Without options it reads /proc directly.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		source:     procattr.ProcFS{Root: procattr.DefaultProcRoot},
		tracerName: config.DefaultTracerName,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.tracerProv == nil {
		r.tracerProv = otel.GetTracerProvider()
	}
	r.tracer = r.tracerProv.Tracer(r.tracerName)

	r.reader = procattr.NewReader(r.source, procattr.WithLogger(r.log))
	r.walker = ancestry.New(r.reader, ancestry.WithMaxHops(r.maxHops), ancestry.WithLogger(r.log))
	return r
}

// LoadConfig reads settings from the file named by REALUSER_CONFIG and
// REALUSER_* environment variables.
func LoadConfig() (*Config, error) {
	return config.Load()
}

// LoadConfigFile reads settings from the YAML file at path only.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// NewFromConfig creates a Resolver from loaded settings. A nil cfg selects
// the defaults.
func NewFromConfig(cfg *Config, opts ...Option) (*Resolver, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src, err := procattr.NewSource(cfg.Source, cfg.ProcRoot)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetLevel(cfg.Level())

	base := []Option{
		WithSource(src),
		WithLogger(log.WithField("component", "realuser")),
		WithMaxHops(cfg.MaxHops),
		func(r *Resolver) {
			if cfg.TracerName != "" {
				r.tracerName = cfg.TracerName
			}
		},
	}
	return New(append(base, opts...)...), nil
}

// Resolve returns the real owner for req.
//
// ByPID requests and ByOptions requests with Deep set use deep resolution;
// other ByOptions requests use shallow resolution. An owner that cannot be
// determined is returned as Unknown with a nil error.
func (r *Resolver) Resolve(ctx context.Context, req Request) (UID, error) {
	_, span := r.tracer.Start(ctx, "realuser.Resolve")
	defer span.End()

	pid, deep, err := req.target()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Unknown, err
	}

	mode := "shallow"
	if deep {
		mode = "deep"
	}
	span.SetAttributes(
		attribute.Int("process.pid", int(pid)),
		attribute.String("realuser.mode", mode),
	)

	var uid UID
	if deep {
		uid, err = r.walker.Deep(pid)
	} else {
		uid, err = r.walker.Shallow(pid)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Unknown, err
	}

	span.SetAttributes(
		attribute.Bool("realuser.known", uid != Unknown),
		attribute.Int64("realuser.uid", int64(uid)),
	)
	return uid, nil
}

// Err reports why the owner of pid is cached as Unknown, if it is.
func (r *Resolver) Err(pid PID) error {
	return r.reader.Err(procattr.AttrOwner, pid)
}

// Reset flushes all cached attributes.
func (r *Resolver) Reset() {
	r.reader.Reset()
}
