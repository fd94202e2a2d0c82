package realuser

import (
	"context"
	"sync"

	"github.com/mrzor/realuser/internal/config"
	"github.com/sirupsen/logrus"
)

var (
	defaultOnce     sync.Once
	defaultResolver *Resolver
)

// Default returns the process-wide Resolver used by RUID, built on first use
// from REALUSER_* settings. Invalid settings fall back to the defaults.
func Default() *Resolver {
	defaultOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			logrus.WithError(err).Warn("realuser: ignoring invalid configuration")
			cfg = config.Default()
		}

		r, err := NewFromConfig(cfg)
		if err != nil {
			logrus.WithError(err).Warn("realuser: falling back to default resolver")
			r = New()
		}
		defaultResolver = r
	})
	return defaultResolver
}

// RUID resolves req with the Default resolver.
func RUID(req Request) (UID, error) {
	return Default().Resolve(context.Background(), req)
}
