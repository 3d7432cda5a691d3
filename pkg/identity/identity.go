package identity

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/harukit/ideaspark/pkg/model"
)

var ErrNotReady = goerr.New("identity is not established yet")

// Provider resolves the session identity exactly once and gates store
// access on that resolution. Callers must not issue repository
// operations before Wait or Current reports readiness.
type Provider struct {
	explicit model.Identity

	once    sync.Once
	ready   chan struct{}
	current model.Identity
}

// New creates a provider. When explicit is non-empty it becomes the
// session identity on Resolve; otherwise an anonymous identity is
// generated. The same identity is used for every read and write of the
// session, so there is no late fallback that could split reads from
// writes across two identities.
func New(explicit model.Identity) *Provider {
	return &Provider{
		explicit: explicit,
		ready:    make(chan struct{}),
	}
}

// Resolve establishes the identity. Safe to call more than once; only
// the first call has effect.
func (p *Provider) Resolve(ctx context.Context) model.Identity {
	p.once.Do(func() {
		if p.explicit != "" {
			p.current = p.explicit
		} else {
			p.current = model.NewAnonymousIdentity()
		}
		close(p.ready)
	})
	return p.current
}

// Wait blocks until the identity is resolved or the context is done
func (p *Provider) Wait(ctx context.Context) (model.Identity, error) {
	select {
	case <-p.ready:
		return p.current, nil
	case <-ctx.Done():
		return "", goerr.Wrap(ctx.Err(), "canceled while waiting for identity")
	}
}

// Current returns the identity without blocking. ok is false before
// Resolve has completed.
func (p *Provider) Current() (model.Identity, bool) {
	select {
	case <-p.ready:
		return p.current, true
	default:
		return "", false
	}
}
