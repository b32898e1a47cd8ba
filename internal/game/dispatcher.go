package game

import (
	"context"

	"github.com/nfrund/genewar/internal/domain"
)

// Dispatcher is the single entry point the transport layer calls with
// inbound client messages. It routes each message to the live coordinator
// for its match id, spawning one if none exists yet.
type Dispatcher struct {
	registry *Registry
	deps     Dependencies
	cfg      SessionConfig
}

// NewDispatcher wires a dispatcher over the given registry and collaborators.
func NewDispatcher(registry *Registry, deps Dependencies, cfg SessionConfig) *Dispatcher {
	return &Dispatcher{registry: registry, deps: deps, cfg: cfg}
}

// Registry exposes the underlying session registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch delivers the message to its match's coordinator. The fast path
// forwards to an already-registered coordinator; otherwise a new one is
// registered via LoadOrStore, which keeps concurrent first messages for the
// same match from spawning duplicates. A full or closed inbox surfaces as a
// delivery error to the caller instead of blocking.
func (d *Dispatcher) Dispatch(ctx context.Context, msg domain.ClientMsg) error {
	if s, ok := d.registry.Get(msg.MatchID); ok {
		return s.deliver(msg)
	}

	s := newSession(msg.MatchID, d.registry, d.deps, d.cfg)
	if existing, loaded := d.registry.LoadOrStore(msg.MatchID, s); loaded {
		return existing.deliver(msg)
	}

	if err := s.deliver(msg); err != nil {
		// Should not happen on a fresh inbox, but never start an actor whose
		// first message was lost.
		d.registry.Remove(msg.MatchID)
		return err
	}

	// The coordinator outlives the request that spawned it and terminates
	// itself via its Finished path.
	go s.run(context.WithoutCancel(ctx))
	return nil
}
