// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Concurrency Model
//
// The store uses sync.Map because each element's state is independent and
// the key space grows as discovery proceeds while values keep changing.
// Forward-only transitions are enforced with compare-and-swap, so concurrent
// writers can never move an element backwards.
package inmemorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/modelgraph/internal/discover"
	"github.com/vk/modelgraph/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store. It also satisfies
// discover.LifecycleOracle, so the discovery engine can query it directly.
type Store struct {
	states sync.Map // Key: discover.Identity.Key(), Value: nodestore.Status
}

var _ nodestore.Store = (*Store)(nil)

// New creates a new, empty in-memory lifecycle store.
func New() *Store {
	return &Store{}
}

// advance moves the element to status unless it is already there or beyond.
func (s *Store) advance(key string, status nodestore.Status) {
	for {
		cur, loaded := s.states.LoadOrStore(key, status)
		if !loaded || cur.(nodestore.Status) >= status {
			return
		}
		if s.states.CompareAndSwap(key, cur, status) {
			return
		}
	}
}

// MarkDiscovered records that the element is registered.
func (s *Store) MarkDiscovered(_ context.Context, id discover.Identity) error {
	s.advance(id.Key(), nodestore.StatusDiscovered)
	return nil
}

// MarkRealized records that the element has been materialized.
func (s *Store) MarkRealized(_ context.Context, id discover.Identity) error {
	s.advance(id.Key(), nodestore.StatusRealized)
	return nil
}

// MarkFinalized records that the element is locked.
func (s *Store) MarkFinalized(_ context.Context, id discover.Identity) error {
	key := id.Key()
	for {
		cur, ok := s.states.Load(key)
		if !ok || cur.(nodestore.Status) < nodestore.StatusRealized {
			status := nodestore.StatusUnknown
			if ok {
				status = cur.(nodestore.Status)
			}
			return fmt.Errorf("%w: cannot finalize %s while it is %s", nodestore.ErrInvalidTransition, id, status)
		}
		if cur.(nodestore.Status) >= nodestore.StatusFinalized {
			return nil
		}
		if s.states.CompareAndSwap(key, cur, nodestore.StatusFinalized) {
			return nil
		}
	}
}

// Status retrieves the lifecycle state of an element.
// If no state has been recorded, it returns StatusUnknown.
func (s *Store) Status(_ context.Context, id discover.Identity) (nodestore.Status, error) {
	return s.load(id.Key()), nil
}

// Snapshot copies every recorded state.
func (s *Store) Snapshot(_ context.Context) (map[string]nodestore.Status, error) {
	out := make(map[string]nodestore.Status)
	s.states.Range(func(k, v any) bool {
		out[k.(string)] = v.(nodestore.Status)
		return true
	})
	return out, nil
}

func (s *Store) load(key string) nodestore.Status {
	v, ok := s.states.Load(key)
	if !ok {
		return nodestore.StatusUnknown
	}
	return v.(nodestore.Status)
}

// IsRealized reports whether the element is realized or finalized.
func (s *Store) IsRealized(id discover.Identity) bool {
	return s.load(id.Key()) >= nodestore.StatusRealized
}

// IsFinalized reports whether the element is finalized.
func (s *Store) IsFinalized(id discover.Identity) bool {
	return s.load(id.Key()) >= nodestore.StatusFinalized
}
