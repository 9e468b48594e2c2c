// Package nodestore defines the interface for tracking the lifecycle state
// of model elements while the model is discovered and realized.
//
// # Why Node Store Exists
//
// Discovery rules never store lifecycle state on the candidates they emit.
// They ask a discover.LifecycleOracle instead, and the answers change as the
// host realizes and finalizes elements. The node store is where those answers
// live. It isolates **mutable lifecycle state** from the **element topology**
// managed by topologystore.
//
// # State Transitions
//
// Elements follow this lifecycle, and only ever move forward:
//
//	Unknown → Discovered → Realized → Finalized
//
// Marking an element with a state it has already passed is a no-op.
// Finalizing an element that was never realized is an error.
package nodestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/modelgraph/internal/discover"
)

// Status is the lifecycle state of one element.
type Status int

const (
	// StatusUnknown is reported for elements the store has never seen.
	StatusUnknown Status = iota
	// StatusDiscovered elements are registered with the discovery engine.
	StatusDiscovered
	// StatusRealized elements have been materialized.
	StatusRealized
	// StatusFinalized elements are locked against structural change.
	StatusFinalized
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusDiscovered:
		return "discovered"
	case StatusRealized:
		return "realized"
	case StatusFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status as its lowercase name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ErrInvalidTransition is returned when a transition skips a required state.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// Store is the interface for managing the lifecycle state of elements.
//
// # Thread-Safety Requirements
//
// Implementations MUST be thread-safe for concurrent reads and writes.
//
// # Typical Implementation
//
// See internal/inmemorystore for the reference in-memory implementation using
// sync.Map for fine-grained concurrent access without global lock contention.
type Store interface {
	discover.LifecycleOracle

	// MarkDiscovered records that the element is registered.
	MarkDiscovered(ctx context.Context, id discover.Identity) error

	// MarkRealized records that the element has been materialized. A realized
	// element is also discovered.
	MarkRealized(ctx context.Context, id discover.Identity) error

	// MarkFinalized records that the element is locked. It fails with
	// ErrInvalidTransition when the element was not realized first.
	MarkFinalized(ctx context.Context, id discover.Identity) error

	// Status returns the current state, StatusUnknown if none was recorded.
	Status(ctx context.Context, id discover.Identity) (Status, error)

	// Snapshot returns the state of every recorded element keyed by
	// discover.Identity.Key.
	Snapshot(ctx context.Context) (map[string]Status, error)
}
