package discover

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedOperation is returned when a rule combinator is used in a
	// configuration it does not support.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrCycleDetected is returned when expansion or realization cannot reach
	// a fixed point.
	ErrCycleDetected = errors.New("cycle detected")
)

// CycleDetectedError describes where expansion stopped making progress.
type CycleDetectedError struct {
	// Identity is the element that was about to be processed again.
	Identity Identity
	// Chain is the expansion path from the root down to Identity.
	Chain  []Identity
	Reason string
}

func (e *CycleDetectedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cycle detected at %s: %s", e.Identity, e.Reason)
	if len(e.Chain) > 0 {
		sb.WriteString(" (path: ")
		for i, id := range e.Chain {
			if i > 0 {
				sb.WriteString(" -> ")
			}
			sb.WriteString(id.String())
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *CycleDetectedError) Is(target error) bool { return target == ErrCycleDetected }
