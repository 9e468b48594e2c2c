package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph operations. Every error returned by this package
// matches exactly one of them with errors.Is.
var (
	// ErrNotFound is returned when an entity id or property key does not exist.
	// Looking up an id of the wrong kind (a node id as a relationship) is also
	// reported as not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when a zero handle, a handle owned by a
	// different graph, an empty key or an unsupported value is passed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAmbiguousResult is returned when a single relationship was requested
	// but more than one matched.
	ErrAmbiguousResult = errors.New("ambiguous result")
)

// NotFoundError reports a missing entity or property.
type NotFoundError struct {
	// Kind is "node", "relationship", "entity" or "property".
	Kind string
	ID   int64
	// Key is set for missing properties.
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "property" {
		return fmt.Sprintf("property %q not found on entity %d", e.Key, e.ID)
	}
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidArgumentError reports a rejected argument.
type InvalidArgumentError struct {
	Argument string
	Reason   string
	Err      error
}

func (e *InvalidArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Argument, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Argument, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

// AmbiguousResultError reports that SingleRelationship matched more than one
// relationship.
type AmbiguousResultError struct {
	NodeID    int64
	Type      RelationshipType
	Direction Direction
	Count     int
}

func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("node %d has %d %s relationships of type %q, expected at most one",
		e.NodeID, e.Count, e.Direction, e.Type.Name())
}

func (e *AmbiguousResultError) Is(target error) bool { return target == ErrAmbiguousResult }
