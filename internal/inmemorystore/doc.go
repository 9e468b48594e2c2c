// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. It is suitable for any scenario where
// lifecycle state does not need to be persisted.
package inmemorystore
