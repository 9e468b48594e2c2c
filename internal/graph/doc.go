// Package graph implements the in-memory property graph that backs the model.
//
// # Why Graph Package Exists
//
// Domain objects (components, variants, binaries, source sets) are stored as
// generic nodes and relationships so that any consumer can project them into
// its own typed view. The graph is the single owner of that state: callers
// hold lightweight handles and every mutation is routed through the owning
// Graph, which makes it the natural place to emit change notifications.
//
// # Data Model
//
//	┌──────────┐   OWNS    ┌──────────┐
//	│  Node 0  │──────────▶│  Node 1  │
//	│ :Library │           │:SourceSet│
//	└──────────┘           └──────────┘
//
//   - **Node**: carries an ordered set of Labels and Properties.
//   - **Relationship**: directed, typed, connects exactly two nodes. Its
//     endpoints and type never change; only its Properties are mutable.
//   - **Properties**: string keys mapped to value.Value.
//
// Nodes and relationships share one id space. Ids are issued monotonically
// from zero and are never reused; there is no deletion.
//
// # Events
//
// Every mutation synchronously notifies the graph's Listener before the
// mutating call returns. Events are delivered in the order the mutations were
// issued. A panicking listener unwinds through the mutating call.
//
// # Thread-Safety
//
// A Graph is NOT safe for concurrent use. It is designed to be mutated by a
// single goroutine; callers sharing a Graph across goroutines must provide
// their own synchronization around every call, reads included.
package graph
