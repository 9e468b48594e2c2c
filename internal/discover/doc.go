// Package discover implements the rule engine that expands the model from a
// project root into the set of candidate elements it could contain.
//
// # Overview
//
// A CandidateElement is a tentative model element identified by an address
// and a type. Rules inspect one candidate at a time and may emit new
// candidates below it. The Engine drives expansion to a fixed point:
//
//	root (Project, known)
//	 ├─ KnownElementRule ──▶ app.main (Library, known)
//	 │                        ├─ GroupRule ──────────▶ app.main.sources (SourceSet)
//	 │                        └─ RealizeRule(Group) ─▶ app.main.debug (Variant) [REALIZE app.main]
//	 └─ ...
//
// Lifecycle state (realized, finalized) is never stored on a candidate. It is
// asked of the LifecycleOracle supplied by the host, so the same rules produce
// a different expansion as the host realizes elements.
//
// # Rules
//
//   - GroupRule: unconditional fan-out for candidates of a type.
//   - SelectRule: first matching case for known candidates, every case for
//     unknown ones.
//   - KnownElementRule: seeds an element registered by the host.
//   - RealizeRule / FinalizeRule: gate a delegate on lifecycle state and tag
//     what it emits.
//   - KnownRule: pass-through used for "on known" callbacks.
//
// Rules are compared with == when the engine de-duplicates its rule set, so
// implementations must be comparable. Every rule in this package is a pointer.
//
// # Thread-Safety
//
// An Engine is not safe for concurrent use. Cached is safe for concurrent use.
package discover
