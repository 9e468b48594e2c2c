// Package dag is a small dependency graph keyed by string IDs. It detects
// cycles and produces a deterministic dependency-first ordering, which the
// model type hierarchy uses to validate `extends` declarations.
package dag
