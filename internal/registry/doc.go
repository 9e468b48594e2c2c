// Package registry provides the central "glue" for the module system.
//
// The Registry collects the model vocabulary from two sources: modules
// compiled into the binary, which declare the native types and how their
// elements are discovered, and the declarations of a loaded config.Model.
//
// During application startup, the registry is populated and then built.
// Build validates every declaration against the combined set of types, so a
// discoverable naming an undeclared type or a scope that does not exist is
// reported before discovery starts instead of surfacing as a missing element.
package registry
