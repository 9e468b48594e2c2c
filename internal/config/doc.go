// Package config defines the format-agnostic model of a declarative model
// description, along with the Loader interface for reading it from various
// sources.
//
// The `config.Model` is the single source of truth for the registry, which
// turns its declarations into a type universe and a discovery service.
// Concrete implementations of the Loader, such as for HCL, are provided in
// separate packages.
package config
