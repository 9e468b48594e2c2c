// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the discovery lifecycle that loads a model,
// drives the discovery engine to its fixed point and projects the result
// into a property graph, decoupled from any specific entrypoint like a CLI.
package app
