// internal/nodeid/doc.go

/*
Package nodeid provides the structured identifier of model objects.

The format is a dot-separated ownership path, e.g., `app.main.debug` or
`app.tests[0].sources`. A segment may contain `*`, in which case the address
is a pattern for the objects whose identifiers it matches (see Matches).

This package enforces the identifier schema and centralizes all
formatting, parsing and matching logic.
*/
package nodeid
