// internal/nodeid/address.go
package nodeid

import (
	"fmt"
	"slices"
	"strings"
)

// New builds an Address from plain segment names. Names are not validated;
// use Parse for untrusted input.
func New(names ...string) Address {
	path := make([]PathSegment, len(names))
	for i, n := range names {
		path[i] = NewPathSegment(n)
	}
	return Address{Path: path}
}

// MustParse is like Parse but panics on error.
func MustParse(rawID string) Address {
	a, err := Parse(rawID)
	if err != nil {
		panic(err)
	}
	return a
}

// String serializes the Address into its canonical path string representation.
func (a Address) String() string {
	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.String())
	}
	return sb.String()
}

func (ps PathSegment) String() string {
	if ps.HasIndex() {
		return fmt.Sprintf("%s[%d]", ps.Name, ps.Index)
	}
	return ps.Name
}

// Equal reports whether both addresses have the same segments.
func (a Address) Equal(other Address) bool {
	return slices.Equal(a.Path, other.Path)
}

// IsZero reports whether the address has no segments.
func (a Address) IsZero() bool { return len(a.Path) == 0 }

// Len returns the number of segments.
func (a Address) Len() int { return len(a.Path) }

// Name returns the last segment, index included, or "" for the zero Address.
func (a Address) Name() string {
	if a.IsZero() {
		return ""
	}
	return a.Path[len(a.Path)-1].String()
}

// Child returns a new address one level below a. The receiver is not modified.
func (a Address) Child(name string) Address {
	path := make([]PathSegment, 0, len(a.Path)+1)
	path = append(path, a.Path...)
	return Address{Path: append(path, NewPathSegment(name))}
}

// Parent returns the address one level above a. ok is false for the zero
// Address and for a single-segment address.
func (a Address) Parent() (parent Address, ok bool) {
	if len(a.Path) < 2 {
		return Address{}, false
	}
	return Address{Path: slices.Clone(a.Path[:len(a.Path)-1])}, true
}
