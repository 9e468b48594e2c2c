package graph

import (
	"errors"
	"sync"
)

// token is an interned name. Equal names always share the same *token, so
// tokens compare by pointer.
type token struct {
	name string
}

type internTable struct {
	mu     sync.Mutex
	tokens map[string]*token
}

func (t *internTable) intern(name string) *token {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tok, ok := t.tokens[name]; ok {
		return tok
	}
	tok := &token{name: name}
	t.tokens[name] = tok
	return tok
}

var (
	labelTokens   = &internTable{tokens: make(map[string]*token)}
	relTypeTokens = &internTable{tokens: make(map[string]*token)}
)

// Label categorizes a Node. Labels with the same name are equal.
// The zero Label is invalid.
type Label struct {
	tok *token
}

// LabelNamed returns the Label with the given name. It panics if name is empty.
func LabelNamed(name string) Label {
	if name == "" {
		panic("graph: label name must not be empty")
	}
	return Label{tok: labelTokens.intern(name)}
}

// Name returns the label name.
func (l Label) Name() string {
	if l.tok == nil {
		return ""
	}
	return l.tok.name
}

// IsZero reports whether l is the invalid zero Label.
func (l Label) IsZero() bool { return l.tok == nil }

func (l Label) String() string { return l.Name() }

// MarshalText encodes the label as its bare name.
func (l Label) MarshalText() ([]byte, error) {
	if l.tok == nil {
		return nil, errors.New("graph: cannot marshal zero label")
	}
	return []byte(l.tok.name), nil
}

// UnmarshalText decodes a label from its name.
func (l *Label) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return errors.New("graph: empty label name")
	}
	*l = LabelNamed(string(text))
	return nil
}

// RelationshipType identifies the kind of a Relationship. Types with the same
// name are equal. The zero RelationshipType is invalid.
type RelationshipType struct {
	tok *token
}

// RelationshipTypeNamed returns the RelationshipType with the given name.
// It panics if name is empty.
func RelationshipTypeNamed(name string) RelationshipType {
	if name == "" {
		panic("graph: relationship type name must not be empty")
	}
	return RelationshipType{tok: relTypeTokens.intern(name)}
}

// Name returns the relationship type name.
func (t RelationshipType) Name() string {
	if t.tok == nil {
		return ""
	}
	return t.tok.name
}

// IsZero reports whether t is the invalid zero RelationshipType.
func (t RelationshipType) IsZero() bool { return t.tok == nil }

func (t RelationshipType) String() string { return t.Name() }

// MarshalText encodes the type as its bare name.
func (t RelationshipType) MarshalText() ([]byte, error) {
	if t.tok == nil {
		return nil, errors.New("graph: cannot marshal zero relationship type")
	}
	return []byte(t.tok.name), nil
}

// UnmarshalText decodes a relationship type from its name.
func (t *RelationshipType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return errors.New("graph: empty relationship type name")
	}
	*t = RelationshipTypeNamed(string(text))
	return nil
}
