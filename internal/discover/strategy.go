package discover

import (
	"fmt"

	"github.com/vk/modelgraph/internal/modeltype"
)

// Scope says when a discoverable element comes into existence.
type Scope int

const (
	// Registered elements exist as soon as their owner is known.
	Registered Scope = iota
	// Realized elements only exist once their owner has been realized.
	Realized
)

func (s Scope) String() string {
	switch s {
	case Registered:
		return "registered"
	case Realized:
		return "realized"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ParseScope parses the lowercase scope names used in model files.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "", "registered":
		return Registered, nil
	case "realized":
		return Realized, nil
	default:
		return 0, fmt.Errorf("unknown scope %q, expected \"registered\" or \"realized\"", s)
	}
}

// DiscoverableElement is one element a type declares it owns.
type DiscoverableElement struct {
	Name  string
	Type  *modeltype.Type
	Scope Scope
}

// Discoverable lists the elements every instance of Type owns.
type Discoverable struct {
	Type     *modeltype.Type
	Elements []DiscoverableElement
}

// Selection lists the alternatives instances of Type choose from.
type Selection struct {
	Type  *modeltype.Type
	Cases []Case
}

// Strategy turns a registration-time table of discoverables and selections
// into rules. Register everything before the first Discover call.
type Strategy struct {
	elements   map[*modeltype.Type][]DiscoverableElement
	selections map[*modeltype.Type][]Case
}

// NewStrategy returns a Strategy holding ds.
func NewStrategy(ds ...Discoverable) *Strategy {
	s := &Strategy{
		elements:   make(map[*modeltype.Type][]DiscoverableElement),
		selections: make(map[*modeltype.Type][]Case),
	}
	for _, d := range ds {
		s.Register(d)
	}
	return s
}

// Register adds d. Registering the same type twice appends its elements.
func (s *Strategy) Register(d Discoverable) {
	s.elements[d.Type] = append(s.elements[d.Type], d.Elements...)
}

// RegisterSelection adds sel. Cases keep registration order.
func (s *Strategy) RegisterSelection(sel Selection) {
	s.selections[sel.Type] = append(s.selections[sel.Type], sel.Cases...)
}

// Discover returns, for t and each of its supertypes in supertype-first
// order, a GroupRule for the registered elements, a RealizeRule around a
// GroupRule for the realized elements, and a SelectRule for the selections.
// Every rule targets t.
func (s *Strategy) Discover(t *modeltype.Type) []Rule {
	var rules []Rule
	for _, level := range t.Lineage() {
		var registered, realized []Entry
		for _, el := range s.elements[level] {
			entry := Entry{Name: el.Name, Type: el.Type}
			if el.Scope == Realized {
				realized = append(realized, entry)
			} else {
				registered = append(registered, entry)
			}
		}
		if len(registered) > 0 {
			rules = append(rules, NewGroupRule(t, registered...))
		}
		if len(realized) > 0 {
			rules = append(rules, NewRealizeRule(NewGroupRule(t, realized...)))
		}
		if cases := s.selections[level]; len(cases) > 0 {
			rules = append(rules, NewSelectRule(t, cases...))
		}
	}
	return rules
}
