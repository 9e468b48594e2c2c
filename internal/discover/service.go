package discover

import (
	"sync"

	"github.com/vk/modelgraph/internal/modeltype"
)

// Service derives the rules that apply below candidates of a type.
type Service interface {
	Discover(t *modeltype.Type) []Rule
}

// ServiceFunc adapts a function to a Service.
type ServiceFunc func(t *modeltype.Type) []Rule

func (f ServiceFunc) Discover(t *modeltype.Type) []Rule { return f(t) }

// Services concatenates the rules of each service in order.
type Services []Service

func (s Services) Discover(t *modeltype.Type) []Rule {
	var rules []Rule
	for _, svc := range s {
		rules = append(rules, svc.Discover(t)...)
	}
	return rules
}

type cachedService struct {
	delegate Service

	mu    sync.Mutex
	cache map[*modeltype.Type][]Rule
}

// Cached memoizes delegate per type. The same rule values are returned for
// every call, which lets the engine de-duplicate them across expansions.
func Cached(delegate Service) Service {
	return &cachedService{delegate: delegate, cache: make(map[*modeltype.Type][]Rule)}
}

func (c *cachedService) Discover(t *modeltype.Type) []Rule {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rules, ok := c.cache[t]; ok {
		return rules
	}
	rules := c.delegate.Discover(t)
	c.cache[t] = rules
	return rules
}
