package rules

import (
	"slices"
)

// Registry holds all registered rules
type Registry struct {
	rules []Rule
}

// NewRegistry creates a new rule registry
func NewRegistry() *Registry {
	return &Registry{
		rules: make([]Rule, 0),
	}
}

// Register adds a rule to the registry
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns all registered rules in registration order
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Get returns a rule by name
func (r *Registry) Get(name string) Rule {
	for _, rule := range r.rules {
		if rule.Name() == name {
			return rule
		}
	}
	return nil
}

// Names returns the names of all registered rules
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		names = append(names, rule.Name())
	}
	return names
}

// Without returns a new registry without the named rules
func (r *Registry) Without(names ...string) *Registry {
	out := NewRegistry()
	for _, rule := range r.rules {
		if !slices.Contains(names, rule.Name()) {
			out.Register(rule)
		}
	}
	return out
}

// DefaultRegistry returns a registry with all default rules. For a
// function, long-method is evaluated before long-parameter-list.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(&LongMethodRule{})
	r.Register(&LongParameterListRule{})
	r.Register(&ComplexConditionalRule{})

	return r
}
