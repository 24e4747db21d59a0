// Package profile provides named threshold sets.
package profile

import (
	"github.com/pthm/gosmell/internal/rules"
)

// DefaultName is the profile used when none is selected
const DefaultName = "default"

// Profile is a named set of thresholds and disabled rules
type Profile struct {
	// Name is the identifier for this profile (e.g., "strict")
	Name string `yaml:"name"`

	// Description explains when to use the profile
	Description string `yaml:"description"`

	// Thresholds are the limits above which smells are reported. Zero
	// fields fall back to the defaults.
	Thresholds rules.Thresholds `yaml:"thresholds"`

	// DisabledRules lists rule names that are not evaluated
	DisabledRules []string `yaml:"disabled_rules"`
}

// Registry returns the default rules without the disabled ones
func (p *Profile) Registry() *rules.Registry {
	return rules.DefaultRegistry().Without(p.DisabledRules...)
}
