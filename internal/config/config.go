// Package config holds the build configuration and its validation.
//
// Configuration files may be YAML, JSON or CUE. Every file is unified with
// the embedded #Config schema before it is decoded, so unknown fields,
// missing required fields and bad enum values are reported with the CUE
// source position of the offending value.
package config

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/ffbuilder/internal/forcefield"
	"github.com/roach88/ffbuilder/internal/mixing"
)

// Output file names a molecule must not shadow.
var reservedNames = map[string]bool{
	"force_field_mixing_rules": true,
	"force_field":              true,
	"pseudo_atoms":             true,
}

// MoleculeChoice selects one variant of a molecule.
type MoleculeChoice struct {
	Name    string
	Variant string
}

// Config drives a single build.
type Config struct {
	// Framework is the framework variant. Empty means no framework lines
	// in the mixing-rules document.
	Framework string

	// Molecules is ordered. The order drives every rendered ordering.
	Molecules []MoleculeChoice

	Shifted              bool
	TailCorrections      bool
	MixingRule           mixing.Rule
	SeparateInteractions bool
}

// ConfigurationError reports a malformed or incomplete configuration.
type ConfigurationError struct {
	Field   string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *ConfigurationError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the shape of the configuration. It does not consult the
// database.
func (c *Config) Validate() error {
	if len(c.Molecules) == 0 {
		return &ConfigurationError{Field: "ff_molecules", Message: "at least one molecule is required"}
	}
	if !c.MixingRule.Valid() {
		return &ConfigurationError{Field: "mixing_rule", Message: fmt.Sprintf("unsupported mixing rule %s", c.MixingRule)}
	}

	seen := make(map[string]bool, len(c.Molecules))
	for i, m := range c.Molecules {
		field := fmt.Sprintf("ff_molecules[%d]", i)
		switch {
		case strings.TrimSpace(m.Name) == "":
			return &ConfigurationError{Field: field, Message: "molecule name is empty"}
		case strings.TrimSpace(m.Variant) == "":
			return &ConfigurationError{Field: field, Message: fmt.Sprintf("variant for %q is empty", m.Name)}
		case strings.ContainsAny(m.Name, `/\`):
			return &ConfigurationError{Field: field, Message: fmt.Sprintf("molecule name %q cannot be used as a file name", m.Name)}
		case m.Name == forcefield.FrameworkEntity:
			return &ConfigurationError{Field: field, Message: fmt.Sprintf("%q names framework force fields, not a molecule; use ff_framework", m.Name)}
		case reservedNames[m.Name]:
			return &ConfigurationError{Field: field, Message: fmt.Sprintf("molecule name %q collides with %s.def", m.Name, m.Name)}
		case seen[m.Name]:
			return &ConfigurationError{Field: field, Message: fmt.Sprintf("molecule %q is listed twice", m.Name)}
		}
		seen[m.Name] = true
	}
	return nil
}

// MoleculeNames returns the configured molecule names in order.
func (c *Config) MoleculeNames() []string {
	names := make([]string, len(c.Molecules))
	for i, m := range c.Molecules {
		names[i] = m.Name
	}
	return names
}

// Canonical returns the configuration as a JSON-shaped value suitable for
// canonical hashing. Molecules stay a list so their order is part of the
// identity.
func (c *Config) Canonical() map[string]any {
	molecules := make([]any, len(c.Molecules))
	for i, m := range c.Molecules {
		molecules[i] = []any{m.Name, m.Variant}
	}
	return map[string]any{
		"ff_framework":          c.Framework,
		"ff_molecules":          molecules,
		"shifted":               c.Shifted,
		"tail_corrections":      c.TailCorrections,
		"mixing_rule":           c.MixingRule.String(),
		"separate_interactions": c.SeparateInteractions,
	}
}
