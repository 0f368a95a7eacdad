package mixing

import (
	"fmt"
	"math"
	"strings"
)

// Rule is a combination rule for Lennard-Jones size parameters.
type Rule int

const (
	// LorentzBerthelot takes the arithmetic mean of sigmas.
	LorentzBerthelot Rule = iota + 1
	// Jorgensen takes the geometric mean of sigmas.
	Jorgensen
)

// ParseRule accepts "lorentz-berthelot" or "jorgensen" in any case.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lorentz-berthelot":
		return LorentzBerthelot, nil
	case "jorgensen":
		return Jorgensen, nil
	}
	return 0, fmt.Errorf("unknown mixing rule %q (want Lorentz-Berthelot or Jorgensen)", s)
}

// String returns the spelling RASPA expects in force_field_mixing_rules.def.
func (r Rule) String() string {
	switch r {
	case LorentzBerthelot:
		return "Lorentz-Berthelot"
	case Jorgensen:
		return "Jorgensen"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Valid reports whether r is one of the defined rules.
func (r Rule) Valid() bool {
	return r == LorentzBerthelot || r == Jorgensen
}

// MarshalText implements encoding.TextMarshaler.
func (r Rule) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid mixing rule %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rule) UnmarshalText(text []byte) error {
	parsed, err := ParseRule(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// epsilon is the geometric mean of well depths, shared by both rules.
func epsilon(a, b float64) float64 {
	return math.Sqrt(a * b)
}

func (r Rule) sigma(a, b float64) float64 {
	if r == Jorgensen {
		return math.Sqrt(a * b)
	}
	return 0.5 * (a + b)
}
