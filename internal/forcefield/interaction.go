package forcefield

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies an interaction variant.
type Kind string

// Interaction kinds understood by the mixing engine. Kinds outside this set
// decode as Opaque.
const (
	KindLennardJones  Kind = "lennard-jones"
	KindFeynmanHibbs  Kind = "feynman-hibbs-lennard-jones"
	KindZeroPotential Kind = "zero-potential"
	KindDummySeparate Kind = "dummy-separate"
)

// Interaction is a decoded interaction spec. The set of implementations is
// closed: LennardJones, FeynmanHibbs, ZeroPotential, DummySeparate and Opaque.
type Interaction interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Tokens returns the kind token followed by the parameters, exactly as
	// written in the database when the value was decoded.
	Tokens() []string

	sealed()
}

// LennardJones is a 12-6 Lennard-Jones site (epsilon in K, sigma in Å).
type LennardJones struct {
	Epsilon float64
	Sigma   float64

	source []string
}

// NewLennardJones builds a Lennard-Jones interaction from parameters.
func NewLennardJones(epsilon, sigma float64) LennardJones {
	return LennardJones{Epsilon: epsilon, Sigma: sigma}
}

func (LennardJones) Kind() Kind { return KindLennardJones }

func (lj LennardJones) Tokens() []string {
	if lj.source != nil {
		return cloneTokens(lj.source)
	}
	return []string{string(KindLennardJones), FormatParam(lj.Epsilon), FormatParam(lj.Sigma)}
}

func (LennardJones) sealed() {}

// FeynmanHibbs is a quantum-corrected Lennard-Jones site.
type FeynmanHibbs struct {
	Epsilon     float64
	Sigma       float64
	ReducedMass float64

	source []string
}

// NewFeynmanHibbs builds a Feynman-Hibbs Lennard-Jones interaction.
func NewFeynmanHibbs(epsilon, sigma, reducedMass float64) FeynmanHibbs {
	return FeynmanHibbs{Epsilon: epsilon, Sigma: sigma, ReducedMass: reducedMass}
}

func (FeynmanHibbs) Kind() Kind { return KindFeynmanHibbs }

func (fh FeynmanHibbs) Tokens() []string {
	if fh.source != nil {
		return cloneTokens(fh.source)
	}
	return []string{
		string(KindFeynmanHibbs),
		FormatParam(fh.Epsilon),
		FormatParam(fh.Sigma),
		FormatParam(fh.ReducedMass),
	}
}

func (FeynmanHibbs) sealed() {}

// ZeroPotential contributes no energy with any partner. Used for ghost and
// charge-only sites.
type ZeroPotential struct {
	source []string
}

func (ZeroPotential) Kind() Kind { return KindZeroPotential }

func (z ZeroPotential) Tokens() []string {
	if z.source != nil {
		return cloneTokens(z.source)
	}
	return []string{string(KindZeroPotential)}
}

func (ZeroPotential) sealed() {}

// DummySeparate marks a molecule site that only interacts with the framework
// through its force_field_mix entry. It is replaced by ZeroPotential before
// molecule-molecule mixing.
type DummySeparate struct {
	source []string
}

func (DummySeparate) Kind() Kind { return KindDummySeparate }

func (d DummySeparate) Tokens() []string {
	if d.source != nil {
		return cloneTokens(d.source)
	}
	return []string{"dummy_separate"}
}

func (DummySeparate) sealed() {}

// Opaque is any interaction kind this package has no typed form for. It is
// rendered verbatim and cannot be mixed.
type Opaque struct {
	Name   string
	Params []string
}

func (o Opaque) Kind() Kind { return Kind(strings.ToLower(o.Name)) }

func (o Opaque) Tokens() []string {
	return append([]string{o.Name}, o.Params...)
}

func (Opaque) sealed() {}

// ParseInteraction decodes a positional spec: a kind token followed by its
// parameters. Kind tokens are case-insensitive. Known kinds are checked for
// arity and numeric parameters; unknown kinds decode as Opaque.
func ParseInteraction(tokens []string) (Interaction, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty interaction spec")
	}
	src := cloneTokens(tokens)
	params := tokens[1:]

	switch kind := strings.ToLower(strings.TrimSpace(tokens[0])); kind {
	case string(KindLennardJones):
		vals, err := parseParams(kind, params, 2)
		if err != nil {
			return nil, err
		}
		return LennardJones{Epsilon: vals[0], Sigma: vals[1], source: src}, nil
	case string(KindFeynmanHibbs):
		vals, err := parseParams(kind, params, 3)
		if err != nil {
			return nil, err
		}
		return FeynmanHibbs{Epsilon: vals[0], Sigma: vals[1], ReducedMass: vals[2], source: src}, nil
	case string(KindZeroPotential):
		if _, err := parseParams(kind, params, 0); err != nil {
			return nil, err
		}
		return ZeroPotential{source: src}, nil
	case "dummy_separate", string(KindDummySeparate):
		if _, err := parseParams(kind, params, 0); err != nil {
			return nil, err
		}
		return DummySeparate{source: src}, nil
	case "":
		return nil, fmt.Errorf("interaction kind is empty")
	default:
		return Opaque{Name: tokens[0], Params: cloneTokens(params)}, nil
	}
}

func parseParams(kind string, params []string, arity int) ([]float64, error) {
	if len(params) != arity {
		return nil, fmt.Errorf("%s expects %d parameter(s), got %d", kind, arity, len(params))
	}
	vals := make([]float64, arity)
	for i, p := range params {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%s parameter %d: %q is not a number", kind, i+1, p)
		}
		vals[i] = v
	}
	return vals, nil
}

// FormatParam renders a parameter the way the database writes whole
// numbers: 27 becomes "27.0".
func FormatParam(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func cloneTokens(tokens []string) []string {
	if tokens == nil {
		return nil
	}
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}
