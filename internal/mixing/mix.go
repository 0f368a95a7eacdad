package mixing

import (
	"fmt"
	"strings"

	"github.com/roach88/ffbuilder/internal/forcefield"
)

// Site is one labeled participant in cross mixing.
type Site struct {
	Label       string
	Interaction forcefield.Interaction
}

// Pair is a mixed cross interaction between two sites.
type Pair struct {
	First  string
	Second string

	// Interaction is the combined interaction. Mixed pairs never carry
	// source tokens, so numbers render with fixed precision.
	Interaction forcefield.Interaction
}

// String renders the force_field.def line for the pair.
func (p Pair) String() string {
	switch ia := p.Interaction.(type) {
	case forcefield.LennardJones:
		return fmt.Sprintf("%s %s %s %.5f %.5f", p.First, p.Second, ia.Kind(), ia.Epsilon, ia.Sigma)
	case forcefield.FeynmanHibbs:
		return fmt.Sprintf("%s %s %s %.5f %.5f %.5f", p.First, p.Second, ia.Kind(), ia.Epsilon, ia.Sigma, ia.ReducedMass)
	case forcefield.ZeroPotential:
		return fmt.Sprintf("%s %s %s", p.First, p.Second, ia.Kind())
	default:
		return strings.Join(append([]string{p.First, p.Second}, p.Interaction.Tokens()...), " ")
	}
}

// UnsupportedMixingError reports a pair of kinds with no combination rule.
type UnsupportedMixingError struct {
	First      string
	Second     string
	FirstKind  forcefield.Kind
	SecondKind forcefield.Kind
}

func (e *UnsupportedMixingError) Error() string {
	return fmt.Sprintf("cannot mix %s (%s) with %s (%s)", e.First, e.FirstKind, e.Second, e.SecondKind)
}

type combineFunc func(a, b forcefield.Interaction, rule Rule) forcefield.Interaction

type kindPair [2]forcefield.Kind

var combiners = map[kindPair]combineFunc{
	{forcefield.KindLennardJones, forcefield.KindLennardJones}: combineLennardJones,
	{forcefield.KindFeynmanHibbs, forcefield.KindFeynmanHibbs}: combineFeynmanHibbs,
}

func combineLennardJones(a, b forcefield.Interaction, rule Rule) forcefield.Interaction {
	x, y := a.(forcefield.LennardJones), b.(forcefield.LennardJones)
	return forcefield.NewLennardJones(epsilon(x.Epsilon, y.Epsilon), rule.sigma(x.Sigma, y.Sigma))
}

// The reduced mass is taken from the first site. Both sides are assumed to
// share it.
func combineFeynmanHibbs(a, b forcefield.Interaction, rule Rule) forcefield.Interaction {
	x, y := a.(forcefield.FeynmanHibbs), b.(forcefield.FeynmanHibbs)
	return forcefield.NewFeynmanHibbs(epsilon(x.Epsilon, y.Epsilon), rule.sigma(x.Sigma, y.Sigma), x.ReducedMass)
}

// Combine mixes a single pair of sites.
func Combine(a, b Site, rule Rule) (Pair, error) {
	if !rule.Valid() {
		return Pair{}, fmt.Errorf("invalid mixing rule %d", int(rule))
	}
	if a.Interaction == nil || b.Interaction == nil {
		return Pair{}, fmt.Errorf("site %q or %q has no interaction", a.Label, b.Label)
	}
	ka, kb := a.Interaction.Kind(), b.Interaction.Kind()
	pair := Pair{First: a.Label, Second: b.Label}

	if ka == forcefield.KindZeroPotential || kb == forcefield.KindZeroPotential {
		pair.Interaction = forcefield.ZeroPotential{}
		return pair, nil
	}
	fn, ok := combiners[kindPair{ka, kb}]
	if !ok {
		return Pair{}, &UnsupportedMixingError{First: a.Label, Second: b.Label, FirstKind: ka, SecondKind: kb}
	}
	pair.Interaction = fn(a.Interaction, b.Interaction, rule)
	return pair, nil
}

// Mix returns every unordered pair of sites, self-pairs included, combined
// under rule. The first unsupported pair aborts the whole table.
func Mix(sites []Site, rule Rule) ([]Pair, error) {
	pairs := make([]Pair, 0, len(sites)*(len(sites)+1)/2)
	for i := range sites {
		for j := i; j < len(sites); j++ {
			p, err := Combine(sites[i], sites[j], rule)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, p)
		}
	}
	return pairs, nil
}

// Lines renders pairs as force_field.def lines.
func Lines(pairs []Pair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.String()
	}
	return out
}
