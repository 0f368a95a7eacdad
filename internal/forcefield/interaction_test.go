package forcefield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteraction_LennardJones(t *testing.T) {
	ia, err := ParseInteraction([]string{"Lennard-Jones", "27.0", "2.80"})
	require.NoError(t, err)

	lj, ok := ia.(LennardJones)
	require.True(t, ok, "expected LennardJones, got %T", ia)
	assert.Equal(t, 27.0, lj.Epsilon)
	assert.Equal(t, 2.80, lj.Sigma)
	assert.Equal(t, KindLennardJones, lj.Kind())
	// Source text survives, including the kind token's case.
	assert.Equal(t, []string{"Lennard-Jones", "27.0", "2.80"}, lj.Tokens())
}

func TestParseInteraction_FeynmanHibbs(t *testing.T) {
	ia, err := ParseInteraction([]string{"feynman-hibbs-lennard-jones", "34.2", "2.96", "1.008"})
	require.NoError(t, err)

	fh, ok := ia.(FeynmanHibbs)
	require.True(t, ok)
	assert.Equal(t, 34.2, fh.Epsilon)
	assert.Equal(t, 2.96, fh.Sigma)
	assert.Equal(t, 1.008, fh.ReducedMass)
}

func TestParseInteraction_ZeroAndDummy(t *testing.T) {
	zero, err := ParseInteraction([]string{"zero-potential"})
	require.NoError(t, err)
	assert.Equal(t, KindZeroPotential, zero.Kind())

	for _, token := range []string{"dummy_separate", "dummy-separate", "DUMMY_SEPARATE"} {
		t.Run(token, func(t *testing.T) {
			d, err := ParseInteraction([]string{token})
			require.NoError(t, err)
			assert.Equal(t, KindDummySeparate, d.Kind())
			assert.Equal(t, []string{token}, d.Tokens())
		})
	}
}

func TestParseInteraction_Opaque(t *testing.T) {
	ia, err := ParseInteraction([]string{"Buckingham", "1.0", "2.0", "3.0"})
	require.NoError(t, err)

	op, ok := ia.(Opaque)
	require.True(t, ok)
	assert.Equal(t, Kind("buckingham"), op.Kind())
	assert.Equal(t, []string{"Buckingham", "1.0", "2.0", "3.0"}, op.Tokens())
}

func TestParseInteraction_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		errMsg string
	}{
		{"empty", nil, "empty interaction spec"},
		{"blank kind", []string{"  "}, "kind is empty"},
		{"lj missing sigma", []string{"lennard-jones", "27.0"}, "expects 2 parameter(s), got 1"},
		{"lj extra param", []string{"lennard-jones", "1", "2", "3"}, "expects 2 parameter(s), got 3"},
		{"lj non numeric", []string{"lennard-jones", "abc", "2"}, `"abc" is not a number`},
		{"fh arity", []string{"feynman-hibbs-lennard-jones", "1", "2"}, "expects 3 parameter(s)"},
		{"zero with params", []string{"zero-potential", "1"}, "expects 0 parameter(s)"},
		{"dummy with params", []string{"dummy_separate", "1"}, "expects 0 parameter(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInteraction(tt.tokens)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConstructedInteractionTokens(t *testing.T) {
	assert.Equal(t, []string{"lennard-jones", "27.0", "2.8"}, NewLennardJones(27, 2.8).Tokens())
	assert.Equal(t,
		[]string{"feynman-hibbs-lennard-jones", "34.2", "2.96", "1.0"},
		NewFeynmanHibbs(34.2, 2.96, 1).Tokens())
	assert.Equal(t, []string{"zero-potential"}, ZeroPotential{}.Tokens())
	assert.Equal(t, []string{"dummy_separate"}, DummySeparate{}.Tokens())
}

func TestTokensAreCopies(t *testing.T) {
	ia, err := ParseInteraction([]string{"lennard-jones", "1.0", "2.0"})
	require.NoError(t, err)

	tokens := ia.Tokens()
	tokens[1] = "mutated"
	assert.Equal(t, "1.0", ia.Tokens()[1])
}

func TestFormatParam(t *testing.T) {
	assert.Equal(t, "27.0", FormatParam(27))
	assert.Equal(t, "2.8", FormatParam(2.8))
	assert.Equal(t, "-0.35", FormatParam(-0.35))
	assert.Equal(t, "0.0", FormatParam(0))
}
