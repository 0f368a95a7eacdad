package mixing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		in   string
		want Rule
	}{
		{"Lorentz-Berthelot", LorentzBerthelot},
		{"lorentz-berthelot", LorentzBerthelot},
		{" LORENTZ-BERTHELOT ", LorentzBerthelot},
		{"Jorgensen", Jorgensen},
		{"jorgensen", Jorgensen},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRule(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseRule("geometric")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mixing rule "geometric"`)
}

func TestRuleText(t *testing.T) {
	assert.Equal(t, "Lorentz-Berthelot", LorentzBerthelot.String())
	assert.Equal(t, "Jorgensen", Jorgensen.String())
	assert.Equal(t, "Rule(0)", Rule(0).String())

	text, err := Jorgensen.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Jorgensen", string(text))

	_, err = Rule(7).MarshalText()
	require.Error(t, err)

	var r Rule
	require.NoError(t, r.UnmarshalText([]byte("lorentz-berthelot")))
	assert.Equal(t, LorentzBerthelot, r)
	require.Error(t, r.UnmarshalText([]byte("nope")))
}
