package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ffbuilder/internal/mixing"
)

func validConfig() *Config {
	return &Config{
		Framework:  "UFF",
		Molecules:  []MoleculeChoice{{Name: "CO2", Variant: "TraPPE"}, {Name: "N2", Variant: "TraPPE"}},
		MixingRule: mixing.LorentzBerthelot,
	}
}

func TestValidate_Valid(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	noFramework := validConfig()
	noFramework.Framework = ""
	require.NoError(t, noFramework.Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
		errMsg string
	}{
		{
			name:   "no molecules",
			mutate: func(c *Config) { c.Molecules = nil },
			field:  "ff_molecules",
			errMsg: "at least one molecule is required",
		},
		{
			name:   "unset mixing rule",
			mutate: func(c *Config) { c.MixingRule = 0 },
			field:  "mixing_rule",
			errMsg: "unsupported mixing rule",
		},
		{
			name:   "empty name",
			mutate: func(c *Config) { c.Molecules[1].Name = " " },
			field:  "ff_molecules[1]",
			errMsg: "molecule name is empty",
		},
		{
			name:   "empty variant",
			mutate: func(c *Config) { c.Molecules[0].Variant = "" },
			field:  "ff_molecules[0]",
			errMsg: `variant for "CO2" is empty`,
		},
		{
			name:   "duplicate molecule",
			mutate: func(c *Config) { c.Molecules[1].Name = "CO2" },
			field:  "ff_molecules[1]",
			errMsg: `molecule "CO2" is listed twice`,
		},
		{
			name:   "collides with output file",
			mutate: func(c *Config) { c.Molecules[0].Name = "force_field" },
			field:  "ff_molecules[0]",
			errMsg: "collides with force_field.def",
		},
		{
			name:   "framework as molecule",
			mutate: func(c *Config) { c.Molecules[0].Name = "framework" },
			field:  "ff_molecules[0]",
			errMsg: "use ff_framework",
		},
		{
			name:   "path separator",
			mutate: func(c *Config) { c.Molecules[0].Name = "../CO2" },
			field:  "ff_molecules[0]",
			errMsg: "cannot be used as a file name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce), "expected ConfigurationError, got %v", err)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, ce.Message, tt.errMsg)
		})
	}
}

func TestMoleculeNames(t *testing.T) {
	assert.Equal(t, []string{"CO2", "N2"}, validConfig().MoleculeNames())
}

func TestCanonical(t *testing.T) {
	got := validConfig().Canonical()

	assert.Equal(t, "UFF", got["ff_framework"])
	assert.Equal(t, "Lorentz-Berthelot", got["mixing_rule"])
	assert.Equal(t, []any{[]any{"CO2", "TraPPE"}, []any{"N2", "TraPPE"}}, got["ff_molecules"])
	assert.Equal(t, false, got["separate_interactions"])
}

func TestConfigurationError_Format(t *testing.T) {
	assert.Equal(t, "mixing_rule: bad", (&ConfigurationError{Field: "mixing_rule", Message: "bad"}).Error())
	assert.Equal(t, "bad", (&ConfigurationError{Message: "bad"}).Error())
}
