package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	out, _, err := execute("validate", testdata("co2_n2.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "✓ Configuration valid (2 molecule(s), framework UFF)\n", out)

	out, _, err = execute("validate", "--format", "json", testdata("unmixable.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	resp := decodeResponse[any](t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUnsupportedMixing, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "cannot mix C_co2")
}

func TestValidate_JSON(t *testing.T) {
	out, _, err := execute("--format", "json", "--db", testdata("tiny_db.yaml"), "validate", testdata("argon.yaml"))
	require.NoError(t, err)
	resp := decodeResponse[ValidationResult](t, out)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, "Tiny", resp.Data.Framework)
	assert.Equal(t, []string{"Ar"}, resp.Data.Molecules)
	assert.Equal(t, 4, resp.Data.Documents)
}

func TestValidate_ConfigurationErrorLine(t *testing.T) {
	out, _, err := execute("--format", "json", "validate", testdata("incomplete.yaml"))
	require.Error(t, err)
	resp := decodeResponse[any](t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfiguration, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "mixing_rule")
}

func TestList(t *testing.T) {
	out, _, err := execute("list")
	require.NoError(t, err)
	assert.Equal(t, "framework\nCO2\nN2\nCH4\nH2O\nH2\nXe\nKr\n", out)

	out, _, err = execute("list", "CO2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "TraPPE "))
	assert.True(t, strings.HasPrefix(lines[1], "Garcia-Sanchez "))

	out, _, err = execute("list", "--format", "json", "framework")
	require.NoError(t, err)
	resp := decodeResponse[ListResult](t, out)
	assert.Equal(t, []string{"UFF", "DREIDING"}, resp.Data.Names)

	_, _, err = execute("list", "Ar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeVariantNotFound)
}

func TestInspect(t *testing.T) {
	out, _, err := execute("inspect", "CO2", "TraPPE")
	require.NoError(t, err)
	assert.Contains(t, out, "CO2/TraPPE")
	assert.Contains(t, out, "Critical constants: Tc=304.1282 K, Pc=7377300.0 Pa, af=0.22394")
	assert.Contains(t, out, "C_co2      lennard-jones 27.0 2.80")
	assert.Contains(t, out, "bond 0-1: 1.1490 A")
	assert.Contains(t, out, "bond 0-2: 2.2980 A")

	out, _, err = execute("inspect", "--format", "json", "Xe", "Probe")
	require.NoError(t, err)
	resp := decodeResponse[InspectResult](t, out)
	require.Len(t, resp.Data.AtomTypes, 1)
	at := resp.Data.AtomTypes[0]
	assert.Equal(t, "Xe_probe", at.Label)
	assert.Equal(t, "dummy-separate", at.Kind)
	assert.Equal(t, []string{"lennard-jones", "221.0", "4.1"}, at.Mix)
	assert.Equal(t, 1, resp.Data.Atoms)
	assert.Empty(t, resp.Data.RigidBondLengths)

	out, _, err = execute("inspect", "--format", "json", "framework", "UFF")
	require.NoError(t, err)
	fw := decodeResponse[InspectResult](t, out)
	assert.Nil(t, fw.Data.Critical)
	assert.Len(t, fw.Data.AtomTypes, 15)

	_, _, err = execute("inspect", "CO2", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestMix(t *testing.T) {
	out, _, err := execute("mix", testdata("co2_n2.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# 10 pair(s), Jorgensen\n"))
	assert.Contains(t, out, "C_co2 O_co2 lennard-jones 46.18441 2.92233\n")
	assert.Contains(t, out, "A_n2 A_n2 zero-potential\n")

	// The table is computed even when separate_interactions is false.
	out, _, err = execute("mix", "--format", "json", testdata("missing_variant.yaml"))
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeVariantNotFound)

	out, _, err = execute("mix", "--format", "json", "--db", testdata("tiny_db.yaml"), testdata("argon.yaml"))
	require.NoError(t, err)
	resp := decodeResponse[MixResult](t, out)
	assert.Equal(t, "Lorentz-Berthelot", resp.Data.Rule)
	require.Len(t, resp.Data.Pairs, 1)
	assert.Equal(t, "Ar Ar lennard-jones 119.80000 3.40000", resp.Data.Pairs[0].Line)

	_, _, err = execute("mix", testdata("unmixable.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeUnsupportedMixing)
}

func TestHistory(t *testing.T) {
	history := filepath.Join(t.TempDir(), "builds.db")

	out, _, err := execute("history", "--history", history)
	require.NoError(t, err)
	assert.Equal(t, "No builds recorded\n", out)

	opts := buildOptions("text")
	opts.History = history
	cmd, _, _ := testCommand()
	require.NoError(t, runBuild(context.Background(), opts, testdata("co2_n2.yaml"), cmd))
	cmd, _, _ = testCommand()
	require.Error(t, runBuild(context.Background(), opts, testdata("unmixable.yaml"), cmd))

	out, _, err = execute("history", "--history", history)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "build-0001")
	assert.Contains(t, lines[0], "2024-05-01T09:30:00Z")
	assert.Contains(t, lines[1], "failed E103")

	out, _, err = execute("history", "--history", history, "--limit", "1", "--format", "json")
	require.NoError(t, err)
	list := decodeResponse[[]struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}](t, out)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "build-0002", list.Data[0].ID)

	out, _, err = execute("history", "--history", history, "--build", "build-0001")
	require.NoError(t, err)
	assert.Contains(t, out, "Build build-0001 (#1)")
	assert.Contains(t, out, "status:   succeeded")
	assert.Contains(t, out, "force_field_mixing_rules.def")

	out, _, err = execute("history", "--history", history, "--build", "build-0001", "--format", "json")
	require.NoError(t, err)
	detail := decodeResponse[BuildDetail](t, out)
	require.Len(t, detail.Data.Artifacts, 5)

	out, _, err = execute("history", "--history", history, "--digest", detail.Data.BuildDigest, "--format", "json")
	require.NoError(t, err)
	byDigest := decodeResponse[[]BuildDetail](t, out)
	require.Len(t, byDigest.Data, 1)

	_, _, err = execute("history", "--history", history, "--build", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeBuildNotFound)
}

func TestHistory_RequiresFlag(t *testing.T) {
	_, _, err := execute("history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "history" not set`)
}
