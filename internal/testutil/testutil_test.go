package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ffbuilder/internal/forcefield"
	"github.com/roach88/ffbuilder/internal/mixing"
)

func TestConfig(t *testing.T) {
	cfg := Config("UFF", mixing.Jorgensen, "CO2:TraPPE", "H2O:TIP4P/2005")

	assert.Equal(t, "UFF", cfg.Framework)
	assert.Equal(t, mixing.Jorgensen, cfg.MixingRule)
	assert.Equal(t, []string{"CO2", "H2O"}, cfg.MoleculeNames())
	assert.Equal(t, "TIP4P/2005", cfg.Molecules[1].Variant)
	require.NoError(t, cfg.Validate())

	assert.Panics(t, func() { Config("", mixing.Jorgensen, "CO2") })
}

func TestCountingRegistry(t *testing.T) {
	reg := &CountingRegistry{Registry: Database(t)}

	_, err := reg.Lookup("CO2", "TraPPE")
	require.NoError(t, err)
	_, err = reg.Lookup("Ar", "TraPPE")
	var nf *forcefield.NotFoundError
	require.ErrorAs(t, err, &nf)

	assert.Equal(t, []string{"CO2/TraPPE", "Ar/TraPPE"}, reg.Lookups())
}

func TestSequentialIDs(t *testing.T) {
	var g SequentialIDs
	assert.Equal(t, "build-0001", g.Generate())
	assert.Equal(t, "build-0002", g.Generate())

	g.Reset()
	assert.Equal(t, "build-0001", g.Generate())
}

func TestSequentialIDs_ThreadSafe(t *testing.T) {
	var g SequentialIDs
	var wg sync.WaitGroup
	seen := sync.Map{}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, dup := seen.LoadOrStore(g.Generate(), true)
				assert.False(t, dup)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, "build-0101", g.Generate())
}
