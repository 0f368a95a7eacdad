package testutil

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ffbuilder/internal/config"
	"github.com/roach88/ffbuilder/internal/forcefield"
	"github.com/roach88/ffbuilder/internal/mixing"
)

// Database decodes the embedded force-field database.
func Database(t testing.TB) *forcefield.Database {
	t.Helper()
	db, err := forcefield.Default()
	require.NoError(t, err)
	return db
}

// Config builds a configuration from "Molecule:Variant" pairs. All flags
// start false; callers set them on the returned value.
//
//	cfg := testutil.Config("UFF", mixing.LorentzBerthelot, "CO2:TraPPE", "N2:TraPPE")
func Config(framework string, rule mixing.Rule, molecules ...string) *config.Config {
	cfg := &config.Config{Framework: framework, MixingRule: rule}
	for _, m := range molecules {
		name, variant, ok := strings.Cut(m, ":")
		if !ok {
			panic(fmt.Sprintf("testutil.Config: %q is not Molecule:Variant", m))
		}
		cfg.Molecules = append(cfg.Molecules, config.MoleculeChoice{Name: name, Variant: variant})
	}
	return cfg
}

// CountingRegistry wraps a registry and records every lookup.
//
// Thread-safety: safe for concurrent use via internal mutex.
type CountingRegistry struct {
	Registry forcefield.Registry

	mu      sync.Mutex
	lookups []string
}

// Lookup implements forcefield.Registry.
func (r *CountingRegistry) Lookup(entity, variant string) (*forcefield.Variant, error) {
	r.mu.Lock()
	r.lookups = append(r.lookups, entity+"/"+variant)
	r.mu.Unlock()
	return r.Registry.Lookup(entity, variant)
}

// Lookups returns the recorded lookups in call order.
func (r *CountingRegistry) Lookups() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lookups...)
}
