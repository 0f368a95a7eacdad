package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ffbuilder/internal/forcefield"
)

// InspectResult describes one database variant.
type InspectResult struct {
	Entity           string           `json:"entity"`
	Variant          string           `json:"variant"`
	Description      string           `json:"description,omitempty"`
	AtomTypes        []AtomTypeDetail `json:"atom_types"`
	Critical         *CriticalDetail  `json:"critical_constants,omitempty"`
	Atoms            int              `json:"atoms"`
	RigidBondLengths []float64        `json:"rigid_bond_lengths,omitempty"`
}

// AtomTypeDetail is one atom type of an inspected variant.
type AtomTypeDetail struct {
	Label      string   `json:"label"`
	Kind       string   `json:"kind"`
	ForceField []string `json:"force_field"`
	Mix        []string `json:"force_field_mix,omitempty"`
	PseudoAtom []string `json:"pseudo_atom,omitempty"`
}

// CriticalDetail holds critical constants as written in the database.
type CriticalDetail struct {
	Temperature    string `json:"tc"`
	Pressure       string `json:"pc"`
	AcentricFactor string `json:"af"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <entity> <variant>",
		Short: "Show the atom types and geometry of a database variant",
		Long: `Show one variant of the force-field database: its atom types with their
interaction kinds, critical constants and the rigid bond lengths of its
geometry (distance from the first atom to each other atom, in Angstrom).

Example:
  ffbuilder inspect CO2 TraPPE
  ffbuilder inspect framework UFF`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, entity, variant string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	db, _, err := loadDatabase(opts)
	if err != nil {
		return fail(formatter, err)
	}
	v, err := db.Lookup(entity, variant)
	if err != nil {
		return fail(formatter, err)
	}

	result := describeVariant(v)
	return formatter.Success(result, func(w io.Writer) { outputInspectText(w, result) })
}

func describeVariant(v *forcefield.Variant) InspectResult {
	result := InspectResult{
		Entity:           v.Entity,
		Variant:          v.Name,
		Description:      v.Description,
		AtomTypes:        make([]AtomTypeDetail, 0, len(v.AtomTypes)),
		Atoms:            len(v.Positions),
		RigidBondLengths: v.RigidBondLengths(),
	}
	for _, at := range v.AtomTypes {
		d := AtomTypeDetail{
			Label:      at.Label,
			Kind:       string(at.ForceField.Kind()),
			ForceField: at.ForceField.Tokens(),
			PseudoAtom: at.PseudoAtom,
		}
		if at.Mix != nil {
			d.Mix = at.Mix.Tokens()
		}
		result.AtomTypes = append(result.AtomTypes, d)
	}
	if v.Critical != nil {
		result.Critical = &CriticalDetail{
			Temperature:    v.Critical.Temperature,
			Pressure:       v.Critical.Pressure,
			AcentricFactor: v.Critical.AcentricFactor,
		}
	}
	return result
}

func outputInspectText(w io.Writer, r InspectResult) {
	fmt.Fprintf(w, "%s/%s\n", r.Entity, r.Variant)
	if r.Description != "" {
		fmt.Fprintf(w, "  %s\n", r.Description)
	}
	if r.Critical != nil {
		fmt.Fprintf(w, "Critical constants: Tc=%s K, Pc=%s Pa, af=%s\n", r.Critical.Temperature, r.Critical.Pressure, r.Critical.AcentricFactor)
	}
	fmt.Fprintf(w, "Atom types (%d):\n", len(r.AtomTypes))
	for _, at := range r.AtomTypes {
		line := fmt.Sprintf("  %-10s %s", at.Label, strings.Join(at.ForceField, " "))
		if len(at.Mix) > 0 {
			line += " (mix: " + strings.Join(at.Mix, " ") + ")"
		}
		fmt.Fprintln(w, line)
	}
	if r.Atoms > 0 {
		fmt.Fprintf(w, "Atoms: %d\n", r.Atoms)
	}
	for i, l := range r.RigidBondLengths {
		fmt.Fprintf(w, "  bond 0-%d: %.4f A\n", i+1, l)
	}
}
