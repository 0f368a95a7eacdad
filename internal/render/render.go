package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/ffbuilder/internal/config"
	"github.com/roach88/ffbuilder/internal/forcefield"
	"github.com/roach88/ffbuilder/internal/mixing"
)

// Canonical file names.
const (
	MixingRulesFile = "force_field_mixing_rules.def"
	OverridesFile   = "force_field.def"
	PseudoAtomsFile = "pseudo_atoms.def"
)

// MoleculeFile returns the file name of a molecule's geometry document.
func MoleculeFile(name string) string {
	return name + ".def"
}

// Document is a rendered file.
type Document struct {
	Name    string
	Content []byte
}

// lines accumulates newline-terminated output.
type lines struct {
	b strings.Builder
}

func (l *lines) add(s string) {
	l.b.WriteString(s)
	l.b.WriteByte('\n')
}

func (l *lines) addf(format string, args ...any) {
	l.add(fmt.Sprintf(format, args...))
}

func (l *lines) doc(name string) Document {
	return Document{Name: name, Content: []byte(l.b.String())}
}

func specLine(label string, ia forcefield.Interaction) string {
	return strings.Join(append([]string{label}, ia.Tokens()...), " ")
}

func choice(b bool, no, yes string) string {
	if b {
		return yes
	}
	return no
}

// molecules resolves every configured molecule in order.
func molecules(reg forcefield.Registry, cfg *config.Config) ([]*forcefield.Variant, error) {
	out := make([]*forcefield.Variant, 0, len(cfg.Molecules))
	for _, m := range cfg.Molecules {
		v, err := reg.Lookup(m.Name, m.Variant)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// MixingRules renders force_field_mixing_rules.def. The boolean reports
// whether a force_field_mix override was written.
func MixingRules(reg forcefield.Registry, cfg *config.Config) (Document, bool, error) {
	var defs []string
	if cfg.Framework != "" {
		fw, err := reg.Lookup(forcefield.FrameworkEntity, cfg.Framework)
		if err != nil {
			return Document{}, false, err
		}
		for _, at := range fw.AtomTypes {
			defs = append(defs, specLine(at.Label, at.ForceField))
		}
	}

	mols, err := molecules(reg, cfg)
	if err != nil {
		return Document{}, false, err
	}
	overrideUsed := false
	for _, v := range mols {
		for _, at := range v.AtomTypes {
			switch {
			case at.Mix != nil:
				overrideUsed = true
				defs = append(defs, specLine(at.Label, at.Mix))
			case !cfg.SeparateInteractions || at.ForceField.Kind() == forcefield.KindZeroPotential:
				defs = append(defs, specLine(at.Label, at.ForceField))
			}
		}
	}

	var out lines
	out.add("# general rule for shifted vs truncated (file generated by aiida-raspa)")
	out.add(choice(cfg.Shifted, "truncated", "shifted"))
	out.add("# general rule tail corrections")
	out.add(choice(cfg.TailCorrections, "no", "yes"))
	out.add("# number of defined interactions")
	out.add(strconv.Itoa(len(defs)))
	out.add("# atom_type, interaction, parameters")
	for _, d := range defs {
		out.add(d)
	}
	out.add("# general mixing rule for Lennard-Jones")
	out.add(cfg.MixingRule.String())
	return out.doc(MixingRulesFile), overrideUsed, nil
}

// CrossSites lists every molecule atom type as a mixing site, in
// configuration order then database order. dummy_separate sites become
// zero-potential so they never interact with other molecules.
func CrossSites(reg forcefield.Registry, cfg *config.Config) ([]mixing.Site, error) {
	mols, err := molecules(reg, cfg)
	if err != nil {
		return nil, err
	}
	var sites []mixing.Site
	for _, v := range mols {
		for _, at := range v.AtomTypes {
			ia := at.ForceField
			if ia.Kind() == forcefield.KindDummySeparate {
				ia = forcefield.ZeroPotential{}
			}
			sites = append(sites, mixing.Site{Label: at.Label, Interaction: ia})
		}
	}
	return sites, nil
}

// CrossPairs computes the molecule-molecule table written to force_field.def.
func CrossPairs(reg forcefield.Registry, cfg *config.Config) ([]mixing.Pair, error) {
	sites, err := CrossSites(reg, cfg)
	if err != nil {
		return nil, err
	}
	return mixing.Mix(sites, cfg.MixingRule)
}

// Overrides renders force_field.def. The pair table is written when
// interactions are separated or overrideUsed is set.
func Overrides(reg forcefield.Registry, cfg *config.Config, overrideUsed bool) (Document, error) {
	if !NeedsPairTable(cfg, overrideUsed) {
		return OverridesTable(nil, false), nil
	}
	pairs, err := CrossPairs(reg, cfg)
	if err != nil {
		return Document{}, err
	}
	return OverridesTable(pairs, true), nil
}

// NeedsPairTable reports whether force_field.def must list the mixed
// molecule pairs.
func NeedsPairTable(cfg *config.Config, overrideUsed bool) bool {
	return cfg.SeparateInteractions || overrideUsed
}

// OverridesTable renders force_field.def from an already mixed pair table.
// Without table only the empty counts are written and pairs is ignored.
func OverridesTable(pairs []mixing.Pair, table bool) Document {
	if !table {
		pairs = nil
	}
	var out lines
	out.add("# rules to overwrite (file generated by aiida-raspa)")
	out.add("0")
	out.add("# number of defined interactions")
	out.add(strconv.Itoa(len(pairs)))
	if table {
		out.add("# type1 type2 interaction")
		for _, p := range pairs {
			out.add(p.String())
		}
	}
	out.add("# mixing rules to overwrite")
	out.add("0")
	return out.doc(OverridesFile)
}

// PseudoAtoms renders pseudo_atoms.def.
func PseudoAtoms(reg forcefield.Registry, cfg *config.Config) (Document, error) {
	mols, err := molecules(reg, cfg)
	if err != nil {
		return Document{}, err
	}
	var rows []string
	for _, v := range mols {
		for _, at := range v.AtomTypes {
			rows = append(rows, strings.Join(append([]string{at.Label}, at.PseudoAtom...), " "))
		}
	}

	var out lines
	out.add("# number of pseudo atoms")
	out.add(strconv.Itoa(len(rows)))
	out.add("#type print as chem oxidation mass charge polarization B-factor radii connectivity anisotropic anisotropic-type tinker-type")
	for _, r := range rows {
		out.add(r)
	}
	return out.doc(PseudoAtomsFile), nil
}

// Molecule renders <name>.def for a configured molecule. Every molecule is
// written as a single rigid group.
func Molecule(reg forcefield.Registry, cfg *config.Config, name string) (Document, error) {
	var mc *config.MoleculeChoice
	for i := range cfg.Molecules {
		if cfg.Molecules[i].Name == name {
			mc = &cfg.Molecules[i]
			break
		}
	}
	if mc == nil {
		return Document{}, &config.ConfigurationError{Field: "ff_molecules", Message: fmt.Sprintf("molecule %q is not configured", name)}
	}
	v, err := reg.Lookup(mc.Name, mc.Variant)
	if err != nil {
		return Document{}, err
	}
	if v.Critical == nil {
		return Document{}, fmt.Errorf("%s/%s: variant has no critical constants", v.Entity, v.Name)
	}

	n := len(v.Positions)
	var out lines
	out.add("# critical constants: Temperature [T], Pressure [Pa], and Acentric factor [-] (file generated by aiida-raspa)")
	out.add(v.Critical.Temperature)
	out.add(v.Critical.Pressure)
	out.add(v.Critical.AcentricFactor)
	out.add("# Number Of atoms")
	out.add(strconv.Itoa(n))
	out.add("# Number of groups")
	out.add("1")
	out.add("# Group-1: rigid/flexible")
	out.add("rigid")
	out.add("# Group-1: Number of atoms")
	out.add(strconv.Itoa(n))
	out.add("# Atomic positions")
	for i, p := range v.Positions {
		out.add(strings.Join(append([]string{strconv.Itoa(i), p.Label}, p.Fields...), " "))
	}
	out.add("# Chiral centers Bond  BondDipoles Bend  UrayBradley InvBend  Torsion Imp. Torsion Bond/Bond Stretch/Bend Bend/Bend Stretch/Torsion Bend/Torsion IntraVDW IntraCoulomb")
	out.addf("0 %d 0 0 0 0 0 0 0 0 0 0 0 0 0", max(n-1, 0))
	if n > 1 {
		out.add("# Bond stretch: atom n1-n2, type, parameters")
		for i := 1; i < n; i++ {
			out.addf("0 %d RIGID_BOND", i)
		}
	}
	out.add("# Number of config moves")
	out.add("0")
	return out.doc(MoleculeFile(name)), nil
}
