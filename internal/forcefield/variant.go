package forcefield

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// FrameworkEntity is the reserved entity name holding framework variants.
const FrameworkEntity = "framework"

// Registry resolves (entity, variant) pairs. *Database is the production
// implementation; tests may supply their own.
type Registry interface {
	Lookup(entity, variant string) (*Variant, error)
}

// NotFoundError reports an (entity, variant) pair absent from the database.
type NotFoundError struct {
	Entity  string
	Variant string
}

func (e *NotFoundError) Error() string {
	if e.Variant == "" {
		return fmt.Sprintf("entity %q not found in force-field database", e.Entity)
	}
	return fmt.Sprintf("variant %q of %q not found in force-field database", e.Variant, e.Entity)
}

// AtomType is one labeled interaction site of a variant.
type AtomType struct {
	Label string

	// ForceField is the site's own interaction spec.
	ForceField Interaction

	// Mix optionally overrides ForceField in the mixing-rules file. Nil when
	// the database has no force_field_mix entry.
	Mix Interaction

	// PseudoAtom holds the pseudo_atoms.def columns after the label,
	// verbatim. Empty for framework atom types.
	PseudoAtom []string
}

// CriticalConstants are the thermodynamic constants written at the top of a
// molecule file, kept as the database text.
type CriticalConstants struct {
	Temperature    string
	Pressure       string
	AcentricFactor string
}

// Position is one atom of a rigid molecule geometry.
type Position struct {
	Label string

	// Coord is parsed from the first three fields.
	Coord r3.Vec

	// Fields holds every token after the label as written in the database
	// (coordinates first, then any ancillary columns).
	Fields []string
}

// Variant is a single force-field definition of a framework or molecule.
// Variants are immutable once decoded.
type Variant struct {
	Entity      string
	Name        string
	Description string
	AtomTypes   []AtomType

	// Critical is nil for framework variants.
	Critical *CriticalConstants

	// Positions is empty for framework variants.
	Positions []Position
}

// IsMolecule reports whether the variant belongs to a molecule entity.
func (v *Variant) IsMolecule() bool {
	return v.Entity != FrameworkEntity
}

// UsesMix reports whether any atom type carries a force_field_mix override.
func (v *Variant) UsesMix() bool {
	for _, at := range v.AtomTypes {
		if at.Mix != nil {
			return true
		}
	}
	return false
}

// RigidBondLengths returns the distance from atom 0 to each subsequent atom,
// matching the RIGID_BOND declarations of the molecule file.
func (v *Variant) RigidBondLengths() []float64 {
	if len(v.Positions) < 2 {
		return nil
	}
	origin := v.Positions[0].Coord
	lengths := make([]float64, 0, len(v.Positions)-1)
	for _, p := range v.Positions[1:] {
		lengths = append(lengths, r3.Norm(r3.Sub(p.Coord, origin)))
	}
	return lengths
}

// Database is the decoded force-field database.
type Database struct {
	order    []string
	entities map[string]*entity
}

type entity struct {
	order    []string
	variants map[string]*Variant
}

// Lookup returns the named variant or a *NotFoundError.
func (db *Database) Lookup(entityName, variant string) (*Variant, error) {
	e, ok := db.entities[entityName]
	if !ok {
		return nil, &NotFoundError{Entity: entityName, Variant: variant}
	}
	v, ok := e.variants[variant]
	if !ok {
		return nil, &NotFoundError{Entity: entityName, Variant: variant}
	}
	return v, nil
}

// Framework is shorthand for Lookup(FrameworkEntity, variant).
func (db *Database) Framework(variant string) (*Variant, error) {
	return db.Lookup(FrameworkEntity, variant)
}

// Entities returns entity names in database order.
func (db *Database) Entities() []string {
	return cloneTokens(db.order)
}

// Variants returns the variant names of an entity in database order.
func (db *Database) Variants(entityName string) ([]string, error) {
	e, ok := db.entities[entityName]
	if !ok {
		return nil, &NotFoundError{Entity: entityName}
	}
	return cloneTokens(e.order), nil
}

// NewDatabase assembles a database from already-built variants, keeping the
// given order. Used by tests and by callers that build databases in code.
func NewDatabase(variants ...*Variant) (*Database, error) {
	db := &Database{entities: make(map[string]*entity)}
	for _, v := range variants {
		if err := db.add(v); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (db *Database) add(v *Variant) error {
	if v == nil || v.Entity == "" || v.Name == "" {
		return fmt.Errorf("variant requires entity and name")
	}
	e, ok := db.entities[v.Entity]
	if !ok {
		e = &entity{variants: make(map[string]*Variant)}
		db.entities[v.Entity] = e
		db.order = append(db.order, v.Entity)
	}
	if _, dup := e.variants[v.Name]; dup {
		return fmt.Errorf("duplicate variant %q of %q", v.Name, v.Entity)
	}
	e.variants[v.Name] = v
	e.order = append(e.order, v.Name)
	return nil
}
