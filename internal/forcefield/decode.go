package forcefield

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed data/ff_data.yaml
var defaultDocument []byte

// DefaultName is the source name reported for the embedded database.
const DefaultName = "ff_data.yaml"

// DecodeError reports a malformed database document.
type DecodeError struct {
	Source  string // file name or DefaultName
	Path    string // dotted key path, e.g. "CO2.TraPPE.atom_types.C_co2"
	Line    int
	Message string
}

func (e *DecodeError) Error() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Source, e.Line)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", loc, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// Default decodes the database embedded in the binary.
func Default() (*Database, error) {
	return Decode(DefaultName, defaultDocument)
}

// DefaultDocument returns a copy of the embedded database document.
func DefaultDocument() []byte {
	return bytes.Clone(defaultDocument)
}

// Load reads and decodes a database file.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read force-field database: %w", err)
	}
	return Decode(path, data)
}

// Decode parses a database document. source names the document in errors.
func Decode(source string, data []byte) (*Database, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Source: source, Message: err.Error()}
	}
	d := &decoder{source: source}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, d.errorf(&doc, "", "document is empty")
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, d.errorf(root, "", "top level must be a mapping of entities")
	}

	db := &Database{entities: make(map[string]*entity)}
	err := eachPair(root, func(key, val *yaml.Node) error {
		if key.Value == FrameworkEntity {
			return d.frameworks(db, val)
		}
		return d.molecule(db, key.Value, val)
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

type decoder struct {
	source string
}

func (d *decoder) errorf(n *yaml.Node, path, format string, args ...any) *DecodeError {
	return &DecodeError{Source: d.source, Path: path, Line: n.Line, Message: fmt.Sprintf(format, args...)}
}

func (d *decoder) frameworks(db *Database, n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return d.errorf(n, FrameworkEntity, "must be a mapping of variants")
	}
	return eachPair(n, func(key, val *yaml.Node) error {
		path := FrameworkEntity + "." + key.Value
		v, err := d.variant(FrameworkEntity, key.Value, path, val, nil)
		if err != nil {
			return err
		}
		if err := db.add(v); err != nil {
			return d.errorf(key, path, "%v", err)
		}
		return nil
	})
}

func (d *decoder) molecule(db *Database, name string, n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return d.errorf(n, name, "must be a mapping of variants")
	}
	var critical *CriticalConstants
	if cc := lookupKey(n, "critical_constants"); cc != nil {
		var err error
		if critical, err = d.critical(name+".critical_constants", cc); err != nil {
			return err
		}
	}

	added := 0
	err := eachPair(n, func(key, val *yaml.Node) error {
		if key.Value == "critical_constants" {
			return nil
		}
		path := name + "." + key.Value
		if critical == nil {
			return d.errorf(n, name, "critical_constants are required for molecule variants")
		}
		v, err := d.variant(name, key.Value, path, val, critical)
		if err != nil {
			return err
		}
		if err := db.add(v); err != nil {
			return d.errorf(key, path, "%v", err)
		}
		added++
		return nil
	})
	if err != nil {
		return err
	}
	if added == 0 {
		return d.errorf(n, name, "molecule has no variants")
	}
	return nil
}

func (d *decoder) critical(path string, n *yaml.Node) (*CriticalConstants, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, path, "must be a mapping with tc, pc and af")
	}
	cc := &CriticalConstants{}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"tc", &cc.Temperature},
		{"pc", &cc.Pressure},
		{"af", &cc.AcentricFactor},
	} {
		val := lookupKey(n, f.key)
		if val == nil || val.Kind != yaml.ScalarNode || val.Value == "" {
			return nil, d.errorf(n, path, "%s is required", f.key)
		}
		*f.dst = val.Value
	}
	return cc, nil
}

func (d *decoder) variant(entityName, name, path string, n *yaml.Node, critical *CriticalConstants) (*Variant, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, path, "variant must be a mapping")
	}
	v := &Variant{Entity: entityName, Name: name, Critical: critical}
	if desc := lookupKey(n, "description"); desc != nil {
		v.Description = desc.Value
	}

	atomTypes := lookupKey(n, "atom_types")
	if atomTypes == nil || atomTypes.Kind != yaml.MappingNode {
		return nil, d.errorf(n, path, "atom_types mapping is required")
	}
	molecule := entityName != FrameworkEntity
	err := eachPair(atomTypes, func(key, val *yaml.Node) error {
		at, err := d.atomType(key.Value, path+".atom_types."+key.Value, val, molecule)
		if err != nil {
			return err
		}
		v.AtomTypes = append(v.AtomTypes, at)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if molecule {
		positions := lookupKey(n, "atomic_positions")
		if positions == nil {
			return nil, d.errorf(n, path, "atomic_positions are required for molecule variants")
		}
		if v.Positions, err = d.positions(path+".atomic_positions", positions); err != nil {
			return nil, err
		}
	}
	// Other keys (references, notes) are carried by the database for humans
	// and ignored here.
	return v, nil
}

func (d *decoder) atomType(label, path string, n *yaml.Node, molecule bool) (AtomType, error) {
	at := AtomType{Label: label}

	// Framework atom types are usually a bare positional spec.
	if !molecule && n.Kind != yaml.MappingNode {
		ff, err := d.interaction(path, n)
		if err != nil {
			return at, err
		}
		at.ForceField = ff
		return at, nil
	}
	if n.Kind != yaml.MappingNode {
		return at, d.errorf(n, path, "molecule atom type must be a mapping with force_field and pseudo_atom")
	}

	ffNode := lookupKey(n, "force_field")
	if ffNode == nil {
		return at, d.errorf(n, path, "force_field is required")
	}
	ff, err := d.interaction(path+".force_field", ffNode)
	if err != nil {
		return at, err
	}
	at.ForceField = ff

	if mixNode := lookupKey(n, "force_field_mix"); mixNode != nil {
		mix, err := d.interaction(path+".force_field_mix", mixNode)
		if err != nil {
			return at, err
		}
		if mix.Kind() == KindDummySeparate {
			return at, d.errorf(mixNode, path+".force_field_mix", "dummy_separate cannot be used as a mixing override")
		}
		at.Mix = mix
	}
	if at.ForceField.Kind() == KindDummySeparate && at.Mix == nil {
		return at, d.errorf(n, path, "dummy_separate atom types need a force_field_mix entry")
	}

	if paNode := lookupKey(n, "pseudo_atom"); paNode != nil {
		tokens, err := d.scalars(path+".pseudo_atom", paNode)
		if err != nil {
			return at, err
		}
		at.PseudoAtom = tokens
	} else if molecule {
		return at, d.errorf(n, path, "pseudo_atom is required")
	}
	return at, nil
}

func (d *decoder) interaction(path string, n *yaml.Node) (Interaction, error) {
	var tokens []string
	switch n.Kind {
	case yaml.ScalarNode:
		// dummy_separate is written as a bare string.
		tokens = []string{n.Value}
	case yaml.SequenceNode:
		var err error
		if tokens, err = d.scalars(path, n); err != nil {
			return nil, err
		}
	default:
		return nil, d.errorf(n, path, "interaction must be a list [kind, params...]")
	}
	ia, err := ParseInteraction(tokens)
	if err != nil {
		return nil, d.errorf(n, path, "%v", err)
	}
	return ia, nil
}

func (d *decoder) positions(path string, n *yaml.Node) ([]Position, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, path, "must be a list of [label, x, y, z, ...]")
	}
	out := make([]Position, 0, len(n.Content))
	for i, item := range n.Content {
		item = resolve(item)
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		tokens, err := d.scalars(itemPath, item)
		if err != nil {
			return nil, err
		}
		if len(tokens) < 4 {
			return nil, d.errorf(item, itemPath, "expected label and three coordinates, got %d field(s)", len(tokens))
		}
		var xyz [3]float64
		for k := 0; k < 3; k++ {
			f, err := strconv.ParseFloat(strings.TrimSpace(tokens[k+1]), 64)
			if err != nil {
				return nil, d.errorf(item, itemPath, "coordinate %q is not a number", tokens[k+1])
			}
			xyz[k] = f
		}
		out = append(out, Position{
			Label:  tokens[0],
			Coord:  r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]},
			Fields: tokens[1:],
		})
	}
	return out, nil
}

// scalars flattens a sequence of scalars into their source text.
func (d *decoder) scalars(path string, n *yaml.Node) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, path, "must be a list")
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolve(item)
		if item.Kind != yaml.ScalarNode {
			return nil, d.errorf(item, path, "list entries must be scalars")
		}
		out = append(out, item.Value)
	}
	return out, nil
}

func eachPair(n *yaml.Node, fn func(key, val *yaml.Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i], resolve(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func lookupKey(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolve(n.Content[i+1])
		}
	}
	return nil
}

// resolve follows YAML aliases so anchored specs can be shared.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
