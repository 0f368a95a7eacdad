package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/encoding/json"
	"cuelang.org/go/encoding/yaml"

	"github.com/roach88/ffbuilder/internal/mixing"
)

//go:embed schema.cue
var schemaSource string

// Schema returns the CUE source of the #Config schema.
func Schema() string {
	return schemaSource
}

// Load reads a configuration file. The format follows the extension:
// .yaml/.yml, .json or .cue.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes configuration bytes. name supplies the format (by
// extension) and the file name used in positions.
func Parse(name string, data []byte) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile configuration schema: %w", err)
	}

	v, err := compile(ctx, name, data)
	if err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v = schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	return decode(v)
}

func compile(ctx *cue.Context, name string, data []byte) (cue.Value, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		f, err := yaml.Extract(name, data)
		if err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return ctx.BuildFile(f), nil
	case ".json":
		expr, err := json.Extract(name, data)
		if err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return ctx.BuildExpr(expr), nil
	case ".cue":
		return ctx.CompileBytes(data, cue.Filename(name)), nil
	default:
		return cue.Value{}, &ConfigurationError{
			Field:   "file",
			Message: fmt.Sprintf("unsupported configuration format %q (want .yaml, .yml, .json or .cue)", ext),
		}
	}
}

func decode(v cue.Value) (*Config, error) {
	cfg := &Config{}

	if fw := v.LookupPath(cue.ParsePath("ff_framework")); fw.Exists() {
		s, err := fw.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		cfg.Framework = s
	}

	molecules := v.LookupPath(cue.ParsePath("ff_molecules"))
	iter, err := molecules.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		variant, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		cfg.Molecules = append(cfg.Molecules, MoleculeChoice{Name: iter.Label(), Variant: variant})
	}
	if len(cfg.Molecules) == 0 {
		return nil, &ConfigurationError{Field: "ff_molecules", Message: "at least one molecule is required", Pos: molecules.Pos()}
	}

	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"shifted", &cfg.Shifted},
		{"tail_corrections", &cfg.TailCorrections},
		{"separate_interactions", &cfg.SeparateInteractions},
	} {
		b, err := v.LookupPath(cue.ParsePath(f.name)).Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		*f.dst = b
	}

	ruleVal := v.LookupPath(cue.ParsePath("mixing_rule"))
	ruleText, err := ruleVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if cfg.MixingRule, err = mixing.ParseRule(ruleText); err != nil {
		return nil, &ConfigurationError{Field: "mixing_rule", Message: err.Error(), Pos: ruleVal.Pos()}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ConfigurationError{Message: err.Error()}
	}

	first := errs[0]
	field := strings.Join(first.Path(), ".")
	if field == "" {
		field = "config"
	}
	format, args := first.Msg()
	cerr := &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
	if positions := errors.Positions(first); len(positions) > 0 {
		cerr.Pos = positions[0]
	}
	return cerr
}
