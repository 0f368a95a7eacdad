// Package builder assembles the complete RASPA force-field input set from a
// configuration and a force-field registry.
//
// A build runs synchronously in a fixed order:
//
//  1. validate the configuration
//  2. resolve the framework variant (if any) and every molecule variant
//  3. force_field_mixing_rules.def, noting whether an override was written
//  4. force_field.def
//  5. pseudo_atoms.def
//  6. one <molecule>.def per configured molecule, in configuration order
//
// Any failure aborts the build; no partial artifact set is returned.
package builder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/ffbuilder/internal/artifact"
	"github.com/roach88/ffbuilder/internal/config"
	"github.com/roach88/ffbuilder/internal/digest"
	"github.com/roach88/ffbuilder/internal/forcefield"
	"github.com/roach88/ffbuilder/internal/metrics"
	"github.com/roach88/ffbuilder/internal/mixing"
	"github.com/roach88/ffbuilder/internal/render"
)

// Artifact keys.
const (
	KeyMixingRules = "ff_mixing_def"
	KeyOverrides   = "ff_def"
	KeyPseudoAtoms = "pseudo_atoms_def"
)

// MoleculeKey returns the artifact key of a molecule's geometry document.
func MoleculeKey(name string) string {
	return "molecule_" + name + "_def"
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug tracing of a build.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics records build outcomes, rendered documents and mixed pairs.
func WithMetrics(r *metrics.Recorder) Option {
	return func(b *Builder) {
		b.metrics = r
	}
}

// Builder turns configurations into artifact sets. It holds only the
// read-only registry, so one Builder may serve concurrent builds.
type Builder struct {
	registry forcefield.Registry
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// New creates a builder over registry.
func New(registry forcefield.Registry, opts ...Option) *Builder {
	b := &Builder{
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the artifact set for cfg.
//
// Errors are *config.ConfigurationError, *forcefield.NotFoundError or
// *mixing.UnsupportedMixingError (possibly wrapped); inspect with errors.As.
func (b *Builder) Build(cfg *config.Config) (*artifact.Set, error) {
	start := time.Now()
	set, err := b.build(cfg)
	b.metrics.ObserveBuild(Outcome(err), time.Since(start))
	if err != nil {
		b.logger.Debug("build failed", "error", err)
		return nil, err
	}
	b.logger.Debug("build finished", "artifacts", set.Len(), "elapsed", time.Since(start))
	return set, nil
}

func (b *Builder) build(cfg *config.Config) (*artifact.Set, error) {
	if cfg == nil {
		return nil, &config.ConfigurationError{Message: "configuration is nil"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := b.resolve(cfg); err != nil {
		return nil, err
	}

	var items []artifact.Artifact
	add := func(key string, doc render.Document) {
		items = append(items, artifact.Artifact{
			Key:      key,
			FileName: doc.Name,
			Content:  doc.Content,
			Digest:   digest.Artifact(doc.Name, doc.Content),
		})
		b.metrics.DocumentRendered(doc.Name)
		b.logger.Debug("document rendered", "document", doc.Name, "bytes", len(doc.Content))
	}

	mixDoc, overrideUsed, err := render.MixingRules(b.registry, cfg)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", render.MixingRulesFile, err)
	}
	add(KeyMixingRules, mixDoc)
	b.logger.Debug("mixing rules rendered", "override_used", overrideUsed, "separate", cfg.SeparateInteractions)

	var pairs []mixing.Pair
	if render.NeedsPairTable(cfg, overrideUsed) {
		if pairs, err = render.CrossPairs(b.registry, cfg); err != nil {
			return nil, fmt.Errorf("render %s: %w", render.OverridesFile, err)
		}
		b.metrics.AddMixingPairs(len(pairs))
		b.logger.Debug("molecule pairs mixed", "pairs", len(pairs), "rule", cfg.MixingRule.String())
	}
	ovDoc := render.OverridesTable(pairs, render.NeedsPairTable(cfg, overrideUsed))
	add(KeyOverrides, ovDoc)

	paDoc, err := render.PseudoAtoms(b.registry, cfg)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", render.PseudoAtomsFile, err)
	}
	add(KeyPseudoAtoms, paDoc)

	for _, m := range cfg.Molecules {
		doc, err := render.Molecule(b.registry, cfg, m.Name)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", render.MoleculeFile(m.Name), err)
		}
		add(MoleculeKey(m.Name), doc)
	}

	return artifact.NewSet(items...)
}

// resolve looks up every referenced variant before anything is rendered.
func (b *Builder) resolve(cfg *config.Config) error {
	if cfg.Framework != "" {
		fw, err := b.registry.Lookup(forcefield.FrameworkEntity, cfg.Framework)
		if err != nil {
			return err
		}
		b.logger.Debug("framework resolved", "variant", fw.Name, "atom_types", len(fw.AtomTypes))
	}
	for _, m := range cfg.Molecules {
		v, err := b.registry.Lookup(m.Name, m.Variant)
		if err != nil {
			return err
		}
		b.logger.Debug("molecule resolved",
			"molecule", m.Name,
			"variant", m.Variant,
			"atoms", len(v.Positions),
			"rigid_bonds", v.RigidBondLengths(),
		)
	}
	return nil
}

// Outcome classifies a build error for metrics and history.
func Outcome(err error) string {
	var cfgErr *config.ConfigurationError
	var nfErr *forcefield.NotFoundError
	var mixErr *mixing.UnsupportedMixingError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &cfgErr):
		return metrics.OutcomeConfigurationError
	case errors.As(err, &nfErr):
		return metrics.OutcomeNotFound
	case errors.As(err, &mixErr):
		return metrics.OutcomeUnsupportedMixing
	default:
		return metrics.OutcomeError
	}
}
