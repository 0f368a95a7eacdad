// Package render produces the RASPA force-field input documents.
//
// Each renderer is a pure function of a registry and a configuration and
// returns a Document whose bytes are stable for identical inputs. RASPA
// reads these files positionally, so header comments, counts and field
// order are fixed text.
//
// MixingRules reports whether any molecule atom type used a force_field_mix
// override. Overrides needs that flag: an override in the mixing-rules file
// means molecule-molecule interactions must be written out explicitly.
//
// With separate_interactions set, the zero-potential filter in MixingRules
// applies to plain force_field specs only. A force_field_mix override is
// always written, so a Xe_probe-style dummy keeps its framework-facing
// Lennard-Jones line. aiida-raspa's ff_builder filters the override too and
// drops that line, leaving the probe without framework interactions.
package render
