// Package forcefield provides the read-only force-field database used to
// assemble RASPA input files.
//
// A database maps an entity name to its variants. The reserved entity
// "framework" holds framework force fields; every other entity is a molecule.
// Each Variant carries its atom types (in database order), and molecules also
// carry critical constants and rigid atomic positions.
//
// # Decoding
//
// Databases are decoded once from a YAML document (Decode, Load, Default).
// Positional interaction specs such as
//
//	[lennard-jones, 27.0, 2.80]
//
// are parsed into typed Interaction values at load time and checked for
// arity, so malformed entries fail with a DecodeError naming the YAML line
// rather than surfacing later during rendering.
//
// Every value that ends up in a rendered file keeps the exact token text
// written in the database. Rendering never reformats database numbers.
//
// # Lifetime
//
// A Database is never mutated after decoding and is safe for concurrent use.
// There is no package-level instance: callers construct one and pass it
// (usually as a Registry) to the builder.
package forcefield
