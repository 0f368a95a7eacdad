// Package mixing combines single-site interactions into pairwise cross
// interactions.
//
// Mix enumerates every unordered pair of sites, self-pairs included, in the
// order i = 0..N-1, j = i..N-1. That order is part of the rendered output
// and must not change.
//
// Combination is driven by a table keyed by the ordered pair of interaction
// kinds. A zero-potential on either side wins over every other kind. Pairs
// with no table entry fail with *UnsupportedMixingError.
package mixing
