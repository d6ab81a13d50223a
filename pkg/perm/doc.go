// Package perm enumerates the symmetry orbits the canonicalizer minimizes
// over.
//
// A statement's symmetries are built from three moves: permuting its
// argument groups, reversing every group at once, and applying an
// arbitrary set of independent two-way flips. [Generate] enumerates
// permutations with Heap's algorithm, [Flips] enumerates flip masks and
// [Apply] rearranges a slice by a permutation.
//
// Orbits are small (at most 4! * 2 * 2 for the predicates in use), so every
// function here materializes its full result.
package perm
