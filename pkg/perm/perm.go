package perm

import "slices"

// Seq returns the identity permutation [0, 1, ..., n-1].
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!, the size of the full permutation space of n groups.
// For n <= 1, Factorial returns 1.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Generate returns permutations of [0, 1, ..., n-1] using Heap's algorithm.
//
// If limit > 0, Generate returns at most limit permutations.
// If limit <= 0, Generate returns all n! permutations.
//
// Each returned slice is a separate allocation. For n = 0 the result is one
// empty permutation. The order is Heap's order, not lexicographic; callers
// that need a canonical choice minimize over the whole result.
func Generate(n, limit int) [][]int {
	if n <= 0 {
		return [][]int{{}}
	}
	if n == 1 {
		return [][]int{{0}}
	}

	p := Seq(n)
	state := make([]int, n)

	capacity := limit
	if capacity <= 0 || n <= 12 {
		capacity = Factorial(min(n, 12))
	}
	result := make([][]int, 0, capacity)
	result = append(result, slices.Clone(p))

	for i := 0; i < n && (limit <= 0 || len(result) < limit); {
		if state[i] < i {
			if i&1 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[state[i]], p[i] = p[i], p[state[i]]
			}
			result = append(result, slices.Clone(p))
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
	return result
}

// Flips returns all 2^n masks of n independent two-way choices, starting
// with the all-false mask. n must be small; it panics for n > 16.
func Flips(n int) [][]bool {
	if n > 16 {
		panic("perm: too many flips")
	}
	n = max(n, 0)
	result := make([][]bool, 0, 1<<n)
	for m := 0; m < 1<<n; m++ {
		mask := make([]bool, n)
		for i := range mask {
			mask[i] = m&(1<<i) != 0
		}
		result = append(result, mask)
	}
	return result
}

// Apply returns the groups of items rearranged by p: group i of the result
// is group p[i] of items. items is split into len(p) groups of equal size.
// It panics if len(items) is not a multiple of len(p).
func Apply[T any](items []T, p []int) []T {
	if len(p) == 0 {
		return nil
	}
	if len(items)%len(p) != 0 {
		panic("perm: items do not split into equal groups")
	}
	size := len(items) / len(p)
	out := make([]T, 0, len(items))
	for _, g := range p {
		out = append(out, items[g*size:(g+1)*size]...)
	}
	return out
}

// Orbit returns every arrangement of items obtained by permuting its
// len(groups) groups, including the identity, in Generate order.
func Orbit[T any](items []T, groups int) [][]T {
	perms := Generate(groups, -1)
	out := make([][]T, len(perms))
	for i, p := range perms {
		out[i] = Apply(items, p)
	}
	return out
}
