package dag

import (
	"cmp"
	"slices"
)

// CountCrossings sums [CountLayerCrossings] over every row r of orders and
// the row r+1 below it. Missing rows count as empty.
//
//	orders := map[int][]string{
//	    1: {"001", "002"},
//	    2: {"r_ratio_chase_1"},
//	}
//	crossings := dag.CountCrossings(g, orders)
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for row, upper := range orders {
		if lower, ok := orders[row+1]; ok {
			total += CountLayerCrossings(g, upper, lower)
		}
	}
	return total
}

// CountLayerCrossings counts crossing pairs among the edges from upper to
// lower. Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 and v1 is
// right of v2, so after sorting edges by (upper, lower) position the answer
// is the number of inversions in the lower positions.
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	type span struct{ from, to int }
	var spans []span
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if j, ok := lowerPos[child]; ok {
				spans = append(spans, span{i, j})
			}
		}
	}
	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to))
	})

	targets := make([]int, len(spans))
	for i, s := range spans {
		targets[i] = s.to
	}
	return inversions(targets, make([]int, len(targets)))
}

// inversions counts pairs i<j with a[i] > a[j] by merge sort, sorting a in
// place and using buf as scratch space of the same length.
func inversions(a, buf []int) int {
	if len(a) < 2 {
		return 0
	}
	mid := len(a) / 2
	n := inversions(a[:mid], buf[:mid]) + inversions(a[mid:], buf[mid:])

	i, j, k := 0, mid, 0
	for i < mid && j < len(a) {
		if a[i] <= a[j] {
			buf[k] = a[i]
			i++
		} else {
			buf[k] = a[j]
			n += mid - i
			j++
		}
		k++
	}
	k += copy(buf[k:], a[i:mid])
	copy(buf[k:], a[j:])
	copy(a, buf)
	return n
}
