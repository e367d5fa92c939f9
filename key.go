package lockfree

import "golang.org/x/exp/constraints"

// greaterOrdered builds the strict greater-than comparator for any key
// type with well-defined built-in ordering (the "fundamental type"
// branch of the original template: numeric types and strings). The
// sentinel extrema are not derived from the type; New takes them from
// the caller.
func greaterOrdered[K constraints.Ordered](a, b K) bool {
	return a > b
}
