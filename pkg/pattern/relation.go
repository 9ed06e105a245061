// SPDX-License-Identifier: MPL-2.0

package pattern

const (
	// Unrelated means neither pattern specializes the other.
	Unrelated Relation = iota
	// ChildOf means the first pattern is a strict specialization of the second.
	ChildOf
	// ParentOf means the second pattern is a strict specialization of the first.
	ParentOf
)

// Relation classifies an ordered pair of patterns.
type Relation int

// String returns a human-readable relation name.
func (r Relation) String() string {
	switch r {
	case ChildOf:
		return "child of"
	case ParentOf:
		return "parent of"
	default:
		return "unrelated"
	}
}

// Classify runs IsSubset in both directions. A pair where both directions
// claim specialization is reported as Unrelated, so the result is always
// antisymmetric: Classify(a, b) == ChildOf iff Classify(b, a) == ParentOf.
func Classify(a, b string) Relation {
	down := IsSubset(a, b)
	up := IsSubset(b, a)
	switch {
	case down && !up:
		return ChildOf
	case up && !down:
		return ParentOf
	default:
		return Unrelated
	}
}
