package render

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/raymyers/ralph-step/pkg/ast"
)

// Range is an inclusive span of indices into a fragment or token list
type Range struct {
	Start int
	End   int
}

// Len returns the number of items in the range.
func (r Range) Len() int { return r.End - r.Start + 1 }

func nodeSet(nodes []ast.Node) mapset.Set {
	s := mapset.NewSet()
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// FindRange locates the fragments that render target.
//
// Identifiers are not used to find the anchor, since one identifier node may
// be printed at several places; the first fragment produced by any other
// node of target's subtree is. From there the range grows in both directions
// over fragments produced by any node of the subtree. A bare identifier
// target anchors on itself.
func FindRange(frags []Fragment, target ast.Node) (Range, bool) {
	return FindRangeWithin(frags, target, Range{Start: 0, End: len(frags) - 1})
}

// FindRangeWithin is FindRange restricted to the fragments in within.
func FindRangeWithin(frags []Fragment, target ast.Node, within Range) (Range, bool) {
	if target == nil || len(frags) == 0 {
		return Range{}, false
	}
	if within.Start < 0 {
		within.Start = 0
	}
	if within.End >= len(frags) {
		within.End = len(frags) - 1
	}

	subtree := ast.Flatten(target)
	all := nodeSet(subtree)
	anchors := mapset.NewSet()
	for _, n := range subtree {
		if !ast.IsIdentifier(n) {
			anchors.Add(n)
		}
	}
	if anchors.Cardinality() == 0 {
		anchors.Add(target)
	}

	middle := -1
	for i := within.Start; i <= within.End; i++ {
		if anchors.Contains(frags[i].Node) {
			middle = i
			break
		}
	}
	if middle < 0 {
		return Range{}, false
	}

	start, end := middle, middle
	for start > within.Start && all.Contains(frags[start-1].Node) {
		start--
	}
	for end < within.End && all.Contains(frags[end+1].Node) {
		end++
	}
	return Range{Start: start, End: end}, true
}

// TransformRange maps r, a range over items, onto the list transform
// produces from items. transform must work item by item, so that the
// transform of a prefix is a prefix of the transform.
func TransformRange[T, U any](r Range, items []T, transform func([]T) []U) Range {
	start := len(transform(items[:r.Start]))
	n := len(transform(items[r.Start : r.Start+r.Len()]))
	return Range{Start: start, End: start + n - 1}
}
