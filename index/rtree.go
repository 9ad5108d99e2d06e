// seehuhn.de/go/isovist - visibility analysis for planar scenes
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package index

import (
	"cmp"
	"math"
	"slices"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// entry is a rectangle in dual space, tagged with the position of its
// sector in the loaded slice.
type entry struct {
	rect r2.Rect
	id   int
}

// node is a node of a bulk loaded rectangle tree. Leaves hold entries,
// inner nodes hold children.
type node struct {
	rect     r2.Rect
	children []*node
	entries  []entry
}

// rtree is a bounding volume hierarchy over dual rectangles, built once
// by sort-tile-recursive packing.
type rtree struct {
	root *node
}

// buildTree packs the entries into a tree with the given fan-out.
func buildTree(entries []entry, branching int) *rtree {
	if len(entries) == 0 {
		return &rtree{}
	}
	branching = max(branching, 2)

	leaves := strPack(entries, func(e entry) r2.Rect { return e.rect }, branching)
	level := make([]*node, len(leaves))
	for i, group := range leaves {
		level[i] = &node{rect: unionOf(group, func(e entry) r2.Rect { return e.rect }), entries: group}
	}
	for len(level) > 1 {
		groups := strPack(level, func(n *node) r2.Rect { return n.rect }, branching)
		next := make([]*node, len(groups))
		for i, group := range groups {
			next[i] = &node{rect: unionOf(group, func(n *node) r2.Rect { return n.rect }), children: group}
		}
		level = next
	}
	return &rtree{root: level[0]}
}

// search visits the ids of all entries whose rectangle passes the hit test.
// Children are only descended into if their bounding rectangle passes.
// The return value counts the visited nodes and the tested entries.
func (t *rtree) search(hit func(r2.Rect) bool, visit func(id int)) int {
	if t.root == nil {
		return 0
	}
	accesses := 0
	stack := []*node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		accesses++
		if !hit(n.rect) {
			continue
		}
		for _, e := range n.entries {
			accesses++
			if hit(e.rect) {
				visit(e.id)
			}
		}
		stack = append(stack, n.children...)
	}
	return accesses
}

// depth returns the number of levels of the tree.
func (t *rtree) depth() int {
	d := 0
	for n := t.root; n != nil; d++ {
		if len(n.children) == 0 {
			return d + 1
		}
		n = n.children[0]
	}
	return d
}

// strPack groups items into runs of at most b: the items are sorted into
// vertical slabs by the x coordinate of their centre, and each slab is
// sorted by y and cut into runs.
func strPack[T any](items []T, rect func(T) r2.Rect, b int) [][]T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(p, q T) int {
		return cmp.Compare(centerKey(rect(p).X), centerKey(rect(q).X))
	})

	groups := (len(sorted) + b - 1) / b
	slabs := int(math.Ceil(math.Sqrt(float64(groups))))
	slabSize := slabs * b

	var res [][]T
	for start := 0; start < len(sorted); start += slabSize {
		slab := sorted[start:min(start+slabSize, len(sorted))]
		slices.SortStableFunc(slab, func(p, q T) int {
			return cmp.Compare(centerKey(rect(p).Y), centerKey(rect(q).Y))
		})
		for i := 0; i < len(slab); i += b {
			res = append(res, slab[i:min(i+b, len(slab))])
		}
	}
	return res
}

// centerKey returns a finite sort key for a possibly unbounded interval.
func centerKey(iv r1.Interval) float64 {
	loInf, hiInf := math.IsInf(iv.Lo, 0), math.IsInf(iv.Hi, 0)
	switch {
	case !loInf && !hiInf:
		return (iv.Lo + iv.Hi) / 2
	case !loInf:
		return iv.Lo
	case !hiInf:
		return iv.Hi
	default:
		return 0
	}
}

func unionOf[T any](items []T, rect func(T) r2.Rect) r2.Rect {
	r := r2.EmptyRect()
	for _, it := range items {
		r = r.Union(rect(it))
	}
	return r
}
