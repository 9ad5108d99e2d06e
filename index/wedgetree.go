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
	"fmt"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/logging"
	"seehuhn.de/go/isovist/sector"
)

// Default limits for [WedgeTree].
const (
	DefaultMaxLeafSize = 8
	DefaultMaxDepth    = 32
)

// WedgeTree is a binary space partition whose splitting regions are the
// wedges of the indexed sectors.  A sector is stored on every side of a
// split it may reach, so no sector is lost at a split.
type WedgeTree struct {
	MaxLeafSize int
	MaxDepth    int

	// CandidateLimit bounds the number of wedges tried at each node.
	// Zero means all.
	CandidateLimit int

	Logger logging.Logger

	nodes []wedgeNode
	stats Stats
}

// wedgeNode is a node of a WedgeTree.  Children are referenced by their
// position in WedgeTree.nodes.
type wedgeNode struct {
	wedge   sector.Wedge
	inside  int
	outside int
	members []int // only for leaves
	leaf    bool
}

// NewWedgeTree returns an empty tree with the default limits.
func NewWedgeTree() *WedgeTree {
	return &WedgeTree{MaxLeafSize: DefaultMaxLeafSize, MaxDepth: DefaultMaxDepth}
}

// Load implements the [SectorIndex] interface.
func (t *WedgeTree) Load(sectors []*sector.Sector) error {
	members := make([]int, len(sectors))
	for i, s := range sectors {
		if s == nil {
			return fmt.Errorf("sector %d: %w", i, ErrNilSector)
		}
		members[i] = i
	}

	leafSize := t.MaxLeafSize
	if leafSize <= 0 {
		leafSize = DefaultMaxLeafSize
	}
	maxDepth := t.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	type task struct {
		node    int
		members []int
		depth   int
	}
	t.nodes = []wedgeNode{{}}
	t.stats = Stats{Sectors: len(sectors)}
	queue := []task{{node: 0, members: members, depth: 1}}
	for len(queue) > 0 {
		job := queue[0]
		queue = queue[1:]
		t.stats.Depth = max(t.stats.Depth, job.depth)

		var split sector.Wedge
		var in, out []int
		ok := false
		if len(job.members) > leafSize && job.depth < maxDepth {
			split, in, out, ok = t.bestSplit(sectors, job.members)
		}
		if !ok {
			t.nodes[job.node] = wedgeNode{leaf: true, members: job.members}
			continue
		}

		inside, outside := len(t.nodes), len(t.nodes)+1
		t.nodes = append(t.nodes, wedgeNode{}, wedgeNode{})
		t.nodes[job.node] = wedgeNode{wedge: split, inside: inside, outside: outside}
		queue = append(queue,
			task{node: inside, members: in, depth: job.depth + 1},
			task{node: outside, members: out, depth: job.depth + 1})
	}

	logging.OrNoop(t.Logger).Debug("wedge tree loaded",
		logging.Int("sectors", len(sectors)),
		logging.Int("nodes", len(t.nodes)),
		logging.Int("depth", t.stats.Depth))
	return nil
}

// bestSplit tries the wedges of the members and returns the one which
// divides the members most evenly.  Splits which leave one side with all
// members are rejected.
func (t *WedgeTree) bestSplit(sectors []*sector.Sector, members []int) (sector.Wedge, []int, []int, bool) {
	candidates := members
	if t.CandidateLimit > 0 && len(members) > t.CandidateLimit {
		candidates = make([]int, t.CandidateLimit)
		for i := range candidates {
			candidates[i] = members[i*len(members)/t.CandidateLimit]
		}
	}

	var best sector.Wedge
	var bestIn, bestOut []int
	bestScore := -1
	for _, c := range candidates {
		w := sector.WedgeOf(sectors[c])
		comp := w.Complement()
		var in, out []int
		for _, m := range members {
			if w.IsFullyAbove(sectors[m]) {
				in = append(in, m)
			}
			if comp.IsAboveComplementaryWedge(sectors[m]) {
				out = append(out, m)
			}
		}
		if len(in) == len(members) || len(out) == len(members) {
			continue
		}
		score := abs(len(in) - len(out))
		if bestScore < 0 || score < bestScore {
			best, bestIn, bestOut, bestScore = w, in, out, score
		}
	}
	return best, bestIn, bestOut, bestScore >= 0
}

// Search implements the [SectorIndex] interface.  All members of the leaf
// containing p are reported.
func (t *WedgeTree) Search(p vec.Vec2) Result {
	var res Result
	if len(t.nodes) == 0 {
		return res
	}
	n := &t.nodes[0]
	for !n.leaf {
		res.AccessCount++
		if n.wedge.Contains(p) {
			n = &t.nodes[n.inside]
		} else {
			n = &t.nodes[n.outside]
		}
	}
	res.AccessCount += 1 + len(n.members)
	res.Hits = append(res.Hits, n.members...)
	return res
}

// Stats returns information about the most recent Load.
func (t *WedgeTree) Stats() Stats {
	return t.stats
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
