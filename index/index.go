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

// Package index answers point-in-sector queries over large sets of
// angular sectors.
//
// The dual indices map each sector to rectangles in a line parameter
// space, where every line through the sector's centre that runs along one
// of its rays becomes a point.  The lines through a query point form a
// curve in the same space, and a sector can only contain the point if the
// curve passes through one of its rectangles.  The rectangles are stored
// in a bulk loaded rectangle tree.
//
// All indices return supersets: Search may report sectors which do not
// contain the point, but never misses one that does.  Lookup removes the
// false positives.
package index

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r2"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
	"seehuhn.de/go/isovist/logging"
	"seehuhn.de/go/isovist/sector"
)

// ErrNilSector is returned by Load if the input contains a nil sector.
var ErrNilSector = errors.New("index: nil sector")

// DefaultBranching is the default fan-out of the rectangle trees.
const DefaultBranching = 16

// SectorIndex is implemented by all point-in-sector indices in this package.
type SectorIndex interface {
	// Load replaces the contents of the index.  Search results refer to
	// positions in the given slice.
	Load(sectors []*sector.Sector) error

	// Search returns the positions of all sectors which may contain p.
	Search(p vec.Vec2) Result
}

// Result is the answer to a single query.
type Result struct {
	// Hits lists the candidate sectors, in increasing order.
	Hits []int

	// AccessCount is the number of nodes and entries touched.
	AccessCount int
}

// Lookup searches idx and keeps only the sectors which actually contain p.
func Lookup(idx SectorIndex, sectors []*sector.Sector, p vec.Vec2) []int {
	res := idx.Search(p)
	hits := res.Hits[:0:0]
	for _, i := range res.Hits {
		if sectors[i].IntersectsPoint(p) {
			hits = append(hits, i)
		}
	}
	return hits
}

// Kernel selects the line parameterisation of a dual index.
type Kernel int

const (
	// Euclidean describes undirected lines by slope and intercept.
	Euclidean Kernel = iota

	// Polar describes directed lines by direction angle and signed
	// distance from the origin.
	Polar
)

func (k Kernel) String() string {
	switch k {
	case Euclidean:
		return "euclidean"
	case Polar:
		return "polar"
	}
	return fmt.Sprintf("Kernel(%d)", int(k))
}

// Stats describes the contents of a loaded index.
type Stats struct {
	Sectors    int
	Horizontal int // rectangles in the primary tree
	Vertical   int // rectangles in the exchanged-axes tree
	Unbounded  int // rectangles with an infinite side
	Skipped    int // rectangles dropped because of NaN coordinates
	Depth      int
}

// Dual is a point-in-sector index built on a dual transform.
type Dual struct {
	Kernel Kernel

	// Split enables a second tree with x and y exchanged, so that steep
	// lines get bounded rectangles.  Only used by the Euclidean kernel.
	Split bool

	// Branching is the fan-out of the rectangle trees.
	Branching int

	Logger logging.Logger

	origin vec.Vec2
	trees  [2]*rtree
	stats  Stats
}

// New returns an empty dual index using the given kernel.
func New(k Kernel) *Dual {
	return &Dual{Kernel: k, Branching: DefaultBranching}
}

// Load implements the [SectorIndex] interface.
//
// The dual coordinates are taken relative to the centroid of the sector
// centres.
func (d *Dual) Load(sectors []*sector.Sector) error {
	centers := make([]vec.Vec2, len(sectors))
	for i, s := range sectors {
		if s == nil {
			return fmt.Errorf("sector %d: %w", i, ErrNilSector)
		}
		centers[i] = s.Center()
	}
	d.origin = vec.Vec2{}
	if len(centers) > 0 {
		d.origin = kernel.Centroid(centers)
	}
	d.stats = Stats{Sectors: len(sectors)}

	var lists [2][]entry
	for i, s := range sectors {
		c := s.Center().Sub(d.origin)
		for t, rects := range d.rectsFor(c, s) {
			for _, r := range rects {
				if !isValidRect(r) {
					d.stats.Skipped++
					continue
				}
				if isUnbounded(r) {
					d.stats.Unbounded++
				}
				lists[t] = append(lists[t], entry{rect: r, id: i})
			}
		}
	}

	branching := d.Branching
	if branching <= 0 {
		branching = DefaultBranching
	}
	for t := range d.trees {
		d.trees[t] = buildTree(lists[t], branching)
	}
	d.stats.Horizontal = len(lists[0])
	d.stats.Vertical = len(lists[1])
	d.stats.Depth = max(d.trees[0].depth(), d.trees[1].depth())

	log := logging.OrNoop(d.Logger)
	log.Debug("index loaded",
		logging.String("kernel", d.Kernel.String()),
		logging.Bool("split", d.Split),
		logging.Int("sectors", d.stats.Sectors),
		logging.Int("horizontal", d.stats.Horizontal),
		logging.Int("vertical", d.stats.Vertical),
		logging.Int("unbounded", d.stats.Unbounded),
		logging.Int("skipped", d.stats.Skipped),
		logging.Int("depth", d.stats.Depth))
	if d.stats.Skipped > 0 {
		log.Warn("dual rectangles skipped", logging.Int("count", d.stats.Skipped))
	}
	return nil
}

// rectsFor returns the dual rectangles of s for the primary and the
// exchanged-axes tree.
func (d *Dual) rectsFor(c vec.Vec2, s *sector.Sector) [2][]r2.Rect {
	if d.Kernel == Polar {
		return [2][]r2.Rect{polarRects(c, s.Alpha(), s.Omega())}
	}

	lo, hi := lineDirections(s.Alpha(), s.Sweep())
	horiz := slopeRects(c, lo, hi, false)
	if !d.Split {
		return [2][]r2.Rect{horiz}
	}

	vert := slopeRects(c, lo, hi, true)
	dh, dv := diagonal(horiz), diagonal(vert)
	switch {
	case dh <= dv && !math.IsInf(dh, 0):
		return [2][]r2.Rect{horiz}
	case !math.IsInf(dv, 0):
		return [2][]r2.Rect{nil, vert}
	}

	// Both orientations are unbounded.  Near-horizontal directions go to
	// the primary tree, near-vertical ones to the other.
	var res [2][]r2.Rect
	for _, piece := range splitAt(lo, hi, 45, 90) {
		mid := kernel.NormalizeDeg((piece[0]+piece[1])/2 + 45)
		t := 0
		if math.Mod(mid, 180) >= 90 {
			t = 1
		}
		res[t] = append(res[t], slopeRects(c, piece[0], piece[1], t == 1)...)
	}
	return res
}

// Search implements the [SectorIndex] interface.
func (d *Dual) Search(p vec.Vec2) Result {
	q := p.Sub(d.origin)

	var res Result
	visit := func(id int) { res.Hits = append(res.Hits, id) }
	for t, tree := range d.trees {
		if tree == nil {
			continue
		}
		var hit func(r2.Rect) bool
		switch {
		case d.Kernel == Polar:
			hit = func(r r2.Rect) bool { return polarHit(q, r) }
		case t == 1:
			qs := swap(q)
			hit = func(r r2.Rect) bool { return slopeHit(qs, r) }
		default:
			hit = func(r r2.Rect) bool { return slopeHit(q, r) }
		}
		res.AccessCount += tree.search(hit, visit)
	}

	slices.Sort(res.Hits)
	res.Hits = slices.Compact(res.Hits)
	return res
}

// Stats returns information about the most recent Load.
func (d *Dual) Stats() Stats {
	return d.stats
}

// Origin returns the reference point of the dual coordinates.
func (d *Dual) Origin() vec.Vec2 {
	return d.origin
}

func isUnbounded(r r2.Rect) bool {
	for _, v := range [...]float64{r.X.Lo, r.X.Hi, r.Y.Lo, r.Y.Hi} {
		if math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
