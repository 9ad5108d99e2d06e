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

package isovist

import (
	"cmp"
	"math"
	"slices"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
	"seehuhn.de/go/isovist/logging"
	"seehuhn.de/go/isovist/sector"
)

// Prism is a vertical extrusion of a footprint between two heights,
// for example a building.
type Prism struct {
	Footprint Polygon
	Base, Top float64
}

// Quad is a vertical wall. The corners are bottom start, bottom end, top
// end and top start.
type Quad [4]r3.Vector

// Quads returns the walls of the prism, one per footprint edge.
func (p Prism) Quads() []Quad {
	edges := p.Footprint.Edges()
	res := make([]Quad, len(edges))
	for i, e := range edges {
		res[i] = Quad{
			{X: e.A.X, Y: e.A.Y, Z: p.Base},
			{X: e.B.X, Y: e.B.Y, Z: p.Base},
			{X: e.B.X, Y: e.B.Y, Z: p.Top},
			{X: e.A.X, Y: e.A.Y, Z: p.Top},
		}
	}
	return res
}

// Foot returns the ground edge of the wall.
func (q Quad) Foot() kernel.Segment {
	return kernel.Segment{
		A: vec.Vec2{X: q[0].X, Y: q[0].Y},
		B: vec.Vec2{X: q[1].X, Y: q[1].Y},
	}
}

// Engine3D computes isovists for an observer with height among prism
// shaped obstacles. Walls are projected to extents in (theta, phi) space,
// where theta is the azimuth relative to the start of the field of view
// and phi the elevation angle, both in degrees.
//
// Clipping of partially visible walls is not implemented; the result only
// holds the fully blocking walls and Result3D.PartialClipped is false.
type Engine3D struct {
	// FOV is the field of view of the observer. It must be a 3D sector.
	FOV *sector.Sector

	// Obstacles are the prisms in the scene.
	Obstacles []Prism

	// RejectFactor has the same meaning as for [Engine].
	RejectFactor float64

	// Logger receives diagnostic output. Nil disables logging.
	Logger logging.Logger
}

// NewEngine3D creates a 3D engine with default settings.
func NewEngine3D(fov *sector.Sector, obstacles ...Prism) *Engine3D {
	return &Engine3D{
		FOV:          fov,
		Obstacles:    obstacles,
		RejectFactor: defaultRejectFactor,
	}
}

// Result3D is the outcome of a 3D isovist computation.
type Result3D struct {
	// Quads are the candidate walls inside the field of view.
	Quads []Quad

	// Extents[i] is the (theta, phi) extent of Quads[i]. A wall which
	// crosses the directions outside a field of view wider than 180 degrees
	// has two parts, one at each end of the theta range.
	Extents [][]r2.Rect

	// Blocking lists the indices of walls whose extent overlaps no extent
	// of a nearer wall.
	Blocking []int

	// Blocked holds the merged extents of the blocking walls.
	Blocked []r2.Rect

	// PartialClipped reports whether partially visible walls were clipped.
	PartialClipped bool
}

// Isovist computes the 3D isovist.
func (e *Engine3D) Isovist() (*Result3D, error) {
	if e.FOV == nil {
		return nil, ErrNoFieldOfView
	}
	if !e.FOV.Is3D() {
		return nil, ErrNot3D
	}
	log := logging.OrNoop(e.Logger)

	o := e.FOV.Center()
	extent := e.FOV.Geometry().Extent
	factor := e.RejectFactor
	if !(factor > 0) {
		factor = defaultRejectFactor
	}
	reach := factor * e.FOV.Radius()
	view := e.azimuthRange()

	res := &Result3D{}
	var dist []float64
	for _, p := range e.Obstacles {
		if !kernel.Overlaps(p.Footprint.Bounds(), extent) {
			continue
		}
		for _, q := range p.Quads() {
			foot := q.Foot()
			d := kernel.PointSegmentDistance(o, foot)
			if d > reach || d <= kernel.Epsilon*foot.Length() {
				continue
			}
			ext, ok := e.extentOf(q, view)
			if !ok {
				continue
			}
			res.Quads = append(res.Quads, q)
			res.Extents = append(res.Extents, ext)
			dist = append(dist, d)
		}
	}

	for i, ext := range res.Extents {
		blocking := true
		for j, other := range res.Extents {
			if j != i && dist[j] < dist[i] && overlapping(ext, other) {
				blocking = false
				break
			}
		}
		if blocking {
			res.Blocking = append(res.Blocking, i)
		}
	}

	var rects []r2.Rect
	for _, i := range res.Blocking {
		rects = append(rects, res.Extents[i]...)
	}
	res.Blocked = mergeExtents(rects)

	log.Debug("3D isovist",
		logging.Int("walls", len(res.Quads)),
		logging.Int("blocking", len(res.Blocking)),
		logging.Bool("partialClipped", res.PartialClipped))
	return res, nil
}

// azimuthRange returns the directions of the field of view as a circular
// interval in radians.
func (e *Engine3D) azimuthRange() s1.Interval {
	if e.FOV.Sweep() >= 360 {
		return s1.FullInterval()
	}
	lo := math.Remainder(e.FOV.Alpha()*math.Pi/180, 2*math.Pi)
	hi := math.Remainder(e.FOV.Omega()*math.Pi/180, 2*math.Pi)
	return s1.IntervalFromEndpoints(lo, hi)
}

// extentOf projects a wall into (theta, phi) space. The azimuth range is
// the shorter arc between the wall end points, intersected with the field
// of view; this gives one or two theta ranges. The elevation range covers
// the corners and the point of the wall nearest to the observer, clipped
// to the vertical field of view.
func (e *Engine3D) extentOf(q Quad, view s1.Interval) ([]r2.Rect, bool) {
	o3 := e.FOV.Center3()
	azimuth := func(x, y float64) float64 {
		return math.Atan2(y-o3.Y, x-o3.X)
	}
	theta := s1.IntervalFromPointPair(azimuth(q[0].X, q[0].Y), azimuth(q[1].X, q[1].Y))
	thetaDeg := e.thetaRanges(theta, view)
	if len(thetaDeg) == 0 {
		return nil, false
	}

	foot := q.Foot()
	near := kernel.ClosestPoint(vec.Vec2{X: o3.X, Y: o3.Y}, foot)
	phi := r1.EmptyInterval()
	elevation := func(x, y, z float64) float64 {
		h := math.Hypot(x-o3.X, y-o3.Y)
		return math.Atan2(z-o3.Z, h) * 180 / math.Pi
	}
	for _, c := range q {
		phi = phi.AddPoint(elevation(c.X, c.Y, c.Z))
	}
	phi = phi.AddPoint(elevation(near.X, near.Y, q[0].Z))
	phi = phi.AddPoint(elevation(near.X, near.Y, q[2].Z))

	v := e.FOV.VerticalHalfFOV()
	phi = phi.Intersection(r1.Interval{Lo: -v, Hi: v})
	if phi.IsEmpty() {
		return nil, false
	}
	res := make([]r2.Rect, len(thetaDeg))
	for k, x := range thetaDeg {
		res[k] = r2.Rect{X: x, Y: phi}
	}
	return res, true
}

// thetaRanges intersects the azimuth arc theta with the field of view and
// returns the result in degrees relative to the start of the field of view,
// sorted by Lo. The intersection of two arcs can have two parts, but
// s1.Interval.Intersection returns their hull; views wider than a half
// circle are therefore split in the middle and each half is handled
// separately.
func (e *Engine3D) thetaRanges(theta, view s1.Interval) []r1.Interval {
	halves := []s1.Interval{view}
	if view.Length() > math.Pi {
		lo, c, hi := view.Lo, view.Center(), view.Hi
		if view.IsFull() {
			lo = math.Remainder(e.FOV.Alpha()*math.Pi/180, 2*math.Pi)
			c = math.Remainder(lo+math.Pi, 2*math.Pi)
			hi = lo
		}
		halves = []s1.Interval{
			s1.IntervalFromEndpoints(lo, c),
			s1.IntervalFromEndpoints(c, hi),
		}
	}

	var res []r1.Interval
	for _, h := range halves {
		x := theta.Intersection(h)
		if x.IsEmpty() || x.Length() <= angleSlack {
			continue
		}
		lo := kernel.NormalizeDeg(x.Lo*180/math.Pi - e.FOV.Alpha())
		if lo > 360-angleSlack {
			lo -= 360
		}
		res = append(res, r1.Interval{Lo: lo, Hi: lo + x.Length()*180/math.Pi})
	}
	slices.SortFunc(res, func(a, b r1.Interval) int {
		return cmp.Compare(a.Lo, b.Lo)
	})
	if len(res) == 2 && res[1].Lo-res[0].Hi <= angleSlack {
		res = []r1.Interval{res[0].Union(res[1])}
	}
	return res
}

// overlapping reports whether some part of a overlaps some part of b.
func overlapping(a, b []r2.Rect) bool {
	for _, x := range a {
		for _, y := range b {
			if x.InteriorIntersects(y) {
				return true
			}
		}
	}
	return false
}

// mergeExtents replaces overlapping or touching rectangles by their union
// until all remaining rectangles are disjoint. The result is sorted by
// theta, then phi.
func mergeExtents(rects []r2.Rect) []r2.Rect {
	out := slices.Clone(rects)
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if out[i].ExpandedByMargin(angleSlack).Intersects(out[j]) {
					out[i] = out[i].Union(out[j])
					out = slices.Delete(out, j, j+1)
					changed = true
					j--
				}
			}
		}
	}
	slices.SortFunc(out, func(a, b r2.Rect) int {
		if c := cmp.Compare(a.X.Lo, b.X.Lo); c != 0 {
			return c
		}
		return cmp.Compare(a.Y.Lo, b.Y.Lo)
	})
	return out
}
