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

// Package isovist computes the part of a planar scene which is visible from
// an observer with a bounded field of view.
//
// The engine takes a field of view, given as a [sector.Sector], and a set of
// obstacles. It classifies the obstacle edges into blocking (fully visible)
// and hidden segments, computes the blocked and free direction intervals,
// finds segments which are partly visible through free gaps and, on request,
// assembles the visibility polygon.
package isovist

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
	"seehuhn.de/go/isovist/logging"
	"seehuhn.de/go/isovist/sector"
)

// Errors returned by the engines.
var (
	ErrNoFieldOfView = errors.New("isovist: no field of view")
	ErrNot3D         = errors.New("isovist: field of view has no height")
)

// Engine computes 2D isovists.
// The caller creates an Engine with [New], adjusts the exported fields if
// needed and then calls [Engine.Isovist]. The engine keeps no state between
// calls.
type Engine struct {
	// FOV is the field of view of the observer.
	FOV *sector.Sector

	// Obstacles are the sources of obstructing edges.
	Obstacles []Obstacle

	// PartialMode restricts the reported pieces to the parts of the
	// candidates which are not hidden behind nearer geometry. Without it,
	// blocking segments are reported over their whole span, together with
	// the pieces found through free gaps.
	PartialMode bool

	// PolygonMode requests the visibility polygon in Result.Polygon and
	// Result.Ring.
	PolygonMode bool

	// Epsilon is the parametric tolerance of the intersection tests.
	// Must be > 0.
	Epsilon float64

	// RejectFactor limits the candidate segments to those whose nearest
	// point is within RejectFactor times the radius of the observer.
	RejectFactor float64

	// MaxIterations bounds the partial visibility loop. Zero means one more
	// than the number of candidate segments.
	MaxIterations int

	// Logger receives diagnostic output. Nil disables logging.
	Logger logging.Logger
}

// New creates an engine with default tolerances.
func New(fov *sector.Sector, obstacles ...Obstacle) *Engine {
	return &Engine{
		FOV:          fov,
		Obstacles:    obstacles,
		Epsilon:      kernel.Epsilon,
		RejectFactor: defaultRejectFactor,
	}
}

// VisibleSegment is a visible piece of an obstacle edge.
type VisibleSegment struct {
	// Segment runs from the direction Span.Alpha to the direction Span.Omega.
	Segment kernel.Segment

	// Source is the index of the originating edge in Result.Candidates.
	Source int

	// Span is the range of directions covered by Segment.
	Span Interval
}

// Result is the outcome of an isovist computation.
// All intervals use the frame of the field of view.
type Result struct {
	// Candidates are the edges which passed the broad phase filter.
	Candidates []kernel.Segment

	// Blocking lists the indices of the candidates which are not hidden
	// behind any other candidate.
	Blocking []int

	// Blocked and Free partition the field of view into occluded and
	// unobstructed directions. Candidates beyond the radius still occlude.
	Blocked []Interval
	Free    []Interval

	// Partial holds the pieces of hidden candidates which are visible
	// through gaps between blocking segments.
	Partial []VisibleSegment

	// Visible holds all reported pieces, ordered by direction. Pieces are
	// clipped to the radius of the field of view.
	Visible []VisibleSegment

	// Polygon and Ring describe the visibility polygon. The ring starts and
	// ends at the observer. Both are nil unless PolygonMode is set.
	Polygon *path.Data
	Ring    []vec.Vec2

	// Iterations counts the rounds of the partial visibility loop.
	Iterations int

	// Incomplete is set if the partial visibility loop was stopped by
	// MaxIterations before reaching its fixed point.
	Incomplete bool
}

// Area returns the area of the visibility polygon, or 0 if no polygon was
// computed.
func (r *Result) Area() float64 {
	return kernel.PolygonArea(r.Ring)
}

// state holds the working data of a single isovist computation.
type state struct {
	o      vec.Vec2
	radius float64
	cone   Interval
	eps    float64
	cands []kernel.Segment
	spans [][]Interval // spans[i] holds the directions of cands[i], in the cone frame
	dist  []float64    // dist[i] is the distance from o to cands[i]
}

// item is a segment taking part in the occlusion sweep.
type item struct {
	seg    kernel.Segment
	source int
	spans  []Interval
}

// Isovist computes the isovist for the current settings.
func (e *Engine) Isovist() (*Result, error) {
	if e.FOV == nil {
		return nil, ErrNoFieldOfView
	}
	log := logging.OrNoop(e.Logger)

	eps := e.Epsilon
	if !(eps > 0) {
		eps = kernel.Epsilon
	}
	st := &state{
		o:      e.FOV.Center(),
		radius: e.FOV.Radius(),
		cone:   Interval{Alpha: e.FOV.Alpha(), Omega: e.FOV.Omega()},
		eps:    eps,
	}
	st.cands = e.candidates(st.o, eps)
	st.spans = make([][]Interval, len(st.cands))
	st.dist = make([]float64, len(st.cands))

	res := &Result{Candidates: st.cands}
	var pool []int
	for i, s := range st.cands {
		st.spans[i] = clipToCone(spanOf(st.o, s), st.cone)
		st.dist[i] = kernel.PointSegmentDistance(st.o, s)
		if len(st.spans[i]) == 0 {
			continue
		}
		if st.isBlocking(i) {
			res.Blocking = append(res.Blocking, i)
		} else {
			pool = append(pool, i)
		}
	}

	var blocked []Interval
	for _, i := range res.Blocking {
		blocked = append(blocked, st.spans[i]...)
	}
	res.Blocked = MergeIntervals(blocked)
	res.Free = FreeAngles(st.cone, res.Blocked)
	log.Debug("isovist classified",
		logging.Int("candidates", len(st.cands)),
		logging.Int("blocking", len(res.Blocking)),
		logging.Int("free", len(res.Free)))

	e.resolvePartial(st, res, pool, blocked, log)

	var swept []VisibleSegment
	if e.PartialMode || e.PolygonMode {
		var items []item
		for i, s := range st.cands {
			if len(st.spans[i]) > 0 {
				items = append(items, item{seg: s, source: i, spans: st.spans[i]})
			}
		}
		swept = st.sweep(items, st.radius)
	}
	if e.PartialMode {
		res.Visible = swept
	} else {
		for _, i := range res.Blocking {
			for _, sp := range st.spans[i] {
				v := VisibleSegment{
					Segment: st.cut(st.cands[i], sp),
					Source:  i,
					Span:    sp,
				}
				if v, ok := st.clip(v); ok {
					res.Visible = append(res.Visible, v)
				}
			}
		}
		res.Visible = append(res.Visible, res.Partial...)
		slices.SortStableFunc(res.Visible, func(a, b VisibleSegment) int {
			return cmp.Compare(a.Span.Alpha, b.Span.Alpha)
		})
	}

	if e.PolygonMode {
		owned := make([]Interval, len(swept))
		for k, v := range swept {
			owned[k] = v.Span
		}
		res.Ring = st.ring(swept, FreeAngles(st.cone, MergeIntervals(owned)), e.FOV)
		res.Polygon = ringPath(res.Ring)
	}
	return res, nil
}

// candidates applies the broad phase filter to the obstacle edges.
func (e *Engine) candidates(o vec.Vec2, eps float64) []kernel.Segment {
	extent := e.FOV.Geometry().Extent
	factor := e.RejectFactor
	if !(factor > 0) {
		factor = defaultRejectFactor
	}
	reach := factor * e.FOV.Radius()

	var res []kernel.Segment
	for _, ob := range e.Obstacles {
		if ob == nil || !kernel.Overlaps(ob.Bounds(), extent) {
			continue
		}
		for _, s := range ob.Edges() {
			if s.IsDegenerate() || !kernel.Overlaps(kernel.SegmentBounds(s), extent) {
				continue
			}
			d := kernel.PointSegmentDistance(o, s)
			if d > reach || d <= eps*s.Length() { // too far away, or through the observer
				continue
			}
			res = append(res, s)
		}
	}
	return res
}

// isBlocking reports whether the rays from the observer to both end points
// of candidate i reach the end point without hitting another candidate.
// Hits within the tolerance of the end point count as touching.
func (st *state) isBlocking(i int) bool {
	s := st.cands[i]
	for _, end := range [2]vec.Vec2{s.A, s.B} {
		tol := st.eps * max(1, kernel.Dist(st.o, end))
		for j, other := range st.cands {
			if j == i {
				continue
			}
			x, ok := kernel.SegmentIntersectionTol(st.o, end, other.A, other.B, st.eps)
			if ok && kernel.Dist(x, end) > tol {
				return false
			}
		}
	}
	return true
}

// resolvePartial promotes hidden candidates which are visible through free
// gaps, one candidate per round, until no further candidate can be seen.
// Each round resolves the depth order of the remaining candidates inside
// the free directions, so that only the nearest candidate along each ray
// is promoted. Occlusion uses the full candidate; the reported pieces are
// clipped to the radius of the field of view.
func (e *Engine) resolvePartial(st *state, res *Result, pool []int, blocked []Interval, log logging.Logger) {
	slices.SortStableFunc(pool, func(a, b int) int {
		return cmp.Compare(st.dist[a], st.dist[b])
	})
	limit := e.MaxIterations
	if limit <= 0 {
		limit = len(st.cands) + 1
	}

	for len(pool) > 0 && len(res.Free) > 0 {
		if res.Iterations >= limit {
			res.Incomplete = true
			log.Warn("partial visibility iteration limit reached",
				logging.Int("limit", limit),
				logging.Int("remaining", len(pool)))
			return
		}
		res.Iterations++

		k, pieces := st.firstVisible(pool, res.Free)
		if k < 0 {
			break
		}
		pool = slices.Delete(pool, k, k+1)
		for _, p := range pieces {
			blocked = append(blocked, p.Span)
			if p, ok := st.clip(p); ok {
				res.Partial = append(res.Partial, p)
			}
		}
		res.Blocked = MergeIntervals(blocked)
		res.Free = FreeAngles(st.cone, res.Blocked)
	}
	log.Debug("isovist partial visibility",
		logging.Int("iterations", res.Iterations),
		logging.Int("pieces", len(res.Partial)))
}

// firstVisible returns the position in pool of the nearest candidate which
// owns part of the free gaps, together with the pieces it owns. The pool
// must be sorted by distance. Ownership is decided by a sweep over the
// pool candidates restricted to the gaps: a piece belongs to the candidate
// which is nearest along every ray through it.
func (st *state) firstVisible(pool []int, free []Interval) (int, []VisibleSegment) {
	pos := make(map[int]int, len(pool))
	var items []item
	for k, idx := range pool {
		spans := intersectIntervals(st.spans[idx], free)
		if len(spans) == 0 {
			continue
		}
		pos[idx] = k
		items = append(items, item{seg: st.cands[idx], source: idx, spans: spans})
	}
	owned := st.sweep(items, math.Inf(1))

	best := -1
	for _, v := range owned {
		if k := pos[v.Source]; best < 0 || k < best {
			best = k
		}
	}
	if best < 0 {
		return -1, nil
	}
	var pieces []VisibleSegment
	for _, v := range owned {
		if v.Source == pool[best] {
			pieces = append(pieces, v)
		}
	}
	return best, pieces
}

// intersectIntervals returns the directions which lie both in a and in b.
func intersectIntervals(a, b []Interval) []Interval {
	var res []Interval
	for _, x := range a {
		for _, y := range b {
			lo, hi := max(x.Alpha, y.Alpha), min(x.Omega, y.Omega)
			if hi-lo > angleSlack {
				res = append(res, Interval{Alpha: lo, Omega: hi})
			}
		}
	}
	slices.SortFunc(res, func(p, q Interval) int {
		return cmp.Compare(p.Alpha, q.Alpha)
	})
	return res
}

// sweep resolves the mutual occlusion of the given items, nearest first.
// The cone is cut into elementary slices at every span end, at every
// direction where two items cross and at every direction where an item
// crosses the circle of the given radius. Within a slice the depth order of
// the items does not change, so the nearest item along the middle ray owns
// the whole slice. Consecutive slices with the same owner are joined. The
// slices without an owner, or whose owner lies beyond the radius, remain
// free.
func (st *state) sweep(items []item, radius float64) []VisibleSegment {
	cuts := []float64{st.cone.Alpha, st.cone.Omega}
	for _, it := range items {
		for _, sp := range it.spans {
			cuts = append(cuts, sp.Alpha, sp.Omega)
		}
		if math.IsInf(radius, 1) {
			continue
		}
		for _, x := range circleCrossings(st.o, radius, it.seg) {
			if deg, ok := toCone(kernel.AngleFromCoordinates(st.o, x), st.cone); ok {
				cuts = append(cuts, deg)
			}
		}
	}
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i].seg, items[j].seg
			x, ok := kernel.SegmentIntersection(a.A, a.B, b.A, b.B)
			if !ok {
				continue
			}
			if deg, ok := toCone(kernel.AngleFromCoordinates(st.o, x), st.cone); ok {
				cuts = append(cuts, deg)
			}
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	var res []VisibleSegment
	owner := -1
	for k := 0; k+1 < len(cuts); k++ {
		lo, hi := cuts[k], cuts[k+1]
		if hi-lo <= angleSlack {
			continue
		}
		mid := (lo + hi) / 2
		through := st.o.Add(kernel.AngleToVector(mid))

		best, bestDist := -1, math.Inf(1)
		for n, it := range items {
			if !covers(it.spans, mid) {
				continue
			}
			x, ok := kernel.RaySegmentIntersection(st.o, through, it.seg.A, it.seg.B)
			if !ok {
				continue
			}
			if d := kernel.Dist(st.o, x); d < bestDist {
				best, bestDist = n, d
			}
		}
		if best < 0 || bestDist > radius {
			owner = -1
			continue
		}

		if n := len(res); n > 0 && owner == best && lo-res[n-1].Span.Omega <= angleSlack {
			res[n-1].Span.Omega = hi
			res[n-1].Segment.B = st.along(items[best].seg, hi)
			continue
		}
		iv := Interval{Alpha: lo, Omega: hi}
		res = append(res, VisibleSegment{
			Segment: st.cut(items[best].seg, iv),
			Source:  items[best].source,
			Span:    iv,
		})
		owner = best
	}
	return res
}

func covers(spans []Interval, deg float64) bool {
	for _, sp := range spans {
		if sp.Contains(deg) {
			return true
		}
	}
	return false
}

// cut returns the part of s between the directions iv.Alpha and iv.Omega.
func (st *state) cut(s kernel.Segment, iv Interval) kernel.Segment {
	return kernel.Segment{A: st.along(s, iv.Alpha), B: st.along(s, iv.Omega)}
}

// along returns the point where the ray from the observer in direction deg
// meets the line through s.
func (st *state) along(s kernel.Segment, deg float64) vec.Vec2 {
	x, ok := kernel.LineIntersection(st.o, st.o.Add(kernel.AngleToVector(deg)), s.A, s.B)
	if ok {
		return x
	}
	if kernel.Dist(st.o, s.A) <= kernel.Dist(st.o, s.B) {
		return s.A
	}
	return s.B
}

// clip returns the part of v inside the circle of the field of view. The
// second result is false if no part of v lies inside.
func (st *state) clip(v VisibleSegment) (VisibleSegment, bool) {
	t0, t1, ok := discRange(st.o, st.radius, v.Segment)
	if !ok || (t1-t0)*v.Segment.Length() <= st.eps*st.radius {
		return VisibleSegment{}, false
	}
	if t0 == 0 && t1 == 1 {
		return v, true
	}
	a, d := v.Segment.A, v.Segment.B.Sub(v.Segment.A)
	res := v
	if t0 > 0 {
		res.Segment.A = a.Add(d.Mul(t0))
		res.Span.Alpha = st.direction(res.Segment.A, v.Span)
	}
	if t1 < 1 {
		res.Segment.B = a.Add(d.Mul(t1))
		res.Span.Omega = st.direction(res.Segment.B, v.Span)
	}
	return res, true
}

// direction returns the direction of p in the cone frame, using the
// representative closest to iv.
func (st *state) direction(p vec.Vec2, iv Interval) float64 {
	deg := kernel.AngleFromCoordinates(st.o, p)
	best := deg
	for _, shift := range [...]float64{-360, 360, 720} {
		if d := deg + shift; distToInterval(d, iv) < distToInterval(best, iv) {
			best = d
		}
	}
	return min(max(best, iv.Alpha), iv.Omega)
}

func distToInterval(deg float64, iv Interval) float64 {
	return max(iv.Alpha-deg, deg-iv.Omega, 0)
}

// discRange returns the parameter range [t0, t1] of the part of s inside the
// closed disc with centre o and radius r.
func discRange(o vec.Vec2, r float64, s kernel.Segment) (t0, t1 float64, ok bool) {
	d := s.B.Sub(s.A)
	f := s.A.Sub(o)
	a := d.Dot(d)
	b := f.Dot(d)
	c := f.Dot(f) - r*r
	disc := b*b - a*c
	if a == 0 || disc < 0 {
		return 0, 0, false
	}
	if c <= 0 && f.Add(d).Dot(f.Add(d)) <= r*r {
		return 0, 1, true
	}
	root := math.Sqrt(disc)
	t0 = max((-b-root)/a, 0)
	t1 = min((-b+root)/a, 1)
	if t1 <= t0 {
		return 0, 0, false
	}
	return t0, t1, true
}

// circleCrossings returns the points where s crosses the circle with centre
// o and radius r.
func circleCrossings(o vec.Vec2, r float64, s kernel.Segment) []vec.Vec2 {
	d := s.B.Sub(s.A)
	f := s.A.Sub(o)
	a := d.Dot(d)
	b := f.Dot(d)
	disc := b*b - a*(f.Dot(f)-r*r)
	if a == 0 || disc <= 0 {
		return nil
	}
	root := math.Sqrt(disc)
	var res []vec.Vec2
	for _, t := range [...]float64{(-b - root) / a, (-b + root) / a} {
		if t > 0 && t < 1 {
			res = append(res, s.A.Add(d.Mul(t)))
		}
	}
	return res
}

// ring assembles the visibility polygon from the visible pieces and arcs
// along the free directions.
func (st *state) ring(visible []VisibleSegment, free []Interval, fov *sector.Sector) []vec.Vec2 {
	type part struct {
		start float64
		pts   []vec.Vec2
	}
	parts := make([]part, 0, len(visible)+len(free))
	for _, v := range visible {
		parts = append(parts, part{v.Span.Alpha, []vec.Vec2{v.Segment.A, v.Segment.B}})
	}
	for _, f := range free {
		n := int(math.Ceil(f.Width()/fov.Sweep()*float64(fov.ArcSamples()))) + 1
		parts = append(parts, part{f.Alpha, sector.ArcPoints(st.o, fov.Radius(), f.Alpha, f.Omega, n)})
	}
	slices.SortStableFunc(parts, func(a, b part) int {
		return cmp.Compare(a.start, b.start)
	})

	ring := []vec.Vec2{st.o}
	for _, p := range parts {
		for _, pt := range p.pts {
			if pt != ring[len(ring)-1] {
				ring = append(ring, pt)
			}
		}
	}
	return append(ring, st.o)
}

func ringPath(ring []vec.Vec2) *path.Data {
	p := (&path.Data{}).MoveTo(ring[0])
	for _, pt := range ring[1 : len(ring)-1] {
		p = p.LineTo(pt)
	}
	return p.Close()
}

const (
	// defaultRejectFactor is the default broad phase reach, in multiples of
	// the observer radius.
	defaultRejectFactor = 2.0

	// angleSlack, in degrees, absorbs rounding when directions are moved
	// between frames.
	angleSlack = 1e-9
)
