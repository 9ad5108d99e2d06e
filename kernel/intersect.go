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

package kernel

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Epsilon is the default parametric tolerance for intersection tests.
// It lets segments that share an endpoint intersect despite rounding.
const Epsilon = 1e-6

// parallelThreshold bounds the sine of the angle below which two directions
// are treated as parallel.
const parallelThreshold = 1e-12

// Segment is a straight line segment from A to B.
type Segment struct {
	A, B vec.Vec2
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return Dist(s.A, s.B)
}

// Midpoint returns the point halfway between A and B.
func (s Segment) Midpoint() vec.Vec2 {
	return s.A.Add(s.B).Mul(0.5)
}

// Reversed returns the segment with its endpoints swapped.
func (s Segment) Reversed() Segment {
	return Segment{A: s.B, B: s.A}
}

// IsDegenerate reports whether both endpoints coincide.
func (s Segment) IsDegenerate() bool {
	return s.A == s.B
}

// solve finds the parameters t and u with p1 + t(p2-p1) = p3 + u(p4-p3).
// ok is false if the two directions are parallel or degenerate.
func solve(p1, p2, p3, p4 vec.Vec2) (t, u float64, ok bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	det := Cross(d1, d2)
	if math.IsNaN(det) || math.Abs(det) <= parallelThreshold*d1.Length()*d2.Length() {
		return 0, 0, false
	}
	w := p3.Sub(p1)
	t = Cross(w, d2) / det
	u = Cross(w, d1) / det
	if math.IsNaN(t) || math.IsNaN(u) {
		return 0, 0, false
	}
	return t, u, true
}

// swapped reports whether the pair (p3,p4) sorts before (p1,p2).
// Intersection routines solve in canonical order so that swapping the
// arguments gives bit-identical results.
func swapped(p1, p2, p3, p4 vec.Vec2) bool {
	for _, c := range [...][2]float64{
		{p1.X, p3.X}, {p1.Y, p3.Y}, {p2.X, p4.X}, {p2.Y, p4.Y},
	} {
		if c[0] != c[1] {
			return c[1] < c[0]
		}
	}
	return false
}

// SegmentIntersection returns the intersection point of the segments p1p2
// and p3p4, using the default tolerance Epsilon.
func SegmentIntersection(p1, p2, p3, p4 vec.Vec2) (vec.Vec2, bool) {
	return SegmentIntersectionTol(p1, p2, p3, p4, Epsilon)
}

// SegmentIntersectionTol returns the intersection point of the segments p1p2
// and p3p4. The parametric position along each segment may exceed [0, 1]
// by eps.
func SegmentIntersectionTol(p1, p2, p3, p4 vec.Vec2, eps float64) (vec.Vec2, bool) {
	if swapped(p1, p2, p3, p4) {
		p1, p2, p3, p4 = p3, p4, p1, p2
	}
	t, u, ok := solve(p1, p2, p3, p4)
	if !ok {
		return vec.Vec2{}, false
	}
	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return vec.Vec2{}, false
	}
	return p1.Add(p2.Sub(p1).Mul(t)), true
}

// HalfLineIntersection intersects the ray starting at p1 through p2 with
// the ray starting at p3 through p4. Neither ray is bounded beyond its
// second point.
func HalfLineIntersection(p1, p2, p3, p4 vec.Vec2) (vec.Vec2, bool) {
	if swapped(p1, p2, p3, p4) {
		p1, p2, p3, p4 = p3, p4, p1, p2
	}
	t, u, ok := solve(p1, p2, p3, p4)
	if !ok || t < -Epsilon || u < -Epsilon {
		return vec.Vec2{}, false
	}
	return p1.Add(p2.Sub(p1).Mul(t)), true
}

// RaySegmentIntersection intersects the ray starting at origin through
// the point through with the segment ab.
func RaySegmentIntersection(origin, through, a, b vec.Vec2) (vec.Vec2, bool) {
	t, u, ok := solve(origin, through, a, b)
	if !ok || t < -Epsilon || u < -Epsilon || u > 1+Epsilon {
		return vec.Vec2{}, false
	}
	return a.Add(b.Sub(a).Mul(u)), true
}

// LineIntersection returns the intersection of the infinite lines through
// p1p2 and p3p4, without any containment check.
func LineIntersection(p1, p2, p3, p4 vec.Vec2) (vec.Vec2, bool) {
	t, _, ok := solve(p1, p2, p3, p4)
	if !ok {
		return vec.Vec2{}, false
	}
	return p1.Add(p2.Sub(p1).Mul(t)), true
}

// ClosestPoint returns the point of segment s nearest to p.
func ClosestPoint(p vec.Vec2, s Segment) vec.Vec2 {
	d := s.B.Sub(s.A)
	l2 := d.Dot(d)
	if l2 == 0 {
		return s.A
	}
	t := p.Sub(s.A).Dot(d) / l2
	t = max(0, min(1, t))
	return s.A.Add(d.Mul(t))
}

// PointSegmentDistance returns the distance from p to the nearest point of s.
func PointSegmentDistance(p vec.Vec2, s Segment) float64 {
	return Dist(p, ClosestPoint(p, s))
}
