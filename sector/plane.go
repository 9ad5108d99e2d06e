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

package sector

import (
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
)

// HalfPlane is the closed set of points p with Normal·p >= Normal·Point.
type HalfPlane struct {
	Point  vec.Vec2
	Normal vec.Vec2
}

// IsAbove reports whether p lies in the half-plane.
func (h HalfPlane) IsAbove(p vec.Vec2) bool {
	return h.Normal.Dot(p) >= h.Normal.Dot(h.Point)
}

// Flip returns the opposite half-plane. Points on the boundary line belong
// to both.
func (h HalfPlane) Flip() HalfPlane {
	return HalfPlane{Point: h.Point, Normal: h.Normal.Mul(-1)}
}

// SectorAtLeastPartiallyAbove reports whether some part of s may lie in the
// half-plane. The test treats the boundary rays of s as unbounded, so it
// may report true for a sector which only reaches the half-plane beyond
// its radius; it never reports false for a sector reaching into the
// half-plane.
func (h HalfPlane) SectorAtLeastPartiallyAbove(s *Sector) bool {
	c := s.Center()
	if h.IsAbove(c) {
		return true
	}

	q := h.Point.Add(kernel.Rot90(h.Normal))
	for _, deg := range [2]float64{s.Alpha(), s.Omega()} {
		d := kernel.AngleToVector(deg)
		x, ok := kernel.LineIntersection(c, c.Add(d), h.Point, q)
		if ok && x.Sub(c).Dot(d) >= 0 {
			return true
		}
	}

	// A reflex sector can reach across the line between its boundary rays.
	if s.Sweep() >= 180 && s.ContainsAngle(kernel.AngleFromCoordinates(vec.Vec2{}, h.Normal)) {
		return true
	}
	return false
}

// Wedge is the intersection of two half-planes.
type Wedge struct {
	A, B HalfPlane
}

// WedgeOf returns the wedge bounded by the two edge rays of s. Its region
// is the unbounded cone of directions of s; for reflex sectors the wedge
// is the intersection of the two half-planes only, and so covers less
// than the cone.
func WedgeOf(s *Sector) Wedge {
	c := s.Center()
	da := kernel.AngleToVector(s.Alpha())
	do := kernel.AngleToVector(s.Omega())
	return Wedge{
		A: HalfPlane{Point: c, Normal: kernel.Rot90(da)},
		B: HalfPlane{Point: c, Normal: kernel.Rot90(do).Mul(-1)},
	}
}

// Contains reports whether p lies in both half-planes.
func (w Wedge) Contains(p vec.Vec2) bool {
	return w.A.IsAbove(p) && w.B.IsAbove(p)
}

// Complement returns the wedge with both half-planes flipped.
//
// The geometric complement of w is the union of the flipped half-planes;
// use IsAboveComplementaryWedge on the result to test sectors against it.
func (w Wedge) Complement() Wedge {
	return Wedge{A: w.A.Flip(), B: w.B.Flip()}
}

// IsFullyAbove reports whether s may intersect the wedge, that is whether s
// is at least partially above both half-planes.
func (w Wedge) IsFullyAbove(s *Sector) bool {
	return w.A.SectorAtLeastPartiallyAbove(s) && w.B.SectorAtLeastPartiallyAbove(s)
}

// IsAboveComplementaryWedge reports whether s may intersect the union of the
// two half-planes of w.
func (w Wedge) IsAboveComplementaryWedge(s *Sector) bool {
	return w.A.SectorAtLeastPartiallyAbove(s) || w.B.SectorAtLeastPartiallyAbove(s)
}
