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

// PolygonArea returns the unsigned area enclosed by a ring of points, using
// the shoelace formula. The ring may or may not repeat its first point.
func PolygonArea(ring []vec.Vec2) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	var a float64
	for i := range n {
		p := ring[i]
		q := ring[(i+1)%n]
		a += Cross(p, q)
	}
	return math.Abs(a) / 2
}

// PointInPolygon reports whether p lies inside the ring, using the even-odd
// rule. Points exactly on the boundary may be reported either way.
func PointInPolygon(ring []vec.Vec2, p vec.Vec2) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
