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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
)

// Geometry holds the derived boundary of a sector.
type Geometry struct {
	// Boundary is the closed outline: the apex, the sampled arc from Alpha
	// to Omega, and the apex again.
	Boundary []vec.Vec2

	// Elevation holds, for 3D sectors, the height of each Boundary point.
	// The arc lies at the apex height raised by the vertical half field
	// of view. It is nil for planar sectors.
	Elevation []float64

	// Left and Right are the arc end points at Alpha and Omega.
	Left, Right vec.Vec2

	// Chord connects Left and Right.
	Chord kernel.Segment

	// Extent is the bounding box of the exact sector, including the parts
	// of the arc which bulge out between samples.
	Extent rect.Rect
}

// Arc returns the sampled arc points of the boundary.
func (g *Geometry) Arc() []vec.Vec2 {
	return g.Boundary[1 : len(g.Boundary)-1]
}

// Path returns the boundary as a closed path.
func (g *Geometry) Path() *path.Data {
	p := (&path.Data{}).MoveTo(g.Boundary[0])
	for _, pt := range g.Boundary[1 : len(g.Boundary)-1] {
		p = p.LineTo(pt)
	}
	return p.Close()
}

// Geometry returns the boundary geometry of the sector. The result is
// cached until the next call to a setter and must not be modified.
func (s *Sector) Geometry() *Geometry {
	if s.geom == nil {
		s.geom = s.computeGeometry()
	}
	return s.geom
}

func (s *Sector) computeGeometry() *Geometry {
	arc := ArcPoints(s.center, s.radius, s.alpha, s.omega, s.samples)

	boundary := make([]vec.Vec2, 0, len(arc)+2)
	boundary = append(boundary, s.center)
	boundary = append(boundary, arc...)
	boundary = append(boundary, s.center)

	g := &Geometry{
		Boundary: boundary,
		Left:     arc[0],
		Right:    arc[len(arc)-1],
		Extent:   s.extent(),
	}
	g.Chord = kernel.Segment{A: g.Left, B: g.Right}

	if s.is3D {
		top := s.z + s.radius*math.Tan(s.VerticalHalfFOV()*math.Pi/180)
		g.Elevation = make([]float64, len(boundary))
		for i := range g.Elevation {
			g.Elevation[i] = top
		}
		g.Elevation[0] = s.z
		g.Elevation[len(boundary)-1] = s.z
	}
	return g
}

// extent returns the exact bounding box: apex, arc end points, and every
// axis direction covered by the sweep.
func (s *Sector) extent() rect.Rect {
	at := func(deg float64) vec.Vec2 {
		return s.center.Add(kernel.AngleToVector(deg).Mul(s.radius))
	}
	pts := []vec.Vec2{s.center, at(s.alpha), at(s.omega)}
	for axis := 0.0; axis < 720; axis += 90 {
		if axis > s.alpha && axis < s.omega {
			pts = append(pts, at(axis))
		}
	}
	return kernel.Bounds(pts...)
}

// ArcPoints returns n points evenly spaced along the arc of the given
// circle, from angle alpha to omega inclusive.
func ArcPoints(center vec.Vec2, radius, alpha, omega float64, n int) []vec.Vec2 {
	n = max(n, 2)
	pts := make([]vec.Vec2, n)
	step := (omega - alpha) / float64(n-1)
	for i := range pts {
		deg := alpha + float64(i)*step
		if i == n-1 {
			deg = omega
		}
		pts[i] = center.Add(kernel.AngleToVector(deg).Mul(radius))
	}
	return pts
}
