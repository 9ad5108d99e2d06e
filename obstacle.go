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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
)

// Obstacle is a source of obstructing edges.
type Obstacle interface {
	// Edges returns the boundary edges of the obstacle.
	Edges() []kernel.Segment

	// Bounds returns a rectangle containing all edges.
	Bounds() rect.Rect
}

// Polygon is a closed ring of vertices. The edge from the last vertex back
// to the first is implied.
type Polygon []vec.Vec2

// Edges implements the [Obstacle] interface.
func (p Polygon) Edges() []kernel.Segment {
	if len(p) < 2 {
		return nil
	}
	res := make([]kernel.Segment, 0, len(p))
	for i, a := range p {
		b := p[(i+1)%len(p)]
		if a == b {
			continue
		}
		res = append(res, kernel.Segment{A: a, B: b})
	}
	return res
}

// Bounds implements the [Obstacle] interface.
func (p Polygon) Bounds() rect.Rect {
	return kernel.Bounds(p...)
}

// Segments is a list of independent obstructing segments.
type Segments []kernel.Segment

// Edges implements the [Obstacle] interface.
func (s Segments) Edges() []kernel.Segment {
	return s
}

// Bounds implements the [Obstacle] interface.
func (s Segments) Bounds() rect.Rect {
	if len(s) == 0 {
		return rect.Rect{}
	}
	r := kernel.SegmentBounds(s[0])
	for _, seg := range s[1:] {
		r = kernel.Union(r, kernel.SegmentBounds(seg))
	}
	return r
}

// FromPath converts an outline into obstructing segments. Open subpaths
// give a chain of segments, closed subpaths also include the closing edge.
// Curves are replaced by the chord between their end points.
func FromPath(p *path.Data) Segments {
	var res Segments
	var start, current vec.Vec2
	add := func(to vec.Vec2) {
		if to != current {
			res = append(res, kernel.Segment{A: current, B: to})
		}
		current = to
	}
	for cmd, pts := range p.Iter() {
		switch cmd {
		case path.CmdMoveTo:
			start, current = pts[0], pts[0]
		case path.CmdLineTo:
			add(pts[0])
		case path.CmdQuadTo:
			add(pts[1])
		case path.CmdCubeTo:
			add(pts[2])
		case path.CmdClose:
			add(start)
		}
	}
	return res
}
