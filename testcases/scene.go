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

package testcases

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Scene is an observer together with the obstacles around it.
type Scene struct {
	Name      string       // lowercase a-z and _ only
	Observer  vec.Vec2     // apex of the field of view
	Radius    float64      // visibility radius (>0)
	Alpha     float64      // start of the field of view, in degrees
	Omega     float64      // end of the field of view, in degrees
	Obstacles []*path.Data // obstacle outlines
}

// wall builds an open polyline.
func wall(pts ...vec.Vec2) *path.Data {
	p := (&path.Data{}).MoveTo(pts[0])
	for _, q := range pts[1:] {
		p = p.LineTo(q)
	}
	return p
}

// block builds a closed polygon.
func block(pts ...vec.Vec2) *path.Data {
	return wall(pts...).Close()
}

// box builds an axis-aligned rectangle.
func box(x0, y0, x1, y1 float64) *path.Data {
	return block(pt(x0, y0), pt(x1, y0), pt(x1, y1), pt(x0, y1))
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
