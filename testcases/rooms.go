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

import "seehuhn.de/go/geom/path"

// roomScenes place the observer inside closed rooms.
var roomScenes = []Scene{
	{
		Name:      "square_room",
		Observer:  pt(0, 0),
		Radius:    100,
		Alpha:     0,
		Omega:     360,
		Obstacles: []*path.Data{box(-10, -10, 10, 10)},
	},
	{
		Name:     "room_with_pillar",
		Observer: pt(0, 0),
		Radius:   100,
		Alpha:    0,
		Omega:    360,
		Obstacles: []*path.Data{
			box(-20, -20, 20, 20),
			box(5, 5, 8, 8),
			box(-12, -3, -9, 3),
		},
	},
	{
		Name:     "l_shaped",
		Observer: pt(35, 5),
		Radius:   100,
		Alpha:    0,
		Omega:    360,
		Obstacles: []*path.Data{
			block(pt(0, 0), pt(40, 0), pt(40, 20), pt(20, 20), pt(20, 40), pt(0, 40)),
		},
	},
	{
		Name:     "doorway",
		Observer: pt(-10, 0),
		Radius:   60,
		Alpha:    -60,
		Omega:    60,
		Obstacles: []*path.Data{
			wall(pt(0, -30), pt(0, -3)),
			wall(pt(0, 3), pt(0, 30)),
			box(25, -6, 30, 6),
		},
	},
}
