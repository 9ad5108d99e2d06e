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

// wallScenes are single walls and simple occlusion setups.
var wallScenes = []Scene{
	{
		Name:      "single_wall",
		Observer:  pt(0, 0),
		Radius:    100,
		Alpha:     0,
		Omega:     90,
		Obstacles: []*path.Data{wall(pt(50, -10), pt(50, 110))},
	},
	{
		Name:     "near_and_far",
		Observer: pt(0, 0),
		Radius:   100,
		Alpha:    0,
		Omega:    180,
		Obstacles: []*path.Data{
			wall(pt(-10, 20), pt(10, 20)),
			wall(pt(-40, 50), pt(40, 50)),
		},
	},
	{
		Name:     "through_gap",
		Observer: pt(0, 0),
		Radius:   100,
		Alpha:    0,
		Omega:    180,
		Obstacles: []*path.Data{
			wall(pt(-10, 20), pt(10, 20)),
			wall(pt(-5, 50), pt(60, 50)),
			wall(pt(-60, 60), pt(5, 60)),
		},
	},
	{
		Name:     "wraparound",
		Observer: pt(0, 0),
		Radius:   50,
		Alpha:    330,
		Omega:    30,
		Obstacles: []*path.Data{
			wall(pt(20, -8), pt(20, 8)),
			wall(pt(35, -30), pt(35, 30)),
		},
	},
	{
		Name:     "crossing",
		Observer: pt(0, 0),
		Radius:   80,
		Alpha:    20,
		Omega:    160,
		Obstacles: []*path.Data{
			wall(pt(-30, 20), pt(30, 50)),
			wall(pt(-30, 50), pt(30, 20)),
		},
	},
}
