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
	"math/rand/v2"

	"seehuhn.de/go/geom/path"
)

// cityScenes are street grids with many buildings.
var cityScenes = []Scene{
	{
		Name:      "block_grid",
		Observer:  pt(0, 0),
		Radius:    60,
		Alpha:     0,
		Omega:     360,
		Obstacles: blockGrid(5, 20, 10),
	},
	{
		Name:      "street_view",
		Observer:  pt(0, 2),
		Radius:    80,
		Alpha:     -30,
		Omega:     75,
		Obstacles: blockGrid(4, 25, 18),
	},
	{
		Name:      "scattered",
		Observer:  pt(0, 0),
		Radius:    70,
		Alpha:     0,
		Omega:     360,
		Obstacles: scattered(1, 8, 15),
	},
}

// blockGrid returns square buildings of the given size, centred on the
// points of a (2n+1)×(2n+1) grid with the given spacing. The grid is offset
// by half a spacing so that the origin lies in a street.
func blockGrid(n int, spacing, size float64) []*path.Data {
	var res []*path.Data
	for i := -n; i <= n; i++ {
		for j := -n; j <= n; j++ {
			cx := (float64(i) + 0.5) * spacing
			cy := (float64(j) + 0.5) * spacing
			res = append(res, box(cx-size/2, cy-size/2, cx+size/2, cy+size/2))
		}
	}
	return res
}

// scattered returns one short wall in each cell of a grid, skipping the
// cell around the origin. Walls stay inside their cells and never touch.
func scattered(seed uint64, n int, cell float64) []*path.Data {
	rng := rand.New(rand.NewPCG(seed, seed))
	var res []*path.Data
	for i := -n; i < n; i++ {
		for j := -n; j < n; j++ {
			if i == 0 && j == 0 || i == -1 && j == -1 || i == 0 && j == -1 || i == -1 && j == 0 {
				continue
			}
			x0, y0 := float64(i)*cell, float64(j)*cell
			a := pt(x0+0.1*cell+0.8*cell*rng.Float64(), y0+0.1*cell+0.8*cell*rng.Float64())
			b := pt(x0+0.1*cell+0.8*cell*rng.Float64(), y0+0.1*cell+0.8*cell*rng.Float64())
			if a == b {
				continue
			}
			res = append(res, wall(a, b))
		}
	}
	return res
}
