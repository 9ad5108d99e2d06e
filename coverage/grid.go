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

package coverage

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// ErrGridSize is returned by NewGrid for unusable grid dimensions.
var ErrGridSize = errors.New("coverage: grid needs positive size and non-empty bounds")

// Grid is a regular raster over a rectangle in world coordinates.
// Column 0 is at Bounds.LLx and row 0 at Bounds.LLy.
type Grid struct {
	Bounds     rect.Rect
	Cols, Rows int

	// Cells holds the accumulated values in row-major order.
	Cells []float32

	r *Rasteriser
}

// NewGrid returns an empty grid with the given number of columns and rows.
func NewGrid(bounds rect.Rect, cols, rows int) (*Grid, error) {
	if cols <= 0 || rows <= 0 || !(bounds.URx > bounds.LLx) || !(bounds.URy > bounds.LLy) {
		return nil, fmt.Errorf("%dx%d over %v: %w", cols, rows, bounds, ErrGridSize)
	}
	clip := rect.Rect{URx: float64(cols), URy: float64(rows)}
	return &Grid{
		Bounds: bounds,
		Cols:   cols,
		Rows:   rows,
		Cells:  make([]float32, cols*rows),
		r:      NewRasteriser(clip),
	}, nil
}

// CTM returns the map from world coordinates to cell coordinates.
func (g *Grid) CTM() matrix.Matrix {
	sx := float64(g.Cols) / (g.Bounds.URx - g.Bounds.LLx)
	sy := float64(g.Rows) / (g.Bounds.URy - g.Bounds.LLy)
	return matrix.Matrix{sx, 0, 0, sy, -g.Bounds.LLx * sx, -g.Bounds.LLy * sy}
}

// CellArea returns the world area of a single cell.
func (g *Grid) CellArea() float64 {
	return (g.Bounds.URx - g.Bounds.LLx) * (g.Bounds.URy - g.Bounds.LLy) /
		float64(g.Cols*g.Rows)
}

// Add adds weight times the coverage of the outline p to every cell,
// using the nonzero winding rule.  Adding the polygons of many isovists
// with weight 1 counts, for every cell, the observers which see it.
func (g *Grid) Add(p *path.Data, weight float32) {
	g.rasterise(p, func(y, xMin int, coverage []float32) {
		row := g.Cells[y*g.Cols+xMin:]
		for i, c := range coverage {
			row[i] += weight * c
		}
	})
}

// Area returns the world area of the outline p, as seen at the resolution
// of the grid.  The cells are not changed.
func (g *Grid) Area(p *path.Data) float64 {
	var sum float64
	g.rasterise(p, func(_, _ int, coverage []float32) {
		for _, c := range coverage {
			sum += float64(c)
		}
	})
	return sum * g.CellArea()
}

func (g *Grid) rasterise(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	g.r.Reset(rect.Rect{URx: float64(g.Cols), URy: float64(g.Rows)})
	g.r.CTM = g.CTM()
	g.r.FillNonZero(p, emit)
}

// At returns the value of a cell.  Cells outside the grid are zero.
func (g *Grid) At(col, row int) float32 {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return 0
	}
	return g.Cells[row*g.Cols+col]
}

// Max returns the largest cell value.
func (g *Grid) Max() float32 {
	m := float32(math.Inf(-1))
	for _, c := range g.Cells {
		m = max(m, c)
	}
	return m
}

// Sum returns the total of all cell values.
func (g *Grid) Sum() float64 {
	var s float64
	for _, c := range g.Cells {
		s += float64(c)
	}
	return s
}

// Mask renders the outline p over the cells of g with the rasteriser from
// golang.org/x/image/vector.  Pixel (x, y) of the result corresponds to
// cell (x, y) of the grid.
func Mask(p *path.Data, g *Grid) *image.Alpha {
	ctm := g.CTM()
	pt := func(x, y float64) (float32, float32) {
		return float32(ctm[0]*x + ctm[2]*y + ctm[4]), float32(ctm[1]*x + ctm[3]*y + ctm[5])
	}

	z := vector.NewRasterizer(g.Cols, g.Rows)
	open := false
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(pts[0].X, pts[0].Y))
			open = true
		case path.CmdLineTo:
			z.LineTo(pt(pts[0].X, pts[0].Y))
		case path.CmdCubeTo:
			bx, by := pt(pts[0].X, pts[0].Y)
			cx, cy := pt(pts[1].X, pts[1].Y)
			dx, dy := pt(pts[2].X, pts[2].Y)
			z.CubeTo(bx, by, cx, cy, dx, dy)
		case path.CmdClose:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, g.Cols, g.Rows))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}
