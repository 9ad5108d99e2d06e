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

// Package coverage rasterises visibility polygons onto regular grids.
//
// The coverage of a cell is the exact fraction of its area inside the
// outline, computed from the signed area swept by the outline edges.  A
// [Grid] accumulates weighted coverage over many isovists, which gives
// viewshed counts and rasterised isovist areas.
package coverage

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

const (
	// defaultFlatness is the curve flattening tolerance in device units.
	defaultFlatness = 0.25

	// flatEdge is the smallest vertical extent of an edge that contributes.
	flatEdge = 1e-10
)

// edge is an outline edge in device coordinates, stored top to bottom.
type edge struct {
	x0, y0 float64 // end with the smaller y
	x1, y1 float64
	dxdy   float64
	dir    float32 // +1 if the outline runs towards larger y
}

func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.dxdy*(y-e.y0)
}

// Rasteriser computes the area coverage of outlines on the integer cells
// of a clip rectangle.  A Rasteriser can be reused; its buffers are kept
// between calls.
type Rasteriser struct {
	// CTM maps path coordinates to device coordinates.
	CTM matrix.Matrix

	// Clip is the device region, with integer coordinates.
	Clip rect.Rect

	// Flatness is the curve flattening tolerance in device units.
	Flatness float64

	edges  []edge
	active []int
	cover  []float32
	area   []float32

	xMinF, xMaxF float64
	yMinF, yMaxF float64
}

// NewRasteriser returns a rasteriser for the given clip rectangle with the
// identity transformation.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	r := &Rasteriser{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters, keeping the buffers.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.edges = r.edges[:0]
	r.active = r.active[:0]
}

// FillNonZero rasterises p with the nonzero winding rule.  For every row
// with non-zero coverage, emit is called with the row index, the first
// column and the coverage values.  The slice is only valid during the call.
func (r *Rasteriser) FillNonZero(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.fill(p, nonZero, emit)
}

// FillEvenOdd rasterises p with the even-odd rule.
func (r *Rasteriser) FillEvenOdd(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.fill(p, evenOdd, emit)
}

type fillRule func(raw float32) float32

func nonZero(raw float32) float32 {
	return min(abs32(raw), 1)
}

func evenOdd(raw float32) float32 {
	raw = abs32(raw)
	m := raw - 2*float32(int(raw/2))
	return 1 - abs32(1-m)
}

func (r *Rasteriser) fill(p *path.Data, rule fillRule, emit func(y, xMin int, coverage []float32)) {
	r.collect(p)
	if len(r.edges) == 0 {
		return
	}

	xMin := max(int(math.Floor(r.xMinF)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.xMaxF))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.yMinF)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.yMaxF))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int { return cmp.Compare(a.y0, b.y0) })
	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top, bot := float64(y), float64(y+1)
		for next < len(r.edges) && r.edges[next].y0 < bot {
			r.active = append(r.active, next)
			next++
		}
		r.active = slices.DeleteFunc(r.active, func(i int) bool { return r.edges[i].y1 <= top })
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, i := range r.active {
			r.accumulate(&r.edges[i], top, bot, xMin, xMax)
		}

		var acc float32
		for i := range r.cover {
			raw := acc + r.area[i]
			acc += r.cover[i]
			r.cover[i] = rule(raw)
		}
		lo, hi := 0, width
		for lo < hi && r.cover[lo] == 0 {
			lo++
		}
		for hi > lo && r.cover[hi-1] == 0 {
			hi--
		}
		if lo < hi {
			emit(y, xMin+lo, r.cover[lo:hi])
		}
	}
}

// accumulate adds the part of e between the scanlines top and bot to the
// row buffers, which cover the columns [xMin, xMax).
func (r *Rasteriser) accumulate(e *edge, top, bot float64, xMin, xMax int) {
	ya, yEnd := max(top, e.y0), min(bot, e.y1)
	if yEnd <= ya {
		return
	}
	xa, xEnd := e.xAt(ya), e.xAt(yEnd)

	// Walk the edge one column at a time.
	steps := int(math.Abs(math.Floor(xEnd)-math.Floor(xa))) + 2
	for ; steps > 0 && ya < yEnd; steps-- {
		yb, xb := yEnd, xEnd
		var bx float64
		switch {
		case xEnd > xa:
			bx = math.Floor(xa) + 1
		case xEnd < xa:
			bx = math.Ceil(xa) - 1
		}
		if (xEnd > xa && bx < xEnd) || (xEnd < xa && bx > xEnd) {
			xb = bx
			yb = min(max(e.y0+(bx-e.x0)/e.dxdy, ya), yEnd)
		}
		r.add(e.dir*float32(yb-ya), (xa+xb)/2, xMin, xMax)
		ya, xa = yb, xb
	}
}

// add records a piece of edge with signed height h at horizontal
// position x.
func (r *Rasteriser) add(h float32, x float64, xMin, xMax int) {
	pix := int(math.Floor(x))
	switch {
	case pix < xMin:
		r.cover[0] += h
		r.area[0] += h
	case pix < xMax:
		i := pix - xMin
		r.cover[i] += h
		r.area[i] += h * float32(1-(x-float64(pix)))
	}
}

// collect converts p into device space edges.  Curves are flattened.
func (r *Rasteriser) collect(p *path.Data) {
	r.edges = r.edges[:0]
	r.xMinF, r.yMinF = math.Inf(1), math.Inf(1)
	r.xMaxF, r.yMaxF = math.Inf(-1), math.Inf(-1)

	var cur, start vec.Vec2
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			if cur != start {
				r.addEdge(cur, start)
			}
			cur, start = pts[0], pts[0]
		case path.CmdLineTo:
			r.addEdge(cur, pts[0])
			cur = pts[0]
		case path.CmdCubeTo:
			r.flatten(cur, pts[0], pts[1], pts[2])
			cur = pts[2]
		case path.CmdClose:
			r.addEdge(cur, start)
			cur = start
		}
	}
	if cur != start {
		r.addEdge(cur, start)
	}
}

// flatten replaces a cubic Bézier curve by line segments, using Wang's
// formula to choose the number of pieces.
func (r *Rasteriser) flatten(p0, p1, p2, p3 vec.Vec2) {
	d1 := r.linear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.linear(p1.Sub(p2.Mul(2)).Add(p3))
	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		n = max(1, int(math.Ceil(math.Sqrt(3*m/(4*r.Flatness)))))
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).Add(p1.Mul(3 * s * s * t)).Add(p2.Mul(3 * s * t * t)).Add(p3.Mul(t * t * t))
		r.addEdge(prev, pt)
		prev = pt
	}
}

func (r *Rasteriser) linear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: r.CTM[0]*v.X + r.CTM[2]*v.Y, Y: r.CTM[1]*v.X + r.CTM[3]*v.Y}
}

func (r *Rasteriser) device(v vec.Vec2) vec.Vec2 {
	d := r.linear(v)
	return vec.Vec2{X: d.X + r.CTM[4], Y: d.Y + r.CTM[5]}
}

func (r *Rasteriser) addEdge(a, b vec.Vec2) {
	pa, pb := r.device(a), r.device(b)
	dy := pb.Y - pa.Y
	if math.Abs(dy) < flatEdge {
		return
	}
	e := edge{dir: 1}
	if dy < 0 {
		pa, pb = pb, pa
		e.dir = -1
	}
	e.x0, e.y0, e.x1, e.y1 = pa.X, pa.Y, pb.X, pb.Y
	e.dxdy = (pb.X - pa.X) / (pb.Y - pa.Y)
	r.edges = append(r.edges, e)

	r.xMinF = min(r.xMinF, pa.X, pb.X)
	r.xMaxF = max(r.xMaxF, pa.X, pb.X)
	r.yMinF = min(r.yMinF, pa.Y)
	r.yMaxF = max(r.yMaxF, pb.Y)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
