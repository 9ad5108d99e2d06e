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

package index

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
)

// dualTolerance is the relative padding applied to every dual rectangle.
const dualTolerance = 1e-9

// angleSlack widens every direction range, in degrees, so that points
// accepted by the angular tolerance of a sector are found.
const angleSlack = 1e-9

// lineDirections returns the range of undirected line directions covered
// by the rays of a sector, in degrees.  The range starts at the sector's
// first boundary direction and is at most 180 degrees wide.
func lineDirections(alpha, sweep float64) (lo, hi float64) {
	return alpha - angleSlack, alpha + math.Min(sweep, 180) + angleSlack
}

// slopeRects maps the lines through c with directions in [lo, hi] to
// (slope, intercept) space. The direction range is cut where the slope
// passes through infinity, so every returned rectangle describes a
// monotone piece. If vertical is set, x and y are exchanged first.
func slopeRects(c vec.Vec2, lo, hi float64, vertical bool) []r2.Rect {
	if vertical {
		c = swap(c)
		lo, hi = 90-hi, 90-lo
	}

	var res []r2.Rect
	for _, piece := range splitAt(lo, hi, 90, 180) {
		k := math.Round((piece[0] + piece[1]) / 2 / 180)
		a, b := piece[0]-180*k, piece[1]-180*k
		m1, m2 := slope(a), slope(b)
		b1, b2 := intercept(c, m1), intercept(c, m2)
		res = append(res, pad(r2.Rect{
			X: r1.Interval{Lo: math.Min(m1, m2), Hi: math.Max(m1, m2)},
			Y: r1.Interval{Lo: math.Min(b1, b2), Hi: math.Max(b1, b2)},
		}))
	}
	return res
}

// slopeHit reports whether the lines through p can meet a dual rectangle
// built by slopeRects.
func slopeHit(p vec.Vec2, r r2.Rect) bool {
	if p.X == 0 && (math.IsInf(r.X.Lo, 0) || math.IsInf(r.X.Hi, 0)) {
		// The vertical line through p has no finite intercept.
		return true
	}
	b1, b2 := intercept(p, r.X.Lo), intercept(p, r.X.Hi)
	lo, hi := math.Min(b1, b2), math.Max(b1, b2)
	return lo <= r.Y.Hi && r.Y.Lo <= hi
}

// slope returns the slope of a line with direction deg in [-90, 90].
func slope(deg float64) float64 {
	switch deg {
	case -90:
		return math.Inf(-1)
	case 90:
		return math.Inf(1)
	}
	return math.Tan(deg * math.Pi / 180)
}

// intercept returns the y-intercept of the line with slope m through c.
// For vertical lines the limit is returned.
func intercept(c vec.Vec2, m float64) float64 {
	if !math.IsInf(m, 0) {
		return c.Y - m*c.X
	}
	if c.X == 0 {
		return c.Y
	}
	if (m > 0) == (c.X > 0) {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// polarRects maps the directed lines through c with directions in
// [alpha, omega] to (angle, signed distance) space. Ranges reaching past
// 360 degrees are split in two.
func polarRects(c vec.Vec2, alpha, omega float64) []r2.Rect {
	alpha, omega = alpha-angleSlack, omega+angleSlack
	if alpha < 0 {
		alpha, omega = alpha+360, omega+360
	}
	pieces := [][2]float64{{alpha, omega}}
	if omega > 360 {
		pieces = [][2]float64{{alpha, 360}, {0, omega - 360}}
	}
	res := make([]r2.Rect, 0, len(pieces))
	for _, piece := range pieces {
		lo, hi := rhoRange(c, piece[0], piece[1])
		res = append(res, pad(r2.Rect{
			X: r1.Interval{Lo: piece[0], Hi: piece[1]},
			Y: r1.Interval{Lo: lo, Hi: hi},
		}))
	}
	return res
}

// polarHit reports whether the directed lines through p can meet a dual
// rectangle built by polarRects.
func polarHit(p vec.Vec2, r r2.Rect) bool {
	lo, hi := rhoRange(p, r.X.Lo, r.X.Hi)
	return lo <= r.Y.Hi && r.Y.Lo <= hi
}

// rho returns the signed distance from the origin of the directed line
// through c with direction theta.
func rho(c vec.Vec2, theta float64) float64 {
	return kernel.Cross(kernel.AngleToVector(theta), c)
}

// rhoRange returns the range of rho(c, theta) for theta in [lo, hi].
func rhoRange(c vec.Vec2, lo, hi float64) (float64, float64) {
	r := math.Hypot(c.X, c.Y)
	if hi-lo >= 360 {
		return -r, r
	}
	v1, v2 := rho(c, lo), rho(c, hi)
	rLo, rHi := math.Min(v1, v2), math.Max(v1, v2)
	if r == 0 {
		return rLo, rHi
	}
	beta := kernel.AngleFromCoordinates(vec.Vec2{}, c)
	if angleWithin(beta-90, lo, hi) {
		rHi = r
	}
	if angleWithin(beta+90, lo, hi) {
		rLo = -r
	}
	return rLo, rHi
}

// angleWithin reports whether some representative of deg lies in [lo, hi].
func angleWithin(deg, lo, hi float64) bool {
	deg = kernel.NormalizeDeg(deg)
	for _, d := range [...]float64{deg - 360, deg, deg + 360} {
		if d >= lo && d <= hi {
			return true
		}
	}
	return false
}

// splitAt cuts [lo, hi] at every point first + k*period strictly inside.
func splitAt(lo, hi, first, period float64) [][2]float64 {
	var res [][2]float64
	cut := first + period*math.Floor((lo-first)/period+1)
	for cut < hi {
		if cut > lo {
			res = append(res, [2]float64{lo, cut})
			lo = cut
		}
		cut += period
	}
	return append(res, [2]float64{lo, hi})
}

// pad widens the finite bounds of r by a relative tolerance.
func pad(r r2.Rect) r2.Rect {
	return r2.Rect{X: padInterval(r.X), Y: padInterval(r.Y)}
}

func padInterval(iv r1.Interval) r1.Interval {
	if !math.IsInf(iv.Lo, 0) {
		iv.Lo -= dualTolerance * (1 + math.Abs(iv.Lo))
	}
	if !math.IsInf(iv.Hi, 0) {
		iv.Hi += dualTolerance * (1 + math.Abs(iv.Hi))
	}
	return iv
}

// diagonal returns the length of the diagonal of the smallest rectangle
// enclosing all of rects.
func diagonal(rects []r2.Rect) float64 {
	u := r2.EmptyRect()
	for _, r := range rects {
		u = u.Union(r)
	}
	return math.Hypot(u.X.Length(), u.Y.Length())
}

func isValidRect(r r2.Rect) bool {
	for _, v := range [...]float64{r.X.Lo, r.X.Hi, r.Y.Lo, r.Y.Hi} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

func swap(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: v.Y, Y: v.X}
}
