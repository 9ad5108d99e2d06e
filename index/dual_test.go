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
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/vec"
)

func TestSplitAt(t *testing.T) {
	cases := []struct {
		lo, hi float64
		want   [][2]float64
	}{
		{0, 80, [][2]float64{{0, 80}}},
		{60, 120, [][2]float64{{60, 90}, {90, 120}}},
		{90, 120, [][2]float64{{90, 120}}},
		{60, 90, [][2]float64{{60, 90}}},
		{80, 280, [][2]float64{{80, 90}, {90, 270}, {270, 280}}},
		{-100, -80, [][2]float64{{-100, -90}, {-90, -80}}},
	}
	for _, c := range cases {
		got := splitAt(c.lo, c.hi, 90, 180)
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("splitAt(%g, %g) (-want +got):\n%s", c.lo, c.hi, d)
		}
	}
}

func TestIntercept(t *testing.T) {
	inf := math.Inf(1)
	cases := []struct {
		c    vec.Vec2
		m    float64
		want float64
	}{
		{vec.Vec2{X: 1, Y: 2}, 3, -1},
		{vec.Vec2{X: 0, Y: 2}, inf, 2},
		{vec.Vec2{X: 0, Y: 2}, -inf, 2},
		{vec.Vec2{X: 1, Y: 2}, inf, -inf},
		{vec.Vec2{X: 1, Y: 2}, -inf, inf},
		{vec.Vec2{X: -1, Y: 2}, inf, inf},
		{vec.Vec2{X: -1, Y: 2}, -inf, -inf},
	}
	for _, c := range cases {
		if got := intercept(c.c, c.m); got != c.want {
			t.Errorf("intercept(%v, %g) = %g, want %g", c.c, c.m, got, c.want)
		}
	}
	if slope(90) != inf || slope(-90) != -inf {
		t.Error("slope at ±90 is not infinite")
	}
}

// TestSlopeRects checks that every line through the centre along one of
// the rays of a direction range is found by slopeHit, using a point on the
// ray as the query.
func TestSlopeRects(t *testing.T) {
	c := vec.Vec2{X: 3, Y: -2}
	ranges := [][2]float64{{10, 40}, {60, 120}, {170, 200}, {80, 260}, {0, 180}}
	for _, vertical := range []bool{false, true} {
		for _, rg := range ranges {
			rects := slopeRects(c, rg[0], rg[1], vertical)
			for i := 0; i <= 50; i++ {
				deg := rg[0] + (rg[1]-rg[0])*float64(i)/50
				rad := deg * math.Pi / 180
				p := vec.Vec2{X: c.X + 7*math.Cos(rad), Y: c.Y + 7*math.Sin(rad)}
				if vertical {
					p = swap(p)
				}
				found := false
				for _, r := range rects {
					found = found || slopeHit(p, r)
				}
				if !found {
					t.Errorf("vertical=%t range %v: direction %g not found", vertical, rg, deg)
				}
			}
		}
	}

	// A far point off every ray through c misses a narrow range.
	rects := slopeRects(c, 10, 20, false)
	for _, r := range rects {
		if slopeHit(vec.Vec2{X: 3, Y: 100}, r) {
			t.Errorf("point straight above the centre hits %v", r)
		}
	}
}

func TestSlopeRectsBounded(t *testing.T) {
	c := vec.Vec2{X: 1, Y: 1}
	for _, r := range slopeRects(c, 10, 40, false) {
		if isUnbounded(r) {
			t.Errorf("[10, 40] gave unbounded %v", r)
		}
	}
	unbounded := 0
	for _, r := range slopeRects(c, 60, 120, false) {
		if isUnbounded(r) {
			unbounded++
		}
	}
	if unbounded != 2 {
		t.Errorf("[60, 120] gave %d unbounded pieces, want 2", unbounded)
	}
	for _, r := range slopeRects(c, 60, 120, true) {
		if isUnbounded(r) {
			t.Errorf("[60, 120] vertical gave unbounded %v", r)
		}
	}
}

func TestRhoRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		c := vec.Vec2{X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10}
		lo := rng.Float64() * 360
		hi := lo + rng.Float64()*(360-lo)
		gotLo, gotHi := rhoRange(c, lo, hi)

		wantLo, wantHi := math.Inf(1), math.Inf(-1)
		for i := 0; i <= 1000; i++ {
			v := rho(c, lo+(hi-lo)*float64(i)/1000)
			wantLo, wantHi = math.Min(wantLo, v), math.Max(wantHi, v)
		}
		const tol = 1e-9
		if gotLo > wantLo+tol || gotHi < wantHi-tol {
			t.Fatalf("rhoRange(%v, %g, %g) = [%g, %g], samples span [%g, %g]",
				c, lo, hi, gotLo, gotHi, wantLo, wantHi)
		}
		// The sampled extremes are within a step of the true ones.
		r := math.Hypot(c.X, c.Y)
		step := (hi - lo) / 1000 * math.Pi / 180 * r
		if gotLo < wantLo-step-tol || gotHi > wantHi+step+tol {
			t.Fatalf("rhoRange(%v, %g, %g) = [%g, %g] is too wide, samples span [%g, %g]",
				c, lo, hi, gotLo, gotHi, wantLo, wantHi)
		}
	}

	lo, hi := rhoRange(vec.Vec2{}, 0, 90)
	if lo != 0 || hi != 0 {
		t.Errorf("rhoRange at the origin = [%g, %g]", lo, hi)
	}
}

func TestPolarRects(t *testing.T) {
	c := vec.Vec2{X: -4, Y: 2}

	rects := polarRects(c, 350, 370)
	if len(rects) != 2 {
		t.Fatalf("[350, 370] gave %d rectangles, want 2", len(rects))
	}
	if math.Abs(rects[0].X.Hi-360) > 1e-6 || math.Abs(rects[1].X.Lo) > 1e-6 {
		t.Errorf("split pieces %v, %v", rects[0].X, rects[1].X)
	}

	full := polarRects(c, 0, 360)
	r := math.Hypot(c.X, c.Y)
	covered := r1.EmptyInterval()
	for _, rect := range full {
		covered = covered.Union(rect.Y)
	}
	if covered.Lo > -r || covered.Hi < r {
		t.Errorf("full circle covers rho %v, want ±%g", covered, r)
	}
}

func TestPad(t *testing.T) {
	r := pad(r2.Rect{
		X: r1.Interval{Lo: math.Inf(-1), Hi: 2},
		Y: r1.Interval{Lo: 0, Hi: math.Inf(1)},
	})
	if !math.IsInf(r.X.Lo, -1) || !math.IsInf(r.Y.Hi, 1) {
		t.Errorf("infinite bounds changed: %v", r)
	}
	if !(r.X.Hi > 2) || !(r.Y.Lo < 0) {
		t.Errorf("finite bounds not widened: %v", r)
	}
}
