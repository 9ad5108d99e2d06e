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
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"seehuhn.de/go/isovist/kernel"
	"seehuhn.de/go/isovist/sector"
)

func TestPrismQuads(t *testing.T) {
	p := Prism{
		Footprint: Polygon{pt(0, 0), pt(4, 0), pt(4, 3)},
		Base:      1,
		Top:       5,
	}
	quads := p.Quads()
	if len(quads) != 3 {
		t.Fatalf("got %d quads, want 3", len(quads))
	}
	q := quads[1]
	want := Quad{{X: 4, Y: 0, Z: 1}, {X: 4, Y: 3, Z: 1}, {X: 4, Y: 3, Z: 5}, {X: 4, Y: 0, Z: 5}}
	if q != want {
		t.Errorf("quad 1 = %v, want %v", q, want)
	}
	if f := q.Foot(); f != seg(4, 0, 4, 3) {
		t.Errorf("foot %v", f)
	}
}

func TestIsovist3D(t *testing.T) {
	fov, err := sector.New3D(r3.Vector{X: 0, Y: 0, Z: 1.5}, 100, 0, 90, 1)
	if err != nil {
		t.Fatal(err)
	}
	building := Prism{
		Footprint: Polygon{pt(20, 20), pt(30, 20), pt(30, 30), pt(20, 30)},
		Base:      0,
		Top:       10,
	}
	res, err := NewEngine3D(fov, building).Isovist()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Quads) != 4 || len(res.Extents) != 4 {
		t.Fatalf("got %d walls", len(res.Quads))
	}

	// The south and west walls face the observer and hide the other two.
	if !slices.Equal(res.Blocking, []int{0, 3}) {
		t.Errorf("Blocking = %v, want [0 3]", res.Blocking)
	}
	if len(res.Blocked) != 1 {
		t.Fatalf("Blocked = %v", res.Blocked)
	}
	b := res.Blocked[0]
	lo := math.Atan2(20, 30) * 180 / math.Pi
	hi := math.Atan2(30, 20) * 180 / math.Pi
	if math.Abs(b.X.Lo-lo) > 1e-9 || math.Abs(b.X.Hi-hi) > 1e-9 {
		t.Errorf("theta range %v, want [%g, %g]", b.X, lo, hi)
	}
	topPhi := math.Atan2(10-1.5, math.Hypot(20, 20)) * 180 / math.Pi
	if math.Abs(b.Y.Hi-topPhi) > 1e-9 {
		t.Errorf("phi range %v, want upper end %g", b.Y, topPhi)
	}
	if res.PartialClipped {
		t.Error("partial clipping reported as done")
	}
}

func TestIsovist3DOutsideView(t *testing.T) {
	fov, err := sector.New3D(r3.Vector{Z: 2}, 50, 90, 180, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	east := Prism{Footprint: Polygon{pt(10, -5), pt(12, -5), pt(12, 5), pt(10, 5)}, Top: 3}
	res, err := NewEngine3D(fov, east).Isovist()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Quads) != 0 {
		t.Errorf("walls behind the observer selected: %v", res.Quads)
	}
}

// TestIsovist3DWideView checks a wall which crosses the directions outside
// a field of view wider than a half circle. Its extent must not cover the
// directions between the two visible parts.
func TestIsovist3DWideView(t *testing.T) {
	fov, err := sector.New3D(r3.Vector{Z: 1.5}, 100, 0, 270, 1)
	if err != nil {
		t.Fatal(err)
	}
	a := kernel.AngleToVector(250).Mul(20)
	b := kernel.AngleToVector(20).Mul(20)
	wall := Prism{Footprint: Polygon{a, b}, Top: 10}
	res, err := NewEngine3D(fov, wall).Isovist()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Extents) == 0 {
		t.Fatal("wall not selected")
	}
	ext := res.Extents[0]
	if len(ext) != 2 {
		t.Fatalf("got %d theta ranges, want 2: %v", len(ext), ext)
	}
	want := []r1.Interval{{Lo: 0, Hi: 20}, {Lo: 250, Hi: 270}}
	for k, w := range want {
		if math.Abs(ext[k].X.Lo-w.Lo) > 1e-9 || math.Abs(ext[k].X.Hi-w.Hi) > 1e-9 {
			t.Errorf("theta range %d = %v, want %v", k, ext[k].X, w)
		}
	}
	for _, r := range res.Blocked {
		if r.X.Contains(135) {
			t.Errorf("blocked extent %v covers a free direction", r)
		}
	}
}

func TestIsovist3DErrors(t *testing.T) {
	if _, err := NewEngine3D(nil).Isovist(); !errors.Is(err, ErrNoFieldOfView) {
		t.Errorf("nil sector: %v", err)
	}
	flat := mustSector(t, pt(0, 0), 10, 0, 90)
	if _, err := NewEngine3D(flat).Isovist(); !errors.Is(err, ErrNot3D) {
		t.Errorf("planar sector: %v", err)
	}
}

func TestMergeExtents(t *testing.T) {
	a := rectOf(0, 10, 0, 5)
	b := rectOf(10, 20, 2, 8) // touches a
	c := rectOf(30, 40, 0, 1)
	d := rectOf(15, 35, 6, 7) // bridges b and c
	got := mergeExtents([]r2.Rect{c, a, b})
	if len(got) != 2 || got[0] != rectOf(0, 20, 0, 8) || got[1] != c {
		t.Errorf("merge = %v", got)
	}
	got = mergeExtents([]r2.Rect{c, a, b, d})
	if len(got) != 1 || got[0] != rectOf(0, 40, 0, 8) {
		t.Errorf("merge = %v", got)
	}
}

func rectOf(x0, x1, y0, y1 float64) r2.Rect {
	return r2.Rect{X: r1.Interval{Lo: x0, Hi: x1}, Y: r1.Interval{Lo: y0, Hi: y1}}
}
