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
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
	"seehuhn.de/go/isovist/sector"
	"seehuhn.de/go/isovist/testcases"
)

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func seg(x0, y0, x1, y1 float64) kernel.Segment {
	return kernel.Segment{A: pt(x0, y0), B: pt(x1, y1)}
}

func mustSector(t testing.TB, c vec.Vec2, r, alpha, omega float64) *sector.Sector {
	t.Helper()
	s, err := sector.New(c, r, alpha, omega)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func near(p, q vec.Vec2) bool {
	return kernel.Dist(p, q) < 1e-6
}

func deg(x, y float64) float64 {
	return kernel.AngleFromCoordinates(vec.Vec2{}, pt(x, y))
}

// polar returns the point at distance r from the origin in direction d.
func polar(r, d float64) vec.Vec2 {
	return kernel.AngleToVector(d).Mul(r)
}

// TestWallScenario checks a single wall crossing the whole cone.
func TestWallScenario(t *testing.T) {
	fov := mustSector(t, pt(0, 0), 100, 0, 90)
	e := New(fov, Segments{seg(50, -10, 50, 110)})
	res, err := e.Isovist()
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(res.Blocking, []int{0}) {
		t.Fatalf("Blocking = %v, want [0]", res.Blocking)
	}
	top := deg(50, 110)
	opt := cmpopts.EquateApprox(0, 1e-9)
	if d := cmp.Diff([]Interval{{0, top}}, res.Blocked, opt); d != "" {
		t.Errorf("Blocked (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]Interval{{top, 90}}, res.Free, opt); d != "" {
		t.Errorf("Free (-want +got):\n%s", d)
	}
	if len(res.Partial) != 0 {
		t.Errorf("unexpected partial pieces %v", res.Partial)
	}

	// The wall leaves the field of view at 60 degrees.
	if len(res.Visible) != 1 {
		t.Fatalf("got %d visible pieces, want 1", len(res.Visible))
	}
	v := res.Visible[0]
	if v.Source != 0 || !near(v.Segment.A, pt(50, 0)) || !near(v.Segment.B, pt(50, 50*math.Sqrt(3))) {
		t.Errorf("visible piece %+v", v)
	}
	if d := cmp.Diff(Interval{0, 60}, v.Span, opt); d != "" {
		t.Errorf("visible span (-want +got):\n%s", d)
	}
}

// TestRadiusClipping checks that no reported geometry lies beyond the
// radius, while walls beyond the radius still occlude.
func TestRadiusClipping(t *testing.T) {
	fov := mustSector(t, pt(0, 0), 100, 0, 90)
	quarter := math.Pi * 100 * 100 / 4

	t.Run("crossing", func(t *testing.T) {
		e := New(fov, Segments{seg(50, -10, 50, 110)})
		e.PolygonMode = true
		for _, partial := range []bool{false, true} {
			e.PartialMode = partial
			res, err := e.Isovist()
			require.NoError(t, err)
			require.Len(t, res.Visible, 1)
			checkInside(t, fov, res)

			want := 50*50*math.Sqrt(3)/2 + quarter/3
			a := res.Area()
			if a > want || a < 0.99*want {
				t.Errorf("partial=%t: area %g, want about %g", partial, a, want)
			}
		}
	})

	t.Run("beyond", func(t *testing.T) {
		far := seg(150, 0, 0, 150) // about 106 from the observer
		e := New(fov, Segments{far, seg(80, 100, 90, 110)})
		e.PolygonMode = true
		for _, partial := range []bool{false, true} {
			e.PartialMode = partial
			res, err := e.Isovist()
			require.NoError(t, err)
			require.Contains(t, res.Candidates, far)
			require.Empty(t, res.Visible)
			require.Empty(t, res.Partial)
			checkInside(t, fov, res)

			a := res.Area()
			if a > quarter || a < 0.99*quarter {
				t.Errorf("partial=%t: area %g, want about %g", partial, a, quarter)
			}
		}
	})
}

// checkInside verifies that the visible pieces and the vertices of the
// visibility polygon lie in the field of view.
func checkInside(t *testing.T, fov *sector.Sector, res *Result) {
	t.Helper()
	for _, v := range res.Visible {
		for _, p := range []vec.Vec2{v.Segment.A, v.Segment.Midpoint(), v.Segment.B} {
			if !fov.IntersectsPoint(p) {
				t.Errorf("visible point %v of candidate %d outside the field of view", p, v.Source)
			}
		}
	}
	for _, p := range res.Ring {
		if !fov.IntersectsPoint(p) {
			t.Errorf("polygon vertex %v outside the field of view", p)
		}
	}
}

func TestOcclusion(t *testing.T) {
	fov := mustSector(t, pt(0, 0), 100, 0, 180)
	walls := Segments{
		seg(-10, 20, 10, 20), // near
		seg(-40, 50, 40, 50), // far, both end points visible
	}
	nearLo, nearHi := deg(10, 20), deg(-10, 20)
	farLo, farHi := deg(40, 50), deg(-40, 50)
	opt := cmpopts.EquateApprox(0, 1e-9)

	t.Run("full", func(t *testing.T) {
		res, err := New(fov, walls).Isovist()
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(res.Blocking, []int{0, 1}) {
			t.Fatalf("Blocking = %v", res.Blocking)
		}
		var spans []Interval
		for _, v := range res.Visible {
			if v.Source == 1 {
				spans = append(spans, v.Span)
			}
		}
		if d := cmp.Diff([]Interval{{farLo, farHi}}, spans, opt); d != "" {
			t.Errorf("far wall spans (-want +got):\n%s", d)
		}
	})

	t.Run("partial", func(t *testing.T) {
		e := New(fov, walls)
		e.PartialMode = true
		res, err := e.Isovist()
		if err != nil {
			t.Fatal(err)
		}
		var far, nearSpans []Interval
		for _, v := range res.Visible {
			switch v.Source {
			case 0:
				nearSpans = append(nearSpans, v.Span)
			case 1:
				far = append(far, v.Span)
			}
		}
		if d := cmp.Diff([]Interval{{nearLo, nearHi}}, nearSpans, opt); d != "" {
			t.Errorf("near wall spans (-want +got):\n%s", d)
		}
		if d := cmp.Diff([]Interval{{farLo, nearLo}, {nearHi, farHi}}, far, opt); d != "" {
			t.Errorf("far wall spans (-want +got):\n%s", d)
		}
		checkVisible(t, fov, res)
	})

	t.Run("hidden", func(t *testing.T) {
		hidden := Segments{seg(-10, 20, 10, 20), seg(-5, 50, 5, 50)}
		e := New(fov, hidden)
		e.PartialMode = true
		e.PolygonMode = true
		res, err := e.Isovist()
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(res.Blocking, []int{0}) {
			t.Errorf("Blocking = %v", res.Blocking)
		}
		for _, v := range res.Visible {
			if v.Source == 1 {
				t.Errorf("occluded wall reported: %+v", v)
			}
		}
		if len(res.Partial) != 0 {
			t.Errorf("occluded wall found through a gap: %+v", res.Partial)
		}
	})
}

func TestPartialThroughGap(t *testing.T) {
	fov := mustSector(t, pt(0, 0), 100, 0, 180)
	walls := Segments{
		seg(-10, 20, 10, 20),
		seg(-5, 50, 60, 50), // left end point hidden behind the first wall
	}
	res, err := New(fov, walls).Isovist()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Blocking, []int{0}) {
		t.Fatalf("Blocking = %v", res.Blocking)
	}
	if len(res.Partial) != 1 {
		t.Fatalf("got %d partial pieces, want 1", len(res.Partial))
	}
	p := res.Partial[0]
	if p.Source != 1 || !near(p.Segment.A, pt(60, 50)) || !near(p.Segment.B, pt(25, 50)) {
		t.Errorf("partial piece %+v", p)
	}
	if res.Iterations != 1 || res.Incomplete {
		t.Errorf("Iterations=%d Incomplete=%t", res.Iterations, res.Incomplete)
	}

	opt := cmpopts.EquateApprox(0, 1e-9)
	if d := cmp.Diff([]Interval{{deg(60, 50), deg(-10, 20)}}, res.Blocked, opt); d != "" {
		t.Errorf("Blocked (-want +got):\n%s", d)
	}
	want := []Interval{{0, deg(60, 50)}, {deg(-10, 20), 180}}
	if d := cmp.Diff(want, res.Free, opt); d != "" {
		t.Errorf("Free (-want +got):\n%s", d)
	}
}

// TestPartialDepthOrder checks a gap behind which two hidden walls overlap.
// The wall which comes closer to the observer elsewhere is the farther one
// inside the gap and must not be reported there.
func TestPartialDepthOrder(t *testing.T) {
	fov := mustSector(t, pt(0, 0), 100, 0, 90)
	walls := Segments{
		{A: polar(10, 0), B: polar(10, 40)},
		{A: polar(10, 50), B: polar(10, 90)},
		{A: polar(30, 35), B: polar(30, 55)}, // nearest inside the gap
		{A: polar(20, 30), B: pt(55, 58.6)},  // passes behind the previous wall
	}
	opt := cmpopts.EquateApprox(0, 1e-9)

	res, err := New(fov, walls).Isovist()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, res.Blocking)
	if len(res.Partial) != 1 || res.Partial[0].Source != 2 {
		t.Fatalf("Partial = %+v", res.Partial)
	}
	if d := cmp.Diff(Interval{40, 50}, res.Partial[0].Span, opt); d != "" {
		t.Errorf("partial span (-want +got):\n%s", d)
	}
	require.Empty(t, res.Free)
	require.False(t, res.Incomplete)
	checkPieces(t, fov, res, res.Partial)

	e := New(fov, walls)
	e.PartialMode = true
	res, err = e.Isovist()
	require.NoError(t, err)
	var spans []Interval
	for _, v := range res.Visible {
		switch v.Source {
		case 2:
			spans = append(spans, v.Span)
		case 3:
			t.Errorf("hidden wall reported: %+v", v)
		}
	}
	if d := cmp.Diff([]Interval{{40, 50}}, spans, opt); d != "" {
		t.Errorf("spans (-want +got):\n%s", d)
	}
	checkVisible(t, fov, res)
}

func TestIterationLimit(t *testing.T) {
	fov := mustSector(t, pt(0, 0), 100, 0, 180)
	walls := Segments{
		seg(-10, 20, 10, 20),
		seg(-5, 50, 60, 50), // seen right of the first wall
		seg(-60, 60, 5, 60), // seen left of the first wall
	}

	e := New(fov, walls)
	res, err := e.Isovist()
	if err != nil {
		t.Fatal(err)
	}
	if res.Incomplete || res.Iterations != 2 || len(res.Partial) != 2 {
		t.Errorf("Incomplete=%t Iterations=%d pieces=%d",
			res.Incomplete, res.Iterations, len(res.Partial))
	}

	e.MaxIterations = 1
	res, err = e.Isovist()
	if err != nil {
		t.Fatal(err)
	}
	if !res.Incomplete || len(res.Partial) != 1 || res.Partial[0].Source != 1 {
		t.Errorf("Incomplete=%t pieces=%v", res.Incomplete, res.Partial)
	}
}

func TestRoomPolygon(t *testing.T) {
	room := Polygon{pt(-10, -10), pt(10, -10), pt(10, 10), pt(-10, 10)}
	fov := mustSector(t, pt(0, 0), 100, 0, 360)
	e := New(fov, room)
	e.PolygonMode = true
	res, err := e.Isovist()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Blocking) != 4 {
		t.Errorf("Blocking = %v", res.Blocking)
	}
	if len(res.Free) != 0 {
		t.Errorf("Free = %v", res.Free)
	}
	if a := res.Area(); math.Abs(a-400) > 1e-6 {
		t.Errorf("area %g, want 400", a)
	}
	if res.Ring[0] != fov.Center() || res.Ring[len(res.Ring)-1] != fov.Center() {
		t.Error("ring does not start and end at the observer")
	}
	if res.Polygon == nil || res.Polygon.Cmds[len(res.Polygon.Cmds)-1] != path.CmdClose {
		t.Error("polygon path is not closed")
	}
}

func TestEmptyScene(t *testing.T) {
	fov := mustSector(t, pt(3, 4), 10, 0, 90)
	e := New(fov)
	e.PolygonMode = true
	res, err := e.Isovist()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]Interval{{0, 90}}, res.Free); d != "" {
		t.Errorf("Free (-want +got):\n%s", d)
	}
	want := math.Pi * 100 / 4
	if a := res.Area(); math.Abs(a-want)/want > 1e-3 {
		t.Errorf("area %g, want about %g", a, want)
	}
}

func TestCandidateFilter(t *testing.T) {
	fov := mustSector(t, pt(0, 0), 10, 0, 90)
	keep := seg(5, 1, 5, 8)
	e := New(fov, Segments{
		seg(100, 100, 101, 100), // beyond the reach
		seg(-5, -5, 5, 5),       // through the observer
		seg(-5, -1, -1, -5),     // outside the extent of the cone
		seg(1, 1, 1, 1),         // degenerate
		keep,
	})
	res, err := e.Isovist()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Candidates, []kernel.Segment{keep}) {
		t.Errorf("Candidates = %v", res.Candidates)
	}
}

func TestNoFieldOfView(t *testing.T) {
	_, err := New(nil).Isovist()
	if !errors.Is(err, ErrNoFieldOfView) {
		t.Errorf("got %v", err)
	}
}

func TestDeterminism(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	var walls Segments
	for range 60 {
		x, y := rng.Float64()*200-100, rng.Float64()*200-100
		walls = append(walls, seg(x, y, x+rng.Float64()*20-10, y+rng.Float64()*20-10))
	}
	fov := mustSector(t, pt(0, 0), 80, 30, 250)
	e := New(fov, walls)
	e.PartialMode = true
	e.PolygonMode = true

	first, err := e.Isovist()
	require.NoError(t, err)
	second, err := e.Isovist()
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.False(t, first.Incomplete)
}

// TestScenes checks visibility on every catalogue scene: no
// sample point of a visible piece is hidden behind another candidate.
func TestScenes(t *testing.T) {
	for group, scenes := range testcases.All {
		for _, sc := range scenes {
			t.Run(group+"/"+sc.Name, func(t *testing.T) {
				fov := mustSector(t, sc.Observer, sc.Radius, sc.Alpha, sc.Omega)
				var obstacles []Obstacle
				for _, p := range sc.Obstacles {
					obstacles = append(obstacles, FromPath(p))
				}
				e := New(fov, obstacles...)
				e.PartialMode = true
				e.PolygonMode = true
				res, err := e.Isovist()
				if err != nil {
					t.Fatal(err)
				}
				checkVisible(t, fov, res)
				if res.Area() <= 0 {
					t.Errorf("area %g", res.Area())
				}
			})
		}
	}
}

// checkVisible verifies that sample points of the visible pieces lie in the
// field of view and are not hidden behind any other candidate.
func checkVisible(t *testing.T, fov *sector.Sector, res *Result) {
	t.Helper()
	checkPieces(t, fov, res, res.Visible)
}

// checkPieces verifies that the end points and some interior points of the
// given pieces lie in the field of view, and that no other candidate
// crosses the line of sight to them.
func checkPieces(t *testing.T, fov *sector.Sector, res *Result, pieces []VisibleSegment) {
	t.Helper()
	o := fov.Center()
	for _, v := range pieces {
		for _, f := range []float64{0, 0.25, 0.5, 0.75, 1} {
			p := v.Segment.A.Add(v.Segment.B.Sub(v.Segment.A).Mul(f))
			if !fov.IntersectsPoint(p) {
				t.Errorf("visible point %v of candidate %d outside the field of view", p, v.Source)
			}
			q := o.Add(p.Sub(o).Mul(0.999))
			for j, c := range res.Candidates {
				if j == v.Source {
					continue
				}
				if x, ok := kernel.SegmentIntersectionTol(o, q, c.A, c.B, -1e-9); ok {
					t.Errorf("visible point %v of candidate %d hidden by candidate %d at %v",
						p, v.Source, j, x)
				}
			}
		}
	}
}

// TestContainment checks on the catalogue scenes and on random walls that
// every reported point is inside the field of view and can be seen from
// the observer. Without PartialMode, blocking segments are reported over
// their whole span, so only the pieces found through gaps are checked for
// occlusion.
func TestContainment(t *testing.T) {
	type scene struct {
		name      string
		fov       *sector.Sector
		obstacles []Obstacle
	}
	var scenes []scene
	for group, list := range testcases.All {
		for _, sc := range list {
			var obstacles []Obstacle
			for _, p := range sc.Obstacles {
				obstacles = append(obstacles, FromPath(p))
			}
			scenes = append(scenes, scene{
				name:      group + "/" + sc.Name,
				fov:       mustSector(t, sc.Observer, sc.Radius, sc.Alpha, sc.Omega),
				obstacles: obstacles,
			})
		}
	}
	cones := []struct{ r, alpha, omega float64 }{
		{80, 0, 360},
		{60, 30, 250},
		{90, -40, 60},
	}
	for seed := range uint64(4) {
		for k, c := range cones {
			scenes = append(scenes, scene{
				name:      fmt.Sprintf("random/%d-%d", seed, k),
				fov:       mustSector(t, pt(0, 0), c.r, c.alpha, c.omega),
				obstacles: []Obstacle{randomWalls(seed, 40)},
			})
		}
	}

	for _, sc := range scenes {
		t.Run(sc.name, func(t *testing.T) {
			for _, partial := range []bool{false, true} {
				e := New(sc.fov, sc.obstacles...)
				e.PartialMode = partial
				e.PolygonMode = true
				res, err := e.Isovist()
				require.NoError(t, err)
				require.False(t, res.Incomplete)
				checkInside(t, sc.fov, res)
				if partial {
					checkPieces(t, sc.fov, res, res.Visible)
				} else {
					checkPieces(t, sc.fov, res, res.Partial)
				}
			}
		})
	}
}

// randomWalls returns n walls which keep some distance from the origin.
func randomWalls(seed uint64, n int) Segments {
	rng := rand.New(rand.NewPCG(seed, 42))
	var walls Segments
	for len(walls) < n {
		x, y := rng.Float64()*200-100, rng.Float64()*200-100
		s := seg(x, y, x+rng.Float64()*50-25, y+rng.Float64()*50-25)
		if kernel.PointSegmentDistance(vec.Vec2{}, s) < 2 {
			continue
		}
		walls = append(walls, s)
	}
	return walls
}

func BenchmarkIsovist(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	var walls Segments
	for range 200 {
		x, y := rng.Float64()*400-200, rng.Float64()*400-200
		walls = append(walls, seg(x, y, x+rng.Float64()*30-15, y+rng.Float64()*30-15))
	}
	fov := mustSector(b, pt(0, 0), 100, 0, 360)
	e := New(fov, walls)
	e.PartialMode = true
	e.PolygonMode = true

	b.ReportAllocs()
	for b.Loop() {
		if _, err := e.Isovist(); err != nil {
			b.Fatal(err)
		}
	}
}
