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
	"cmp"
	"slices"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
)

// Interval is the closed range of directions from Alpha counter-clockwise
// to Omega, in degrees. Intervals within a cone use the cone's frame: the
// values lie in [cone.Alpha, cone.Omega] and may exceed 360.
type Interval struct {
	Alpha, Omega float64
}

// Width returns the angular size of the interval.
func (iv Interval) Width() float64 {
	return iv.Omega - iv.Alpha
}

// Contains reports whether deg lies in the interval. No wrapping is
// applied; see [Interval.ContainsDirection].
func (iv Interval) Contains(deg float64) bool {
	return deg >= iv.Alpha && deg <= iv.Omega
}

// ContainsDirection reports whether the direction deg, taken modulo 360,
// lies in the interval.
func (iv Interval) ContainsDirection(deg float64) bool {
	theta := kernel.NormalizeDeg(deg)
	for _, shift := range [...]float64{0, 360, -360} {
		if iv.Contains(theta + shift) {
			return true
		}
	}
	return false
}

// MergeIntervals returns the union of the given intervals as a sorted list
// of disjoint intervals. Intervals which touch are merged; gaps narrower
// than 1e-9 degrees count as touching.
func MergeIntervals(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sorted := slices.Clone(ivs)
	slices.SortFunc(sorted, func(a, b Interval) int {
		if c := cmp.Compare(a.Alpha, b.Alpha); c != 0 {
			return c
		}
		return cmp.Compare(a.Omega, b.Omega)
	})

	res := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.Alpha <= cur.Omega+angleSlack {
			cur.Omega = max(cur.Omega, iv.Omega)
			continue
		}
		res = append(res, cur)
		cur = iv
	}
	return append(res, cur)
}

// FreeAngles returns the parts of cone not covered by the blocked
// intervals. The blocked intervals must be sorted and disjoint, as returned
// by [MergeIntervals].
func FreeAngles(cone Interval, blocked []Interval) []Interval {
	var res []Interval
	cur := cone.Alpha
	for _, b := range blocked {
		lo := max(b.Alpha, cone.Alpha)
		if lo > cur+angleSlack {
			res = append(res, Interval{Alpha: cur, Omega: min(lo, cone.Omega)})
		}
		cur = max(cur, b.Omega)
		if cur >= cone.Omega {
			return res
		}
	}
	if cone.Omega > cur+angleSlack {
		res = append(res, Interval{Alpha: cur, Omega: cone.Omega})
	}
	return res
}

// spanOf returns the directions covered by s as seen from o: the shorter of
// the two arcs between the end point directions.
func spanOf(o vec.Vec2, s kernel.Segment) Interval {
	a := kernel.AngleFromCoordinates(o, s.A)
	b := kernel.AngleFromCoordinates(o, s.B)
	lo, hi := min(a, b), max(a, b)
	if hi-lo > 180 {
		lo, hi = hi, lo+360
	}
	return Interval{Alpha: lo, Omega: hi}
}

// clipToCone maps span into the frame of cone and intersects it with the
// cone. For cones wider than 180 degrees the result can have two parts.
func clipToCone(span, cone Interval) []Interval {
	var res []Interval
	for _, shift := range [...]float64{-360, 0, 360} {
		lo := max(span.Alpha+shift, cone.Alpha)
		hi := min(span.Omega+shift, cone.Omega)
		if hi > lo {
			res = append(res, Interval{Alpha: lo, Omega: hi})
		}
	}
	return res
}

// toCone returns the representative of the direction deg inside cone, if
// there is one.
func toCone(deg float64, cone Interval) (float64, bool) {
	theta := kernel.NormalizeDeg(deg)
	for _, shift := range [...]float64{0, 360} {
		if cone.Contains(theta + shift) {
			return theta + shift, true
		}
	}
	return 0, false
}
