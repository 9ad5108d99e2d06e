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

// Package kernel implements the planar geometry primitives used by the
// isovist engine and the sector indices: angle conversion, distances,
// intersections of segments, rays and lines, and bounding boxes.
//
// Angles passed as float64 are in degrees unless a name says otherwise.
// Degenerate configurations (parallel lines, zero-length segments) are
// reported as "no intersection" and never cause a panic.
package kernel

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// AngleToVector returns the unit vector pointing in direction deg, measured
// counter-clockwise from the positive x-axis.
func AngleToVector(deg float64) vec.Vec2 {
	rad := deg * math.Pi / 180
	return vec.Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

// VectorToAngle returns the signed angle in radians from ref to v.
// The result lies in [-π, π]; positive values are counter-clockwise.
func VectorToAngle(v, ref vec.Vec2) float64 {
	return math.Atan2(Cross(ref, v), ref.Dot(v))
}

// AngleFromCoordinates returns the direction of p as seen from origin, in
// degrees in the range [0, 360). If p equals origin, the result is 0.
func AngleFromCoordinates(origin, p vec.Vec2) float64 {
	d := p.Sub(origin)
	return NormalizeDeg(math.Atan2(d.Y, d.X) * 180 / math.Pi)
}

// NormalizeDeg maps an angle to the range [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 { // -tiny + 360 rounds to 360
		deg = 0
	}
	return deg
}

// Cross returns the z-component of the cross product a × b.
func Cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Rot90 rotates v by 90 degrees counter-clockwise.
func Rot90(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -v.Y, Y: v.X}
}

// Dist returns the Euclidean distance between two points.
func Dist(p, q vec.Vec2) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Distance returns the Euclidean distance between two points given as
// coordinate lists of equal length. It panics if the lengths differ.
func Distance(p, q []float64) float64 {
	if len(p) != len(q) {
		panic("kernel: Distance called with mismatched dimensions")
	}
	var sum float64
	for i := range p {
		d := p[i] - q[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
