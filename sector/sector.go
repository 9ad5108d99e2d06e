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

// Package sector implements angular sectors (pie-slice shaped fields of
// view) together with the half-planes and wedges used to partition sets of
// sectors.
//
// Angles are in degrees. After construction the start angle alpha lies in
// [0, 360) and the end angle omega satisfies alpha < omega <= alpha+360, so
// omega may exceed 360 for sectors which cross the positive x-axis.
package sector

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/kernel"
)

// Errors returned for invalid sector parameters.
var (
	ErrInvalidRadius = errors.New("sector: radius must be positive and finite")
	ErrInvalidAngle  = errors.New("sector: angles must be finite")
	ErrEmptySweep    = errors.New("sector: start and end angle coincide")
	ErrAspectRatio   = errors.New("sector: aspect ratio must be positive and finite")
)

// DefaultArcSamples is the number of points used to approximate the arc of
// a sector boundary.
const DefaultArcSamples = 100

const (
	// angleTolerance is the slack, in degrees, of angular membership tests.
	angleTolerance = 1e-9

	// radiusTolerance is the relative slack of the distance check in
	// IntersectsPoint.
	radiusTolerance = 1e-9

	// maxHalfFOV bounds the half horizontal field of view used to derive
	// the vertical field of view of 3D sectors.
	maxHalfFOV = 89.0
)

// Sector is a circular sector with apex Center, radius Radius, spanning the
// directions from Alpha counter-clockwise to Omega.
//
// The boundary geometry is computed on first use and cached. All setters
// invalidate the cache. A Sector is not safe for concurrent mutation.
type Sector struct {
	center vec.Vec2
	z      float64
	is3D   bool
	aspect float64

	radius       float64
	alpha, omega float64
	samples      int

	geom *Geometry
}

// New returns a planar sector. The angles are normalised as described in
// the package documentation; if omega-alpha is a non-zero multiple of 360,
// the sector is a full disc.
func New(center vec.Vec2, radius, alpha, omega float64) (*Sector, error) {
	s := &Sector{center: center, samples: DefaultArcSamples}
	if err := s.SetRadius(radius); err != nil {
		return nil, err
	}
	if err := s.SetAngles(alpha, omega); err != nil {
		return nil, err
	}
	return s, nil
}

// New3D returns a sector whose apex carries a height. The aspect ratio
// (width/height) of the viewer determines the vertical field of view.
func New3D(center r3.Vector, radius, alpha, omega, aspectRatio float64) (*Sector, error) {
	if !(aspectRatio > 0) || math.IsInf(aspectRatio, 0) {
		return nil, fmt.Errorf("aspect ratio %g: %w", aspectRatio, ErrAspectRatio)
	}
	s, err := New(vec.Vec2{X: center.X, Y: center.Y}, radius, alpha, omega)
	if err != nil {
		return nil, err
	}
	s.z = center.Z
	s.is3D = true
	s.aspect = aspectRatio
	return s, nil
}

// SetAngles changes the angular range of the sector.
func (s *Sector) SetAngles(alpha, omega float64) error {
	a, o, err := normalizeRange(alpha, omega)
	if err != nil {
		return err
	}
	s.alpha, s.omega = a, o
	s.geom = nil
	return nil
}

// SetRadius changes the radius of the sector.
func (s *Sector) SetRadius(radius float64) error {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return fmt.Errorf("radius %g: %w", radius, ErrInvalidRadius)
	}
	s.radius = radius
	s.geom = nil
	return nil
}

// SetArcSamples changes the number of points used to approximate the arc.
// Values below 2 are raised to 2.
func (s *Sector) SetArcSamples(n int) {
	s.samples = max(n, 2)
	s.geom = nil
}

func normalizeRange(alpha, omega float64) (float64, float64, error) {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || math.IsNaN(omega) || math.IsInf(omega, 0) {
		return 0, 0, fmt.Errorf("alpha=%g omega=%g: %w", alpha, omega, ErrInvalidAngle)
	}
	span := omega - alpha
	if span == 0 {
		return 0, 0, fmt.Errorf("alpha=omega=%g: %w", alpha, ErrEmptySweep)
	}
	sweep := math.Mod(span, 360)
	if sweep < 0 {
		sweep += 360
	}
	if sweep == 0 {
		sweep = 360
	}
	a := kernel.NormalizeDeg(alpha)
	return a, a + sweep, nil
}

// Center returns the apex of the sector.
func (s *Sector) Center() vec.Vec2 { return s.center }

// Center3 returns the apex including its height. The height is zero for
// planar sectors.
func (s *Sector) Center3() r3.Vector {
	return r3.Vector{X: s.center.X, Y: s.center.Y, Z: s.z}
}

// Is3D reports whether the sector was constructed with a height.
func (s *Sector) Is3D() bool { return s.is3D }

// AspectRatio returns the aspect ratio of a 3D sector, or 0.
func (s *Sector) AspectRatio() float64 { return s.aspect }

// Radius returns the radius of the sector.
func (s *Sector) Radius() float64 { return s.radius }

// Alpha returns the start angle, in [0, 360).
func (s *Sector) Alpha() float64 { return s.alpha }

// Omega returns the end angle, in (Alpha, Alpha+360].
func (s *Sector) Omega() float64 { return s.omega }

// Sweep returns Omega-Alpha.
func (s *Sector) Sweep() float64 { return s.omega - s.alpha }

// ArcSamples returns the number of points on the sampled arc.
func (s *Sector) ArcSamples() int { return s.samples }

// VerticalHalfFOV returns half the vertical field of view of a 3D sector, in
// degrees. This is a pinhole-camera style estimate from the horizontal
// field of view and the aspect ratio; it returns 0 for planar sectors.
func (s *Sector) VerticalHalfFOV() float64 {
	if !s.is3D {
		return 0
	}
	h := min(s.Sweep()/2, maxHalfFOV) * math.Pi / 180
	return math.Atan(math.Tan(h)/s.aspect) * 180 / math.Pi
}

// ContainsAngle reports whether the direction deg lies within the angular
// range of the sector.
func (s *Sector) ContainsAngle(deg float64) bool {
	theta := kernel.NormalizeDeg(deg)
	lo, hi := s.alpha-angleTolerance, s.omega+angleTolerance
	return (theta >= lo && theta <= hi) || (theta+360 >= lo && theta+360 <= hi)
}

// ContainsDirection reports whether the direction from the apex to p lies
// within the angular range, ignoring the radius. The apex itself is
// contained.
func (s *Sector) ContainsDirection(p vec.Vec2) bool {
	if p == s.center {
		return true
	}
	return s.ContainsAngle(kernel.AngleFromCoordinates(s.center, p))
}

// IntersectsPoint reports whether p lies inside the sector.
func (s *Sector) IntersectsPoint(p vec.Vec2) bool {
	if kernel.Dist(s.center, p) > s.radius*(1+radiusTolerance) {
		return false
	}
	return s.ContainsDirection(p)
}

// Equals reports whether two sectors have the same apex and angular range.
func (s *Sector) Equals(other *Sector) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.center == other.center && s.z == other.z &&
		s.alpha == other.alpha && s.omega == other.omega
}

func (s *Sector) String() string {
	if s.is3D {
		return fmt.Sprintf("sector(%g,%g,%g r=%g [%g,%g])",
			s.center.X, s.center.Y, s.z, s.radius, s.alpha, s.omega)
	}
	return fmt.Sprintf("sector(%g,%g r=%g [%g,%g])",
		s.center.X, s.center.Y, s.radius, s.alpha, s.omega)
}
