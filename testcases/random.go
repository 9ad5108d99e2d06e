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

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/sector"
)

// SectorConfig controls the shape of random sector batches.
type SectorConfig struct {
	Extent    float64 // apexes lie in [-Extent, Extent]²
	MinRadius float64
	MaxRadius float64
	MinSweep  float64 // in degrees, > 0
	MaxSweep  float64 // in degrees, <= 360
}

// DefaultSectorConfig resembles photo viewpoints in a city district.
var DefaultSectorConfig = SectorConfig{
	Extent:    1000,
	MinRadius: 20,
	MaxRadius: 300,
	MinSweep:  20,
	MaxSweep:  120,
}

// RandomSectors returns n random sectors. The same seed always gives the
// same batch.
func RandomSectors(n int, seed uint64, cfg SectorConfig) []*sector.Sector {
	rng := rand.New(rand.NewPCG(seed, 0x5ec7))
	res := make([]*sector.Sector, 0, n)
	for len(res) < n {
		c := vec.Vec2{
			X: (2*rng.Float64() - 1) * cfg.Extent,
			Y: (2*rng.Float64() - 1) * cfg.Extent,
		}
		r := cfg.MinRadius + rng.Float64()*(cfg.MaxRadius-cfg.MinRadius)
		alpha := rng.Float64() * 360
		sweep := cfg.MinSweep + rng.Float64()*(cfg.MaxSweep-cfg.MinSweep)
		s, err := sector.New(c, r, alpha, alpha+sweep)
		if err != nil {
			continue
		}
		res = append(res, s)
	}
	return res
}

// RandomPoints returns n points in [-extent, extent]².
func RandomPoints(n int, seed uint64, extent float64) []vec.Vec2 {
	rng := rand.New(rand.NewPCG(seed, 0x9e3779b9))
	res := make([]vec.Vec2, n)
	for i := range res {
		res[i] = vec.Vec2{
			X: (2*rng.Float64() - 1) * extent,
			Y: (2*rng.Float64() - 1) * extent,
		}
	}
	return res
}
