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
	"fmt"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/sector"
)

// Linear is the baseline index which tests every sector.
type Linear struct {
	sectors []*sector.Sector
}

// Load implements the [SectorIndex] interface.
func (l *Linear) Load(sectors []*sector.Sector) error {
	for i, s := range sectors {
		if s == nil {
			return fmt.Errorf("sector %d: %w", i, ErrNilSector)
		}
	}
	l.sectors = sectors
	return nil
}

// Search implements the [SectorIndex] interface.  The hits are exact.
func (l *Linear) Search(p vec.Vec2) Result {
	res := Result{AccessCount: len(l.sectors)}
	for i, s := range l.sectors {
		if s.IntersectsPoint(p) {
			res.Hits = append(res.Hits, i)
		}
	}
	return res
}
