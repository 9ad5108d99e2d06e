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
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSceneNames(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z_]+$`)
	seen := make(map[string]bool)
	for group, scenes := range All {
		for _, sc := range scenes {
			name := group + "_" + sc.Name
			if !valid.MatchString(sc.Name) {
				t.Errorf("invalid scene name %q", name)
			}
			if seen[name] {
				t.Errorf("duplicate scene %q", name)
			}
			seen[name] = true
			if sc.Radius <= 0 || len(sc.Obstacles) == 0 {
				t.Errorf("%s: incomplete scene", name)
			}
		}
	}
}

func TestRandomSectors(t *testing.T) {
	a := RandomSectors(50, 3, DefaultSectorConfig)
	b := RandomSectors(50, 3, DefaultSectorConfig)
	require.Len(t, a, 50)
	for i := range a {
		require.True(t, a[i].Equals(b[i]), "sector %d differs", i)
		require.LessOrEqual(t, a[i].Radius(), DefaultSectorConfig.MaxRadius)
		require.GreaterOrEqual(t, a[i].Sweep(), DefaultSectorConfig.MinSweep)
	}

	pts := RandomPoints(20, 3, 10)
	for _, p := range pts {
		require.LessOrEqual(t, p.X, 10.0)
		require.GreaterOrEqual(t, p.Y, -10.0)
	}
}
