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

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/isovist/testcases"
)

// Config describes one benchmark run.
type Config struct {
	Sectors int    `yaml:"sectors"`
	Queries int    `yaml:"queries"`
	Seed    uint64 `yaml:"seed"`

	Extent    float64 `yaml:"extent"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	MinSweep  float64 `yaml:"min_sweep"`
	MaxSweep  float64 `yaml:"max_sweep"`

	// Variants selects the indices to compare.  Empty means all.
	Variants []string `yaml:"variants,omitempty"`

	Branching      int `yaml:"branching"`
	MaxLeafSize    int `yaml:"max_leaf_size"`
	MaxDepth       int `yaml:"max_depth"`
	CandidateLimit int `yaml:"candidate_limit"`
}

// defaultConfig returns the settings used for keys missing from the file.
func defaultConfig() Config {
	c := testcases.DefaultSectorConfig
	return Config{
		Sectors:   10000,
		Queries:   1000,
		Seed:      1,
		Extent:    c.Extent,
		MinRadius: c.MinRadius,
		MaxRadius: c.MaxRadius,
		MinSweep:  c.MinSweep,
		MaxSweep:  c.MaxSweep,
	}
}

// loadConfig reads a YAML file on top of the defaults.  An empty name
// gives the defaults.
func loadConfig(name string) (Config, error) {
	cfg := defaultConfig()
	if name == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", name, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Sectors <= 0 || c.Queries <= 0:
		return fmt.Errorf("sectors and queries must be positive")
	case !(c.MinRadius > 0) || c.MaxRadius < c.MinRadius:
		return fmt.Errorf("bad radius range [%g, %g]", c.MinRadius, c.MaxRadius)
	case !(c.MinSweep > 0) || c.MaxSweep < c.MinSweep || c.MaxSweep > 360:
		return fmt.Errorf("bad sweep range [%g, %g]", c.MinSweep, c.MaxSweep)
	}
	for _, v := range c.Variants {
		if _, ok := builders[v]; !ok {
			return fmt.Errorf("unknown variant %q", v)
		}
	}
	return nil
}

func (c Config) sectorConfig() testcases.SectorConfig {
	return testcases.SectorConfig{
		Extent:    c.Extent,
		MinRadius: c.MinRadius,
		MaxRadius: c.MaxRadius,
		MinSweep:  c.MinSweep,
		MaxSweep:  c.MaxSweep,
	}
}
