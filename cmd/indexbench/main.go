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

// Command indexbench compares the point-in-sector indices on a random
// batch of sectors.  For every index it reports the mean number of node
// and entry accesses per query, the mean number of candidates, and the
// number of sectors missed compared to a linear scan.
package main

import (
	"flag"
	"os"
	"slices"
	"time"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist/index"
	"seehuhn.de/go/isovist/logging"
	"seehuhn.de/go/isovist/sector"
	"seehuhn.de/go/isovist/testcases"
)

var variantOrder = []string{"linear", "euclidean", "euclidean-split", "polar", "wedge"}

var builders = map[string]func(Config, logging.Logger) index.SectorIndex{
	"linear": func(Config, logging.Logger) index.SectorIndex {
		return &index.Linear{}
	},
	"euclidean": func(c Config, l logging.Logger) index.SectorIndex {
		return dual(index.Euclidean, false, c, l)
	},
	"euclidean-split": func(c Config, l logging.Logger) index.SectorIndex {
		return dual(index.Euclidean, true, c, l)
	},
	"polar": func(c Config, l logging.Logger) index.SectorIndex {
		return dual(index.Polar, false, c, l)
	},
	"wedge": func(c Config, l logging.Logger) index.SectorIndex {
		w := index.NewWedgeTree()
		if c.MaxLeafSize > 0 {
			w.MaxLeafSize = c.MaxLeafSize
		}
		if c.MaxDepth > 0 {
			w.MaxDepth = c.MaxDepth
		}
		w.CandidateLimit = c.CandidateLimit
		w.Logger = l
		return w
	},
}

func dual(k index.Kernel, split bool, c Config, l logging.Logger) *index.Dual {
	d := index.New(k)
	d.Split = split
	if c.Branching > 0 {
		d.Branching = c.Branching
	}
	d.Logger = l
	return d
}

// report summarises the queries against one index.
type report struct {
	Variant    string
	Build      time.Duration
	Accesses   float64
	Candidates float64
	Missed     int
}

func main() {
	configFile := flag.String("config", "", "YAML configuration file")
	seed := flag.Uint64("seed", 0, "random seed, overrides the configuration")
	verbose := flag.Bool("v", false, "log index construction details")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logging.New(logging.Config{Level: level})

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Error("cannot load configuration", logging.Any("error", err))
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	sectors := testcases.RandomSectors(cfg.Sectors, cfg.Seed, cfg.sectorConfig())
	queries := testcases.RandomPoints(cfg.Queries, cfg.Seed+1, cfg.Extent)
	log.Info("batch generated",
		logging.Int("sectors", len(sectors)),
		logging.Int("queries", len(queries)),
		logging.Int("seed", int(cfg.Seed)))

	variants := cfg.Variants
	if len(variants) == 0 {
		variants = variantOrder
	}
	failed := false
	for _, name := range variants {
		rep, err := run(name, builders[name](cfg, log.With(logging.String("variant", name))), sectors, queries)
		if err != nil {
			log.Error("index failed", logging.String("variant", name), logging.Any("error", err))
			os.Exit(1)
		}
		log.Info("index compared",
			logging.String("variant", rep.Variant),
			logging.Float("build_ms", float64(rep.Build.Microseconds())/1000),
			logging.Float("accesses", rep.Accesses),
			logging.Float("candidates", rep.Candidates),
			logging.Int("missed", rep.Missed))
		failed = failed || rep.Missed > 0
	}
	if failed {
		os.Exit(2)
	}
}

// run loads the sectors into idx and checks every query against a linear
// scan.
func run(name string, idx index.SectorIndex, sectors []*sector.Sector, queries []vec.Vec2) (report, error) {
	rep := report{Variant: name}
	start := time.Now()
	if err := idx.Load(sectors); err != nil {
		return rep, err
	}
	rep.Build = time.Since(start)

	var accesses, candidates int
	for _, p := range queries {
		res := idx.Search(p)
		accesses += res.AccessCount
		candidates += len(res.Hits)
		for i, s := range sectors {
			if s.IntersectsPoint(p) {
				if _, found := slices.BinarySearch(res.Hits, i); !found {
					rep.Missed++
				}
			}
		}
	}
	if n := len(queries); n > 0 {
		rep.Accesses = float64(accesses) / float64(n)
		rep.Candidates = float64(candidates) / float64(n)
	}
	return rep, nil
}
