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

// Command export writes all scenes and their isovists to a JSON file, for
// comparison with other implementations.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/isovist"
	"seehuhn.de/go/isovist/coverage"
	"seehuhn.de/go/isovist/kernel"
	"seehuhn.de/go/isovist/logging"
	"seehuhn.de/go/isovist/sector"
	"seehuhn.de/go/isovist/testcases"
)

func main() {
	output := flag.String("o", "testdata/scenes.json", "output file")
	flag.Parse()
	log := logging.NewFromEnv()

	var out struct {
		Scenes []jsonScene `json:"scenes"`
	}
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			js, err := toJSON(category, sc)
			if err != nil {
				log.Error("scene failed", logging.String("scene", category+"_"+sc.Name), logging.Any("error", err))
				os.Exit(1)
			}
			out.Scenes = append(out.Scenes, js)
		}
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Error("cannot create output", logging.Any("error", err))
		os.Exit(1)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error("cannot write output", logging.Any("error", err))
		os.Exit(1)
	}
	log.Info("scenes exported", logging.Int("scenes", len(out.Scenes)), logging.String("file", *output))
}

type jsonScene struct {
	Name      string          `json:"name"`
	Observer  []float64       `json:"observer"`
	Radius    float64         `json:"radius"`
	Alpha     float64         `json:"alpha"`
	Omega     float64         `json:"omega"`
	Obstacles [][]jsonSegment `json:"obstacles"`
	Visible   []jsonVisible   `json:"visible"`
	Free      [][]float64     `json:"free"`
	Polygon   [][]float64     `json:"polygon"`
	Area      float64         `json:"area"`

	// RasterArea is the polygon area measured on a 512x512 grid.
	RasterArea float64 `json:"raster_area"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

type jsonVisible struct {
	Source int        `json:"source"`
	From   []float64  `json:"from"`
	To     []float64  `json:"to"`
	Span   [2]float64 `json:"span"`
}

func toJSON(category string, sc testcases.Scene) (jsonScene, error) {
	fov, err := sector.New(sc.Observer, sc.Radius, sc.Alpha, sc.Omega)
	if err != nil {
		return jsonScene{}, err
	}
	var obstacles []isovist.Obstacle
	js := jsonScene{
		Name:     category + "_" + sc.Name,
		Observer: point(sc.Observer),
		Radius:   sc.Radius,
		Alpha:    fov.Alpha(),
		Omega:    fov.Omega(),
	}
	for _, p := range sc.Obstacles {
		js.Obstacles = append(js.Obstacles, pathToJSON(p))
		obstacles = append(obstacles, isovist.FromPath(p))
	}

	e := isovist.New(fov, obstacles...)
	e.PartialMode = true
	e.PolygonMode = true
	res, err := e.Isovist()
	if err != nil {
		return jsonScene{}, fmt.Errorf("%s: %w", js.Name, err)
	}
	for _, v := range res.Visible {
		js.Visible = append(js.Visible, jsonVisible{
			Source: v.Source,
			From:   point(v.Segment.A),
			To:     point(v.Segment.B),
			Span:   [2]float64{v.Span.Alpha, v.Span.Omega},
		})
	}
	for _, f := range res.Free {
		js.Free = append(js.Free, []float64{f.Alpha, f.Omega})
	}
	for _, q := range res.Ring {
		js.Polygon = append(js.Polygon, point(q))
	}
	js.Area = res.Area()
	if len(res.Ring) > 2 {
		b := kernel.Bounds(res.Ring...)
		g, err := coverage.NewGrid(rect.Rect{LLx: b.LLx - 1, LLy: b.LLy - 1, URx: b.URx + 1, URy: b.URy + 1}, 512, 512)
		if err != nil {
			return jsonScene{}, fmt.Errorf("%s: %w", js.Name, err)
		}
		js.RasterArea = g.Area(res.Polygon)
	}
	return js, nil
}

func point(p vec.Vec2) []float64 {
	return []float64{p.X, p.Y}
}

func pathToJSON(p *path.Data) []jsonSegment {
	var segs []jsonSegment
	for cmd, pts := range p.Iter() {
		seg := jsonSegment{Pts: make([][]float64, len(pts))}
		switch cmd {
		case path.CmdMoveTo:
			seg.Cmd = "M"
		case path.CmdLineTo:
			seg.Cmd = "L"
		case path.CmdQuadTo:
			seg.Cmd = "Q"
		case path.CmdCubeTo:
			seg.Cmd = "C"
		case path.CmdClose:
			seg.Cmd = "Z"
		}
		for i, pt := range pts {
			seg.Pts[i] = point(pt)
		}
		segs = append(segs, seg)
	}
	return segs
}
