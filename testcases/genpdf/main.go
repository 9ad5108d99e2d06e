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

// Command genpdf draws every scene, with its field of view and isovist,
// into a PDF file for visual inspection. With -png the pages are also
// rendered to PNG images using Ghostscript.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/isovist"
	"seehuhn.de/go/isovist/kernel"
	"seehuhn.de/go/isovist/logging"
	"seehuhn.de/go/isovist/sector"
	"seehuhn.de/go/isovist/testcases"
)

const (
	pageSize = 400.0 // points
	margin   = 10.0
)

func main() {
	outDir := flag.String("d", "testdata/scenes", "output directory")
	png := flag.Bool("png", false, "also render PNG images (needs Ghostscript)")
	flag.Parse()
	log := logging.NewFromEnv()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Error("cannot create output directory", logging.Any("error", err))
		os.Exit(1)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			pdfPath := filepath.Join(*outDir, name+".pdf")
			if err := generatePDF(sc, pdfPath); err != nil {
				log.Error("scene failed", logging.String("scene", name), logging.Any("error", err))
				os.Exit(1)
			}
			if *png {
				pngPath := filepath.Join(*outDir, name+".png")
				if err := renderPNG(pdfPath, pngPath); err != nil {
					log.Error("ghostscript failed", logging.String("scene", name), logging.Any("error", err))
					os.Exit(1)
				}
			}
			log.Debug("scene drawn", logging.String("scene", name))
		}
	}
}

func generatePDF(sc testcases.Scene, pdfPath string) error {
	fov, err := sector.New(sc.Observer, sc.Radius, sc.Alpha, sc.Omega)
	if err != nil {
		return err
	}
	var obstacles []isovist.Obstacle
	for _, p := range sc.Obstacles {
		obstacles = append(obstacles, isovist.FromPath(p))
	}
	e := isovist.New(fov, obstacles...)
	e.PartialMode = true
	e.PolygonMode = true
	res, err := e.Isovist()
	if err != nil {
		return err
	}

	// fit the field of view and the visibility polygon onto the page
	bbox := fov.Geometry().Extent
	bbox = kernel.Union(bbox, kernel.Bounds(res.Ring...))
	scale := (pageSize - 2*margin) / max(bbox.URx-bbox.LLx, bbox.URy-bbox.LLy)

	paper := &pdf.Rectangle{URx: pageSize, URy: pageSize}
	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}
	page.Transform(worldToPage(bbox, scale))

	page.SetFillColor(color.DeviceGray(0.92))
	drawPath(page, fov.Geometry().Path())
	page.Fill()

	page.SetFillColor(color.DeviceGray(0.7))
	drawPath(page, res.Polygon)
	page.Fill()

	page.SetLineWidth(1.5 / scale)
	page.SetStrokeColor(color.DeviceGray(0))
	for _, p := range sc.Obstacles {
		drawPath(page, p)
	}
	page.Stroke()

	page.SetLineWidth(3 / scale)
	page.SetStrokeColor(color.DeviceGray(0.35))
	for _, v := range res.Visible {
		page.MoveTo(v.Segment.A.X, v.Segment.A.Y)
		page.LineTo(v.Segment.B.X, v.Segment.B.Y)
	}
	page.Stroke()

	d := 3 / scale
	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(sc.Observer.X-d, sc.Observer.Y-d, 2*d, 2*d)
	page.Fill()

	return page.Close()
}

func worldToPage(bbox rect.Rect, scale float64) matrix.Matrix {
	return matrix.Matrix{scale, 0, 0, scale, margin - scale*bbox.LLx, margin - scale*bbox.LLy}
}

type canvas interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
}

func drawPath(page canvas, p *path.Data) {
	// convert quadratic to cubic (PDF doesn't support quadratic)
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}
}

func renderPNG(pdfPath, pngPath string) error {
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gs: %w", err)
	}
	return nil
}
