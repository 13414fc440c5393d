// seehuhn.de/go/ink - freehand ink over PDF documents
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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/ink"
)

var complexCases = []Case{
	{
		Name:  "signature",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: signature(120, 650, 360), Color: Blue, Width: 3},
		},
	},
	{
		Name:  "spiral",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: spiral(306, 396, 10, 200, 4), Width: 10},
		},
	},
	{
		Name:  "figure_eight",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: figureEight(306, 396, 240), Color: Green, Width: 14},
		},
	},
	{
		Name:  "layered",
		Pages: singleLetter,
		Marks: layered(306, 396),
	},
	{
		Name:  "subpaths",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: twoTriangles(200, 396, 412, 396, 120), Color: Black, Width: 5},
		},
	},
	{
		Name:  "many_strokes",
		Pages: singleLetter,
		Marks: hatching(0, 60, 60, 552, 732, 12),
	},
}

// signature builds a handwriting-like scribble starting at (x, y), made
// of pen samples on a sum of sine waves.
func signature(x, y, length float64) *path.Data {
	const n = 60
	samples := make([]vec.Vec2, n)
	for i := range samples {
		t := float64(i) / (n - 1)
		samples[i] = pt(
			x+length*t+12*math.Sin(9*math.Pi*t),
			y-30*math.Sin(7*math.Pi*t)-10*math.Cos(3*math.Pi*t),
		)
	}
	return penPath(samples...)
}

// spiral builds an Archimedean spiral from line segments.  Adjacent turns
// overlap when the stroke is wide.
func spiral(cx, cy, rMin, rMax float64, turns float64) *path.Data {
	steps := max(int(turns*32), 8)
	total := turns * 2 * math.Pi
	growth := (rMax - rMin) / total

	p := (&path.Data{}).MoveTo(pt(cx+rMin, cy))
	for i := 1; i <= steps; i++ {
		angle := float64(i) / float64(steps) * total
		r := rMin + growth*angle
		p = p.LineTo(pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle)))
	}
	return p
}

// figureEight builds a self-intersecting loop from four cubic curves.
func figureEight(cx, cy, size float64) *path.Data {
	r := size / 2
	k := r * kappa
	return (&path.Data{}).
		MoveTo(pt(cx, cy)).
		CubeTo(pt(cx+k, cy-r/2), pt(cx+r, cy-r+k/2), pt(cx+r/2, cy-r)).
		CubeTo(pt(cx, cy-r-k/2), pt(cx-r/2, cy-r+k/2), pt(cx, cy)).
		CubeTo(pt(cx+r/2, cy+r-k/2), pt(cx, cy+r+k/2), pt(cx-r/2, cy+r)).
		CubeTo(pt(cx-r, cy+r-k/2), pt(cx-k, cy+r/2), pt(cx, cy)).
		Close()
}

// layered returns three overlapping strokes in different colours, so that
// the painting order is visible.
func layered(cx, cy float64) []Mark {
	return []Mark{
		{Page: 0, Path: horizontalLine(cx-150, cy, cx+150), Color: Highlight, Width: 60},
		{Page: 0, Path: corner(cx-100, cy+80, cx, cy-80, cx+100, cy+80), Color: Green, Width: 30},
		{Page: 0, Path: circle(cx, cy, 50), Color: Blue, Width: 10},
	}
}

// twoTriangles builds one path with two closed triangular subpaths.
func twoTriangles(cx1, cy1, cx2, cy2 float64, size float64) *path.Data {
	h := size * math.Sqrt(3) / 2
	p := &path.Data{}
	for _, c := range []vec.Vec2{pt(cx1, cy1), pt(cx2, cy2)} {
		p = p.
			MoveTo(pt(c.X, c.Y-2*h/3)).
			LineTo(pt(c.X+size/2, c.Y+h/3)).
			LineTo(pt(c.X-size/2, c.Y+h/3)).
			Close()
	}
	return p
}

// hatching returns diagonal strokes covering the rectangle from (x1, y1)
// to (x2, y2) on the given page, spaced gap units apart.
func hatching(page int, x1, y1, x2, y2, gap float64) []Mark {
	var marks []Mark
	colors := []ink.RGB{Blue, Green, Black}
	h := y2 - y1
	for i, x := 0, x1-h; x < x2; i, x = i+1, x+gap {
		a := pt(max(x, x1), y1+max(x1-x, 0))
		b := pt(min(x+h, x2), y2-max(x+h-x2, 0))
		marks = append(marks, Mark{
			Page:  page,
			Path:  (&path.Data{}).MoveTo(a).LineTo(b),
			Color: colors[i%len(colors)],
			Width: 2,
		})
	}
	return marks
}
