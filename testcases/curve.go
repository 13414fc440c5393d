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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// kappa is the distance of the control points from the end points, for a
// cubic Bézier curve approximating a quarter circle of radius 1.
const kappa = 0.5522847498307936

var curveCases = []Case{
	{
		Name:  "quadratic",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: quadraticCurve(100, 500, 306, 100, 512, 500)},
		},
	},
	{
		Name:  "cubic",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: cubicCurve(100, 400, 200, 100, 412, 700, 512, 400), Color: Blue},
		},
	},
	{
		Name:  "s_curve",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: sCurveQuadratic(100, 400, 512, 400), Color: Green, Width: 5},
		},
	},
	{
		Name:  "circle",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: circle(306, 396, 150), Color: Black, Width: 3},
		},
	},
	{
		Name:  "ellipse",
		Pages: singleLandscape,
		Marks: []Mark{
			{Page: 0, Path: ellipse(421, 297, 300, 120), Color: Highlight, Width: 24},
		},
	},
	{
		Name:  "arc",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: arc(306, 396, 120, 0.75)},
		},
	},
	{
		Name:  "pen_samples",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: penPath(
				pt(100, 300), pt(140, 260), pt(200, 250), pt(260, 280),
				pt(300, 340), pt(360, 360), pt(420, 330), pt(480, 280),
			), Color: Blue, Width: 6},
		},
	},
}

// quadraticCurve builds an open path with one quadratic Bézier curve.
func quadraticCurve(x1, y1, cx, cy, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		QuadTo(pt(cx, cy), pt(x2, y2))
}

// cubicCurve builds an open path with one cubic Bézier curve.
func cubicCurve(x1, y1, c1x, c1y, c2x, c2y, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		CubeTo(pt(c1x, c1y), pt(c2x, c2y), pt(x2, y2))
}

// sCurveQuadratic builds an open S-shaped path from two quadratic Bézier
// curves.
func sCurveQuadratic(x1, y1, x2, y2 float64) *path.Data {
	midX := (x1 + x2) / 2
	midY := (y1 + y2) / 2
	h := (x2 - x1) / 4

	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		QuadTo(pt((x1+midX)/2, y1-h), pt(midX, midY)).
		QuadTo(pt((midX+x2)/2, y2+h), pt(x2, y2))
}

// circle builds an approximate circle using four cubic Bézier curves.
func circle(cx, cy, r float64) *path.Data {
	return ellipse(cx, cy, r, r)
}

// ellipse builds an approximate ellipse using four cubic Bézier curves.
func ellipse(cx, cy, rx, ry float64) *path.Data {
	kx := rx * kappa
	ky := ry * kappa

	return (&path.Data{}).
		MoveTo(pt(cx+rx, cy)).
		CubeTo(pt(cx+rx, cy-ky), pt(cx+kx, cy-ry), pt(cx, cy-ry)).
		CubeTo(pt(cx-kx, cy-ry), pt(cx-rx, cy-ky), pt(cx-rx, cy)).
		CubeTo(pt(cx-rx, cy+ky), pt(cx-kx, cy+ry), pt(cx, cy+ry)).
		CubeTo(pt(cx+kx, cy+ry), pt(cx+rx, cy+ky), pt(cx+rx, cy)).
		Close()
}

// arc builds an open circular arc, starting on the right of the centre and
// running counter-clockwise on the page for the given fraction of a full
// turn, rounded down to whole quarters.
func arc(cx, cy, r float64, fraction float64) *path.Data {
	k := r * kappa
	quarters := min(max(int(fraction*4), 1), 4)

	quads := [4][3]vec.Vec2{
		{pt(cx+r, cy-k), pt(cx+k, cy-r), pt(cx, cy-r)},
		{pt(cx-k, cy-r), pt(cx-r, cy-k), pt(cx-r, cy)},
		{pt(cx-r, cy+k), pt(cx-k, cy+r), pt(cx, cy+r)},
		{pt(cx+k, cy+r), pt(cx+r, cy+k), pt(cx+r, cy)},
	}
	p := (&path.Data{}).MoveTo(pt(cx+r, cy))
	for _, q := range quads[:quarters] {
		p = p.CubeTo(q[0], q[1], q[2])
	}
	return p
}

// penPath builds a path the way the interactive pen records it: every new
// sample adds a quadratic segment, with the previous sample as control
// point, ending at the midpoint between the two samples.  A final line
// reaches the last sample.
func penPath(samples ...vec.Vec2) *path.Data {
	p := (&path.Data{}).MoveTo(samples[0])
	for i := 1; i < len(samples); i++ {
		prev := samples[i-1]
		p = p.QuadTo(prev, prev.Add(samples[i]).Mul(0.5))
	}
	return p.LineTo(samples[len(samples)-1])
}
