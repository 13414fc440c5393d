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
)

var lineCases = []Case{
	{
		Name:  "horizontal",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: horizontalLine(100, 200, 500)},
		},
	},
	{
		Name:  "corner",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: corner(100, 400, 300, 150, 500, 400), Color: Blue, Width: 12},
		},
	},
	{
		Name:  "zigzag",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: zigzag(80, 300, 530, 60), Color: Green, Width: 6},
		},
	},
	{
		Name:  "dot",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: horizontalLine(306, 396, 306), Width: 20},
		},
	},
	{
		Name:  "closed_square",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: closedSquare(200, 300, 200), Color: Black, Width: 4},
		},
	},
	{
		Name:  "crossing",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: horizontalLine(100, 396, 512), Width: 16},
			{Page: 0, Path: corner(306, 200, 306, 396, 306, 600), Color: Blue, Width: 16},
		},
	},
}

// horizontalLine builds a horizontal line segment.
func horizontalLine(x1, y, x2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y)).
		LineTo(pt(x2, y))
}

// corner builds a path with two line segments meeting at a corner.
func corner(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x3, y3))
}

// zigzag builds five line segments alternating above and below cy.
func zigzag(x1, cy, x2, amplitude float64) *path.Data {
	const segments = 5
	segWidth := (x2 - x1) / segments

	p := (&path.Data{}).MoveTo(pt(x1, cy))
	for i := 1; i <= segments; i++ {
		y := cy + amplitude
		if i%2 == 1 {
			y = cy - amplitude
		}
		p = p.LineTo(pt(x1+float64(i)*segWidth, y))
	}
	return p
}

// closedSquare builds a closed square with top-left corner (x, y).
func closedSquare(x, y, side float64) *path.Data {
	return closedRect(x, y, x+side, y+side)
}

// closedRect builds a closed rectangle with corners (x1, y1) and (x2, y2).
func closedRect(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}
