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

	"seehuhn.de/go/ink"
)

// Case is an ink scenario: a source document and the strokes drawn on it.
type Case struct {
	Name  string        // lowercase a-z and _ only
	Pages ink.PageSizes // page sizes of the source document, in PDF units
	Marks []Mark        // strokes, in drawing order
}

// Mark describes one stroke of a test case.
type Mark struct {
	Page  int        // zero-based page index
	Path  *path.Data // page-local coordinates, y pointing down
	Color ink.RGB    // zero value means ink.DefaultStyle.Color
	Width float64    // zero means ink.DefaultStyle.Width
}

// Strokes returns freshly constructed strokes for all marks of the case.
func (c Case) Strokes() []ink.Stroke {
	res := make([]ink.Stroke, len(c.Marks))
	for i, m := range c.Marks {
		style := ink.DefaultStyle
		if m.Color != (ink.RGB{}) {
			style.Color = m.Color
		}
		if m.Width != 0 {
			style.Width = m.Width
		}
		res[i] = ink.NewStroke(m.Page, style, m.Path)
	}
	return res
}

// Standard page sizes, in PDF units.
var (
	Letter      = ink.Size{Width: 612, Height: 792}
	A4          = ink.Size{Width: 595, Height: 842}
	A4Landscape = ink.Size{Width: 842, Height: 595}
	Square      = ink.Size{Width: 400, Height: 400}
)

// Pen colours used by the test cases.  Pure black cannot be used in a
// [Mark], since the zero colour selects the default.
var (
	Blue      = ink.RGB{B: 0xCC}
	Green     = ink.RGB{G: 0x99}
	Black     = ink.RGB{R: 1, G: 1, B: 1}
	Highlight = ink.RGB{R: 0xFF, G: 0xE0}
)

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
