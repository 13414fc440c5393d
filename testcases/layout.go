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
	"fmt"

	"seehuhn.de/go/ink"
)

var layoutCases = []Case{
	{
		Name:  "two_pages",
		Pages: ink.PageSizes{Letter, Letter},
		Marks: []Mark{
			{Page: 1, Path: circle(306, 396, 80), Color: Blue},
			{Page: 0, Path: horizontalLine(100, 396, 512)},
			{Page: 1, Path: horizontalLine(100, 396, 512), Color: Green},
		},
	},
	{
		Name:  "mixed_sizes",
		Pages: ink.PageSizes{A4, A4Landscape, Square, Letter},
		Marks: pageFrames(ink.PageSizes{A4, A4Landscape, Square, Letter}),
	},
	{
		Name:  "unmarked_pages",
		Pages: ink.PageSizes{Letter, Letter, Letter, Letter, Letter},
		Marks: []Mark{
			{Page: 2, Path: signature(120, 400, 360), Color: Blue, Width: 3},
		},
	},
	{
		Name:  "many_pages",
		Pages: repeatSize(Letter, 24),
		Marks: pageFrames(repeatSize(Letter, 24)),
	},
}

// pageFrames returns one closed rectangle per page, inset by 20 units
// from the page boundary.
func pageFrames(pages ink.PageSizes) []Mark {
	marks := make([]Mark, len(pages))
	for i, p := range pages {
		frame := closedRect(20, 20, p.Width-20, p.Height-20)
		marks[i] = Mark{Page: i, Path: frame, Color: Blue, Width: 4}
	}
	return marks
}

func repeatSize(s ink.Size, n int) ink.PageSizes {
	res := make(ink.PageSizes, n)
	for i := range res {
		res[i] = s
	}
	return res
}

// Lookup returns the test case with the given name, of the form
// "<category>_<name>".
func Lookup(name string) (Case, error) {
	for category, cases := range All {
		for _, c := range cases {
			if category+"_"+c.Name == name {
				return c, nil
			}
		}
	}
	return Case{}, fmt.Errorf("unknown test case %q", name)
}
