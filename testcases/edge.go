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

var edgeCases = []Case{
	{
		Name:  "thin",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: horizontalLine(100, 396.5, 512), Color: Black, Width: 0.25},
		},
	},
	{
		Name:  "wide",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: corner(150, 600, 306, 200, 462, 600), Color: Highlight, Width: 90},
		},
	},
	{
		Name:  "subpixel",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: horizontalLine(100, 100, 500), Width: 1},
			{Page: 0, Path: horizontalLine(100, 110.25, 500), Width: 1},
			{Page: 0, Path: horizontalLine(100, 120.5, 500), Width: 1},
			{Page: 0, Path: horizontalLine(100, 130.75, 500), Width: 1},
		},
	},
	{
		Name:  "beyond_page_edge",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: corner(-50, 100, 306, 396, 700, 900), Color: Blue, Width: 20},
		},
	},
	{
		// the second stroke refers to a page the document does not have
		// and is dropped when committing
		Name:  "missing_page",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: circle(306, 396, 100)},
			{Page: 3, Path: circle(306, 396, 100), Color: Blue},
		},
	},
	{
		Name:  "empty_path",
		Pages: singleLetter,
		Marks: []Mark{
			{Page: 0, Path: &path.Data{}},
			{Page: 0, Path: horizontalLine(100, 396, 512)},
		},
	},
}
