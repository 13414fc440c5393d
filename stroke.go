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

// Package ink holds the data model for freehand ink drawn over the pages
// of a PDF document: immutable strokes, the undo/redo ledger which
// collects them, and the geometry of the stacked page layout used to map
// between viewer coordinates and page-local coordinates.
//
// Committing the ink into a new PDF file is implemented in the flatten
// sub-package.
package ink

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/google/uuid"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Every stroke is drawn with round caps and round joins.
const (
	Cap  = graphics.LineCapRound
	Join = graphics.LineJoinRound
)

// RGB is an opaque stroke colour.
type RGB struct {
	R, G, B uint8
}

// RGBA implements the [color.Color] interface.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Style describes how a stroke is painted.
type Style struct {
	Color RGB

	// Width is the line width in page-local units.
	Width float64
}

// DefaultStyle is the pen used when the front end does not choose one.
var DefaultStyle = Style{
	Color: RGB{R: 0xFF},
	Width: 8,
}

// Stroke is one finished ink mark on a single page.
//
// The path is stored in page-local coordinates: the origin is the top-left
// corner of the page, x grows to the right and y grows downwards.  A Stroke
// is immutable once constructed.
type Stroke struct {
	id    string
	page  int
	style Style
	cmds  []path.Command
	pts   []vec.Vec2
}

// NewStroke creates a stroke on the given page.  The path data is copied,
// so later changes to p do not affect the stroke.
func NewStroke(page int, style Style, p *path.Data) Stroke {
	s := Stroke{
		id:    uuid.NewString(),
		page:  page,
		style: style,
	}
	if p != nil {
		s.cmds = append([]path.Command(nil), p.Cmds...)
		s.pts = append([]vec.Vec2(nil), p.Coords...)
	}
	return s
}

// ID returns an identifier which is unique for every stroke created.
func (s Stroke) ID() string { return s.id }

// Page returns the zero-based index of the page the stroke belongs to.
func (s Stroke) Page() int { return s.page }

// Style returns the colour and width of the stroke.
func (s Stroke) Style() Style { return s.style }

// IsEmpty reports whether the stroke has no path segments.
func (s Stroke) IsEmpty() bool { return len(s.cmds) == 0 }

// Path returns the segments of the stroke outline.  The sequence can be
// iterated any number of times.
func (s Stroke) Path() path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		k := 0
		for _, cmd := range s.cmds {
			n := pointsPerCommand(cmd)
			if k+n > len(s.pts) {
				return
			}
			if !yield(cmd, s.pts[k:k+n:k+n]) {
				return
			}
			k += n
		}
	}
}

// Bounds returns the smallest rectangle, in page-local coordinates,
// containing all points of the path including control points.
func (s Stroke) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	for i, p := range s.pts {
		if i == 0 {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			continue
		}
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY, len(s.pts) > 0
}

// ErrMalformedPath is returned by [Stroke.Validate] for a path which cannot
// be iterated as a sequence of segments.
var ErrMalformedPath = errors.New("malformed stroke path")

// Validate checks that the path of s starts with a MoveTo, that every
// command carries the right number of points, and that all coordinates are
// finite.  An empty path is valid.
func (s Stroke) Validate() error {
	k := 0
	for i, cmd := range s.cmds {
		n := pointsPerCommand(cmd)
		switch {
		case n == 0 && cmd != path.CmdClose:
			return fmt.Errorf("%w: unknown command %d", ErrMalformedPath, cmd)
		case i == 0 && cmd != path.CmdMoveTo:
			return fmt.Errorf("%w: does not start with MoveTo", ErrMalformedPath)
		case k+n > len(s.pts):
			return fmt.Errorf("%w: missing points", ErrMalformedPath)
		}
		for _, p := range s.pts[k : k+n] {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				return fmt.Errorf("%w: invalid coordinate %v", ErrMalformedPath, p)
			}
		}
		k += n
	}
	if k != len(s.pts) {
		return fmt.Errorf("%w: %d unused points", ErrMalformedPath, len(s.pts)-k)
	}
	return nil
}

func pointsPerCommand(cmd path.Command) int {
	switch cmd {
	case path.CmdMoveTo, path.CmdLineTo:
		return 1
	case path.CmdQuadTo:
		return 2
	case path.CmdCubeTo:
		return 3
	default:
		return 0
	}
}
