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

package ink

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// DefaultSpacing is the vertical gap between pages, in viewer units.
const DefaultSpacing = 10.0

// PageSizer describes the pages of a document as shown in the viewer.
type PageSizer interface {
	PageCount() int
	PageSize(i int) (width, height float64)
}

// Size is the width and height of a page.
type Size struct {
	Width, Height float64
}

// PageSizes implements [PageSizer] for a fixed list of sizes.
type PageSizes []Size

// PageCount implements the [PageSizer] interface.
func (s PageSizes) PageCount() int { return len(s) }

// PageSize implements the [PageSizer] interface.
func (s PageSizes) PageSize(i int) (float64, float64) { return s[i].Width, s[i].Height }

// FitWidth scales every page of s to the given width, keeping the aspect
// ratio.  This is how the viewer shows documents by default.
func FitWidth(s PageSizer, width float64) PageSizer {
	return fitWidth{s, width}
}

type fitWidth struct {
	PageSizer
	width float64
}

func (f fitWidth) PageSize(i int) (float64, float64) {
	w, h := f.PageSizer.PageSize(i)
	if w <= 0 {
		return f.width, h
	}
	return f.width, h * f.width / w
}

// Geometry describes the layout of all pages in the scrollable viewer
// content: pages are stacked vertically, centred horizontally, and
// separated by a fixed gap.
//
// A Geometry is immutable and can be shared between goroutines.
type Geometry struct {
	width, height []float64
	left, top     []float64
	spacing       float64
	contentWidth  float64
	contentHeight float64
}

// NewGeometry computes the page layout for the given page sizes.
// A document without pages gives an empty geometry.
func NewGeometry(pages PageSizer, spacing float64) *Geometry {
	n := pages.PageCount()
	g := &Geometry{
		width:   make([]float64, n),
		height:  make([]float64, n),
		left:    make([]float64, n),
		top:     make([]float64, n),
		spacing: spacing,
	}
	if n == 0 {
		return g
	}

	maxWidth := 0.0
	for i := range n {
		w, h := pages.PageSize(i)
		g.width[i] = w
		g.height[i] = h
		maxWidth = max(maxWidth, w)
	}

	y := 0.0
	for i := range n {
		g.left[i] = (maxWidth - g.width[i]) / 2
		g.top[i] = y
		y += g.height[i] + spacing
	}
	g.contentWidth = maxWidth
	g.contentHeight = y - spacing
	return g
}

// PageCount returns the number of pages.
func (g *Geometry) PageCount() int { return len(g.width) }

// PageWidth returns the width of page i in viewer units.
func (g *Geometry) PageWidth(i int) float64 { return g.width[i] }

// PageHeight returns the height of page i in viewer units.
func (g *Geometry) PageHeight(i int) float64 { return g.height[i] }

// PageLeft returns the x offset of page i within the content.
func (g *Geometry) PageLeft(i int) float64 { return g.left[i] }

// PageTop returns the y offset of page i within the content.
func (g *Geometry) PageTop(i int) float64 { return g.top[i] }

// Spacing returns the gap between consecutive pages.
func (g *Geometry) Spacing() float64 { return g.spacing }

// ContentWidth returns the width of the widest page.
func (g *Geometry) ContentWidth() float64 { return g.contentWidth }

// ContentHeight returns the total height of all pages and the gaps
// between them.
func (g *Geometry) ContentHeight() float64 { return g.contentHeight }

// Contains reports whether i is a valid page index.
func (g *Geometry) Contains(i int) bool { return i >= 0 && i < len(g.width) }

// ContentToPage converts content coordinates into the page-local
// coordinates of page i.  The result may lie outside the page.
func (g *Geometry) ContentToPage(i int, cx, cy float64) (x, y float64) {
	return cx - g.left[i], cy - g.top[i]
}

// PageToContent converts page-local coordinates of page i into content
// coordinates.
func (g *Geometry) PageToContent(i int, x, y float64) (cx, cy float64) {
	return x + g.left[i], y + g.top[i]
}

// PageAt returns the page shown at content height cy.  Points in the gap
// below a page belong to that page.  The second result is false if the
// document has no pages.
func (g *Geometry) PageAt(cy float64) (int, bool) {
	n := len(g.top)
	if n == 0 {
		return 0, false
	}
	// binary search for the last page with top <= cy
	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if g.top[mid] <= cy {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, true
}

// Viewport is the current scroll and zoom state of the viewer.
// Viewer coordinates are obtained from content coordinates by scaling
// with Zoom and then adding the offset.
type Viewport struct {
	XOffset, YOffset float64
	Zoom             float64
}

// ToContent converts a pointer position in viewer coordinates into
// content coordinates.
func (v Viewport) ToContent(x, y float64) (cx, cy float64) {
	z := v.Zoom
	if z == 0 {
		z = 1
	}
	return (x - v.XOffset) / z, (y - v.YOffset) / z
}

// PageTransform returns the matrix mapping page-local coordinates of
// page i to viewer coordinates.  It is used to draw live strokes on top of
// the rendered pages.
func (g *Geometry) PageTransform(i int, v Viewport) matrix.Matrix {
	z := v.Zoom
	if z == 0 {
		z = 1
	}
	return matrix.Translate(g.left[i], g.top[i]).
		Mul(matrix.Scale(z, z)).
		Mul(matrix.Translate(v.XOffset, v.YOffset))
}

// Apply maps the point v through the affine transformation m.
func Apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}
