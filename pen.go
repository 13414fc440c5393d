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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Pen turns pointer gestures into strokes.
//
// A gesture starts with [Pen.Down], continues with any number of calls to
// [Pen.Move] and ends with [Pen.Up].  The gesture is anchored to the page
// under the initial pointer position; later points are mapped into that
// page's coordinates even if the pointer leaves the page.
type Pen struct {
	Style Style

	ledger *Ledger
	geom   *Geometry

	active bool
	page   int
	cur    *path.Data
	last   vec.Vec2
}

// NewPen returns a pen which adds finished strokes to l.
func NewPen(l *Ledger, g *Geometry) *Pen {
	return &Pen{
		Style:  DefaultStyle,
		ledger: l,
		geom:   g,
	}
}

// SetGeometry replaces the page layout, for example after the document has
// been reloaded.  A gesture in progress is finished first.
func (p *Pen) SetGeometry(g *Geometry) {
	p.Finish()
	p.geom = g
}

// Down starts a new gesture at the viewer position (x, y).
// It returns false if the position is not over any page.
func (p *Pen) Down(v Viewport, x, y float64) bool {
	p.Finish()

	cx, cy := v.ToContent(x, y)
	page, ok := p.geom.PageAt(cy)
	if !ok {
		return false
	}
	px, py := p.geom.ContentToPage(page, cx, cy)
	if px < 0 || py < 0 || px > p.geom.PageWidth(page) || py > p.geom.PageHeight(page) {
		return false
	}

	p.active = true
	p.page = page
	p.last = vec.Vec2{X: px, Y: py}
	p.cur = (&path.Data{}).MoveTo(p.last)
	return true
}

// Move extends the current gesture to the viewer position (x, y).
// Consecutive points are joined by quadratic curves through the midpoints,
// which smooths the jitter of touch input.
func (p *Pen) Move(v Viewport, x, y float64) {
	if !p.active {
		return
	}
	cx, cy := v.ToContent(x, y)
	px, py := p.geom.ContentToPage(p.page, cx, cy)
	pt := vec.Vec2{X: px, Y: py}
	if pt == p.last {
		return
	}
	mid := vec.Vec2{X: (p.last.X + pt.X) / 2, Y: (p.last.Y + pt.Y) / 2}
	p.cur.QuadTo(p.last, mid)
	p.last = pt
}

// Up ends the current gesture and adds the stroke to the ledger.
func (p *Pen) Up() (Stroke, bool) {
	return p.Finish()
}

// Finish ends a gesture in progress, if any, and adds the resulting stroke
// to the ledger.  It is called when the pen tool is switched off in the
// middle of a gesture.
func (p *Pen) Finish() (Stroke, bool) {
	if !p.active {
		return Stroke{}, false
	}
	p.active = false
	p.cur.LineTo(p.last)
	s := NewStroke(p.page, p.Style, p.cur)
	p.cur = nil
	p.ledger.Add(s)
	return s, true
}

// Active reports whether a gesture is in progress and returns its page.
func (p *Pen) Active() (page int, ok bool) {
	return p.page, p.active
}

// Pending returns the path of the gesture in progress, for live drawing.
func (p *Pen) Pending() (page int, d *path.Data, ok bool) {
	if !p.active {
		return 0, nil, false
	}
	return p.page, p.cur, true
}
