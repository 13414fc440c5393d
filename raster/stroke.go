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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// polyline is a flattened subpath, as a range of points in r.line.
type polyline struct {
	start, end int
	closed     bool
}

// Stroke rasterises the outline of the path using Width, Cap, Join and
// MiterLimit.
//
// The outline is assembled from one quadrilateral per line segment plus
// separate polygons for the caps and joins, all oriented the same way and
// filled together with the nonzero rule.  Overlaps therefore never show,
// even for self-intersecting paths.
func (r *Rasteriser) Stroke(p path.Path, emit EmitFunc) {
	r.flattenSubpaths(p)
	r.edges = r.edges[:0]

	d := r.Width / 2
	if d <= 0 {
		// a zero width stroke is one device pixel wide
		d = 0.5 / math.Sqrt(math.Abs(r.CTM[0]*r.CTM[3]-r.CTM[1]*r.CTM[2]))
	}

	for _, sp := range r.subpaths {
		pts := r.line[sp.start:sp.end]
		if len(pts) == 1 {
			if r.Cap == graphics.LineCapRound {
				r.addDisc(pts[0], d)
			}
			continue
		}

		n := len(pts) - 1
		for i := range n {
			r.addSegmentQuad(pts[i], pts[i+1], d)
		}
		for i := 1; i < n; i++ {
			r.addJoin(pts[i-1], pts[i], pts[i+1], d)
		}
		if sp.closed {
			// pts[n] == pts[0]
			r.addJoin(pts[n-1], pts[0], pts[1], d)
		} else {
			r.addCap(pts[0], pts[1], d)
			r.addCap(pts[n], pts[n-1], d)
		}
	}

	r.sweep(NonZero, emit)
}

// flattenSubpaths converts the path into polylines, dropping repeated
// points.  A closed subpath repeats its first point at the end.
func (r *Rasteriser) flattenSubpaths(p path.Path) {
	r.line = r.line[:0]
	r.subpaths = r.subpaths[:0]

	start := -1
	drew := false
	finish := func(closed bool) {
		if start >= 0 && drew {
			if closed && len(r.line)-start > 1 && r.line[len(r.line)-1] != r.line[start] {
				r.line = append(r.line, r.line[start])
			}
			r.subpaths = append(r.subpaths, polyline{
				start:  start,
				end:    len(r.line),
				closed: closed && len(r.line)-start > 2,
			})
		} else if start >= 0 {
			r.line = r.line[:start]
		}
		start = -1
		drew = false
	}
	begin := func(pt vec.Vec2) {
		if start < 0 {
			start = len(r.line)
			r.line = append(r.line, pt)
		}
		drew = true
	}
	add := func(_, b vec.Vec2) {
		if r.line[len(r.line)-1] != b {
			r.line = append(r.line, b)
		}
	}

	var first, cur vec.Vec2
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			cur, first = pts[0], pts[0]
			start = len(r.line)
			r.line = append(r.line, cur)
		case path.CmdLineTo:
			begin(cur)
			add(cur, pts[0])
			cur = pts[0]
		case path.CmdQuadTo:
			begin(cur)
			r.flattenQuadratic(cur, pts[0], pts[1], add)
			cur = pts[1]
		case path.CmdCubeTo:
			begin(cur)
			r.flattenCubic(cur, pts[0], pts[1], pts[2], add)
			cur = pts[2]
		case path.CmdClose:
			finish(true)
			cur = first
		}
	}
	finish(false)
}

// addSegmentQuad adds the rectangle of half-width d around the segment a-b.
func (r *Rasteriser) addSegmentQuad(a, b vec.Vec2, d float64) {
	n := normal(a, b).Mul(d)
	r.addPolygon(a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
}

// addJoin fills the gap between the segments a-p and p-b on the outer
// side of the corner at p.
func (r *Rasteriser) addJoin(a, p, b vec.Vec2, d float64) {
	if r.Join == graphics.LineJoinRound {
		r.addDisc(p, d)
		return
	}

	n1 := normal(a, p)
	n2 := normal(p, b)
	t1 := p.Sub(a)
	t2 := b.Sub(p)
	cross := t1.X*t2.Y - t1.Y*t2.X
	if math.Abs(cross) < 1e-12*t1.Length()*t2.Length() {
		return
	}
	// the outer side is opposite to the direction of the turn
	s := d
	if cross > 0 {
		s = -d
	}
	o1 := p.Add(n1.Mul(s))
	o2 := p.Add(n2.Mul(s))

	if r.Join == graphics.LineJoinMiter {
		bis := n1.Add(n2)
		cosHalf := bis.Length() / 2
		if cosHalf > 0 && 1/cosHalf <= r.MiterLimit {
			tip := p.Add(bis.Mul(s / (2 * cosHalf * cosHalf)))
			r.addPolygon(p, o1, tip, o2)
			return
		}
	}
	r.addPolygon(p, o1, o2)
}

// addCap adds the cap at the end point p of the segment q-p.
func (r *Rasteriser) addCap(p, q vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addDisc(p, d)
	case graphics.LineCapSquare:
		n := normal(q, p).Mul(d)
		t := p.Sub(q)
		t = t.Mul(d / t.Length())
		r.addPolygon(p.Add(n), p.Add(n).Add(t), p.Sub(n).Add(t), p.Sub(n))
	}
}

// addDisc adds a polygon approximating the circle of radius d around c.
// The number of vertices keeps the device space error below Flatness.
func (r *Rasteriser) addDisc(c vec.Vec2, d float64) {
	rDev := max(r.linear(vec.Vec2{X: d}).Length(), r.linear(vec.Vec2{Y: d}).Length())
	n := 8
	if rDev > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/rDev)
		n = max(n, int(math.Ceil(2*math.Pi/step)))
	}

	r.poly = r.poly[:0]
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, vec.Vec2{
			X: c.X + d*math.Cos(phi),
			Y: c.Y + d*math.Sin(phi),
		})
	}
	r.addPolygonSlice(r.poly)
}

func (r *Rasteriser) addPolygon(pts ...vec.Vec2) {
	r.addPolygonSlice(pts)
}

// addPolygonSlice adds the edges of a closed polygon.  All polygons are
// added with positive orientation in user space, so that overlapping
// pieces of the outline add up under the nonzero rule.
func (r *Rasteriser) addPolygonSlice(pts []vec.Vec2) {
	n := len(pts)
	if n < 3 {
		return
	}
	var a2 float64
	for i := range n {
		p, q := pts[i], pts[(i+1)%n]
		a2 += p.X*q.Y - q.X*p.Y
	}
	if a2 > 0 {
		for i := range n {
			r.addEdge(pts[i], pts[(i+1)%n])
		}
	} else if a2 < 0 {
		for i := n - 1; i >= 0; i-- {
			r.addEdge(pts[(i+1)%n], pts[i])
		}
	}
}

// normal returns the unit normal, 90° counter-clockwise from the direction
// of a-b.
func normal(a, b vec.Vec2) vec.Vec2 {
	t := b.Sub(a)
	l := t.Length()
	return vec.Vec2{X: -t.Y / l, Y: t.X / l}
}
