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

// Package raster implements an anti-aliased scanline rasteriser for
// filling and stroking paths, and a Canvas which composites the resulting
// coverage onto an RGBA image.
//
// Coverage is computed exactly from the signed area covered by the path
// in each pixel, using the cover/area accumulation scheme known from
// font rasterisers.
package raster

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// FillRule selects how the interior of a path is determined.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// EmitFunc receives the coverage of one pixel row.  coverage[i] is the
// coverage of pixel (xMin+i, y), in the range [0, 1].  The slice is only
// valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// Rasteriser converts paths into per-pixel coverage values.
//
// The zero value is not usable, use [NewRasteriser].  A Rasteriser keeps
// its buffers between calls and must not be used concurrently.
type Rasteriser struct {
	// CTM maps user space to device space.  Must be non-singular.
	CTM matrix.Matrix

	// Clip is the device space rectangle outside of which no coverage is
	// emitted.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the line segments used to approximate it.
	Flatness float64

	// Stroke parameters, in user space.
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	edges     []edge
	active    []int
	cover     []float32
	area      []float32
	crossings []float64

	// stroking
	poly     []vec.Vec2
	line     []vec.Vec2
	subpaths []polyline
}

// edge is a non-horizontal line segment in device space, stored with
// yTop < yBot.
type edge struct {
	xTop, yTop float64
	yBot       float64
	dxdy       float64
	dir        float32 // +1 if the original segment pointed down, -1 if up
}

func (e *edge) xAt(y float64) float64 {
	return e.xTop + e.dxdy*(y-e.yTop)
}

const (
	defaultFlatness   = 0.25
	defaultMiterLimit = 10.0

	// edges with a smaller vertical extent do not contribute coverage
	horizontalEps = 1e-10
)

// NewRasteriser returns a rasteriser with the identity CTM, the given
// clip rectangle and PDF default values for the stroke parameters.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	r := &Rasteriser{}
	r.Reset(clip)
	return r
}

// Reset restores all parameters to their defaults, keeping the allocated
// buffers.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit

	r.edges = r.edges[:0]
	r.active = r.active[:0]
	r.crossings = r.crossings[:0]
	r.poly = r.poly[:0]
	r.line = r.line[:0]
	r.subpaths = r.subpaths[:0]
}

// FillNonZero fills the path using the nonzero winding rule.
func (r *Rasteriser) FillNonZero(p path.Path, emit EmitFunc) {
	r.Fill(p, NonZero, emit)
}

// FillEvenOdd fills the path using the even-odd rule.
func (r *Rasteriser) FillEvenOdd(p path.Path, emit EmitFunc) {
	r.Fill(p, EvenOdd, emit)
}

// Fill fills the path with the given rule.  Open subpaths are closed
// implicitly.
func (r *Rasteriser) Fill(p path.Path, rule FillRule, emit EmitFunc) {
	r.edges = r.edges[:0]

	var cur, start vec.Vec2
	open := false
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if open && cur != start {
				r.addEdge(cur, start)
			}
			cur, start = pts[0], pts[0]
			open = true
		case path.CmdLineTo:
			r.addEdge(cur, pts[0])
			cur = pts[0]
		case path.CmdQuadTo:
			r.flattenQuadratic(cur, pts[0], pts[1], r.addEdge)
			cur = pts[1]
		case path.CmdCubeTo:
			r.flattenCubic(cur, pts[0], pts[1], pts[2], r.addEdge)
			cur = pts[2]
		case path.CmdClose:
			if cur != start {
				r.addEdge(cur, start)
			}
			cur = start
		}
	}
	if open && cur != start {
		r.addEdge(cur, start)
	}

	r.sweep(rule, emit)
}

// device maps a user space point to device space.
func (r *Rasteriser) device(p vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// linear applies the CTM without the translation part.
func (r *Rasteriser) linear(v vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}

// addEdge adds the user space segment a-b to the edge list.
func (r *Rasteriser) addEdge(a, b vec.Vec2) {
	p0 := r.device(a)
	p1 := r.device(b)
	dy := p1.Y - p0.Y
	if math.Abs(dy) < horizontalEps {
		return
	}

	e := edge{dxdy: (p1.X - p0.X) / dy, dir: 1}
	if dy < 0 {
		p0, p1 = p1, p0
		e.dir = -1
	}
	e.xTop, e.yTop, e.yBot = p0.X, p0.Y, p1.Y
	r.edges = append(r.edges, e)
}

// flattenQuadratic approximates the quadratic Bézier curve p0, p1, p2 by
// line segments.  The number of segments is chosen from the device space
// deviation (p0 - 2p1 + p2)/4 of the curve from its chord.
func (r *Rasteriser) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(a, b vec.Vec2)) {
	dev := r.linear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic approximates a cubic Bézier curve by line segments, using
// Wang's formula n = ceil(sqrt(3m / (4ε))) for the number of segments.
func (r *Rasteriser) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(a, b vec.Vec2)) {
	d1 := r.linear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := r.linear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(d1, d2); m > 0 {
		if k := math.Sqrt(3 * m / (4 * r.Flatness)); k > 1 {
			n = int(math.Ceil(k))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		emit(prev, pt)
		prev = pt
	}
}

// sweep converts the edge list into coverage, one scanline at a time,
// using an active edge list.
func (r *Rasteriser) sweep(rule FillRule, emit EmitFunc) {
	if len(r.edges) == 0 {
		return
	}

	xMinF, xMaxF := math.Inf(+1), math.Inf(-1)
	yMinF, yMaxF := math.Inf(+1), math.Inf(-1)
	for i := range r.edges {
		e := &r.edges[i]
		xb := e.xAt(e.yBot)
		xMinF = min(xMinF, e.xTop, xb)
		xMaxF = max(xMaxF, e.xTop, xb)
		yMinF = min(yMinF, e.yTop)
		yMaxF = max(yMaxF, e.yBot)
	}

	xMin := max(int(math.Floor(xMinF)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(xMaxF))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(yMinF)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(yMaxF))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}
	width := xMax - xMin

	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		switch {
		case a.yTop < b.yTop:
			return -1
		case a.yTop > b.yTop:
			return 1
		}
		return 0
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top := float64(y)
		bot := float64(y + 1)

		for next < len(r.edges) && r.edges[next].yTop < bot {
			r.active = append(r.active, next)
			next++
		}
		r.active = slices.DeleteFunc(r.active, func(i int) bool {
			return r.edges[i].yBot <= top
		})
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, i := range r.active {
			r.accumulate(&r.edges[i], top, bot, xMin, xMax)
		}

		if rule == NonZero {
			integrateNonZero(r.cover, r.area)
		} else {
			integrateEvenOdd(r.cover, r.area)
		}
		if row, offs := trimZeros(r.cover); row != nil {
			emit(y, xMin+offs, row)
		}
	}
}

// accumulate adds the contribution of the part of e between top and bot
// to the cover and area buffers.
//
// A piece of an edge with vertical extent dy, crossing pixel column x at
// horizontal position x+f, adds dir·dy to cover[x] and dir·dy·(1-f) to
// area[x].  Integrating from left to right then gives the signed area
// covered in each pixel.
func (r *Rasteriser) accumulate(e *edge, top, bot float64, xMin, xMax int) {
	y0 := max(top, e.yTop)
	y1 := min(bot, e.yBot)
	if y1 <= y0 {
		return
	}

	xa, xb := e.xAt(y0), e.xAt(y1)
	lo, hi := min(xa, xb), max(xa, xb)

	// split the piece where it crosses vertical pixel boundaries
	r.crossings = append(r.crossings[:0], y0, y1)
	if math.Floor(lo) != math.Floor(hi) {
		for x := math.Floor(lo) + 1; x <= hi; x++ {
			yc := e.yTop + (x-e.xTop)/e.dxdy
			if yc > y0 && yc < y1 {
				r.crossings = append(r.crossings, yc)
			}
		}
		slices.Sort(r.crossings)
	}

	for k := 1; k < len(r.crossings); k++ {
		ya, yb := r.crossings[k-1], r.crossings[k]
		if yb <= ya {
			continue
		}
		c := e.dir * float32(yb-ya)
		xm := e.xAt((ya + yb) / 2)
		pix := int(math.Floor(xm))
		switch {
		case pix < xMin:
			r.cover[0] += c
			r.area[0] += c
		case pix < xMax:
			i := pix - xMin
			r.cover[i] += c
			r.area[i] += c * float32(1-(xm-float64(pix)))
		}
	}
}

// coverageEpsilon is the rounding noise left by the accumulation buffers.
// Coverage below this value is reported as zero.
const coverageEpsilon = 1e-6

// integrateNonZero turns the accumulated buffers into nonzero coverage,
// in place in cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		if v < coverageEpsilon {
			v = 0
		}
		cover[i] = min(v, 1)
	}
}

// integrateEvenOdd turns the accumulated buffers into even-odd coverage,
// in place in cover.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		v -= 2 * float32(int(v/2))
		if v > 1 {
			v = 2 - v
		}
		if v < coverageEpsilon {
			v = 0
		}
		cover[i] = v
	}
}

// trimZeros strips leading and trailing zeros.  It returns nil if all
// values are zero.
func trimZeros(row []float32) ([]float32, int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	for hi > lo && row[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return row[lo:hi], lo
}
