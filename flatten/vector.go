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

package flatten

import (
	"context"
	"io"

	"github.com/wudi/pdfkit/ir/semantic"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/ink"
	"seehuhn.de/go/ink/source"
)

// VectorCommit appends strokes to the source document as vector graphics.
//
// Every page keeps its original content streams.  The existing content is
// enclosed in a q/Q pair and one new content stream with the ink is added
// at the end.  Quadratic segments are converted to cubic Bézier curves.
type VectorCommit struct{}

// Name implements the [Strategy] interface.
func (VectorCommit) Name() string { return "vector" }

// Run implements the [Strategy] interface.
func (vc VectorCommit) Run(ctx context.Context, job *Job) (*Result, error) {
	mode := vc.Name()
	log := ink.Logger()

	doc, err := source.Open(ctx, job.Source)
	if err != nil {
		return nil, fail(mode, KindSourceUnreadable, err)
	}
	geom := job.geometry(doc)
	n := min(doc.PageCount(), geom.PageCount())
	pages, count := job.byPage(mode, n)

	for i, strokes := range pages {
		if len(strokes) == 0 {
			continue
		}
		m := PageMatrix(doc, geom, i)
		ops, err := vectorOps(strokes, m)
		if err != nil {
			return nil, failPage(mode, KindMalformedPath, i, err)
		}
		doc.Append(i, ops)
		log.Debug("page done", "mode", mode, "page", i, "strokes", len(strokes))
	}

	out := job.output()
	err = Publish(out, func(w io.Writer) error {
		return doc.Write(ctx, w)
	})
	if err != nil {
		return nil, fail(mode, KindWriteFailure, err)
	}

	res := &Result{
		Output:  out,
		Pages:   doc.PageCount(),
		Strokes: count,
		Mode:    mode,
	}
	return res, nil
}

// PageMatrix returns the transformation from the page-local coordinates of
// page i, as laid out by geom, to PDF user space.  Page-local coordinates
// have the origin in the top-left corner of the visible page area with y
// pointing down.
func PageMatrix(doc *source.Document, geom *ink.Geometry, i int) matrix.Matrix {
	box := doc.Box(i)
	pdfW, pdfH := doc.PageSize(i)
	sx, sy := 1.0, 1.0
	if gw := geom.PageWidth(i); gw > 0 {
		sx = pdfW / gw
	}
	if gh := geom.PageHeight(i); gh > 0 {
		sy = pdfH / gh
	}
	left := min(box.LLX, box.URX)
	bottom := min(box.LLY, box.URY)
	return matrix.Scale(sx, -sy).Mul(matrix.Translate(left, bottom+pdfH))
}

// vectorOps returns the content stream operations which paint the given
// strokes.  Line widths are scaled by the horizontal scale factor of m.
func vectorOps(strokes []ink.Stroke, m matrix.Matrix) ([]semantic.Operation, error) {
	ops := []semantic.Operation{
		op("q"),
		op("J", float64(ink.Cap)),
		op("j", float64(ink.Join)),
	}
	for _, s := range strokes {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if s.IsEmpty() {
			continue
		}
		style := s.Style()
		c := style.Color
		ops = append(ops,
			op("RG", float64(c.R)/255, float64(c.G)/255, float64(c.B)/255),
			op("w", style.Width*m[0]),
		)
		ops = appendPath(ops, s.Path(), m)
		ops = append(ops, op("S"))
	}
	ops = append(ops, op("Q"))
	return ops, nil
}

// appendPath converts a path into path construction operators.  Points are
// mapped through m.
func appendPath(ops []semantic.Operation, p path.Path, m matrix.Matrix) []semantic.Operation {
	var start, cur vec.Vec2
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			q := ink.Apply(m, pts[0])
			ops = append(ops, op("m", q.X, q.Y))
			start, cur = pts[0], pts[0]
		case path.CmdLineTo:
			q := ink.Apply(m, pts[0])
			ops = append(ops, op("l", q.X, q.Y))
			cur = pts[0]
		case path.CmdQuadTo:
			c1, c2 := QuadToCubic(cur, pts[0], pts[1])
			ops = append(ops, curve(m, c1, c2, pts[1]))
			cur = pts[1]
		case path.CmdCubeTo:
			ops = append(ops, curve(m, pts[0], pts[1], pts[2]))
			cur = pts[2]
		case path.CmdClose:
			ops = append(ops, op("h"))
			cur = start
		}
	}
	return ops
}

// QuadToCubic returns the two control points of the cubic Bézier curve
// which traces the same curve as the quadratic Bézier curve with end
// points p0, p2 and control point ctrl.
func QuadToCubic(p0, ctrl, p2 vec.Vec2) (c1, c2 vec.Vec2) {
	c1 = p0.Add(ctrl.Sub(p0).Mul(2.0 / 3))
	c2 = p2.Add(ctrl.Sub(p2).Mul(2.0 / 3))
	return c1, c2
}

func curve(m matrix.Matrix, c1, c2, p vec.Vec2) semantic.Operation {
	a := ink.Apply(m, c1)
	b := ink.Apply(m, c2)
	c := ink.Apply(m, p)
	return op("c", a.X, a.Y, b.X, b.Y, c.X, c.Y)
}

func op(name string, args ...float64) semantic.Operation {
	res := semantic.Operation{Operator: name}
	if len(args) > 0 {
		res.Operands = make([]semantic.Operand, len(args))
		for i, x := range args {
			res.Operands[i] = semantic.NumberOperand{Value: x}
		}
	}
	return res
}
