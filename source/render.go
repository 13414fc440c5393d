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

package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/wudi/pdfkit/contentstream"
	"github.com/wudi/pdfkit/ir/semantic"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/ink"
	"seehuhn.de/go/ink/raster"
)

// Renderer rasterises single pages of a document.
type Renderer interface {
	// RenderPage draws the visible area of the given page so that it
	// exactly fills a bitmap of the given size.
	RenderPage(ctx context.Context, doc *Document, page, width, height int) (*image.RGBA, error)
}

// ContentRenderer renders pages by interpreting their content streams.
//
// Vector graphics (paths, fills, strokes, clipping paths, colours in the
// device colour spaces) and 8-bit RGB, grey and JPEG image XObjects are
// drawn.  Text is not drawn.  Content which cannot be interpreted is reported on the
// package logger and otherwise skipped.
type ContentRenderer struct {
	// Background is the paper colour.  If nil, white is used.
	Background color.Color
}

// RenderPage implements the [Renderer] interface.
func (cr *ContentRenderer) RenderPage(ctx context.Context, doc *Document, page, width, height int) (*image.RGBA, error) {
	if page < 0 || page >= doc.PageCount() {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid bitmap size %dx%d", width, height)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := cr.Background
	if bg == nil {
		bg = color.White
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	p := doc.Page(page)
	box := doc.Box(page)
	bw, bh := doc.PageSize(page)

	// PDF user space, y up, to bitmap pixels, y down
	base := matrix.Translate(-box.LLX, -box.LLY).
		Mul(matrix.Scale(float64(width)/bw, -float64(height)/bh)).
		Mul(matrix.Translate(0, float64(height)))

	it := newInterpreter(img, base, p.Resources)
	var content []byte
	for _, cs := range p.Contents {
		if len(cs.RawBytes) > 0 {
			content = append(content, cs.RawBytes...)
		} else {
			content = append(content, EncodeOperations(cs.Operations)...)
		}
		content = append(content, '\n')
	}
	if err := it.run(ctx, content); err != nil {
		ink.Logger().Warn("page content not fully rendered",
			"page", page, "error", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// gState is the part of the PDF graphics state used for rendering.
type gState struct {
	ctm        matrix.Matrix
	fill       color.RGBA
	stroke     color.RGBA
	width      float64
	cap        graphics.LineCapStyle
	join       graphics.LineJoinStyle
	miterLimit float64

	// clip is the current clipping region, nil for the whole page.
	// Masks are never modified once stored here.
	clip *image.Alpha
}

type interpreter struct {
	canvas *raster.Canvas
	base   matrix.Matrix
	res    *semantic.Resources

	gs    gState
	stack []gState

	path *path.Data
	cur  vec.Vec2

	// set by W and W*, applied by the next painting operator
	clipPending bool
	clipRule    raster.FillRule
}

func newInterpreter(img *image.RGBA, base matrix.Matrix, res *semantic.Resources) *interpreter {
	black := color.RGBA{A: 255}
	return &interpreter{
		canvas: raster.NewCanvas(img),
		base:   base,
		res:    res,
		gs: gState{
			ctm:        matrix.Identity,
			fill:       black,
			stroke:     black,
			width:      1,
			cap:        graphics.LineCapButt,
			join:       graphics.LineJoinMiter,
			miterLimit: 10,
		},
		path: &path.Data{},
	}
}

// handlerFunc adapts a function to the [contentstream.OperatorHandler]
// interface.
type handlerFunc func(args []semantic.Operand) error

func (f handlerFunc) Handle(_ *contentstream.ExecutionContext, args []semantic.Operand) error {
	return f(args)
}

// ignored lists operators which are not rendered.  They are registered so
// that their operands are consumed.
var ignored = []string{
	"BT", "ET", "Tc", "Tw", "Tz", "TL", "Tf", "Tr", "Ts", "Td", "TD", "Tm",
	"T*", "Tj", "TJ", "'", "\"", "d0", "d1",
	"d", "ri", "i", "gs", "sh",
	"BMC", "BDC", "EMC", "MP", "DP", "BX", "EX",
	"BI", "ID", "EI",
}

func (it *interpreter) run(ctx context.Context, content []byte) error {
	proc := contentstream.NewProcessor()
	for _, op := range ignored {
		proc.RegisterHandler(op, handlerFunc(func([]semantic.Operand) error { return nil }))
	}
	ops := map[string]handlerFunc{
		"q":  it.save,
		"Q":  it.restore,
		"cm": it.concat,
		"w":  it.setWidth,
		"J":  it.setCap,
		"j":  it.setJoin,
		"M":  it.setMiterLimit,

		"g":   it.color(false, 1),
		"G":   it.color(true, 1),
		"rg":  it.color(false, 3),
		"RG":  it.color(true, 3),
		"k":   it.color(false, 4),
		"K":   it.color(true, 4),
		"sc":  it.color(false, 0),
		"scn": it.color(false, 0),
		"SC":  it.color(true, 0),
		"SCN": it.color(true, 0),
		"cs":  it.colorSpace(false),
		"CS":  it.colorSpace(true),

		"m":  it.moveTo,
		"l":  it.lineTo,
		"c":  it.curveTo("c"),
		"v":  it.curveTo("v"),
		"y":  it.curveTo("y"),
		"h":  it.closePath,
		"re": it.rectangle,

		"S":  it.paint(false, false, true, raster.NonZero),
		"s":  it.paint(true, false, true, raster.NonZero),
		"f":  it.paint(false, true, false, raster.NonZero),
		"F":  it.paint(false, true, false, raster.NonZero),
		"f*": it.paint(false, true, false, raster.EvenOdd),
		"B":  it.paint(false, true, true, raster.NonZero),
		"B*": it.paint(false, true, true, raster.EvenOdd),
		"b":  it.paint(true, true, true, raster.NonZero),
		"b*": it.paint(true, true, true, raster.EvenOdd),
		"n":  it.endPath,
		"W":  it.setClip(raster.NonZero),
		"W*": it.setClip(raster.EvenOdd),

		"Do": it.doXObject,
	}
	for name, h := range ops {
		proc.RegisterHandler(name, h)
	}

	return proc.Process(ctx, content, &contentstream.GraphicsState{})
}

// numbers extracts exactly n numeric operands; n < 0 accepts any count.
func numbers(args []semantic.Operand, n int) ([]float64, error) {
	if n >= 0 && len(args) != n {
		return nil, fmt.Errorf("expected %d operands, got %d", n, len(args))
	}
	res := make([]float64, len(args))
	for i, a := range args {
		num, ok := a.(semantic.NumberOperand)
		if !ok {
			return nil, fmt.Errorf("operand %d is a %s, not a number", i, a.Type())
		}
		res[i] = num.Value
	}
	return res, nil
}

func (it *interpreter) save([]semantic.Operand) error {
	it.stack = append(it.stack, it.gs)
	return nil
}

func (it *interpreter) restore([]semantic.Operand) error {
	n := len(it.stack)
	if n == 0 {
		return errors.New("unbalanced Q")
	}
	it.gs = it.stack[n-1]
	it.stack = it.stack[:n-1]
	return nil
}

func (it *interpreter) concat(args []semantic.Operand) error {
	x, err := numbers(args, 6)
	if err != nil {
		return err
	}
	m := matrix.Matrix{x[0], x[1], x[2], x[3], x[4], x[5]}
	it.gs.ctm = m.Mul(it.gs.ctm)
	return nil
}

func (it *interpreter) setWidth(args []semantic.Operand) error {
	x, err := numbers(args, 1)
	if err != nil {
		return err
	}
	it.gs.width = x[0]
	return nil
}

func (it *interpreter) setCap(args []semantic.Operand) error {
	x, err := numbers(args, 1)
	if err != nil {
		return err
	}
	it.gs.cap = graphics.LineCapStyle(x[0])
	return nil
}

func (it *interpreter) setJoin(args []semantic.Operand) error {
	x, err := numbers(args, 1)
	if err != nil {
		return err
	}
	it.gs.join = graphics.LineJoinStyle(x[0])
	return nil
}

func (it *interpreter) setMiterLimit(args []semantic.Operand) error {
	x, err := numbers(args, 1)
	if err != nil {
		return err
	}
	it.gs.miterLimit = x[0]
	return nil
}

// color returns a handler setting the fill or stroke colour from n grey,
// RGB or CMYK components.  For n == 0 the number of numeric operands
// decides; a trailing pattern name is ignored.
func (it *interpreter) color(stroking bool, n int) handlerFunc {
	return func(args []semantic.Operand) error {
		if n == 0 {
			if k := len(args); k > 0 {
				if _, isName := args[k-1].(semantic.NameOperand); isName {
					args = args[:k-1]
				}
			}
		}
		want := n
		if n == 0 {
			want = -1
		}
		x, err := numbers(args, want)
		if err != nil {
			return err
		}

		var c color.RGBA
		switch len(x) {
		case 1:
			g := unit(x[0])
			c = color.RGBA{R: g, G: g, B: g, A: 255}
		case 3:
			c = color.RGBA{R: unit(x[0]), G: unit(x[1]), B: unit(x[2]), A: 255}
		case 4:
			k := 1 - clamp01(x[3])
			c = color.RGBA{
				R: unit((1 - clamp01(x[0])) * k),
				G: unit((1 - clamp01(x[1])) * k),
				B: unit((1 - clamp01(x[2])) * k),
				A: 255,
			}
		default:
			return nil // pattern or unsupported colour space
		}
		if stroking {
			it.gs.stroke = c
		} else {
			it.gs.fill = c
		}
		return nil
	}
}

// colorSpace handles cs/CS.  Selecting a colour space resets the colour to
// black.
func (it *interpreter) colorSpace(stroking bool) handlerFunc {
	return func([]semantic.Operand) error {
		black := color.RGBA{A: 255}
		if stroking {
			it.gs.stroke = black
		} else {
			it.gs.fill = black
		}
		return nil
	}
}

func (it *interpreter) moveTo(args []semantic.Operand) error {
	x, err := numbers(args, 2)
	if err != nil {
		return err
	}
	it.cur = vec.Vec2{X: x[0], Y: x[1]}
	it.path.MoveTo(it.cur)
	return nil
}

func (it *interpreter) lineTo(args []semantic.Operand) error {
	x, err := numbers(args, 2)
	if err != nil {
		return err
	}
	if len(it.path.Cmds) == 0 {
		return errors.New("l without current point")
	}
	it.cur = vec.Vec2{X: x[0], Y: x[1]}
	it.path.LineTo(it.cur)
	return nil
}

func (it *interpreter) curveTo(op string) handlerFunc {
	want := 6
	if op != "c" {
		want = 4
	}
	return func(args []semantic.Operand) error {
		x, err := numbers(args, want)
		if err != nil {
			return err
		}
		if len(it.path.Cmds) == 0 {
			return fmt.Errorf("%s without current point", op)
		}
		var p1, p2, p3 vec.Vec2
		switch op {
		case "c":
			p1 = vec.Vec2{X: x[0], Y: x[1]}
			p2 = vec.Vec2{X: x[2], Y: x[3]}
			p3 = vec.Vec2{X: x[4], Y: x[5]}
		case "v":
			p1 = it.cur
			p2 = vec.Vec2{X: x[0], Y: x[1]}
			p3 = vec.Vec2{X: x[2], Y: x[3]}
		case "y":
			p1 = vec.Vec2{X: x[0], Y: x[1]}
			p2 = vec.Vec2{X: x[2], Y: x[3]}
			p3 = p2
		}
		it.path.CubeTo(p1, p2, p3)
		it.cur = p3
		return nil
	}
}

func (it *interpreter) closePath([]semantic.Operand) error {
	if len(it.path.Cmds) > 0 {
		it.path.Close()
	}
	return nil
}

func (it *interpreter) rectangle(args []semantic.Operand) error {
	x, err := numbers(args, 4)
	if err != nil {
		return err
	}
	x0, y0, w, h := x[0], x[1], x[2], x[3]
	it.path.MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x0 + w, Y: y0}).
		LineTo(vec.Vec2{X: x0 + w, Y: y0 + h}).
		LineTo(vec.Vec2{X: x0, Y: y0 + h}).
		Close()
	it.cur = vec.Vec2{X: x0, Y: y0}
	return nil
}

func (it *interpreter) paint(close, fill, stroke bool, rule raster.FillRule) handlerFunc {
	return func([]semantic.Operand) error {
		if close && len(it.path.Cmds) > 0 {
			it.path.Close()
		}
		c := it.canvas
		c.CTM = it.gs.ctm.Mul(it.base)
		c.Mask = it.gs.clip
		p := raster.DataPath(it.path)
		if fill {
			c.Fill(p, rule, it.gs.fill)
		}
		if stroke {
			c.Width = it.gs.width
			c.Cap = it.gs.cap
			c.Join = it.gs.join
			c.MiterLimit = it.gs.miterLimit
			c.Stroke(p, it.gs.stroke)
		}
		it.finishPath()
		return nil
	}
}

func (it *interpreter) endPath([]semantic.Operand) error {
	it.finishPath()
	return nil
}

// setClip handles W and W*.  The clipping path takes effect after the
// next painting operator.
func (it *interpreter) setClip(rule raster.FillRule) handlerFunc {
	return func([]semantic.Operand) error {
		it.clipPending = true
		it.clipRule = rule
		return nil
	}
}

// finishPath ends the current path, intersecting it with the clipping
// region if W or W* was used.
func (it *interpreter) finishPath() {
	if it.clipPending {
		c := it.canvas
		c.CTM = it.gs.ctm.Mul(it.base)
		it.gs.clip = c.ClipMask(raster.DataPath(it.path), it.clipRule, it.gs.clip)
		it.clipPending = false
	}
	it.path = &path.Data{}
}

// doXObject draws an image XObject.  The image occupies the unit square
// of user space.
func (it *interpreter) doXObject(args []semantic.Operand) error {
	if len(args) != 1 {
		return fmt.Errorf("Do: expected 1 operand, got %d", len(args))
	}
	name, ok := args[0].(semantic.NameOperand)
	if !ok {
		return errors.New("Do: operand is not a name")
	}
	if it.res == nil || it.res.XObjects == nil {
		return fmt.Errorf("Do: unknown XObject /%s", name.Value)
	}
	xo, ok := it.res.XObjects[name.Value]
	if !ok {
		return fmt.Errorf("Do: unknown XObject /%s", name.Value)
	}
	if xo.Subtype != "Image" {
		ink.Logger().Debug("skipping XObject", "name", name.Value, "subtype", xo.Subtype)
		return nil
	}

	src, err := decodeImage(&xo)
	if err != nil {
		ink.Logger().Warn("skipping image", "name", name.Value, "error", err)
		return nil
	}

	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	// image pixels to the unit square (row 0 at the top), then to device
	m := matrix.Matrix{1 / w, 0, 0, -1 / h, 0, 1}.Mul(it.gs.ctm).Mul(it.base)
	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	var opts *xdraw.Options
	if it.gs.clip != nil {
		opts = &xdraw.Options{DstMask: it.gs.clip}
	}
	xdraw.BiLinear.Transform(it.canvas.Dst, aff, src, b, xdraw.Over, opts)
	return nil
}

func decodeImage(xo *semantic.XObject) (image.Image, error) {
	if xo.Filter == "DCTDecode" {
		return jpeg.Decode(bytes.NewReader(xo.Data))
	}
	if xo.BitsPerComponent != 8 || xo.Width <= 0 || xo.Height <= 0 {
		return nil, fmt.Errorf("unsupported image format (%d bits)", xo.BitsPerComponent)
	}

	csName := ""
	if xo.ColorSpace != nil {
		csName = xo.ColorSpace.ColorSpaceName()
	}
	n := xo.Width * xo.Height
	switch csName {
	case "DeviceRGB":
		if len(xo.Data) < 3*n {
			return nil, errors.New("short image data")
		}
		img := image.NewRGBA(image.Rect(0, 0, xo.Width, xo.Height))
		for i := range n {
			copy(img.Pix[4*i:4*i+3], xo.Data[3*i:3*i+3])
			img.Pix[4*i+3] = 255
		}
		return img, nil
	case "DeviceGray":
		if len(xo.Data) < n {
			return nil, errors.New("short image data")
		}
		img := image.NewGray(image.Rect(0, 0, xo.Width, xo.Height))
		copy(img.Pix, xo.Data[:n])
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported colour space %q", csName)
	}
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

func unit(x float64) uint8 {
	return uint8(clamp01(x)*255 + 0.5)
}
