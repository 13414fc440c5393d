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
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/ink"
	"seehuhn.de/go/ink/raster"
	"seehuhn.de/go/ink/source"
)

// Limits for the oversampling factor of [RasterCommit].
const (
	MinScale     = 1.0
	MaxScale     = 2.0
	DefaultScale = 1.5
)

// ClampScale restricts a requested oversampling factor to the supported
// range.  Zero selects [DefaultScale] and NaN is treated as [MinScale].
func ClampScale(s float64) float64 {
	switch {
	case s == 0:
		return DefaultScale
	case math.IsNaN(s):
		return MinScale
	}
	return min(max(s, MinScale), MaxScale)
}

// RasterCommit creates a new document in which every page is an image of
// the corresponding source page with the strokes painted on top.
//
// Pages are rendered at the geometry size multiplied by the job's scale
// factor and then placed into a page of the original size, so that the
// oversampled bitmap is scaled down by the PDF viewer.  Only one page
// bitmap is held in memory at a time.
type RasterCommit struct {
	// Renderer is used to draw the source pages.  If nil, a
	// [source.ContentRenderer] is used.
	Renderer source.Renderer
}

// Name implements the [Strategy] interface.
func (rc *RasterCommit) Name() string { return "raster" }

// Run implements the [Strategy] interface.
func (rc *RasterCommit) Run(ctx context.Context, job *Job) (*Result, error) {
	mode := rc.Name()
	log := ink.Logger()

	renderer := rc.Renderer
	if renderer == nil {
		renderer = &source.ContentRenderer{}
	}

	doc, err := source.Open(ctx, job.Source)
	if err != nil {
		return nil, fail(mode, KindSourceUnreadable, err)
	}
	numPages := doc.PageCount()
	if numPages == 0 {
		return nil, fail(mode, KindSourceUnreadable, source.ErrNoPages)
	}
	geom := job.geometry(doc)
	pages, count := job.byPage(mode, min(numPages, geom.PageCount()))
	scale := ClampScale(job.Scale)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)

	buf := &bytes.Buffer{}
	for i := range numPages {
		pdfW, pdfH := doc.PageSize(i)
		gw, gh := pdfW, pdfH
		var strokes []ink.Stroke
		if i < len(pages) {
			gw, gh = geom.PageWidth(i), geom.PageHeight(i)
			strokes = pages[i]
		}
		w := max(1, int(math.Round(gw*scale)))
		h := max(1, int(math.Round(gh*scale)))

		img, err := renderer.RenderPage(ctx, doc, i, w, h)
		if err != nil {
			return nil, failPage(mode, KindRenderFailure, i, err)
		}

		sx, sy := 1.0, 1.0
		if gw > 0 {
			sx = float64(w) / gw
		}
		if gh > 0 {
			sy = float64(h) / gh
		}
		err = Composite(img, strokes, matrix.Scale(sx, sy))
		if err != nil {
			return nil, failPage(mode, KindMalformedPath, i, err)
		}

		buf.Reset()
		err = png.Encode(buf, img)
		if err != nil {
			return nil, failPage(mode, KindRenderFailure, i, err)
		}

		name := fmt.Sprintf("page%d", i)
		opt := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pdfW, Ht: pdfH})
		pdf.RegisterImageOptionsReader(name, opt, buf)
		pdf.ImageOptions(name, 0, 0, pdfW, pdfH, false, opt, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, failPage(mode, KindWriteFailure, i, err)
		}
		log.Debug("page done", "mode", mode, "page", i,
			"bitmap", fmt.Sprintf("%dx%d", w, h), "strokes", len(strokes))
	}

	out := job.output()
	err = Publish(out, func(w io.Writer) error {
		return pdf.Output(w)
	})
	if err != nil {
		return nil, fail(mode, KindWriteFailure, err)
	}

	res := &Result{
		Output:  out,
		Pages:   numPages,
		Strokes: count,
		Mode:    mode,
	}
	return res, nil
}

// Composite paints the strokes onto dst in the given order.  The matrix m
// maps page-local coordinates to pixel coordinates of dst.
func Composite(dst *image.RGBA, strokes []ink.Stroke, m matrix.Matrix) error {
	if len(strokes) == 0 {
		return nil
	}
	c := raster.NewCanvas(dst)
	for _, s := range strokes {
		if err := s.Validate(); err != nil {
			return err
		}
		c.Reset(c.Clip)
		c.CTM = m
		c.Cap = ink.Cap
		c.Join = ink.Join
		c.Width = s.Style().Width
		c.Stroke(s.Path(), s.Style().Color)
	}
	return nil
}
