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
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/ink"
	"seehuhn.de/go/ink/source"
	"seehuhn.de/go/ink/testcases"
)

// fakeRenderer returns white bitmaps and records the requested sizes.
type fakeRenderer struct {
	sizes  []image.Point
	failAt int
}

var errRender = errors.New("cannot render")

func (r *fakeRenderer) RenderPage(_ context.Context, _ *source.Document, page, width, height int) (*image.RGBA, error) {
	if page == r.failAt {
		return nil, errRender
	}
	r.sizes = append(r.sizes, image.Pt(width, height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img, nil
}

func TestClampScale(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 1.5},
		{0.5, 1},
		{1, 1},
		{1.25, 1.25},
		{2, 2},
		{5, 2},
		{math.Inf(1), 2},
		{math.Inf(-1), 1},
		{math.NaN(), 1},
	}
	for _, c := range cases {
		if got := ClampScale(c.in); got != c.want {
			t.Errorf("ClampScale(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestRasterScaleClamped(t *testing.T) {
	pages := ink.PageSizes{testcases.Letter, testcases.Square}
	src := writeSource(t, pages)
	geom := ink.NewGeometry(pages, 10)

	run := func(scale float64) []image.Point {
		r := &fakeRenderer{failAt: -1}
		job := &Job{
			Source:   src,
			Geometry: geom,
			Output:   filepath.Join(t.TempDir(), "out.pdf"),
			Scale:    scale,
		}
		_, err := (&RasterCommit{Renderer: r}).Run(context.Background(), job)
		if err != nil {
			t.Fatal(err)
		}
		return r.sizes
	}

	at2 := run(2)
	want := []image.Point{{1224, 1584}, {800, 800}}
	if d := cmp.Diff(want, at2); d != "" {
		t.Errorf("bitmap sizes (-want +got):\n%s", d)
	}
	if d := cmp.Diff(at2, run(5)); d != "" {
		t.Errorf("scale 5 differs from scale 2 (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]image.Point{{918, 1188}, {600, 600}}, run(0)); d != "" {
		t.Errorf("default scale (-want +got):\n%s", d)
	}
}

func TestRasterOutput(t *testing.T) {
	c, err := testcases.Lookup("layout_mixed_sizes")
	if err != nil {
		t.Fatal(err)
	}
	job := &Job{
		Source:   writeSource(t, c.Pages),
		Geometry: ink.NewGeometry(ink.FitWidth(c.Pages, 500), 10),
		Strokes:  c.Strokes(),
		Output:   filepath.Join(t.TempDir(), "out.pdf"),
		Scale:    1,
	}
	res, err := (&RasterCommit{}).Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pages != len(c.Pages) || res.Strokes != len(c.Marks) || res.Mode != "raster" {
		t.Errorf("unexpected result %+v", res)
	}

	out, err := source.Open(context.Background(), res.Output)
	if err != nil {
		t.Fatal(err)
	}
	if out.PageCount() != len(c.Pages) {
		t.Fatalf("got %d pages, want %d", out.PageCount(), len(c.Pages))
	}
	for i, size := range c.Pages {
		w, h := out.PageSize(i)
		if math.Abs(w-size.Width) > 0.5 || math.Abs(h-size.Height) > 0.5 {
			t.Errorf("page %d: %gx%g, want %gx%g", i, w, h, size.Width, size.Height)
		}
	}
}

func TestRasterRenderFailure(t *testing.T) {
	pages := ink.PageSizes{testcases.Letter, testcases.Letter, testcases.Letter}
	outDir := t.TempDir()
	job := &Job{
		Source: writeSource(t, pages),
		Output: filepath.Join(outDir, "out.pdf"),
	}
	r := &fakeRenderer{failAt: 1}
	_, err := (&RasterCommit{Renderer: r}).Run(context.Background(), job)
	if !IsKind(err, KindRenderFailure) {
		t.Fatalf("got %v, want a render-failure error", err)
	}
	var e *Error
	if errors.As(err, &e) && e.Page != 1 {
		t.Errorf("error refers to page %d, want 1", e.Page)
	}
	if !errors.Is(err, errRender) {
		t.Errorf("cause %v is not attached", err)
	}
	if len(r.sizes) != 1 {
		t.Errorf("%d pages rendered before the failure, want 1", len(r.sizes))
	}
}

func TestRasterUnreadableSource(t *testing.T) {
	job := &Job{Source: filepath.Join(t.TempDir(), "missing.pdf")}
	_, err := (&RasterCommit{}).Run(context.Background(), job)
	if !IsKind(err, KindSourceUnreadable) {
		t.Fatalf("got %v, want a source-unreadable error", err)
	}
}

func TestComposite(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	red := ink.Style{Color: ink.RGB{R: 255}, Width: 4}
	blue := ink.Style{Color: ink.RGB{B: 255}, Width: 4}
	h := (&path.Data{}).MoveTo(vec.Vec2{X: 5, Y: 10}).LineTo(vec.Vec2{X: 45, Y: 10})
	v := (&path.Data{}).MoveTo(vec.Vec2{X: 25, Y: 2}).LineTo(vec.Vec2{X: 25, Y: 20})
	strokes := []ink.Stroke{
		ink.NewStroke(0, red, h),
		ink.NewStroke(0, blue, v),
	}

	// page-local units are two pixels wide
	err := Composite(img, strokes, matrix.Scale(2, 2))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		x, y int
		want color.RGBA
	}{
		{20, 20, color.RGBA{255, 0, 0, 255}},     // red line
		{50, 20, color.RGBA{0, 0, 255, 255}},     // crossing, blue is on top
		{50, 30, color.RGBA{0, 0, 255, 255}},     // blue line
		{20, 40, color.RGBA{255, 255, 255, 255}}, // background
		{95, 20, color.RGBA{255, 255, 255, 255}}, // beyond the end cap
	}
	for _, c := range cases {
		if got := img.RGBAAt(c.x, c.y); got != c.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}
