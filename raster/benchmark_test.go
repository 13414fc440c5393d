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
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// scribble returns a zig-zag pen stroke across a square canvas.
func scribble(size float64) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		var buf [2]vec.Vec2
		buf[0] = vec.Vec2{X: 0.1 * size, Y: 0.5 * size}
		if !yield(path.CmdMoveTo, buf[:1]) {
			return
		}
		const n = 40
		for i := 1; i <= n; i++ {
			t := float64(i) / n
			x := (0.1 + 0.8*t) * size
			y := (0.5 + 0.3*math.Sin(12*t)) * size
			buf[0] = vec.Vec2{X: x - 0.01*size, Y: y - 0.05*size}
			buf[1] = vec.Vec2{X: x, Y: y}
			if !yield(path.CmdQuadTo, buf[:2]) {
				return
			}
		}
	}
}

func BenchmarkStrokeScribble(b *testing.B) {
	for _, size := range []int{100, 1000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := rect.Rect{URx: float64(size), URy: float64(size)}
			r := NewRasteriser(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			p := scribble(float64(size))

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(clip)
				r.Width = float64(size) / 50
				r.Cap = graphics.LineCapRound
				r.Join = graphics.LineJoinRound
				r.Stroke(p, func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range coverage {
						row[i] = uint8(c * 255)
					}
				})
			}
		})
	}
}

// BenchmarkFillDisc and BenchmarkVectorDisc compare the fill path of
// the rasteriser with golang.org/x/image/vector.
func BenchmarkFillDisc(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := rect.Rect{URx: float64(size), URy: float64(size)}
			r := NewRasteriser(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			c := float64(size) / 2
			p := disc(c, c, 0.45*float64(size))

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(clip)
				r.FillNonZero(p, func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range coverage {
						row[i] = uint8(c * 255)
					}
				})
			}
		})
	}
}

func BenchmarkVectorDisc(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{A: 255})
			c := float32(size) / 2
			rad := 0.45 * float32(size)
			const k = 0.5522847498

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(size, size)
				r.MoveTo(c+rad, c)
				r.CubeTo(c+rad, c+k*rad, c+k*rad, c+rad, c, c+rad)
				r.CubeTo(c-k*rad, c+rad, c-rad, c+k*rad, c-rad, c)
				r.CubeTo(c-rad, c-k*rad, c-k*rad, c-rad, c, c-rad)
				r.CubeTo(c+k*rad, c-rad, c+rad, c-k*rad, c+rad, c)
				r.ClosePath()
				r.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// disc approximates a circle by four cubic Bézier curves.
func disc(cx, cy, rad float64) path.Path {
	const k = 0.5522847498
	d := (&path.Data{}).
		MoveTo(vec.Vec2{X: cx + rad, Y: cy}).
		CubeTo(vec.Vec2{X: cx + rad, Y: cy + k*rad}, vec.Vec2{X: cx + k*rad, Y: cy + rad}, vec.Vec2{X: cx, Y: cy + rad}).
		CubeTo(vec.Vec2{X: cx - k*rad, Y: cy + rad}, vec.Vec2{X: cx - rad, Y: cy + k*rad}, vec.Vec2{X: cx - rad, Y: cy}).
		CubeTo(vec.Vec2{X: cx - rad, Y: cy - k*rad}, vec.Vec2{X: cx - k*rad, Y: cy - rad}, vec.Vec2{X: cx, Y: cy - rad}).
		CubeTo(vec.Vec2{X: cx + k*rad, Y: cy - rad}, vec.Vec2{X: cx + rad, Y: cy - k*rad}, vec.Vec2{X: cx + rad, Y: cy}).
		Close()
	return DataPath(d)
}
