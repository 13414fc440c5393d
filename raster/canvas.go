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
	"image"
	"image/color"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// Canvas paints filled and stroked paths onto an RGBA image.
//
// The embedded Rasteriser holds the CTM and stroke parameters; the device
// space of the rasteriser coincides with the pixel coordinates of Dst.
type Canvas struct {
	*Rasteriser
	Dst *image.RGBA

	// Mask, if not nil, limits painting to the pixels where it is opaque.
	// It must have the same bounds as Dst.
	Mask *image.Alpha
}

// NewCanvas returns a canvas drawing onto dst, clipped to its bounds.
func NewCanvas(dst *image.RGBA) *Canvas {
	b := dst.Bounds()
	clip := rect.Rect{
		LLx: float64(b.Min.X),
		LLy: float64(b.Min.Y),
		URx: float64(b.Max.X),
		URy: float64(b.Max.Y),
	}
	return &Canvas{
		Rasteriser: NewRasteriser(clip),
		Dst:        dst,
	}
}

// Fill paints the interior of p with colour col.
func (c *Canvas) Fill(p path.Path, rule FillRule, col color.Color) {
	c.Rasteriser.Fill(p, rule, c.blender(col))
}

// Stroke paints the outline of p with colour col.
func (c *Canvas) Stroke(p path.Path, col color.Color) {
	c.Rasteriser.Stroke(p, c.blender(col))
}

// ClipMask rasterises p with the current CTM and returns a new mask for
// its interior, intersected with prev.  If prev is nil, only p is used.
// The mask can be stored in [Canvas.Mask].
func (c *Canvas) ClipMask(p path.Path, rule FillRule, prev *image.Alpha) *image.Alpha {
	mask := image.NewAlpha(c.Dst.Bounds())
	c.Rasteriser.Fill(p, rule, func(y, xMin int, coverage []float32) {
		row := mask.Pix[mask.PixOffset(xMin, y):]
		var old []uint8
		if prev != nil {
			old = prev.Pix[prev.PixOffset(xMin, y):]
		}
		for i, cov := range coverage {
			if old != nil {
				cov *= float32(old[i]) / 255
			}
			row[i] = to8(cov)
		}
	})
	return mask
}

// blender returns an emit function which composites col over Dst,
// weighted by the coverage values (Porter-Duff "source over").
func (c *Canvas) blender(col color.Color) EmitFunc {
	r, g, b, a := col.RGBA()
	sr := float32(r) / 0xFFFF
	sg := float32(g) / 0xFFFF
	sb := float32(b) / 0xFFFF
	sa := float32(a) / 0xFFFF

	return func(y, xMin int, coverage []float32) {
		pix := c.Dst.Pix[c.Dst.PixOffset(xMin, y):]
		var mask []uint8
		if c.Mask != nil {
			mask = c.Mask.Pix[c.Mask.PixOffset(xMin, y):]
		}
		for i, cov := range coverage {
			if mask != nil {
				cov *= float32(mask[i]) / 255
			}
			if cov == 0 {
				continue
			}
			k := 1 - sa*cov
			p := pix[4*i : 4*i+4 : 4*i+4]
			p[0] = to8(sr*cov + float32(p[0])/255*k)
			p[1] = to8(sg*cov + float32(p[1])/255*k)
			p[2] = to8(sb*cov + float32(p[2])/255*k)
			p[3] = to8(sa*cov + float32(p[3])/255*k)
		}
	}
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
