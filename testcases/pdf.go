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

package testcases

import (
	"context"
	"io"
	"os"

	"github.com/wudi/pdfkit/builder"

	"seehuhn.de/go/ink"
	"seehuhn.de/go/ink/source"
)

// Paper content drawn on every page of a generated source document.
var (
	ruleColor = builder.Color{R: 0.8, G: 0.8, B: 0.8}
	barColor  = builder.Color{R: 0.3, G: 0.3, B: 0.3}
)

// WritePDF writes a source document with the given page sizes to w.
// Every page carries a thin frame and a few dark bars standing in for
// lines of text, so that the original content can be told apart from the
// ink in the output.
func WritePDF(w io.Writer, pages ink.PageSizes) error {
	b := builder.NewBuilder()
	for _, size := range pages {
		pb := b.NewPage(size.Width, size.Height)
		pb.DrawRectangle(10, 10, size.Width-20, size.Height-20, builder.RectOptions{
			Stroke:      true,
			StrokeColor: ruleColor,
			LineWidth:   1,
		})
		for i := range 5 {
			y := size.Height - 80 - 30*float64(i)
			if y < 40 {
				break
			}
			pb.DrawRectangle(60, y, size.Width-120-40*float64(i%2), 12, builder.RectOptions{
				Fill:      true,
				FillColor: barColor,
			})
		}
		pb.Finish()
	}
	doc, err := b.Build()
	if err != nil {
		return err
	}
	return source.New(doc).Write(context.Background(), w)
}

// WriteFile writes a source document with the given page sizes to the
// named file.
func WriteFile(fname string, pages ink.PageSizes) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		err2 := f.Close()
		if err == nil {
			err = err2
		}
	}()
	return WritePDF(f, pages)
}
