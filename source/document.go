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

// Package source gives access to the PDF document which ink is drawn on:
// opening it from a locator, querying page sizes, appending content
// streams, writing the modified document, and rendering pages to bitmaps.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/wudi/pdfkit/ir"
	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"
)

// ErrNoPages is returned when a document has no pages.
var ErrNoPages = errors.New("document has no pages")

// Document is a parsed PDF document held in memory.
type Document struct {
	Locator string

	doc *semantic.Document
}

// Open reads and parses the PDF file at locator.  The file is closed
// before Open returns.
func Open(ctx context.Context, locator string) (*Document, error) {
	f, err := os.Open(locator)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", locator, err)
	}
	d.Locator = locator
	return d, nil
}

// Read parses a PDF document.
func Read(ctx context.Context, r io.ReaderAt) (*Document, error) {
	doc, err := ir.NewDefault().Parse(ctx, r)
	if err != nil {
		return nil, err
	}
	return New(doc), nil
}

// New wraps an already parsed or freshly built document.
func New(doc *semantic.Document) *Document {
	return &Document{doc: doc}
}

// Semantic returns the underlying document model.
func (d *Document) Semantic() *semantic.Document {
	return d.doc
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.doc.Pages)
}

// Page returns page i.
func (d *Document) Page(i int) *semantic.Page {
	return d.doc.Pages[i]
}

// Box returns the visible area of page i: the crop box if the page has
// one, and the media box otherwise.
func (d *Document) Box(i int) semantic.Rectangle {
	p := d.doc.Pages[i]
	if b := p.CropBox; b.URX-b.LLX > 0 && b.URY-b.LLY > 0 {
		return b
	}
	return p.MediaBox
}

// PageSize returns the size of the visible area of page i, in PDF units.
// This implements [ink.PageSizer].
func (d *Document) PageSize(i int) (width, height float64) {
	b := d.Box(i)
	return math.Abs(b.URX - b.LLX), math.Abs(b.URY - b.LLY)
}

// Append adds a content stream with the given operations after the
// existing content of page i.  The existing streams are kept unchanged but
// enclosed in a q/Q pair, so that the appended operations start from the
// default graphics state.
func (d *Document) Append(i int, ops []semantic.Operation) {
	p := d.doc.Pages[i]
	contents := make([]semantic.ContentStream, 0, len(p.Contents)+3)
	if len(p.Contents) > 0 {
		save := []semantic.Operation{{Operator: "q"}}
		restore := []semantic.Operation{{Operator: "Q"}}
		contents = append(contents, stream(save))
		contents = append(contents, p.Contents...)
		contents = append(contents, stream(restore))
	}
	contents = append(contents, stream(ops))
	p.Contents = contents
	p.Dirty = true
	d.doc.Dirty = true
}

func stream(ops []semantic.Operation) semantic.ContentStream {
	return semantic.ContentStream{
		Operations: ops,
		RawBytes:   EncodeOperations(ops),
	}
}

// Write serialises the document.  Content streams which only carry parsed
// operations are encoded first, since the writer copies raw stream bytes.
func (d *Document) Write(ctx context.Context, w io.Writer) error {
	for _, p := range d.doc.Pages {
		for j, cs := range p.Contents {
			if len(cs.RawBytes) == 0 && len(cs.Operations) > 0 {
				p.Contents[j].RawBytes = EncodeOperations(cs.Operations)
			}
		}
	}
	wr := (&writer.WriterBuilder{}).Build()
	return wr.Write(ctx, d.doc, w, writer.Config{Deterministic: true})
}

// EncodeOperations converts content stream operations into their PDF
// syntax, one operator per line.  The result starts with a newline so
// that it can be concatenated with other content streams.
func EncodeOperations(ops []semantic.Operation) []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte('\n')
	for _, op := range ops {
		for _, arg := range op.Operands {
			writeOperand(buf, arg)
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func writeOperand(buf *bytes.Buffer, arg semantic.Operand) {
	switch v := arg.(type) {
	case semantic.NumberOperand:
		buf.WriteString(FormatNumber(v.Value))
	case semantic.NameOperand:
		buf.WriteByte('/')
		buf.WriteString(v.Value)
	case semantic.StringOperand:
		buf.WriteByte('(')
		for _, c := range v.Value {
			if c == '(' || c == ')' || c == '\\' {
				buf.WriteByte('\\')
			}
			buf.WriteByte(c)
		}
		buf.WriteByte(')')
	case semantic.ArrayOperand:
		buf.WriteByte('[')
		for i, elem := range v.Values {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeOperand(buf, elem)
		}
		buf.WriteByte(']')
	}
}

// FormatNumber formats x for use in a content stream, rounded to six
// decimal places and without exponent.
func FormatNumber(x float64) string {
	x = math.Round(x*1e6) / 1e6
	if x == 0 {
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
