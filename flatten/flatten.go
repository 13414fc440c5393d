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

// Package flatten commits ink strokes permanently into a PDF file.
//
// Two strategies are available.  [VectorCommit] appends the strokes as
// path operators to the content streams of the source document, so that
// the original content stays selectable and the ink remains resolution
// independent.  [RasterCommit] renders every page to a bitmap, paints the
// strokes on top, and assembles a new document from the images.
//
// Both strategies read a snapshot of the strokes and the page geometry, and
// never modify the source file.  The output is written to a staging file
// next to the destination and renamed into place only once it is complete.
package flatten

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"seehuhn.de/go/ink"
	"seehuhn.de/go/ink/source"
)

// Strategy is a way of committing strokes into a PDF file.
type Strategy interface {
	// Name returns a short name for the strategy, used in log messages and
	// errors.
	Name() string

	// Run performs the commit described by job.  Any error returned is of
	// type [*Error].
	Run(ctx context.Context, job *Job) (*Result, error)
}

// Job describes one commit.  A Job must not be modified while a strategy
// is running it.
type Job struct {
	// Source is the file name of the PDF document the strokes were drawn
	// on.
	Source string

	// Geometry is the page layout the strokes were drawn against.  If nil,
	// the native page sizes of the source document are used.
	Geometry *ink.Geometry

	// Strokes are painted in the given order, later strokes on top.
	Strokes []ink.Stroke

	// Output is the file name of the new document.  If empty, a file
	// named "merged-<milliseconds>.pdf" in the system temporary directory
	// is used.
	Output string

	// Scale is the oversampling factor used by [RasterCommit].  It is
	// clamped to the range [MinScale, MaxScale]; zero selects
	// [DefaultScale].
	Scale float64
}

// Result describes a successful commit.
type Result struct {
	// Output is the file name of the new document.
	Output string

	// Pages is the number of pages in the output.
	Pages int

	// Strokes is the number of strokes which were committed.  Strokes on
	// pages which do not exist are not counted.
	Strokes int

	// Mode is the name of the strategy used.
	Mode string
}

// ByName returns the strategy with the given name, "vector" or "raster".
// The renderer is only used for raster mode and may be nil.
func ByName(name string, r source.Renderer) (Strategy, error) {
	switch name {
	case "vector":
		return VectorCommit{}, nil
	case "raster":
		return &RasterCommit{Renderer: r}, nil
	default:
		return nil, fmt.Errorf("unknown commit mode %q", name)
	}
}

// geometry returns the page layout for the job.
func (job *Job) geometry(doc *source.Document) *ink.Geometry {
	if job.Geometry != nil {
		return job.Geometry
	}
	return ink.NewGeometry(doc, ink.DefaultSpacing)
}

// byPage partitions the strokes of the job by page, keeping the original
// order within each page.  Strokes on pages with index n or above are
// dropped.
func (job *Job) byPage(mode string, n int) ([][]ink.Stroke, int) {
	pages := make([][]ink.Stroke, n)
	count := 0
	dropped := 0
	for _, s := range job.Strokes {
		p := s.Page()
		if p < 0 || p >= n {
			dropped++
			continue
		}
		pages[p] = append(pages[p], s)
		count++
	}
	if dropped > 0 {
		ink.Logger().Warn("strokes outside the document dropped",
			"mode", mode, "count", dropped, "pages", n)
	}
	return pages, count
}

// output returns the file name where the result of the job is stored.
func (job *Job) output() string {
	if job.Output != "" {
		return job.Output
	}
	return DefaultOutput("")
}

// DefaultOutput returns a new output file name of the form
// "merged-<milliseconds>.pdf" in dir.  If dir is empty, the system
// temporary directory is used.
func DefaultOutput(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	name := fmt.Sprintf("merged-%d.pdf", time.Now().UnixMilli())
	return filepath.Join(dir, name)
}

// Publish calls write to fill a staging file in the directory of fname,
// and then renames the staging file to fname.  If anything fails, the
// staging file is removed and fname is left untouched.
func Publish(fname string, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(fname)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	err = write(tmp)
	if err != nil {
		return err
	}
	err = tmp.Sync()
	if err != nil {
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fname)
}
