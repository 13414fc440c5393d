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

// Command inkfixtures writes the ink test cases to disk.
//
// For every test case a source document <name>.pdf and a stroke file
// <name>.json are written.  With -commit, the strokes are also committed
// in both modes, giving <name>-vector.pdf and <name>-raster.pdf for visual
// inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/ink"
	"seehuhn.de/go/ink/flatten"
	"seehuhn.de/go/ink/testcases"
)

func main() {
	dir := flag.String("dir", "testdata/fixtures", "output directory")
	commit := flag.Bool("commit", false, "also commit the strokes in vector and raster mode")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			if err := writeCase(*dir, name, tc, *commit); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func writeCase(dir, name string, tc testcases.Case, commit bool) error {
	pdfPath := filepath.Join(dir, name+".pdf")
	if err := testcases.WriteFile(pdfPath, tc.Pages); err != nil {
		return err
	}

	strokes := tc.Strokes()
	if err := writeStrokes(filepath.Join(dir, name+".json"), strokes); err != nil {
		return err
	}
	if !commit {
		return nil
	}

	geom := ink.NewGeometry(tc.Pages, ink.DefaultSpacing)
	for _, mode := range []string{"vector", "raster"} {
		strategy, err := flatten.ByName(mode, nil)
		if err != nil {
			return err
		}
		job := &flatten.Job{
			Source:   pdfPath,
			Geometry: geom,
			Strokes:  strokes,
			Output:   filepath.Join(dir, name+"-"+mode+".pdf"),
		}
		if _, err := strategy.Run(context.Background(), job); err != nil {
			return err
		}
	}
	return nil
}

func writeStrokes(fname string, strokes []ink.Stroke) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = ink.WriteStrokes(f, strokes)
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}
