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

// Command inkflat merges a stroke file into a PDF document.
//
// The strokes are read from a JSON stroke file, in page-local coordinates
// of the page layout given by -spacing and -fit-width.  They are committed
// either as vector graphics appended to the original pages, or by
// rendering every page to an image with the strokes painted on top.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"seehuhn.de/go/ink"
	"seehuhn.de/go/ink/flatten"
	"seehuhn.de/go/ink/session"
	"seehuhn.de/go/ink/source"
)

type options struct {
	in       string
	strokes  string
	out      string
	mode     string
	scale    float64
	spacing  float64
	fitWidth float64
	verbose  bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "inkflat: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "inkflat: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: inkflat -in <pdf> -strokes <json> [flags]\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.in, "in", "", "source PDF file")
	flag.StringVar(&opts.strokes, "strokes", "", "JSON stroke file")
	flag.StringVar(&opts.out, "out", "", "output PDF file (default: a new file in the temporary directory)")
	flag.StringVar(&opts.mode, "mode", "vector", "commit mode, \"vector\" or \"raster\"")
	flag.Float64Var(&opts.scale, "scale", flatten.DefaultScale, "oversampling factor for raster mode")
	flag.Float64Var(&opts.spacing, "spacing", ink.DefaultSpacing, "gap between pages in the layout of the strokes")
	flag.Float64Var(&opts.fitWidth, "fit-width", 0, "page width in the layout of the strokes (0: native page size)")
	flag.BoolVar(&opts.verbose, "v", false, "log progress to stderr")
	flag.Parse()

	if opts.in == "" || opts.strokes == "" || flag.NArg() != 0 {
		flag.Usage()
		return options{}, fmt.Errorf("missing source or stroke file")
	}
	if opts.fitWidth < 0 {
		return options{}, fmt.Errorf("invalid -fit-width %g", opts.fitWidth)
	}
	return opts, nil
}

func run(opts options) error {
	if opts.verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		ink.SetLogger(slog.New(h))
	}

	strategy, err := flatten.ByName(opts.mode, nil)
	if err != nil {
		return err
	}

	strokes, err := readStrokes(opts.strokes)
	if err != nil {
		return err
	}

	ctx := context.Background()
	doc, err := source.Open(ctx, opts.in)
	if err != nil {
		return err
	}
	var pages ink.PageSizer = doc
	if opts.fitWidth > 0 {
		pages = ink.FitWidth(doc, opts.fitWidth)
	}
	geom := ink.NewGeometry(pages, opts.spacing)

	s := session.New(opts.in, geom, nil)
	for _, st := range strokes {
		s.Ledger.Add(st)
	}

	type outcome struct {
		res *flatten.Result
		err error
	}
	c := make(chan outcome, 1)
	err = s.Commit(strategy, opts.scale, func(res *flatten.Result, err error) {
		c <- outcome{res, err}
	})
	if err != nil {
		return err
	}
	out := <-c
	if out.err != nil {
		return out.err
	}

	fname := out.res.Output
	if opts.out != "" {
		if err := s.SaveAs(opts.out); err != nil {
			return err
		}
		os.Remove(out.res.Output)
		fname = opts.out
	}
	fmt.Printf("%s: %d strokes on %d pages (%s)\n",
		fname, out.res.Strokes, out.res.Pages, out.res.Mode)
	return nil
}

func readStrokes(fname string) ([]ink.Stroke, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ink.ReadStrokes(f)
}
