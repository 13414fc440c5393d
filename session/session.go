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

// Package session ties together the parts of an ink editing session: the
// document being annotated, the stroke ledger, the pen, and the background
// committer which merges the strokes into a new PDF file.
//
// All methods of a Session, and all completion callbacks, are meant to be
// used from one goroutine, typically the UI goroutine of the front end.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"seehuhn.de/go/ink"
	"seehuhn.de/go/ink/flatten"
	"seehuhn.de/go/ink/source"
)

// ErrNothingToSave is returned by [Session.SaveAs] before the first
// successful commit.
var ErrNothingToSave = errors.New("nothing to save yet")

// Options configure a [Session].  The zero value gives working defaults.
type Options struct {
	// Post schedules a function to run on the UI goroutine.  Commit
	// completion is delivered through Post.  If nil, completion callbacks
	// run on the worker goroutine.
	Post func(func())

	// Committer runs the commits.  Sessions may share a committer, so that
	// only one commit runs at a time across all of them.  If nil, the
	// session uses a committer of its own.
	Committer *flatten.Committer

	// OutputDir is where committed documents are written.  If empty, the
	// system temporary directory is used.
	OutputDir string
}

// Session is the editing state for one document.
type Session struct {
	Ledger *ink.Ledger
	Pen    *ink.Pen

	post      func(func())
	committer *flatten.Committer
	outputDir string

	mu         sync.Mutex
	source     string
	geom       *ink.Geometry
	lastOutput string
}

// New starts an editing session for the document at locator, shown with
// the page layout geom.
func New(locator string, geom *ink.Geometry, opts *Options) *Session {
	if opts == nil {
		opts = &Options{}
	}
	post := opts.Post
	if post == nil {
		post = func(f func()) { f() }
	}
	c := opts.Committer
	if c == nil {
		c = &flatten.Committer{}
	}

	l := ink.NewLedger()
	return &Session{
		Ledger:    l,
		Pen:       ink.NewPen(l, geom),
		post:      post,
		committer: c,
		outputDir: opts.OutputDir,
		source:    locator,
		geom:      geom,
	}
}

// Open reads the page sizes of the document at locator and starts a
// session with the resulting page layout.  The document is shown at its
// native size.
func Open(ctx context.Context, locator string, spacing float64, opts *Options) (*Session, error) {
	doc, err := source.Open(ctx, locator)
	if err != nil {
		return nil, err
	}
	return New(locator, ink.NewGeometry(doc, spacing), opts), nil
}

// Source returns the file name of the document currently being annotated.
// After a successful commit this is the committed output.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Geometry returns the current page layout.
func (s *Session) Geometry() *ink.Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geom
}

// SetGeometry replaces the page layout.  This must be called after the
// front end has reloaded the document, for example after a commit.
func (s *Session) SetGeometry(g *ink.Geometry) {
	s.mu.Lock()
	s.geom = g
	s.mu.Unlock()
	s.Pen.SetGeometry(g)
}

// LastOutput returns the file name of the most recently committed
// document, or the empty string if nothing has been committed yet.
func (s *Session) LastOutput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutput
}

// Busy reports whether a commit is in progress.
func (s *Session) Busy() bool {
	return s.committer.Busy()
}

// Commit merges all strokes into a new document, using the given
// strategy.  A pen gesture in progress is finished first.
//
// The strokes and the page layout are captured before Commit returns;
// strokes drawn while the commit runs are not part of it.  Commit returns
// [flatten.ErrBusy] if another commit is in progress; the pen gesture and
// the ledger are then left alone.  Otherwise done is called through the
// Post function once the commit has finished.
//
// On success the committed strokes are removed from the ledger and the
// output becomes the new source document.  On failure the ledger and the
// source are left unchanged.
func (s *Session) Commit(strategy flatten.Strategy, scale float64, done func(*flatten.Result, error)) error {
	if s.committer.Busy() {
		return flatten.ErrBusy
	}
	s.Pen.Finish()
	strokes, rev := s.Ledger.Snapshot()

	s.mu.Lock()
	job := &flatten.Job{
		Source:   s.source,
		Geometry: s.geom,
		Strokes:  strokes,
		Scale:    scale,
	}
	s.mu.Unlock()
	if s.outputDir != "" {
		job.Output = flatten.DefaultOutput(s.outputDir)
	}

	outcome, err := s.committer.Submit(strategy, job)
	if err != nil {
		return err
	}

	go func() {
		out := <-outcome
		s.post(func() {
			if out.Err == nil {
				s.committed(out.Result, strokes, rev)
			}
			if done != nil {
				done(out.Result, out.Err)
			}
		})
	}()
	return nil
}

// committed updates the session after a successful commit.
func (s *Session) committed(res *flatten.Result, strokes []ink.Stroke, rev uint64) {
	if s.Ledger.Revision() == rev {
		s.Ledger.Clear()
	} else {
		ids := make([]string, len(strokes))
		for i, st := range strokes {
			ids[i] = st.ID()
		}
		s.Ledger.Remove(ids...)
	}

	s.mu.Lock()
	s.source = res.Output
	s.lastOutput = res.Output
	s.mu.Unlock()
}

// SaveAs copies the most recently committed document to dst.  The copy is
// written next to dst and renamed into place, so an existing file at dst
// survives a failed save.
func (s *Session) SaveAs(dst string) error {
	src := s.LastOutput()
	if src == "" {
		return ErrNothingToSave
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	err = flatten.Publish(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
	if err != nil {
		return fmt.Errorf("saving %s: %w", dst, err)
	}
	return nil
}
