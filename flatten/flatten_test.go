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
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seehuhn.de/go/ink/source"
)

func TestErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		err  *Error
		want string
	}{
		{fail("vector", KindWriteFailure, cause), "vector commit: write failure: boom"},
		{failPage("raster", KindRenderFailure, 2, cause), "raster commit: render failure (page 3): boom"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
		if !errors.Is(c.err, cause) {
			t.Errorf("%q does not wrap its cause", c.want)
		}
	}
	if IsKind(cause, KindWriteFailure) {
		t.Error("plain error has a kind")
	}
}

func TestPublish(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "out.pdf")

	err := Publish(fname, func(w io.Writer) error {
		_, err := io.WriteString(w, "%PDF-1.7\n")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(fname)
	if err != nil || string(data) != "%PDF-1.7\n" {
		t.Fatalf("got %q, %v", data, err)
	}

	// a failed write leaves the previous file and no staging file
	errWrite := errors.New("no space left")
	err = Publish(fname, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return errWrite
	})
	if !errors.Is(err, errWrite) {
		t.Errorf("got %v, want %v", err, errWrite)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.pdf" {
		t.Errorf("unexpected directory contents %v", entries)
	}
	data, _ = os.ReadFile(fname)
	if string(data) != "%PDF-1.7\n" {
		t.Errorf("previous output was modified: %q", data)
	}
}

func TestDefaultOutput(t *testing.T) {
	job := &Job{}
	out := job.output()
	if filepath.Dir(out) != filepath.Clean(os.TempDir()) {
		t.Errorf("%q is not in the temporary directory", out)
	}
	base := filepath.Base(out)
	if !strings.HasPrefix(base, "merged-") || !strings.HasSuffix(base, ".pdf") {
		t.Errorf("unexpected file name %q", base)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"vector", "raster"} {
		s, err := ByName(name, nil)
		if err != nil {
			t.Fatal(err)
		}
		if s.Name() != name {
			t.Errorf("ByName(%q).Name() = %q", name, s.Name())
		}
	}
	if _, err := ByName("pencil", nil); err == nil {
		t.Error("unknown mode accepted")
	}

	r := &source.ContentRenderer{}
	s, _ := ByName("raster", r)
	if s.(*RasterCommit).Renderer != r {
		t.Error("renderer not passed on")
	}
}
