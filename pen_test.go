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

package ink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func TestPenGesture(t *testing.T) {
	l := NewLedger()
	g := NewGeometry(PageSizes{{200, 100}, {100, 100}}, 10)
	pen := NewPen(l, g)
	v := Viewport{Zoom: 2}

	// (120, 240) in viewer space is (60, 120) in content space, which
	// is (10, 10) on page 1.
	if !pen.Down(v, 120, 240) {
		t.Fatal("Down missed the page")
	}
	pen.Move(v, 140, 240)
	pen.Move(v, 140, 260)
	s, ok := pen.Up()
	if !ok {
		t.Fatal("Up did not produce a stroke")
	}

	if s.Page() != 1 {
		t.Errorf("stroke on page %d, want 1", s.Page())
	}
	if s.Style() != DefaultStyle {
		t.Errorf("style = %v, want %v", s.Style(), DefaultStyle)
	}
	if l.Len() != 1 {
		t.Errorf("ledger has %d strokes, want 1", l.Len())
	}

	minX, minY, maxX, maxY, _ := s.Bounds()
	if minX != 10 || minY != 10 || maxX != 20 || maxY != 20 {
		t.Errorf("bounds = (%g,%g)-(%g,%g)", minX, minY, maxX, maxY)
	}

	var cmds []path.Command
	for cmd := range s.Path() {
		cmds = append(cmds, cmd)
	}
	want := []path.Command{path.CmdMoveTo, path.CmdQuadTo, path.CmdQuadTo, path.CmdLineTo}
	if d := cmp.Diff(want, cmds); d != "" {
		t.Errorf("commands (-want +got):\n%s", d)
	}
}

func TestPenOutsidePages(t *testing.T) {
	l := NewLedger()
	g := NewGeometry(PageSizes{{200, 100}, {100, 100}}, 10)
	pen := NewPen(l, g)

	// left of the narrower second page
	if pen.Down(Viewport{Zoom: 1}, 10, 150) {
		t.Error("Down should fail outside the page")
	}
	if _, ok := pen.Up(); ok {
		t.Error("Up without a gesture should not produce a stroke")
	}
}

func TestPenFinishOnToggle(t *testing.T) {
	l := NewLedger()
	pen := NewPen(l, NewGeometry(PageSizes{{100, 100}}, 10))
	v := Viewport{Zoom: 1}

	pen.Down(v, 5, 5)
	pen.Move(v, 50, 50)
	if _, _, ok := pen.Pending(); !ok {
		t.Fatal("expected a pending gesture")
	}

	// switching tools finishes the stroke
	pen.SetGeometry(NewGeometry(PageSizes{{100, 100}}, 10))
	if l.Len() != 1 {
		t.Errorf("ledger has %d strokes, want 1", l.Len())
	}
	if _, _, ok := pen.Pending(); ok {
		t.Error("gesture still pending")
	}
}

func TestStrokeFileRoundTrip(t *testing.T) {
	d := (&path.Data{}).
		MoveTo(vec.Vec2{X: 1, Y: 2}).
		LineTo(vec.Vec2{X: 3, Y: 4}).
		QuadTo(vec.Vec2{X: 5, Y: 6}, vec.Vec2{X: 7, Y: 8}).
		CubeTo(vec.Vec2{X: 9, Y: 10}, vec.Vec2{X: 11, Y: 12}, vec.Vec2{X: 13, Y: 14}).
		Close()
	in := []Stroke{
		NewStroke(2, Style{Color: RGB{R: 0x12, G: 0x34, B: 0x56}, Width: 3.5}, d),
		line(0, 0, 0, 1, 1),
	}

	buf := &bytes.Buffer{}
	if err := WriteStrokes(buf, in); err != nil {
		t.Fatal(err)
	}
	out, err := ReadStrokes(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d strokes, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i].Page() != out[i].Page() || in[i].Style() != out[i].Style() {
			t.Errorf("stroke %d: got page %d style %v, want page %d style %v",
				i, out[i].Page(), out[i].Style(), in[i].Page(), in[i].Style())
		}
		if d := cmp.Diff(segments(in[i]), segments(out[i])); d != "" {
			t.Errorf("stroke %d path (-want +got):\n%s", i, d)
		}
	}
}

func TestReadStrokesErrors(t *testing.T) {
	cases := []string{
		`{"strokes": [{"page": 0, "path": [{"cmd": "L", "pts": [[1, 2]]}]}]}`,
		`{"strokes": [{"page": 0, "path": [{"cmd": "M", "pts": [[1, 2], [3, 4]]}]}]}`,
		`{"strokes": [{"page": 0, "path": [{"cmd": "X", "pts": []}]}]}`,
		`{"strokes": [{"page": -1, "path": []}]}`,
		`{"strokes": [{"page": 0, "color": "red", "path": []}]}`,
		`{"strokes": [{"page": 0, "path": [{"cmd": "M", "pts": [[1]]}]}]}`,
		`{"lines": []}`,
	}
	for _, c := range cases {
		if _, err := ReadStrokes(strings.NewReader(c)); err == nil {
			t.Errorf("no error for %s", c)
		}
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]RGB{
		"#ff0000": {R: 0xFF},
		"#0a0b0c": {R: 0x0A, G: 0x0B, B: 0x0C},
		"#fff":    {R: 0xFF, G: 0xFF, B: 0xFF},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Errorf("ParseColor(%q) = %v, %v, want %v", in, got, err, want)
		}
		if len(in) == 7 && got.String() != in {
			t.Errorf("String() = %q, want %q", got.String(), in)
		}
	}
}

type segment struct {
	Cmd path.Command
	Pts []vec.Vec2
}

func segments(s Stroke) []segment {
	var res []segment
	for cmd, pts := range s.Path() {
		res = append(res, segment{cmd, append([]vec.Vec2(nil), pts...)})
	}
	return res
}
