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
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func line(page int, x0, y0, x1, y1 float64) Stroke {
	d := (&path.Data{}).
		MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y1})
	return NewStroke(page, DefaultStyle, d)
}

func ids(strokes []Stroke) []string {
	res := make([]string, len(strokes))
	for i, s := range strokes {
		res[i] = s.ID()
	}
	return res
}

func TestLedgerUndoRedo(t *testing.T) {
	l := NewLedger()
	if l.CanUndo() || l.CanRedo() {
		t.Fatal("new ledger should have nothing to undo or redo")
	}

	a := line(0, 0, 0, 10, 10)
	b := line(1, 0, 0, 20, 20)
	l.Add(a)
	l.Add(b)

	if !l.Undo() {
		t.Fatal("Undo failed")
	}
	if d := cmp.Diff([]string{a.ID()}, ids(l.All())); d != "" {
		t.Errorf("after undo (-want +got):\n%s", d)
	}
	if !l.CanRedo() {
		t.Error("CanRedo should be true after undo")
	}

	if !l.Redo() {
		t.Fatal("Redo failed")
	}
	if d := cmp.Diff([]string{a.ID(), b.ID()}, ids(l.All())); d != "" {
		t.Errorf("after redo (-want +got):\n%s", d)
	}
	if l.Redo() {
		t.Error("second Redo should be a no-op")
	}
}

// Undo n times followed by redo n times restores the original sequence.
func TestLedgerUndoRedoLIFO(t *testing.T) {
	l := NewLedger()
	var want []string
	for i := range 5 {
		s := line(i%2, 0, 0, float64(i), 1)
		l.Add(s)
		want = append(want, s.ID())
	}
	for range 5 {
		l.Undo()
	}
	if l.CanUndo() {
		t.Error("CanUndo should be false after undoing everything")
	}
	if l.Undo() {
		t.Error("Undo on empty ledger should report false")
	}
	for range 5 {
		l.Redo()
	}
	if d := cmp.Diff(want, ids(l.All())); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestLedgerAddClearsRedo(t *testing.T) {
	l := NewLedger()
	l.Add(line(0, 0, 0, 1, 1))
	l.Undo()
	l.Add(line(0, 0, 0, 2, 2))
	if l.CanRedo() {
		t.Error("Add must discard the redo history")
	}
	if l.Redo() {
		t.Error("Redo after Add should be a no-op")
	}
}

func TestLedgerClearPage(t *testing.T) {
	l := NewLedger()
	a := line(0, 0, 0, 1, 1)
	b := line(1, 0, 0, 1, 1)
	c := line(0, 0, 0, 2, 2)
	d := line(2, 0, 0, 2, 2)
	l.Add(a)
	l.Add(b)
	l.Add(c)
	l.Add(d)
	l.Undo() // d goes to the redo history

	l.ClearPage(0)
	if diff := cmp.Diff([]string{b.ID()}, ids(l.All())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if l.CanRedo() {
		t.Error("ClearPage must discard the whole redo history")
	}
	if got := l.StrokesForPage(0); len(got) != 0 {
		t.Errorf("page 0 still has %d strokes", len(got))
	}
}

func TestLedgerStrokesForPage(t *testing.T) {
	l := NewLedger()
	a := line(3, 0, 0, 1, 1)
	b := line(1, 0, 0, 1, 1)
	c := line(3, 0, 0, 2, 2)
	l.Add(a)
	l.Add(b)
	l.Add(c)

	if d := cmp.Diff([]string{a.ID(), c.ID()}, ids(l.StrokesForPage(3))); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if got := l.StrokesForPage(7); got != nil {
		t.Errorf("unexpected strokes on page 7: %v", ids(got))
	}
}

func TestLedgerSnapshotIsolation(t *testing.T) {
	l := NewLedger()
	l.Add(line(0, 0, 0, 1, 1))
	snap, rev := l.Snapshot()

	l.Add(line(0, 0, 0, 2, 2))
	l.Clear()

	if len(snap) != 1 {
		t.Errorf("snapshot changed: %d strokes", len(snap))
	}
	if l.Revision() == rev {
		t.Error("revision did not change")
	}
	if l.CanUndo() || l.CanRedo() {
		t.Error("Clear must empty both histories")
	}
}

func TestLedgerRemove(t *testing.T) {
	l := NewLedger()
	a := line(0, 0, 0, 1, 1)
	b := line(0, 0, 0, 2, 2)
	c := line(1, 0, 0, 3, 3)
	l.Add(a)
	l.Add(b)
	l.Add(c)
	l.Undo()

	l.Remove(a.ID(), "no-such-id")
	if d := cmp.Diff([]string{b.ID()}, ids(l.All())); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if l.CanRedo() {
		t.Error("Remove must discard the redo history")
	}
}

func TestStrokeIsImmutable(t *testing.T) {
	d := (&path.Data{}).MoveTo(vec.Vec2{X: 1, Y: 2}).LineTo(vec.Vec2{X: 3, Y: 4})
	s := NewStroke(0, DefaultStyle, d)
	d.Coords[0] = vec.Vec2{X: 100, Y: 100}
	d.LineTo(vec.Vec2{X: 5, Y: 6})

	var got []vec.Vec2
	for _, pts := range s.Path() {
		got = append(got, pts...)
	}
	want := []vec.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	// the path can be iterated more than once
	n := 0
	for range s.Path() {
		n++
	}
	if n != 2 {
		t.Errorf("second iteration: got %d segments, want 2", n)
	}
}

func TestStrokeIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := line(0, 0, 0, 1, 1).ID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestStrokeValidate(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name string
		d    *path.Data
		ok   bool
	}{
		{"empty", &path.Data{}, true},
		{"line", (&path.Data{}).MoveTo(vec.Vec2{}).LineTo(vec.Vec2{X: 1}), true},
		{"closed", (&path.Data{}).MoveTo(vec.Vec2{}).LineTo(vec.Vec2{X: 1}).Close(), true},
		{"no move", &path.Data{
			Cmds:   []path.Command{path.CmdLineTo},
			Coords: []vec.Vec2{{X: 1}},
		}, false},
		{"missing points", &path.Data{
			Cmds:   []path.Command{path.CmdMoveTo, path.CmdCubeTo},
			Coords: []vec.Vec2{{}, {X: 1}},
		}, false},
		{"extra points", &path.Data{
			Cmds:   []path.Command{path.CmdMoveTo},
			Coords: []vec.Vec2{{}, {X: 1}},
		}, false},
		{"nan", &path.Data{
			Cmds:   []path.Command{path.CmdMoveTo, path.CmdLineTo},
			Coords: []vec.Vec2{{}, {X: nan}},
		}, false},
	}
	for _, c := range cases {
		err := NewStroke(0, DefaultStyle, c.d).Validate()
		if (err == nil) != c.ok {
			t.Errorf("%s: got %v", c.name, err)
		}
		if err != nil && !errors.Is(err, ErrMalformedPath) {
			t.Errorf("%s: %v does not wrap ErrMalformedPath", c.name, err)
		}
	}
}
