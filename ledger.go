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
	"slices"
	"sync"
)

// Ledger keeps the committed strokes of an editing session in creation
// order, together with a redo history of undone strokes.
//
// A Ledger is safe for concurrent use, but all mutations are expected to
// come from the interactive front end.
type Ledger struct {
	mu       sync.Mutex
	strokes  []Stroke
	undone   []Stroke // last element is the most recently undone stroke
	revision uint64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add appends a stroke and discards the redo history.
func (l *Ledger) Add(s Stroke) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.strokes = append(l.strokes, s)
	l.undone = l.undone[:0]
	l.revision++
}

// Undo moves the most recent stroke to the redo history.
// It returns false if there is nothing to undo.
func (l *Ledger) Undo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.strokes)
	if n == 0 {
		return false
	}
	l.undone = append(l.undone, l.strokes[n-1])
	l.strokes = l.strokes[:n-1]
	l.revision++
	return true
}

// Redo restores the most recently undone stroke.
// It returns false if the redo history is empty.
func (l *Ledger) Redo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.undone)
	if n == 0 {
		return false
	}
	l.strokes = append(l.strokes, l.undone[n-1])
	l.undone = l.undone[:n-1]
	l.revision++
	return true
}

// Clear removes all strokes and the redo history.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.strokes = nil
	l.undone = nil
	l.revision++
}

// ClearPage removes every stroke on the given page, keeping the relative
// order of the others.  The whole redo history is discarded, including
// strokes belonging to other pages.
func (l *Ledger) ClearPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.strokes = slices.DeleteFunc(l.strokes, func(s Stroke) bool {
		return s.page == page
	})
	l.undone = nil
	l.revision++
}

// Remove drops the strokes with the given IDs and discards the redo
// history.  Unknown IDs are ignored.
func (l *Ledger) Remove(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.strokes = slices.DeleteFunc(l.strokes, func(s Stroke) bool {
		return drop[s.id]
	})
	l.undone = nil
	l.revision++
}

// StrokesForPage returns the strokes of one page in creation order.
// The result is a fresh slice owned by the caller.
func (l *Ledger) StrokesForPage(page int) []Stroke {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res []Stroke
	for _, s := range l.strokes {
		if s.page == page {
			res = append(res, s)
		}
	}
	return res
}

// All returns a snapshot of all strokes in creation order.
// Later changes to the ledger do not affect the returned slice.
func (l *Ledger) All() []Stroke {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.strokes)
}

// Len returns the number of committed strokes.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.strokes)
}

// CanUndo reports whether [Ledger.Undo] would do anything.
func (l *Ledger) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.strokes) > 0
}

// CanRedo reports whether [Ledger.Redo] would do anything.
func (l *Ledger) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.undone) > 0
}

// Revision returns a counter which changes whenever the ledger is modified.
func (l *Ledger) Revision() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.revision
}

// Snapshot returns the strokes in creation order together with the
// revision they belong to.
func (l *Ledger) Snapshot() ([]Stroke, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.strokes), l.revision
}
