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
	"fmt"
)

// Kind classifies the reason why a commit failed.
type Kind int

// These are the possible failure kinds.
const (
	// KindSourceUnreadable means that the source document could not be
	// opened or is not a valid PDF file.
	KindSourceUnreadable Kind = iota + 1

	// KindRenderFailure means that a page could not be rasterised.
	KindRenderFailure

	// KindWriteFailure means that the output file could not be created or
	// written.
	KindWriteFailure

	// KindMalformedPath means that the path of a stroke could not be
	// iterated.  This indicates a bug in the caller.
	KindMalformedPath
)

func (k Kind) String() string {
	switch k {
	case KindSourceUnreadable:
		return "source unreadable"
	case KindRenderFailure:
		return "render failure"
	case KindWriteFailure:
		return "write failure"
	case KindMalformedPath:
		return "malformed path"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the error type returned by all commit strategies.
type Error struct {
	Strategy string
	Kind     Kind

	// Page is the zero-based index of the page where the problem occurred,
	// or -1 if the error is not specific to one page.
	Page int

	Err error
}

func (e *Error) Error() string {
	var page string
	if e.Page >= 0 {
		page = fmt.Sprintf(" (page %d)", e.Page+1)
	}
	return fmt.Sprintf("%s commit: %s%s: %v", e.Strategy, e.Kind, page, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err, or any error it wraps, is an [*Error] of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func fail(strategy string, kind Kind, err error) *Error {
	return &Error{Strategy: strategy, Kind: kind, Page: -1, Err: err}
}

func failPage(strategy string, kind Kind, page int, err error) *Error {
	return &Error{Strategy: strategy, Kind: kind, Page: page, Err: err}
}
