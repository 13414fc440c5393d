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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// The stroke file format is JSON:
//
//	{"strokes": [
//	  {"page": 0, "color": "#ff0000", "width": 8,
//	   "path": [{"cmd": "M", "pts": [[10, 20]]}, {"cmd": "L", "pts": [[30, 40]]}]}
//	]}
//
// Path commands are M, L, Q, C and Z, taking 1, 1, 2, 3 and 0 points.
type jsonFile struct {
	Strokes []jsonStroke `json:"strokes"`
}

type jsonStroke struct {
	Page  int           `json:"page"`
	Color string        `json:"color"`
	Width float64       `json:"width"`
	Path  []jsonSegment `json:"path"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

// WriteStrokes writes strokes in the JSON stroke file format.
func WriteStrokes(w io.Writer, strokes []Stroke) error {
	out := jsonFile{Strokes: make([]jsonStroke, 0, len(strokes))}
	for _, s := range strokes {
		js := jsonStroke{
			Page:  s.page,
			Color: s.style.Color.String(),
			Width: s.style.Width,
		}
		for cmd, pts := range s.Path() {
			seg := jsonSegment{Pts: make([][]float64, len(pts))}
			switch cmd {
			case path.CmdMoveTo:
				seg.Cmd = "M"
			case path.CmdLineTo:
				seg.Cmd = "L"
			case path.CmdQuadTo:
				seg.Cmd = "Q"
			case path.CmdCubeTo:
				seg.Cmd = "C"
			case path.CmdClose:
				seg.Cmd = "Z"
			}
			for i, pt := range pts {
				seg.Pts[i] = []float64{pt.X, pt.Y}
			}
			js.Path = append(js.Path, seg)
		}
		out.Strokes = append(out.Strokes, js)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ReadStrokes reads a JSON stroke file.  Strokes without a width use the
// width of [DefaultStyle], strokes without a colour use its colour.
func ReadStrokes(r io.Reader) ([]Stroke, error) {
	var in jsonFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding stroke file: %w", err)
	}

	res := make([]Stroke, 0, len(in.Strokes))
	for i, js := range in.Strokes {
		if js.Page < 0 {
			return nil, fmt.Errorf("stroke %d: negative page index %d", i, js.Page)
		}
		style := DefaultStyle
		if js.Color != "" {
			c, err := ParseColor(js.Color)
			if err != nil {
				return nil, fmt.Errorf("stroke %d: %w", i, err)
			}
			style.Color = c
		}
		if js.Width != 0 {
			if js.Width < 0 {
				return nil, fmt.Errorf("stroke %d: negative width %g", i, js.Width)
			}
			style.Width = js.Width
		}

		d := &path.Data{}
		for j, seg := range js.Path {
			pts, err := segmentPoints(seg)
			if err != nil {
				return nil, fmt.Errorf("stroke %d, segment %d: %w", i, j, err)
			}
			if j == 0 && seg.Cmd != "M" {
				return nil, fmt.Errorf("stroke %d: path must start with M", i)
			}
			switch seg.Cmd {
			case "M":
				d.MoveTo(pts[0])
			case "L":
				d.LineTo(pts[0])
			case "Q":
				d.QuadTo(pts[0], pts[1])
			case "C":
				d.CubeTo(pts[0], pts[1], pts[2])
			case "Z":
				d.Close()
			}
		}
		res = append(res, NewStroke(js.Page, style, d))
	}
	return res, nil
}

func segmentPoints(seg jsonSegment) ([]vec.Vec2, error) {
	var want int
	switch seg.Cmd {
	case "M", "L":
		want = 1
	case "Q":
		want = 2
	case "C":
		want = 3
	case "Z":
		want = 0
	default:
		return nil, fmt.Errorf("unknown path command %q", seg.Cmd)
	}
	if len(seg.Pts) != want {
		return nil, fmt.Errorf("command %s needs %d points, got %d", seg.Cmd, want, len(seg.Pts))
	}
	pts := make([]vec.Vec2, want)
	for i, p := range seg.Pts {
		if len(p) != 2 {
			return nil, errMalformedPoint
		}
		pts[i] = vec.Vec2{X: p[0], Y: p[1]}
	}
	return pts, nil
}

var errMalformedPoint = errors.New("points must have exactly two coordinates")

// ParseColor parses a colour of the form "#rrggbb" or "#rgb".
func ParseColor(s string) (RGB, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if ok && len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if !ok || len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q", s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
