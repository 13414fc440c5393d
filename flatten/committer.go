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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"seehuhn.de/go/ink"
)

// ErrBusy is returned by [Committer.Submit] while another commit is
// running.
var ErrBusy = errors.New("a commit is already in progress")

// Outcome is the result of one commit submitted to a [Committer].
type Outcome struct {
	Result *Result
	Err    error
}

// Committer runs commits on a background goroutine, one at a time.
// The zero value is ready to use.
type Committer struct {
	mu   sync.Mutex
	busy bool
}

// Submit starts running job with the given strategy and returns a channel
// which receives exactly one [Outcome].  If a commit is already in
// progress, Submit returns [ErrBusy] and the job is not started.
//
// A commit cannot be cancelled once it has been submitted.  The committer
// is free again before the outcome is delivered, so that the receiver can
// submit the next job straight away.
func (c *Committer) Submit(strategy Strategy, job *Job) (<-chan Outcome, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.mu.Unlock()

	done := make(chan Outcome, 1)
	go func() {
		log := ink.Logger()
		mode := strategy.Name()
		log.Info("commit started", "mode", mode, "source", job.Source,
			"strokes", len(job.Strokes))
		start := time.Now()

		res, err := run(strategy, job)
		if err != nil {
			log.Info("commit failed", "mode", mode, "error", err)
		} else {
			log.Info("commit finished", "mode", mode, "output", res.Output,
				"pages", res.Pages, "strokes", res.Strokes,
				"duration", time.Since(start))
		}

		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
		done <- Outcome{Result: res, Err: err}
	}()
	return done, nil
}

// run calls strategy.Run and turns a panic into an error, so that the
// committer is released in every case.
func run(strategy Strategy, job *Job) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%s commit: panic: %v", strategy.Name(), r)
		}
	}()
	return strategy.Run(context.Background(), job)
}

// Busy reports whether a commit is in progress.
func (c *Committer) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}
