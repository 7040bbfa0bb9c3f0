// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

// Package termstat reports run progress on a terminal.
package termstat

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pilosa/relkit"
)

// Collector is a relkit.Statter which keeps running totals of counters and
// rewrites them on one terminal line every interval. Every call is also
// passed on to the wrapped Statter.
type Collector struct {
	lock    sync.Mutex
	totals  map[string]int64
	changed bool
	out     io.Writer
	next    relkit.Statter

	done chan struct{}
	wg   sync.WaitGroup
}

// NewCollector starts a Collector writing to out every interval. next may be
// nil. Close must be called to stop it.
func NewCollector(out io.Writer, interval time.Duration, next relkit.Statter) *Collector {
	if next == nil {
		next = relkit.NopStatter{}
	}
	ts := &Collector{
		totals: make(map[string]int64),
		out:    out,
		next:   next,
		done:   make(chan struct{}),
	}
	ts.wg.Add(1)
	go func() {
		defer ts.wg.Done()
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				ts.write(false)
			case <-ts.done:
				return
			}
		}
	}()
	return ts
}

// Close stops the Collector and writes the final totals followed by a
// newline.
func (t *Collector) Close() error {
	close(t.done)
	t.wg.Wait()
	t.write(true)
	return nil
}

func (t *Collector) Count(name string, value int64, rate float64, tags ...string) {
	t.lock.Lock()
	t.totals[name] += value
	t.changed = true
	t.lock.Unlock()
	t.next.Count(name, value, rate, tags...)
}

// Line returns the current totals as written to the terminal.
func (t *Collector) Line() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.line()
}

func (t *Collector) line() string {
	names := make([]string, 0, len(t.totals))
	for name := range t.totals {
		names = append(names, name)
	}
	sort.Strings(names)
	sb := strings.Builder{}
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s: %d", name, t.totals[name])
	}
	return sb.String()
}

func (t *Collector) write(final bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.changed && !final {
		return
	}
	t.changed = false
	if final {
		fmt.Fprintf(t.out, "\r%s\n", t.line())
		return
	}
	fmt.Fprintf(t.out, "\r%s", t.line())
}

func (t *Collector) Gauge(name string, value float64, rate float64, tags ...string) {
	t.next.Gauge(name, value, rate, tags...)
}

func (t *Collector) Histogram(name string, value float64, rate float64, tags ...string) {
	t.next.Histogram(name, value, rate, tags...)
}

func (t *Collector) Set(name string, value string, rate float64, tags ...string) {
	t.next.Set(name, value, rate, tags...)
}

func (t *Collector) Timing(name string, value time.Duration, rate float64, tags ...string) {
	t.next.Timing(name, value, rate, tags...)
}
