// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package profile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances by a fixed step on every reading, making scope
// durations deterministic.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestProfiler(step time.Duration) *Profiler {
	c := &fakeClock{t: time.Unix(0, 0), step: step}
	p := New("Profile")
	p.now = c.now
	p.root.started = c.now()
	return p
}

func TestTocElapsed(t *testing.T) {
	p := newTestProfiler(time.Second)

	p.Tic("read")
	d := p.Toc("read")
	assert.Equal(t, time.Second, d)
}

func TestTocMismatchPanics(t *testing.T) {
	p := New("")
	p.Tic("setup")
	assert.Panics(t, func() { p.Toc("solve") })
	assert.Panics(t, func() {
		q := New("")
		q.Toc("anything")
	})
}

func TestNestedAccumulation(t *testing.T) {
	p := newTestProfiler(time.Second)

	p.Tic("solve")
	for i := 0; i < 3; i++ {
		p.Tic("spmv")
		p.Toc("spmv")
	}
	p.Toc("solve")

	solve := p.root.children["solve"]
	require.NotNil(t, solve)
	assert.Equal(t, 3*time.Second, solve.children["spmv"].total)
	assert.Greater(t, solve.total, solve.children["spmv"].total)
}

func TestReportLayout(t *testing.T) {
	p := newTestProfiler(time.Millisecond)

	p.Tic("setup")
	p.Tic("cpr")
	p.Toc("cpr")
	p.Tic("simple")
	p.Toc("simple")
	p.Toc("setup")
	p.Tic("solve")
	p.Toc("solve")

	s := p.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 5)

	assert.Contains(t, lines[0], "Profile:")
	assert.Contains(t, lines[0], "(100.00%)")
	assert.Contains(t, s, " setup:")
	assert.Contains(t, s, "  cpr:")
	assert.Contains(t, s, "  simple:")
	assert.Contains(t, s, " solve:")
	assert.Contains(t, s, "  self:")

	// Every line has the same column for the closing bracket.
	end := strings.Index(lines[0], " s]")
	for _, line := range lines[1:] {
		assert.Equal(t, end, strings.Index(line, " s]"), "line %q", line)
	}
}

func TestScoped(t *testing.T) {
	p := newTestProfiler(time.Second)

	func() {
		defer p.Scoped("read")()
	}()

	require.NotNil(t, p.root.children["read"])
	assert.Equal(t, time.Second, p.root.children["read"].total)
}
