// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package profile implements a hierarchical wall-clock profiler. Scopes
// opened with Tic nest, and the report shows each scope's cumulative
// time together with its share of the total.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type scope struct {
	name     string
	total    time.Duration
	started  time.Time
	parent   *scope
	children map[string]*scope
	order    []string
}

func (s *scope) child(name string) *scope {
	if c, ok := s.children[name]; ok {
		return c
	}
	c := &scope{name: name, parent: s, children: make(map[string]*scope)}
	s.children[name] = c
	s.order = append(s.order, name)
	return c
}

// Profiler accumulates time spent in named nested scopes. It is not
// safe for concurrent use.
type Profiler struct {
	root    *scope
	current *scope
	now     func() time.Time
}

// New returns a profiler whose report is titled name. An empty name
// defaults to "Profile".
func New(name string) *Profiler {
	if name == "" {
		name = "Profile"
	}
	p := &Profiler{now: time.Now}
	p.root = &scope{name: name, children: make(map[string]*scope)}
	p.root.started = p.now()
	p.current = p.root
	return p
}

// Tic opens a nested scope with the given name. Repeated scopes with
// the same name under the same parent accumulate.
func (p *Profiler) Tic(name string) {
	c := p.current.child(name)
	c.started = p.now()
	p.current = c
}

// Toc closes the innermost open scope and returns its elapsed time. It
// panics if name does not match the scope opened by the pairing Tic.
func (p *Profiler) Toc(name string) time.Duration {
	s := p.current
	if s.parent == nil {
		panic("profile: Toc without matching Tic")
	}
	if s.name != name {
		panic(fmt.Sprintf("profile: Toc(%q) closes scope %q", name, s.name))
	}
	d := p.now().Sub(s.started)
	s.total += d
	p.current = s.parent
	return d
}

// Scoped opens a scope and returns the function closing it, for use
// with defer.
func (p *Profiler) Scoped(name string) func() {
	p.Tic(name)
	return func() { p.Toc(name) }
}

func (s *scope) width(indent int) int {
	w := indent + len(s.name)
	if len(s.order) > 0 && indent+1+len("self") > w {
		w = indent + 1 + len("self")
	}
	for _, name := range s.order {
		if cw := s.children[name].width(indent + 1); cw > w {
			w = cw
		}
	}
	return w
}

func (s *scope) report(sb *strings.Builder, indent, width int, total time.Duration) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(sb, "[%s%s:%s %10.3f s] (%6.2f%%)\n",
		pad, s.name, strings.Repeat(" ", width-indent-len(s.name)),
		s.total.Seconds(), 100*s.total.Seconds()/total.Seconds())

	if len(s.order) == 0 {
		return
	}
	var accounted time.Duration
	for _, name := range s.order {
		accounted += s.children[name].total
	}
	if self := s.total - accounted; self > 0 {
		pad := strings.Repeat(" ", indent+1)
		fmt.Fprintf(sb, "[%sself:%s %10.3f s] (%6.2f%%)\n",
			pad, strings.Repeat(" ", width-indent-5),
			self.Seconds(), 100*self.Seconds()/total.Seconds())
	}
	names := append([]string(nil), s.order...)
	sort.Strings(names)
	for _, name := range names {
		s.children[name].report(sb, indent+1, width, total)
	}
}

// String renders the report. Open scopes, including the implicit root,
// are charged up to the present moment.
func (p *Profiler) String() string {
	for s := p.current; s != nil; s = s.parent {
		s.total += p.now().Sub(s.started)
		s.started = p.now()
	}

	width := p.root.width(0) + 1
	var sb strings.Builder
	p.root.report(&sb, 0, width, p.root.total)
	return sb.String()
}
