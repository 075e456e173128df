// Package lifecycle binds requests to the lifetime of the view that issued them.
package lifecycle

import (
	"context"
	"sync"
)

// Scope is a cancellable context tied to one consumer. Closing the scope
// cancels its in-flight requests; callers drop responses that arrive afterwards.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	parent *Scope

	mu       sync.Mutex
	children map[*Scope]struct{}
}

// NewScope derives a scope from parent
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the context requests should run under
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Child opens a nested scope closed together with s. Closing the child
// detaches it from s.
func (s *Scope) Child() *Scope {
	child := NewScope(s.ctx)
	child.parent = s
	s.mu.Lock()
	if s.children == nil {
		s.children = make(map[*Scope]struct{})
	}
	s.children[child] = struct{}{}
	s.mu.Unlock()
	return child
}

// Close cancels the scope and all children. It is safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	children := s.children
	s.children = nil
	s.mu.Unlock()

	for c := range children {
		c.Close()
	}
	s.cancel()

	if p := s.parent; p != nil {
		p.mu.Lock()
		delete(p.children, s)
		p.mu.Unlock()
	}
}

// open is the number of live children
func (s *Scope) open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.children)
}

// Generation hands out monotonically increasing request numbers and tells
// whether a finished request is still the newest one applied.
type Generation struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Next reserves a number for a new request
func (g *Generation) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

// Apply runs fn when n is newer than every response already applied.
// It reports whether fn ran.
func (g *Generation) Apply(n uint64, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n <= g.applied {
		return false
	}
	g.applied = n
	fn()
	return true
}

// Invalidate makes every request issued so far stale
func (g *Generation) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.applied = g.issued
}
