package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func alive(s *Scope) bool {
	return s.Context().Err() == nil
}

func TestScope_CloseCancelsChildren(t *testing.T) {
	root := NewScope(context.Background())
	child := root.Child()
	grandchild := child.Child()

	assert.True(t, alive(grandchild))
	root.Close()

	assert.False(t, alive(root))
	assert.False(t, alive(child))
	assert.False(t, alive(grandchild))
	assert.ErrorIs(t, grandchild.Context().Err(), context.Canceled)
}

func TestScope_ChildCloseLeavesParent(t *testing.T) {
	root := NewScope(context.Background())
	child := root.Child()
	sibling := root.Child()
	assert.Equal(t, 2, root.open())

	child.Close()
	child.Close()

	assert.True(t, alive(root))
	assert.True(t, alive(sibling))
	assert.False(t, alive(child))
	assert.Equal(t, 1, root.open(), "closed children are detached")
}

func TestGeneration_DropsOutOfOrderResponses(t *testing.T) {
	var g Generation
	first := g.Next()
	second := g.Next()

	var applied []uint64
	assert.True(t, g.Apply(second, func() { applied = append(applied, second) }))
	assert.False(t, g.Apply(first, func() { applied = append(applied, first) }))
	assert.Equal(t, []uint64{second}, applied)
}

func TestGeneration_Invalidate(t *testing.T) {
	var g Generation
	pending := g.Next()
	g.Invalidate()

	assert.False(t, g.Apply(pending, func() {}))
	assert.True(t, g.Apply(g.Next(), func() {}))
}
