package lexer

import (
	"slices"
	"testing"
)

func TestConditionals(t *testing.T) {
	c := NewConditionals()

	if _, ok := c.Pop(); ok {
		t.Fatal("Pop on an empty stack should fail")
	}

	c.Push(ModeNormal, 3)
	c.Push(ModeSkipText, 7)
	if c.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", c.Depth())
	}
	if got := c.Open(); !slices.Equal(got, []int{3, 7}) {
		t.Errorf("Open() = %v, want [3 7]", got)
	}

	mode, ok := c.Pop()
	if !ok || mode != ModeSkipText {
		t.Errorf("Pop() = %v, %v; want SkipText, true", mode, ok)
	}

	c.Reset()
	if c.Depth() != 0 || len(c.Open()) != 0 {
		t.Errorf("Reset left %d conditionals open", c.Depth())
	}
}
