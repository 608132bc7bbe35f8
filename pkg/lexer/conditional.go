package lexer

// conditional is one open #if, #ifdef or #ifndef.
type conditional struct {
	mode Mode // scanner mode to restore at the matching #endif
	line int  // line of the opening directive
}

// Conditionals is the stack of open preprocessor conditionals.
type Conditionals struct {
	stack []conditional
}

// NewConditionals returns an empty conditional stack.
func NewConditionals() *Conditionals {
	return &Conditionals{}
}

// Push records a conditional opened at line while the scanner was in mode.
func (c *Conditionals) Push(mode Mode, line int) {
	c.stack = append(c.stack, conditional{mode: mode, line: line})
}

// Pop closes the innermost conditional and returns the mode saved for it.
// ok is false when no conditional is open.
func (c *Conditionals) Pop() (mode Mode, ok bool) {
	if len(c.stack) == 0 {
		return ModeNormal, false
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return top.mode, true
}

// Depth returns the number of open conditionals.
func (c *Conditionals) Depth() int {
	return len(c.stack)
}

// Open returns the lines of the open conditionals, outermost first.
func (c *Conditionals) Open() []int {
	lines := make([]int, len(c.stack))
	for i, cond := range c.stack {
		lines[i] = cond.line
	}
	return lines
}

// Reset discards all open conditionals.
func (c *Conditionals) Reset() {
	c.stack = c.stack[:0]
}
