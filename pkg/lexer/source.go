package lexer

import "modernc.org/token"

// frame is one layer of scanner input. The bottom frame is the source file;
// every other frame holds the replacement text of an object macro and is
// consumed before scanning resumes in the frame below it.
type frame struct {
	text  string
	pos   int
	macro string    // macro being expanded, "" for the source file
	use   token.Pos // position of the macro use
	line  int       // line of the macro use
}

// source is a layered cursor over the input. Macro expansion pushes a frame
// instead of splicing text into the source string.
type source struct {
	frames []*frame
	file   *token.File
	line   int
}

func newSource(input string, file *token.File) *source {
	return &source{
		frames: []*frame{{text: input}},
		file:   file,
		line:   1,
	}
}

func (s *source) top() *frame {
	return s.frames[len(s.frames)-1]
}

// inFile reports whether scanning is in the source file rather than in a
// macro replacement.
func (s *source) inFile() bool {
	return len(s.frames) == 1
}

func (s *source) peek() byte {
	return s.peekAt(0)
}

func (s *source) peekAt(offset int) byte {
	f := s.top()
	if f.pos+offset >= len(f.text) {
		return 0
	}
	return f.text[f.pos+offset]
}

// exhausted reports whether the top frame has no input left.
func (s *source) exhausted() bool {
	f := s.top()
	return f.pos >= len(f.text)
}

// eof reports whether all input, including pending macro text, is consumed.
func (s *source) eof() bool {
	return s.inFile() && s.exhausted()
}

func (s *source) advance() {
	f := s.top()
	if f.pos >= len(f.text) {
		return
	}
	c := f.text[f.pos]
	f.pos++
	if c == '\n' && s.inFile() {
		s.line++
		s.file.AddLine(f.pos)
	}
}

// pop discards an exhausted macro frame. It returns false when the top frame
// is the source file.
func (s *source) pop() bool {
	if s.inFile() {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// push starts scanning the replacement text of macro.
func (s *source) push(macro, text string, use token.Pos, line int) {
	s.frames = append(s.frames, &frame{text: text, macro: macro, use: use, line: line})
}

// expanding reports whether macro is being expanded in any active frame.
func (s *source) expanding(macro string) bool {
	for _, f := range s.frames[1:] {
		if f.macro == macro {
			return true
		}
	}
	return false
}

// offset returns the cursor offset in the top frame.
func (s *source) offset() int {
	return s.top().pos
}

// text returns the top frame's input between start and the cursor.
func (s *source) text(start int) string {
	f := s.top()
	return f.text[start:f.pos]
}

// rewind moves the cursor of the top frame back to offset. It must not cross
// a newline.
func (s *source) rewind(offset int) {
	s.top().pos = offset
}

// location returns the position and line reported for a token starting at
// the cursor. Tokens read from macro text report the macro use site.
func (s *source) location() (token.Pos, int) {
	if s.inFile() {
		return s.file.Pos(s.offset()), s.line
	}
	f := s.frames[1]
	return f.use, f.line
}
