// This lexer is based on, and copied from, Rob Pike's excellent talk on Go
// scanners (https://www.youtube.com/watch?v=HxaD_trXwRE,
// https://talks.golang.org/2011/lex.slide#1), exactly as the teacher's own
// frontend/lexer.go credits it.
//
// The lexer uses state functions stateFunc to define the lexer state.
// States allow the lexer to treat the same runes differently depending on
// context. State transitions happen within states on the appearance of key
// runes. The lexer scans by 'rune' rather than byte, giving it native
// UTF-8 support for identifiers and whitespace (though Simply's own token
// set never needs more than ASCII).
package frontend

import (
	"fmt"
	"unicode/utf8"
)

// stateFunc defines the state of the lexer.
type stateFunc func(*lexer) stateFunc

// itemType differentiates the tokens scanned by the lexer. Simple
// single-character punctuation (parens, the arithmetic and comparison
// operators, ':', '=', '.', '\') is never given a named constant of its
// own: lexGlobal emits itemType(r) directly for these, so the parser
// compares against itemType('+') etc. — the same "let the ASCII code be
// the token type" trick the teacher's own lexer uses for VSL's single-char
// operators.
type itemType int

const (
	itemEOF itemType = iota
	itemError

	IDENTIFIER
	INTEGER

	// Keywords.
	DEF
	LET
	IN
	IF
	THEN
	ELSE
	TRUE
	FALSE
	FIX
	KINT
	KBOOL

	// ARROW is the only multi-character punctuation token ("->"); every
	// other piece of punctuation is single-rune and uses the ASCII trick
	// above instead of a named constant.
	ARROW
)

// item contains a lexeme scanned by the lexer and its position in the
// source stream.
type item struct {
	typ  itemType
	val  string
	line int
	pos  int
}

// lexer traverses a source stream rune by rune and emits lexemes on a
// channel, exactly as the teacher's lexer does.
type lexer struct {
	input       string
	start       int
	pos         int
	width       int
	line        int
	startOnLine int
	state       stateFunc
	items       chan item
}

const eof = 0

// String renders an item for diagnostics (used by `simplyc tokens`).
func (i item) String() string {
	switch i.typ {
	case itemEOF:
		return "EOF"
	case itemError:
		return fmt.Sprintf("%s [ERROR]", i.val)
	}
	if len(i.val) > 16 {
		return fmt.Sprintf("%.16q... (line %d:%d)", i.val, i.line, i.pos)
	}
	return fmt.Sprintf("%q (line %d:%d)", i.val, i.line, i.pos)
}

// newLexer creates a lexer over src, ready to run from lexGlobal.
func newLexer(src string) *lexer {
	return &lexer{
		input:       src,
		line:        1,
		startOnLine: 1,
		state:       lexGlobal,
		items:       make(chan item, 2),
	}
}

// run drives the state machine to completion, emitting items as it goes.
// Intended to be launched with `go l.run()`, mirroring the teacher's
// concurrent lexer/parser pipeline: the parser consumes nextItem() while
// this goroutine stays one or more tokens ahead.
func (l *lexer) run() {
	defer close(l.items)
	for state := l.state; state != nil; {
		state = state(l)
	}
}

// emit sends an item of type typ back to the parser.
func (l *lexer) emit(typ itemType) {
	l.items <- item{
		typ:  typ,
		val:  l.input[l.start:l.pos],
		line: l.line,
		pos:  l.startOnLine,
	}
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// next returns the next rune in the input.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// backup steps back one rune. Must only be called once per call of next.
func (l *lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

// peek returns, but does not consume, the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// nextItem returns the next item from the input, blocking until run
// produces one.
func (l *lexer) nextItem() item {
	return <-l.items
}

// errorf emits an error item and terminates the scan.
func (l *lexer) errorf(format string, args ...interface{}) stateFunc {
	l.items <- item{
		typ:  itemError,
		val:  fmt.Sprintf(format, args...),
		line: l.line,
		pos:  l.startOnLine,
	}
	return nil
}
