package frontend

// lexGlobal is the lexer's only state: Simply's surface syntax has no
// nested lexical modes (no strings, no block comments), so unlike the
// teacher's VSL lexer this never needs to hand off to a lexString-style
// state.
func lexGlobal(l *lexer) stateFunc {
	for {
		r := l.next()
		switch {
		case isAlpha(r):
			return lexWord
		case isDigit(r):
			return lexNumber
		case r == '\n':
			l.ignore()
			l.line++
			l.startOnLine = 1
		case isSpace(r):
			l.ignore()
		case r == '-' && l.peek() == '>':
			l.next()
			l.emit(ARROW)
		case r == '/' && l.peek() == '/':
			for c := l.next(); c != '\n' && c != eof; c = l.next() {
			}
			l.ignore()
			l.line++
			l.startOnLine = 1
		case r == eof:
			l.emit(itemEOF)
			return nil
		default:
			// Single-character punctuation ('(', ')', '.', '\', ':', '=',
			// '+', '-', '*', '<') is let through as itemType(r), exactly
			// the trick the teacher's own lexGlobal uses for VSL's
			// single-char operators.
			l.emit(itemType(r))
		}
	}
}

// lexWord scans an identifier or keyword.
func lexWord(l *lexer) stateFunc {
	for {
		r := l.next()
		if !isAlpha(r) && !isDigit(r) && r != '_' {
			l.backup()
			if kw, typ := isKeyword(l.input[l.start:l.pos]); kw {
				l.emit(typ)
			} else {
				l.emit(IDENTIFIER)
			}
			return lexGlobal
		}
	}
}

// lexNumber scans an integer literal. Simply has no floats and no
// negative literals at the lexical level (negation is ordinary
// subtraction from zero, left to the parser/surface programs to write
// out, exactly as spec.md's grammar has no unary minus).
func lexNumber(l *lexer) stateFunc {
	r := l.next()
	for ; isDigit(r); r = l.next() {
	}
	l.backup()
	l.emit(INTEGER)
	return lexGlobal
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\f' || r == '\r'
}
