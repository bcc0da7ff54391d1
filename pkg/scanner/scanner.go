// Package scanner implements the single-pass, allocation-free lexical
// analyzer for glox.
//
// The scanner never allocates: every Token's lexeme is a byte-range
// view into the source the Scanner was constructed with (a simple Go
// string slice). It hands tokens to the compiler one at a time, on
// demand, rather than tokenizing the whole source up front — the
// compiler drives the pace by calling Next repeatedly.
//
// Lexical rules are ASCII-only and byte-oriented: there is no
// Unicode-aware classification anywhere in this package, matching the
// language's scope (source is treated as a byte sequence, not runes).
package scanner

import "github.com/mvarga/glox/pkg/token"

// Scanner holds the cursors into a source byte sequence.
//
// start marks the beginning of the token currently being scanned;
// current is the next byte to consume. Both are byte offsets, not rune
// offsets, since the lexical grammar is ASCII-only.
type Scanner struct {
	source    string
	start     int
	current   int
	line      int
	startLine int
}

// New constructs a Scanner over source. The Scanner borrows source for
// its entire lifetime; the caller must keep it alive at least as long
// as any Token produced from it is in use.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// Next scans and returns the next token from the source. Whitespace and
// line comments are skipped first; reaching the end of input yields an
// EOF token on the current line.
func (s *Scanner) Next() token.Token {
	s.skipWhitespace()
	s.start = s.current
	s.startLine = s.line

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()

	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LeftParen)
	case ')':
		return s.make(token.RightParen)
	case '{':
		return s.make(token.LeftBrace)
	case '}':
		return s.make(token.RightBrace)
	case ';':
		return s.make(token.Semicolon)
	case ',':
		return s.make(token.Comma)
	case '.':
		return s.make(token.Dot)
	case '-':
		return s.make(token.Minus)
	case '+':
		return s.make(token.Plus)
	case '*':
		return s.make(token.Star)
	case '/':
		return s.make(token.Slash)
	case '!':
		return s.make(s.twoChar('=', token.BangEqual, token.Bang))
	case '=':
		return s.make(s.twoChar('=', token.EqualEqual, token.Equal))
	case '<':
		return s.make(s.twoChar('=', token.LessEqual, token.Less))
	case '>':
		return s.make(s.twoChar('=', token.GreaterEqual, token.Greater))
	case '"':
		return s.string()
	}

	return s.errorToken("Unexpected character.")
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.source)
}

// advance consumes and returns the current byte.
func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

// peek returns the current byte without consuming it, or 0 at end.
func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

// peekNext returns the byte after the current one without consuming
// anything, or 0 if that would be past the end.
func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

// match consumes the current byte and returns true if it equals
// expected; otherwise it leaves the cursor untouched and returns false.
func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

// twoChar is the one-or-two-char punctuation helper: if the next byte
// is expected, it consumes it and returns twoKind; otherwise it returns
// oneKind without consuming anything further.
func (s *Scanner) twoChar(expected byte, twoKind, oneKind token.Kind) token.Kind {
	if s.match(expected) {
		return twoKind
	}
	return oneKind
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.atEnd() {
		return s.errorToken("Unterminated string.")
	}

	s.advance() // closing quote
	return s.make(token.String)
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	return s.make(token.Number)
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	return s.make(s.identifierKind())
}

// identifierKind classifies the lexeme [start, current) as a keyword or
// a plain identifier by branching on its first (and, where ambiguous,
// second) byte — a keyword trie rather than a map lookup, so that
// "andy", "classy", "orchid" and "forall" fall straight through to the
// identifier case without ever matching a keyword prefix.
func (s *Scanner) identifierKind() token.Kind {
	lexeme := s.source[s.start:s.current]

	switch lexeme[0] {
	case 'a':
		return s.checkKeyword(lexeme, "and", token.And)
	case 'c':
		return s.checkKeyword(lexeme, "class", token.Class)
	case 'e':
		return s.checkKeyword(lexeme, "else", token.Else)
	case 'f':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'a':
				return s.checkKeyword(lexeme, "false", token.False)
			case 'o':
				return s.checkKeyword(lexeme, "for", token.For)
			case 'u':
				return s.checkKeyword(lexeme, "fun", token.Fun)
			}
		}
	case 'i':
		return s.checkKeyword(lexeme, "if", token.If)
	case 'n':
		return s.checkKeyword(lexeme, "nil", token.Nil)
	case 'o':
		return s.checkKeyword(lexeme, "or", token.Or)
	case 'p':
		return s.checkKeyword(lexeme, "print", token.Print)
	case 'r':
		return s.checkKeyword(lexeme, "return", token.Return)
	case 's':
		return s.checkKeyword(lexeme, "super", token.Super)
	case 't':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'h':
				return s.checkKeyword(lexeme, "this", token.This)
			case 'r':
				return s.checkKeyword(lexeme, "true", token.True)
			}
		}
	case 'v':
		return s.checkKeyword(lexeme, "var", token.Var)
	case 'w':
		return s.checkKeyword(lexeme, "while", token.While)
	}

	return token.Identifier
}

func (s *Scanner) checkKeyword(lexeme, keyword string, kind token.Kind) token.Kind {
	if lexeme == keyword {
		return kind
	}
	return token.Identifier
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: s.source[s.start:s.current],
		Line:   s.startLine,
	}
}

func (s *Scanner) errorToken(message string) token.Token {
	return token.Token{
		Kind:   token.Error,
		Lexeme: message,
		Line:   s.line,
	}
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
