package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvarga/glox/pkg/scanner"
	"github.com/mvarga/glox/pkg/token"
)

func allTokens(t *testing.T, source string) []token.Token {
	t.Helper()
	s := scanner.New(source)
	var toks []token.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestSingleCharPunctuation(t *testing.T) {
	toks := allTokens(t, "(){},.-+;/*")
	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Slash, token.Star, token.EOF,
	}, kinds)
}

func TestTwoCharPunctuation(t *testing.T) {
	toks := allTokens(t, "! != = == < <= > >=")
	want := []token.Kind{
		token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual,
		token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, tok := range toks {
		assert.Equal(t, want[i], tok.Kind, "token %d", i)
	}
}

func TestKeywords(t *testing.T) {
	for word, kind := range token.Keywords {
		toks := allTokens(t, word)
		require.Len(t, toks, 2)
		assert.Equal(t, kind, toks[0].Kind, "keyword %q", word)
	}
}

func TestIdentifierSharingKeywordPrefix(t *testing.T) {
	for _, word := range []string{"andy", "classy", "orchid", "forall"} {
		toks := allTokens(t, word)
		require.Len(t, toks, 2)
		assert.Equal(t, token.Identifier, toks[0].Kind, "word %q", word)
		assert.Equal(t, word, toks[0].Lexeme)
	}
}

func TestNumberLiterals(t *testing.T) {
	toks := allTokens(t, "123 3.14 123.")
	require.Len(t, toks, 5)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, "123", toks[0].Lexeme)
	assert.Equal(t, token.Number, toks[1].Kind)
	assert.Equal(t, "3.14", toks[1].Lexeme)
	// "123." - the trailing dot is NOT part of the literal.
	assert.Equal(t, token.Number, toks[2].Kind)
	assert.Equal(t, "123", toks[2].Lexeme)
	assert.Equal(t, token.Dot, toks[3].Kind)
}

func TestLoneDotIsNotANumber(t *testing.T) {
	toks := allTokens(t, ".")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Dot, toks[0].Kind)
}

func TestStringLiteral(t *testing.T) {
	toks := allTokens(t, `"hello world"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, `"hello world"`, toks[0].Lexeme)
}

func TestStringSpanningNewlineTracksOpeningLine(t *testing.T) {
	toks := allTokens(t, "\"line one\nline two\"")
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, 1, toks[0].Line, "STRING token carries the opening quote's line")
}

func TestUnterminatedString(t *testing.T) {
	toks := allTokens(t, `"oops`)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Error, toks[0].Kind)
	assert.Equal(t, "Unterminated string.", toks[0].Lexeme)
}

func TestUnexpectedCharacter(t *testing.T) {
	toks := allTokens(t, "@")
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Error, toks[0].Kind)
	assert.Equal(t, "Unexpected character.", toks[0].Lexeme)
}

func TestLineComment(t *testing.T) {
	toks := allTokens(t, "1 // a comment\n2")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, token.Number, toks[1].Kind)
	assert.Equal(t, 2, toks[1].Line)
}

func TestEmptySourceIsImmediatelyEOF(t *testing.T) {
	toks := allTokens(t, "")
	require.Len(t, toks, 1)
	assert.Equal(t, token.EOF, toks[0].Kind)
}
