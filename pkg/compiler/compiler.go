// Package compiler implements glox's single-pass Pratt-precedence
// compiler: it drives a Scanner token-by-token and emits bytecode plus
// constants directly into a Chunk, with no intermediate AST. Parsing
// and code generation are the same pass — the "hard part" this whole
// module exists to get right (see spec.md §1).
package compiler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mvarga/glox/pkg/chunk"
	"github.com/mvarga/glox/pkg/scanner"
	"github.com/mvarga/glox/pkg/token"
	"github.com/mvarga/glox/pkg/value"
)

// Precedence is one rung of the Pratt table's ladder, low to high.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

// prefixFn compiles a prefix position expression (the token has
// already been advanced past). infixFn compiles an infix operator
// given the already-compiled left operand is sitting on the chunk's
// emitted instructions.
type prefixFn func(c *Compiler)
type infixFn func(c *Compiler)

// rule is one row of the Pratt table: what to do when a token kind
// appears in prefix position, what to do when it appears in infix
// position, and at what precedence it binds as an infix operator.
type rule struct {
	prefix     prefixFn
	infix      infixFn
	precedence Precedence
}

// rules is indexed by token.Kind. Built once; see init below.
var rules map[token.Kind]rule

func init() {
	rules = map[token.Kind]rule{
		token.LeftParen:  {prefix: (*Compiler).grouping},
		token.Minus:      {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.Plus:       {infix: (*Compiler).binary, precedence: PrecTerm},
		token.Slash:      {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Star:       {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Bang:       {prefix: (*Compiler).unary},
		token.BangEqual:  {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EqualEqual: {infix: (*Compiler).binary, precedence: PrecEquality},
		token.Greater:      {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GreaterEqual: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Less:         {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LessEqual:    {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Number: {prefix: (*Compiler).number},
		token.String: {prefix: (*Compiler).string},
		token.True:   {prefix: (*Compiler).literal},
		token.False:  {prefix: (*Compiler).literal},
		token.Nil:    {prefix: (*Compiler).literal},
	}
}

func getRule(k token.Kind) rule {
	return rules[k] // zero value: {nil, nil, PrecNone}
}

// Compiler holds the parser state for a single compilation: the
// lookbehind/lookahead token pair, the error flags, the scanner feeding
// it, and the chunk it's writing into. A Compiler is single-use — build
// a fresh one per call to Compile.
type Compiler struct {
	scanner *scanner.Scanner
	chunk   *chunk.Chunk
	objects *value.Objects
	diag    io.Writer

	previous  token.Token
	current   token.Token
	hadError  bool
	panicMode bool
}

// Compile compiles source into out (which should be empty) and returns
// whether compilation succeeded. On failure, out may contain partial,
// meaningless bytecode — callers must check the returned bool before
// using out, exactly as spec.md's embedding API documents. Diagnostics
// are written to diag in the exact shapes spec.md §6 specifies; pass
// os.Stderr to match the reference CLI.
//
// objects is the VM's object list: every string constant the compiler
// allocates is linked into it so the owning VM can free it at
// teardown. Installing that pointer before compiling is the caller's
// responsibility — failing to do so leaks the allocated strings (see
// pkg/value's package doc).
func Compile(source string, out *chunk.Chunk, objects *value.Objects, diag io.Writer) bool {
	c := &Compiler{
		scanner: scanner.New(source),
		chunk:   out,
		objects: objects,
		diag:    diag,
	}

	c.advance()
	c.expression()
	c.consume(token.EOF, "Expect end of expression.")
	c.emitReturn()

	return !c.hadError
}

// advance pulls the next non-error token from the scanner into
// current, reporting any ERROR tokens along the way, and shifts the
// previous current into previous.
func (c *Compiler) advance() {
	c.previous = c.current

	for {
		c.current = c.scanner.Next()
		if c.current.Kind != token.Error {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

// consume advances past current if it matches kind; otherwise it
// reports message at current's position without advancing.
func (c *Compiler) consume(kind token.Kind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// expression compiles a single expression at the lowest (assignment)
// precedence — the sole entry point into the Pratt parser.
func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the Pratt parsing loop: consume one prefix
// expression, then keep consuming infix operators as long as their
// precedence is at least prec.
func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Kind).prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}
	prefixRule(c)

	for prec <= getRule(c.current.Kind).precedence {
		c.advance()
		infixRule := getRule(c.previous.Kind).infix
		infixRule(c)
	}
}

// --- prefix/infix actions ---------------------------------------------------

func (c *Compiler) number() {
	v, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.Number(v))
}

func (c *Compiler) literal() {
	switch c.previous.Kind {
	case token.False:
		c.emitByte(byte(chunk.OpFalse))
	case token.Nil:
		c.emitByte(byte(chunk.OpNil))
	case token.True:
		c.emitByte(byte(chunk.OpTrue))
	}
}

func (c *Compiler) string() {
	// Strip the surrounding quote bytes the scanner included in the
	// lexeme.
	lexeme := c.previous.Lexeme
	interior := lexeme[1 : len(lexeme)-1]
	obj := c.objects.NewString(interior)
	c.emitConstant(value.Obj(obj))
}

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary() {
	operatorKind := c.previous.Kind
	line := c.previous.Line

	c.parsePrecedence(PrecUnary)

	switch operatorKind {
	case token.Bang:
		c.emitByteLine(byte(chunk.OpNot), line)
	case token.Minus:
		c.emitByteLine(byte(chunk.OpNegate), line)
	}
}

func (c *Compiler) binary() {
	operatorKind := c.previous.Kind
	line := c.previous.Line
	r := getRule(operatorKind)
	c.parsePrecedence(r.precedence + 1)

	switch operatorKind {
	case token.Plus:
		c.emitByteLine(byte(chunk.OpAdd), line)
	case token.Minus:
		c.emitByteLine(byte(chunk.OpSubtract), line)
	case token.Star:
		c.emitByteLine(byte(chunk.OpMultiply), line)
	case token.Slash:
		c.emitByteLine(byte(chunk.OpDivide), line)
	case token.EqualEqual:
		c.emitByteLine(byte(chunk.OpEqual), line)
	case token.BangEqual:
		c.emitByteLine(byte(chunk.OpEqual), line)
		c.emitByteLine(byte(chunk.OpNot), line)
	case token.Less:
		c.emitByteLine(byte(chunk.OpLess), line)
	case token.LessEqual:
		c.emitByteLine(byte(chunk.OpGreater), line)
		c.emitByteLine(byte(chunk.OpNot), line)
	case token.Greater:
		c.emitByteLine(byte(chunk.OpGreater), line)
	case token.GreaterEqual:
		c.emitByteLine(byte(chunk.OpLess), line)
		c.emitByteLine(byte(chunk.OpNot), line)
	}
}

// --- emitters ----------------------------------------------------------

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitByteLine(b byte, line int) {
	c.chunk.Write(b, line)
}

func (c *Compiler) emitBytes(a, b byte) {
	c.emitByte(a)
	c.emitByte(b)
}

func (c *Compiler) emitReturn() {
	c.emitByte(byte(chunk.OpReturn))
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitBytes(byte(chunk.OpConstant), c.makeConstant(v))
}

func (c *Compiler) makeConstant(v value.Value) byte {
	idx := c.chunk.AddConstant(v)
	if idx > 255 {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

// --- error reporting -----------------------------------------------------

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

// errorAt reports message at tok's position in the shape spec.md §6
// requires, and enters panic mode so cascading errors in the rest of
// this (single) expression are suppressed. Because this language has
// no statement boundaries to resynchronize on, panic mode simply lasts
// until the compiler reaches EOF — it still prevents a flood of
// follow-on diagnostics from one bad token.
func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	if c.diag == nil {
		return
	}

	fmt.Fprintf(c.diag, "[line %d] Error", tok.Line)
	switch {
	case tok.Kind == token.EOF:
		fmt.Fprint(c.diag, " at end")
	case tok.Kind == token.Error:
		// lexeme is already the diagnostic; nothing to quote.
	default:
		fmt.Fprintf(c.diag, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(c.diag, ": %s\n", message)
}
