// Package asm supplies the token-stream reader and writer the textual
// form of the Triton XLA operations is built on: a small lexer, parsing
// primitives for operands, integer arrays and attribute dictionaries,
// and a first-error-wins printer.
package asm

import "github.com/gomlx/tritonxla/types"

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota

	// TokenIdent covers op mnemonics, keywords and type names: a letter
	// or underscore followed by letters, digits, underscores or dots.
	TokenIdent

	// TokenInt is an unsigned integer literal; a leading sign is lexed
	// as a separate TokenMinus.
	TokenInt

	// TokenString is a double-quoted string literal, Text holds the
	// unquoted value.
	TokenString

	// TokenOperand is an SSA value reference: '%' followed by ident
	// characters. Text holds the name without the '%'.
	TokenOperand

	// TokenTypeBody is a '<'-delimited type body: Text holds everything
	// between the balanced '<' and '>', e.g. "128x64xf16".
	TokenTypeBody

	// Punctuation.
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenComma        // ,
	TokenColon        // :
	TokenEqual        // =
	TokenMinus        // -
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "end of input",
	TokenIdent:        "identifier",
	TokenInt:          "integer",
	TokenString:       "string",
	TokenOperand:      "operand",
	TokenTypeBody:     "type body",
	TokenLeftBracket:  "'['",
	TokenRightBracket: "']'",
	TokenLeftBrace:    "'{'",
	TokenRightBrace:   "'}'",
	TokenComma:        "','",
	TokenColon:        "':'",
	TokenEqual:        "'='",
	TokenMinus:        "'-'",
}

// String implements fmt.Stringer.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "unknown token"
}

// Token is a single lexed token with its source location.
type Token struct {
	Kind TokenKind
	Text string
	Loc  types.Location
}
