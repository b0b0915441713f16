package asm

import (
	"strconv"

	"github.com/gomlx/tritonxla/types"
	"github.com/pkg/errors"
)

// UnresolvedOperand is an SSA value reference read from the token
// stream, before its type is known.
type UnresolvedOperand struct {
	Name string
	Loc  types.Location
}

// Parser reads tokens produced by the Lexer. There is no rollback: on
// error the already-consumed prefix stays consumed and the caller is
// responsible for recovery.
type Parser struct {
	tokens []Token
	pos    int

	// lastLoc is the location of the most recently consumed token.
	lastLoc types.Location
}

// NewParser lexes the source and returns a parser over its tokens.
func NewParser(source string) (*Parser, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	return &Parser{tokens: tokens}, nil
}

// Peek returns the next token without consuming it.
func (p *Parser) Peek() Token {
	return p.tokens[p.pos]
}

// Lookahead returns the token n positions ahead without consuming
// anything; Lookahead(0) is Peek. Past the end it returns the TokenEOF.
func (p *Parser) Lookahead(n int) Token {
	pos := p.pos + n
	if pos >= len(p.tokens) {
		pos = len(p.tokens) - 1
	}
	return p.tokens[pos]
}

// Next consumes and returns the next token. At the end of input it keeps
// returning the TokenEOF.
func (p *Parser) Next() Token {
	t := p.tokens[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
		p.lastLoc = t.Loc
	}
	return t
}

// LastLoc returns the location of the most recently consumed token, or
// the zero Location when nothing was consumed yet. Error recovery uses
// it to find the line a failed parse actually stopped on, which may
// differ from the next unconsumed token's line.
func (p *Parser) LastLoc() types.Location { return p.lastLoc }

// AtEOF reports whether all tokens have been consumed.
func (p *Parser) AtEOF() bool { return p.Peek().Kind == TokenEOF }

// Expect consumes the next token and fails if it is not of the given
// kind.
func (p *Parser) Expect(kind TokenKind) (Token, error) {
	t := p.Next()
	if t.Kind != kind {
		return Token{}, errors.Errorf("%s: expected %s, found %s", t.Loc, kind, describe(t))
	}
	return t, nil
}

// ParseKeyword consumes an identifier token and fails unless it spells
// the given word.
func (p *Parser) ParseKeyword(word string) error {
	t := p.Next()
	if t.Kind != TokenIdent || t.Text != word {
		return errors.Errorf("%s: expected keyword %q, found %s", t.Loc, word, describe(t))
	}
	return nil
}

// ParseOperand consumes an SSA value reference like "%arg0".
func (p *Parser) ParseOperand() (UnresolvedOperand, error) {
	t, err := p.Expect(TokenOperand)
	if err != nil {
		return UnresolvedOperand{}, err
	}
	return UnresolvedOperand{Name: t.Text, Loc: t.Loc}, nil
}

// ParseOperandList consumes a square-bracketed, comma-separated and
// possibly empty list of SSA value references: "[%a, %b]".
func (p *Parser) ParseOperandList() ([]UnresolvedOperand, error) {
	if _, err := p.Expect(TokenLeftBracket); err != nil {
		return nil, err
	}
	var operands []UnresolvedOperand
	if p.Peek().Kind == TokenRightBracket {
		p.Next()
		return operands, nil
	}
	for {
		operand, err := p.ParseOperand()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
		t := p.Next()
		if t.Kind == TokenRightBracket {
			return operands, nil
		}
		if t.Kind != TokenComma {
			return nil, errors.Errorf("%s: expected ',' or ']' in operand list, found %s", t.Loc, describe(t))
		}
	}
}

// ParseInt consumes an integer literal with an optional leading minus
// sign, checking it fits in a signed integer of the given bit width.
func (p *Parser) ParseInt(bits int) (int64, error) {
	text := ""
	loc := p.Peek().Loc
	if p.Peek().Kind == TokenMinus {
		p.Next()
		text = "-"
	}
	t, err := p.Expect(TokenInt)
	if err != nil {
		return 0, err
	}
	text += t.Text
	value, err := strconv.ParseInt(text, 10, bits)
	if err != nil {
		return 0, errors.Errorf("%s: integer %s does not fit in %d bits", loc, text, bits)
	}
	return value, nil
}

// ParseIntList consumes a square-bracketed, comma-separated and possibly
// empty list of integers of the given bit width: "[0, 8, 16]".
func (p *Parser) ParseIntList(bits int) ([]int64, error) {
	if _, err := p.Expect(TokenLeftBracket); err != nil {
		return nil, err
	}
	var values []int64
	if p.Peek().Kind == TokenRightBracket {
		p.Next()
		return values, nil
	}
	for {
		value, err := p.ParseInt(bits)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
		t := p.Next()
		if t.Kind == TokenRightBracket {
			return values, nil
		}
		if t.Kind != TokenComma {
			return nil, errors.Errorf("%s: expected ',' or ']' in integer list, found %s", t.Loc, describe(t))
		}
	}
}

// ParseOptionalAttrDict consumes an attribute dictionary like
// `{key = 1, flag = true, name = "x"}` if one follows, and returns nil
// otherwise. Values can be 64-bit integers, booleans or strings.
func (p *Parser) ParseOptionalAttrDict() (map[string]any, error) {
	if p.Peek().Kind != TokenLeftBrace {
		return nil, nil
	}
	p.Next()
	attrs := make(map[string]any)
	if p.Peek().Kind == TokenRightBrace {
		p.Next()
		return attrs, nil
	}
	for {
		key, err := p.Expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.Expect(TokenEqual); err != nil {
			return nil, err
		}
		value, err := p.parseAttrValue()
		if err != nil {
			return nil, err
		}
		attrs[key.Text] = value
		t := p.Next()
		if t.Kind == TokenRightBrace {
			return attrs, nil
		}
		if t.Kind != TokenComma {
			return nil, errors.Errorf("%s: expected ',' or '}' in attribute dictionary, found %s", t.Loc, describe(t))
		}
	}
}

func (p *Parser) parseAttrValue() (any, error) {
	t := p.Peek()
	switch t.Kind {
	case TokenString:
		p.Next()
		return t.Text, nil
	case TokenInt, TokenMinus:
		return p.ParseInt(64)
	case TokenIdent:
		switch t.Text {
		case "true":
			p.Next()
			return true, nil
		case "false":
			p.Next()
			return false, nil
		}
	}
	return nil, errors.Errorf("%s: expected attribute value, found %s", t.Loc, describe(t))
}

// ParseType consumes a type of the form `name<body>` (e.g.
// `tensor<128x64xf16>`), checking the type name, and returns the raw
// body text.
func (p *Parser) ParseType(name string) (body string, loc types.Location, err error) {
	t := p.Next()
	if t.Kind != TokenIdent || t.Text != name {
		return "", t.Loc, errors.Errorf("%s: expected type %q, found %s", t.Loc, name, describe(t))
	}
	bodyToken, err := p.Expect(TokenTypeBody)
	if err != nil {
		return "", t.Loc, err
	}
	return bodyToken.Text, t.Loc, nil
}

// ParseColon consumes the ':' before the trailing type signature.
func (p *Parser) ParseColon() error {
	_, err := p.Expect(TokenColon)
	return err
}

func describe(t Token) string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent, TokenInt:
		return strconv.Quote(t.Text)
	case TokenOperand:
		return strconv.Quote("%" + t.Text)
	case TokenTypeBody:
		return strconv.Quote("<" + t.Text + ">")
	default:
		return t.Kind.String()
	}
}
