package asm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gomlx/tritonxla/types"
	"github.com/pkg/errors"
)

// Lexer tokenizes the textual form of operations.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	// Estimate ~1 token per 4 characters of source.
	estTokens := len(source) / 4
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source, ending with a TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, Token{Kind: TokenEOF, Loc: l.loc()})
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	loc := l.loc()
	r := l.advance()

	switch r {
	case ' ', '\t', '\r', '\n':
		return nil
	case '/':
		if l.isAtEnd() || l.peek() != '/' {
			return errors.Errorf("%s: unexpected character %q", loc, r)
		}
		for !l.isAtEnd() && l.peek() != '\n' {
			l.advance()
		}
		return nil
	case '[':
		l.addToken(TokenLeftBracket, "[", loc)
	case ']':
		l.addToken(TokenRightBracket, "]", loc)
	case '{':
		l.addToken(TokenLeftBrace, "{", loc)
	case '}':
		l.addToken(TokenRightBrace, "}", loc)
	case ',':
		l.addToken(TokenComma, ",", loc)
	case ':':
		l.addToken(TokenColon, ":", loc)
	case '=':
		l.addToken(TokenEqual, "=", loc)
	case '-':
		l.addToken(TokenMinus, "-", loc)
	case '<':
		return l.scanTypeBody(loc)
	case '"':
		return l.scanString(loc)
	case '%':
		return l.scanOperand(loc)
	default:
		if isDigit(r) {
			l.scanInt(r, loc)
			return nil
		}
		if isIdentStart(r) {
			l.scanIdent(r, loc)
			return nil
		}
		return errors.Errorf("%s: unexpected character %q", loc, r)
	}
	return nil
}

// scanTypeBody collects everything between the already-consumed '<' and
// its balanced '>' into a single token.
func (l *Lexer) scanTypeBody(loc types.Location) error {
	var sb strings.Builder
	depth := 1
	for {
		if l.isAtEnd() {
			return errors.Errorf("%s: unterminated '<'", loc)
		}
		r := l.advance()
		if r == '<' {
			depth++
		} else if r == '>' {
			depth--
			if depth == 0 {
				break
			}
		}
		sb.WriteRune(r)
	}
	l.addToken(TokenTypeBody, sb.String(), loc)
	return nil
}

func (l *Lexer) scanString(loc types.Location) error {
	var sb strings.Builder
	for {
		if l.isAtEnd() {
			return errors.Errorf("%s: unterminated string literal", loc)
		}
		r := l.advance()
		if r == '"' {
			break
		}
		if r == '\\' {
			if l.isAtEnd() {
				return errors.Errorf("%s: unterminated string literal", loc)
			}
			escaped := l.advance()
			switch escaped {
			case '"', '\\':
				sb.WriteRune(escaped)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				return errors.Errorf("%s: unknown escape sequence \\%c in string literal", loc, escaped)
			}
			continue
		}
		sb.WriteRune(r)
	}
	l.addToken(TokenString, sb.String(), loc)
	return nil
}

func (l *Lexer) scanOperand(loc types.Location) error {
	var sb strings.Builder
	for !l.isAtEnd() && isIdentPart(l.peek()) {
		sb.WriteRune(l.advance())
	}
	if sb.Len() == 0 {
		return errors.Errorf("%s: '%%' must be followed by a value name", loc)
	}
	l.addToken(TokenOperand, sb.String(), loc)
	return nil
}

func (l *Lexer) scanInt(first rune, loc types.Location) {
	var sb strings.Builder
	sb.WriteRune(first)
	for !l.isAtEnd() && isDigit(l.peek()) {
		sb.WriteRune(l.advance())
	}
	l.addToken(TokenInt, sb.String(), loc)
}

func (l *Lexer) scanIdent(first rune, loc types.Location) {
	var sb strings.Builder
	sb.WriteRune(first)
	for !l.isAtEnd() {
		r := l.peek()
		if !isIdentPart(r) && r != '.' {
			break
		}
		sb.WriteRune(l.advance())
	}
	l.addToken(TokenIdent, sb.String(), loc)
}

func (l *Lexer) addToken(kind TokenKind, text string, loc types.Location) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Loc: loc})
}

func (l *Lexer) loc() types.Location {
	return types.Location{Line: l.line, Column: l.column}
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
