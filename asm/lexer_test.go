package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		kinds[i] = t.Kind
	}
	return kinds
}

func TestLexer_TileOpLine(t *testing.T) {
	src := `tile %src[0, 0][4, 8][1, 1] : tiled_tensor<4x8xf32|16x16xf32>`
	tokens, err := NewLexer(src).Tokenize()
	require.NoError(t, err)

	require.Equal(t, TokenIdent, tokens[0].Kind)
	assert.Equal(t, "tile", tokens[0].Text)
	require.Equal(t, TokenOperand, tokens[1].Kind)
	assert.Equal(t, "src", tokens[1].Text)

	last := tokens[len(tokens)-1]
	assert.Equal(t, TokenEOF, last.Kind)
	typeBody := tokens[len(tokens)-2]
	require.Equal(t, TokenTypeBody, typeBody.Kind)
	assert.Equal(t, "4x8xf32|16x16xf32", typeBody.Text)
}

func TestLexer_Locations(t *testing.T) {
	tokens, err := NewLexer("extract\n  %a").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 1, tokens[0].Loc.Line)
	assert.Equal(t, 1, tokens[0].Loc.Column)
	assert.Equal(t, 2, tokens[1].Loc.Line)
	assert.Equal(t, 3, tokens[1].Loc.Column)
}

func TestLexer_NestedTypeBody(t *testing.T) {
	tokens, err := NewLexer("<a<b>c>").Tokenize()
	require.NoError(t, err)
	require.Equal(t, TokenTypeBody, tokens[0].Kind)
	assert.Equal(t, "a<b>c", tokens[0].Text)
}

func TestLexer_Errors(t *testing.T) {
	_, err := NewLexer("tensor<1x2xf32").Tokenize()
	require.ErrorContains(t, err, "unterminated '<'")

	_, err = NewLexer("% abc").Tokenize()
	require.ErrorContains(t, err, "'%' must be followed by a value name")

	_, err = NewLexer("a ? b").Tokenize()
	require.ErrorContains(t, err, "unexpected character")
	assert.Contains(t, err.Error(), "1:3")
}

func TestParser_IntList(t *testing.T) {
	p, err := NewParser("[0, -8, 16]")
	require.NoError(t, err)
	values, err := p.ParseIntList(32)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, -8, 16}, values)
	assert.True(t, p.AtEOF())

	// 40000 does not fit in an int16.
	p, err = NewParser("[40000]")
	require.NoError(t, err)
	_, err = p.ParseIntList(16)
	require.ErrorContains(t, err, "does not fit in 16 bits")

	// ...but fits in an int32.
	p, err = NewParser("[40000]")
	require.NoError(t, err)
	values, err = p.ParseIntList(32)
	require.NoError(t, err)
	assert.Equal(t, []int64{40000}, values)
}

func TestParser_OperandList(t *testing.T) {
	p, err := NewParser("[%i, %j]")
	require.NoError(t, err)
	operands, err := p.ParseOperandList()
	require.NoError(t, err)
	require.Len(t, operands, 2)
	assert.Equal(t, "i", operands[0].Name)
	assert.Equal(t, "j", operands[1].Name)

	p, err = NewParser("[]")
	require.NoError(t, err)
	operands, err = p.ParseOperandList()
	require.NoError(t, err)
	assert.Empty(t, operands)
}

func TestParser_AttrDict(t *testing.T) {
	p, err := NewParser(`{flag = true, k = -1, name = "x"} : rest`)
	require.NoError(t, err)
	attrs, err := p.ParseOptionalAttrDict()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"flag": true, "k": int64(-1), "name": "x"}, attrs)
	require.NoError(t, p.ParseColon())

	// No dict present: nil, no tokens consumed.
	p, err = NewParser(": tensor<f32>")
	require.NoError(t, err)
	attrs, err = p.ParseOptionalAttrDict()
	require.NoError(t, err)
	assert.Nil(t, attrs)
	require.NoError(t, p.ParseColon())
}

func TestParser_Keywords(t *testing.T) {
	p, err := NewParser("into %dst")
	require.NoError(t, err)
	require.NoError(t, p.ParseKeyword("into"))
	_, err = p.ParseOperand()
	require.NoError(t, err)

	p, err = NewParser("from %dst")
	require.NoError(t, err)
	err = p.ParseKeyword("into")
	require.ErrorContains(t, err, `expected keyword "into"`)
}

func TestParser_LastLoc(t *testing.T) {
	p, err := NewParser("extract\n  %a")
	require.NoError(t, err)
	assert.Equal(t, 0, p.LastLoc().Line)
	p.Next()
	assert.Equal(t, 1, p.LastLoc().Line)
	p.Next()
	assert.Equal(t, 2, p.LastLoc().Line)
	// EOF is never consumed and leaves LastLoc untouched.
	p.Next()
	assert.Equal(t, 2, p.LastLoc().Line)
}

func TestParser_ParseType(t *testing.T) {
	p, err := NewParser("tensor<128x64xf16>")
	require.NoError(t, err)
	body, _, err := p.ParseType("tensor")
	require.NoError(t, err)
	assert.Equal(t, "128x64xf16", body)

	p, err = NewParser("memref<2xf32>")
	require.NoError(t, err)
	_, _, err = p.ParseType("tensor")
	require.ErrorContains(t, err, `expected type "tensor"`)
}
