package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.Printf("tile %%%s", "src")
	w.IntList([]int64{0, 0})
	w.IntList([]int64{4, 8})
	w.IntList([]int64{1, 1})
	w.AttrDict(map[string]any{"z": int64(1), "a": "x", "flag": true})
	require.NoError(t, w.Err())
	assert.Equal(t, `tile %src[0, 0][4, 8][1, 1] {a = "x", flag = true, z = 1}`, sb.String())
}

func TestWriter_OperandList(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.OperandList([]string{"i", "j"})
	require.NoError(t, w.Err())
	assert.Equal(t, "[%i, %j]", sb.String())

	sb.Reset()
	w = NewWriter(&sb)
	w.OperandList(nil)
	require.NoError(t, w.Err())
	assert.Equal(t, "[]", sb.String())
}

func TestWriter_EmptyAttrDict(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.AttrDict(nil)
	w.AttrDict(map[string]any{})
	require.NoError(t, w.Err())
	assert.Empty(t, sb.String())
}
