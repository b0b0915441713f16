// Package ops defines the Triton XLA custom operations: the 2:4 sparse
// matrix multiply (sparse_dot) and the three tensor tiling operations
// (tile, extract, insert).
//
// Each operation kind supplies the three behaviors a host framework
// cannot derive generically: a bit-exact textual syntax (ParseOp and
// PrintOp), structural verification (Verify), and, for sparse_dot, a
// result type and layout compatibility inference rule.
//
// Operations form a closed set: dispatch happens by a type switch over
// the Op union, not through per-kind virtual methods.
package ops

import (
	"strings"

	"github.com/gomlx/tritonxla/types"
)

// OpKind identifies one of the four operation kinds.
type OpKind int

//go:generate go tool enumer -type=OpKind ops.go

const (
	InvalidOpKind OpKind = iota
	SparseDot
	Tile
	Extract
	Insert
)

// mnemonics are the leading keywords of each operation's textual form.
var mnemonics = map[OpKind]string{
	SparseDot: "sparse_dot",
	Tile:      "tile",
	Extract:   "extract",
	Insert:    "insert",
}

var mnemonicsReverse = func() map[string]OpKind {
	m := make(map[string]OpKind, len(mnemonics))
	for kind, mnemonic := range mnemonics {
		m[mnemonic] = kind
	}
	return m
}()

// Mnemonic returns the textual keyword of the op kind, e.g. "sparse_dot".
func (kind OpKind) Mnemonic() string { return mnemonics[kind] }

// TensorOperand references an SSA value of ranked tensor type.
type TensorOperand struct {
	Name string
	Type types.Tensor
}

// TiledOperand references an SSA value of tiled tensor type.
type TiledOperand struct {
	Name string
	Type types.TiledTensor
}

// Op is the closed union of the four operation kinds. Instances are
// built by the New* constructors or by ParseOp and are immutable once
// verification succeeds.
type Op interface {
	// Kind tags the concrete operation type.
	Kind() OpKind

	// Location returns where the op was parsed from; the zero Location
	// for ops built programmatically.
	Location() types.Location

	// String returns the canonical textual form (see PrintOp).
	String() string

	isOp()
}

// SparseDotOp is a 2:4-sparse matrix multiply D = A·B + C. A stores
// only the 2 nonzero values of each group of 4 along the contracting
// dimension, so A is [M, K] against a dense B of [2K, N]. Meta packs
// the positions of the nonzero elements, 8 logical elements per stored
// i16 value.
type SparseDotOp struct {
	A, B, C, Meta TensorOperand

	// Result is the accumulator's type, unchanged.
	Result types.Tensor

	// ResultName is the SSA name bound to the result in the textual
	// form, without the '%'. Empty for unnamed results.
	ResultName string

	// Attrs is the optional attribute dictionary.
	Attrs map[string]any

	Loc types.Location
}

// TileOp creates a tile view of a tensor, described by one offset, size
// and stride per source dimension. Offsets and sizes are 32-bit;
// strides are 64-bit for the wider range stride arithmetic needs.
type TileOp struct {
	Source  TensorOperand
	Offsets []int32
	Sizes   []int32
	Strides []int64

	Result     types.TiledTensor
	ResultName string
	Attrs      map[string]any

	Loc types.Location
}

// ExtractOp materializes the tile of a tile view, at per-dimension
// dynamic offsets (i32 values, one per dimension of the view's original
// tensor).
type ExtractOp struct {
	Source TiledOperand

	// Offsets are the SSA names of the dynamic offset values.
	Offsets []string

	Result     types.Tensor
	ResultName string
	Attrs      map[string]any

	Loc types.Location
}

// InsertOp writes a tile back into a tile view at per-dimension dynamic
// offsets, yielding the updated original (un-tiled) tensor.
type InsertOp struct {
	Tile    TensorOperand
	Dest    TiledOperand
	Offsets []string

	Result     types.Tensor
	ResultName string
	Attrs      map[string]any

	Loc types.Location
}

func (op *SparseDotOp) Kind() OpKind { return SparseDot }
func (op *TileOp) Kind() OpKind      { return Tile }
func (op *ExtractOp) Kind() OpKind   { return Extract }
func (op *InsertOp) Kind() OpKind    { return Insert }

func (op *SparseDotOp) Location() types.Location { return op.Loc }
func (op *TileOp) Location() types.Location      { return op.Loc }
func (op *ExtractOp) Location() types.Location   { return op.Loc }
func (op *InsertOp) Location() types.Location    { return op.Loc }

func (op *SparseDotOp) isOp() {}
func (op *TileOp) isOp()      {}
func (op *ExtractOp) isOp()   {}
func (op *InsertOp) isOp()    {}

func (op *SparseDotOp) String() string { return opString(op) }
func (op *TileOp) String() string      { return opString(op) }
func (op *ExtractOp) String() string   { return opString(op) }
func (op *InsertOp) String() string    { return opString(op) }

func opString(op Op) string {
	var sb strings.Builder
	_ = PrintOp(&sb, op)
	return sb.String()
}

// AsmResultName returns the default display name for the op's result
// value, consumed by SSA naming: "tiled_tensor", "extracted_tile" and
// "inserted_tile" for the tiling ops. SparseDot has no hint and returns
// the empty string.
func AsmResultName(op Op) string {
	switch op.(type) {
	case *TileOp:
		return "tiled_tensor"
	case *ExtractOp:
		return "extracted_tile"
	case *InsertOp:
		return "inserted_tile"
	}
	return ""
}
