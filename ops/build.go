package ops

import (
	"github.com/gomlx/tritonxla/types"
)

// Constructors for building ops programmatically. Each one binds the
// operands and attributes, derives the result type, and runs Verify: a
// verification failure discards the instance and returns only the error.

// normalizeAttrs widens integer attribute values to int64, the only
// integer width the textual form carries, so a printed and reparsed op
// compares equal to the one it was built from.
func normalizeAttrs(attrs map[string]any) map[string]any {
	for key, value := range attrs {
		switch v := value.(type) {
		case int:
			attrs[key] = int64(v)
		case int32:
			attrs[key] = int64(v)
		}
	}
	return attrs
}

// NewSparseDot builds and verifies a 2:4 sparse matrix multiply.
// Operands, in order: A (compressed lhs), B (dense rhs), C
// (accumulator) and Meta (packed sparsity metadata).
func NewSparseDot(a, b, c, meta TensorOperand, attrs map[string]any) (*SparseDotOp, error) {
	op := &SparseDotOp{A: a, B: b, C: c, Meta: meta, Attrs: normalizeAttrs(attrs)}
	if err := op.verify(); err != nil {
		return nil, err
	}
	result, err := op.InferResultType(types.Location{})
	if err != nil {
		return nil, err
	}
	op.Result = result
	return op, nil
}

// NewTile builds and verifies a tile view of source, with one offset,
// size and stride per source dimension.
func NewTile(source TensorOperand, offsets, sizes []int32, strides []int64, attrs map[string]any) (*TileOp, error) {
	tileDims := make([]int64, len(sizes))
	for i, size := range sizes {
		tileDims[i] = int64(size)
	}
	op := &TileOp{
		Source:  source,
		Offsets: offsets,
		Sizes:   sizes,
		Strides: strides,
		Attrs:   normalizeAttrs(attrs),
		Result: types.MakeTiledTensor(
			types.MakeTensor(source.Type.DType, tileDims...),
			source.Type,
		),
	}
	if err := op.verify(); err != nil {
		return nil, err
	}
	return op, nil
}

// NewExtract builds and verifies the materialization of source's tile at
// the given dynamic offsets (SSA names of i32 values, one per dimension
// of the view's original tensor).
func NewExtract(source TiledOperand, offsets []string, attrs map[string]any) (*ExtractOp, error) {
	op := &ExtractOp{
		Source:  source,
		Offsets: offsets,
		Attrs:   normalizeAttrs(attrs),
		Result:  source.Type.Tile,
	}
	if err := op.verify(); err != nil {
		return nil, err
	}
	return op, nil
}

// NewInsert builds and verifies the write-back of tile into dest at the
// given dynamic offsets. The result is dest's original (un-tiled)
// tensor type.
func NewInsert(tile TensorOperand, dest TiledOperand, offsets []string, attrs map[string]any) (*InsertOp, error) {
	op := &InsertOp{
		Tile:    tile,
		Dest:    dest,
		Offsets: offsets,
		Attrs:   normalizeAttrs(attrs),
		Result:  dest.Type.Original,
	}
	if err := op.verify(); err != nil {
		return nil, err
	}
	return op, nil
}
