package ops

import (
	"github.com/gomlx/tritonxla/types"
	"github.com/pkg/errors"
)

// InferResultType computes the sparse dot's result type when it is not
// already known, e.g. during generic construction: it is the
// accumulator's type, unchanged.
//
// When operand A carries a layout encoding, B and the accumulator are
// assumed to carry one too (Verify checks A against B independently),
// and the accumulator encoding's owning dialect is asked to check each
// dot operand encoding against the result encoding.
func (op *SparseDotOp) InferResultType(loc types.Location) (types.Tensor, error) {
	// Result type is the same as the accumulator.
	result := op.C.Type.Clone()

	aEncoding := op.A.Type.Encoding
	if aEncoding == nil {
		return result, nil
	}
	bEncoding := op.B.Type.Encoding
	resultEncoding := op.C.Type.Encoding
	if bEncoding == nil || resultEncoding == nil {
		return types.Tensor{}, errors.Errorf("sparse dot with an encoded A operand requires B and accumulator encodings")
	}
	li, err := types.LayoutInferenceFor(resultEncoding)
	if err != nil {
		return types.Tensor{}, err
	}
	if _, err := li.InferDotOperandEncoding(aEncoding, 0, resultEncoding, loc); err != nil {
		return types.Tensor{}, err
	}
	if _, err := li.InferDotOperandEncoding(bEncoding, 1, resultEncoding, loc); err != nil {
		return types.Tensor{}, err
	}
	return result, nil
}
