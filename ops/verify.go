package ops

import (
	"github.com/gomlx/tritonxla/dtypes"
	"github.com/gomlx/tritonxla/types"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Implied properties of 2:4 sparse dots.
const (
	// contractingFactor relates A's contracting dimension to B's: B
	// stores the dense [K·2, N] operand against A's compressed [M, K].
	contractingFactor = 2

	// metadataElementsPerPackedValue is how many logical sparsity
	// positions one stored i16 metadata value covers.
	metadataElementsPerPackedValue = 8
)

// Verify checks the structural, shape and type invariants of the op.
// Checks run left-to-right and stop at the first failure; the returned
// error's root message is the stable diagnostic text for that failure.
func Verify(op Op) error {
	switch op := op.(type) {
	case *SparseDotOp:
		return op.verify()
	case *TileOp:
		return op.verify()
	case *ExtractOp:
		return op.verify()
	case *InsertOp:
		return op.verify()
	}
	return errors.Errorf("unknown operation %T", op)
}

func (op *SparseDotOp) verify() error {
	// Verify operand A.
	aType := op.A.Type
	if aType.DType != dtypes.F16 && aType.DType != dtypes.BF16 {
		return errors.New("element type of operand A is not supported")
	}
	if aType.Rank() != 2 {
		return errors.New("shape of operand A is incorrect")
	}

	// Verify operand B.
	bType := op.B.Type
	if bType.DType != dtypes.F16 && bType.DType != dtypes.BF16 {
		return errors.New("element type of operand B is not supported")
	}
	if bType.Rank() != 2 {
		return errors.New("shape of operand B is incorrect")
	}

	// Verify operand C.
	cType := op.C.Type
	if cType.DType != dtypes.F32 {
		return errors.New("element type of operand C is not supported")
	}
	if cType.Rank() != 2 {
		return errors.New("shape of operand C is incorrect")
	}

	// Check operand dependencies.
	aShape, bShape, cShape := aType.Dimensions, bType.Dimensions, cType.Dimensions
	if aShape[0] != cShape[0] || bShape[1] != cShape[1] ||
		bShape[0] != aShape[1]*contractingFactor {
		return errors.New("operand shape dimensions are incorrect")
	}
	if aType.DType != bType.DType {
		return errors.New("operand element types do not match")
	}

	// Verify sparse metadata.
	metaType := op.Meta.Type
	if metaType.DType != dtypes.S16 || metaType.Rank() != 2 {
		return errors.New("sparse metadata tensor is invalid")
	}
	metaShape := metaType.Dimensions
	if metaShape[0] != aShape[0] ||
		metaShape[1]*metadataElementsPerPackedValue != aShape[1] {
		return errors.New("sparse metadata shape dimensions are incorrect")
	}

	// Verify tensor encoding.
	aEncoding := aType.Encoding
	bEncoding := bType.Encoding
	if aEncoding == nil && bEncoding == nil {
		return nil
	}
	if aEncoding == nil || bEncoding == nil {
		return errors.New("mismatching encoding between A and B operands")
	}
	li, err := types.LayoutInferenceFor(aEncoding)
	if err != nil {
		return err
	}
	return li.VerifyDotOperandEncodingCompatibility(op, aEncoding, bEncoding)
}

func (op *TileOp) verify() error {
	rank := op.Source.Type.Rank()
	if rank == 0 {
		return errors.New("cannot tile a 0-d tensor")
	}
	if rank != len(op.Offsets) || rank != len(op.Sizes) || rank != len(op.Strides) {
		return errors.New("mismatch between tensor rank and one or more of offsets/sizes/strides")
	}
	return nil
}

func (op *ExtractOp) verify() error {
	if op.Result.Rank() == 0 {
		return errors.New("cannot extract a 0-d tensor")
	}
	if op.Source.Type.Original.Rank() != len(op.Offsets) {
		return errors.New("source tensor rank does not match number of offsets")
	}
	return nil
}

func (op *InsertOp) verify() error {
	if op.Tile.Type.Rank() == 0 {
		return errors.New("cannot insert a 0-d tensor")
	}
	if op.Dest.Type.Original.Rank() != len(op.Offsets) {
		return errors.New("destination tensor rank does not match number of offsets")
	}
	return nil
}

// VerifyModule verifies every op, fail-fast within each op but
// collecting across ops, so one bad op does not hide diagnostics of its
// siblings. The returned slice is empty when all ops verify.
func VerifyModule(module []Op) []error {
	var errs []error
	for i, op := range module {
		if err := Verify(op); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s: %s", op.Location(), op.Kind().Mnemonic()))
			continue
		}
		if klog.V(2).Enabled() {
			klog.Infof("verified op #%d (%s)", i, op.Kind().Mnemonic())
		}
	}
	return errs
}
