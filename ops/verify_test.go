package ops

import (
	"fmt"
	"testing"

	"github.com/gomlx/tritonxla/dtypes"
	"github.com/gomlx/tritonxla/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEncoding struct {
	dialect, name string
}

func (e fakeEncoding) Dialect() string { return e.dialect }
func (e fakeEncoding) String() string  { return "#" + e.dialect + "." + e.name }

// fakeLayoutInference records calls and can be told to reject.
type fakeLayoutInference struct {
	rejectCompatibility bool
	rejectInference     bool
	inferCalls          []int
}

func (f *fakeLayoutInference) InferDotOperandEncoding(encoding types.Encoding, operandIdx int, resultEncoding types.Encoding, loc types.Location) (types.Encoding, error) {
	f.inferCalls = append(f.inferCalls, operandIdx)
	if f.rejectInference {
		return nil, errors.Errorf("cannot infer dot operand encoding for operand %d", operandIdx)
	}
	return encoding, nil
}

func (f *fakeLayoutInference) VerifyDotOperandEncodingCompatibility(op fmt.Stringer, a, b types.Encoding) error {
	if f.rejectCompatibility {
		return errors.New("incompatible dot operand encodings")
	}
	return nil
}

var testLayoutInference = &fakeLayoutInference{}

func init() {
	types.RegisterLayoutInference("test_layout", testLayoutInference)
}

// validSparseDot is scenario A:f16[128,64], B:f16[128,256],
// C:f32[128,256], Meta:i16[128,8].
func validSparseDot() *SparseDotOp {
	return &SparseDotOp{
		A:      TensorOperand{Name: "a", Type: types.MakeTensor(dtypes.F16, 128, 64)},
		B:      TensorOperand{Name: "b", Type: types.MakeTensor(dtypes.F16, 128, 256)},
		C:      TensorOperand{Name: "c", Type: types.MakeTensor(dtypes.F32, 128, 256)},
		Meta:   TensorOperand{Name: "meta", Type: types.MakeTensor(dtypes.S16, 128, 8)},
		Result: types.MakeTensor(dtypes.F32, 128, 256),
	}
}

func TestSparseDotVerify_Accepts(t *testing.T) {
	require.NoError(t, Verify(validSparseDot()))
}

// The shape relations hold for any M, K, N with K divisible by 8.
func TestSparseDotVerify_ShapeRelations(t *testing.T) {
	for _, m := range []int64{1, 16, 128} {
		for _, k := range []int64{8, 64, 256} {
			for _, n := range []int64{1, 32, 512} {
				op := &SparseDotOp{
					A:    TensorOperand{Name: "a", Type: types.MakeTensor(dtypes.BF16, m, k)},
					B:    TensorOperand{Name: "b", Type: types.MakeTensor(dtypes.BF16, k*2, n)},
					C:    TensorOperand{Name: "c", Type: types.MakeTensor(dtypes.F32, m, n)},
					Meta: TensorOperand{Name: "meta", Type: types.MakeTensor(dtypes.S16, m, k/8)},
				}
				require.NoErrorf(t, Verify(op), "M=%d K=%d N=%d", m, k, n)
			}
		}
	}
}

func TestSparseDotVerify_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(op *SparseDotOp)
		wantErr string
	}{
		{"a element type", func(op *SparseDotOp) {
			op.A.Type = types.MakeTensor(dtypes.F32, 128, 64)
		}, "element type of operand A is not supported"},
		{"a rank", func(op *SparseDotOp) {
			op.A.Type = types.MakeTensor(dtypes.F16, 128, 64, 1)
		}, "shape of operand A is incorrect"},
		{"b element type", func(op *SparseDotOp) {
			op.B.Type = types.MakeTensor(dtypes.S16, 128, 256)
		}, "element type of operand B is not supported"},
		{"b rank", func(op *SparseDotOp) {
			op.B.Type = types.MakeTensor(dtypes.F16, 128)
		}, "shape of operand B is incorrect"},
		{"c element type", func(op *SparseDotOp) {
			op.C.Type = types.MakeTensor(dtypes.F16, 128, 256)
		}, "element type of operand C is not supported"},
		{"c rank", func(op *SparseDotOp) {
			op.C.Type = types.MakeTensor(dtypes.F32, 128, 256, 1)
		}, "shape of operand C is incorrect"},
		{"m mismatch", func(op *SparseDotOp) {
			op.C.Type = types.MakeTensor(dtypes.F32, 64, 256)
		}, "operand shape dimensions are incorrect"},
		{"n mismatch", func(op *SparseDotOp) {
			op.B.Type = types.MakeTensor(dtypes.F16, 128, 512)
		}, "operand shape dimensions are incorrect"},
		{"contracting factor", func(op *SparseDotOp) {
			op.B.Type = types.MakeTensor(dtypes.F16, 64, 256)
		}, "operand shape dimensions are incorrect"},
		{"a b element types differ", func(op *SparseDotOp) {
			op.B.Type = types.MakeTensor(dtypes.BF16, 128, 256)
		}, "operand element types do not match"},
		{"meta element type", func(op *SparseDotOp) {
			op.Meta.Type = types.MakeTensor(dtypes.S32, 128, 8)
		}, "sparse metadata tensor is invalid"},
		{"meta rank", func(op *SparseDotOp) {
			op.Meta.Type = types.MakeTensor(dtypes.S16, 128)
		}, "sparse metadata tensor is invalid"},
		{"meta rows", func(op *SparseDotOp) {
			op.Meta.Type = types.MakeTensor(dtypes.S16, 64, 8)
		}, "sparse metadata shape dimensions are incorrect"},
		{"meta packing", func(op *SparseDotOp) {
			op.Meta.Type = types.MakeTensor(dtypes.S16, 128, 7)
		}, "sparse metadata shape dimensions are incorrect"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			op := validSparseDot()
			test.mutate(op)
			err := Verify(op)
			// Exactly the one diagnostic for the broken relation.
			require.EqualError(t, err, test.wantErr)
		})
	}
}

// A non-multiple-of-8 contracting dimension is categorically
// unsupported, never rounded.
func TestSparseDotVerify_NonMultipleOf8Contracting(t *testing.T) {
	op := &SparseDotOp{
		A:    TensorOperand{Name: "a", Type: types.MakeTensor(dtypes.F16, 16, 12)},
		B:    TensorOperand{Name: "b", Type: types.MakeTensor(dtypes.F16, 24, 16)},
		C:    TensorOperand{Name: "c", Type: types.MakeTensor(dtypes.F32, 16, 16)},
		Meta: TensorOperand{Name: "meta", Type: types.MakeTensor(dtypes.S16, 16, 1)},
	}
	require.EqualError(t, Verify(op), "sparse metadata shape dimensions are incorrect")
	op.Meta.Type = types.MakeTensor(dtypes.S16, 16, 2)
	require.EqualError(t, Verify(op), "sparse metadata shape dimensions are incorrect")
}

func TestSparseDotVerify_EncodingSymmetry(t *testing.T) {
	encoding := fakeEncoding{"test_layout", "blocked"}

	// (no encoding, no encoding) verifies.
	require.NoError(t, Verify(validSparseDot()))

	// (encoding, no encoding) and (no encoding, encoding) fail the same
	// way regardless of other fields.
	op := validSparseDot()
	op.A.Type = op.A.Type.WithEncoding(encoding)
	require.EqualError(t, Verify(op), "mismatching encoding between A and B operands")

	op = validSparseDot()
	op.B.Type = op.B.Type.WithEncoding(encoding)
	require.EqualError(t, Verify(op), "mismatching encoding between A and B operands")

	// (encoding, encoding) delegates to the owning dialect.
	op = validSparseDot()
	op.A.Type = op.A.Type.WithEncoding(encoding)
	op.B.Type = op.B.Type.WithEncoding(encoding)
	testLayoutInference.rejectCompatibility = false
	require.NoError(t, Verify(op))

	testLayoutInference.rejectCompatibility = true
	require.EqualError(t, Verify(op), "incompatible dot operand encodings")
	testLayoutInference.rejectCompatibility = false

	// Encodings of an unregistered dialect cannot be checked.
	op = validSparseDot()
	op.A.Type = op.A.Type.WithEncoding(fakeEncoding{"nobody_home", "x"})
	op.B.Type = op.B.Type.WithEncoding(fakeEncoding{"nobody_home", "x"})
	require.ErrorContains(t, Verify(op), `no layout inference registered for dialect "nobody_home"`)
}

func TestTileVerify(t *testing.T) {
	// Scenario: f32[8,16,32] with per-dimension offsets/sizes/strides.
	op, err := NewTile(
		TensorOperand{Name: "src", Type: types.MakeTensor(dtypes.F32, 8, 16, 32)},
		[]int32{0, 0, 0}, []int32{4, 8, 16}, []int64{1, 1, 1}, nil)
	require.NoError(t, err)
	assert.True(t, op.Result.Equal(types.MakeTiledTensor(
		types.MakeTensor(dtypes.F32, 4, 8, 16),
		types.MakeTensor(dtypes.F32, 8, 16, 32))))

	// Rank 0 is rejected unconditionally.
	_, err = NewTile(
		TensorOperand{Name: "src", Type: types.MakeTensor(dtypes.F32)},
		nil, nil, nil, nil)
	require.EqualError(t, err, "cannot tile a 0-d tensor")

	// Attribute lengths must all match the source rank.
	_, err = NewTile(
		TensorOperand{Name: "src", Type: types.MakeTensor(dtypes.F32, 8, 16)},
		[]int32{0}, []int32{4, 8}, []int64{1, 1}, nil)
	require.EqualError(t, err, "mismatch between tensor rank and one or more of offsets/sizes/strides")

	// Any rank >= 1 works when the lengths line up.
	for rank := 1; rank <= 4; rank++ {
		dims := make([]int64, rank)
		offsets := make([]int32, rank)
		sizes := make([]int32, rank)
		strides := make([]int64, rank)
		for i := range dims {
			dims[i] = 8
			sizes[i] = 2
			strides[i] = 1
		}
		_, err := NewTile(
			TensorOperand{Name: "src", Type: types.MakeTensor(dtypes.F32, dims...)},
			offsets, sizes, strides, nil)
		require.NoErrorf(t, err, "rank %d", rank)
	}
}

func TestExtractVerify(t *testing.T) {
	view := types.MakeTiledTensor(
		types.MakeTensor(dtypes.F32, 4, 8),
		types.MakeTensor(dtypes.F32, 16, 16))

	op, err := NewExtract(TiledOperand{Name: "view", Type: view}, []string{"i", "j"}, nil)
	require.NoError(t, err)
	assert.True(t, op.Result.Equal(types.MakeTensor(dtypes.F32, 4, 8)))

	// A 0-d result is rejected.
	scalarView := types.MakeTiledTensor(
		types.MakeTensor(dtypes.F32),
		types.MakeTensor(dtypes.F32, 16))
	_, err = NewExtract(TiledOperand{Name: "view", Type: scalarView}, []string{"i"}, nil)
	require.EqualError(t, err, "cannot extract a 0-d tensor")

	// Offsets count against the rank of the original type: a rank-3
	// original with only 2 offsets fails.
	view3 := types.MakeTiledTensor(
		types.MakeTensor(dtypes.F32, 4, 8, 16),
		types.MakeTensor(dtypes.F32, 8, 16, 32))
	_, err = NewExtract(TiledOperand{Name: "view", Type: view3}, []string{"i", "j"}, nil)
	require.EqualError(t, err, "source tensor rank does not match number of offsets")
}

func TestInsertVerify(t *testing.T) {
	view := types.MakeTiledTensor(
		types.MakeTensor(dtypes.F32, 4, 8),
		types.MakeTensor(dtypes.F32, 16, 16))

	op, err := NewInsert(
		TensorOperand{Name: "tile", Type: types.MakeTensor(dtypes.F32, 4, 8)},
		TiledOperand{Name: "dst", Type: view}, []string{"i", "j"}, nil)
	require.NoError(t, err)
	assert.True(t, op.Result.Equal(types.MakeTensor(dtypes.F32, 16, 16)))

	_, err = NewInsert(
		TensorOperand{Name: "tile", Type: types.MakeTensor(dtypes.F32)},
		TiledOperand{Name: "dst", Type: view}, []string{"i", "j"}, nil)
	require.EqualError(t, err, "cannot insert a 0-d tensor")

	_, err = NewInsert(
		TensorOperand{Name: "tile", Type: types.MakeTensor(dtypes.F32, 4, 8)},
		TiledOperand{Name: "dst", Type: view}, []string{"i"}, nil)
	require.EqualError(t, err, "destination tensor rank does not match number of offsets")
}

func TestVerifyModule_CollectsAcrossOps(t *testing.T) {
	good := validSparseDot()
	badDot := validSparseDot()
	badDot.A.Type = types.MakeTensor(dtypes.F32, 128, 64)
	badTile := &TileOp{Source: TensorOperand{Name: "s", Type: types.MakeTensor(dtypes.F32)}}

	errs := VerifyModule([]Op{badDot, good, badTile})
	require.Len(t, errs, 2)
	assert.ErrorContains(t, errs[0], "sparse_dot")
	assert.ErrorContains(t, errs[0], "element type of operand A is not supported")
	assert.ErrorContains(t, errs[1], "tile")
	assert.ErrorContains(t, errs[1], "cannot tile a 0-d tensor")
}
