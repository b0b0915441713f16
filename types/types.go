// Package types defines the tensor types manipulated by the Triton XLA
// tile operations: Tensor, a ranked tensor type with an element dtype and
// an optional layout encoding, and TiledTensor, a view descriptor pairing
// a tile's type with the type of the tensor it was cut from.
//
// The textual form of a Tensor is the MLIR spelling, e.g.
// `tensor<128x64xf16>` or `tensor<f32>` for a scalar. A TiledTensor is
// printed as `tiled_tensor<4x8xf32|16x16xf32>` (tile first, original
// second).
package types

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/tritonxla/dtypes"
	"github.com/pkg/errors"
)

// Type is implemented by Tensor and TiledTensor.
type Type interface {
	fmt.Stringer

	// Write writes the textual form of the type to the given writer.
	Write(w io.Writer) error

	// EqualType compares against another type of any kind.
	EqualType(other Type) bool
}

// Tensor is a ranked tensor type: an element dtype, the dimension of each
// axis, and an optional (usually absent) layout encoding.
//
// The zero value is an invalid tensor of rank 0.
type Tensor struct {
	DType      dtypes.DType
	Dimensions []int64

	// Encoding describes the physical layout of the elements. It is owned
	// by some sub-dialect and treated as opaque here; nil means no
	// encoding.
	Encoding Encoding
}

// MakeTensor returns the tensor type with the given dtype and dimensions
// and no encoding. No dimensions means a scalar.
func MakeTensor(dtype dtypes.DType, dimensions ...int64) Tensor {
	return Tensor{DType: dtype, Dimensions: slices.Clone(dimensions)}
}

// MakeTensorOrError is like MakeTensor but rejects invalid dtypes and
// negative dimensions. Zero-sized dimensions are valid.
func MakeTensorOrError(dtype dtypes.DType, dimensions ...int64) (Tensor, error) {
	if dtype == dtypes.InvalidDType {
		return Tensor{}, errors.Errorf("cannot make a tensor with an invalid dtype")
	}
	for _, dim := range dimensions {
		if dim < 0 {
			return Tensor{}, errors.Errorf("cannot make a tensor with negative dimension %d", dim)
		}
	}
	return MakeTensor(dtype, dimensions...), nil
}

// WithEncoding returns a copy of the tensor type carrying the given
// layout encoding.
func (t Tensor) WithEncoding(encoding Encoding) Tensor {
	t2 := t.Clone()
	t2.Encoding = encoding
	return t2
}

// Rank of the tensor: the number of axes. Scalars have rank 0.
func (t Tensor) Rank() int { return len(t.Dimensions) }

// IsScalar returns whether the tensor has rank 0.
func (t Tensor) IsScalar() bool { return t.Rank() == 0 }

// Size returns the number of elements: the product of the dimensions.
// A scalar has size 1.
func (t Tensor) Size() int64 {
	size := int64(1)
	for _, dim := range t.Dimensions {
		size *= dim
	}
	return size
}

// Memory returns the bytes needed to store the tensor's elements.
func (t Tensor) Memory() uintptr {
	return t.DType.Memory() * uintptr(t.Size())
}

// Clone returns a deep copy of the tensor type. The encoding, being
// opaque and immutable, is shared.
func (t Tensor) Clone() Tensor {
	t2 := t
	t2.Dimensions = slices.Clone(t.Dimensions)
	return t2
}

// Equal compares dtype, dimensions and encoding.
func (t Tensor) Equal(other Tensor) bool {
	return t.DType == other.DType &&
		slices.Equal(t.Dimensions, other.Dimensions) &&
		EncodingEqual(t.Encoding, other.Encoding)
}

// EqualType implements Type.
func (t Tensor) EqualType(other Type) bool {
	otherTensor, ok := other.(Tensor)
	return ok && t.Equal(otherTensor)
}

// writeBody writes the inner part of the tensor type, e.g. "128x64xf16".
func (t Tensor) writeBody(sb *strings.Builder) {
	for _, dim := range t.Dimensions {
		sb.WriteString(strconv.FormatInt(dim, 10))
		sb.WriteByte('x')
	}
	sb.WriteString(t.DType.MLIR())
	if t.Encoding != nil {
		sb.WriteString(", ")
		sb.WriteString(t.Encoding.String())
	}
}

// String implements fmt.Stringer, printing the MLIR form, e.g.
// "tensor<128x64xf16>".
func (t Tensor) String() string {
	var sb strings.Builder
	sb.WriteString("tensor<")
	t.writeBody(&sb)
	sb.WriteByte('>')
	return sb.String()
}

// Write writes the textual form of the tensor type.
func (t Tensor) Write(w io.Writer) error {
	_, err := io.WriteString(w, t.String())
	return err
}

// ParseTensorBody parses the inner part of a tensor type, e.g.
// "128x64xf16" or "f32" (scalar). Layout encodings have no generic
// textual form and are rejected.
func ParseTensorBody(body string) (Tensor, error) {
	if strings.ContainsRune(body, ',') {
		return Tensor{}, errors.Errorf("layout encodings are not supported in the textual form of tensor types, in %q", body)
	}
	parts := strings.Split(body, "x")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Tensor{}, errors.Errorf("empty tensor type %q", body)
	}
	dtype, err := dtypes.FromMLIR(parts[len(parts)-1])
	if err != nil {
		return Tensor{}, errors.Wrapf(err, "in tensor type %q", body)
	}
	dims := make([]int64, 0, len(parts)-1)
	for _, part := range parts[:len(parts)-1] {
		dim, err := strconv.ParseInt(part, 10, 64)
		if err != nil || dim < 0 {
			return Tensor{}, errors.Errorf("invalid dimension %q in tensor type %q", part, body)
		}
		dims = append(dims, dim)
	}
	return Tensor{DType: dtype, Dimensions: dims}, nil
}

// TiledTensor pairs the type of a tile with the type of the tensor it
// was cut from. Nothing at the type level links the two ranks; the
// operations enforce their own relations at verification time.
type TiledTensor struct {
	Tile     Tensor
	Original Tensor
}

// MakeTiledTensor returns the tiled tensor type viewing tile out of
// original.
func MakeTiledTensor(tile, original Tensor) TiledTensor {
	return TiledTensor{Tile: tile, Original: original}
}

// Equal compares both halves.
func (t TiledTensor) Equal(other TiledTensor) bool {
	return t.Tile.Equal(other.Tile) && t.Original.Equal(other.Original)
}

// EqualType implements Type.
func (t TiledTensor) EqualType(other Type) bool {
	otherTiled, ok := other.(TiledTensor)
	return ok && t.Equal(otherTiled)
}

// String implements fmt.Stringer, printing e.g.
// "tiled_tensor<4x8xf32|16x16xf32>" (tile first, original second).
func (t TiledTensor) String() string {
	var sb strings.Builder
	sb.WriteString("tiled_tensor<")
	t.Tile.writeBody(&sb)
	sb.WriteByte('|')
	t.Original.writeBody(&sb)
	sb.WriteByte('>')
	return sb.String()
}

// Write writes the textual form of the tiled tensor type.
func (t TiledTensor) Write(w io.Writer) error {
	_, err := io.WriteString(w, t.String())
	return err
}

// ParseTiledTensorBody parses the inner part of a tiled tensor type,
// e.g. "4x8xf32|16x16xf32".
func ParseTiledTensorBody(body string) (TiledTensor, error) {
	tilePart, originalPart, found := strings.Cut(body, "|")
	if !found {
		return TiledTensor{}, errors.Errorf("tiled tensor type %q is missing the %q separator between tile and original", body, "|")
	}
	tile, err := ParseTensorBody(tilePart)
	if err != nil {
		return TiledTensor{}, err
	}
	original, err := ParseTensorBody(originalPart)
	if err != nil {
		return TiledTensor{}, err
	}
	return TiledTensor{Tile: tile, Original: original}, nil
}
