// Package dtypes defines the element types supported by the Triton XLA
// operations, their textual (MLIR) spellings, and conversions to and from
// Go values.
package dtypes

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/d4l3k/go-bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Generate the String/parse methods for DType.
//go:generate go tool enumer -type=DType dtypes.go

// DType is the element type of a tensor.
type DType int

const (
	// InvalidDType represents an invalid (or not set) dtype.
	InvalidDType DType = iota

	// Bool is a predicate, printed as "i1".
	Bool

	// Signed integers.
	S8
	S16
	S32
	S64

	// Unsigned integers.
	U8
	U16
	U32
	U64

	// Floats.
	F16
	BF16
	F32
	F64
)

// Aliases to the short names, following the usual Go spelling.
const (
	Int8  = S8
	Int16 = S16
	Int32 = S32
	Int64 = S64

	Uint8  = U8
	Uint16 = U16
	Uint32 = U32
	Uint64 = U64

	Float16  = F16
	BFloat16 = BF16
	Float32  = F32
	Float64  = F64
)

// MapOfNames accepts both the short ("F16", "f16") and the long
// ("Float16", "float16") spellings of each dtype.
var MapOfNames = map[string]DType{
	"Bool": Bool, "bool": Bool,
	"Int8": S8, "int8": S8, "S8": S8, "s8": S8,
	"Int16": S16, "int16": S16, "S16": S16, "s16": S16,
	"Int32": S32, "int32": S32, "S32": S32, "s32": S32,
	"Int64": S64, "int64": S64, "S64": S64, "s64": S64,
	"Uint8": U8, "uint8": U8, "U8": U8, "u8": U8,
	"Uint16": U16, "uint16": U16, "U16": U16, "u16": U16,
	"Uint32": U32, "uint32": U32, "U32": U32, "u32": U32,
	"Uint64": U64, "uint64": U64, "U64": U64, "u64": U64,
	"Float16": F16, "float16": F16, "F16": F16, "f16": F16,
	"BFloat16": BF16, "bfloat16": BF16, "BF16": BF16, "bf16": BF16,
	"Float32": F32, "float32": F32, "F32": F32, "f32": F32,
	"Float64": F64, "float64": F64, "F64": F64, "f64": F64,
}

// mlirNames are the spellings used inside tensor<...> types.
var mlirNames = map[DType]string{
	Bool: "i1",
	S8:   "i8", S16: "i16", S32: "i32", S64: "i64",
	U8: "ui8", U16: "ui16", U32: "ui32", U64: "ui64",
	F16: "f16", BF16: "bf16", F32: "f32", F64: "f64",
}

var mlirNamesReverse = func() map[string]DType {
	m := make(map[string]DType, len(mlirNames))
	for dtype, name := range mlirNames {
		m[name] = dtype
	}
	return m
}()

// MLIR returns the spelling of the dtype used in the textual form of
// tensor types, e.g. "f16", "bf16", "i16". It returns "invalid" for
// InvalidDType or unknown values.
func (dtype DType) MLIR() string {
	if name, ok := mlirNames[dtype]; ok {
		return name
	}
	return "invalid"
}

// FromMLIR converts a spelling used inside tensor<...> types back to a
// DType.
func FromMLIR(name string) (DType, error) {
	dtype, ok := mlirNamesReverse[name]
	if !ok {
		return InvalidDType, errors.Errorf("unknown element type %q", name)
	}
	return dtype, nil
}

// Memory returns the number of bytes used to store one element of the
// given dtype.
func (dtype DType) Memory() uintptr {
	switch dtype {
	case Bool, S8, U8:
		return 1
	case S16, U16, F16, BF16:
		return 2
	case S32, U32, F32:
		return 4
	case S64, U64, F64:
		return 8
	}
	return 0
}

// IsFloat returns whether dtype is a floating point type.
func (dtype DType) IsFloat() bool {
	return dtype == F16 || dtype == BF16 || dtype == F32 || dtype == F64
}

// IsInteger returns whether dtype is a signed or unsigned integer type.
func (dtype DType) IsInteger() bool {
	switch dtype {
	case S8, S16, S32, S64, U8, U16, U32, U64:
		return true
	}
	return false
}

// IsUnsigned returns whether dtype is an unsigned integer type.
func (dtype DType) IsUnsigned() bool {
	switch dtype {
	case U8, U16, U32, U64:
		return true
	}
	return false
}

// FromAny introspects the Go value and returns the corresponding DType,
// or InvalidDType if the type is not supported.
func FromAny(value any) DType {
	switch value.(type) {
	case bool:
		return Bool
	case int8:
		return S8
	case int16:
		return S16
	case int32:
		return S32
	case int64, int:
		return S64
	case uint8:
		return U8
	case uint16:
		return U16
	case uint32:
		return U32
	case uint64, uint:
		return U64
	case float16.Float16:
		return F16
	case bfloat16.BF16:
		return BF16
	case float32:
		return F32
	case float64:
		return F64
	}
	return InvalidDType
}

// HighestValue for the dtype, as the corresponding Go value.
// For float dtypes that is positive infinity.
func (dtype DType) HighestValue() any {
	switch dtype {
	case Bool:
		return true
	case S8:
		return int8(math.MaxInt8)
	case S16:
		return int16(math.MaxInt16)
	case S32:
		return int32(math.MaxInt32)
	case S64:
		return int64(math.MaxInt64)
	case U8:
		return uint8(math.MaxUint8)
	case U16:
		return uint16(math.MaxUint16)
	case U32:
		return uint32(math.MaxUint32)
	case U64:
		return uint64(math.MaxUint64)
	case F16:
		return float16.Inf(1)
	case BF16:
		return bfloat16.FromFloat32(math32.Inf(1))
	case F32:
		return math32.Inf(1)
	case F64:
		return math.Inf(1)
	}
	return nil
}

// LowestValue for the dtype, as the corresponding Go value.
// For float dtypes that is negative infinity.
func (dtype DType) LowestValue() any {
	switch dtype {
	case Bool:
		return false
	case S8:
		return int8(math.MinInt8)
	case S16:
		return int16(math.MinInt16)
	case S32:
		return int32(math.MinInt32)
	case S64:
		return int64(math.MinInt64)
	case U8:
		return uint8(0)
	case U16:
		return uint16(0)
	case U32:
		return uint32(0)
	case U64:
		return uint64(0)
	case F16:
		return float16.Inf(-1)
	case BF16:
		return bfloat16.FromFloat32(math32.Inf(-1))
	case F32:
		return math32.Inf(-1)
	case F64:
		return math.Inf(-1)
	}
	return nil
}

// SmallestNonZeroValueForDType returns the smallest positive value
// representable by the dtype: 1 for integers, the smallest subnormal for
// floats.
func (dtype DType) SmallestNonZeroValueForDType() any {
	switch dtype {
	case Bool:
		return true
	case S8:
		return int8(1)
	case S16:
		return int16(1)
	case S32:
		return int32(1)
	case S64:
		return int64(1)
	case U8:
		return uint8(1)
	case U16:
		return uint16(1)
	case U32:
		return uint32(1)
	case U64:
		return uint64(1)
	case F16:
		return float16.Frombits(0x0001)
	case BF16:
		return bfloat16.BF16(0x0001)
	case F32:
		return float32(math.SmallestNonzeroFloat32)
	case F64:
		return math.SmallestNonzeroFloat64
	}
	return nil
}
