package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// Location is a position in the textual form an operation was parsed
// from. The zero value means the location is unknown (e.g. for ops built
// programmatically).
type Location struct {
	Line, Column int
}

// IsUnknown reports whether the location carries no position.
func (l Location) IsUnknown() bool { return l.Line == 0 }

// String implements fmt.Stringer.
func (l Location) String() string {
	if l.IsUnknown() {
		return "?:?"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Encoding is an opaque layout encoding owned by some sub-dialect: it
// describes how a tensor's elements are physically arranged. This
// package never constructs or interprets encodings, it only checks for
// their presence and hands them to the owning dialect's LayoutInference.
type Encoding interface {
	// Dialect names the sub-dialect owning the encoding; it selects the
	// LayoutInference implementation consulted for compatibility checks.
	Dialect() string

	// String returns the textual form of the encoding, e.g.
	// "#triton_gpu.blocked<...>".
	String() string
}

// EncodingEqual compares two possibly-nil encodings by dialect and
// textual form.
func EncodingEqual(a, b Encoding) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Dialect() == b.Dialect() && a.String() == b.String()
}

// LayoutInference is the capability interface a sub-dialect implements
// for its layout encodings. The tile operations only ever call it, they
// never implement it.
//
// Implementations must be safe for concurrent read-only use: many
// operations may be verified in parallel against the same instance.
type LayoutInference interface {
	// InferDotOperandEncoding checks (and possibly derives) the encoding
	// of dot operand operandIdx (0 for A, 1 for B) against the
	// accumulator's resultEncoding.
	InferDotOperandEncoding(encoding Encoding, operandIdx int, resultEncoding Encoding, loc Location) (Encoding, error)

	// VerifyDotOperandEncodingCompatibility checks that the A and B
	// operand encodings of the given dot operation can be combined.
	VerifyDotOperandEncodingCompatibility(op fmt.Stringer, a, b Encoding) error
}

// layoutInferenceRegistry maps a dialect name to its LayoutInference.
// Registration happens at init time; afterwards the map is read-only, so
// no locking is needed.
var layoutInferenceRegistry = map[string]LayoutInference{}

// RegisterLayoutInference registers the LayoutInference implementation
// for the given dialect name. It must be called at init time, before any
// operation is verified.
func RegisterLayoutInference(dialect string, li LayoutInference) {
	layoutInferenceRegistry[dialect] = li
}

// LayoutInferenceFor returns the LayoutInference owning the given
// encoding's dialect.
func LayoutInferenceFor(encoding Encoding) (LayoutInference, error) {
	li, ok := layoutInferenceRegistry[encoding.Dialect()]
	if !ok {
		return nil, errors.Errorf("no layout inference registered for dialect %q", encoding.Dialect())
	}
	return li, nil
}
