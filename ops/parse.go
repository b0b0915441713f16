package ops

import (
	"github.com/gomlx/tritonxla/asm"
	"github.com/gomlx/tritonxla/types"
	"github.com/pkg/errors"
)

// ParseOp parses one operation, with an optional leading result binding
// (`%name = `), from the parser's token stream. On failure the
// already-consumed tokens stay consumed; recovery is the caller's
// responsibility (see ParseModule).
//
// ParseOp does not verify: like construction and verification, parsing
// and verification are separate steps, so a host can parse a whole
// module and then collect verification diagnostics across all ops.
func ParseOp(p *asm.Parser) (Op, error) {
	loc := p.Peek().Loc
	resultName := ""
	if p.Peek().Kind == asm.TokenOperand && p.Lookahead(1).Kind == asm.TokenEqual {
		resultName = p.Next().Text
		p.Next()
	}

	mnemonic, err := p.Expect(asm.TokenIdent)
	if err != nil {
		return nil, err
	}
	kind, ok := mnemonicsReverse[mnemonic.Text]
	if !ok {
		return nil, errors.Errorf("%s: unknown operation %q", mnemonic.Loc, mnemonic.Text)
	}
	switch kind {
	case SparseDot:
		return parseSparseDot(p, resultName, loc)
	case Tile:
		return parseTile(p, resultName, loc)
	case Extract:
		return parseExtract(p, resultName, loc)
	default:
		return parseInsert(p, resultName, loc)
	}
}

// parseTensorType parses a `tensor<...>` type.
func parseTensorType(p *asm.Parser) (types.Tensor, error) {
	body, loc, err := p.ParseType("tensor")
	if err != nil {
		return types.Tensor{}, err
	}
	tensor, err := types.ParseTensorBody(body)
	if err != nil {
		return types.Tensor{}, errors.Wrapf(err, "%s", loc)
	}
	return tensor, nil
}

// parseTiledTensorType parses a `tiled_tensor<...>` type.
func parseTiledTensorType(p *asm.Parser) (types.TiledTensor, error) {
	body, loc, err := p.ParseType("tiled_tensor")
	if err != nil {
		return types.TiledTensor{}, err
	}
	tiled, err := types.ParseTiledTensorBody(body)
	if err != nil {
		return types.TiledTensor{}, errors.Wrapf(err, "%s", loc)
	}
	return tiled, nil
}

// sparse_dot %a, %b, %c, %meta <attr-dict> : TYPE_A, TYPE_B, TYPE_C, TYPE_META
func parseSparseDot(p *asm.Parser, resultName string, loc types.Location) (Op, error) {
	var operands [4]asm.UnresolvedOperand
	for i := range operands {
		if i > 0 {
			if _, err := p.Expect(asm.TokenComma); err != nil {
				return nil, err
			}
		}
		operand, err := p.ParseOperand()
		if err != nil {
			return nil, err
		}
		operands[i] = operand
	}
	attrs, err := p.ParseOptionalAttrDict()
	if err != nil {
		return nil, err
	}
	if err := p.ParseColon(); err != nil {
		return nil, err
	}
	var operandTypes [4]types.Tensor
	for i := range operandTypes {
		if i > 0 {
			if _, err := p.Expect(asm.TokenComma); err != nil {
				return nil, err
			}
		}
		tensor, err := parseTensorType(p)
		if err != nil {
			return nil, err
		}
		operandTypes[i] = tensor
	}
	return &SparseDotOp{
		A:          TensorOperand{Name: operands[0].Name, Type: operandTypes[0]},
		B:          TensorOperand{Name: operands[1].Name, Type: operandTypes[1]},
		C:          TensorOperand{Name: operands[2].Name, Type: operandTypes[2]},
		Meta:       TensorOperand{Name: operands[3].Name, Type: operandTypes[3]},
		Result:     operandTypes[2].Clone(),
		ResultName: resultName,
		Attrs:      attrs,
		Loc:        loc,
	}, nil
}

// tile %src [OFFSETS][SIZES][STRIDES] <attr-dict> : TILED_TENSOR_TYPE
//
// The source operand resolves against the original-type half of the
// tiled tensor type. Offsets and sizes are 32-bit, strides 64-bit.
func parseTile(p *asm.Parser, resultName string, loc types.Location) (Op, error) {
	source, err := p.ParseOperand()
	if err != nil {
		return nil, err
	}
	offsets, err := p.ParseIntList(32)
	if err != nil {
		return nil, err
	}
	sizes, err := p.ParseIntList(32)
	if err != nil {
		return nil, err
	}
	strides, err := p.ParseIntList(64)
	if err != nil {
		return nil, err
	}
	attrs, err := p.ParseOptionalAttrDict()
	if err != nil {
		return nil, err
	}
	if err := p.ParseColon(); err != nil {
		return nil, err
	}
	tiled, err := parseTiledTensorType(p)
	if err != nil {
		return nil, err
	}
	return &TileOp{
		Source:     TensorOperand{Name: source.Name, Type: tiled.Original},
		Offsets:    narrow(offsets),
		Sizes:      narrow(sizes),
		Strides:    strides,
		Result:     tiled,
		ResultName: resultName,
		Attrs:      attrs,
		Loc:        loc,
	}, nil
}

// extract %src [DYNAMIC-OFFSETS] <attr-dict> : ORIGINAL_TYPE to TILE_TYPE
//
// The tiled tensor type of the source operand is reconstructed from the
// two printed tensor types; the dynamic offsets resolve against a
// 32-bit integer type.
func parseExtract(p *asm.Parser, resultName string, loc types.Location) (Op, error) {
	source, err := p.ParseOperand()
	if err != nil {
		return nil, err
	}
	offsets, err := p.ParseOperandList()
	if err != nil {
		return nil, err
	}
	attrs, err := p.ParseOptionalAttrDict()
	if err != nil {
		return nil, err
	}
	if err := p.ParseColon(); err != nil {
		return nil, err
	}
	original, err := parseTensorType(p)
	if err != nil {
		return nil, err
	}
	if err := p.ParseKeyword("to"); err != nil {
		return nil, err
	}
	tile, err := parseTensorType(p)
	if err != nil {
		return nil, err
	}
	return &ExtractOp{
		Source:     TiledOperand{Name: source.Name, Type: types.MakeTiledTensor(tile, original)},
		Offsets:    operandNames(offsets),
		Result:     tile,
		ResultName: resultName,
		Attrs:      attrs,
		Loc:        loc,
	}, nil
}

// insert %tile into %dst [DYNAMIC-OFFSETS] <attr-dict> : TILE_TYPE into ORIGINAL_TYPE
func parseInsert(p *asm.Parser, resultName string, loc types.Location) (Op, error) {
	tileOperand, err := p.ParseOperand()
	if err != nil {
		return nil, err
	}
	if err := p.ParseKeyword("into"); err != nil {
		return nil, err
	}
	dest, err := p.ParseOperand()
	if err != nil {
		return nil, err
	}
	offsets, err := p.ParseOperandList()
	if err != nil {
		return nil, err
	}
	attrs, err := p.ParseOptionalAttrDict()
	if err != nil {
		return nil, err
	}
	if err := p.ParseColon(); err != nil {
		return nil, err
	}
	tile, err := parseTensorType(p)
	if err != nil {
		return nil, err
	}
	if err := p.ParseKeyword("into"); err != nil {
		return nil, err
	}
	original, err := parseTensorType(p)
	if err != nil {
		return nil, err
	}
	return &InsertOp{
		Tile:       TensorOperand{Name: tileOperand.Name, Type: tile},
		Dest:       TiledOperand{Name: dest.Name, Type: types.MakeTiledTensor(tile, original)},
		Offsets:    operandNames(offsets),
		Result:     original,
		ResultName: resultName,
		Attrs:      attrs,
		Loc:        loc,
	}, nil
}

// ParseModule parses a sequence of ops, one per line (blank lines and
// `//` comments allowed). A parse error skips the rest of its line and
// parsing continues on the next one, so errors are collected across ops
// the same way verification diagnostics are.
func ParseModule(source string) ([]Op, []error) {
	p, err := asm.NewParser(source)
	if err != nil {
		// Lexing errors have no token stream to recover on.
		return nil, []error{err}
	}
	var module []Op
	var errs []error
	for !p.AtEOF() {
		op, err := ParseOp(p)
		if err != nil {
			errs = append(errs, err)
			// Skip what remains of the failed line. The failing token may
			// have been the line's last one, in which case Peek is already
			// on the next line and nothing must be skipped.
			line := p.LastLoc().Line
			for !p.AtEOF() && p.Peek().Loc.Line <= line {
				p.Next()
			}
			continue
		}
		module = append(module, op)
	}
	return module, errs
}

func narrow(values []int64) []int32 {
	// Values were range-checked by ParseIntList(32).
	narrowed := make([]int32, len(values))
	for i, value := range values {
		narrowed[i] = int32(value)
	}
	return narrowed
}

func operandNames(operands []asm.UnresolvedOperand) []string {
	if len(operands) == 0 {
		return nil
	}
	names := make([]string, len(operands))
	for i, operand := range operands {
		names[i] = operand.Name
	}
	return names
}
