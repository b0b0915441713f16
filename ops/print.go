package ops

import (
	"io"
	"strconv"

	"github.com/gomlx/tritonxla/asm"
)

// PrintOp writes the canonical textual form of the op, preceded by a
// `%name = ` result binding when the op carries a result name. The token
// order mirrors what ParseOp accepts, so parse(print(op)) reproduces op.
func PrintOp(w io.Writer, op Op) error {
	out := asm.NewWriter(w)
	printOp(out, op, resultNameOf(op))
	return out.Err()
}

func printOp(w *asm.Writer, op Op, resultName string) {
	if resultName != "" {
		w.Printf("%%%s = ", resultName)
	}
	switch op := op.(type) {
	case *SparseDotOp:
		op.print(w)
	case *TileOp:
		op.print(w)
	case *ExtractOp:
		op.print(w)
	case *InsertOp:
		op.print(w)
	}
}

func resultNameOf(op Op) string {
	switch op := op.(type) {
	case *SparseDotOp:
		return op.ResultName
	case *TileOp:
		return op.ResultName
	case *ExtractOp:
		return op.ResultName
	case *InsertOp:
		return op.ResultName
	}
	return ""
}

func (op *SparseDotOp) print(w *asm.Writer) {
	w.Printf("%s %%%s, %%%s, %%%s, %%%s", SparseDot.Mnemonic(),
		op.A.Name, op.B.Name, op.C.Name, op.Meta.Name)
	w.AttrDict(op.Attrs)
	w.Printf(" : %s, %s, %s, %s",
		op.A.Type, op.B.Type, op.C.Type, op.Meta.Type)
}

func (op *TileOp) print(w *asm.Writer) {
	w.Printf("%s %%%s", Tile.Mnemonic(), op.Source.Name)
	w.IntList(widen(op.Offsets))
	w.IntList(widen(op.Sizes))
	w.IntList(op.Strides)
	w.AttrDict(op.Attrs)
	w.Printf(" : %s", op.Result)
}

func (op *ExtractOp) print(w *asm.Writer) {
	w.Printf("%s %%%s", Extract.Mnemonic(), op.Source.Name)
	w.OperandList(op.Offsets)
	w.AttrDict(op.Attrs)
	w.Printf(" : %s to %s", op.Source.Type.Original, op.Source.Type.Tile)
}

func (op *InsertOp) print(w *asm.Writer) {
	w.Printf("%s %%%s into %%%s", Insert.Mnemonic(), op.Tile.Name, op.Dest.Name)
	w.OperandList(op.Offsets)
	w.AttrDict(op.Attrs)
	w.Printf(" : %s into %s", op.Dest.Type.Tile, op.Dest.Type.Original)
}

// PrintModule writes one op per line. Ops without a result name get a
// default one from their AsmResultName hint, or a positional number when
// there is no hint (sparse_dot); clashing names get a numeric suffix.
func PrintModule(w io.Writer, module []Op) error {
	out := asm.NewWriter(w)
	used := make(map[string]bool, len(module))
	for i, op := range module {
		name := resultNameOf(op)
		if name == "" {
			name = AsmResultName(op)
			if name == "" {
				name = strconv.Itoa(i)
			}
		}
		if used[name] {
			base := name
			for suffix := 0; used[name]; suffix++ {
				name = base + "_" + strconv.Itoa(suffix)
			}
		}
		used[name] = true
		printOp(out, op, name)
		out.Printf("\n")
	}
	return out.Err()
}

func widen(values []int32) []int64 {
	wide := make([]int64, len(values))
	for i, value := range values {
		wide[i] = int64(value)
	}
	return wide
}
