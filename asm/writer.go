package asm

import (
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Writer prints operation text to an io.Writer, remembering the first
// error encountered so callers can chain writes unconditionally.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps the given io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error { return w.err }

// Printf writes formatted text.
func (w *Writer) Printf(format string, args ...any) {
	if w.err != nil {
		// No op if an error was encountered earlier.
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// IntList writes a square-bracketed, comma-separated integer list, e.g.
// "[0, 8, 16]".
func (w *Writer) IntList(values []int64) {
	w.Printf("[")
	for i, value := range values {
		if i > 0 {
			w.Printf(", ")
		}
		w.Printf("%d", value)
	}
	w.Printf("]")
}

// OperandList writes a square-bracketed, comma-separated list of SSA
// value references, e.g. "[%a, %b]".
func (w *Writer) OperandList(names []string) {
	w.Printf("[")
	for i, name := range names {
		if i > 0 {
			w.Printf(", ")
		}
		w.Printf("%%%s", name)
	}
	w.Printf("]")
}

// AttrDict writes an attribute dictionary preceded by a space, with keys
// in sorted order, e.g. ` {flag = true, k = 1}`. An empty or nil map
// writes nothing.
func (w *Writer) AttrDict(attrs map[string]any) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	w.Printf(" {")
	for i, key := range keys {
		if i > 0 {
			w.Printf(", ")
		}
		w.Printf("%s = %s", key, attrValueString(attrs[key]))
	}
	w.Printf("}")
}

func attrValueString(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
