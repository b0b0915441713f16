// tritonfmt parses, verifies and canonically re-prints Triton XLA tile
// operations.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gomlx/tritonxla/ops"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagInput      = flag.String("in", "", "File with one operation per line; empty reads from stdin")
	flagVerifyOnly = flag.Bool("verify_only", false, "Only verify, do not re-print the canonical form")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `tritonfmt reads Triton XLA tile operations (sparse_dot, tile, extract,
insert), one per line, reports every parse and verification diagnostic,
and on success writes the canonical textual form to stdout.

$ tritonfmt -in=<file>

Usage:
`)
		flag.PrintDefaults()
	}
	klog.InitFlags(flag.CommandLine)
	flag.Parse()

	var source []byte
	if *flagInput == "" {
		source = must.M1(io.ReadAll(os.Stdin))
	} else {
		source = must.M1(os.ReadFile(*flagInput))
	}

	module, errs := ops.ParseModule(string(source))
	errs = append(errs, ops.VerifyModule(module)...)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if len(errs) > 0 {
		os.Exit(1)
	}
	klog.V(1).Infof("parsed and verified %d ops", len(module))

	if *flagVerifyOnly {
		return
	}
	must.M(ops.PrintModule(os.Stdout, module))
}
