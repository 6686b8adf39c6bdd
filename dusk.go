// Package dusk is the Dusk shading-language compiler's driver: it
// wires the lexer, parser, semantic analyzer, IR builder, and SPIR-V
// backend into the single entry point the CLI and embedders use.
//
// The compilation pipeline is:
//  1. Parse Dusk source to an AST
//  2. Analyze the AST (name resolution, type checking)
//  3. Lower the analyzed AST to IR, selecting one entry point
//  4. Generate a SPIR-V binary from the IR
package dusk

import (
	"fmt"

	"github.com/dusklang/duskc/ir"
	"github.com/dusklang/duskc/parser"
	"github.com/dusklang/duskc/sema"
	"github.com/dusklang/duskc/spirv"
	"github.com/dusklang/duskc/types"
)

// Options configures a single compilation.
type Options struct {
	// Entry is the name of the `[[stage(...)]]` function to compile.
	Entry string

	// SPIRVVersion is the target SPIR-V version (default: 1.3).
	SPIRVVersion spirv.Version

	// Debug emits OpName/OpMemberName into the SPIR-V output.
	Debug bool
}

// DefaultOptions returns sensible defaults with entry name "main".
func DefaultOptions() Options {
	return Options{
		Entry:        "main",
		SPIRVVersion: spirv.Version1_3,
	}
}

// Compile compiles Dusk source text to a SPIR-V binary using default
// options. path is used only to attribute diagnostics.
func Compile(path, text string) ([]byte, error) {
	return CompileWithOptions(path, text, DefaultOptions())
}

// CompileWithOptions runs the full pipeline with custom options.
func CompileWithOptions(path, text string, opts Options) ([]byte, error) {
	file, err := parser.Parse(path, text)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	in := types.NewInterner()
	bag := sema.Analyze(file, in)
	if bag.HasErrors() {
		return nil, fmt.Errorf("semantic errors:\n%s", bag.Error())
	}

	entry := opts.Entry
	if entry == "" {
		entry = "main"
	}
	mod, irBag := ir.Build(file, in, entry)
	if irBag.HasErrors() {
		return nil, fmt.Errorf("lowering errors:\n%s", irBag.Error())
	}

	version := opts.SPIRVVersion
	if version == (spirv.Version{}) {
		version = spirv.Version1_3
	}
	backend := spirv.NewBackend(spirv.Options{Version: version, Debug: opts.Debug})
	spirvBytes, err := backend.Compile(mod)
	if err != nil {
		return nil, fmt.Errorf("SPIR-V generation error: %w", err)
	}
	return spirvBytes, nil
}
