package sema

import (
	"testing"

	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/parser"
	"github.com/dusklang/duskc/types"
)

func analyzeSource(t *testing.T, src string) (*ast.File, *types.Interner, bool) {
	t.Helper()
	f, err := parser.Parse("t.dusk", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	in := types.NewInterner()
	bag := Analyze(f, in)
	return f, in, bag.HasErrors()
}

func TestAnalyzeVertexPassthrough(t *testing.T) {
	src := `
[[stage(vertex)]]
fn main([[location(0)]] pos: float3) [[builtin(position)]] float4 {
    return float4(pos, 1.0);
}`
	f, _, hasErrors := analyzeSource(t, src)
	if hasErrors {
		t.Fatalf("unexpected analysis errors")
	}
	fn := f.Decls[0].(*ast.FuncDecl)
	if fn.Type.Return.Kind != types.KindVector || fn.Type.Return.Len != 4 {
		t.Fatalf("expected float4 return type, got %s", fn.Type.Return.PrettyString())
	}
}

func TestAnalyzeUniformBufferGetsStd140Layout(t *testing.T) {
	src := `
[[set(0), binding(0)]]
let (uniform) u : struct(std140) { mvp: float4x4, tint: float4 };
`
	f, _, hasErrors := analyzeSource(t, src)
	if hasErrors {
		t.Fatalf("unexpected analysis errors")
	}
	v := f.Decls[0].(*ast.VarDecl)
	if v.Type.Layout != types.LayoutStd140 {
		t.Fatalf("expected std140 layout, got %v", v.Type.Layout)
	}
	if v.Storage != types.StorageUniform {
		t.Fatalf("expected uniform storage, got %v", v.Storage)
	}
}

func TestAnalyzeGlobalWithoutStorageDefaultsToUniformConstant(t *testing.T) {
	f, _, hasErrors := analyzeSource(t, `let x : float;`)
	if hasErrors {
		t.Fatalf("unexpected analysis errors")
	}
	v := f.Decls[0].(*ast.VarDecl)
	if v.Storage != types.StorageUniformConstant {
		t.Fatalf("expected uniform_constant storage by default, got %v", v.Storage)
	}
}

func TestAnalyzeGlobalWithUnknownStorageIsError(t *testing.T) {
	_, _, hasErrors := analyzeSource(t, `let (bogus) x : float;`)
	if !hasErrors {
		t.Fatal("expected an error for an unknown storage class")
	}
}

func TestAnalyzeShortCircuitOperandsMustBeBool(t *testing.T) {
	src := `fn f(a: bool, b: float) bool { return a && b; }`
	_, _, hasErrors := analyzeSource(t, src)
	if !hasErrors {
		t.Fatal("expected a type error for '&&' with a non-bool operand")
	}
}

func TestAnalyzeSwizzleShuffle(t *testing.T) {
	src := `
fn f(v: float4) float3 {
    return v.xyz;
}`
	f, _, hasErrors := analyzeSource(t, src)
	if hasErrors {
		t.Fatalf("unexpected analysis errors")
	}
	fn := f.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if ret.Value.Annotations().Type.Kind != types.KindVector || ret.Value.Annotations().Type.Len != 3 {
		t.Fatalf("expected float3 from .xyz swizzle, got %s", ret.Value.Annotations().Type.PrettyString())
	}
}

func TestAnalyzeInvalidSwizzleComponent(t *testing.T) {
	src := `fn f(v: float3) float { return v.q; }`
	_, _, hasErrors := analyzeSource(t, src)
	if !hasErrors {
		t.Fatal("expected an error for an invalid swizzle component")
	}
}

func TestAnalyzeAssignMismatchedTypes(t *testing.T) {
	src := `
fn f() {
    let x : float = 1.0;
    x = true;
}`
	_, _, hasErrors := analyzeSource(t, src)
	if !hasErrors {
		t.Fatal("expected an assignability error")
	}
}

// Assignability property: a parameter is never a valid assignment
// target; any other 'let' is.
func TestAnalyzeAssignToParameterIsError(t *testing.T) {
	src := `fn f(a: int) int { a = a + 1; return a; }`
	_, _, hasErrors := analyzeSource(t, src)
	if !hasErrors {
		t.Fatal("expected an error assigning to a function parameter")
	}
}

func TestAnalyzeAssignToLocalIsOK(t *testing.T) {
	src := `fn f() int { let a : int = 1; a = a + 1; return a; }`
	_, _, hasErrors := analyzeSource(t, src)
	if hasErrors {
		t.Fatalf("unexpected analysis errors assigning to a local 'let'")
	}
}

func TestAnalyzeUntypedLiteralWidensToDeclaredType(t *testing.T) {
	src := `fn f() { let x : float = 1; }`
	_, _, hasErrors := analyzeSource(t, src)
	if hasErrors {
		t.Fatalf("expected an untyped int literal to widen to float without error")
	}
}

// Constant-folding property: array-size expressions fold at compile
// time, including two's-complement wraparound on overflow.
func TestConstFoldArraySizeAndWraparound(t *testing.T) {
	src := `let arr : float[2 + 2];`
	f, err := parser.Parse("t.dusk", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	in := types.NewInterner()
	a := New(in)
	vd := f.Decls[0].(*ast.VarDecl)
	size, err := a.constFoldInt(vd.TypeExpr.(*ast.ArrayTypeExpr).Size, f.Scope)
	if err != nil {
		t.Fatalf("const fold error: %v", err)
	}
	if size != 4 {
		t.Fatalf("expected folded size 4, got %d", size)
	}

	wrap, err := a.constFoldInt(&ast.BinaryExpr{
		Op:    ast.BinAdd,
		Left:  &ast.IntLitExpr{Value: uint64(int64(^uint64(0) >> 1))}, // math.MaxInt64
		Right: &ast.IntLitExpr{Value: 1},
	}, f.Scope)
	if err != nil {
		t.Fatalf("const fold error: %v", err)
	}
	if wrap >= 0 {
		t.Fatalf("expected int64 overflow to wrap to a negative value, got %d", wrap)
	}
}

func TestAnalyzeDuplicateTopLevelNameIsError(t *testing.T) {
	src := `
fn f() {}
fn f() {}
`
	_, _, hasErrors := analyzeSource(t, src)
	if !hasErrors {
		t.Fatal("expected a duplicate-declaration error")
	}
}

func TestAnalyzeDiscardInFragmentShader(t *testing.T) {
	src := `
[[stage(fragment)]]
fn main() [[location(0)]] float4 {
    let c = float4(1.0, 0.0, 0.0, 1.0);
    if (c.x > 0.5) {
        discard;
    }
    return c;
}`
	_, _, hasErrors := analyzeSource(t, src)
	if hasErrors {
		t.Fatalf("unexpected analysis errors")
	}
}
