package parser

import (
	"testing"

	"github.com/dusklang/duskc/ast"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := Parse("t.dusk", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return f
}

func TestParseVertexShader(t *testing.T) {
	src := `
[[stage(vertex)]]
fn main([[location(0)]] pos: float3) [[builtin(position)]] float4 {
    return float4(pos, 1.0);
}`
	f := mustParse(t, src)
	if len(f.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(f.Decls))
	}
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", f.Decls[0])
	}
	if fn.Name != "main" || !fn.IsEntry || fn.Stage != ast.StageVertex {
		t.Errorf("got name=%q isEntry=%v stage=%v", fn.Name, fn.IsEntry, fn.Stage)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "pos" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	if len(fn.RetAttrs) != 1 || fn.RetAttrs[0].Name != "builtin" {
		t.Fatalf("unexpected return attrs: %+v", fn.RetAttrs)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Stmts))
	}
}

func TestParseUniformVarWithStructType(t *testing.T) {
	src := `
[[set(0), binding(0)]]
let (uniform) u : struct(std140) { mvp: float4x4, tint: float4 };
`
	f := mustParse(t, src)
	vd, ok := f.Decls[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", f.Decls[0])
	}
	if vd.StorageExpr != "uniform" {
		t.Errorf("expected storage 'uniform', got %q", vd.StorageExpr)
	}
	st, ok := vd.TypeExpr.(*ast.StructTypeExpr)
	if !ok {
		t.Fatalf("expected *ast.StructTypeExpr, got %T", vd.TypeExpr)
	}
	if st.LayoutName != "std140" || len(st.Fields) != 2 {
		t.Fatalf("unexpected struct type: %+v", st)
	}
}

func TestParseArrayAndRuntimeArrayTypes(t *testing.T) {
	f := mustParse(t, `let fixed : float[4]; let dyn : float[];`)
	fixedDecl := f.Decls[0].(*ast.VarDecl)
	arr, ok := fixedDecl.TypeExpr.(*ast.ArrayTypeExpr)
	if !ok || arr.Runtime {
		t.Fatalf("expected fixed-size array type, got %+v", fixedDecl.TypeExpr)
	}
	dynDecl := f.Decls[1].(*ast.VarDecl)
	dynArr, ok := dynDecl.TypeExpr.(*ast.ArrayTypeExpr)
	if !ok || !dynArr.Runtime {
		t.Fatalf("expected runtime array type, got %+v", dynDecl.TypeExpr)
	}
}

func TestParseIndexChainNotConfusedWithAttributeBlock(t *testing.T) {
	// a[i][j] must parse as two chained index expressions, not an
	// attribute block, even though it is two adjacent bracket pairs.
	src := `fn f() { a[i][j] = 1; }`
	f := mustParse(t, src)
	fn := f.Decls[0].(*ast.FuncDecl)
	assign := fn.Body.Stmts[0].(*ast.AssignStmt)
	outer, ok := assign.LHS.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expected outer IndexExpr, got %T", assign.LHS)
	}
	if _, ok := outer.Base.(*ast.IndexExpr); !ok {
		t.Fatalf("expected inner IndexExpr, got %T", outer.Base)
	}
}

func TestParseCompoundAssignDesugarsToBinary(t *testing.T) {
	src := `fn f() { x += 1; }`
	f := mustParse(t, src)
	fn := f.Decls[0].(*ast.FuncDecl)
	assign := fn.Body.Stmts[0].(*ast.AssignStmt)
	bin, ok := assign.RHS.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.BinAdd {
		t.Fatalf("expected desugared + binary, got %+v", assign.RHS)
	}
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	// a + b * c should parse as a + (b * c).
	src := `fn f() { let x = a + b * c; }`
	f := mustParse(t, src)
	fn := f.Decls[0].(*ast.FuncDecl)
	vd := fn.Body.Stmts[0].(*ast.VarDecl)
	top, ok := vd.Init.(*ast.BinaryExpr)
	if !ok || top.Op != ast.BinAdd {
		t.Fatalf("expected top-level '+', got %+v", vd.Init)
	}
	if _, ok := top.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected right operand to be the '*' subexpression, got %T", top.Right)
	}
}

func TestParseUnaryBindsLooserThanPostfix(t *testing.T) {
	// -a.b should parse as -(a.b), not (-a).b.
	src := `fn f() { let x = -a.b; }`
	f := mustParse(t, src)
	fn := f.Decls[0].(*ast.FuncDecl)
	vd := fn.Body.Stmts[0].(*ast.VarDecl)
	u, ok := vd.Init.(*ast.UnaryExpr)
	if !ok || u.Op != ast.UnaryNeg {
		t.Fatalf("expected top-level unary negate, got %+v", vd.Init)
	}
	if _, ok := u.Operand.(*ast.MemberExpr); !ok {
		t.Fatalf("expected operand to be a member access, got %T", u.Operand)
	}
}

func TestParseStructLiteral(t *testing.T) {
	src := `fn f() { let x = float4{ .x = 1.0, .y = 2.0 }; }`
	f := mustParse(t, src)
	fn := f.Decls[0].(*ast.FuncDecl)
	vd := fn.Body.Stmts[0].(*ast.VarDecl)
	lit, ok := vd.Init.(*ast.StructLitExpr)
	if !ok || len(lit.Fields) != 2 {
		t.Fatalf("expected 2-field struct literal, got %+v", vd.Init)
	}
}

func TestParseBuiltinCall(t *testing.T) {
	src := `fn f() { let x = @sin(a); }`
	f := mustParse(t, src)
	fn := f.Decls[0].(*ast.FuncDecl)
	vd := fn.Body.Stmts[0].(*ast.VarDecl)
	call, ok := vd.Init.(*ast.BuiltinCallExpr)
	if !ok || call.Name != "sin" || len(call.Args) != 1 {
		t.Fatalf("expected @sin(a) builtin call, got %+v", vd.Init)
	}
}

func TestParseIfWhileBreakContinue(t *testing.T) {
	src := `
fn f() {
    while (true) {
        if (x) { break; } else { continue; }
    }
}`
	f := mustParse(t, src)
	fn := f.Decls[0].(*ast.FuncDecl)
	ws, ok := fn.Body.Stmts[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", fn.Body.Stmts[0])
	}
	body := ws.Body.(*ast.BlockStmt)
	ifs, ok := body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", body.Stmts[0])
	}
	if ifs.Else == nil {
		t.Fatalf("expected else branch")
	}
}

func TestParseMissingLetTypeOrInitIsError(t *testing.T) {
	if _, err := Parse("t.dusk", `let x;`); err == nil {
		t.Fatal("expected parse error for 'let' with neither type nor initializer")
	}
}

// Parse-determinism property: parsing the same source twice must
// produce structurally identical trees (same declaration count, same
// statement count, same shapes) every time.
func TestParseDeterminism(t *testing.T) {
	src := `
[[stage(fragment)]]
fn main() [[location(0)]] float4 {
    let c = float4(1.0, 0.0, 0.0, 1.0);
    if (c.x > 0.5) {
        discard;
    }
    return c;
}`
	a := mustParse(t, src)
	b := mustParse(t, src)
	if len(a.Decls) != len(b.Decls) {
		t.Fatalf("non-deterministic decl count: %d vs %d", len(a.Decls), len(b.Decls))
	}
	fa := a.Decls[0].(*ast.FuncDecl)
	fb := b.Decls[0].(*ast.FuncDecl)
	if len(fa.Body.Stmts) != len(fb.Body.Stmts) {
		t.Fatalf("non-deterministic statement count: %d vs %d", len(fa.Body.Stmts), len(fb.Body.Stmts))
	}
}
