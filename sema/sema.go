// Package sema implements Dusk's semantic analyzer (component C4): a
// two-pass walk that registers every top-level name before analyzing
// any of them (so declarations may reference each other regardless of
// textual order), then resolves types, infers expression types, folds
// integer constants, and checks assignability across the whole file.
package sema

import (
	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/diag"
	"github.com/dusklang/duskc/types"
)

// Analyzer holds the state threaded through one file's analysis: the
// type interner shared with the rest of the compilation, and the
// accumulated diagnostics bag.
type Analyzer struct {
	in   *types.Interner
	bag  diag.Bag
	file string // source path, threaded into every diagnostic's location

	fn *ast.FuncDecl // enclosing function, for return-type checks; nil at file scope
}

// New creates an analyzer that interns types into in.
func New(in *types.Interner) *Analyzer {
	return &Analyzer{in: in}
}

// Analyze runs both passes over file and returns the accumulated
// diagnostics. Callers should check bag.HasErrors() before handing the
// file to the IR builder.
func Analyze(file *ast.File, in *types.Interner) *diag.Bag {
	a := New(in)
	a.file = file.Name
	a.register(file)
	if a.bag.HasErrors() {
		return &a.bag
	}
	a.analyzeAll(file)
	return &a.bag
}

func (a *Analyzer) errorf(kind diag.Kind, loc ast.Location, format string, args ...any) error {
	d := diag.New(kind, diag.Location{
		File: a.file, Offset: loc.Offset, Length: loc.Length, Line: loc.Line, Column: loc.Column,
	}, format, args...)
	a.bag.Add(d)
	return d
}

// ---- pass 1: registration ----

func (a *Analyzer) register(file *ast.File) {
	for _, d := range file.Decls {
		name := declName(d)
		if name == "" {
			continue
		}
		if !file.Scope.Declare(name, d) {
			a.errorf(diag.KindName, d.Pos(), "%q is already declared", name)
		}
	}
}

func declName(d ast.Decl) string {
	switch n := d.(type) {
	case *ast.FuncDecl:
		return n.Name
	case *ast.VarDecl:
		return n.Name
	case *ast.TypeDefDecl:
		return n.Name
	default:
		return ""
	}
}

// ---- pass 2: analysis ----

func (a *Analyzer) analyzeAll(file *ast.File) {
	// Type definitions first, so struct/array field types used by
	// variables and functions are already resolved.
	for _, d := range file.Decls {
		if td, ok := d.(*ast.TypeDefDecl); ok {
			a.analyzeTypeDef(td, file.Scope)
		}
	}
	for _, d := range file.Decls {
		switch n := d.(type) {
		case *ast.VarDecl:
			a.analyzeGlobalVar(n, file.Scope)
		case *ast.FuncDecl:
			a.analyzeFunc(n, file.Scope)
		}
	}
}

func (a *Analyzer) analyzeTypeDef(td *ast.TypeDefDecl, scope *ast.Scope) {
	t, err := a.resolveTypeExpr(td.RHS, scope, types.LayoutStd430)
	if err != nil {
		return
	}
	td.Type = t
}

var storageClasses = map[string]types.StorageClass{
	"uniform":        types.StorageUniform,
	"uniform_constant": types.StorageUniformConstant,
	"storage":        types.StorageStorage,
	"push_constant":  types.StoragePushConstant,
	"workgroup":      types.StorageWorkgroup,
}

func (a *Analyzer) analyzeGlobalVar(v *ast.VarDecl, scope *ast.Scope) {
	storage := types.StorageUniformConstant
	if v.StorageExpr != "" {
		s, ok := storageClasses[v.StorageExpr]
		if !ok {
			a.errorf(diag.KindAttribute, v.Loc, "unknown storage class %q", v.StorageExpr)
			return
		}
		storage = s
	}
	v.Storage = storage

	layout := types.LayoutStd430
	if storage == types.StorageUniform || storage == types.StoragePushConstant {
		layout = types.LayoutStd140
	}

	if v.TypeExpr == nil {
		a.errorf(diag.KindType, v.Loc, "global 'let' needs an explicit type annotation")
		return
	}
	t, err := a.resolveTypeExpr(v.TypeExpr, scope, layout)
	if err != nil {
		return
	}
	v.Type = t
	types.MarkLive(t)

	if v.Init != nil {
		a.errorf(diag.KindType, v.Init.Pos(), "global variables cannot have an initializer")
	}
}

func (a *Analyzer) analyzeFunc(f *ast.FuncDecl, fileScope *ast.Scope) {
	prevFn := a.fn
	a.fn = f
	defer func() { a.fn = prevFn }()

	f.Scope.Parent = fileScope

	paramTypes := make([]*types.Type, len(f.Params))
	for i, p := range f.Params {
		t, err := a.resolveTypeExpr(p.Type, fileScope, types.LayoutStd430)
		if err != nil {
			continue
		}
		p.ResolvedType = t
		paramTypes[i] = t
		if !f.Scope.Declare(p.Name, p) {
			a.errorf(diag.KindName, p.Loc, "duplicate parameter %q", p.Name)
		}
	}

	retType := a.in.Void()
	if f.RetType != nil {
		if t, err := a.resolveTypeExpr(f.RetType, fileScope, types.LayoutStd430); err == nil {
			retType = t
		}
	}
	f.Type = a.in.Function(retType, paramTypes)
	types.MarkLive(f.Type)

	f.Body.Scope.Parent = f.Scope
	a.analyzeBlock(f.Body, retType)
}

// ---- statements ----

func (a *Analyzer) analyzeBlock(b *ast.BlockStmt, retType *types.Type) {
	if b.Scope.Parent == nil {
		b.Scope.Parent = a.fn.Scope
	}
	for _, s := range b.Stmts {
		a.analyzeStmt(s, b.Scope, retType)
	}
}

func (a *Analyzer) analyzeStmt(s ast.Stmt, scope *ast.Scope, retType *types.Type) {
	switch n := s.(type) {
	case *ast.VarDecl:
		a.analyzeLocalVar(n, scope)
	case *ast.AssignStmt:
		a.analyzeAssign(n, scope)
	case *ast.ExprStmt:
		a.analyzeExpr(n.X, scope)
	case *ast.ReturnStmt:
		if n.Value == nil {
			if retType.Kind != types.KindVoid {
				a.errorf(diag.KindType, n.Loc, "missing return value in function returning %s", retType.PrettyString())
			}
			return
		}
		t := a.analyzeExpr(n.Value, scope)
		if t != nil && !assignable(retType, t) {
			a.errorf(diag.KindType, n.Value.Pos(), "cannot return %s as %s", t.PrettyString(), retType.PrettyString())
		}
	case *ast.DiscardStmt, *ast.BreakStmt, *ast.ContinueStmt:
		// no sub-expressions to analyze
	case *ast.IfStmt:
		t := a.analyzeExpr(n.Cond, scope)
		if t != nil && t.Kind != types.KindBool {
			a.errorf(diag.KindType, n.Cond.Pos(), "'if' condition must be bool, got %s", t.PrettyString())
		}
		a.analyzeStmt(n.Then, scope, retType)
		if n.Else != nil {
			a.analyzeStmt(n.Else, scope, retType)
		}
	case *ast.WhileStmt:
		t := a.analyzeExpr(n.Cond, scope)
		if t != nil && t.Kind != types.KindBool {
			a.errorf(diag.KindType, n.Cond.Pos(), "'while' condition must be bool, got %s", t.PrettyString())
		}
		a.analyzeStmt(n.Body, scope, retType)
	case *ast.BlockStmt:
		n.Scope.Parent = scope
		a.analyzeBlock(n, retType)
	default:
		a.errorf(diag.KindIR, s.Pos(), "internal: unhandled statement %T", s)
	}
}

func (a *Analyzer) analyzeLocalVar(v *ast.VarDecl, scope *ast.Scope) {
	v.Storage = types.StorageFunction

	var declared *types.Type
	if v.TypeExpr != nil {
		t, err := a.resolveTypeExpr(v.TypeExpr, scope, types.LayoutStd430)
		if err == nil {
			declared = t
		}
	}

	var initType *types.Type
	if v.Init != nil {
		initType = a.analyzeExpr(v.Init, scope)
	}

	switch {
	case declared != nil && initType != nil:
		if !assignable(declared, initType) {
			a.errorf(diag.KindType, v.Init.Pos(), "cannot initialize %s with %s", declared.PrettyString(), initType.PrettyString())
		}
		v.Type = declared
	case declared != nil:
		v.Type = declared
	case initType != nil:
		v.Type = defaultConcrete(a.in, initType)
	default:
		return
	}

	if !scope.Declare(v.Name, v) {
		a.errorf(diag.KindName, v.Loc, "%q is already declared in this scope", v.Name)
	}
}

func (a *Analyzer) analyzeAssign(n *ast.AssignStmt, scope *ast.Scope) {
	lt := a.analyzeExpr(n.LHS, scope)
	rt := a.analyzeExpr(n.RHS, scope)
	if !isAssignableLHS(n.LHS) {
		a.errorf(diag.KindType, n.LHS.Pos(), "invalid assignment target")
		return
	}
	if root, ok := rootIdent(n.LHS); ok {
		if _, isParam := root.Decl.(*ast.Param); isParam {
			a.errorf(diag.KindType, n.LHS.Pos(), "cannot assign to parameter %q", root.Name)
			return
		}
	}
	if lt != nil && rt != nil && !assignable(lt, rt) {
		a.errorf(diag.KindType, n.RHS.Pos(), "cannot assign %s to %s", rt.PrettyString(), lt.PrettyString())
	}
}

func isAssignableLHS(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IdentExpr, *ast.MemberExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

// rootIdent unwraps a chain of member/index accesses down to the base
// identifier an assignment target is rooted in, e.g. `a.x[0]` -> `a`.
func rootIdent(e ast.Expr) (*ast.IdentExpr, bool) {
	for {
		switch n := e.(type) {
		case *ast.IdentExpr:
			return n, true
		case *ast.MemberExpr:
			e = n.Base
		case *ast.IndexExpr:
			e = n.Base
		default:
			return nil, false
		}
	}
}

// defaultConcrete converts an untyped literal type into its default
// concrete representation (int -> int32, float -> float32) for 'let'
// bindings with an inferred type and no explicit annotation.
func defaultConcrete(in *types.Interner, t *types.Type) *types.Type {
	switch t.Kind {
	case types.KindUntypedInt:
		return in.Int(32, true)
	case types.KindUntypedFloat:
		return in.Float(32)
	default:
		return t
	}
}

// assignable reports whether a value of type from may be used where a
// value of type to is expected: identical types always qualify, an
// untyped int literal widens to any concrete int or float type, and an
// untyped float literal widens to any concrete float type.
func assignable(to, from *types.Type) bool {
	if to == from {
		return true
	}
	switch from.Kind {
	case types.KindUntypedInt:
		return to.Kind == types.KindInt || to.Kind == types.KindFloat
	case types.KindUntypedFloat:
		return to.Kind == types.KindFloat
	default:
		return false
	}
}
