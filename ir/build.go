package ir

import (
	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/diag"
	"github.com/dusklang/duskc/types"
)

// Builder lowers an analyzed *ast.File into a *Module. The file must
// already have passed sema.Analyze with no errors: the builder trusts
// every Expr's resolved Type/AsType/I64 annotations and does not
// re-check assignability.
type Builder struct {
	in  *types.Interner
	bag diag.Bag

	mod *Module

	funcs   map[*ast.FuncDecl]*Function
	globals map[*ast.VarDecl]*GlobalVar

	cur     *Function
	curDecl *ast.FuncDecl
	block   *Block
	locals  map[ast.Decl]*Value // declaration -> its OpVariable pointer
	ifaceOf map[*Function][]*GlobalVar

	entryIOs map[*ast.FuncDecl]*entryIO

	breakTarget    *Block
	continueTarget *Block
}

// Build lowers file into IR, selecting entryName as the single
// compiled entry point. Returns the accumulated diagnostics; callers
// should check bag.HasErrors().
func Build(file *ast.File, in *types.Interner, entryName string) (*Module, *diag.Bag) {
	b := &Builder{
		in:       in,
		mod:      &Module{},
		funcs:    make(map[*ast.FuncDecl]*Function),
		globals:  make(map[*ast.VarDecl]*GlobalVar),
		ifaceOf:  make(map[*Function][]*GlobalVar),
		entryIOs: make(map[*ast.FuncDecl]*entryIO),
	}

	for _, d := range file.Decls {
		if v, ok := d.(*ast.VarDecl); ok {
			b.declareGlobal(v)
		}
	}
	for _, d := range file.Decls {
		if f, ok := d.(*ast.FuncDecl); ok {
			b.declareFunc(f)
		}
	}

	var entry *ast.FuncDecl
	for _, d := range file.Decls {
		if f, ok := d.(*ast.FuncDecl); ok {
			b.lowerFunc(f)
			if f.Name == entryName {
				entry = f
			}
		}
	}

	if entry == nil {
		b.bag.Add(diag.New(diag.KindFatal, diag.Location{File: file.Name}, "no entry point named %q", entryName))
		return nil, &b.bag
	}
	if !entry.IsEntry {
		b.bag.Add(diag.New(diag.KindAttribute, diag.Location{File: file.Name, Line: entry.Loc.Line, Column: entry.Loc.Column},
			"%q is not marked with a stage attribute", entryName))
		return nil, &b.bag
	}

	fn := b.funcs[entry]
	b.mod.EntryPoints = append(b.mod.EntryPoints, &EntryPoint{
		Name:      entry.Name,
		Stage:     fn.Stage,
		Function:  fn,
		Interface: b.ifaceOf[fn],
	})

	return b.mod, &b.bag
}

func (b *Builder) errorf(kind diag.Kind, loc ast.Location, format string, args ...any) {
	b.bag.Add(diag.New(kind, diag.Location{Offset: loc.Offset, Length: loc.Length, Line: loc.Line, Column: loc.Column}, format, args...))
}

func attrArgInt(a ast.Attribute) (uint32, bool) {
	if len(a.Args) != 1 {
		return 0, false
	}
	lit, ok := a.Args[0].(*ast.IntLitExpr)
	if !ok {
		return 0, false
	}
	return uint32(lit.Value), true
}

func attrArgIdent(a ast.Attribute) (string, bool) {
	if len(a.Args) != 1 {
		return "", false
	}
	id, ok := a.Args[0].(*ast.IdentExpr)
	if !ok {
		return "", false
	}
	return id.Name, true
}

var builtinNames = map[string]BuiltinValue{
	"position":        BuiltinPosition,
	"frag_depth":      BuiltinFragDepth,
	"vertex_index":    BuiltinVertexIndex,
	"instance_index":  BuiltinInstanceIndex,
	"front_facing":    BuiltinFrontFacing,
}

// ioDecoration is the decoded form of a [[location(n)]] / [[builtin(x)]]
// / [[set(n), binding(n)]] attribute block.
type ioDecoration struct {
	location *uint32
	builtin  BuiltinValue
	set      *uint32
	binding  *uint32
}

func decodeAttrs(attrs []ast.Attribute) ioDecoration {
	var d ioDecoration
	for _, a := range attrs {
		switch a.Kind {
		case ast.AttrLocation:
			if v, ok := attrArgInt(a); ok {
				d.location = &v
			}
		case ast.AttrSet:
			if v, ok := attrArgInt(a); ok {
				d.set = &v
			}
		case ast.AttrBinding:
			if v, ok := attrArgInt(a); ok {
				d.binding = &v
			}
		case ast.AttrBuiltin:
			if name, ok := attrArgIdent(a); ok {
				d.builtin = builtinNames[name]
			}
		}
	}
	return d
}

func (b *Builder) declareGlobal(v *ast.VarDecl) {
	if v.Type == nil {
		return // a prior sema error already reported this
	}
	dec := decodeAttrs(v.Attrs)
	g := &GlobalVar{
		Name:    v.Name,
		Type:    v.Type,
		Storage: v.Storage,
	}
	if dec.set != nil || dec.binding != nil {
		set, binding := uint32(0), uint32(0)
		if dec.set != nil {
			set = *dec.set
		}
		if dec.binding != nil {
			binding = *dec.binding
		}
		g.Binding = &ResourceBinding{Set: set, Binding: binding}
	}
	b.mod.Globals = append(b.mod.Globals, g)
	b.globals[v] = g
}

func stageOf(s ast.StageKind) StageKind {
	switch s {
	case ast.StageVertex:
		return StageVertex
	case ast.StageFragment:
		return StageFragment
	case ast.StageCompute:
		return StageCompute
	default:
		return StageNone
	}
}

func (b *Builder) declareFunc(f *ast.FuncDecl) {
	fn := &Function{Name: f.Name, IsEntry: f.IsEntry, Stage: stageOf(f.Stage)}
	if !f.IsEntry {
		for _, p := range f.Params {
			fn.Params = append(fn.Params, &Param{Name: p.Name, Type: p.ResolvedType})
		}
		fn.ReturnType = f.Type.Return
	}
	b.mod.Functions = append(b.mod.Functions, fn)
	b.funcs[f] = fn
}
