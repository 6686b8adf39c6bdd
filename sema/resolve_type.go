package sema

import (
	"strings"

	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/diag"
	"github.com/dusklang/duskc/types"
)

type scalarInfo struct {
	bits   uint8
	float  bool
	signed bool
}

var scalarBases = map[string]scalarInfo{
	"half":   {16, true, false},
	"float":  {32, true, false},
	"double": {64, true, false},
	"byte":   {8, false, true},
	"ubyte":  {8, false, false},
	"short":  {16, false, true},
	"ushort": {16, false, false},
	"int":    {32, false, true},
	"uint":   {32, false, false},
	"long":   {64, false, true},
	"ulong":  {64, false, false},
}

// vectorArities mirrors the lexer's typed-vector keyword family;
// longer, more specific suffixes are listed before shorter ones that
// would otherwise match a prefix of them (e.g. "2x2" before "2"). A
// bare base name with no suffix denotes the scalar itself.
var vectorArities = []string{"2x2", "3x3", "4x4", "2", "3", "4"}

func decodeScalarName(name string) (base string, arity string, ok bool) {
	if _, known := scalarBases[name]; known {
		return name, "scalar", true
	}
	for _, a := range vectorArities {
		if len(name) > len(a) && strings.HasSuffix(name, a) {
			b := name[:len(name)-len(a)]
			if _, known := scalarBases[b]; known {
				return b, a, true
			}
		}
	}
	return "", "", false
}

// resolveScalarType builds the interned scalar/vector/matrix type named
// by a KwTypeVector token's text, e.g. "float4" or "int4x4".
func (a *Analyzer) resolveScalarType(name string, loc ast.Location) (*types.Type, error) {
	base, arity, ok := decodeScalarName(name)
	if !ok {
		return nil, a.errorf(diag.KindType, loc, "unknown type %q", name)
	}
	info := scalarBases[base]
	var scalar *types.Type
	if info.float {
		scalar = a.in.Float(info.bits)
	} else {
		scalar = a.in.Int(info.bits, info.signed)
	}

	switch arity {
	case "scalar":
		return scalar, nil
	case "2", "3", "4":
		n := uint8(arity[0] - '0')
		return a.in.Vector(scalar, n), nil
	case "2x2", "3x3", "4x4":
		n := uint8(arity[0] - '0')
		col := a.in.Vector(scalar, n)
		return a.in.Matrix(col, n), nil
	default:
		return nil, a.errorf(diag.KindType, loc, "unknown type %q", name)
	}
}

// resolveTypeExpr resolves a type expression to its interned *types.Type.
// layout is the std140/std430 layout in effect for any struct or array
// type nested inside it; it is inherited from the nearest enclosing
// struct(layout) and defaults to std430 at top level.
func (a *Analyzer) resolveTypeExpr(e ast.Expr, scope *ast.Scope, layout types.Layout) (*types.Type, error) {
	switch n := e.(type) {
	case *ast.PrimTypeExpr:
		t, err := a.resolveScalarType(n.Name, n.Loc)
		if err != nil {
			return nil, err
		}
		n.Type = a.in.MetaType()
		n.AsType = t
		return t, nil

	case *ast.IdentExpr:
		if n.Name == "bool" {
			t := a.in.Bool()
			n.Type, n.AsType = a.in.MetaType(), t
			return t, nil
		}
		if n.Name == "void" {
			t := a.in.Void()
			n.Type, n.AsType = a.in.MetaType(), t
			return t, nil
		}
		if n.Name == "sampler" {
			t := a.in.Sampler()
			n.Type, n.AsType = a.in.MetaType(), t
			return t, nil
		}
		if n.Name == "texture2d" {
			t := a.in.Image(a.in.Float(32), types.Dim2D, false, false, false, true)
			n.Type, n.AsType = a.in.MetaType(), t
			return t, nil
		}
		d, ok := scope.Resolve(n.Name)
		if !ok {
			return nil, a.errorf(diag.KindName, n.Loc, "undefined type %q", n.Name)
		}
		n.Decl = d
		switch td := d.(type) {
		case *ast.TypeDefDecl:
			n.Type, n.AsType = a.in.MetaType(), td.Type
			return td.Type, nil
		default:
			return nil, a.errorf(diag.KindType, n.Loc, "%q is not a type", n.Name)
		}

	case *ast.ArrayTypeExpr:
		elem, err := a.resolveTypeExpr(n.Elem, scope, layout)
		if err != nil {
			return nil, err
		}
		if n.Runtime {
			t := a.in.RuntimeArray(elem, layout)
			n.Type, n.AsType = a.in.MetaType(), t
			return t, nil
		}
		size, err := a.constFoldInt(n.Size, scope)
		if err != nil {
			return nil, err
		}
		if size <= 0 {
			return nil, a.errorf(diag.KindType, n.Loc, "array size must be positive, got %d", size)
		}
		t := a.in.Array(elem, uint32(size), layout)
		n.Type, n.AsType = a.in.MetaType(), t
		return t, nil

	case *ast.StructTypeExpr:
		fieldLayout := layout
		isBlock := n.LayoutName != ""
		switch n.LayoutName {
		case "std140":
			fieldLayout = types.LayoutStd140
		case "std430":
			fieldLayout = types.LayoutStd430
		case "":
			// inherit
		default:
			return nil, a.errorf(diag.KindAttribute, n.Loc, "unknown struct layout %q", n.LayoutName)
		}

		fields := make([]types.StructField, len(n.Fields))
		for i, f := range n.Fields {
			ft, err := a.resolveTypeExpr(f.Type, scope, fieldLayout)
			if err != nil {
				return nil, err
			}
			readOnly := false
			for _, attr := range f.Attrs {
				if attr.Kind == ast.AttrReadOnly {
					readOnly = true
				}
			}
			fields[i] = types.StructField{Name: f.Name, Type: ft, ReadOnly: readOnly}
		}
		t := a.in.Struct(n.Name, fields, fieldLayout, isBlock)
		n.Type, n.AsType = a.in.MetaType(), t
		return t, nil

	default:
		return nil, a.errorf(diag.KindType, e.Pos(), "expression cannot be used as a type")
	}
}
