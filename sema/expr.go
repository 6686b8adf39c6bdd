package sema

import (
	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/diag"
	"github.com/dusklang/duskc/types"
)

// analyzeExpr infers and records e's type, returning it (or nil if a
// diagnostic was already reported and no sensible type exists).
func (a *Analyzer) analyzeExpr(e ast.Expr, scope *ast.Scope) *types.Type {
	var t *types.Type
	switch n := e.(type) {
	case *ast.IntLitExpr:
		t = a.in.UntypedInt()
		v := int64(n.Value)
		n.I64 = &v
	case *ast.FloatLitExpr:
		t = a.in.UntypedFloat()
	case *ast.BoolLitExpr:
		t = a.in.Bool()
	case *ast.StringLitExpr:
		t = a.in.String()

	case *ast.IdentExpr:
		t = a.analyzeIdent(n, scope)

	case *ast.PrimTypeExpr, *ast.StructTypeExpr, *ast.ArrayTypeExpr:
		var err error
		t, err = a.resolveTypeExpr(e, scope, types.LayoutStd430)
		if err != nil {
			t = nil
		}

	case *ast.UnaryExpr:
		t = a.analyzeUnary(n, scope)

	case *ast.BinaryExpr:
		t = a.analyzeBinary(n, scope)

	case *ast.CallExpr:
		t = a.analyzeCall(n, scope)

	case *ast.BuiltinCallExpr:
		t = a.analyzeBuiltinCall(n, scope)

	case *ast.MemberExpr:
		t = a.analyzeMember(n, scope)

	case *ast.IndexExpr:
		t = a.analyzeIndex(n, scope)

	case *ast.StructLitExpr:
		t = a.analyzeStructLit(n, scope)

	default:
		a.errorf(diag.KindIR, e.Pos(), "internal: unhandled expression %T", e)
		return nil
	}
	e.Annotations().Type = t
	return t
}

func (a *Analyzer) analyzeIdent(n *ast.IdentExpr, scope *ast.Scope) *types.Type {
	d, ok := scope.Resolve(n.Name)
	if !ok {
		a.errorf(diag.KindName, n.Loc, "undefined name %q", n.Name)
		return nil
	}
	n.Decl = d
	switch dd := d.(type) {
	case *ast.VarDecl:
		return dd.Type
	case *ast.Param:
		return dd.ResolvedType
	case *ast.FuncDecl:
		return dd.Type
	case *ast.TypeDefDecl:
		n.AsType = dd.Type
		return a.in.MetaType()
	default:
		a.errorf(diag.KindName, n.Loc, "%q cannot be used as a value", n.Name)
		return nil
	}
}

func (a *Analyzer) analyzeUnary(n *ast.UnaryExpr, scope *ast.Scope) *types.Type {
	t := a.analyzeExpr(n.Operand, scope)
	if t == nil {
		return nil
	}
	switch n.Op {
	case ast.UnaryNot:
		if t.Kind != types.KindBool {
			a.errorf(diag.KindType, n.Loc, "'!' requires bool, got %s", t.PrettyString())
			return nil
		}
		return t
	case ast.UnaryNeg:
		scalar := types.ScalarOf(t)
		if !scalar.IsNumericScalar() {
			a.errorf(diag.KindType, n.Loc, "unary '-' requires a numeric type, got %s", t.PrettyString())
			return nil
		}
		return t
	case ast.UnaryBitNot:
		scalar := types.ScalarOf(t)
		if !scalar.IsIntegral() && scalar.Kind != types.KindUntypedInt {
			a.errorf(diag.KindType, n.Loc, "'~' requires an integer type, got %s", t.PrettyString())
			return nil
		}
		return t
	default:
		return nil
	}
}

func (a *Analyzer) analyzeBinary(n *ast.BinaryExpr, scope *ast.Scope) *types.Type {
	lt := a.analyzeExpr(n.Left, scope)
	rt := a.analyzeExpr(n.Right, scope)
	if lt == nil || rt == nil {
		return nil
	}

	switch n.Op {
	case ast.BinAnd, ast.BinOr:
		if lt.Kind != types.KindBool || rt.Kind != types.KindBool {
			a.errorf(diag.KindType, n.Loc, "'&&'/'||' require bool operands")
			return nil
		}
		return a.in.Bool()

	case ast.BinEq, ast.BinNe:
		if !sameNumericFamily(lt, rt) && lt.Kind != rt.Kind {
			a.errorf(diag.KindType, n.Loc, "cannot compare %s with %s", lt.PrettyString(), rt.PrettyString())
			return nil
		}
		return a.in.Bool()

	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		if !types.ScalarOf(lt).IsNumericScalar() && lt.Kind != types.KindUntypedInt && lt.Kind != types.KindUntypedFloat {
			a.errorf(diag.KindType, n.Loc, "relational operators require numeric operands, got %s", lt.PrettyString())
			return nil
		}
		return a.in.Bool()

	case ast.BinBitAnd, ast.BinBitOr, ast.BinBitXor, ast.BinShl, ast.BinShr:
		if !types.ScalarOf(lt).IsIntegral() && lt.Kind != types.KindUntypedInt {
			a.errorf(diag.KindType, n.Loc, "bitwise operators require integer operands, got %s", lt.PrettyString())
			return nil
		}
		return pickResultType(lt, rt)

	default: // arithmetic: + - * / %
		if !sameNumericFamily(lt, rt) {
			a.errorf(diag.KindType, n.Loc, "mismatched operand types %s and %s", lt.PrettyString(), rt.PrettyString())
			return nil
		}
		return pickResultType(lt, rt)
	}
}

func sameNumericFamily(a, b *types.Type) bool {
	if a == b {
		return true
	}
	af, bf := familyOf(a), familyOf(b)
	return af != 0 && af == bf
}

// familyOf buckets a type by scalar family (1 for typed or untyped
// ints, 2 for floats, 0 for anything else), adding 10 for vectors and
// matrices, so literal/concrete mixes (e.g. <int> + int32) are accepted while
// int32 + float32 is rejected.
func familyOf(t *types.Type) int {
	switch t.Kind {
	case types.KindUntypedInt, types.KindInt:
		return 1
	case types.KindUntypedFloat, types.KindFloat:
		return 2
	case types.KindVector, types.KindMatrix:
		return familyOf(types.ScalarOf(t)) + 10
	default:
		return 0
	}
}

// pickResultType returns whichever of a/b is concrete, preferring a
// when both are (matrix/vector shapes take priority over a bare
// scalar literal operand, e.g. `vec * 2`).
func pickResultType(a, b *types.Type) *types.Type {
	if a.Kind != types.KindUntypedInt && a.Kind != types.KindUntypedFloat {
		return a
	}
	return b
}

func (a *Analyzer) analyzeMember(n *ast.MemberExpr, scope *ast.Scope) *types.Type {
	bt := a.analyzeExpr(n.Base, scope)
	if bt == nil {
		return nil
	}
	switch bt.Kind {
	case types.KindStruct:
		idx, ok := bt.FieldIndex[n.Field]
		if !ok {
			a.errorf(diag.KindType, n.Loc, "%s has no field %q", bt.PrettyString(), n.Field)
			return nil
		}
		return bt.Fields[idx].Type
	case types.KindVector:
		return a.analyzeSwizzle(bt, n)
	default:
		a.errorf(diag.KindType, n.Loc, "%s has no field %q", bt.PrettyString(), n.Field)
		return nil
	}
}

func (a *Analyzer) analyzeSwizzle(vec *types.Type, n *ast.MemberExpr) *types.Type {
	if len(n.Field) == 0 || len(n.Field) > 4 {
		a.errorf(diag.KindType, n.Loc, "invalid swizzle %q", n.Field)
		return nil
	}
	for _, c := range n.Field {
		if swizzleIndex(byte(c)) < 0 {
			a.errorf(diag.KindType, n.Loc, "invalid swizzle component %q", string(c))
			return nil
		}
		if int(swizzleIndex(byte(c))) >= int(vec.Len) {
			a.errorf(diag.KindType, n.Loc, "swizzle component %q out of range for %s", string(c), vec.PrettyString())
			return nil
		}
	}
	if len(n.Field) == 1 {
		return vec.Elem
	}
	return a.in.Vector(vec.Elem, uint8(len(n.Field)))
}

// swizzleIndex maps xyzw/rgba component letters to a 0-3 index, or -1
// if c is not a recognized swizzle letter.
func swizzleIndex(c byte) int {
	switch c {
	case 'x', 'r':
		return 0
	case 'y', 'g':
		return 1
	case 'z', 'b':
		return 2
	case 'w', 'a':
		return 3
	default:
		return -1
	}
}

func (a *Analyzer) analyzeIndex(n *ast.IndexExpr, scope *ast.Scope) *types.Type {
	bt := a.analyzeExpr(n.Base, scope)
	it := a.analyzeExpr(n.Index, scope)
	if bt == nil {
		return nil
	}
	if it != nil && !types.ScalarOf(it).IsIntegral() && it.Kind != types.KindUntypedInt {
		a.errorf(diag.KindType, n.Index.Pos(), "array/vector index must be an integer, got %s", it.PrettyString())
	}
	switch bt.Kind {
	case types.KindArray, types.KindRuntimeArray:
		return bt.Elem
	case types.KindVector:
		return bt.Elem
	case types.KindMatrix:
		return bt.Elem
	default:
		a.errorf(diag.KindType, n.Loc, "%s cannot be indexed", bt.PrettyString())
		return nil
	}
}

func (a *Analyzer) analyzeStructLit(n *ast.StructLitExpr, scope *ast.Scope) *types.Type {
	t, err := a.resolveTypeExpr(n.TypeExpr, scope, types.LayoutStd430)
	if err != nil {
		return nil
	}
	if t.Kind != types.KindStruct && t.Kind != types.KindVector {
		a.errorf(diag.KindType, n.Loc, "%s is not a struct or vector type", t.PrettyString())
		return nil
	}
	for _, fv := range n.Fields {
		vt := a.analyzeExpr(fv.Value, scope)
		if t.Kind == types.KindStruct {
			idx, ok := t.FieldIndex[fv.Name]
			if !ok {
				a.errorf(diag.KindType, fv.Loc, "%s has no field %q", t.PrettyString(), fv.Name)
				continue
			}
			if vt != nil && !assignable(t.Fields[idx].Type, vt) {
				a.errorf(diag.KindType, fv.Value.Pos(), "cannot assign %s to field %q of type %s",
					vt.PrettyString(), fv.Name, t.Fields[idx].Type.PrettyString())
			}
		}
	}
	return t
}
