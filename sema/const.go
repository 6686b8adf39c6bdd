package sema

import (
	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/diag"
)

// constFoldInt evaluates a compile-time-constant integer expression
// (array sizes, enum-like literals). Integer arithmetic wraps with
// two's-complement semantics, matching ordinary int64 overflow rather
// than reporting an error, since shader integer types are themselves
// wrapping.
func (a *Analyzer) constFoldInt(e ast.Expr, scope *ast.Scope) (int64, error) {
	switch n := e.(type) {
	case *ast.IntLitExpr:
		return int64(n.Value), nil

	case *ast.IdentExpr:
		d, ok := scope.Resolve(n.Name)
		if !ok {
			return 0, a.errorf(diag.KindConstEval, n.Loc, "undefined name %q in constant expression", n.Name)
		}
		vd, ok := d.(*ast.VarDecl)
		if !ok || vd.Init == nil {
			return 0, a.errorf(diag.KindConstEval, n.Loc, "%q is not a constant", n.Name)
		}
		return a.constFoldInt(vd.Init, scope)

	case *ast.UnaryExpr:
		v, err := a.constFoldInt(n.Operand, scope)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case ast.UnaryNeg:
			return -v, nil
		case ast.UnaryBitNot:
			return ^v, nil
		default:
			return 0, a.errorf(diag.KindConstEval, n.Loc, "operator not valid in a constant integer expression")
		}

	case *ast.BinaryExpr:
		l, err := a.constFoldInt(n.Left, scope)
		if err != nil {
			return 0, err
		}
		r, err := a.constFoldInt(n.Right, scope)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case ast.BinAdd:
			return int64(uint64(l) + uint64(r)), nil
		case ast.BinSub:
			return int64(uint64(l) - uint64(r)), nil
		case ast.BinMul:
			return int64(uint64(l) * uint64(r)), nil
		case ast.BinDiv:
			if r == 0 {
				return 0, a.errorf(diag.KindConstEval, n.Loc, "division by zero in constant expression")
			}
			return l / r, nil
		case ast.BinMod:
			if r == 0 {
				return 0, a.errorf(diag.KindConstEval, n.Loc, "division by zero in constant expression")
			}
			return l % r, nil
		case ast.BinBitAnd:
			return l & r, nil
		case ast.BinBitOr:
			return l | r, nil
		case ast.BinBitXor:
			return l ^ r, nil
		case ast.BinShl:
			return int64(uint64(l) << uint(r)), nil
		case ast.BinShr:
			return l >> uint(r), nil
		default:
			return 0, a.errorf(diag.KindConstEval, n.Loc, "operator not valid in a constant integer expression")
		}

	default:
		return 0, a.errorf(diag.KindConstEval, e.Pos(), "not a constant integer expression")
	}
}
