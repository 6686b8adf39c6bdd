package ir

import (
	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/types"
)

// lowerExpr lowers e with no expected type, defaulting an untyped
// literal to its default concrete representation (int32/float32).
func (b *Builder) lowerExpr(e ast.Expr) *Value {
	return b.lowerExprTo(e, nil)
}

// targetType resolves the concrete type e should materialize as: the
// caller-supplied target when given, else e's own annotated type with
// untyped int/float literals defaulted.
func (b *Builder) targetType(e ast.Expr, target *types.Type) *types.Type {
	if target != nil {
		return target
	}
	t := e.Annotations().Type
	switch t.Kind {
	case types.KindUntypedInt:
		return b.in.Int(32, true)
	case types.KindUntypedFloat:
		return b.in.Float(32)
	default:
		return t
	}
}

func (b *Builder) lowerExprTo(e ast.Expr, target *types.Type) *Value {
	want := b.targetType(e, target)

	switch n := e.(type) {
	case *ast.IntLitExpr:
		if want.Kind == types.KindFloat {
			return b.emit(&Value{Op: OpConstFloat, Type: want, ImmFloat: float64(int64(n.Value))})
		}
		return b.emit(&Value{Op: OpConstInt, Type: want, ImmInt: int64(n.Value)})

	case *ast.FloatLitExpr:
		return b.emit(&Value{Op: OpConstFloat, Type: want, ImmFloat: n.Value})

	case *ast.BoolLitExpr:
		return b.emit(&Value{Op: OpConstBool, Type: want, ImmBool: n.Value})

	case *ast.IdentExpr:
		return b.lowerIdent(n, want)

	case *ast.UnaryExpr:
		return b.lowerUnary(n, want)

	case *ast.BinaryExpr:
		return b.lowerBinary(n, want)

	case *ast.MemberExpr:
		return b.lowerMember(n, want)

	case *ast.IndexExpr:
		return b.lowerIndexRead(n, want)

	case *ast.CallExpr:
		return b.lowerCall(n, want)

	case *ast.BuiltinCallExpr:
		return b.lowerBuiltinCall(n, want)

	case *ast.StructLitExpr:
		return b.lowerStructLit(n, want)

	default:
		return b.emit(&Value{Op: OpUndef, Type: want})
	}
}

// convertTo inserts an OpConvert when v's type differs from want,
// widening an untyped literal's materialized width or casting between
// numeric scalar kinds. Identical types are returned unchanged.
func (b *Builder) convertTo(v *Value, want *types.Type) *Value {
	if want == nil || v.Type == want {
		return v
	}
	return b.emit(&Value{Op: OpConvert, Type: want, Args: []*Value{v}})
}

func (b *Builder) lowerIdent(n *ast.IdentExpr, want *types.Type) *Value {
	switch d := n.Decl.(type) {
	case *ast.VarDecl:
		if g, ok := b.globals[d]; ok {
			b.useIface(g)
			ptr := b.globalAddr(g)
			loaded := b.emit(&Value{Op: OpLoad, Type: g.Type, Args: []*Value{ptr}})
			return b.convertTo(loaded, want)
		}
		ptr := b.locals[d]
		loaded := b.emit(&Value{Op: OpLoad, Type: d.Type, Args: []*Value{ptr}})
		return b.convertTo(loaded, want)
	case *ast.Param:
		ptr := b.locals[d]
		loaded := b.emit(&Value{Op: OpLoad, Type: d.ResolvedType, Args: []*Value{ptr}})
		return b.convertTo(loaded, want)
	default:
		return b.emit(&Value{Op: OpUndef, Type: want})
	}
}

// lowerLValue lowers e's address: the pointer an assignment should
// store through. e must be an IdentExpr, MemberExpr, or IndexExpr, as
// enforced by sema.
func (b *Builder) lowerLValue(e ast.Expr) *Value {
	switch n := e.(type) {
	case *ast.IdentExpr:
		switch d := n.Decl.(type) {
		case *ast.VarDecl:
			if g, ok := b.globals[d]; ok {
				b.useIface(g)
				return b.globalAddr(g)
			}
			return b.locals[d]
		case *ast.Param:
			return b.locals[d]
		}
	case *ast.MemberExpr:
		baseType := n.Base.Annotations().Type
		if baseType.Kind == types.KindStruct {
			basePtr := b.lowerLValue(n.Base)
			idx := uint32(baseType.FieldIndex[n.Field])
			fieldType := baseType.Fields[idx].Type
			return b.emit(&Value{
				Op:      OpAccessChain,
				Type:    b.in.Pointer(fieldType, basePtr.Type.Storage),
				Args:    []*Value{basePtr},
				Indices: []uint32{idx},
			})
		}
		// single-component swizzle assignment, e.g. `v.x = 1.0`
		basePtr := b.lowerLValue(n.Base)
		idx := uint32(swizzleIndex(n.Field[0]))
		return b.emit(&Value{
			Op:      OpAccessChain,
			Type:    b.in.Pointer(baseType.Elem, basePtr.Type.Storage),
			Args:    []*Value{basePtr},
			Indices: []uint32{idx},
		})
	case *ast.IndexExpr:
		basePtr := b.lowerLValue(n.Base)
		index := b.lowerExpr(n.Index)
		elemType := n.Annotations().Type
		return b.emit(&Value{
			Op:   OpAccessChain,
			Type: b.in.Pointer(elemType, basePtr.Type.Storage),
			Args: []*Value{basePtr, index},
		})
	}
	return nil
}

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

func (b *Builder) lowerUnary(n *ast.UnaryExpr, want *types.Type) *Value {
	operand := b.lowerExprTo(n.Operand, want)
	op := UnaryNeg
	switch n.Op {
	case ast.UnaryNot:
		op = UnaryNot
	case ast.UnaryBitNot:
		op = UnaryBitNot
	}
	return b.emit(&Value{Op: OpUnary, Type: want, UnOp: op, Args: []*Value{operand}})
}

var binOpTable = map[ast.BinaryOp]BinaryOp{
	ast.BinAdd: BinAdd, ast.BinSub: BinSub, ast.BinMul: BinMul, ast.BinDiv: BinDiv, ast.BinMod: BinMod,
	ast.BinEq: BinEq, ast.BinNe: BinNe, ast.BinLt: BinLt, ast.BinLe: BinLe, ast.BinGt: BinGt, ast.BinGe: BinGe,
	ast.BinBitAnd: BinBitAnd, ast.BinBitOr: BinBitOr, ast.BinBitXor: BinBitXor, ast.BinShl: BinShl, ast.BinShr: BinShr,
}

func (b *Builder) lowerBinary(n *ast.BinaryExpr, want *types.Type) *Value {
	if n.Op == ast.BinAnd || n.Op == ast.BinOr {
		return b.lowerShortCircuit(n)
	}

	resultIsBool := n.Op == ast.BinEq || n.Op == ast.BinNe || n.Op == ast.BinLt ||
		n.Op == ast.BinLe || n.Op == ast.BinGt || n.Op == ast.BinGe

	var operandWant *types.Type
	if resultIsBool {
		operandWant = b.targetType(n.Left, nil)
		if n.Right.Annotations().Type.Kind != types.KindUntypedInt && n.Right.Annotations().Type.Kind != types.KindUntypedFloat {
			operandWant = b.targetType(n.Right, nil)
		}
	} else {
		operandWant = want
	}

	left := b.lowerExprTo(n.Left, operandWant)
	right := b.lowerExprTo(n.Right, operandWant)

	resultType := want
	if resultIsBool {
		resultType = b.in.Bool()
	}
	return b.emit(&Value{Op: OpBinary, Type: resultType, BinOp: binOpTable[n.Op], Args: []*Value{left, right}})
}

// lowerShortCircuit lowers `a && b` / `a || b` with a Phi merging the
// short-circuited value with the right-hand side's value, evaluated
// only when control reaches it.
func (b *Builder) lowerShortCircuit(n *ast.BinaryExpr) *Value {
	left := b.lowerExprTo(n.Left, b.in.Bool())
	shortBlk := b.block

	rhsBlk := b.newBlock()
	mergeBlk := b.newBlock()

	if n.Op == ast.BinAnd {
		shortBlk.Term = &BranchCond{Cond: left, True: rhsBlk, False: mergeBlk, Merge: mergeBlk}
	} else {
		shortBlk.Term = &BranchCond{Cond: left, True: mergeBlk, False: rhsBlk, Merge: mergeBlk}
	}

	b.block = rhsBlk
	right := b.lowerExprTo(n.Right, b.in.Bool())
	rhsBlk.Term = &Branch{Target: mergeBlk}

	b.block = mergeBlk
	return b.emit(&Value{
		Op:    OpPhi,
		Type:  b.in.Bool(),
		Args:  []*Value{left, right},
		Preds: []*Block{shortBlk, rhsBlk},
	})
}

func (b *Builder) lowerMember(n *ast.MemberExpr, want *types.Type) *Value {
	baseType := n.Base.Annotations().Type
	if baseType.Kind == types.KindStruct {
		base := b.lowerExpr(n.Base)
		idx := uint32(baseType.FieldIndex[n.Field])
		extracted := b.emit(&Value{Op: OpCompositeExtract, Type: baseType.Fields[idx].Type, Args: []*Value{base}, Indices: []uint32{idx}})
		return b.convertTo(extracted, want)
	}

	base := b.lowerExpr(n.Base)
	if len(n.Field) == 1 {
		idx := uint32(swizzleIndex(n.Field[0]))
		extracted := b.emit(&Value{Op: OpCompositeExtract, Type: baseType.Elem, Args: []*Value{base}, Indices: []uint32{idx}})
		return b.convertTo(extracted, want)
	}

	swizzle := make([]uint32, len(n.Field))
	for i, c := range []byte(n.Field) {
		swizzle[i] = uint32(swizzleIndex(c))
	}
	resultType := b.in.Vector(baseType.Elem, uint8(len(n.Field)))
	shuffled := b.emit(&Value{Op: OpVectorShuffle, Type: resultType, Args: []*Value{base, base}, Swizzle: swizzle})
	return b.convertTo(shuffled, want)
}

func (b *Builder) lowerIndexRead(n *ast.IndexExpr, want *types.Type) *Value {
	base := n.Base.Annotations().Type

	if base.Kind == types.KindVector {
		if lit, ok := constIndex(n.Index); ok {
			baseVal := b.lowerExpr(n.Base)
			extracted := b.emit(&Value{Op: OpCompositeExtract, Type: base.Elem, Args: []*Value{baseVal}, Indices: []uint32{lit}})
			return b.convertTo(extracted, want)
		}
	}

	ptr := b.lowerLValue(n)
	loaded := b.emit(&Value{Op: OpLoad, Type: n.Annotations().Type, Args: []*Value{ptr}})
	return b.convertTo(loaded, want)
}

func constIndex(e ast.Expr) (uint32, bool) {
	if lit, ok := e.(*ast.IntLitExpr); ok {
		return uint32(lit.Value), true
	}
	return 0, false
}

func (b *Builder) lowerCall(n *ast.CallExpr, want *types.Type) *Value {
	if asType := n.Callee.Annotations().AsType; asType != nil {
		return b.lowerConstruct(asType, n, want)
	}

	ident := n.Callee.(*ast.IdentExpr)
	callee := b.funcs[ident.Decl.(*ast.FuncDecl)]
	args := make([]*Value, len(n.Args))
	for i, a := range n.Args {
		var paramType *types.Type
		if i < len(callee.Params) {
			paramType = callee.Params[i].Type
		}
		args[i] = b.lowerExprTo(a, paramType)
	}
	result := b.emit(&Value{Op: OpCall, Type: callee.ReturnType, Callee: callee, Args: args})
	return b.convertTo(result, want)
}

func (b *Builder) lowerConstruct(target *types.Type, n *ast.CallExpr, want *types.Type) *Value {
	switch target.Kind {
	case types.KindInt, types.KindFloat, types.KindBool:
		v := b.lowerExprTo(n.Args[0], target)
		return b.convertTo(v, want)
	case types.KindVector:
		args := make([]*Value, len(n.Args))
		for i, a := range n.Args {
			args[i] = b.lowerExprTo(a, nil)
		}
		v := b.emit(&Value{Op: OpCompositeConstruct, Type: target, Args: args})
		return b.convertTo(v, want)
	case types.KindStruct:
		args := make([]*Value, len(n.Args))
		for i, a := range n.Args {
			args[i] = b.lowerExprTo(a, target.Fields[i].Type)
		}
		v := b.emit(&Value{Op: OpCompositeConstruct, Type: target, Args: args})
		return b.convertTo(v, want)
	default:
		return b.emit(&Value{Op: OpUndef, Type: target})
	}
}

func (b *Builder) lowerStructLit(n *ast.StructLitExpr, want *types.Type) *Value {
	target := n.Annotations().Type
	args := make([]*Value, len(target.Fields))
	for _, fv := range n.Fields {
		idx, ok := target.FieldIndex[fv.Name]
		if !ok {
			continue
		}
		args[idx] = b.lowerExprTo(fv.Value, target.Fields[idx].Type)
	}
	v := b.emit(&Value{Op: OpCompositeConstruct, Type: target, Args: args})
	return b.convertTo(v, want)
}

// extInstByName maps a builtin call's name and operand signedness to
// the GLSL.std.450 extended instruction it lowers to.
func extInstByName(name string, signed bool) (ExtInstOp, bool) {
	switch name {
	case "sin":
		return ExtSin, true
	case "cos":
		return ExtCos, true
	case "tan":
		return ExtTan, true
	case "sqrt":
		return ExtSqrt, true
	case "rsqrt":
		return ExtInverseSqrt, true
	case "abs":
		if signed {
			return ExtSAbs, true
		}
		return ExtFAbs, true
	case "floor":
		return ExtFloor, true
	case "ceil":
		return ExtCeil, true
	case "fract":
		return ExtFract, true
	case "sign":
		if signed {
			return ExtSSign, true
		}
		return ExtFSign, true
	case "normalize":
		return ExtNormalize, true
	case "length":
		return ExtLength, true
	case "exp":
		return ExtExp, true
	case "exp2":
		return ExtExp2, true
	case "log":
		return ExtLog, true
	case "log2":
		return ExtLog2, true
	case "cross":
		return ExtCross, true
	case "pow":
		return ExtPow, true
	case "min":
		if signed {
			return ExtSMin, true
		}
		return ExtFMin, true
	case "max":
		if signed {
			return ExtSMax, true
		}
		return ExtFMax, true
	case "step":
		return ExtStep, true
	case "reflect":
		return ExtReflect, true
	case "mix":
		return ExtFMix, true
	case "clamp":
		return ExtFClamp, true
	case "smoothstep":
		return ExtSmoothStep, true
	case "refract":
		return ExtRefract, true
	default:
		return 0, false
	}
}

func (b *Builder) lowerBuiltinCall(n *ast.BuiltinCallExpr, want *types.Type) *Value {
	if n.Name == "image_sample" {
		texture := b.lowerExprTo(n.Args[0], nil)
		sampler := b.lowerExprTo(n.Args[1], nil)
		coord := b.lowerExprTo(n.Args[2], nil)
		resultType := n.Annotations().Type
		v := b.emit(&Value{Op: OpImageSample, Type: resultType, Args: []*Value{texture, sampler, coord}})
		return b.convertTo(v, want)
	}

	argType := n.Args[0].Annotations().Type
	signed := types.ScalarOf(argType).Kind == types.KindInt && types.ScalarOf(argType).Signed
	ext, ok := extInstByName(n.Name, signed)
	if !ok {
		return b.emit(&Value{Op: OpUndef, Type: want})
	}

	args := make([]*Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = b.lowerExprTo(a, nil)
	}
	v := b.emit(&Value{Op: OpExtInst, Type: want, Ext: ext, Args: args})
	return b.convertTo(v, want)
}
