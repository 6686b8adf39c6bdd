package sema

import (
	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/diag"
	"github.com/dusklang/duskc/types"
)

// analyzeCall resolves a CallExpr either as a function call (callee
// names a function) or a type-conversion constructor (callee denotes
// a type, e.g. `float4(pos, 1.0)`).
func (a *Analyzer) analyzeCall(n *ast.CallExpr, scope *ast.Scope) *types.Type {
	calleeType := a.analyzeExpr(n.Callee, scope)
	if calleeType == nil {
		return nil
	}

	if asType := n.Callee.Annotations().AsType; asType != nil {
		return a.analyzeConstruct(asType, n, scope)
	}

	if calleeType.Kind != types.KindFunction {
		a.errorf(diag.KindType, n.Loc, "%s is not callable", calleeType.PrettyString())
		return nil
	}
	if len(n.Args) != len(calleeType.Params) {
		a.errorf(diag.KindType, n.Loc, "expected %d argument(s), got %d", len(calleeType.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		at := a.analyzeExpr(arg, scope)
		if i < len(calleeType.Params) && at != nil && !assignable(calleeType.Params[i], at) {
			a.errorf(diag.KindType, arg.Pos(), "argument %d: cannot pass %s as %s", i+1, at.PrettyString(), calleeType.Params[i].PrettyString())
		}
	}
	return calleeType.Return
}

func (a *Analyzer) analyzeConstruct(target *types.Type, n *ast.CallExpr, scope *ast.Scope) *types.Type {
	argTypes := make([]*types.Type, len(n.Args))
	for i, arg := range n.Args {
		argTypes[i] = a.analyzeExpr(arg, scope)
	}

	switch target.Kind {
	case types.KindVector:
		total := 0
		for _, at := range argTypes {
			if at == nil {
				return target
			}
			switch at.Kind {
			case types.KindVector:
				total += int(at.Len)
			default:
				total++
			}
		}
		if total != int(target.Len) && !(len(n.Args) == 1 && total == 1) {
			a.errorf(diag.KindType, n.Loc, "%s constructor expects %d component(s), got %d", target.PrettyString(), target.Len, total)
		}
	case types.KindInt, types.KindFloat, types.KindBool:
		if len(n.Args) != 1 {
			a.errorf(diag.KindType, n.Loc, "scalar conversion to %s expects exactly 1 argument", target.PrettyString())
		}
	case types.KindStruct:
		if len(n.Args) != len(target.Fields) {
			a.errorf(diag.KindType, n.Loc, "%s constructor expects %d field value(s), got %d", target.PrettyString(), len(target.Fields), len(n.Args))
		}
	}
	return target
}

var builtinArity = map[string]int{
	"sin": 1, "cos": 1, "tan": 1, "sqrt": 1, "rsqrt": 1, "abs": 1,
	"floor": 1, "ceil": 1, "fract": 1, "sign": 1, "normalize": 1,
	"length": 1, "exp": 1, "exp2": 1, "log": 1, "log2": 1,
	"dot": 2, "cross": 2, "pow": 2, "min": 2, "max": 2, "step": 2, "reflect": 2,
	"mix": 3, "clamp": 3, "smoothstep": 3, "refract": 3,
}

// analyzeBuiltinCall type-checks a `@name(args...)` call against the
// builtin dispatch table. The result type is the first argument's type,
// except for length and dot, which return that argument's scalar type.
func (a *Analyzer) analyzeBuiltinCall(n *ast.BuiltinCallExpr, scope *ast.Scope) *types.Type {
	if n.Name == "image_sample" {
		return a.analyzeImageSample(n, scope)
	}
	arity, ok := builtinArity[n.Name]
	if !ok {
		a.errorf(diag.KindName, n.Loc, "unknown builtin @%s", n.Name)
		for _, arg := range n.Args {
			a.analyzeExpr(arg, scope)
		}
		return nil
	}
	if len(n.Args) != arity {
		a.errorf(diag.KindType, n.Loc, "@%s expects %d argument(s), got %d", n.Name, arity, len(n.Args))
	}

	var argTypes []*types.Type
	for _, arg := range n.Args {
		argTypes = append(argTypes, a.analyzeExpr(arg, scope))
	}
	if len(argTypes) == 0 || argTypes[0] == nil {
		return nil
	}

	switch n.Name {
	case "length":
		return types.ScalarOf(argTypes[0])
	case "dot":
		return types.ScalarOf(argTypes[0])
	default:
		return argTypes[0]
	}
}

// analyzeImageSample type-checks @image_sample(texture, sampler, coord),
// Dusk's binding for SPIR-V's OpImageSampleImplicitLod. The sampled
// texel is always returned as a float4.
func (a *Analyzer) analyzeImageSample(n *ast.BuiltinCallExpr, scope *ast.Scope) *types.Type {
	if len(n.Args) != 3 {
		a.errorf(diag.KindType, n.Loc, "@image_sample expects 3 arguments (texture, sampler, coord), got %d", len(n.Args))
	}
	var argTypes []*types.Type
	for _, arg := range n.Args {
		argTypes = append(argTypes, a.analyzeExpr(arg, scope))
	}
	for _, at := range argTypes {
		if at == nil {
			return nil
		}
	}
	if argTypes[0].Kind != types.KindImage {
		a.errorf(diag.KindType, n.Args[0].Pos(), "@image_sample's first argument must be a texture, got %s", argTypes[0].PrettyString())
	}
	if argTypes[1].Kind != types.KindSampler {
		a.errorf(diag.KindType, n.Args[1].Pos(), "@image_sample's second argument must be a sampler, got %s", argTypes[1].PrettyString())
	}
	if argTypes[2].Kind != types.KindVector || argTypes[2].Len != 2 {
		a.errorf(diag.KindType, n.Args[2].Pos(), "@image_sample's coordinate argument must be a float2, got %s", argTypes[2].PrettyString())
	}
	return a.in.Vector(a.in.Float(32), 4)
}
