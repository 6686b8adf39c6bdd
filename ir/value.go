package ir

import "github.com/dusklang/duskc/types"

// Op discriminates the variant carried by a Value.
type Op uint16

const (
	OpConstInt Op = iota
	OpConstFloat
	OpConstBool
	OpUndef

	OpVariable // Function-storage local (params and 'let' locals)
	OpGlobalAddr
	OpLoad
	OpStore // void-typed; Args[0]=pointer, Args[1]=value

	OpAccessChain       // Args[0]=base pointer, Args[1:]=index values; Indices=constant member indices that follow them
	OpCompositeExtract  // Args[0]=aggregate value; Indices=constant member path
	OpCompositeConstruct // Args=components
	OpVectorShuffle     // Args[0],Args[1]=source vectors; Swizzle=component indices into the concatenation

	OpBinary
	OpUnary
	OpConvert // numeric cast or same-width bitcast; see Bitcast flag
	OpCall
	OpExtInst // GLSL.std.450 extended-instruction call (math builtins)

	OpImageSample // Args[0]=texture, Args[1]=sampler, Args[2]=coord; lowers to OpSampledImage+OpImageSampleImplicitLod

	OpPhi // Args/Preds are parallel; value is Args[i] when control arrives from Preds[i]
)

// BinaryOp mirrors ast.BinaryOp; kept as a distinct type so ir does
// not depend on ast.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinLogicalAnd
	BinLogicalOr
)

// UnaryOp mirrors ast.UnaryOp.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
	UnaryBitNot
)

// ExtInstOp is a GLSL.std.450 extended-instruction selector.
type ExtInstOp uint8

const (
	ExtSin ExtInstOp = iota
	ExtCos
	ExtTan
	ExtSqrt
	ExtInverseSqrt
	ExtFAbs
	ExtSAbs
	ExtFloor
	ExtCeil
	ExtFract
	ExtFSign
	ExtSSign
	ExtNormalize
	ExtLength
	ExtExp
	ExtExp2
	ExtLog
	ExtLog2
	ExtCross
	ExtPow
	ExtFMin
	ExtFMax
	ExtSMin
	ExtSMax
	ExtUMin
	ExtUMax
	ExtStep
	ExtReflect
	ExtFMix
	ExtFClamp
	ExtSmoothStep
	ExtRefract
)

// Value is one SSA-form instruction or constant. Which fields are
// meaningful is determined by Op; see the Op constants' comments.
type Value struct {
	ID   int
	Type *types.Type
	Op   Op
	Args []*Value

	ImmInt   int64
	ImmFloat float64
	ImmBool  bool

	Global *GlobalVar // OpGlobalAddr
	Callee *Function  // OpCall

	BinOp     BinaryOp
	UnOp      UnaryOp
	Ext       ExtInstOp
	Bitcast   bool // OpConvert: reinterpret bits instead of converting value
	Indices   []uint32
	Swizzle   []uint32
	Preds     []*Block // OpPhi: incoming-edge predecessor, parallel to Args

	// VarName is the source-level local variable name an OpVariable
	// instruction materializes storage for; empty for temporaries.
	VarName string
}
