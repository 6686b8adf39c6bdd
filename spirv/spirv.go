// Package spirv emits a Vulkan-targeted SPIR-V binary module from
// Dusk's intermediate representation (component C6): opcode/decoration
// constant tables, a low-level word-encoding ModuleBuilder that writes
// its sections out in the order SPIR-V requires, and a Backend that
// walks an *ir.Module once, allocating IDs as it emits instructions.
package spirv

// Version is the target SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_5 = Version{1, 5}
)

// Options configures SPIR-V generation.
type Options struct {
	Version Version
	Debug   bool // emit OpName/OpMemberName debug instructions
}

func DefaultOptions() Options {
	return Options{Version: Version1_3}
}

const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000
)

// OpCode is a SPIR-V instruction opcode.
type OpCode uint16

const (
	OpNop               OpCode = 0
	OpSource            OpCode = 3
	OpName              OpCode = 5
	OpMemberName        OpCode = 6
	OpString            OpCode = 7
	OpExtension         OpCode = 10
	OpExtInstImport     OpCode = 11
	OpExtInst           OpCode = 12
	OpMemoryModel       OpCode = 14
	OpEntryPoint        OpCode = 15
	OpExecutionMode     OpCode = 16
	OpCapability        OpCode = 17
	OpTypeVoid          OpCode = 19
	OpTypeBool          OpCode = 20
	OpTypeInt           OpCode = 21
	OpTypeFloat         OpCode = 22
	OpTypeVector        OpCode = 23
	OpTypeMatrix        OpCode = 24
	OpTypeArray         OpCode = 28
	OpTypeRuntimeArray  OpCode = 29
	OpTypeStruct        OpCode = 30
	OpTypePointer       OpCode = 32
	OpTypeFunction      OpCode = 33
	OpTypeImage         OpCode = 25
	OpTypeSampler       OpCode = 26
	OpTypeSampledImage  OpCode = 27
	OpConstantTrue      OpCode = 41
	OpUndef             OpCode = 1
	OpConstantFalse     OpCode = 42
	OpConstant          OpCode = 43
	OpConstantComposite OpCode = 44
	OpFunction          OpCode = 54
	OpFunctionParameter OpCode = 55
	OpFunctionEnd       OpCode = 56
	OpFunctionCall      OpCode = 57
	OpVariable          OpCode = 59
	OpLoad              OpCode = 61
	OpStore             OpCode = 62
	OpAccessChain       OpCode = 65
	OpDecorate          OpCode = 71
	OpMemberDecorate    OpCode = 72

	OpSampledImage             OpCode = 86
	OpImageSampleImplicitLod   OpCode = 87

	OpVectorShuffle      OpCode = 79
	OpCompositeConstruct OpCode = 80
	OpCompositeExtract   OpCode = 81

	OpUConvert    OpCode = 113
	OpSConvert    OpCode = 114
	OpFConvert    OpCode = 115
	OpConvertFToU OpCode = 109
	OpConvertFToS OpCode = 110
	OpConvertSToF OpCode = 111
	OpConvertUToF OpCode = 112
	OpBitcast     OpCode = 124

	OpSNegate OpCode = 126
	OpFNegate OpCode = 127
	OpIAdd    OpCode = 128
	OpFAdd    OpCode = 129
	OpISub    OpCode = 130
	OpFSub    OpCode = 131
	OpIMul    OpCode = 132
	OpFMul    OpCode = 133
	OpUDiv    OpCode = 134
	OpSDiv    OpCode = 135
	OpFDiv    OpCode = 136
	OpUMod    OpCode = 137
	OpSRem    OpCode = 138
	OpSMod    OpCode = 139
	OpFMod    OpCode = 141

	OpLogicalEqual    OpCode = 164
	OpLogicalNotEqual OpCode = 165
	OpLogicalOr       OpCode = 166
	OpLogicalAnd      OpCode = 167
	OpLogicalNot      OpCode = 168

	OpIEqual               OpCode = 170
	OpINotEqual            OpCode = 171
	OpUGreaterThan         OpCode = 172
	OpSGreaterThan         OpCode = 173
	OpUGreaterThanEqual    OpCode = 174
	OpSGreaterThanEqual    OpCode = 175
	OpULessThan            OpCode = 176
	OpSLessThan            OpCode = 177
	OpULessThanEqual       OpCode = 178
	OpSLessThanEqual       OpCode = 179
	OpFOrdEqual            OpCode = 180
	OpFOrdNotEqual         OpCode = 182
	OpFOrdLessThan         OpCode = 184
	OpFOrdGreaterThan      OpCode = 186
	OpFOrdLessThanEqual    OpCode = 188
	OpFOrdGreaterThanEqual OpCode = 190

	OpShiftRightLogical    OpCode = 194
	OpShiftRightArithmetic OpCode = 195
	OpShiftLeftLogical     OpCode = 196
	OpBitwiseOr            OpCode = 197
	OpBitwiseXor           OpCode = 198
	OpBitwiseAnd           OpCode = 199
	OpNot                  OpCode = 200

	OpControlBarrier OpCode = 224
	OpMemoryBarrier  OpCode = 225

	OpSelect OpCode = 169

	OpLabel             OpCode = 248
	OpBranch            OpCode = 249
	OpBranchConditional OpCode = 250
	OpPhi               OpCode = 245
	OpLoopMerge         OpCode = 246
	OpSelectionMerge    OpCode = 247
	OpReturn            OpCode = 253
	OpReturnValue       OpCode = 254
	OpUnreachable       OpCode = 255
	OpKill              OpCode = 252
)

// FunctionControl, SelectionControl and LoopControl are SPIR-V control
// hint bitmasks; Dusk never sets any hints and always emits None.
type FunctionControl uint32

const FunctionControlNone FunctionControl = 0

type SelectionControl uint32

const SelectionControlNone SelectionControl = 0

type LoopControl uint32

const LoopControlNone LoopControl = 0

// Decoration is a SPIR-V annotation applied with OpDecorate/OpMemberDecorate.
type Decoration uint32

const (
	DecorationRowMajor      Decoration = 4
	DecorationColMajor      Decoration = 5
	DecorationArrayStride   Decoration = 6
	DecorationMatrixStride  Decoration = 7
	DecorationBlock         Decoration = 2
	DecorationBuiltIn       Decoration = 11
	DecorationNonWritable   Decoration = 24
	DecorationLocation      Decoration = 30
	DecorationBinding       Decoration = 33
	DecorationDescriptorSet Decoration = 34
	DecorationOffset        Decoration = 35
)

// BuiltIn is a SPIR-V built-in decoration value.
type BuiltIn uint32

const (
	BuiltInPosition      BuiltIn = 0
	BuiltInVertexIndex   BuiltIn = 42
	BuiltInInstanceIndex BuiltIn = 43
	BuiltInFrontFacing   BuiltIn = 17
	BuiltInFragDepth     BuiltIn = 22
)

// ExecutionModel selects which shader stage a function implements.
type ExecutionModel uint32

const (
	ExecutionModelVertex   ExecutionModel = 0
	ExecutionModelFragment ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// ExecutionMode is a per-entry-point execution mode.
type ExecutionMode uint32

const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeDepthReplacing  ExecutionMode = 12
)

// StorageClass is a SPIR-V pointer storage class.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassPushConstant    StorageClass = 9
	StorageClassStorageBuffer   StorageClass = 12
)

// Dim selects an OpTypeImage's dimensionality.
type Dim uint32

const (
	Dim1D   Dim = 0
	Dim2D   Dim = 1
	Dim3D   Dim = 2
	DimCube Dim = 3
)

// ImageFormat constrains an OpTypeImage's texel format; Dusk never
// declares a storage image format explicitly, so every image it emits
// uses ImageFormatUnknown.
type ImageFormat uint32

const ImageFormatUnknown ImageFormat = 0

type AddressingModel uint32

const AddressingModelLogical AddressingModel = 0

type MemoryModel uint32

const MemoryModelGLSL450 MemoryModel = 1

// Capability is a SPIR-V capability declared by OpCapability.
type Capability uint32

const (
	CapabilityMatrix Capability = 0
	CapabilityShader Capability = 1
)

// GLSL.std.450 extended-instruction selectors Dusk's builtin functions lower to.
const (
	GLSLstd450Round       uint32 = 1
	GLSLstd450FAbs        uint32 = 4
	GLSLstd450SAbs        uint32 = 5
	GLSLstd450FSign       uint32 = 6
	GLSLstd450SSign       uint32 = 7
	GLSLstd450Floor       uint32 = 8
	GLSLstd450Ceil        uint32 = 9
	GLSLstd450Fract       uint32 = 10
	GLSLstd450Sin         uint32 = 13
	GLSLstd450Cos         uint32 = 14
	GLSLstd450Tan         uint32 = 15
	GLSLstd450Pow         uint32 = 26
	GLSLstd450Exp         uint32 = 27
	GLSLstd450Log         uint32 = 28
	GLSLstd450Exp2        uint32 = 29
	GLSLstd450Log2        uint32 = 30
	GLSLstd450Sqrt        uint32 = 31
	GLSLstd450InverseSqrt uint32 = 32
	GLSLstd450FMin        uint32 = 37
	GLSLstd450UMin        uint32 = 38
	GLSLstd450SMin        uint32 = 39
	GLSLstd450FMax        uint32 = 40
	GLSLstd450UMax        uint32 = 41
	GLSLstd450SMax        uint32 = 42
	GLSLstd450FClamp      uint32 = 43
	GLSLstd450FMix        uint32 = 46
	GLSLstd450Step        uint32 = 48
	GLSLstd450SmoothStep  uint32 = 49
	GLSLstd450Length      uint32 = 66
	GLSLstd450Cross       uint32 = 68
	GLSLstd450Normalize   uint32 = 69
	GLSLstd450Reflect     uint32 = 71
	GLSLstd450Refract     uint32 = 72
)
