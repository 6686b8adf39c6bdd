package spirv

import (
	"fmt"
	"math"

	"github.com/dusklang/duskc/ir"
	"github.com/dusklang/duskc/types"
)

// ptrKey caches a pointer type by its pointee SPIR-V id and storage
// class, independent of whether the *types.Type pointer node exists.
type ptrKey struct {
	elem    uint32
	storage types.StorageClass
}

// Backend translates Dusk's IR to a SPIR-V binary module in a single
// walk: globals first, then each function body in the block order the
// builder produced it in, interning types and constants the first time
// they are used.
type Backend struct {
	mod     *ir.Module
	builder *ModuleBuilder
	options Options

	typeIDs        map[*types.Type]uint32
	pointerIDs     map[ptrKey]uint32
	sampledImgIDs  map[*types.Type]uint32 // keyed by the underlying image *types.Type
	intConsts      map[string]uint32
	fltConsts      map[string]uint32
	boolConsts     map[bool]uint32

	globalIDs map[*ir.GlobalVar]uint32
	funcIDs   map[*ir.Function]uint32

	glslExtID uint32
	u32TypeID uint32 // lazily-created uint32 scalar type, used for array-length constants

	// per-function scratch state, reset in emitFunction
	blockIDs map[*ir.Block]uint32
	valueIDs map[*ir.Value]uint32
}

// getUint32Type returns the cached SPIR-V id for an unsigned 32-bit
// scalar, used for array-length operands that have no corresponding
// *types.Type node of their own to key the normal type cache on.
func (b *Backend) getUint32Type() uint32 {
	if b.u32TypeID == 0 {
		b.u32TypeID = b.builder.AddTypeInt(32, false)
	}
	return b.u32TypeID
}

// NewBackend creates a SPIR-V backend configured by options.
func NewBackend(options Options) *Backend {
	return &Backend{
		options:    options,
		typeIDs:       make(map[*types.Type]uint32),
		pointerIDs:    make(map[ptrKey]uint32),
		sampledImgIDs: make(map[*types.Type]uint32),
		intConsts:  make(map[string]uint32),
		fltConsts:  make(map[string]uint32),
		boolConsts: make(map[bool]uint32),
		globalIDs:  make(map[*ir.GlobalVar]uint32),
		funcIDs:    make(map[*ir.Function]uint32),
	}
}

// Compile translates module to a SPIR-V binary.
func (b *Backend) Compile(module *ir.Module) ([]byte, error) {
	b.mod = module
	b.builder = NewModuleBuilder(b.options.Version)

	b.builder.AddCapability(CapabilityShader)
	b.glslExtID = b.builder.AddExtInstImport("GLSL.std.450")
	b.builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	for _, g := range module.Globals {
		if err := b.emitGlobal(g); err != nil {
			return nil, err
		}
	}
	for _, fn := range module.Functions {
		if err := b.emitFunction(fn); err != nil {
			return nil, err
		}
	}

	b.emitAggregateDecorations()

	for _, ep := range module.EntryPoints {
		fnID, ok := b.funcIDs[ep.Function]
		if !ok {
			return nil, fmt.Errorf("spirv: entry point %q has no emitted function", ep.Name)
		}
		iface := make([]uint32, 0, len(ep.Interface))
		for _, g := range ep.Interface {
			iface = append(iface, b.globalIDs[g])
		}
		b.builder.AddEntryPoint(executionModelOf(ep.Stage), fnID, ep.Name, iface)
		if ep.Stage == ir.StageFragment {
			b.builder.AddExecutionMode(fnID, ExecutionModeOriginUpperLeft)
		}
	}

	if b.options.Debug {
		b.emitDebugNames()
	}

	return b.builder.Build(), nil
}

func executionModelOf(s ir.StageKind) ExecutionModel {
	switch s {
	case ir.StageVertex:
		return ExecutionModelVertex
	case ir.StageFragment:
		return ExecutionModelFragment
	case ir.StageCompute:
		return ExecutionModelGLCompute
	default:
		return ExecutionModelVertex
	}
}

func storageClassOf(s types.StorageClass) StorageClass {
	switch s {
	case types.StorageInput:
		return StorageClassInput
	case types.StorageOutput:
		return StorageClassOutput
	case types.StorageUniform:
		return StorageClassUniform
	case types.StorageUniformConstant:
		return StorageClassUniformConstant
	case types.StorageStorage:
		return StorageClassStorageBuffer
	case types.StoragePushConstant:
		return StorageClassPushConstant
	case types.StorageWorkgroup:
		return StorageClassWorkgroup
	default:
		return StorageClassFunction
	}
}

// getSampledImageType returns the cached SampledImage type id combining
// imageType, creating and caching it on first use. Cached by imageType's
// pointer identity since SampledImage wraps an interned Image type.
func (b *Backend) getSampledImageType(imageType *types.Type) (uint32, error) {
	if id, ok := b.sampledImgIDs[imageType]; ok {
		return id, nil
	}
	imageID, err := b.getType(imageType)
	if err != nil {
		return 0, err
	}
	id := b.builder.AddTypeSampledImage(imageID)
	b.sampledImgIDs[imageType] = id
	return id, nil
}

func dimOf(d types.ImageDim) Dim {
	switch d {
	case types.Dim1D:
		return Dim1D
	case types.Dim3D:
		return Dim3D
	case types.DimCube:
		return DimCube
	default:
		return Dim2D
	}
}

var builtinDecorations = map[ir.BuiltinValue]BuiltIn{
	ir.BuiltinPosition:       BuiltInPosition,
	ir.BuiltinFragDepth:      BuiltInFragDepth,
	ir.BuiltinVertexIndex:    BuiltInVertexIndex,
	ir.BuiltinInstanceIndex:  BuiltInInstanceIndex,
	ir.BuiltinFrontFacing:    BuiltInFrontFacing,
}

// getType interns t (recursively interning its sub-types) and returns
// its SPIR-V type ID, caching by t's pointer identity since the
// frontend's type interner already canonicalizes structurally-equal
// types to one *types.Type.
func (b *Backend) getType(t *types.Type) (uint32, error) {
	if id, ok := b.typeIDs[t]; ok {
		return id, nil
	}

	var id uint32
	switch t.Kind {
	case types.KindVoid:
		id = b.builder.AddTypeVoid()

	case types.KindBool:
		id = b.builder.AddTypeBool()

	case types.KindInt:
		id = b.builder.AddTypeInt(uint32(t.Bits), t.Signed)

	case types.KindFloat:
		id = b.builder.AddTypeFloat(uint32(t.Bits))

	case types.KindVector:
		elemID, err := b.getType(t.Elem)
		if err != nil {
			return 0, err
		}
		id = b.builder.AddTypeVector(elemID, uint32(t.Len))

	case types.KindMatrix:
		colID, err := b.getType(t.Elem)
		if err != nil {
			return 0, err
		}
		id = b.builder.AddTypeMatrix(colID, uint32(t.Len))

	case types.KindArray:
		elemID, err := b.getType(t.Elem)
		if err != nil {
			return 0, err
		}
		lenID := b.constInt(b.getUint32Type(), int64(t.Size))
		id = b.builder.AddTypeArray(elemID, lenID)

	case types.KindRuntimeArray:
		elemID, err := b.getType(t.Elem)
		if err != nil {
			return 0, err
		}
		id = b.builder.AddTypeRuntimeArray(elemID)

	case types.KindStruct:
		memberIDs := make([]uint32, len(t.Fields))
		for i, f := range t.Fields {
			mid, err := b.getType(f.Type)
			if err != nil {
				return 0, err
			}
			memberIDs[i] = mid
		}
		id = b.builder.AddTypeStruct(memberIDs...)
		b.typeIDs[t] = id
		b.decorateStruct(id, t)
		return id, nil

	case types.KindPointer:
		elemID, err := b.getType(t.Elem)
		if err != nil {
			return 0, err
		}
		id = b.getPointerType(elemID, t.Storage)

	case types.KindFunction:
		retID, err := b.getType(t.Return)
		if err != nil {
			return 0, err
		}
		paramIDs := make([]uint32, len(t.Params))
		for i, p := range t.Params {
			pid, err := b.getType(p)
			if err != nil {
				return 0, err
			}
			paramIDs[i] = pid
		}
		id = b.builder.AddTypeFunction(retID, paramIDs...)

	case types.KindSampler:
		id = b.builder.AddTypeSampler()

	case types.KindImage:
		sampledTypeID, err := b.getType(t.Elem)
		if err != nil {
			return 0, err
		}
		id = b.builder.AddTypeImage(sampledTypeID, dimOf(t.ImageDim), t.Depth, t.Arrayed, t.Multisampled, t.Sampled, ImageFormatUnknown)

	case types.KindSampledImage:
		imageID, err := b.getType(t.Elem)
		if err != nil {
			return 0, err
		}
		id = b.builder.AddTypeSampledImage(imageID)

	default:
		return 0, fmt.Errorf("spirv: unsupported type kind %v", t.Kind)
	}

	b.typeIDs[t] = id
	return id, nil
}

func (b *Backend) getPointerType(elemID uint32, storage types.StorageClass) uint32 {
	key := ptrKey{elem: elemID, storage: storage}
	if id, ok := b.pointerIDs[key]; ok {
		return id
	}
	id := b.builder.AddTypePointer(storageClassOf(storage), elemID)
	b.pointerIDs[key] = id
	return id
}

// decorateStruct adds per-member Offset (and NonWritable) decorations and,
// for a resource block, the Block decoration itself. Deferred structs
// (those whose fields reference a not-yet-cached type) never occur
// here since getType resolves fields before interning the struct.
func (b *Backend) decorateStruct(structID uint32, t *types.Type) {
	if t.IsBlock {
		b.builder.AddDecorate(structID, DecorationBlock)
	}
	for i, f := range t.Fields {
		b.builder.AddMemberDecorate(structID, uint32(i), DecorationOffset, f.Offset)
		if f.ReadOnly {
			b.builder.AddMemberDecorate(structID, uint32(i), DecorationNonWritable)
		}
		if b.options.Debug && f.Name != "" {
			b.builder.AddMemberName(structID, uint32(i), f.Name)
		}
	}
}

// emitAggregateDecorations adds ArrayStride to every array/runtime
// array type discovered while emitting types, globals, and functions.
func (b *Backend) emitAggregateDecorations() {
	for t, id := range b.typeIDs {
		if t.Kind == types.KindArray || t.Kind == types.KindRuntimeArray {
			b.builder.AddDecorate(id, DecorationArrayStride, t.Stride)
		}
	}
}

func (b *Backend) constInt(typeID uint32, v int64) uint32 {
	key := fmt.Sprintf("%d:%d", typeID, v)
	if id, ok := b.intConsts[key]; ok {
		return id
	}
	var id uint32
	if v < 0 || v > math.MaxUint32 {
		id = b.builder.AddConstantInt64(typeID, v)
	} else {
		id = b.builder.AddConstant(typeID, uint32(v))
	}
	b.intConsts[key] = id
	return id
}

func (b *Backend) constFloat(typeID uint32, bits uint8, v float64) uint32 {
	key := fmt.Sprintf("%d:%x", typeID, math.Float64bits(v))
	if id, ok := b.fltConsts[key]; ok {
		return id
	}
	var id uint32
	if bits == 64 {
		id = b.builder.AddConstantFloat64(typeID, v)
	} else {
		id = b.builder.AddConstantFloat32(typeID, float32(v))
	}
	b.fltConsts[key] = id
	return id
}

func (b *Backend) constBool(typeID uint32, v bool) uint32 {
	if id, ok := b.boolConsts[v]; ok {
		return id
	}
	var id uint32
	if v {
		id = b.builder.AddConstantTrue(typeID)
	} else {
		id = b.builder.AddConstantFalse(typeID)
	}
	b.boolConsts[v] = id
	return id
}

func (b *Backend) emitGlobal(g *ir.GlobalVar) error {
	elemID, err := b.getType(g.Type)
	if err != nil {
		return err
	}
	ptrID := b.getPointerType(elemID, g.Storage)
	id := b.builder.AddGlobalVariable(ptrID, storageClassOf(g.Storage))
	b.globalIDs[g] = id

	if g.Binding != nil {
		b.builder.AddDecorate(id, DecorationDescriptorSet, g.Binding.Set)
		b.builder.AddDecorate(id, DecorationBinding, g.Binding.Binding)
	}
	if g.Builtin != ir.BuiltinNone {
		b.builder.AddDecorate(id, DecorationBuiltIn, uint32(builtinDecorations[g.Builtin]))
	}
	if g.Location != nil {
		b.builder.AddDecorate(id, DecorationLocation, *g.Location)
	}
	return nil
}

func (b *Backend) emitDebugNames() {
	for g, id := range b.globalIDs {
		if g.Name != "" {
			b.builder.AddName(id, g.Name)
		}
	}
	for fn, id := range b.funcIDs {
		if fn.Name != "" {
			b.builder.AddName(id, fn.Name)
		}
	}
}

func (b *Backend) emitFunction(fn *ir.Function) error {
	retType := fn.ReturnType
	if fn.IsEntry || retType == nil {
		retType = &types.Type{Kind: types.KindVoid}
	}
	retID, err := b.getType(retType)
	if err != nil {
		return err
	}
	paramTypeIDs := make([]uint32, len(fn.Params))
	for i, p := range fn.Params {
		pid, err := b.getType(p.Type)
		if err != nil {
			return err
		}
		paramTypeIDs[i] = pid
	}
	fnTypeID := b.builder.AddTypeFunction(retID, paramTypeIDs...)

	fnID := b.builder.AddFunction(fnTypeID, retID, FunctionControlNone)
	b.funcIDs[fn] = fnID

	paramValIDs := make([]uint32, len(fn.Params))
	for i := range fn.Params {
		paramValIDs[i] = b.builder.AddFunctionParameter(paramTypeIDs[i])
	}

	b.blockIDs = make(map[*ir.Block]uint32, len(fn.Blocks))
	b.valueIDs = make(map[*ir.Value]uint32)
	for _, blk := range fn.Blocks {
		b.blockIDs[blk] = b.builder.AllocID()
	}

	// SPIR-V requires every Function-storage OpVariable to be among the
	// first instructions of the entry block, regardless of which
	// source block a `let` lowered to it in.
	b.builder.EmitLabelWithID(b.blockIDs[fn.Blocks[0]])
	for _, blk := range fn.Blocks {
		for _, v := range blk.Insts {
			if v.Op != ir.OpVariable {
				continue
			}
			typeID, err := b.getType(v.Type)
			if err != nil {
				return err
			}
			b.valueIDs[v] = b.builder.AddLocalVariable(typeID, StorageClassFunction)
		}
	}
	for i, p := range fn.Params {
		b.builder.AddStore(b.valueIDs[p.Value], paramValIDs[i])
	}

	for bi, blk := range fn.Blocks {
		if bi > 0 {
			b.builder.EmitLabelWithID(b.blockIDs[blk])
		}
		for _, v := range blk.Insts {
			if v.Op == ir.OpVariable {
				continue // already hoisted
			}
			if err := b.emitValue(v); err != nil {
				return err
			}
		}
		if err := b.emitTerminator(blk); err != nil {
			return err
		}
	}

	b.builder.AddFunctionEnd()
	return nil
}

func (b *Backend) valueID(v *ir.Value) uint32 { return b.valueIDs[v] }

func (b *Backend) emitValue(v *ir.Value) error {
	switch v.Op {
	case ir.OpConstInt:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		b.valueIDs[v] = b.constInt(typeID, v.ImmInt)

	case ir.OpConstFloat:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		b.valueIDs[v] = b.constFloat(typeID, v.Type.Bits, v.ImmFloat)

	case ir.OpConstBool:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		b.valueIDs[v] = b.constBool(typeID, v.ImmBool)

	case ir.OpUndef:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		b.valueIDs[v] = b.builder.AddUndef(typeID)

	case ir.OpGlobalAddr:
		b.valueIDs[v] = b.globalIDs[v.Global]

	case ir.OpLoad:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		b.valueIDs[v] = b.builder.AddLoad(typeID, b.valueID(v.Args[0]))

	case ir.OpStore:
		b.builder.AddStore(b.valueID(v.Args[0]), b.valueID(v.Args[1]))

	case ir.OpAccessChain:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		indices := make([]uint32, len(v.Args)-1)
		for i, a := range v.Args[1:] {
			indices[i] = b.valueID(a)
		}
		for _, idx := range v.Indices {
			indices = append(indices, b.constInt(b.getUint32Type(), int64(idx)))
		}
		b.valueIDs[v] = b.builder.AddAccessChain(typeID, b.valueID(v.Args[0]), indices...)

	case ir.OpCompositeExtract:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		b.valueIDs[v] = b.builder.AddCompositeExtract(typeID, b.valueID(v.Args[0]), v.Indices...)

	case ir.OpCompositeConstruct:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		args := make([]uint32, len(v.Args))
		for i, a := range v.Args {
			args[i] = b.valueID(a)
		}
		b.valueIDs[v] = b.builder.AddCompositeConstruct(typeID, args...)

	case ir.OpVectorShuffle:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		b.valueIDs[v] = b.builder.AddVectorShuffle(typeID, b.valueID(v.Args[0]), b.valueID(v.Args[1]), v.Swizzle)

	case ir.OpBinary:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		opcode := binaryOpcode(v.BinOp, v.Args[0].Type)
		b.valueIDs[v] = b.builder.AddBinaryOp(opcode, typeID, b.valueID(v.Args[0]), b.valueID(v.Args[1]))

	case ir.OpUnary:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		opcode := unaryOpcode(v.UnOp, v.Args[0].Type)
		b.valueIDs[v] = b.builder.AddUnaryOp(opcode, typeID, b.valueID(v.Args[0]))

	case ir.OpConvert:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		opcode := convertOpcode(v.Args[0].Type, v.Type, v.Bitcast)
		b.valueIDs[v] = b.builder.AddUnaryOp(opcode, typeID, b.valueID(v.Args[0]))

	case ir.OpCall:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		args := make([]uint32, len(v.Args))
		for i, a := range v.Args {
			args[i] = b.valueID(a)
		}
		b.valueIDs[v] = b.builder.AddFunctionCall(typeID, b.funcIDs[v.Callee], args...)

	case ir.OpExtInst:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		sel, ok := glslSelector[v.Ext]
		if !ok {
			return fmt.Errorf("spirv: unmapped extended instruction %v", v.Ext)
		}
		args := make([]uint32, len(v.Args))
		for i, a := range v.Args {
			args[i] = b.valueID(a)
		}
		b.valueIDs[v] = b.builder.AddExtInst(typeID, b.glslExtID, sel, args...)

	case ir.OpImageSample:
		resultTypeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		imageID := b.valueID(v.Args[0])
		samplerID := b.valueID(v.Args[1])
		coordID := b.valueID(v.Args[2])
		sampledImageTypeID, err := b.getSampledImageType(v.Args[0].Type)
		if err != nil {
			return err
		}
		sampledImageID := b.builder.AddSampledImage(sampledImageTypeID, imageID, samplerID)
		b.valueIDs[v] = b.builder.AddImageSampleImplicitLod(resultTypeID, sampledImageID, coordID)

	case ir.OpPhi:
		typeID, err := b.getType(v.Type)
		if err != nil {
			return err
		}
		values := make([]uint32, len(v.Args))
		preds := make([]uint32, len(v.Preds))
		for i, a := range v.Args {
			values[i] = b.valueID(a)
		}
		for i, p := range v.Preds {
			preds[i] = b.blockIDs[p]
		}
		b.valueIDs[v] = b.builder.AddPhi(typeID, values, preds)

	default:
		return fmt.Errorf("spirv: unsupported value op %v", v.Op)
	}
	return nil
}

func (b *Backend) emitTerminator(blk *ir.Block) error {
	switch t := blk.Term.(type) {
	case *ir.Return:
		if t.Value == nil {
			b.builder.AddReturn()
		} else {
			b.builder.AddReturnValue(b.valueID(t.Value))
		}
	case *ir.Discard:
		b.builder.AddKill()
	case *ir.Unreachable:
		b.builder.AddUnreachable()
	case *ir.Branch:
		b.builder.AddBranch(b.blockIDs[t.Target])
	case *ir.BranchCond:
		if t.IsLoopHead {
			b.builder.AddLoopMerge(b.blockIDs[t.Merge], b.blockIDs[t.ContinueTgt], LoopControlNone)
		} else {
			b.builder.AddSelectionMerge(b.blockIDs[t.Merge], SelectionControlNone)
		}
		b.builder.AddBranchConditional(b.valueID(t.Cond), b.blockIDs[t.True], b.blockIDs[t.False])
	default:
		return fmt.Errorf("spirv: unsupported terminator %T", t)
	}
	return nil
}

func binaryOpcode(op ir.BinaryOp, operandType *types.Type) OpCode {
	st := types.ScalarOf(operandType)
	isFloat := st.Kind == types.KindFloat
	isBool := st.Kind == types.KindBool
	signed := st.Signed

	switch op {
	case ir.BinAdd:
		if isFloat {
			return OpFAdd
		}
		return OpIAdd
	case ir.BinSub:
		if isFloat {
			return OpFSub
		}
		return OpISub
	case ir.BinMul:
		if isFloat {
			return OpFMul
		}
		return OpIMul
	case ir.BinDiv:
		if isFloat {
			return OpFDiv
		}
		if signed {
			return OpSDiv
		}
		return OpUDiv
	case ir.BinMod:
		if isFloat {
			return OpFMod
		}
		if signed {
			return OpSMod
		}
		return OpUMod
	case ir.BinEq:
		if isFloat {
			return OpFOrdEqual
		}
		if isBool {
			return OpLogicalEqual
		}
		return OpIEqual
	case ir.BinNe:
		if isFloat {
			return OpFOrdNotEqual
		}
		if isBool {
			return OpLogicalNotEqual
		}
		return OpINotEqual
	case ir.BinLt:
		if isFloat {
			return OpFOrdLessThan
		}
		if signed {
			return OpSLessThan
		}
		return OpULessThan
	case ir.BinLe:
		if isFloat {
			return OpFOrdLessThanEqual
		}
		if signed {
			return OpSLessThanEqual
		}
		return OpULessThanEqual
	case ir.BinGt:
		if isFloat {
			return OpFOrdGreaterThan
		}
		if signed {
			return OpSGreaterThan
		}
		return OpUGreaterThan
	case ir.BinGe:
		if isFloat {
			return OpFOrdGreaterThanEqual
		}
		if signed {
			return OpSGreaterThanEqual
		}
		return OpUGreaterThanEqual
	case ir.BinBitAnd:
		if isBool {
			return OpLogicalAnd
		}
		return OpBitwiseAnd
	case ir.BinBitOr:
		if isBool {
			return OpLogicalOr
		}
		return OpBitwiseOr
	case ir.BinBitXor:
		return OpBitwiseXor
	case ir.BinShl:
		return OpShiftLeftLogical
	case ir.BinShr:
		if signed {
			return OpShiftRightArithmetic
		}
		return OpShiftRightLogical
	case ir.BinLogicalAnd:
		return OpLogicalAnd
	case ir.BinLogicalOr:
		return OpLogicalOr
	default:
		return OpIAdd
	}
}

func unaryOpcode(op ir.UnaryOp, operandType *types.Type) OpCode {
	st := types.ScalarOf(operandType)
	switch op {
	case ir.UnaryNot:
		return OpLogicalNot
	case ir.UnaryNeg:
		if st.Kind == types.KindFloat {
			return OpFNegate
		}
		return OpSNegate
	case ir.UnaryBitNot:
		return OpNot
	default:
		return OpSNegate
	}
}

func convertOpcode(srcType, dstType *types.Type, bitcast bool) OpCode {
	if bitcast {
		return OpBitcast
	}
	src := types.ScalarOf(srcType)
	dst := types.ScalarOf(dstType)
	switch {
	case src.Kind == types.KindInt && dst.Kind == types.KindFloat:
		if src.Signed {
			return OpConvertSToF
		}
		return OpConvertUToF
	case src.Kind == types.KindFloat && dst.Kind == types.KindInt:
		if dst.Signed {
			return OpConvertFToS
		}
		return OpConvertFToU
	case src.Kind == types.KindFloat && dst.Kind == types.KindFloat:
		return OpFConvert
	case src.Kind == types.KindInt && dst.Kind == types.KindInt:
		if src.Bits == dst.Bits {
			return OpBitcast
		}
		if dst.Signed {
			return OpSConvert
		}
		return OpUConvert
	default:
		return OpBitcast
	}
}

var glslSelector = map[ir.ExtInstOp]uint32{
	ir.ExtSin:         GLSLstd450Sin,
	ir.ExtCos:         GLSLstd450Cos,
	ir.ExtTan:         GLSLstd450Tan,
	ir.ExtSqrt:        GLSLstd450Sqrt,
	ir.ExtInverseSqrt: GLSLstd450InverseSqrt,
	ir.ExtFAbs:        GLSLstd450FAbs,
	ir.ExtSAbs:        GLSLstd450SAbs,
	ir.ExtFloor:       GLSLstd450Floor,
	ir.ExtCeil:        GLSLstd450Ceil,
	ir.ExtFract:       GLSLstd450Fract,
	ir.ExtFSign:       GLSLstd450FSign,
	ir.ExtSSign:       GLSLstd450SSign,
	ir.ExtNormalize:   GLSLstd450Normalize,
	ir.ExtLength:      GLSLstd450Length,
	ir.ExtExp:         GLSLstd450Exp,
	ir.ExtExp2:        GLSLstd450Exp2,
	ir.ExtLog:         GLSLstd450Log,
	ir.ExtLog2:        GLSLstd450Log2,
	ir.ExtCross:       GLSLstd450Cross,
	ir.ExtPow:         GLSLstd450Pow,
	ir.ExtFMin:        GLSLstd450FMin,
	ir.ExtFMax:        GLSLstd450FMax,
	ir.ExtSMin:        GLSLstd450SMin,
	ir.ExtSMax:        GLSLstd450SMax,
	ir.ExtUMin:        GLSLstd450UMin,
	ir.ExtUMax:        GLSLstd450UMax,
	ir.ExtStep:        GLSLstd450Step,
	ir.ExtReflect:     GLSLstd450Reflect,
	ir.ExtFMix:        GLSLstd450FMix,
	ir.ExtFClamp:      GLSLstd450FClamp,
	ir.ExtSmoothStep:  GLSLstd450SmoothStep,
	ir.ExtRefract:     GLSLstd450Refract,
}
