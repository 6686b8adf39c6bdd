package spirv

import (
	"encoding/binary"
	"math"
)

// Instruction is one encoded SPIR-V instruction: opcode plus operand words.
type Instruction struct {
	Opcode OpCode
	Words  []uint32
}

// InstructionBuilder accumulates one instruction's operand words.
type InstructionBuilder struct {
	words []uint32
}

func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{words: make([]uint32, 0, 8)}
}

func (b *InstructionBuilder) AddWord(word uint32) {
	b.words = append(b.words, word)
}

// AddString appends a null-terminated UTF-8 string, padded to a word boundary.
func (b *InstructionBuilder) AddString(s string) {
	bytes := []byte(s)
	if len(bytes) == 0 || bytes[len(bytes)-1] != 0 {
		bytes = append(bytes, 0)
	}
	for len(bytes)%4 != 0 {
		bytes = append(bytes, 0)
	}
	for i := 0; i < len(bytes); i += 4 {
		word := uint32(bytes[i]) | uint32(bytes[i+1])<<8 | uint32(bytes[i+2])<<16 | uint32(bytes[i+3])<<24
		b.words = append(b.words, word)
	}
}

func (b *InstructionBuilder) Build(opcode OpCode) Instruction {
	return Instruction{Opcode: opcode, Words: b.words}
}

// Encode renders the instruction as the (wordCount<<16)|opcode header
// word followed by its operand words.
func (i Instruction) Encode() []uint32 {
	wordCount := uint32(len(i.Words) + 1)
	result := make([]uint32, 0, wordCount)
	result = append(result, (wordCount<<16)|uint32(i.Opcode))
	result = append(result, i.Words...)
	return result
}

// ModuleBuilder accumulates a complete SPIR-V module section by
// section, in the fixed order the spec requires, and serializes it to
// a binary word stream with Build.
type ModuleBuilder struct {
	version   Version
	generator uint32
	bound     uint32
	schema    uint32

	capabilities   []Instruction
	extensions     []Instruction
	extInstImports []Instruction
	memoryModel    *Instruction
	entryPoints    []Instruction
	executionModes []Instruction
	debugStrings   []Instruction
	debugNames     []Instruction
	annotations    []Instruction
	types          []Instruction
	globalVars     []Instruction
	functions      []Instruction

	nextID uint32
}

func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{
		version:   version,
		generator: GeneratorID,
		nextID:    1,
	}
}

func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *ModuleBuilder) AddCapability(c Capability) {
	ib := NewInstructionBuilder()
	ib.AddWord(uint32(c))
	b.capabilities = append(b.capabilities, ib.Build(OpCapability))
}

func (b *ModuleBuilder) AddExtension(name string) {
	ib := NewInstructionBuilder()
	ib.AddString(name)
	b.extensions = append(b.extensions, ib.Build(OpExtension))
}

func (b *ModuleBuilder) AddExtInstImport(name string) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddString(name)
	b.extInstImports = append(b.extInstImports, ib.Build(OpExtInstImport))
	return id
}

func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	ib := NewInstructionBuilder()
	ib.AddWord(uint32(addressing))
	ib.AddWord(uint32(memory))
	inst := ib.Build(OpMemoryModel)
	b.memoryModel = &inst
}

func (b *ModuleBuilder) AddEntryPoint(model ExecutionModel, funcID uint32, name string, iface []uint32) {
	ib := NewInstructionBuilder()
	ib.AddWord(uint32(model))
	ib.AddWord(funcID)
	ib.AddString(name)
	for _, v := range iface {
		ib.AddWord(v)
	}
	b.entryPoints = append(b.entryPoints, ib.Build(OpEntryPoint))
}

func (b *ModuleBuilder) AddExecutionMode(entryPoint uint32, mode ExecutionMode, params ...uint32) {
	ib := NewInstructionBuilder()
	ib.AddWord(entryPoint)
	ib.AddWord(uint32(mode))
	for _, p := range params {
		ib.AddWord(p)
	}
	b.executionModes = append(b.executionModes, ib.Build(OpExecutionMode))
}

func (b *ModuleBuilder) AddName(id uint32, name string) {
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddString(name)
	b.debugNames = append(b.debugNames, ib.Build(OpName))
}

func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	ib := NewInstructionBuilder()
	ib.AddWord(structID)
	ib.AddWord(member)
	ib.AddString(name)
	b.debugNames = append(b.debugNames, ib.Build(OpMemberName))
}

func (b *ModuleBuilder) AddDecorate(id uint32, d Decoration, params ...uint32) {
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(uint32(d))
	for _, p := range params {
		ib.AddWord(p)
	}
	b.annotations = append(b.annotations, ib.Build(OpDecorate))
}

func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, d Decoration, params ...uint32) {
	ib := NewInstructionBuilder()
	ib.AddWord(structID)
	ib.AddWord(member)
	ib.AddWord(uint32(d))
	for _, p := range params {
		ib.AddWord(p)
	}
	b.annotations = append(b.annotations, ib.Build(OpMemberDecorate))
}

func (b *ModuleBuilder) AddTypeVoid() uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	b.types = append(b.types, ib.Build(OpTypeVoid))
	return id
}

func (b *ModuleBuilder) AddTypeBool() uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	b.types = append(b.types, ib.Build(OpTypeBool))
	return id
}

func (b *ModuleBuilder) AddTypeFloat(width uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(width)
	b.types = append(b.types, ib.Build(OpTypeFloat))
	return id
}

func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(width)
	if signed {
		ib.AddWord(1)
	} else {
		ib.AddWord(0)
	}
	b.types = append(b.types, ib.Build(OpTypeInt))
	return id
}

func (b *ModuleBuilder) AddTypeVector(component uint32, count uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(component)
	ib.AddWord(count)
	b.types = append(b.types, ib.Build(OpTypeVector))
	return id
}

func (b *ModuleBuilder) AddTypeMatrix(column uint32, columnCount uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(column)
	ib.AddWord(columnCount)
	b.types = append(b.types, ib.Build(OpTypeMatrix))
	return id
}

func (b *ModuleBuilder) AddTypeArray(elem uint32, lengthConstID uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(elem)
	ib.AddWord(lengthConstID)
	b.types = append(b.types, ib.Build(OpTypeArray))
	return id
}

func (b *ModuleBuilder) AddTypeRuntimeArray(elem uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(elem)
	b.types = append(b.types, ib.Build(OpTypeRuntimeArray))
	return id
}

func (b *ModuleBuilder) AddTypePointer(storage StorageClass, base uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(uint32(storage))
	ib.AddWord(base)
	b.types = append(b.types, ib.Build(OpTypePointer))
	return id
}

func (b *ModuleBuilder) AddTypeFunction(ret uint32, params ...uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(ret)
	for _, p := range params {
		ib.AddWord(p)
	}
	b.types = append(b.types, ib.Build(OpTypeFunction))
	return id
}

func (b *ModuleBuilder) AddTypeStruct(members ...uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	for _, m := range members {
		ib.AddWord(m)
	}
	b.types = append(b.types, ib.Build(OpTypeStruct))
	return id
}

// AddTypeImage emits an OpTypeImage. depth/arrayed/multisampled/sampled
// follow SPIR-V's word-4..7 layout (depth: 0=no,1=yes,2=unknown; same
// for sampled, using 1=sampled,2=storage).
func (b *ModuleBuilder) AddTypeImage(sampledTypeID uint32, dim Dim, depth, arrayed, multisampled, sampled bool, format ImageFormat) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(sampledTypeID)
	ib.AddWord(uint32(dim))
	ib.AddWord(boolWord(depth))
	ib.AddWord(boolWord(arrayed))
	ib.AddWord(boolWord(multisampled))
	if sampled {
		ib.AddWord(1)
	} else {
		ib.AddWord(2)
	}
	ib.AddWord(uint32(format))
	b.types = append(b.types, ib.Build(OpTypeImage))
	return id
}

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

func (b *ModuleBuilder) AddTypeSampler() uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	b.types = append(b.types, ib.Build(OpTypeSampler))
	return id
}

func (b *ModuleBuilder) AddTypeSampledImage(imageTypeID uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	ib.AddWord(imageTypeID)
	b.types = append(b.types, ib.Build(OpTypeSampledImage))
	return id
}

// AddSampledImage combines a texture and a sampler value into a single
// SampledImage value, the operand OpImageSampleImplicitLod requires.
func (b *ModuleBuilder) AddSampledImage(resultTypeID, imageID, samplerID uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultTypeID)
	ib.AddWord(id)
	ib.AddWord(imageID)
	ib.AddWord(samplerID)
	b.functions = append(b.functions, ib.Build(OpSampledImage))
	return id
}

func (b *ModuleBuilder) AddImageSampleImplicitLod(resultTypeID, sampledImageID, coordID uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultTypeID)
	ib.AddWord(id)
	ib.AddWord(sampledImageID)
	ib.AddWord(coordID)
	b.functions = append(b.functions, ib.Build(OpImageSampleImplicitLod))
	return id
}

func (b *ModuleBuilder) AddConstant(typeID uint32, values ...uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(typeID)
	ib.AddWord(id)
	for _, v := range values {
		ib.AddWord(v)
	}
	b.types = append(b.types, ib.Build(OpConstant))
	return id
}

func (b *ModuleBuilder) AddConstantFloat32(typeID uint32, v float32) uint32 {
	return b.AddConstant(typeID, math.Float32bits(v))
}

func (b *ModuleBuilder) AddConstantFloat64(typeID uint32, v float64) uint32 {
	bits := math.Float64bits(v)
	return b.AddConstant(typeID, uint32(bits&0xFFFFFFFF), uint32(bits>>32))
}

func (b *ModuleBuilder) AddConstantInt64(typeID uint32, v int64) uint32 {
	u := uint64(v)
	return b.AddConstant(typeID, uint32(u&0xFFFFFFFF), uint32(u>>32))
}

func (b *ModuleBuilder) AddConstantTrue(typeID uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(typeID)
	ib.AddWord(id)
	b.types = append(b.types, ib.Build(OpConstantTrue))
	return id
}

func (b *ModuleBuilder) AddConstantFalse(typeID uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(typeID)
	ib.AddWord(id)
	b.types = append(b.types, ib.Build(OpConstantFalse))
	return id
}

func (b *ModuleBuilder) AddConstantComposite(typeID uint32, constituents ...uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(typeID)
	ib.AddWord(id)
	for _, c := range constituents {
		ib.AddWord(c)
	}
	b.types = append(b.types, ib.Build(OpConstantComposite))
	return id
}

func (b *ModuleBuilder) AddUndef(typeID uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(typeID)
	ib.AddWord(id)
	b.types = append(b.types, ib.Build(OpUndef))
	return id
}

// AddGlobalVariable adds a module-scope OpVariable (section 10).
func (b *ModuleBuilder) AddGlobalVariable(pointerType uint32, storage StorageClass) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(pointerType)
	ib.AddWord(id)
	ib.AddWord(uint32(storage))
	b.globalVars = append(b.globalVars, ib.Build(OpVariable))
	return id
}

func (b *ModuleBuilder) AddFunction(funcType uint32, returnType uint32, control FunctionControl) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(returnType)
	ib.AddWord(id)
	ib.AddWord(uint32(control))
	ib.AddWord(funcType)
	b.functions = append(b.functions, ib.Build(OpFunction))
	return id
}

func (b *ModuleBuilder) AddFunctionParameter(typeID uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(typeID)
	ib.AddWord(id)
	b.functions = append(b.functions, ib.Build(OpFunctionParameter))
	return id
}

func (b *ModuleBuilder) AddFunctionEnd() {
	b.functions = append(b.functions, NewInstructionBuilder().Build(OpFunctionEnd))
}

// AddLocalVariable adds a Function-storage OpVariable inside a
// function's first block (SPIR-V requires all such variables to
// appear before any other instruction in the entry block).
func (b *ModuleBuilder) AddLocalVariable(pointerType uint32, storage StorageClass) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(pointerType)
	ib.AddWord(id)
	ib.AddWord(uint32(storage))
	b.functions = append(b.functions, ib.Build(OpVariable))
	return id
}

func (b *ModuleBuilder) AddLabel() uint32 {
	id := b.AllocID()
	b.EmitLabelWithID(id)
	return id
}

// EmitLabelWithID emits OpLabel using an ID allocated earlier (needed
// when a block's forward branches must reference its label before the
// block itself is reached during emission).
func (b *ModuleBuilder) EmitLabelWithID(id uint32) {
	ib := NewInstructionBuilder()
	ib.AddWord(id)
	b.functions = append(b.functions, ib.Build(OpLabel))
}

func (b *ModuleBuilder) AddReturn() {
	b.functions = append(b.functions, NewInstructionBuilder().Build(OpReturn))
}

func (b *ModuleBuilder) AddReturnValue(valueID uint32) {
	ib := NewInstructionBuilder()
	ib.AddWord(valueID)
	b.functions = append(b.functions, ib.Build(OpReturnValue))
}

func (b *ModuleBuilder) AddUnreachable() {
	b.functions = append(b.functions, NewInstructionBuilder().Build(OpUnreachable))
}

func (b *ModuleBuilder) AddKill() {
	b.functions = append(b.functions, NewInstructionBuilder().Build(OpKill))
}

func (b *ModuleBuilder) AddBranch(target uint32) {
	ib := NewInstructionBuilder()
	ib.AddWord(target)
	b.functions = append(b.functions, ib.Build(OpBranch))
}

func (b *ModuleBuilder) AddBranchConditional(cond, trueLabel, falseLabel uint32) {
	ib := NewInstructionBuilder()
	ib.AddWord(cond)
	ib.AddWord(trueLabel)
	ib.AddWord(falseLabel)
	b.functions = append(b.functions, ib.Build(OpBranchConditional))
}

func (b *ModuleBuilder) AddSelectionMerge(merge uint32, control SelectionControl) {
	ib := NewInstructionBuilder()
	ib.AddWord(merge)
	ib.AddWord(uint32(control))
	b.functions = append(b.functions, ib.Build(OpSelectionMerge))
}

func (b *ModuleBuilder) AddLoopMerge(merge, continueTarget uint32, control LoopControl) {
	ib := NewInstructionBuilder()
	ib.AddWord(merge)
	ib.AddWord(continueTarget)
	ib.AddWord(uint32(control))
	b.functions = append(b.functions, ib.Build(OpLoopMerge))
}

// AddPhi adds OpPhi; values and preds are parallel (incoming value ID, predecessor block ID).
func (b *ModuleBuilder) AddPhi(resultType uint32, values []uint32, preds []uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	for i := range values {
		ib.AddWord(values[i])
		ib.AddWord(preds[i])
	}
	b.functions = append(b.functions, ib.Build(OpPhi))
	return id
}

func (b *ModuleBuilder) AddBinaryOp(opcode OpCode, resultType, left, right uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	ib.AddWord(left)
	ib.AddWord(right)
	b.functions = append(b.functions, ib.Build(opcode))
	return id
}

func (b *ModuleBuilder) AddUnaryOp(opcode OpCode, resultType, operand uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	ib.AddWord(operand)
	b.functions = append(b.functions, ib.Build(opcode))
	return id
}

func (b *ModuleBuilder) AddLoad(resultType, pointer uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	ib.AddWord(pointer)
	b.functions = append(b.functions, ib.Build(OpLoad))
	return id
}

func (b *ModuleBuilder) AddStore(pointer, value uint32) {
	ib := NewInstructionBuilder()
	ib.AddWord(pointer)
	ib.AddWord(value)
	b.functions = append(b.functions, ib.Build(OpStore))
}

func (b *ModuleBuilder) AddAccessChain(resultType, base uint32, indices ...uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	ib.AddWord(base)
	for _, idx := range indices {
		ib.AddWord(idx)
	}
	b.functions = append(b.functions, ib.Build(OpAccessChain))
	return id
}

func (b *ModuleBuilder) AddCompositeExtract(resultType, composite uint32, indices ...uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	ib.AddWord(composite)
	for _, idx := range indices {
		ib.AddWord(idx)
	}
	b.functions = append(b.functions, ib.Build(OpCompositeExtract))
	return id
}

func (b *ModuleBuilder) AddCompositeConstruct(resultType uint32, constituents ...uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	for _, c := range constituents {
		ib.AddWord(c)
	}
	b.functions = append(b.functions, ib.Build(OpCompositeConstruct))
	return id
}

func (b *ModuleBuilder) AddVectorShuffle(resultType, vec1, vec2 uint32, components []uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	ib.AddWord(vec1)
	ib.AddWord(vec2)
	for _, c := range components {
		ib.AddWord(c)
	}
	b.functions = append(b.functions, ib.Build(OpVectorShuffle))
	return id
}

func (b *ModuleBuilder) AddSelect(resultType, condition, accept, reject uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	ib.AddWord(condition)
	ib.AddWord(accept)
	ib.AddWord(reject)
	b.functions = append(b.functions, ib.Build(OpSelect))
	return id
}

func (b *ModuleBuilder) AddExtInst(resultType, extSet, instruction uint32, operands ...uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	ib.AddWord(extSet)
	ib.AddWord(instruction)
	for _, op := range operands {
		ib.AddWord(op)
	}
	b.functions = append(b.functions, ib.Build(OpExtInst))
	return id
}

func (b *ModuleBuilder) AddFunctionCall(resultType, funcID uint32, args ...uint32) uint32 {
	id := b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(resultType)
	ib.AddWord(id)
	ib.AddWord(funcID)
	for _, a := range args {
		ib.AddWord(a)
	}
	b.functions = append(b.functions, ib.Build(OpFunctionCall))
	return id
}

// Build serializes the accumulated sections into a SPIR-V binary word
// stream (little-endian), in the fixed section order the spec requires.
func (b *ModuleBuilder) Build() []byte {
	b.bound = b.nextID

	totalWords := 5
	totalWords += countWords(b.capabilities)
	totalWords += countWords(b.extensions)
	totalWords += countWords(b.extInstImports)
	if b.memoryModel != nil {
		totalWords += len(b.memoryModel.Encode())
	}
	totalWords += countWords(b.entryPoints)
	totalWords += countWords(b.executionModes)
	totalWords += countWords(b.debugStrings)
	totalWords += countWords(b.debugNames)
	totalWords += countWords(b.annotations)
	totalWords += countWords(b.types)
	totalWords += countWords(b.globalVars)
	totalWords += countWords(b.functions)

	buffer := make([]byte, totalWords*4)
	offset := 0

	binary.LittleEndian.PutUint32(buffer[offset:], MagicNumber)
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], versionToWord(b.version))
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], b.generator)
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], b.bound)
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], b.schema)
	offset += 4

	offset = writeInstructions(buffer, offset, b.capabilities)
	offset = writeInstructions(buffer, offset, b.extensions)
	offset = writeInstructions(buffer, offset, b.extInstImports)
	if b.memoryModel != nil {
		offset = writeInstruction(buffer, offset, *b.memoryModel)
	}
	offset = writeInstructions(buffer, offset, b.entryPoints)
	offset = writeInstructions(buffer, offset, b.executionModes)
	offset = writeInstructions(buffer, offset, b.debugStrings)
	offset = writeInstructions(buffer, offset, b.debugNames)
	offset = writeInstructions(buffer, offset, b.annotations)
	offset = writeInstructions(buffer, offset, b.types)
	offset = writeInstructions(buffer, offset, b.globalVars)
	_ = writeInstructions(buffer, offset, b.functions)

	return buffer
}

func countWords(instructions []Instruction) int {
	count := 0
	for _, inst := range instructions {
		count += len(inst.Encode())
	}
	return count
}

func writeInstructions(buffer []byte, offset int, instructions []Instruction) int {
	for _, inst := range instructions {
		offset = writeInstruction(buffer, offset, inst)
	}
	return offset
}

func writeInstruction(buffer []byte, offset int, inst Instruction) int {
	for _, word := range inst.Encode() {
		binary.LittleEndian.PutUint32(buffer[offset:], word)
		offset += 4
	}
	return offset
}

func versionToWord(v Version) uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}
