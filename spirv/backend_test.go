package spirv_test

import (
	"encoding/binary"
	"testing"

	dusk "github.com/dusklang/duskc"
	"github.com/dusklang/duskc/spirv"
)

// decodedInst is one decoded instruction: its opcode and operand words
// (the result-type/result-id/arguments that follow the wordCount|opcode
// header word).
type decodedInst struct {
	Opcode spirv.OpCode
	Words  []uint32
}

// wordsOf reinterprets a SPIR-V binary module as its little-endian word
// stream.
func wordsOf(t *testing.T, b []byte) []uint32 {
	t.Helper()
	if len(b)%4 != 0 {
		t.Fatalf("SPIR-V binary length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words
}

// decodeModule splits a module's word stream into its 5-word header and
// the instruction stream that follows, verifying every instruction's
// wordCount consumes exactly the words available (no overrun/underrun).
func decodeModule(t *testing.T, b []byte) (header [5]uint32, insts []decodedInst) {
	t.Helper()
	words := wordsOf(t, b)
	if len(words) < 5 {
		t.Fatalf("SPIR-V binary too short: %d words", len(words))
	}
	copy(header[:], words[:5])

	i := 5
	for i < len(words) {
		head := words[i]
		wordCount := int(head >> 16)
		if wordCount == 0 || i+wordCount > len(words) {
			t.Fatalf("malformed instruction at word %d: wordCount=%d, %d words remain", i, wordCount, len(words)-i)
		}
		insts = append(insts, decodedInst{
			Opcode: spirv.OpCode(head & 0xFFFF),
			Words:  words[i+1 : i+wordCount],
		})
		i += wordCount
	}
	return header, insts
}

// stringWordCount mirrors InstructionBuilder.AddString's padding rule,
// letting a test locate the operands that follow an embedded string
// (e.g. OpEntryPoint's name) without re-decoding the bytes itself.
func stringWordCount(s string) int {
	b := []byte(s)
	if len(b) == 0 || b[len(b)-1] != 0 {
		b = append(b, 0)
	}
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return len(b) / 4
}

// idAtWord0 holds opcodes whose result id is their first operand word
// (type declarations and OpLabel carry no separate result-type operand).
var idAtWord0 = map[spirv.OpCode]bool{
	spirv.OpTypeVoid: true, spirv.OpTypeBool: true, spirv.OpTypeInt: true,
	spirv.OpTypeFloat: true, spirv.OpTypeVector: true, spirv.OpTypeMatrix: true,
	spirv.OpTypeArray: true, spirv.OpTypeRuntimeArray: true, spirv.OpTypeStruct: true,
	spirv.OpTypePointer: true, spirv.OpTypeFunction: true, spirv.OpTypeImage: true,
	spirv.OpTypeSampler: true, spirv.OpTypeSampledImage: true, spirv.OpLabel: true,
}

// idAtWord1 holds opcodes of the form <result type> <result id> ...,
// the common shape for value-producing instructions.
var idAtWord1 = map[spirv.OpCode]bool{
	spirv.OpConstantTrue: true, spirv.OpConstantFalse: true, spirv.OpConstant: true,
	spirv.OpConstantComposite: true, spirv.OpUndef: true, spirv.OpVariable: true,
	spirv.OpFunction: true, spirv.OpFunctionParameter: true, spirv.OpLoad: true,
	spirv.OpAccessChain: true, spirv.OpCompositeConstruct: true, spirv.OpCompositeExtract: true,
	spirv.OpVectorShuffle: true, spirv.OpPhi: true, spirv.OpFunctionCall: true,
	spirv.OpExtInst: true, spirv.OpSampledImage: true, spirv.OpImageSampleImplicitLod: true,
}

// resultIDOf returns the result id an instruction defines, if any.
func resultIDOf(inst decodedInst) (uint32, bool) {
	if idAtWord0[inst.Opcode] && len(inst.Words) >= 1 {
		return inst.Words[0], true
	}
	if idAtWord1[inst.Opcode] && len(inst.Words) >= 2 {
		return inst.Words[1], true
	}
	return 0, false
}

var terminatorOpcodes = map[spirv.OpCode]bool{
	spirv.OpReturn: true, spirv.OpReturnValue: true, spirv.OpBranch: true,
	spirv.OpBranchConditional: true, spirv.OpKill: true, spirv.OpUnreachable: true,
}

// P6: the module starts with the SPIR-V magic number, and its id bound
// exceeds every result id the module actually defines.
func TestSPIRVMagicAndIDBound(t *testing.T) {
	out, err := dusk.Compile("vertex.dusk", `
[[stage(vertex)]]
fn main([[location(0)]] pos : float4) [[builtin(position)]] float4 {
	return pos;
}
`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	header, insts := decodeModule(t, out)
	if header[0] != spirv.MagicNumber {
		t.Fatalf("bad magic number: got 0x%x, want 0x%x", header[0], spirv.MagicNumber)
	}
	bound := header[3]
	if bound == 0 {
		t.Fatal("id bound must be nonzero")
	}
	var maxID uint32
	for _, inst := range insts {
		if id, ok := resultIDOf(inst); ok && id > maxID {
			maxID = id
		}
	}
	if maxID == 0 {
		t.Fatal("expected at least one result id in the emitted module")
	}
	if maxID >= bound {
		t.Fatalf("id bound %d does not exceed the highest result id %d", bound, maxID)
	}
}

// P7: every section appears in SPIR-V's mandated fixed order:
// capabilities, memory model, entry points, types/global variables,
// functions.
func TestSPIRVSectionOrder(t *testing.T) {
	out, err := dusk.Compile("vertex.dusk", `
[[set(0), binding(0)]]
let (uniform) u : struct(std140) { mvp : float4x4 };

[[stage(vertex)]]
fn main([[location(0)]] pos : float4) [[builtin(position)]] float4 {
	return u.mvp * pos;
}
`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	_, insts := decodeModule(t, out)

	indexOf := func(pred func(spirv.OpCode) bool) int {
		for i, inst := range insts {
			if pred(inst.Opcode) {
				return i
			}
		}
		return -1
	}
	capIdx := indexOf(func(op spirv.OpCode) bool { return op == spirv.OpCapability })
	memIdx := indexOf(func(op spirv.OpCode) bool { return op == spirv.OpMemoryModel })
	epIdx := indexOf(func(op spirv.OpCode) bool { return op == spirv.OpEntryPoint })
	typeIdx := indexOf(func(op spirv.OpCode) bool { return idAtWord0[op] && op != spirv.OpLabel })
	fnIdx := indexOf(func(op spirv.OpCode) bool { return op == spirv.OpFunction })

	for name, idx := range map[string]int{
		"OpCapability": capIdx, "OpMemoryModel": memIdx, "OpEntryPoint": epIdx,
		"a type declaration": typeIdx, "OpFunction": fnIdx,
	} {
		if idx < 0 {
			t.Fatalf("expected to find %s in the emitted module", name)
		}
	}
	if !(capIdx < memIdx && memIdx < epIdx && epIdx < typeIdx && typeIdx < fnIdx) {
		t.Fatalf("sections out of order: capability=%d memoryModel=%d entryPoint=%d types=%d function=%d",
			capIdx, memIdx, epIdx, typeIdx, fnIdx)
	}
}

// P8: an entry point's OpEntryPoint interface list names exactly the
// module's Input/Output global variables, no more and no fewer.
func TestSPIRVEntryPointInterfaceCompleteness(t *testing.T) {
	out, err := dusk.Compile("vertex.dusk", `
[[stage(vertex)]]
fn main([[location(0)]] pos : float4, [[location(1)]] color : float3) [[builtin(position)]] float4 {
	return pos;
}
`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	_, insts := decodeModule(t, out)

	var entryPoint *decodedInst
	for i := range insts {
		if insts[i].Opcode == spirv.OpEntryPoint {
			entryPoint = &insts[i]
			break
		}
	}
	if entryPoint == nil {
		t.Fatal("expected an OpEntryPoint instruction")
	}
	nameWords := stringWordCount("main")
	if len(entryPoint.Words) < 2+nameWords {
		t.Fatalf("OpEntryPoint instruction too short: %d words", len(entryPoint.Words))
	}
	interfaceIDs := map[uint32]bool{}
	for _, id := range entryPoint.Words[2+nameWords:] {
		interfaceIDs[id] = true
	}

	// Global Input/Output variables are declared once types are done and
	// before the first function begins.
	fnStart := len(insts)
	for i, inst := range insts {
		if inst.Opcode == spirv.OpFunction {
			fnStart = i
			break
		}
	}
	globalIOIDs := map[uint32]bool{}
	for _, inst := range insts[:fnStart] {
		if inst.Opcode != spirv.OpVariable || len(inst.Words) < 3 {
			continue
		}
		storage := spirv.StorageClass(inst.Words[2])
		if storage == spirv.StorageClassInput || storage == spirv.StorageClassOutput {
			globalIOIDs[inst.Words[1]] = true
		}
	}

	if len(globalIOIDs) == 0 {
		t.Fatal("expected at least one Input/Output global variable")
	}
	if len(interfaceIDs) != len(globalIOIDs) {
		t.Fatalf("entry point interface has %d ids, module declares %d Input/Output globals", len(interfaceIDs), len(globalIOIDs))
	}
	for id := range globalIOIDs {
		if !interfaceIDs[id] {
			t.Fatalf("Input/Output global %%%d is missing from the entry point interface", id)
		}
	}
}

// P9: every basic block emitted ends in exactly one terminator
// instruction, immediately before the next OpLabel or OpFunctionEnd.
func TestSPIRVBlocksAreProperlyTerminated(t *testing.T) {
	out, err := dusk.Compile("frag.dusk", `
[[stage(fragment)]]
fn main([[location(0)]] a : float, [[location(1)]] b : float) [[location(0)]] float4 {
	if (a > 0.0 && b > 0.0) {
		return float4(1.0, 1.0, 1.0, 1.0);
	}
	return float4(0.0, 0.0, 0.0, 1.0);
}
`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	_, insts := decodeModule(t, out)

	inFunction := false
	blockOpen := false
	var lastOp spirv.OpCode
	blocksSeen := 0
	for _, inst := range insts {
		switch inst.Opcode {
		case spirv.OpFunction:
			inFunction = true
		case spirv.OpFunctionEnd:
			if blockOpen && !terminatorOpcodes[lastOp] {
				t.Fatalf("block before OpFunctionEnd does not end in a terminator, last opcode was %v", lastOp)
			}
			inFunction = false
			blockOpen = false
		case spirv.OpLabel:
			if !inFunction {
				continue
			}
			if blockOpen && !terminatorOpcodes[lastOp] {
				t.Fatalf("block before a new OpLabel does not end in a terminator, last opcode was %v", lastOp)
			}
			blockOpen = true
			blocksSeen++
		default:
			if inFunction && blockOpen {
				lastOp = inst.Opcode
			}
		}
	}
	if blocksSeen < 2 {
		t.Fatalf("expected at least 2 basic blocks from the 'if' branch, saw %d", blocksSeen)
	}
}
