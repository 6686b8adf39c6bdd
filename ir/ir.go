// Package ir defines Dusk's intermediate representation (component
// C5): a block-based, mostly-SSA form with explicit control-flow
// edges (Branch/BranchCond/Phi) lowered directly to SPIR-V's
// structured control flow by the spirv package. Local variables and
// function parameters are modeled the way a real SPIR-V frontend
// does before an optional mem2reg pass: a Function-storage pointer
// value with explicit Load/Store instructions. Phi nodes appear only
// where short-circuit boolean operators merge two control-flow paths
// into one value.
package ir

import "github.com/dusklang/duskc/types"

// Module is one compiled translation unit's IR: every declared function
// and global, plus the selected entry point.
type Module struct {
	Globals     []*GlobalVar
	Functions   []*Function
	EntryPoints []*EntryPoint
}

// StageKind mirrors ast.StageKind without importing the ast package,
// keeping ir decoupled from the syntax tree it was lowered from.
type StageKind uint8

const (
	StageNone StageKind = iota
	StageVertex
	StageFragment
	StageCompute
)

// BuiltinValue enumerates the shader builtin variables Dusk exposes.
type BuiltinValue uint8

const (
	BuiltinNone BuiltinValue = iota
	BuiltinPosition
	BuiltinFragDepth
	BuiltinVertexIndex
	BuiltinInstanceIndex
	BuiltinFrontFacing
)

// ResourceBinding is the descriptor-set/binding pair attached to a
// uniform, storage, or uniform_constant global.
type ResourceBinding struct {
	Set     uint32
	Binding uint32
}

// GlobalVar is a module-scope variable: a uniform/storage resource, a
// push constant, or one decomposed Input/Output slot of an entry
// point's parameter or return value.
type GlobalVar struct {
	Name     string
	Type     *types.Type // pointee type; the variable's SPIR-V type is Pointer(Type, Storage)
	Storage  types.StorageClass
	Binding  *ResourceBinding // set when Storage is Uniform/UniformConstant/Storage
	Builtin  BuiltinValue     // set when this is a builtin Input/Output slot
	Location *uint32          // set when this is a user Input/Output slot
}

// Function is one Dusk function, lowered to a control-flow graph of
// Blocks. The first element of Blocks is always the entry block.
type Function struct {
	Name       string
	Params     []*Param
	ReturnType *types.Type
	Blocks     []*Block
	IsEntry    bool
	Stage      StageKind

	nextValueID int
}

// Param is a function parameter materialized as a Function-storage
// pointer, loaded at function entry like any other local.
type Param struct {
	Name  string
	Type  *types.Type
	Value *Value // the OpVariable pointer value holding this parameter's storage
}

// Block is one basic block: a straight-line instruction list ended by
// exactly one Terminator.
type Block struct {
	ID    int
	Insts []*Value
	Term  Terminator
}

// newValue allocates a fresh SSA value id and appends inst to b's
// instruction list, returning inst itself for chaining.
func (f *Function) newValue(b *Block, v *Value) *Value {
	v.ID = f.nextValueID
	f.nextValueID++
	b.Insts = append(b.Insts, v)
	return v
}

// Terminator is the interface implemented by every block-ending
// control-flow instruction.
type Terminator interface{ blockTerm() }

// Return ends a block by returning Value (nil for a void function).
type Return struct{ Value *Value }

func (*Return) blockTerm() {}

// Discard ends a fragment-shader block with OpKill.
type Discard struct{}

func (*Discard) blockTerm() {}

// Unreachable ends the last block of a non-void function whose body
// falls off its end without a return.
type Unreachable struct{}

func (*Unreachable) blockTerm() {}

// Branch is an unconditional jump.
type Branch struct{ Target *Block }

func (*Branch) blockTerm() {}

// BranchCond is a structured two-way branch; Merge is the block where
// both arms rejoin (SPIR-V OpSelectionMerge) or, for a loop condition
// block, the loop's exit block (OpLoopMerge).
type BranchCond struct {
	Cond        *Value
	True, False *Block
	Merge       *Block
	IsLoopHead  bool
	ContinueTgt *Block // loop continue target; nil for a plain 'if'
}

func (*BranchCond) blockTerm() {}

// EntryPoint is one `[[stage(...)]]` function exposed to Vulkan,
// together with the global interface variables it touches (required
// by SPIR-V's OpEntryPoint interface list).
type EntryPoint struct {
	Name      string
	Stage     StageKind
	Function  *Function
	Interface []*GlobalVar
}
