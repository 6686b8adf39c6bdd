package ir

import (
	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/types"
)

// ioSlot binds one leaf of a (possibly struct-decomposed) entry-point
// parameter or return value to the GlobalVar SPIR-V actually passes it
// through. fieldPath is nil when the whole parameter/return value maps
// to a single global (no struct decomposition).
type ioSlot struct {
	global    *GlobalVar
	fieldPath []uint32
}

func (b *Builder) newBlock() *Block {
	blk := &Block{ID: len(b.cur.Blocks)}
	b.cur.Blocks = append(b.cur.Blocks, blk)
	return blk
}

func (b *Builder) emit(v *Value) *Value {
	return b.cur.newValue(b.block, v)
}

func (b *Builder) useIface(g *GlobalVar) {
	for _, existing := range b.ifaceOf[b.cur] {
		if existing == g {
			return
		}
	}
	b.ifaceOf[b.cur] = append(b.ifaceOf[b.cur], g)
}

// makeIOGlobals creates the Input/Output GlobalVars for typ and returns
// their slots in declaration order. When structExpr is an inline struct
// type expression, each top-level field gets its own global, honoring
// that field's attributes; otherwise typ gets a single global carrying
// attrs.
func (b *Builder) makeIOGlobals(namePrefix string, typ *types.Type, attrs []ast.Attribute, structExpr *ast.StructTypeExpr, storage types.StorageClass) []ioSlot {
	if structExpr != nil && typ.Kind == types.KindStruct {
		slots := make([]ioSlot, len(typ.Fields))
		for i, f := range typ.Fields {
			dec := decodeAttrs(structExpr.Fields[i].Attrs)
			g := &GlobalVar{Name: namePrefix + "_" + f.Name, Type: f.Type, Storage: storage, Builtin: dec.builtin, Location: dec.location}
			b.mod.Globals = append(b.mod.Globals, g)
			slots[i] = ioSlot{global: g, fieldPath: []uint32{uint32(i)}}
		}
		return slots
	}

	dec := decodeAttrs(attrs)
	g := &GlobalVar{Name: namePrefix, Type: typ, Storage: storage, Builtin: dec.builtin, Location: dec.location}
	b.mod.Globals = append(b.mod.Globals, g)
	return []ioSlot{{global: g}}
}

// entryIO is attached to every entry-point Function the builder
// produces, recording how its parameters/return value map onto the
// Input/Output globals created for it.
type entryIO struct {
	paramSlots [][]ioSlot // parallel to the source ast.FuncDecl.Params
	retSlots   []ioSlot
	retExpr    *ast.StructTypeExpr // non-nil when the return type is a decomposed struct
}

func (b *Builder) lowerFunc(f *ast.FuncDecl) {
	fn := b.funcs[f]
	b.cur = fn
	b.curDecl = f
	b.locals = make(map[ast.Decl]*Value)
	entry := b.newBlock()
	b.block = entry

	if f.IsEntry {
		io := &entryIO{}
		for _, p := range f.Params {
			structExpr, _ := p.Type.(*ast.StructTypeExpr)
			slots := b.makeIOGlobals(f.Name+"_"+p.Name, p.ResolvedType, p.Attrs, structExpr, types.StorageInput)
			io.paramSlots = append(io.paramSlots, slots)

			local := b.emit(&Value{Op: OpVariable, Type: b.in.Pointer(p.ResolvedType, types.StorageFunction), VarName: p.Name})
			if len(slots) == 1 && slots[0].fieldPath == nil {
				b.useIface(slots[0].global)
				loaded := b.emit(&Value{Op: OpLoad, Type: p.ResolvedType, Args: []*Value{b.globalAddr(slots[0].global)}})
				b.emit(&Value{Op: OpStore, Args: []*Value{local, loaded}})
			} else {
				comps := make([]*Value, len(slots))
				for i, s := range slots {
					b.useIface(s.global)
					comps[i] = b.emit(&Value{Op: OpLoad, Type: s.global.Type, Args: []*Value{b.globalAddr(s.global)}})
				}
				composite := b.emit(&Value{Op: OpCompositeConstruct, Type: p.ResolvedType, Args: comps})
				b.emit(&Value{Op: OpStore, Args: []*Value{local, composite}})
			}
			b.locals[p] = local
		}

		retStruct, _ := f.RetType.(*ast.StructTypeExpr)
		if f.Type.Return.Kind != types.KindVoid {
			io.retSlots = b.makeIOGlobals(f.Name+"_out", f.Type.Return, f.RetAttrs, retStruct, types.StorageOutput)
			io.retExpr = retStruct
			for _, s := range io.retSlots {
				b.useIface(s.global)
			}
		}
		b.entryIOs[f] = io
	} else {
		for i, p := range f.Params {
			local := b.emit(&Value{Op: OpVariable, Type: b.in.Pointer(p.ResolvedType, types.StorageFunction), VarName: p.Name})
			fn.Params[i].Value = local
			b.locals[p] = local
		}
	}

	b.lowerBlockInto(f.Body)

	if b.block.Term == nil {
		if f.IsEntry {
			b.block.Term = &Return{}
		} else if f.Type.Return.Kind == types.KindVoid {
			b.block.Term = &Return{}
		} else {
			// Control fell off the end of a non-void function's body;
			// sema does not check that every path returns.
			b.block.Term = &Unreachable{}
		}
	}
}

func (b *Builder) globalAddr(g *GlobalVar) *Value {
	return b.emit(&Value{Op: OpGlobalAddr, Type: b.in.Pointer(g.Type, g.Storage), Global: g})
}
