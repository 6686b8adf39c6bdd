package ir

import (
	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/types"
)

func (b *Builder) lowerBlockInto(blk *ast.BlockStmt) {
	for _, s := range blk.Stmts {
		if b.block.Term != nil {
			return // unreachable code after a terminating statement
		}
		b.lowerStmt(s)
	}
}

func (b *Builder) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDecl:
		b.lowerLocalVarDecl(n)
	case *ast.AssignStmt:
		b.lowerAssign(n)
	case *ast.ExprStmt:
		b.lowerExpr(n.X)
	case *ast.ReturnStmt:
		b.lowerReturn(n)
	case *ast.DiscardStmt:
		b.block.Term = &Discard{}
	case *ast.BreakStmt:
		b.block.Term = &Branch{Target: b.breakTarget}
	case *ast.ContinueStmt:
		b.block.Term = &Branch{Target: b.continueTarget}
	case *ast.IfStmt:
		b.lowerIf(n)
	case *ast.WhileStmt:
		b.lowerWhile(n)
	case *ast.BlockStmt:
		b.lowerBlockInto(n)
	}
}

func (b *Builder) lowerLocalVarDecl(v *ast.VarDecl) {
	local := b.emit(&Value{Op: OpVariable, Type: b.in.Pointer(v.Type, types.StorageFunction), VarName: v.Name})
	b.locals[v] = local
	if v.Init != nil {
		init := b.lowerExpr(v.Init)
		init = b.convertTo(init, v.Type)
		b.emit(&Value{Op: OpStore, Args: []*Value{local, init}})
	}
}

func (b *Builder) lowerAssign(n *ast.AssignStmt) {
	rhs := b.lowerExpr(n.RHS)
	ptr := b.lowerLValue(n.LHS)
	rhs = b.convertTo(rhs, n.LHS.Annotations().Type)
	b.emit(&Value{Op: OpStore, Args: []*Value{ptr, rhs}})
}

func (b *Builder) lowerReturn(n *ast.ReturnStmt) {
	if !b.cur.IsEntry {
		var v *Value
		if n.Value != nil {
			v = b.convertTo(b.lowerExpr(n.Value), b.cur.ReturnType)
		}
		b.block.Term = &Return{Value: v}
		return
	}

	io := b.entryIOs[b.curDecl]
	if n.Value != nil && io != nil {
		val := b.lowerExpr(n.Value)
		if io.retExpr != nil {
			for _, slot := range io.retSlots {
				field := b.emit(&Value{Op: OpCompositeExtract, Type: slot.global.Type, Args: []*Value{val}, Indices: slot.fieldPath})
				b.emit(&Value{Op: OpStore, Args: []*Value{b.globalAddr(slot.global), field}})
			}
		} else if len(io.retSlots) == 1 {
			b.emit(&Value{Op: OpStore, Args: []*Value{b.globalAddr(io.retSlots[0].global), val}})
		}
	}
	b.block.Term = &Return{}
}

func (b *Builder) lowerIf(n *ast.IfStmt) {
	cond := b.lowerExpr(n.Cond)
	head := b.block

	thenBlk := b.newBlock()
	var elseBlk *Block
	falseTarget := (*Block)(nil)
	if n.Else != nil {
		elseBlk = b.newBlock()
		falseTarget = elseBlk
	}
	mergeBlk := b.newBlock()
	if falseTarget == nil {
		falseTarget = mergeBlk
	}

	head.Term = &BranchCond{Cond: cond, True: thenBlk, False: falseTarget, Merge: mergeBlk}

	b.block = thenBlk
	b.lowerStmt(n.Then)
	if b.block.Term == nil {
		b.block.Term = &Branch{Target: mergeBlk}
	}

	if n.Else != nil {
		b.block = elseBlk
		b.lowerStmt(n.Else)
		if b.block.Term == nil {
			b.block.Term = &Branch{Target: mergeBlk}
		}
	}

	b.block = mergeBlk
}

func (b *Builder) lowerWhile(n *ast.WhileStmt) {
	headerBlk := b.newBlock()
	bodyBlk := b.newBlock()
	mergeBlk := b.newBlock()

	b.block.Term = &Branch{Target: headerBlk}

	b.block = headerBlk
	cond := b.lowerExpr(n.Cond)
	b.block.Term = &BranchCond{
		Cond: cond, True: bodyBlk, False: mergeBlk, Merge: mergeBlk,
		IsLoopHead: true, ContinueTgt: headerBlk,
	}

	prevBreak, prevContinue := b.breakTarget, b.continueTarget
	b.breakTarget, b.continueTarget = mergeBlk, headerBlk

	b.block = bodyBlk
	b.lowerStmt(n.Body)
	if b.block.Term == nil {
		b.block.Term = &Branch{Target: headerBlk}
	}

	b.breakTarget, b.continueTarget = prevBreak, prevContinue
	b.block = mergeBlk
}
