// Package ast defines the attributed syntax tree produced by the
// parser (component C3) and annotated in place by the semantic
// analyzer (component C4).
package ast

import "github.com/dusklang/duskc/types"

// Location is a byte-offset span with 1-based line/column, attached to
// every node for diagnostics.
type Location struct {
	Offset int
	Length int
	Line   int
	Column int
}

// File is the root of one compiled translation unit.
type File struct {
	Name  string // source path, for diagnostics
	Decls []Decl
	Scope *Scope
}

// Scope is one lexical scope: an owner kind, a parent link, and a
// name-to-declaration map. Scopes form a tree; a File's Scope is the
// root ("file scope") of the module.
type Scope struct {
	Owner   ScopeOwner
	Parent  *Scope
	Names   map[string]Decl
}

// ScopeOwner identifies what introduced a scope.
type ScopeOwner uint8

const (
	ScopeFile ScopeOwner = iota
	ScopeFunction
	ScopeBlock
)

// NewScope creates a child scope of parent (parent may be nil for file scope).
func NewScope(owner ScopeOwner, parent *Scope) *Scope {
	return &Scope{Owner: owner, Parent: parent, Names: make(map[string]Decl)}
}

// Declare registers name in the scope. It reports false if name is
// already bound directly in this scope (a duplicate declaration).
func (s *Scope) Declare(name string, d Decl) bool {
	if _, exists := s.Names[name]; exists {
		return false
	}
	s.Names[name] = d
	return true
}

// Resolve walks from s up to the file scope looking for name.
func (s *Scope) Resolve(name string) (Decl, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if d, ok := sc.Names[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// ---- Attributes ----

// AttrKind enumerates the closed set of recognized attribute names.
type AttrKind uint8

const (
	AttrLocation AttrKind = iota
	AttrSet
	AttrBinding
	AttrStage
	AttrBuiltin
	AttrOffset
	AttrReadOnly
)

// Attribute is one `name(args...)` entry inside an attribute block.
type Attribute struct {
	Kind AttrKind
	Name string // raw spelling, for unknown-attribute diagnostics
	Args []Expr
	Loc  Location
}

// AttrUnknown marks an attribute whose name isn't in the recognized
// set; it is carried through to analysis (where it is reported)
// rather than rejected in the parser.
const AttrUnknown AttrKind = 255

// ---- Declarations ----

// Decl is the interface implemented by every top-level and local
// declaration node.
type Decl interface {
	declNode()
	Pos() Location
}

// FuncDecl represents `fn name(params) attrs ret_type { body }`.
type FuncDecl struct {
	Name       string
	Params     []*Param
	RetType    Expr // type expression
	RetAttrs   []Attribute
	Attrs      []Attribute
	Body       *BlockStmt
	Scope      *Scope // function's own scope (holds params)
	Type       *types.Type
	Stage      StageKind
	IsEntry    bool
	Loc        Location
}

func (*FuncDecl) declNode()        {}
func (f *FuncDecl) Pos() Location  { return f.Loc }

// StageKind enumerates the shader stages recognized by the `stage(...)` attribute.
type StageKind uint8

const (
	StageNone StageKind = iota
	StageVertex
	StageFragment
	StageCompute
)

// Param is a function parameter. It implements Decl so it can be
// registered directly in its function's scope alongside locals.
type Param struct {
	Name  string
	Type  Expr // type expression
	Attrs []Attribute
	Loc   Location

	ResolvedType *types.Type
}

func (*Param) declNode()       {}
func (p *Param) Pos() Location { return p.Loc }

// VarDecl represents `let [(storage)] name : type [= init];`, used
// both at module scope and as a local statement.
type VarDecl struct {
	Name         string
	StorageExpr  string // raw storage keyword, "" if omitted
	TypeExpr     Expr   // nil if inferred from Init
	Init         Expr   // nil if absent
	Attrs        []Attribute
	Loc          Location

	Type    *types.Type
	Storage types.StorageClass
}

func (*VarDecl) declNode()       {}
func (v *VarDecl) Pos() Location { return v.Loc }
func (*VarDecl) stmtNode()       {}

// TypeDefDecl represents `type Name Expr;`.
type TypeDefDecl struct {
	Name string
	RHS  Expr
	Loc  Location

	Type *types.Type
}

func (*TypeDefDecl) declNode()       {}
func (t *TypeDefDecl) Pos() Location { return t.Loc }

// ---- Statements ----

// Stmt is the interface implemented by every statement node.
type Stmt interface {
	stmtNode()
	Pos() Location
}

// BlockStmt is `{ stmts... }`.
type BlockStmt struct {
	Stmts []Stmt
	Scope *Scope
	Loc   Location
}

func (*BlockStmt) stmtNode()       {}
func (b *BlockStmt) Pos() Location { return b.Loc }

// AssignStmt is `lhs op= rhs;` (op is Equal for plain assignment;
// compound assignments are desugared by the parser into `x = x op y`
// and recorded here as plain Equal assignments).
type AssignStmt struct {
	LHS Expr
	RHS Expr
	Loc Location
}

func (*AssignStmt) stmtNode()       {}
func (a *AssignStmt) Pos() Location { return a.Loc }

// ExprStmt is a bare expression used as a statement (e.g. a call).
type ExprStmt struct {
	X   Expr
	Loc Location
}

func (*ExprStmt) stmtNode()       {}
func (e *ExprStmt) Pos() Location { return e.Loc }

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	Value Expr // nil for bare `return;`
	Loc   Location
}

func (*ReturnStmt) stmtNode()       {}
func (r *ReturnStmt) Pos() Location { return r.Loc }

// DiscardStmt is `discard;`.
type DiscardStmt struct{ Loc Location }

func (*DiscardStmt) stmtNode()       {}
func (d *DiscardStmt) Pos() Location { return d.Loc }

// IfStmt is `if (cond) then [else elseStmt]`.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
	Loc  Location
}

func (*IfStmt) stmtNode()       {}
func (i *IfStmt) Pos() Location { return i.Loc }

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	Loc  Location
}

func (*WhileStmt) stmtNode()       {}
func (w *WhileStmt) Pos() Location { return w.Loc }

// BreakStmt is `break;`.
type BreakStmt struct{ Loc Location }

func (*BreakStmt) stmtNode()       {}
func (b *BreakStmt) Pos() Location { return b.Loc }

// ContinueStmt is `continue;`.
type ContinueStmt struct{ Loc Location }

func (*ContinueStmt) stmtNode()       {}
func (c *ContinueStmt) Pos() Location { return c.Loc }

// ---- Expressions ----

// Expr is the interface implemented by every expression node. Every
// node carries a Type (set post-analysis) and, for expressions that
// denote a type, an AsType.
type Expr interface {
	exprNode()
	Pos() Location
	Annotations() *ExprAnnotations
}

// ExprAnnotations holds the fields analysis attaches to every Expr,
// factored into a shared struct so each concrete node can embed it
// instead of repeating the same three fields.
type ExprAnnotations struct {
	Type   *types.Type // the expression's value type
	AsType *types.Type // set when the expression denotes a type
	I64    *int64      // resolved constant value, for integer expressions
}

func (a *ExprAnnotations) Annotations() *ExprAnnotations { return a }

// IdentExpr is a bare identifier reference.
type IdentExpr struct {
	ExprAnnotations
	Name string
	Loc  Location
	Decl Decl // resolved declaration (non-owning), set post-analysis
}

func (*IdentExpr) exprNode()       {}
func (i *IdentExpr) Pos() Location { return i.Loc }

// IntLitExpr is an integer literal.
type IntLitExpr struct {
	ExprAnnotations
	Value uint64
	Hex   bool
	Loc   Location
}

func (*IntLitExpr) exprNode()       {}
func (i *IntLitExpr) Pos() Location { return i.Loc }

// FloatLitExpr is a float literal.
type FloatLitExpr struct {
	ExprAnnotations
	Value float64
	Loc   Location
}

func (*FloatLitExpr) exprNode()       {}
func (f *FloatLitExpr) Pos() Location { return f.Loc }

// BoolLitExpr is a boolean literal.
type BoolLitExpr struct {
	ExprAnnotations
	Value bool
	Loc   Location
}

func (*BoolLitExpr) exprNode()       {}
func (b *BoolLitExpr) Pos() Location { return b.Loc }

// StringLitExpr is a string literal.
type StringLitExpr struct {
	ExprAnnotations
	Value string
	Loc   Location
}

func (*StringLitExpr) exprNode()       {}
func (s *StringLitExpr) Pos() Location { return s.Loc }

// PrimTypeExpr is a primitive or typed-vector type keyword used in
// type position (e.g. `float4`, `bool`, `int32`).
type PrimTypeExpr struct {
	ExprAnnotations
	Name string // normalized spelling, e.g. "float4", "int4x4"
	Loc  Location
}

func (*PrimTypeExpr) exprNode()       {}
func (p *PrimTypeExpr) Pos() Location { return p.Loc }

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	ExprAnnotations
	Op      UnaryOp
	Operand Expr
	Loc     Location
}

func (*UnaryExpr) exprNode()       {}
func (u *UnaryExpr) Pos() Location { return u.Loc }

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota // !
	UnaryNeg                // -
	UnaryBitNot             // ~
)

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	ExprAnnotations
	Op    BinaryOp
	Left  Expr
	Right Expr
	Loc   Location
}

func (*BinaryExpr) exprNode()       {}
func (b *BinaryExpr) Pos() Location { return b.Loc }

// BinaryOp enumerates binary operators, ordered by the precedence
// table in the grammar (lowest first); the numeric values are not
// significant beyond identity.
type BinaryOp uint8

const (
	BinOr BinaryOp = iota
	BinAnd
	BinBitOr
	BinBitXor
	BinBitAnd
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinShl
	BinShr
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinMod
)

// CallExpr is `callee(args...)` — a function call or a type-conversion
// constructor, disambiguated during analysis by the callee's type.
type CallExpr struct {
	ExprAnnotations
	Callee Expr
	Args   []Expr
	Loc    Location
}

func (*CallExpr) exprNode()       {}
func (c *CallExpr) Pos() Location { return c.Loc }

// BuiltinCallExpr is `@name(args...)`.
type BuiltinCallExpr struct {
	ExprAnnotations
	Name string // without leading '@'
	Args []Expr
	Loc  Location
}

func (*BuiltinCallExpr) exprNode()       {}
func (b *BuiltinCallExpr) Pos() Location { return b.Loc }

// MemberExpr is `base.field`.
type MemberExpr struct {
	ExprAnnotations
	Base  Expr
	Field string
	Loc   Location
}

func (*MemberExpr) exprNode()       {}
func (m *MemberExpr) Pos() Location { return m.Loc }

// IndexExpr is `base[index]`.
type IndexExpr struct {
	ExprAnnotations
	Base  Expr
	Index Expr
	Loc   Location
}

func (*IndexExpr) exprNode()       {}
func (i *IndexExpr) Pos() Location { return i.Loc }

// StructTypeExpr is `struct(layout) { fields... }` in type position.
type StructTypeExpr struct {
	ExprAnnotations
	Name       string // "" for anonymous
	LayoutName string // "", "std140", or "std430"
	Fields     []*StructFieldExpr
	Loc        Location
}

func (*StructTypeExpr) exprNode()       {}
func (s *StructTypeExpr) Pos() Location { return s.Loc }

// StructFieldExpr is one member of a struct type expression.
type StructFieldExpr struct {
	Name  string
	Type  Expr
	Attrs []Attribute
	Loc   Location
}

// ArrayTypeExpr is `elem[size]` or `elem[]` (runtime array) in type position.
type ArrayTypeExpr struct {
	ExprAnnotations
	Elem    Expr
	Size    Expr // nil for runtime array
	Runtime bool
	Loc     Location
}

func (*ArrayTypeExpr) exprNode()       {}
func (a *ArrayTypeExpr) Pos() Location { return a.Loc }

// StructLitExpr is `Type{ .f = v, ... }`.
type StructLitExpr struct {
	ExprAnnotations
	TypeExpr Expr
	Fields   []*StructLitField
	Loc      Location
}

func (*StructLitExpr) exprNode()       {}
func (s *StructLitExpr) Pos() Location { return s.Loc }

// StructLitField is one `.name = value` entry in a struct literal.
type StructLitField struct {
	Name  string
	Value Expr
	Loc   Location
}
