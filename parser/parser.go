// Package parser turns a Dusk token stream into an *ast.File
// (component C3).
package parser

import (
	"strconv"
	"strings"

	"github.com/dusklang/duskc/ast"
	"github.com/dusklang/duskc/diag"
	"github.com/dusklang/duskc/lexer"
)

// Parser is a recursive-descent, operator-precedence parser over a
// pre-lexed token slice. Unlike the analyzer passes, a parse error
// unwinds immediately: there is no meaningful partial AST to keep
// analyzing once the grammar itself has been violated.
type Parser struct {
	file   string
	tokens []lexer.Token
	pos    int
}

// New creates a parser over tokens, which must be a complete stream
// ending in an EOF token (as produced by lexer.Tokenize).
func New(file string, tokens []lexer.Token) *Parser {
	return &Parser{file: file, tokens: tokens}
}

// Parse consumes the full token stream and returns the parsed file.
func Parse(file, source string) (*ast.File, error) {
	toks, err := lexer.New(file, source).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(file, toks).ParseFile()
}

// ParseFile parses a sequence of top-level declarations until EOF.
func (p *Parser) ParseFile() (*ast.File, error) {
	f := &ast.File{Name: p.file, Scope: ast.NewScope(ast.ScopeFile, nil)}
	for !p.check(lexer.EOF) {
		d, err := p.topLevelDecl()
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, d)
	}
	return f, nil
}

// ---- declarations ----

func (p *Parser) topLevelDecl() (ast.Decl, error) {
	attrs, err := p.maybeAttributes()
	if err != nil {
		return nil, err
	}

	switch {
	case p.check(lexer.KwFn):
		return p.funcDecl(attrs)
	case p.check(lexer.KwLet):
		return p.varDecl(attrs)
	case p.check(lexer.KwType):
		return p.typeDefDecl()
	default:
		return nil, p.errorf("expected a declaration ('fn', 'let', or 'type')")
	}
}

func (p *Parser) funcDecl(attrs []ast.Attribute) (*ast.FuncDecl, error) {
	start := p.peek()
	if _, err := p.expect(lexer.KwFn); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	scope := ast.NewScope(ast.ScopeFunction, nil)
	var params []*ast.Param
	for !p.check(lexer.RParen) {
		param, err := p.param()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if !p.match(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}

	var retAttrs []ast.Attribute
	var retType ast.Expr
	if !p.check(lexer.LBrace) {
		retAttrs, err = p.maybeAttributes()
		if err != nil {
			return nil, err
		}
		retType, err = p.typeExpr()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.blockStmt()
	if err != nil {
		return nil, err
	}

	fd := &ast.FuncDecl{
		Name:     name.Text,
		Params:   params,
		RetType:  retType,
		RetAttrs: retAttrs,
		Attrs:    attrs,
		Body:     body,
		Scope:    scope,
		Loc:      locOf(start),
	}
	for _, a := range attrs {
		if a.Kind == ast.AttrStage {
			fd.IsEntry = true
			fd.Stage = stageFromArgs(a)
		}
	}
	return fd, nil
}

func stageFromArgs(a ast.Attribute) ast.StageKind {
	if len(a.Args) != 1 {
		return ast.StageNone
	}
	id, ok := a.Args[0].(*ast.IdentExpr)
	if !ok {
		return ast.StageNone
	}
	switch id.Name {
	case "vertex":
		return ast.StageVertex
	case "fragment":
		return ast.StageFragment
	case "compute":
		return ast.StageCompute
	default:
		return ast.StageNone
	}
}

func (p *Parser) param() (*ast.Param, error) {
	attrs, err := p.maybeAttributes()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	typ, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Param{Name: name.Text, Type: typ, Attrs: attrs, Loc: locOf(name)}, nil
}

func (p *Parser) varDecl(attrs []ast.Attribute) (*ast.VarDecl, error) {
	start := p.peek()
	if _, err := p.expect(lexer.KwLet); err != nil {
		return nil, err
	}

	storage := ""
	if p.match(lexer.LParen) {
		id, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		storage = id.Text
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
	}

	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}

	var typeExpr ast.Expr
	if p.match(lexer.Colon) {
		typeExpr, err = p.typeExpr()
		if err != nil {
			return nil, err
		}
	}

	var init ast.Expr
	if p.match(lexer.Equal) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if typeExpr == nil && init == nil {
		return nil, p.errorAt(start, "'let' declaration needs a type annotation, an initializer, or both")
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	return &ast.VarDecl{
		Name: name.Text, StorageExpr: storage, TypeExpr: typeExpr, Init: init,
		Attrs: attrs, Loc: locOf(start),
	}, nil
}

func (p *Parser) typeDefDecl() (*ast.TypeDefDecl, error) {
	start := p.peek()
	if _, err := p.expect(lexer.KwType); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	rhs, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.TypeDefDecl{Name: name.Text, RHS: rhs, Loc: locOf(start)}, nil
}

// ---- attributes ----

// maybeAttributes parses zero or one `[[ name(args), ... ]]` block.
// Two consecutive LBracket tokens mark the start of the block; this is
// unambiguous because attribute blocks only occur at declaration,
// parameter, return-type, and struct-field boundaries, none of which
// can begin a chained array-index expression.
func (p *Parser) maybeAttributes() ([]ast.Attribute, error) {
	if !(p.check(lexer.LBracket) && p.checkAt(1, lexer.LBracket)) {
		return nil, nil
	}
	p.advance()
	p.advance()

	var attrs []ast.Attribute
	for {
		a, err := p.attribute()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
		if !p.match(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return attrs, nil
}

var attrKinds = map[string]ast.AttrKind{
	"location": ast.AttrLocation,
	"set":      ast.AttrSet,
	"binding":  ast.AttrBinding,
	"stage":    ast.AttrStage,
	"builtin":  ast.AttrBuiltin,
	"offset":   ast.AttrOffset,
	"read_only": ast.AttrReadOnly,
}

func (p *Parser) attribute() (ast.Attribute, error) {
	start := p.peek()
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return ast.Attribute{}, err
	}
	kind, known := attrKinds[name.Text]
	if !known {
		kind = ast.AttrUnknown
	}

	var args []ast.Expr
	if p.match(lexer.LParen) {
		for !p.check(lexer.RParen) {
			arg, err := p.expression()
			if err != nil {
				return ast.Attribute{}, err
			}
			args = append(args, arg)
			if !p.match(lexer.Comma) {
				break
			}
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return ast.Attribute{}, err
		}
	}

	return ast.Attribute{Kind: kind, Name: name.Text, Args: args, Loc: locOf(start)}, nil
}

// ---- type expressions ----

func (p *Parser) typeExpr() (ast.Expr, error) {
	base, err := p.typeExprPrimary()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.LBracket) {
		start := p.peek()
		p.advance()
		if p.match(lexer.RBracket) {
			base = &ast.ArrayTypeExpr{Elem: base, Runtime: true, Loc: locOf(start)}
			continue
		}
		size, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		base = &ast.ArrayTypeExpr{Elem: base, Size: size, Loc: locOf(start)}
	}
	return base, nil
}

func (p *Parser) typeExprPrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.KwTypeVector:
		p.advance()
		return &ast.PrimTypeExpr{Name: tok.Text, Loc: locOf(tok)}, nil
	case lexer.Ident:
		p.advance()
		return &ast.IdentExpr{Name: tok.Text, Loc: locOf(tok)}, nil
	case lexer.KwStruct:
		return p.structTypeExpr()
	default:
		return nil, p.errorAt(tok, "expected a type")
	}
}

func (p *Parser) structTypeExpr() (ast.Expr, error) {
	start := p.peek()
	if _, err := p.expect(lexer.KwStruct); err != nil {
		return nil, err
	}
	layout := ""
	if p.match(lexer.LParen) {
		id, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		layout = id.Text
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	var fields []*ast.StructFieldExpr
	for !p.check(lexer.RBrace) {
		fattrs, err := p.maybeAttributes()
		if err != nil {
			return nil, err
		}
		fname, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		ftype, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, &ast.StructFieldExpr{Name: fname.Text, Type: ftype, Attrs: fattrs, Loc: locOf(fname)})
		if !p.match(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return &ast.StructTypeExpr{LayoutName: layout, Fields: fields, Loc: locOf(start)}, nil
}

// ---- statements ----

func (p *Parser) blockStmt() (*ast.BlockStmt, error) {
	start := p.peek()
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	b := &ast.BlockStmt{Scope: ast.NewScope(ast.ScopeBlock, nil), Loc: locOf(start)}
	for !p.check(lexer.RBrace) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.check(lexer.LBrace):
		return p.blockStmt()
	case p.check(lexer.KwLet):
		return p.varDecl(nil)
	case p.check(lexer.KwReturn):
		return p.returnStmt()
	case p.check(lexer.KwDiscard):
		tok := p.advance()
		_, err := p.expect(lexer.Semicolon)
		return &ast.DiscardStmt{Loc: locOf(tok)}, err
	case p.check(lexer.KwIf):
		return p.ifStmt()
	case p.check(lexer.KwWhile):
		return p.whileStmt()
	case p.check(lexer.KwBreak):
		tok := p.advance()
		_, err := p.expect(lexer.Semicolon)
		return &ast.BreakStmt{Loc: locOf(tok)}, err
	case p.check(lexer.KwContinue):
		tok := p.advance()
		_, err := p.expect(lexer.Semicolon)
		return &ast.ContinueStmt{Loc: locOf(tok)}, err
	default:
		return p.exprOrAssignStmt()
	}
}

func (p *Parser) returnStmt() (*ast.ReturnStmt, error) {
	start := p.advance()
	if p.match(lexer.Semicolon) {
		return &ast.ReturnStmt{Loc: locOf(start)}, nil
	}
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: val, Loc: locOf(start)}, nil
}

func (p *Parser) ifStmt() (*ast.IfStmt, error) {
	start := p.advance()
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if p.match(lexer.KwElse) {
		elseStmt, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Loc: locOf(start)}, nil
}

func (p *Parser) whileStmt() (*ast.WhileStmt, error) {
	start := p.advance()
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Loc: locOf(start)}, nil
}

var compoundAssignOps = map[lexer.Kind]ast.BinaryOp{
	lexer.PlusEqual:            ast.BinAdd,
	lexer.MinusEqual:           ast.BinSub,
	lexer.StarEqual:            ast.BinMul,
	lexer.SlashEqual:           ast.BinDiv,
	lexer.PercentEqual:         ast.BinMod,
	lexer.AmpEqual:             ast.BinBitAnd,
	lexer.PipeEqual:            ast.BinBitOr,
	lexer.CaretEqual:           ast.BinBitXor,
	lexer.LessLessEqual:        ast.BinShl,
	lexer.GreaterGreaterEqual:  ast.BinShr,
}

func (p *Parser) exprOrAssignStmt() (ast.Stmt, error) {
	start := p.peek()
	lhs, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.match(lexer.Equal) {
		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		return &ast.AssignStmt{LHS: lhs, RHS: rhs, Loc: locOf(start)}, nil
	}

	if op, ok := compoundAssignOps[p.peek().Kind]; ok {
		p.advance()
		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		desugared := &ast.BinaryExpr{Op: op, Left: lhs, Right: rhs, Loc: locOf(start)}
		return &ast.AssignStmt{LHS: lhs, RHS: desugared, Loc: locOf(start)}, nil
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: lhs, Loc: locOf(start)}, nil
}

// ---- expressions ----
//
// Precedence climbs from logicalOr (lowest) down to postfix/primary
// (highest); postfix access (call/index/member) binds tighter than
// any unary prefix operator.

func (p *Parser) expression() (ast.Expr, error) { return p.logicalOr() }

func (p *Parser) logicalOr() (ast.Expr, error) {
	return p.leftAssoc(p.logicalAnd, map[lexer.Kind]ast.BinaryOp{lexer.PipePipe: ast.BinOr})
}

func (p *Parser) logicalAnd() (ast.Expr, error) {
	return p.leftAssoc(p.bitwiseOr, map[lexer.Kind]ast.BinaryOp{lexer.AmpAmp: ast.BinAnd})
}

func (p *Parser) bitwiseOr() (ast.Expr, error) {
	return p.leftAssoc(p.bitwiseXor, map[lexer.Kind]ast.BinaryOp{lexer.Pipe: ast.BinBitOr})
}

func (p *Parser) bitwiseXor() (ast.Expr, error) {
	return p.leftAssoc(p.bitwiseAnd, map[lexer.Kind]ast.BinaryOp{lexer.Caret: ast.BinBitXor})
}

func (p *Parser) bitwiseAnd() (ast.Expr, error) {
	return p.leftAssoc(p.equality, map[lexer.Kind]ast.BinaryOp{lexer.Amp: ast.BinBitAnd})
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.leftAssoc(p.comparison, map[lexer.Kind]ast.BinaryOp{
		lexer.EqualEqual: ast.BinEq, lexer.BangEqual: ast.BinNe,
	})
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.leftAssoc(p.shift, map[lexer.Kind]ast.BinaryOp{
		lexer.Less: ast.BinLt, lexer.LessEqual: ast.BinLe,
		lexer.Greater: ast.BinGt, lexer.GreaterEqual: ast.BinGe,
	})
}

func (p *Parser) shift() (ast.Expr, error) {
	return p.leftAssoc(p.additive, map[lexer.Kind]ast.BinaryOp{
		lexer.LessLess: ast.BinShl, lexer.GreaterGreater: ast.BinShr,
	})
}

func (p *Parser) additive() (ast.Expr, error) {
	return p.leftAssoc(p.multiplicative, map[lexer.Kind]ast.BinaryOp{
		lexer.Plus: ast.BinAdd, lexer.Minus: ast.BinSub,
	})
}

func (p *Parser) multiplicative() (ast.Expr, error) {
	return p.leftAssoc(p.unary, map[lexer.Kind]ast.BinaryOp{
		lexer.Star: ast.BinMul, lexer.Slash: ast.BinDiv, lexer.Percent: ast.BinMod,
	})
}

func (p *Parser) leftAssoc(next func() (ast.Expr, error), ops map[lexer.Kind]ast.BinaryOp) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek().Kind]
		if !ok {
			return left, nil
		}
		tok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Loc: locOf(tok)}
	}
}

func (p *Parser) unary() (ast.Expr, error) {
	tok := p.peek()
	var op ast.UnaryOp
	switch tok.Kind {
	case lexer.Bang:
		op = ast.UnaryNot
	case lexer.Minus:
		op = ast.UnaryNeg
	case lexer.Tilde:
		op = ast.UnaryBitNot
	default:
		return p.postfix()
	}
	p.advance()
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Op: op, Operand: operand, Loc: locOf(tok)}, nil
}

func (p *Parser) postfix() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(lexer.LParen):
			start := p.advance()
			var args []ast.Expr
			for !p.check(lexer.RParen) {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(lexer.Comma) {
					break
				}
			}
			if _, err := p.expect(lexer.RParen); err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Callee: expr, Args: args, Loc: locOf(start)}

		case p.check(lexer.LBracket):
			start := p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Base: expr, Index: idx, Loc: locOf(start)}

		case p.check(lexer.Dot):
			p.advance()
			field, err := p.expect(lexer.Ident)
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Base: expr, Field: field.Text, Loc: locOf(field)}

		case p.check(lexer.LBrace) && isTypeLikeExpr(expr):
			expr, err = p.structLit(expr)
			if err != nil {
				return nil, err
			}

		default:
			return expr, nil
		}
	}
}

func isTypeLikeExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IdentExpr, *ast.PrimTypeExpr, *ast.StructTypeExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) structLit(typeExpr ast.Expr) (ast.Expr, error) {
	start := p.advance() // '{'
	lit := &ast.StructLitExpr{TypeExpr: typeExpr, Loc: locOf(start)}
	for !p.check(lexer.RBrace) {
		if _, err := p.expect(lexer.Dot); err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Equal); err != nil {
			return nil, err
		}
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		lit.Fields = append(lit.Fields, &ast.StructLitField{Name: name.Text, Value: val, Loc: locOf(name)})
		if !p.match(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.IntLiteral:
		p.advance()
		v, err := parseIntLiteral(tok.Text)
		if err != nil {
			return nil, p.errorAt(tok, "%s", err)
		}
		return &ast.IntLitExpr{Value: v, Hex: strings.HasPrefix(tok.Text, "0x") || strings.HasPrefix(tok.Text, "0X"), Loc: locOf(tok)}, nil
	case lexer.FloatLiteral:
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid float literal %q", tok.Text)
		}
		return &ast.FloatLitExpr{Value: f, Loc: locOf(tok)}, nil
	case lexer.StringLiteral:
		p.advance()
		return &ast.StringLitExpr{Value: tok.Text[1 : len(tok.Text)-1], Loc: locOf(tok)}, nil
	case lexer.KwTrue:
		p.advance()
		return &ast.BoolLitExpr{Value: true, Loc: locOf(tok)}, nil
	case lexer.KwFalse:
		p.advance()
		return &ast.BoolLitExpr{Value: false, Loc: locOf(tok)}, nil
	case lexer.Ident:
		p.advance()
		return &ast.IdentExpr{Name: tok.Text, Loc: locOf(tok)}, nil
	case lexer.KwTypeVector:
		p.advance()
		return &ast.PrimTypeExpr{Name: tok.Text, Loc: locOf(tok)}, nil
	case lexer.KwStruct:
		return p.structTypeExpr()
	case lexer.Builtin:
		p.advance()
		if _, err := p.expect(lexer.LParen); err != nil {
			return nil, err
		}
		var args []ast.Expr
		for !p.check(lexer.RParen) {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(lexer.Comma) {
				break
			}
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return &ast.BuiltinCallExpr{Name: tok.Text[1:], Args: args, Loc: locOf(tok)}, nil
	case lexer.LParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.errorAt(tok, "unexpected %s in expression", tok.Kind)
	}
}

func parseIntLiteral(text string) (uint64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return strconv.ParseUint(text[2:], 16, 64)
	}
	return strconv.ParseUint(text, 10, 64)
}

// ---- cursor helpers ----

func (p *Parser) peek() lexer.Token { return p.tokens[p.pos] }

func (p *Parser) checkAt(offset int, k lexer.Kind) bool {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return k == lexer.EOF
	}
	return p.tokens[idx].Kind == k
}

func (p *Parser) check(k lexer.Kind) bool { return p.peek().Kind == k }

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) match(k lexer.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if !p.check(k) {
		return lexer.Token{}, p.errorf("expected %s, found %s", k, p.peek().Kind)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return p.errorAt(p.peek(), format, args...)
}

func (p *Parser) errorAt(tok lexer.Token, format string, args ...any) error {
	return diag.New(diag.KindParse, diag.Location{
		File: p.file, Offset: tok.Offset, Length: tok.Length, Line: tok.Line, Column: tok.Column,
	}, format, args...)
}

func locOf(tok lexer.Token) ast.Location {
	return ast.Location{Offset: tok.Offset, Length: tok.Length, Line: tok.Line, Column: tok.Column}
}
