// Package parser implements C1, the Source Parser & Subset Validator:
// parse_and_validate(source, filename) -> (Module, Diagnostics) (§4.1).
// Recursive-descent, grounded on the teacher's internal/parser Pratt-style
// precedence climbing for expressions, rewritten against the SOURCE
// subset's grammar (annotated defs/classes, container literals,
// comprehensions) instead of AILANG's expression language.
package parser

import (
	"strconv"

	"github.com/shakfu/mgen-sub001/internal/ast"
	mgerrors "github.com/shakfu/mgen-sub001/internal/errors"
	"github.com/shakfu/mgen-sub001/internal/lexer"
	"github.com/shakfu/mgen-sub001/internal/types"
)

// Parser holds the token stream and accumulated diagnostics for one file.
type Parser struct {
	lex   *lexer.Lexer
	cur   lexer.Token
	next  lexer.Token
	file  string
	diags mgerrors.Bag
}

// ParseAndValidate implements C1's entry point.
func ParseAndValidate(source []byte, filename string) (*ast.Module, []*mgerrors.Diagnostic) {
	p := &Parser{lex: lexer.New(source, filename), file: filename}
	p.advance()
	p.advance()
	mod := p.parseModule()
	return mod, p.diags.All()
}

func (p *Parser) advance() {
	p.cur = p.next
	p.next = p.lex.Next()
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) at(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) nextIs(t lexer.TokenType) bool { return p.next.Type == t }

func (p *Parser) expect(t lexer.TokenType, what string) bool {
	if p.cur.Type != t {
		p.diags.Add(mgerrors.New(mgerrors.ParUnexpectedToken, p.pos(),
			"expected %s, got %q", what, p.cur.Literal))
		return false
	}
	p.advance()
	return true
}

// skipNewlines consumes any run of blank NEWLINE tokens between statements.
func (p *Parser) skipNewlines() {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) unsupported(pos ast.Pos, feature, suggestion string) {
	p.diags.Add(mgerrors.New(mgerrors.ParUnsupportedFeature, pos,
		"%s is not supported by MGen's accepted subset", feature).WithSuggestion(suggestion))
}

// parseModule parses top-level declarations until EOF.
func (p *Parser) parseModule() *ast.Module {
	mod := &ast.Module{Filename: p.file}
	p.skipNewlines()
	for !p.at(lexer.EOF) {
		d := p.parseDecl()
		if d != nil {
			mod.Decls = append(mod.Decls, d)
		}
		p.skipNewlines()
	}
	return mod
}

func (p *Parser) parseDecl() ast.Decl {
	switch p.cur.Type {
	case lexer.AT:
		pos := p.pos()
		p.unsupported(pos, "decorators", "inline the decorator's behavior by hand, or remove it")
		p.skipLogicalLine()
		return nil
	case lexer.IMPORT:
		return p.parseImport()
	case lexer.DEF:
		return p.parseFunctionDef("")
	case lexer.ASYNC:
		pos := p.pos()
		p.unsupported(pos, "asynchronous function definitions", "use a synchronous function")
		p.skipBlockOrLine()
		return nil
	case lexer.CLASS:
		return p.parseClassDef()
	case lexer.IDENT:
		return p.parseGlobalVar()
	default:
		pos := p.pos()
		p.diags.Add(mgerrors.New(mgerrors.ParUnexpectedToken, pos, "unexpected token %q at top level", p.cur.Literal))
		p.advance()
		return nil
	}
}

// skipLogicalLine advances past tokens until the next NEWLINE, used to
// resynchronize after reporting an unsupported single-line construct.
func (p *Parser) skipLogicalLine() {
	for !p.at(lexer.NEWLINE) && !p.at(lexer.EOF) {
		p.advance()
	}
}

// skipBlockOrLine skips a header line and, if followed by an indented
// block, the whole block -- used to resynchronize after an unsupported
// compound statement (async def, with, try, ...).
func (p *Parser) skipBlockOrLine() {
	p.skipLogicalLine()
	if p.at(lexer.NEWLINE) {
		p.advance()
	}
	if p.at(lexer.INDENT) {
		depth := 1
		p.advance()
		for depth > 0 && !p.at(lexer.EOF) {
			if p.at(lexer.INDENT) {
				depth++
			} else if p.at(lexer.DEDENT) {
				depth--
			}
			p.advance()
		}
	}
}

func (p *Parser) parseImport() ast.Decl {
	pos := p.pos()
	p.advance() // 'import'
	path := p.cur.Literal
	p.expect(lexer.IDENT, "module path")
	for p.at(lexer.DOT) {
		p.advance()
		path += "." + p.cur.Literal
		p.expect(lexer.IDENT, "module path segment")
	}
	return &ast.Import{Path: path, Pos: pos}
}

func (p *Parser) parseGlobalVar() ast.Decl {
	pos := p.pos()
	name := p.cur.Literal
	p.advance()
	p.expect(lexer.COLON, "':' after global variable name")
	annotation := p.parseTypeAnnotation()
	var value ast.Expr
	if p.at(lexer.ASSIGN) {
		p.advance()
		value = p.parseExpr()
	}
	return &ast.GlobalVar{Name: name, Annotation: annotation, Value: value, Pos: pos}
}

// parseFunctionDef parses `def name(params) -> ret: body`. className is
// non-empty when parsing a method inside a ClassDef.
func (p *Parser) parseFunctionDef(className string) *ast.FunctionDef {
	pos := p.pos()
	p.advance() // 'def'
	name := p.cur.Literal
	p.expect(lexer.IDENT, "function name")
	p.expect(lexer.LPAREN, "'(' after function name")
	params := p.parseParams()
	p.expect(lexer.RPAREN, "')' after parameter list")
	var ret ast.SemanticType = types.Void
	if p.at(lexer.ARROW) {
		p.advance()
		ret = p.parseTypeAnnotation()
	}
	p.expect(lexer.COLON, "':' before function body")
	body := p.parseBlock()
	return &ast.FunctionDef{
		Name: name, Params: params, ReturnType: ret, Body: body,
		IsMethod: className != "", ClassName: className, Pos: pos,
	}
}

func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		if p.at(lexer.STAR) || p.at(lexer.DSTAR) {
			pos := p.pos()
			p.unsupported(pos, "*args/**kwargs parameters", "enumerate fixed, annotated parameters instead")
			p.advance()
			if p.at(lexer.IDENT) {
				p.advance()
			}
		} else {
			pp := p.pos()
			name := p.cur.Literal
			p.expect(lexer.IDENT, "parameter name")
			var ann ast.SemanticType = types.Unknown()
			if p.at(lexer.COLON) {
				p.advance()
				ann = p.parseTypeAnnotation()
			}
			if p.at(lexer.ASSIGN) { // default value: parsed and discarded, not part of the subset's type story
				p.advance()
				p.parseExpr()
			}
			params = append(params, &ast.Param{Name: name, Annotation: ann, Pos: pp})
		}
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	return params
}

// parseTypeAnnotation parses a type expression: a bare name (int, float,
// bool, str, a user class) or a parameterized container
// (list[T], dict[K,V], set[T], tuple[T,...]).
func (p *Parser) parseTypeAnnotation() ast.SemanticType {
	name := p.cur.Literal
	pos := p.pos()
	if p.at(lexer.NONE) {
		p.advance()
		return types.Void
	}
	if !p.expect(lexer.IDENT, "type name") {
		return types.Unknown()
	}
	switch name {
	case "int":
		return types.Int
	case "float":
		return types.Float
	case "bool":
		return types.Bool
	case "str":
		return types.Str
	case "None":
		return types.Void
	case "list", "List":
		return types.List(p.parseBracketedSingleType(pos))
	case "set", "Set":
		return types.Set(p.parseBracketedSingleType(pos))
	case "dict", "Dict":
		return p.parseDictType(pos)
	case "tuple", "Tuple":
		return p.parseTupleType()
	default:
		return types.User(name)
	}
}

func (p *Parser) parseBracketedSingleType(pos ast.Pos) ast.SemanticType {
	if !p.at(lexer.LBRACKET) {
		return types.Unknown()
	}
	p.advance()
	t := p.parseTypeAnnotation()
	p.expect(lexer.RBRACKET, "']' closing parameterized type")
	if st, ok := t.(*types.Type); ok {
		return st
	}
	return types.Unknown()
}

func (p *Parser) parseDictType(pos ast.Pos) ast.SemanticType {
	if !p.at(lexer.LBRACKET) {
		return types.Dict(types.Unknown(), types.Unknown())
	}
	p.advance()
	k := p.parseTypeAnnotation()
	p.expect(lexer.COMMA, "',' between dict key and value types")
	v := p.parseTypeAnnotation()
	p.expect(lexer.RBRACKET, "']' closing dict type")
	kt, _ := k.(*types.Type)
	vt, _ := v.(*types.Type)
	if kt == nil {
		kt = types.Unknown()
	}
	if vt == nil {
		vt = types.Unknown()
	}
	return types.Dict(kt, vt)
}

func (p *Parser) parseTupleType() ast.SemanticType {
	if !p.at(lexer.LBRACKET) {
		return types.TupleOf()
	}
	p.advance()
	var elems []*types.Type
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		t := p.parseTypeAnnotation()
		if st, ok := t.(*types.Type); ok {
			elems = append(elems, st)
		}
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACKET, "']' closing tuple type")
	return types.TupleOf(elems...)
}

func (p *Parser) parseClassDef() *ast.ClassDef {
	pos := p.pos()
	p.advance() // 'class'
	name := p.cur.Literal
	p.expect(lexer.IDENT, "class name")
	if p.at(lexer.LPAREN) {
		p.advance()
		baseCount := 0
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			basePos := p.pos()
			if p.at(lexer.IDENT) && p.cur.Literal == "metaclass" {
				p.unsupported(basePos, "metaclasses", "remove the metaclass argument")
			}
			baseCount++
			p.advance()
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RPAREN, "')' closing base-class list")
		if baseCount > 1 {
			p.unsupported(pos, "multiple inheritance", "give the class a single base, or none")
		}
	}
	p.expect(lexer.COLON, "':' before class body")
	cls := &ast.ClassDef{Name: name, Pos: pos}
	p.expect(lexer.NEWLINE, "newline before class body")
	p.expect(lexer.INDENT, "indented class body")
	for !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
		p.skipNewlines()
		if p.at(lexer.DEDENT) {
			break
		}
		if p.at(lexer.DEF) {
			m := p.parseFunctionDef(name)
			if m.Name == "__init__" {
				cls.Fields = p.fieldsFromInit(m)
			}
			cls.Methods = append(cls.Methods, m)
		} else {
			p.skipLogicalLine()
			if p.at(lexer.NEWLINE) {
				p.advance()
			}
		}
		p.skipNewlines()
	}
	if p.at(lexer.DEDENT) {
		p.advance()
	}
	return cls
}

// fieldsFromInit derives the class's typed fields from `self.x: T = ...`
// assignments in the constructor body, the idiom the subset recognizes for
// class attributes (no separate field-declaration syntax).
func (p *Parser) fieldsFromInit(init *ast.FunctionDef) []*ast.Field {
	var fields []*ast.Field
	for _, s := range init.Body {
		ann, ok := s.(*ast.AnnAssign)
		if !ok {
			continue
		}
		attr, ok := ann.Target.(*ast.Attribute)
		if !ok {
			continue
		}
		if recv, ok := attr.Value.(*ast.Name); !ok || recv.Ident != "self" {
			continue
		}
		fields = append(fields, &ast.Field{Name: attr.Attr, Annotation: ann.Annotation, Pos: ann.Position()})
	}
	return fields
}

// parseBlock parses a `:` NEWLINE INDENT stmt+ DEDENT block.
func (p *Parser) parseBlock() []ast.Stmt {
	if !p.at(lexer.NEWLINE) {
		// single-line body: `if x: return y`
		return []ast.Stmt{p.parseSimpleStmt()}
	}
	p.advance()
	if !p.expect(lexer.INDENT, "indented block") {
		return nil
	}
	var stmts []ast.Stmt
	for !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
		p.skipNewlines()
		if p.at(lexer.DEDENT) || p.at(lexer.EOF) {
			break
		}
		stmts = append(stmts, p.parseStmt())
		p.skipNewlines()
	}
	if p.at(lexer.DEDENT) {
		p.advance()
	}
	return stmts
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Type {
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.WITH:
		pos := p.pos()
		p.unsupported(pos, "context-manager (`with`) statements", "acquire/release the resource explicitly")
		p.skipBlockOrLine()
		return &ast.Pass{StmtBase: ast.StmtBase{Pos: pos}}
	case lexer.TRY:
		pos := p.pos()
		p.unsupported(pos, "exception handling (try/except)", "validate inputs before calling, and return a sentinel/None on failure")
		p.skipBlockOrLine()
		return &ast.Pass{StmtBase: ast.StmtBase{Pos: pos}}
	case lexer.RAISE:
		pos := p.pos()
		p.unsupported(pos, "raise statements", "return an error sentinel instead of raising")
		p.skipLogicalLine()
		return &ast.Pass{StmtBase: ast.StmtBase{Pos: pos}}
	case lexer.GLOBAL, lexer.NONLOCAL:
		pos := p.pos()
		p.unsupported(pos, "global/nonlocal declarations", "pass the value as a parameter or return it")
		p.skipLogicalLine()
		return &ast.Pass{StmtBase: ast.StmtBase{Pos: pos}}
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.pos()
	p.advance() // 'if'
	cond := p.parseExpr()
	p.expect(lexer.COLON, "':' after if condition")
	then := p.parseBlock()
	var els []ast.Stmt
	if p.at(lexer.ELIF) {
		els = []ast.Stmt{p.parseIf()}
	} else if p.at(lexer.ELSE) {
		p.advance()
		p.expect(lexer.COLON, "':' after else")
		els = p.parseBlock()
	}
	return &ast.If{StmtBase: ast.StmtBase{Pos: pos}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.pos()
	p.advance() // 'while'
	cond := p.parseExpr()
	p.expect(lexer.COLON, "':' after while condition")
	body := p.parseBlock()
	return &ast.While{StmtBase: ast.StmtBase{Pos: pos}, Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.pos()
	p.advance() // 'for'
	target := p.parsePrimaryTarget()
	p.expect(lexer.IN, "'in' after for target")
	iter := p.parseExpr()
	p.expect(lexer.COLON, "':' after for iterable")
	body := p.parseBlock()
	return &ast.For{StmtBase: ast.StmtBase{Pos: pos}, Target: target, Iter: iter, Body: body}
}

// parsePrimaryTarget parses the target of a `for` header: a single name.
// A tuple target such as `k, v` is not accepted; its comma is reported as
// an unexpected token where `in` is expected.
func (p *Parser) parsePrimaryTarget() ast.Expr {
	return p.parseName()
}

func (p *Parser) parseName() ast.Expr {
	pos := p.pos()
	lit := p.cur.Literal
	p.expect(lexer.IDENT, "identifier")
	return &ast.Name{Ident: lit, ExprBase: ast.ExprBase{Pos: pos}}
}

func (p *Parser) parseSimpleStmt() ast.Stmt {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.RETURN:
		p.advance()
		if p.at(lexer.NEWLINE) || p.at(lexer.DEDENT) || p.at(lexer.EOF) {
			return &ast.Return{StmtBase: ast.StmtBase{Pos: pos}}
		}
		return &ast.Return{StmtBase: ast.StmtBase{Pos: pos}, Value: p.parseExpr()}
	case lexer.PASS:
		p.advance()
		return &ast.Pass{StmtBase: ast.StmtBase{Pos: pos}}
	case lexer.BREAK:
		p.advance()
		return &ast.Break{StmtBase: ast.StmtBase{Pos: pos}}
	case lexer.CONTINUE:
		p.advance()
		return &ast.Continue{StmtBase: ast.StmtBase{Pos: pos}}
	case lexer.YIELD:
		p.unsupported(pos, "yield / generator functions", "build and return a complete list instead of yielding")
		p.skipLogicalLine()
		return &ast.Pass{StmtBase: ast.StmtBase{Pos: pos}}
	}

	expr := p.parseExpr()

	switch p.cur.Type {
	case lexer.COLON:
		p.advance()
		ann := p.parseTypeAnnotation()
		var value ast.Expr
		if p.at(lexer.ASSIGN) {
			p.advance()
			value = p.parseExpr()
		}
		return &ast.AnnAssign{StmtBase: ast.StmtBase{Pos: pos}, Target: expr, Annotation: ann, Value: value}
	case lexer.ASSIGN:
		p.advance()
		value := p.parseExpr()
		return &ast.Assign{StmtBase: ast.StmtBase{Pos: pos}, Target: expr, Value: value}
	case lexer.PLUSEQ, lexer.MINUSEQ, lexer.STAREQ, lexer.SLASHEQ, lexer.PERCENTEQ:
		op := augOpSymbol(p.cur.Type)
		p.advance()
		value := p.parseExpr()
		return &ast.AugAssign{StmtBase: ast.StmtBase{Pos: pos}, Target: expr, Op: op, Value: value}
	default:
		return &ast.ExprStmt{StmtBase: ast.StmtBase{Pos: pos}, X: expr}
	}
}

func augOpSymbol(t lexer.TokenType) string {
	switch t {
	case lexer.PLUSEQ:
		return "+"
	case lexer.MINUSEQ:
		return "-"
	case lexer.STAREQ:
		return "*"
	case lexer.SLASHEQ:
		return "/"
	case lexer.PERCENTEQ:
		return "%"
	default:
		return "?"
	}
}

// ---- Expression parsing (precedence climbing) ----

func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	if p.at(lexer.OR) {
		vals := []ast.Expr{left}
		for p.at(lexer.OR) {
			p.advance()
			vals = append(vals, p.parseAnd())
		}
		return &ast.BoolOp{ExprBase: ast.ExprBase{Pos: left.Position()}, Op: "or", Values: vals}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseNot()
	if p.at(lexer.AND) {
		vals := []ast.Expr{left}
		for p.at(lexer.AND) {
			p.advance()
			vals = append(vals, p.parseNot())
		}
		return &ast.BoolOp{ExprBase: ast.ExprBase{Pos: left.Position()}, Op: "and", Values: vals}
	}
	return left
}

func (p *Parser) parseNot() ast.Expr {
	if p.at(lexer.NOT) {
		p.advance()
		return &ast.UnaryOp{Op: "not", X: p.parseNot()}
	}
	return p.parseComparison()
}

var compareOps = map[lexer.TokenType]string{
	lexer.LT: "<", lexer.GT: ">", lexer.LTE: "<=", lexer.GTE: ">=",
	lexer.EQ: "==", lexer.NEQ: "!=", lexer.IN: "in",
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseBitOr()
	var ops []string
	var comps []ast.Expr
	for {
		op, ok := compareOps[p.cur.Type]
		if !ok {
			break
		}
		p.advance()
		ops = append(ops, op)
		comps = append(comps, p.parseBitOr())
	}
	if len(ops) == 0 {
		return left
	}
	leftPos := left.Position()
		return &ast.Compare{ExprBase: ast.ExprBase{Pos: leftPos}, Left: left, Ops: ops, Comps: comps}
}

func (p *Parser) parseBitOr() ast.Expr {
	left := p.parseBitXor()
	for p.at(lexer.PIPE) {
		p.advance()
		left = &ast.BinOp{ExprBase: ast.ExprBase{Pos: left.Position()}, Op: "|", Left: left, Right: p.parseBitXor()}
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expr {
	left := p.parseBitAnd()
	for p.at(lexer.CARET) {
		p.advance()
		left = &ast.BinOp{ExprBase: ast.ExprBase{Pos: left.Position()}, Op: "^", Left: left, Right: p.parseBitAnd()}
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expr {
	left := p.parseShift()
	for p.at(lexer.AMP) {
		p.advance()
		left = &ast.BinOp{ExprBase: ast.ExprBase{Pos: left.Position()}, Op: "&", Left: left, Right: p.parseShift()}
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseAddSub()
	for p.at(lexer.LSHIFT) || p.at(lexer.RSHIFT) {
		op := "<<"
		if p.at(lexer.RSHIFT) {
			op = ">>"
		}
		p.advance()
		left = &ast.BinOp{ExprBase: ast.ExprBase{Pos: left.Position()}, Op: op, Left: left, Right: p.parseAddSub()}
	}
	return left
}

func (p *Parser) parseAddSub() ast.Expr {
	left := p.parseMulDiv()
	for p.at(lexer.PLUS) || p.at(lexer.MINUS) {
		op := "+"
		if p.at(lexer.MINUS) {
			op = "-"
		}
		p.advance()
		left = &ast.BinOp{ExprBase: ast.ExprBase{Pos: left.Position()}, Op: op, Left: left, Right: p.parseMulDiv()}
	}
	return left
}

func (p *Parser) parseMulDiv() ast.Expr {
	left := p.parseUnary()
	for p.at(lexer.STAR) || p.at(lexer.SLASH) || p.at(lexer.DSLASH) || p.at(lexer.PERCENT) {
		var op string
		switch p.cur.Type {
		case lexer.STAR:
			op = "*"
		case lexer.SLASH:
			op = "/"
		case lexer.DSLASH:
			op = "//"
		case lexer.PERCENT:
			op = "%"
		}
		p.advance()
		left = &ast.BinOp{ExprBase: ast.ExprBase{Pos: left.Position()}, Op: op, Left: left, Right: p.parseUnary()}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(lexer.MINUS) {
		pos := p.pos()
		p.advance()
		return &ast.UnaryOp{ExprBase: ast.ExprBase{Pos: pos}, Op: "-", X: p.parseUnary()}
	}
	if p.at(lexer.PLUS) {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *Parser) parsePower() ast.Expr {
	left := p.parsePostfix()
	if p.at(lexer.DSTAR) {
		p.advance()
		right := p.parseUnary() // right-associative
		return &ast.BinOp{ExprBase: ast.ExprBase{Pos: left.Position()}, Op: "**", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur.Type {
		case lexer.DOT:
			p.advance()
			attr := p.cur.Literal
			p.expect(lexer.IDENT, "attribute name")
			expr = &ast.Attribute{ExprBase: ast.ExprBase{Pos: expr.Position()}, Value: expr, Attr: attr}
		case lexer.LPAREN:
			p.advance()
			var args []ast.Expr
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				args = append(args, p.parseExpr())
				if p.at(lexer.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN, "')' closing call arguments")
			expr = &ast.Call{ExprBase: ast.ExprBase{Pos: expr.Position()}, Func: expr, Args: args}
		case lexer.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			p.expect(lexer.RBRACKET, "']' closing subscript")
			expr = &ast.Subscript{ExprBase: ast.ExprBase{Pos: expr.Position()}, Value: expr, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.INT:
		v, _ := strconv.ParseInt(p.cur.Literal, 10, 64)
		p.advance()
		return &ast.Constant{Kind: ast.ConstInt, Int: v, ExprBase: ast.ExprBase{Pos: pos}}
	case lexer.FLOAT:
		v, _ := strconv.ParseFloat(p.cur.Literal, 64)
		p.advance()
		return &ast.Constant{Kind: ast.ConstFloat, Float: v, ExprBase: ast.ExprBase{Pos: pos}}
	case lexer.STRING:
		v := p.cur.Literal
		p.advance()
		return &ast.Constant{Kind: ast.ConstStr, Str: v, ExprBase: ast.ExprBase{Pos: pos}}
	case lexer.TRUE:
		p.advance()
		return &ast.Constant{Kind: ast.ConstBool, Bool: true, ExprBase: ast.ExprBase{Pos: pos}}
	case lexer.FALSE:
		p.advance()
		return &ast.Constant{Kind: ast.ConstBool, Bool: false, ExprBase: ast.ExprBase{Pos: pos}}
	case lexer.NONE:
		p.advance()
		return &ast.Constant{Kind: ast.ConstNone, ExprBase: ast.ExprBase{Pos: pos}}
	case lexer.LAMBDA:
		p.unsupported(pos, "lambda expressions outside callback position", "define a named function instead")
		p.skipLogicalLine()
		return &ast.Constant{Kind: ast.ConstNone, ExprBase: ast.ExprBase{Pos: pos}}
	case lexer.AWAIT:
		p.unsupported(pos, "await expressions", "call the synchronous equivalent")
		p.advance()
		return p.parseUnary()
	case lexer.IDENT:
		lit := p.cur.Literal
		p.advance()
		return &ast.Name{Ident: lit, ExprBase: ast.ExprBase{Pos: pos}}
	case lexer.LPAREN:
		p.advance()
		if p.at(lexer.RPAREN) {
			p.advance()
			return &ast.Tuple{ExprBase: ast.ExprBase{Pos: pos}}
		}
		first := p.parseExpr()
		if p.genexpLookahead() {
			p.unsupported(pos, "generator expressions", "use a list comprehension instead")
			p.consumeForIfTail()
			p.expect(lexer.RPAREN, "')' closing generator expression")
			return &ast.Constant{Kind: ast.ConstNone, ExprBase: ast.ExprBase{Pos: pos}}
		}
		if p.at(lexer.COMMA) {
			elts := []ast.Expr{first}
			for p.at(lexer.COMMA) {
				p.advance()
				if p.at(lexer.RPAREN) {
					break
				}
				elts = append(elts, p.parseExpr())
			}
			p.expect(lexer.RPAREN, "')' closing tuple")
			return &ast.Tuple{Elts: elts, ExprBase: ast.ExprBase{Pos: pos}}
		}
		p.expect(lexer.RPAREN, "')' closing parenthesized expression")
		return first
	case lexer.LBRACKET:
		return p.parseListOrComp(pos)
	case lexer.LBRACE:
		return p.parseDictOrSetOrComp(pos)
	default:
		p.diags.Add(mgerrors.New(mgerrors.ParUnexpectedToken, pos, "unexpected token %q in expression", p.cur.Literal))
		p.advance()
		return &ast.Constant{Kind: ast.ConstNone, ExprBase: ast.ExprBase{Pos: pos}}
	}
}

// genexpLookahead reports whether the parser is sitting at `for` directly
// after a parenthesized expression, i.e. a bare generator expression
// `(expr for x in xs)`.
func (p *Parser) genexpLookahead() bool { return p.at(lexer.FOR) }

func (p *Parser) consumeForIfTail() {
	for p.at(lexer.FOR) || p.at(lexer.IF) || p.at(lexer.IN) || p.at(lexer.IDENT) {
		if p.at(lexer.RPAREN) {
			break
		}
		p.advance()
	}
}

func (p *Parser) parseListOrComp(pos ast.Pos) ast.Expr {
	p.advance() // '['
	if p.at(lexer.RBRACKET) {
		p.advance()
		return &ast.List{ExprBase: ast.ExprBase{Pos: pos}}
	}
	first := p.parseExpr()
	if p.at(lexer.FOR) {
		target, iter, ifs := p.parseCompClause()
		p.expect(lexer.RBRACKET, "']' closing list comprehension")
		return &ast.ListComp{Elt: first, Target: target, Iter: iter, Ifs: ifs, ExprBase: ast.ExprBase{Pos: pos}}
	}
	elts := []ast.Expr{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACKET) {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	p.expect(lexer.RBRACKET, "']' closing list literal")
	return &ast.List{Elts: elts, ExprBase: ast.ExprBase{Pos: pos}}
}

func (p *Parser) parseDictOrSetOrComp(pos ast.Pos) ast.Expr {
	p.advance() // '{'
	if p.at(lexer.RBRACE) {
		p.advance()
		return &ast.Dict{ExprBase: ast.ExprBase{Pos: pos}} // `{}` is an empty dict, matching the reference language
	}
	firstKey := p.parseExpr()
	if p.at(lexer.COLON) {
		p.advance()
		firstVal := p.parseExpr()
		if p.at(lexer.FOR) {
			target, iter, ifs := p.parseCompClause()
			p.expect(lexer.RBRACE, "'}' closing dict comprehension")
			return &ast.DictComp{Key: firstKey, Value: firstVal, Target: target, Iter: iter, Ifs: ifs, ExprBase: ast.ExprBase{Pos: pos}}
		}
		entries := []ast.DictEntry{{Key: firstKey, Value: firstVal}}
		for p.at(lexer.COMMA) {
			p.advance()
			if p.at(lexer.RBRACE) {
				break
			}
			k := p.parseExpr()
			p.expect(lexer.COLON, "':' in dict literal")
			v := p.parseExpr()
			entries = append(entries, ast.DictEntry{Key: k, Value: v})
		}
		p.expect(lexer.RBRACE, "'}' closing dict literal")
		return &ast.Dict{Entries: entries, ExprBase: ast.ExprBase{Pos: pos}}
	}
	if p.at(lexer.FOR) {
		target, iter, ifs := p.parseCompClause()
		p.expect(lexer.RBRACE, "'}' closing set comprehension")
		return &ast.SetComp{Elt: firstKey, Target: target, Iter: iter, Ifs: ifs, ExprBase: ast.ExprBase{Pos: pos}}
	}
	elts := []ast.Expr{firstKey}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACE) {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	p.expect(lexer.RBRACE, "'}' closing set literal")
	return &ast.Set{Elts: elts, ExprBase: ast.ExprBase{Pos: pos}}
}

// parseCompClause parses the `for target in iter (if cond)*` tail shared by
// list/dict/set comprehensions.
func (p *Parser) parseCompClause() (target, iter ast.Expr, ifs []ast.Expr) {
	p.advance() // 'for'
	target = p.parseName()
	p.expect(lexer.IN, "'in' in comprehension")
	iter = p.parseOr()
	for p.at(lexer.IF) {
		p.advance()
		ifs = append(ifs, p.parseOr())
	}
	return
}
