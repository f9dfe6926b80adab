// Package parser implements the Dragon-Lang recursive-descent parser of
// spec §4.1.
//
// Unlike the teacher's Pratt parser, Dragon-Lang's expression grammar is
// already written as one precedence level per grammar rule, so the parser
// mirrors that directly: one method per level of
// assignment/logic_or/logic_and/equality/comparison/term/factor/unary/
// primary, each calling down to the next-tighter level. This keeps the
// implementation a direct transliteration of the EBNF in spec §4.1, which
// makes the grammar easy to audit against the parser.
package parser

import (
	"fmt"

	"dragonc/internal/ast"
	"dragonc/internal/diag"
	"dragonc/internal/lexer"
	"dragonc/internal/token"
)

// Parser holds the token cursor and lookahead for one parse.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New constructs a Parser over a complete, EOF-terminated token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes source and parses it into a Program, per spec §6.1/§6.2.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseProgram()
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if !t.IsEOF() {
		p.pos++
	}
	return t
}

func (p *Parser) check(tt token.Type) bool {
	return p.cur().Type == tt
}

func (p *Parser) match(tt token.Type) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt token.Type, what string) (token.Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorf("expected %s but found %q", what, p.cur().Literal)
}

func (p *Parser) errorf(format string, args ...any) error {
	return diag.At(diag.Parse, p.cur().Pos, format, args...)
}

// ParseProgram parses `program := function_decl*` to EOF.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.check(token.EOF) {
		fn, err := p.parseFunctionDecl()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

// parseFunctionDecl parses `"func" IDENT "(" [param ("," param)*] ")" block`.
func (p *Parser) parseFunctionDecl() (*ast.FunctionDecl, error) {
	kw, err := p.expect(token.FUNC, "'func'")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var params []ast.Param
	if !p.check(token.RPAREN) {
		for {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Name: nameTok.Literal, Params: params, Body: body, At: kw.Pos}, nil
}

func (p *Parser) parseParam() (ast.Param, error) {
	tt, err := p.parseType()
	if err != nil {
		return ast.Param{}, err
	}
	nameTok, err := p.expect(token.IDENT, "parameter name")
	if err != nil {
		return ast.Param{}, err
	}
	return ast.Param{Type: tt, Name: nameTok.Literal, At: nameTok.Pos}, nil
}

// parseType parses `"int" | "float" | "bool" | "string"`.
func (p *Parser) parseType() (ast.TypeTag, error) {
	switch p.cur().Type {
	case token.INT_T:
		p.advance()
		return ast.TypeInt, nil
	case token.FLOAT_T:
		p.advance()
		return ast.TypeFloat, nil
	case token.BOOL_T:
		p.advance()
		return ast.TypeBool, nil
	case token.STRING_T:
		p.advance()
		return ast.TypeString, nil
	default:
		return "", p.errorf("expected a type but found %q", p.cur().Literal)
	}
}

func isTypeStart(tt token.Type) bool {
	switch tt {
	case token.INT_T, token.FLOAT_T, token.BOOL_T, token.STRING_T:
		return true
	default:
		return false
	}
}

// parseBlock parses `"{" declaration* "}"`.
func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(token.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	block := &ast.Block{At: open.Pos}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return block, nil
}

// parseDeclaration parses `declaration := var_decl | statement`.
func (p *Parser) parseDeclaration() (ast.Stmt, error) {
	if isTypeStart(p.cur().Type) {
		return p.parseVarDecl()
	}
	return p.parseStatement()
}

// parseVarDecl parses `type IDENT ["=" expression] ";"`.
func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	at := p.cur().Pos
	tt, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Type: tt, Name: nameTok.Literal, At: at}
	if p.match(token.ASSIGN) {
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseStatement dispatches on the current token to the grammar's
// `statement` alternatives.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseFor()
	case token.PRINT:
		return p.parsePrint()
	case token.READ:
		return p.parseRead()
	case token.RETURN:
		return p.parseReturn()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Then: then, At: kw.Pos}
	if p.match(token.ELSE) {
		elseStmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmt
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, At: kw.Pos}, nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, error) {
	kw := p.advance()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WHILE, "'while'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return &ast.DoWhileStmt{Body: body, Cond: cond, At: kw.Pos}, nil
}

// parseFor parses `"for" "(" for_init ";" [expression] ";" [expression] ")" statement`.
func (p *Parser) parseFor() (ast.Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	switch {
	case p.check(token.SEMICOLON):
		p.advance()
	case isTypeStart(p.cur().Type):
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		init = decl
	default:
		at := p.cur().Pos
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		init = &ast.ExprStmt{X: expr, At: at}
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		c, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}

	var update ast.Expr
	if !p.check(token.RPAREN) {
		u, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		update = u
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Init: init, Cond: cond, Update: update, Body: body, At: kw.Pos}, nil
}

func (p *Parser) parsePrint() (ast.Stmt, error) {
	kw := p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Value: value, At: kw.Pos}, nil
}

func (p *Parser) parseRead() (ast.Stmt, error) {
	kw := p.advance()
	nameTok, err := p.expect(token.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return &ast.ReadStmt{Name: nameTok.Literal, At: kw.Pos}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	kw := p.advance()
	stmt := &ast.ReturnStmt{At: kw.Pos}
	if !p.check(token.SEMICOLON) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseExprStatement() (ast.Stmt, error) {
	at := p.cur().Pos
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: expr, At: at}, nil
}

// parseExpression parses `expression := assignment`.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseAssignment()
}

// parseAssignment parses `assignment := logic_or ("=" assignment)?` as
// right-associative, rejecting any lvalue that is not a bare VarRef.
func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseLogicOr()
	if err != nil {
		return nil, err
	}
	if p.check(token.ASSIGN) {
		eq := p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		ref, ok := left.(*ast.VarRef)
		if !ok {
			return nil, diag.At(diag.Parse, eq.Pos, "invalid assignment target")
		}
		return &ast.Assignment{Name: ref.Name, Value: value, At: ref.At}, nil
	}
	return left, nil
}

func (p *Parser) parseLogicOr() (ast.Expr, error) {
	return p.parseBinaryLevel(token.OR_OR, "||", p.parseLogicAnd)
}

func (p *Parser) parseLogicAnd() (ast.Expr, error) {
	return p.parseBinaryLevel(token.AND_AND, "&&", p.parseEquality)
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.parseBinaryLevelMulti(p.parseComparison, map[token.Type]string{
		token.EQ:     "==",
		token.NOT_EQ: "!=",
	})
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.parseBinaryLevelMulti(p.parseTerm, map[token.Type]string{
		token.LT:    "<",
		token.LT_EQ: "<=",
		token.GT:    ">",
		token.GT_EQ: ">=",
	})
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.parseBinaryLevelMulti(p.parseFactor, map[token.Type]string{
		token.PLUS:  "+",
		token.MINUS: "-",
	})
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	return p.parseBinaryLevelMulti(p.parseUnary, map[token.Type]string{
		token.STAR:    "*",
		token.SLASH:   "/",
		token.PERCENT: "%",
	})
}

// parseBinaryLevel parses a single left-associative binary level with one
// operator token type.
func (p *Parser) parseBinaryLevel(tt token.Type, op string, next func() (ast.Expr, error)) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.check(tt) {
		opTok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: op, Right: right, At: opTok.Pos}
	}
	return left, nil
}

// parseBinaryLevelMulti is parseBinaryLevel generalized to several
// alternative operator token types at the same precedence level.
func (p *Parser) parseBinaryLevelMulti(next func() (ast.Expr, error), ops map[token.Type]string) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.cur().Type]
		if !ok {
			return left, nil
		}
		opTok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: op, Right: right, At: opTok.Pos}
	}
}

// parseUnary parses `("!"|"-") unary | primary`.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.check(token.BANG) || p.check(token.MINUS) {
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: opTok.Literal, Operand: operand, At: opTok.Pos}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses literals, grouping, and identifier/call expressions.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case token.INT:
		p.advance()
		var v int64
		if _, err := fmt.Sscanf(tok.Literal, "%d", &v); err != nil {
			return nil, diag.At(diag.Parse, tok.Pos, "invalid integer literal %q", tok.Literal)
		}
		return &ast.Literal{Kind: ast.IntLiteral, Value: v, At: tok.Pos}, nil

	case token.FLOAT:
		p.advance()
		var v float64
		if _, err := fmt.Sscanf(tok.Literal, "%g", &v); err != nil {
			return nil, diag.At(diag.Parse, tok.Pos, "invalid float literal %q", tok.Literal)
		}
		return &ast.Literal{Kind: ast.FloatLiteral, Value: v, At: tok.Pos}, nil

	case token.STRING:
		p.advance()
		content := tok.Literal
		if len(content) >= 2 {
			content = content[1 : len(content)-1]
		}
		return &ast.Literal{Kind: ast.StringLiteral, Value: content, At: tok.Pos}, nil

	case token.TRUE:
		p.advance()
		return &ast.Literal{Kind: ast.BoolLiteral, Value: true, At: tok.Pos}, nil

	case token.FALSE:
		p.advance()
		return &ast.Literal{Kind: ast.BoolLiteral, Value: false, At: tok.Pos}, nil

	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return &ast.Grouping{Inner: inner, At: tok.Pos}, nil

	case token.IDENT:
		p.advance()
		if p.check(token.LPAREN) {
			return p.parseCallArgs(tok)
		}
		return &ast.VarRef{Name: tok.Literal, At: tok.Pos}, nil

	default:
		return nil, p.errorf("unexpected token %q", tok.Literal)
	}
}

func (p *Parser) parseCallArgs(callee token.Token) (ast.Expr, error) {
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee.Literal, Args: args, At: callee.Pos}, nil
}
