package parser

import (
	"fmt"
	"slices"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// lexedToken is a token pulled from the lexer but not yet consumed.
type lexedToken struct {
	tok      int
	value    *SPLSymType
	text     string
	pos      Location
	nlBefore bool
}

type LLParser struct {
	lexer *Lexer

	// Tokens peeked but not consumed.  Declarations vs assignments vs
	// expression statements can only be told apart two tokens in.
	lookahead []lexedToken
	lexErr    error

	// Depth of open parentheses.  Line breaks only end an expression at depth 0.
	nesting int

	PanicOnError bool
}

func NewLLParser(lexer *Lexer) *LLParser {
	return &LLParser{lexer: lexer}
}

// Parse reads statements until EOF into file.
func (p *LLParser) Parse(file *File) (err error) {
	file.StartPos = Location{Pos: 0, Line: 1, Col: 1}
	if file.Statements, err = p.ParseStmtList(); err != nil {
		return err
	}
	if p.lexErr != nil {
		return p.lexErr
	}
	if p.PeekToken() != eof {
		return p.Errorf("unexpected %s", TokenString(p.PeekToken()))
	}
	file.StopPos = p.lexer.End()
	return nil
}

// Errorf reports a parse error at the current token.  A pending lexer
// error always wins since it is the root cause.
func (p *LLParser) Errorf(format string, args ...any) error {
	if p.lexErr != nil {
		return p.lexErr
	}
	current := p.peekN(0)
	err := fmt.Errorf("Error at Line %d, Col %d near '%s': %s", current.pos.Line, current.pos.Col, current.text, fmt.Sprintf(format, args...))
	if p.PanicOnError {
		panic(err)
	}
	return err
}

func (p *LLParser) peekN(n int) lexedToken {
	for len(p.lookahead) <= n {
		val := &SPLSymType{}
		tok := p.lexer.Lex(val)
		if tok == eof && p.lexErr == nil && p.lexer.LastError() != nil {
			p.lexErr = p.lexer.LastError()
		}
		p.lookahead = append(p.lookahead, lexedToken{tok: tok, value: val, text: p.lexer.Text(), pos: p.lexer.Pos(), nlBefore: p.lexer.NewlineBefore()})
		if tok == eof {
			// Keep returning eof once reached
			for len(p.lookahead) <= n {
				p.lookahead = append(p.lookahead, p.lookahead[len(p.lookahead)-1])
			}
		}
	}
	return p.lookahead[n]
}

// PeekToken returns the next unconsumed token.
func (p *LLParser) PeekToken() int {
	return p.peekN(0).tok
}

// PeekN returns the token n positions ahead of the next one.
func (p *LLParser) PeekN(n int) int {
	return p.peekN(n).tok
}

// AtLineBreak reports whether the next token starts a new line outside of
// any parentheses, ie whether the current statement has ended.
func (p *LLParser) AtLineBreak() bool {
	return p.nesting == 0 && p.peekN(0).nlBefore
}

// Advance consumes the next token and returns it.
func (p *LLParser) Advance() int {
	next := p.peekN(0)
	if next.tok != eof {
		p.lookahead = p.lookahead[1:]
	}
	return next.tok
}

// Expect checks if the current peeked token is one of the expected tokens.
// It does NOT advance.
func (p *LLParser) Expect(tokensIn ...int) (foundToken int, err error) {
	peekedToken := p.PeekToken()
	for _, tok := range tokensIn {
		if tok == peekedToken {
			return tok, nil
		}
	}
	var errMsg string
	if len(tokensIn) == 1 {
		errMsg = fmt.Sprintf("expected %s, found: %s", TokenString(tokensIn[0]), TokenString(peekedToken))
	} else {
		expectedStrings := gfn.Map(tokensIn, func(t int) string { return TokenString(t) })
		errMsg = fmt.Sprintf("expected one of: [%s], found: %s", strings.Join(expectedStrings, ", "), TokenString(peekedToken))
	}
	return -1, p.Errorf("%s", errMsg)
}

// AdvanceIf expects one of the given tokens and advances if found.
// Returns the matched token type and its semantic value.
func (p *LLParser) AdvanceIf(tokensIn ...int) (foundToken int, tokenValue *SPLSymType, err error) {
	if foundToken, err = p.Expect(tokensIn...); err != nil {
		return -1, nil, err
	}
	tokenValue = p.peekN(0).value
	p.Advance()
	return
}

// ParseIdentifier consumes a single identifier.
func (p *LLParser) ParseIdentifier() (out *IdentifierExpr, err error) {
	_, val, err := p.AdvanceIf(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	return val.ident, nil
}

// --- Statements ---

// ParseStmtList parses statements until EOF or one of closingTokens.
// The closing token itself is not consumed.
func (p *LLParser) ParseStmtList(closingTokens ...int) (stmts []Stmt, err error) {
	for {
		peeked := p.PeekToken()
		if peeked == eof {
			if p.lexErr != nil {
				return nil, p.lexErr
			}
			break
		}
		if peeked == SEMICOLON {
			p.Advance()
			continue
		}
		if slices.Contains(closingTokens, peeked) {
			break
		}

		stmt, err := p.ParseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		// Statements sharing a line need a ';' between them
		next := p.PeekToken()
		if next != eof && next != SEMICOLON && !p.AtLineBreak() && !slices.Contains(closingTokens, next) {
			return nil, p.Errorf("expected a new line or ';' before %s", TokenString(next))
		}
	}
	return stmts, nil
}

// ParseBlock parses the body following a ':' up to (not including) one of closingTokens.
func (p *LLParser) ParseBlock(closingTokens ...int) (out *BlockStmt, err error) {
	_, colon, err := p.AdvanceIf(COLON)
	if err != nil {
		return nil, err
	}
	out = &BlockStmt{}
	if out.Statements, err = p.ParseStmtList(closingTokens...); err != nil {
		return nil, err
	}
	if p.PeekToken() == eof {
		return nil, p.Errorf("unexpected EOF, block started at %s is not closed", colon.node.Pos())
	}
	out.StartPos = colon.node.End()
	out.StopPos = colon.node.End()
	if n := len(out.Statements); n > 0 {
		out.StartPos = out.Statements[0].Pos()
		out.StopPos = out.Statements[n-1].End()
	}
	return out, nil
}

func (p *LLParser) ParseStmt() (out Stmt, err error) {
	switch p.PeekToken() {
	case IF:
		return p.ParseIfStmt()
	case WHILE:
		return p.ParseWhileStmt()
	case FOR:
		return p.ParseForStmt()
	case RETURN:
		return p.ParseReturnStmt()
	case BOOLEAN:
		return p.ParseDeclaration()
	case IDENTIFIER:
		if p.peekN(1).nlBefore {
			break
		}
		switch p.PeekN(1) {
		case IDENTIFIER, DOT:
			return p.ParseDeclaration()
		case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, MUL_ASSIGN, DIV_ASSIGN:
			return p.ParseAssignment()
		}
	}

	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	es := &ExprStmt{Expression: expr}
	es.NodeInfo = newNodeInfo(expr.Pos(), expr.End())
	return es, nil
}

// ParseTypeName parses either the `boolean` keyword or a (dotted) type name.
func (p *LLParser) ParseTypeName() (prim *PrimitiveTypeDecl, named *QualifiedName, err error) {
	if p.PeekToken() == BOOLEAN {
		_, val, _ := p.AdvanceIf(BOOLEAN)
		return &PrimitiveTypeDecl{NodeInfo: val.node.NodeInfo, Name: val.node.Text}, nil, nil
	}
	first, err := p.ParseIdentifier()
	if err != nil {
		return nil, nil, err
	}
	named = &QualifiedName{Parts: []string{first.Name}}
	named.NodeInfo = newNodeInfo(first.Pos(), first.End())
	for p.PeekToken() == DOT {
		p.Advance()
		part, err := p.ParseIdentifier()
		if err != nil {
			return nil, nil, err
		}
		named.Parts = append(named.Parts, part.Name)
		named.StopPos = part.End()
	}
	return nil, named, nil
}

// ParseDeclaration parses `type a, b, c = init`
func (p *LLParser) ParseDeclaration() (Stmt, error) {
	out := &DeclarationStmt{}
	var err error
	if out.PrimitiveType, out.Type, err = p.ParseTypeName(); err != nil {
		return nil, err
	}
	if out.PrimitiveType != nil {
		out.StartPos = out.PrimitiveType.Pos()
	} else {
		out.StartPos = out.Type.Pos()
	}

	for {
		v, err := p.ParseIdentifier()
		if err != nil {
			return nil, err
		}
		out.Vars = append(out.Vars, v)
		out.StopPos = v.End()
		if p.PeekToken() != COMMA {
			break
		}
		p.Advance()
	}

	if p.PeekToken() == ASSIGN && !p.AtLineBreak() {
		p.Advance()
		if out.Init, err = p.ParseExpression(); err != nil {
			return nil, err
		}
		out.StopPos = out.Init.End()
	}
	return out, nil
}

// ParseAssignment parses `x = e`, `x += e` and friends.
func (p *LLParser) ParseAssignment() (Stmt, error) {
	target, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	_, opVal, err := p.AdvanceIf(ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, MUL_ASSIGN, DIV_ASSIGN)
	if err != nil {
		return nil, err
	}
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	out := &AssignmentStmt{Var: target, Operator: opVal.sval, Value: value}
	out.NodeInfo = newNodeInfo(target.Pos(), value.End())
	return out, nil
}

func (p *LLParser) ParseReturnStmt() (Stmt, error) {
	_, retVal, err := p.AdvanceIf(RETURN)
	if err != nil {
		return nil, err
	}
	out := &ReturnStmt{}
	out.NodeInfo = retVal.node.NodeInfo
	switch p.PeekToken() {
	case eof, SEMICOLON, END, ELIF, ELSE:
		return out, nil
	}
	if p.AtLineBreak() {
		return out, nil
	}
	if out.ReturnValue, err = p.ParseExpression(); err != nil {
		return nil, err
	}
	out.StopPos = out.ReturnValue.End()
	return out, nil
}

// ParseIfStmt parses `if c: ... elif c: ... else: ... end`
func (p *LLParser) ParseIfStmt() (Stmt, error) {
	_, ifVal, err := p.AdvanceIf(IF)
	if err != nil {
		return nil, err
	}
	condition, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.ParseBlock(ELIF, ELSE, END)
	if err != nil {
		return nil, err
	}
	out := &IfStmt{If: &IfClause{Condition: condition, Body: body}}
	out.If.NodeInfo = newNodeInfo(ifVal.node.Pos(), body.End())

	for p.PeekToken() == ELIF {
		_, elifVal, _ := p.AdvanceIf(ELIF)
		cond, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		body, err := p.ParseBlock(ELIF, ELSE, END)
		if err != nil {
			return nil, err
		}
		elif := &ElifClause{Condition: cond, Body: body}
		elif.NodeInfo = newNodeInfo(elifVal.node.Pos(), body.End())
		out.Elifs = append(out.Elifs, elif)
	}

	if p.PeekToken() == ELSE {
		_, elseVal, _ := p.AdvanceIf(ELSE)
		body, err := p.ParseBlock(END)
		if err != nil {
			return nil, err
		}
		out.Else = &ElseClause{Body: body}
		out.Else.NodeInfo = newNodeInfo(elseVal.node.Pos(), body.End())
	}

	_, endVal, err := p.AdvanceIf(END)
	if err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(ifVal.node.Pos(), endVal.node.End())
	return out, nil
}

// ParseWhileStmt parses `while c: ... end`
func (p *LLParser) ParseWhileStmt() (Stmt, error) {
	_, whileVal, err := p.AdvanceIf(WHILE)
	if err != nil {
		return nil, err
	}
	condition, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.ParseBlock(END)
	if err != nil {
		return nil, err
	}
	_, endVal, err := p.AdvanceIf(END)
	if err != nil {
		return nil, err
	}
	out := &WhileStmt{Condition: condition, Body: body}
	out.NodeInfo = newNodeInfo(whileVal.node.Pos(), endVal.node.End())
	return out, nil
}

// ParseForStmt parses `for i in from ... to step s: ... end`
func (p *LLParser) ParseForStmt() (Stmt, error) {
	_, forVal, err := p.AdvanceIf(FOR)
	if err != nil {
		return nil, err
	}
	out := &ForStmt{}
	if out.Var, err = p.ParseIdentifier(); err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(IN); err != nil {
		return nil, err
	}
	if out.From, err = p.ParseExpression(); err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(ELLIPSIS); err != nil {
		return nil, err
	}
	if out.To, err = p.ParseExpression(); err != nil {
		return nil, err
	}
	if p.PeekToken() == STEP {
		p.Advance()
		if out.Step, err = p.ParseExpression(); err != nil {
			return nil, err
		}
	}
	if out.Body, err = p.ParseBlock(END); err != nil {
		return nil, err
	}
	_, endVal, err := p.AdvanceIf(END)
	if err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(forVal.node.Pos(), endVal.node.End())
	return out, nil
}

// --- Expressions ---

func (p *LLParser) ParseExpression() (Expr, error) {
	return p.ParseTernaryExpr()
}

// ParseTernaryExpr parses `cond ? then : else`
func (p *LLParser) ParseTernaryExpr() (Expr, error) {
	cond, err := p.ParseOrExpr()
	if err != nil || p.PeekToken() != QUESTION || p.AtLineBreak() {
		return cond, err
	}
	p.Advance()
	then, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(COLON); err != nil {
		return nil, err
	}
	otherwise, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	out := &TernaryExpr{Condition: cond, Then: then, Else: otherwise}
	out.NodeInfo = newNodeInfo(cond.Pos(), otherwise.End())
	return out, nil
}

func (p *LLParser) parseBinaryExpr(
	parseHigherPrecedenceOperand func() (Expr, error),
	operators ...int) (Expr, error) {

	left, err := parseHigherPrecedenceOperand()
	if err != nil {
		return nil, err
	}

	for {
		currentPeekedToken := p.PeekToken()
		isCurrentLevelOperator := false
		for _, opToken := range operators {
			if currentPeekedToken == opToken {
				isCurrentLevelOperator = true
				break
			}
		}
		if !isCurrentLevelOperator || p.AtLineBreak() {
			break
		}

		opTokenVal := p.peekN(0).value
		p.Advance()

		right, err := parseHigherPrecedenceOperand()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{
			ExprBase: ExprBase{NodeInfo: newNodeInfo(left.Pos(), right.End())},
			Left:     left,
			Operator: opTokenVal.sval,
			Right:    right,
		}
	}
	return left, nil
}

func (p *LLParser) ParseOrExpr() (Expr, error) {
	return p.parseBinaryExpr(p.ParseAndExpr, OR)
}

func (p *LLParser) ParseAndExpr() (Expr, error) {
	return p.parseBinaryExpr(p.ParseNotExpr, AND)
}

func (p *LLParser) ParseNotExpr() (Expr, error) {
	if p.PeekToken() != NOT {
		return p.ParseCmpExpr()
	}
	_, notVal, _ := p.AdvanceIf(NOT)
	operand, err := p.ParseNotExpr()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{
		ExprBase: ExprBase{NodeInfo: newNodeInfo(notVal.node.Pos(), operand.End())},
		Operator: "not",
		Right:    operand,
	}, nil
}

func (p *LLParser) ParseCmpExpr() (Expr, error) {
	return p.parseBinaryExpr(p.ParseAddExpr, EQ, NEQ, LT, LTE, GT, GTE)
}

func (p *LLParser) ParseAddExpr() (Expr, error) {
	return p.parseBinaryExpr(p.ParseMulExpr, PLUS, MINUS)
}

func (p *LLParser) ParseMulExpr() (Expr, error) {
	return p.parseBinaryExpr(p.ParseUnaryExpr, MUL, DIV, MOD)
}

func (p *LLParser) ParseUnaryExpr() (Expr, error) {
	switch p.PeekToken() {
	case PLUS, MINUS, TILDE:
		_, opVal, _ := p.AdvanceIf(PLUS, MINUS, TILDE)
		operand, err := p.ParseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{
			ExprBase: ExprBase{NodeInfo: newNodeInfo(opVal.node.Pos(), operand.End())},
			Operator: opVal.sval,
			Right:    operand,
		}, nil
	}
	return p.ParsePowerExpr()
}

// ParsePowerExpr parses `base ** exponent`, which is right associative
// and binds tighter than unary minus on its left.
func (p *LLParser) ParsePowerExpr() (Expr, error) {
	base, err := p.ParsePrimaryExpr()
	if err != nil || p.PeekToken() != POW || p.AtLineBreak() {
		return base, err
	}
	_, opVal, _ := p.AdvanceIf(POW)
	exponent, err := p.ParseUnaryExpr()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{
		ExprBase: ExprBase{NodeInfo: newNodeInfo(base.Pos(), exponent.End())},
		Left:     base,
		Operator: opVal.sval,
		Right:    exponent,
	}, nil
}

func (p *LLParser) ParsePrimaryExpr() (expr Expr, err error) {
	switch p.PeekToken() {
	case INT_LITERAL, REAL_LITERAL, STRING_LITERAL, BOOL_LITERAL, INF:
		val := p.peekN(0).value
		p.Advance()
		return val.expr, nil
	case IDENTIFIER:
		ident, _ := p.ParseIdentifier()
		if p.PeekToken() != LPAREN || p.AtLineBreak() {
			return ident, nil
		}
		return p.ParseCallExpr(ident)
	case LPAREN:
		_, lparen, _ := p.AdvanceIf(LPAREN)
		p.nesting++
		inner, err := p.ParseExpression()
		p.nesting--
		if err != nil {
			return nil, err
		}
		_, rparen, err := p.AdvanceIf(RPAREN)
		if err != nil {
			return nil, err
		}
		out := &ParenExpr{Inner: inner}
		out.NodeInfo = newNodeInfo(lparen.node.Pos(), rparen.node.End())
		return out, nil
	}
	return nil, p.Errorf("expected expression, found %s", TokenString(p.PeekToken()))
}

// ParseCallExpr parses the argument list of a call to fn.
func (p *LLParser) ParseCallExpr(fn *IdentifierExpr) (Expr, error) {
	if _, _, err := p.AdvanceIf(LPAREN); err != nil {
		return nil, err
	}
	out := &CallExpr{Function: fn}
	p.nesting++
	defer func() { p.nesting-- }()
	if p.PeekToken() != RPAREN {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, arg)
			if p.PeekToken() != COMMA {
				break
			}
			p.Advance()
		}
	}
	_, rparen, err := p.AdvanceIf(RPAREN)
	if err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(fn.Pos(), rparen.node.End())
	return out, nil
}
