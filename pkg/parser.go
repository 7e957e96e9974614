package kaleido

import "fmt"

// SyntaxError means a parse routine could not satisfy its grammar rule. Tok
// is the token that did not meet the expectation.
type SyntaxError struct {
	Msg string
	Tok Token
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

// PrecedenceTable maps a binary operator character to its precedence. Higher
// binds tighter. A missing or non-positive entry means the character is not a
// binary operator.
type PrecedenceTable map[string]int

func DefaultPrecedence() PrecedenceTable {
	return PrecedenceTable{
		"<": 10,
		"+": 20,
		"-": 20,
		"*": 40,
	}
}

// Of reports the precedence of tok. Keywords, identifiers, numbers, the end
// token and unregistered punctuation are not binary operators.
func (t PrecedenceTable) Of(tok Token) (int, bool) {
	if tok.Typ != TokenPunct {
		return 0, false
	}

	prec, ok := t[tok.Value]
	if !ok || prec <= 0 {
		return 0, false
	}

	return prec, true
}

// Tokenizer is the parser's view of the lexer.
type Tokenizer interface {
	Lex() Token
}

// Parser holds the state of one parsing session: the token source, a single
// token of lookahead, and the operator precedence table. Parse routines
// expect the first token of their construct to be the current token, and
// leave the first token after their construct current on success.
type Parser struct {
	tokenizer Tokenizer
	prec      PrecedenceTable
	buf       *Token
}

func NewParser(tokenizer Tokenizer) *Parser {
	return NewParserWithPrecedence(tokenizer, DefaultPrecedence())
}

func NewParserWithPrecedence(tokenizer Tokenizer, prec PrecedenceTable) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		prec:      prec,
	}
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		temp := p.tokenizer.Lex()
		p.buf = &temp
	}

	return *p.buf
}

func (p *Parser) next() Token {
	tok := p.peek()
	if tok.Typ == TokenEOF {
		// The end token stays buffered; reads past it are idempotent.
		return tok
	}

	p.buf = nil
	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) checkPunct(s string) bool {
	tok := p.peek()
	return tok.Typ == TokenPunct && tok.Value == s
}

func (p *Parser) consumePunct(s string) bool {
	if !p.checkPunct(s) {
		return false
	}

	p.next()
	return true
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Msg: fmt.Sprintf(format, args...),
		Tok: tok,
	}
}

func (p *Parser) parseNumberExpr() (Expr, error) {
	tok := p.next()
	return &NumberExpr{Value: tok.Num}, nil
}

func (p *Parser) parseParenExpr() (Expr, error) {
	p.next() // Skip '('

	inner, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if !p.consumePunct(")") {
		return nil, p.errorf(p.peek(), "expected ')'")
	}

	// Grouping exists only at parse time; the inner tree is returned as-is
	// and precedence is carried entirely by tree shape.
	return inner, nil
}

// parseIdentifierExpr parses a variable reference, or a call when the
// identifier is followed by '('.
func (p *Parser) parseIdentifierExpr() (Expr, error) {
	name := p.next().Value

	if !p.checkPunct("(") {
		return &VariableExpr{Name: name}, nil
	}

	p.next() // Skip '('

	var args []Expr
	if !p.checkPunct(")") {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if p.checkPunct(")") {
				break
			}

			if !p.consumePunct(",") {
				return nil, p.errorf(p.peek(), "expected ')' or ',' in argument list")
			}
		}
	}

	p.next() // Skip ')'

	return &CallExpr{Callee: name, Args: args}, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch tok := p.peek(); {
	case tok.Typ == TokenNumber:
		return p.parseNumberExpr()
	case tok.Typ == TokenIdentifier:
		return p.parseIdentifierExpr()
	case tok.Typ == TokenPunct && tok.Value == "(":
		return p.parseParenExpr()
	case tok.Typ == TokenError:
		return nil, p.errorf(tok, "%s", tok.Value)
	default:
		return nil, p.errorf(tok, "expected an expression")
	}
}

// parseBinOpRHS absorbs a chain of (operator, primary) pairs into lhs by
// precedence climbing. It stops at the first operator binding looser than
// minPrec. Equal-precedence operators associate left because the recursion
// only triggers on a strictly tighter following operator.
func (p *Parser) parseBinOpRHS(minPrec int, lhs Expr) (Expr, error) {
	for {
		prec, ok := p.prec.Of(p.peek())
		if !ok || prec < minPrec {
			return lhs, nil
		}

		op := BinaryOp(p.next().Value)

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		// If the next operator binds tighter, it takes rhs as its lhs.
		if next, ok := p.prec.Of(p.peek()); ok && prec < next {
			rhs, err = p.parseBinOpRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *Parser) ParseExpression() (Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return p.parseBinOpRHS(0, lhs)
}

// parsePrototype parses name '(' param* ')'. Parameter names are bare
// identifiers with no separators.
func (p *Parser) parsePrototype() (*Prototype, error) {
	if !p.check(TokenIdentifier) {
		return nil, p.errorf(p.peek(), "expected function name in prototype")
	}
	name := p.next().Value

	if !p.consumePunct("(") {
		return nil, p.errorf(p.peek(), "expected '(' in prototype")
	}

	var params []string
	for p.check(TokenIdentifier) {
		params = append(params, p.next().Value)
	}

	if !p.consumePunct(")") {
		return nil, p.errorf(p.peek(), "expected ')' in prototype")
	}

	return &Prototype{Name: name, Params: params}, nil
}

// ParseDefinition parses 'def' prototype expression.
func (p *Parser) ParseDefinition() (*Function, error) {
	p.next() // Skip the def keyword

	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}

	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &Function{Proto: proto, Body: body}, nil
}

// ParseExtern parses 'extern' prototype.
func (p *Parser) ParseExtern() (*Prototype, error) {
	p.next() // Skip the extern keyword
	return p.parsePrototype()
}

// ParseTopLevelExpr wraps a bare expression in a function carrying the
// anonymous prototype, so downstream handling is uniform with named
// definitions.
func (p *Parser) ParseTopLevelExpr() (*Function, error) {
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &Function{Proto: &Prototype{}, Body: body}, nil
}
