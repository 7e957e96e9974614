package kaleido

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type BufferedTokenizerMocker struct {
	buf []Token
	pos int
}

func NewBufferedTokenizerMocker(toks []Token) *BufferedTokenizerMocker {
	return &BufferedTokenizerMocker{
		buf: toks,
		pos: 0,
	}
}

func (b *BufferedTokenizerMocker) Lex() Token {
	if len(b.buf) <= b.pos {
		return Token{Typ: TokenEOF}
	}

	tok := b.buf[b.pos]
	b.pos++

	return tok
}

func parseString(src string) *Parser {
	return NewParser(NewLexer(strings.NewReader(src)))
}

func TestParseExpression(t *testing.T) {
	cases := []struct {
		data   string
		fail   string
		expect Expr
	}{
		{
			data:   "42",
			expect: &NumberExpr{Value: 42},
		},
		{
			data:   "x",
			expect: &VariableExpr{Name: "x"},
		},
		{
			// Multiplication binds tighter than addition.
			data: "1+2*3",
			expect: &BinaryExpr{
				Op:  OpAdd,
				LHS: &NumberExpr{Value: 1},
				RHS: &BinaryExpr{
					Op:  OpMul,
					LHS: &NumberExpr{Value: 2},
					RHS: &NumberExpr{Value: 3},
				},
			},
		},
		{
			// Equal precedence associates left.
			data: "1-2-3",
			expect: &BinaryExpr{
				Op: OpSub,
				LHS: &BinaryExpr{
					Op:  OpSub,
					LHS: &NumberExpr{Value: 1},
					RHS: &NumberExpr{Value: 2},
				},
				RHS: &NumberExpr{Value: 3},
			},
		},
		{
			// Parentheses override precedence and leave no trace in the tree.
			data: "(1+2)*3",
			expect: &BinaryExpr{
				Op: OpMul,
				LHS: &BinaryExpr{
					Op:  OpAdd,
					LHS: &NumberExpr{Value: 1},
					RHS: &NumberExpr{Value: 2},
				},
				RHS: &NumberExpr{Value: 3},
			},
		},
		{
			data: "a < b + 1",
			expect: &BinaryExpr{
				Op:  OpLess,
				LHS: &VariableExpr{Name: "a"},
				RHS: &BinaryExpr{
					Op:  OpAdd,
					LHS: &VariableExpr{Name: "b"},
					RHS: &NumberExpr{Value: 1},
				},
			},
		},
		{
			data: "foo(1, x)",
			expect: &CallExpr{
				Callee: "foo",
				Args: []Expr{
					&NumberExpr{Value: 1},
					&VariableExpr{Name: "x"},
				},
			},
		},
		{
			data:   "foo()",
			expect: &CallExpr{Callee: "foo"},
		},
		{
			data: "foo(bar(x), 1+2)",
			expect: &CallExpr{
				Callee: "foo",
				Args: []Expr{
					&CallExpr{
						Callee: "bar",
						Args:   []Expr{&VariableExpr{Name: "x"}},
					},
					&BinaryExpr{
						Op:  OpAdd,
						LHS: &NumberExpr{Value: 1},
						RHS: &NumberExpr{Value: 2},
					},
				},
			},
		},
		{
			data: "(1+2",
			fail: "expected ')'",
		},
		{
			data: "foo(1 2)",
			fail: "expected ')' or ',' in argument list",
		},
		{
			data: "1+",
			fail: "expected an expression",
		},
		{
			data: ")",
			fail: "expected an expression",
		},
	}

	for _, c := range cases {
		p := parseString(c.data)

		got, err := p.ParseExpression()
		if c.fail != "" {
			assert.Nil(t, got, c.data)
			assert.EqualError(t, err, c.fail, c.data)
			continue
		}

		assert.NoError(t, err, c.data)
		assert.Equal(t, c.expect, got, c.data)

		// The whole construct must be consumed.
		assert.Equal(t, TokenEOF, p.peek().Typ, c.data)
	}
}

func TestParseDefinition(t *testing.T) {
	cases := []struct {
		data   string
		fail   string
		expect *Function
	}{
		{
			data: "def foo(a b) a+b",
			expect: &Function{
				Proto: &Prototype{Name: "foo", Params: []string{"a", "b"}},
				Body: &BinaryExpr{
					Op:  OpAdd,
					LHS: &VariableExpr{Name: "a"},
					RHS: &VariableExpr{Name: "b"},
				},
			},
		},
		{
			data: "def one() 1",
			expect: &Function{
				Proto: &Prototype{Name: "one"},
				Body:  &NumberExpr{Value: 1},
			},
		},
		{
			data: "def foo(a b a+b",
			fail: "expected ')' in prototype",
		},
		{
			data: "def (a) a",
			fail: "expected function name in prototype",
		},
		{
			data: "def foo a",
			fail: "expected '(' in prototype",
		},
		{
			data: "def foo(a)",
			fail: "expected an expression",
		},
	}

	for _, c := range cases {
		p := parseString(c.data)

		got, err := p.ParseDefinition()
		if c.fail != "" {
			assert.Nil(t, got, c.data)
			assert.EqualError(t, err, c.fail, c.data)
			continue
		}

		assert.NoError(t, err, c.data)
		assert.Equal(t, c.expect, got, c.data)
	}
}

func TestParseExtern(t *testing.T) {
	p := parseString("extern sin(x)")

	got, err := p.ParseExtern()
	assert.NoError(t, err)
	assert.Equal(t, &Prototype{Name: "sin", Params: []string{"x"}}, got)
}

func TestParseTopLevelExpr(t *testing.T) {
	p := parseString("1+1")

	got, err := p.ParseTopLevelExpr()
	assert.NoError(t, err)

	assert.Equal(t, &Function{
		Proto: &Prototype{},
		Body: &BinaryExpr{
			Op:  OpAdd,
			LHS: &NumberExpr{Value: 1},
			RHS: &NumberExpr{Value: 1},
		},
	}, got)

	assert.True(t, got.Proto.IsAnonymous())
}

func TestParserSurfacesLexError(t *testing.T) {
	toks := []Token{
		{Typ: TokenNumber, Value: "1", Num: 1},
		{Typ: TokenPunct, Value: "+"},
		{Typ: TokenError, Value: `invalid number literal "1.2.3"`},
	}

	p := NewParser(NewBufferedTokenizerMocker(toks))

	got, err := p.ParseExpression()
	assert.Nil(t, got)
	assert.EqualError(t, err, `invalid number literal "1.2.3"`)
}

func TestCustomPrecedence(t *testing.T) {
	// '|' looser than '+', so the addition groups first.
	prec := DefaultPrecedence()
	prec["|"] = 5

	p := NewParserWithPrecedence(NewLexer(strings.NewReader("1|2+3")), prec)

	got, err := p.ParseExpression()
	assert.NoError(t, err)

	assert.Equal(t, &BinaryExpr{
		Op:  BinaryOp("|"),
		LHS: &NumberExpr{Value: 1},
		RHS: &BinaryExpr{
			Op:  OpAdd,
			LHS: &NumberExpr{Value: 2},
			RHS: &NumberExpr{Value: 3},
		},
	}, got)
}

func TestPrecedenceTableOf(t *testing.T) {
	prec := DefaultPrecedence()

	cases := []struct {
		tok    Token
		expect int
		ok     bool
	}{
		{Token{Typ: TokenPunct, Value: "*"}, 40, true},
		{Token{Typ: TokenPunct, Value: "+"}, 20, true},
		{Token{Typ: TokenPunct, Value: "-"}, 20, true},
		{Token{Typ: TokenPunct, Value: "<"}, 10, true},
		{Token{Typ: TokenPunct, Value: "("}, 0, false},
		{Token{Typ: TokenIdentifier, Value: "x"}, 0, false},
		{Token{Typ: TokenNumber, Value: "1", Num: 1}, 0, false},
		{Token{Typ: TokenEOF}, 0, false},
	}

	for _, c := range cases {
		got, ok := prec.Of(c.tok)
		assert.Equal(t, c.ok, ok, c.tok.Value)
		assert.Equal(t, c.expect, got, c.tok.Value)
	}
}
