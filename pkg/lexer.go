package kaleido

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType uint64

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF
	TokenDef
	TokenExtern
	TokenIdentifier
	TokenNumber
	TokenPunct
)

var keywordTable = map[string]TokenType{
	"def":    TokenDef,
	"extern": TokenExtern,
}

// Token is a single lexical unit. Identifier and punctuation tokens carry
// their text in Value; number tokens additionally carry the parsed value in
// Num; error tokens carry the message in Value.
type Token struct {
	Typ   TokenType
	Value string
	Num   float64
}

type Lexer struct {
	reader *bufio.Reader
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
	}
}

// Lex returns the next token. The lexer keeps at most one rune of lookahead
// between calls; once the input is exhausted every call returns TokenEOF.
func (l *Lexer) Lex() Token {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return Token{Typ: TokenEOF}
		case unicode.IsSpace(r):
			l.next()
		case unicode.IsLetter(r):
			return l.lexIdentifier()
		case '0' <= r && r <= '9' || r == '.':
			return l.lexNumber()
		default:
			l.next()
			return Token{Typ: TokenPunct, Value: string(r)}
		}
	}
}

// All drains the input, stopping at end of input or the first error token.
func (l *Lexer) All() ([]Token, error) {
	var tokens []Token
	for {
		t := l.Lex()
		switch t.Typ {
		case TokenEOF:
			return tokens, nil
		case TokenError:
			return nil, errors.New(t.Value)
		}

		tokens = append(tokens, t)
	}
}

func (l *Lexer) lexIdentifier() Token {
	var id strings.Builder
	for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return Token{Typ: t, Value: id.String()}
	}

	return Token{Typ: TokenIdentifier, Value: id.String()}
}

func (l *Lexer) lexNumber() Token {
	var num strings.Builder
	for r := l.peek(); '0' <= r && r <= '9' || r == '.'; r = l.peek() {
		num.WriteRune(l.next())
	}

	// Runs like "1.2.3" are scanned whole and rejected here, rather than
	// split into surprising token pairs.
	val, err := strconv.ParseFloat(num.String(), 64)
	if err != nil {
		return l.errorf("invalid number literal %q", num.String())
	}

	return Token{Typ: TokenNumber, Value: num.String(), Num: val}
}

func (l *Lexer) errorf(format string, args ...interface{}) Token {
	return Token{
		Typ:   TokenError,
		Value: fmt.Sprintf(format, args...),
	}
}

func (l *Lexer) peek() rune {
	r := l.next()
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	return r
}
