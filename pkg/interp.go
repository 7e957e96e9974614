package kaleido

import (
	"errors"
	"fmt"
	"io"
)

// Backend consumes parsed top-level units one at a time, in source order.
type Backend interface {
	Definition(fn *Function) error
	Extern(proto *Prototype) error
	TopLevel(fn *Function) error
}

// DiscardBackend accepts every unit and drops it, for parse-only runs.
type DiscardBackend struct{}

func (DiscardBackend) Definition(*Function) error { return nil }
func (DiscardBackend) Extern(*Prototype) error    { return nil }
func (DiscardBackend) TopLevel(*Function) error   { return nil }

// Interpreter drives a parsing session: it dispatches on the current token,
// hands each completed unit to the backend, and recovers from syntax errors
// so one malformed construct never ends the session.
type Interpreter struct {
	parser  *Parser
	backend Backend
	out     io.Writer
	prompt  string
}

func NewInterpreter(parser *Parser, backend Backend, out io.Writer) *Interpreter {
	return &Interpreter{
		parser:  parser,
		backend: backend,
		out:     out,
	}
}

// SetPrompt makes Run print s before each top-level construct.
func (i *Interpreter) SetPrompt(s string) {
	i.prompt = s
}

// Run consumes the input to its end. Top-level semicolons are ignored; every
// other token starts a definition, an extern, or a bare expression.
func (i *Interpreter) Run() {
	for {
		if i.prompt != "" {
			fmt.Fprint(i.out, i.prompt)
		}

		switch tok := i.parser.peek(); {
		case tok.Typ == TokenEOF:
			return
		case tok.Typ == TokenPunct && tok.Value == ";":
			i.parser.next()
		case tok.Typ == TokenDef:
			i.report(i.definition())
		case tok.Typ == TokenExtern:
			i.report(i.extern())
		default:
			i.report(i.topLevel())
		}
	}
}

func (i *Interpreter) definition() (string, error) {
	fn, err := i.parser.ParseDefinition()
	if err != nil {
		return "", err
	}

	return "Parsed a function definition.", i.backend.Definition(fn)
}

func (i *Interpreter) extern() (string, error) {
	proto, err := i.parser.ParseExtern()
	if err != nil {
		return "", err
	}

	return "Parsed an extern.", i.backend.Extern(proto)
}

func (i *Interpreter) topLevel() (string, error) {
	fn, err := i.parser.ParseTopLevelExpr()
	if err != nil {
		return "", err
	}

	return "Parsed a top-level expr.", i.backend.TopLevel(fn)
}

func (i *Interpreter) report(confirmation string, err error) {
	if err == nil {
		fmt.Fprintln(i.out, confirmation)
		return
	}

	fmt.Fprintf(i.out, "Error: %s\n", err)

	var syn *SyntaxError
	if errors.As(err, &syn) {
		// Skip one token past the failure so the loop makes progress.
		i.parser.next()
	}
}
