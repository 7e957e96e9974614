package kaleido

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// AnonymousFuncName is the symbol given to functions wrapping expressions
// typed at top level, whose prototypes carry no name.
const AnonymousFuncName = "__anon_expr"

type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Inherit(t2 *ValueLookup) {
	for k, v := range t2.vals {
		l.Set(k, v)
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// LLVMBackend lowers parsed units to LLVM IR. Every value in the language is
// a double; '<' compares and widens the resulting bit back to double.
type LLVMBackend struct {
	mod    *ir.Module
	block  *ir.Block
	values *ValueLookup
	funcs  map[string]*ir.Func
	anon   int
}

func NewLLVMBackend() *LLVMBackend {
	b := &LLVMBackend{
		mod:   ir.NewModule(),
		funcs: make(map[string]*ir.Func),
	}

	defineBuiltins(b)
	return b
}

// Module returns the IR built so far.
func (b *LLVMBackend) Module() *ir.Module {
	return b.mod
}

func (b *LLVMBackend) Definition(fn *Function) error {
	return b.define(fn)
}

func (b *LLVMBackend) TopLevel(fn *Function) error {
	return b.define(fn)
}

func (b *LLVMBackend) Extern(proto *Prototype) error {
	b.declare(proto)
	return nil
}

// declare returns the function for proto, creating the declaration on first
// sight, and reports whether this call created it. Re-declarations reuse the
// existing function; checking that their signatures agree is semantic
// analysis and stays out of scope. Anonymous prototypes always get a fresh
// function under a unique synthetic symbol.
func (b *LLVMBackend) declare(proto *Prototype) (*ir.Func, bool) {
	if f, ok := b.funcs[proto.Name]; ok {
		return f, false
	}

	name := proto.Name
	if proto.IsAnonymous() {
		name = AnonymousFuncName
		if b.anon > 0 {
			name = fmt.Sprintf("%s.%d", AnonymousFuncName, b.anon)
		}
		b.anon++
	}

	params := make([]*ir.Param, len(proto.Params))
	for i, p := range proto.Params {
		params[i] = ir.NewParam(p, types.Double)
	}

	f := b.mod.NewFunc(name, types.Double, params...)
	if !proto.IsAnonymous() {
		b.funcs[proto.Name] = f
	}

	return f, true
}

func (b *LLVMBackend) define(fn *Function) error {
	f, created := b.declare(fn.Proto)

	// A function with a body already has its entry block; giving it a second
	// one would emit invalid IR.
	if len(f.Blocks) != 0 {
		return fmt.Errorf("function %q cannot be redefined", fn.Proto.Name)
	}

	b.block = f.NewBlock("entry")
	b.values = NewValueLookup()
	for _, param := range f.Params {
		b.values.Set(param.LocalName, param)
	}

	ret, err := b.expr(fn.Body)
	if err != nil {
		b.rollback(f, fn.Proto.Name, created)
		return err
	}

	b.block.NewRet(ret)
	b.block = nil
	b.values = nil

	return nil
}

// rollback removes everything define added for a failed body, so the module
// stays well-formed: the terminator-less entry block always, and the
// function itself when this definition created it. A declaration that
// predates the failed definition (an extern) is kept.
func (b *LLVMBackend) rollback(f *ir.Func, name string, created bool) {
	f.Blocks = nil
	b.block = nil
	b.values = nil

	if !created {
		return
	}

	delete(b.funcs, name)
	for i, mf := range b.mod.Funcs {
		if mf == f {
			b.mod.Funcs = append(b.mod.Funcs[:i], b.mod.Funcs[i+1:]...)
			break
		}
	}
}

func (b *LLVMBackend) expr(e Expr) (value.Value, error) {
	switch e := e.(type) {
	case *NumberExpr:
		return constant.NewFloat(types.Double, e.Value), nil
	case *VariableExpr:
		v, ok := b.values.Get(e.Name)
		if !ok {
			return nil, fmt.Errorf("unknown variable name %q", e.Name)
		}

		return v, nil
	case *BinaryExpr:
		return b.binary(e)
	case *CallExpr:
		return b.call(e)
	default:
		return nil, fmt.Errorf("cannot emit %T as an expression", e)
	}
}

func (b *LLVMBackend) binary(e *BinaryExpr) (value.Value, error) {
	lhs, err := b.expr(e.LHS)
	if err != nil {
		return nil, err
	}

	rhs, err := b.expr(e.RHS)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpAdd:
		return b.block.NewFAdd(lhs, rhs), nil
	case OpSub:
		return b.block.NewFSub(lhs, rhs), nil
	case OpMul:
		return b.block.NewFMul(lhs, rhs), nil
	case OpLess:
		cmp := b.block.NewFCmp(enum.FPredULT, lhs, rhs)
		return b.block.NewUIToFP(cmp, types.Double), nil
	default:
		return nil, fmt.Errorf("unknown binary operator %q", e.Op)
	}
}

func (b *LLVMBackend) call(e *CallExpr) (value.Value, error) {
	callee, ok := b.funcs[e.Callee]
	if !ok {
		return nil, fmt.Errorf("unknown function %q referenced", e.Callee)
	}

	args := make([]value.Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := b.expr(arg)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return b.block.NewCall(callee, args...), nil
}
