package kaleido

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func defineBuiltins(b *LLVMBackend) {
	defineBuiltinFunc(b, "putchard", builtinPutchard)
	defineBuiltinFunc(b, "printd", builtinPrintd)
}

type funcDefinition = func(mod *ir.Module) *ir.Func

func defineBuiltinFunc(b *LLVMBackend, name string, definition funcDefinition) {
	f := definition(b.mod)
	f.SetName(name)
	b.funcs[name] = f
}

// builtinPutchard prints the character whose code is x, and returns 0.
func builtinPutchard(mod *ir.Module) *ir.Func {
	f := mod.NewFunc("", types.Double, ir.NewParam("x", types.Double))
	blk := f.NewBlock("")

	putchar := mod.NewFunc("putchar", types.I32, ir.NewParam("c", types.I32))

	c := blk.NewFPToSI(f.Params[0], types.I32)
	blk.NewCall(putchar, c)
	blk.NewRet(constant.NewFloat(types.Double, 0))

	return f
}

// builtinPrintd prints x followed by a newline, and returns 0.
func builtinPrintd(mod *ir.Module) *ir.Func {
	f := mod.NewFunc("", types.Double, ir.NewParam("x", types.Double))
	blk := f.NewBlock("")

	printf := mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	zero := constant.NewInt(types.I32, 0)

	format := constant.NewCharArrayFromString("%f\n\x00")
	formatGlob := mod.NewGlobalDef("._printd_fmt", format)

	fmtAddr := constant.NewGetElementPtr(types.NewArray(4, types.I8), formatGlob, zero, zero)

	blk.NewCall(printf, fmtAddr, f.Params[0])
	blk.NewRet(constant.NewFloat(types.Double, 0))

	return f
}
