package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	kaleido "github.com/Linumm/llvm-kaleidoscope-tutorial/pkg"
)

func main() {
	if len(os.Args) > 1 {
		if err := compileFile(os.Args[1]); err != nil {
			color.New(color.FgRed).Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		return
	}

	repl()
}

func compileFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	backend := kaleido.NewLLVMBackend()
	parser := kaleido.NewParser(kaleido.NewLexer(f))

	kaleido.NewInterpreter(parser, backend, os.Stderr).Run()

	fmt.Print(backend.Module())
	return nil
}

func repl() {
	backend := kaleido.NewLLVMBackend()
	parser := kaleido.NewParser(kaleido.NewLexer(os.Stdin))

	interp := kaleido.NewInterpreter(parser, backend, os.Stderr)
	interp.SetPrompt(color.New(color.FgGreen).Sprint("ready> "))
	interp.Run()

	fmt.Print(backend.Module())
}
