package cmd

import (
	"fmt"
	"os"
	"strings"

	"dragonc/internal/ast"
	"dragonc/internal/diag"
	"dragonc/internal/ir"
	"dragonc/internal/optimizer"
	"dragonc/internal/parser"
	"dragonc/internal/semantic"
	"dragonc/internal/value"
	"dragonc/internal/vm"
	"github.com/spf13/cobra"
)

// readSource loads filename's contents, stripping a UTF-8 BOM if present
// and reporting a distinct message when the file does not exist.
func readSource(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", filename)
		}
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return strings.TrimPrefix(string(content), "\xef\xbb\xbf"), nil
}

// buildAST lexes and parses source, reporting any diag.Error encountered.
func buildAST(source, filename string) (*ast.Program, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, reportDiag(err, source, filename)
	}
	return prog, nil
}

func reportDiag(err error, source, filename string) error {
	if de, ok := err.(*diag.Error); ok {
		fmt.Fprintln(os.Stderr, diag.Format(de, source, filename, true))
		return fmt.Errorf("%s", de.Kind)
	}
	return err
}

// runFile implements the root command: the full lex → parse → analyze →
// generate → optimize → interpret pipeline of spec §2.
func runFile(_ *cobra.Command, args []string) error {
	filename := args[0]

	source, err := readSource(filename)
	if err != nil {
		return err
	}

	prog, err := buildAST(source, filename)
	if err != nil {
		return err
	}

	if dumpAST {
		fmt.Println(ast.Dump(prog))
	}

	if _, err := semantic.Analyze(prog); err != nil {
		return reportDiag(err, source, filename)
	}

	irProg := ir.Generate(prog)
	if err := ir.Verify(irProg); err != nil {
		return reportDiag(err, source, filename)
	}

	if !noOptimize {
		irProg, err = optimizer.Optimize(irProg)
		if err != nil {
			return reportDiag(err, source, filename)
		}
	}

	fmt.Println("=== Optimized IR (TAC) ===")
	fmt.Println(irProg.Dump())

	funcParams := ir.FuncParamNames(prog)

	var opts []vm.Option
	opts = append(opts, vm.WithOutput(os.Stdout), vm.WithInput(os.Stdin))
	if trace {
		opts = append(opts, vm.WithTrace(func(ip int, insn ir.Instruction) {
			fmt.Fprintf(os.Stderr, "%4d: %s\n", ip, insn)
		}))
	}

	machine := vm.New(irProg, funcParams, opts...)
	result, err := machine.Run()
	if err != nil {
		return reportDiag(err, source, filename)
	}

	if result != nil {
		fmt.Println(value.DisplayString(result))
	}

	return nil
}
