package cmd

import (
	"fmt"

	"dragonc/internal/ir"
	"dragonc/internal/optimizer"
	"dragonc/internal/semantic"
	"github.com/spf13/cobra"
)

var irNoOptimize bool

var irCmd = &cobra.Command{
	Use:   "ir <path>",
	Short: "Compile a Dragon-Lang file and print its generated IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runIR,
}

func init() {
	rootCmd.AddCommand(irCmd)
	irCmd.Flags().BoolVar(&irNoOptimize, "no-optimize", false, "print the raw generated IR instead of the optimized form")
}

func runIR(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	prog, err := buildAST(source, filename)
	if err != nil {
		return err
	}

	if _, err := semantic.Analyze(prog); err != nil {
		return reportDiag(err, source, filename)
	}

	irProg := ir.Generate(prog)
	if err := ir.Verify(irProg); err != nil {
		return reportDiag(err, source, filename)
	}

	if !irNoOptimize {
		irProg, err = optimizer.Optimize(irProg)
		if err != nil {
			return reportDiag(err, source, filename)
		}
	}

	fmt.Println(irProg.Dump())
	return nil
}
