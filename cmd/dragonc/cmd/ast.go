package cmd

import (
	"fmt"

	"dragonc/internal/ast"
	"github.com/spf13/cobra"
)

var astCmd = &cobra.Command{
	Use:   "ast <path>",
	Short: "Parse a Dragon-Lang file and print its AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)
}

func runAST(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	prog, err := buildAST(source, filename)
	if err != nil {
		return err
	}

	fmt.Println(ast.Dump(prog))
	return nil
}
