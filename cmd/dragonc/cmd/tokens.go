package cmd

import (
	"fmt"

	"dragonc/internal/lexer"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <path>",
	Short: "Tokenize a Dragon-Lang file and print its tokens",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	for {
		tok, err := l.Next()
		if err != nil {
			return reportDiag(err, source, filename)
		}
		fmt.Printf("%-12s %q @%d:%d\n", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
		if tok.IsEOF() {
			break
		}
	}
	return nil
}
