package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	dumpAST    bool
	noOptimize bool
	trace      bool
)

var rootCmd = &cobra.Command{
	Use:   "dragonc <path>",
	Short: "Dragon-Lang compiler and interpreter",
	Long: `dragonc compiles and runs Dragon-Lang programs: a small statically
typed imperative language with functions, scalar types, and no
user-defined structures.

Running "dragonc program.dragon" lexes, parses, type-checks, lowers to
three-address IR, optimizes, and interprets the program in a single
pass, printing the value main() returns (if any) after the program's
own output.`,
	Args:    cobra.ExactArgs(1),
	Version: Version,
	RunE:    runFile,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before running")
	rootCmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "skip the optimizer and interpret the raw generated IR")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "print each instruction before it executes")
}
