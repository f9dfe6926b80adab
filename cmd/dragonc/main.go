// Command dragonc compiles and runs Dragon-Lang programs.
package main

import (
	"fmt"
	"os"

	"dragonc/cmd/dragonc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
