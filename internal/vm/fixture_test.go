package vm_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"dragonc/internal/ir"
	"dragonc/internal/optimizer"
	"dragonc/internal/parser"
	"dragonc/internal/semantic"
	"dragonc/internal/value"
	"dragonc/internal/vm"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestFixtures runs every .dragon program under testdata/fixtures through
// the full pipeline and snapshots its combined stdout and return value,
// covering the end-to-end scenarios S1-S6.
func TestFixtures(t *testing.T) {
	files, err := filepath.Glob("../../testdata/fixtures/*.dragon")
	if err != nil {
		t.Fatalf("globbing fixtures: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no fixtures found under testdata/fixtures")
	}

	for _, path := range files {
		name := filepath.Base(path)
		t.Run(name, func(t *testing.T) {
			source, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading %s: %v", path, err)
			}

			out, runErr := runFixture(string(source))
			result := out
			if runErr != nil {
				result += fmt.Sprintf("error: %v\n", runErr)
			}

			snaps.MatchSnapshot(t, result)
		})
	}
}

// runFixture runs source through the full pipeline and returns its
// stdout plus a trailing "return: <value>" line when main returns a
// value. Unlike cmd/dragonc it prints no IR dump.
func runFixture(source string) (string, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return "", err
	}

	if _, err := semantic.Analyze(prog); err != nil {
		return "", err
	}

	irProg := ir.Generate(prog)
	if err := ir.Verify(irProg); err != nil {
		return "", err
	}

	irProg, err = optimizer.Optimize(irProg)
	if err != nil {
		return "", err
	}

	funcParams := ir.FuncParamNames(prog)

	var buf bytes.Buffer
	machine := vm.New(irProg, funcParams, vm.WithOutput(&buf))
	result, err := machine.Run()
	if err != nil {
		return buf.String(), err
	}

	if result != nil {
		fmt.Fprintf(&buf, "return: %s\n", value.DisplayString(result))
	}
	return buf.String(), nil
}
