// Command regio-pathgen generates path constants for the example register
// maps, so that callers refer to registers and fields by checked Go
// identifiers instead of string literals.
//
// Usage:
//
//	regio-pathgen -output pkg/examples/paths_gen.go [-package examples] [-maps uart,gpio]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/regio-project/regio-go/pkg/examples"
)

func main() {
	output := flag.String("output", "", "Output Go file")
	pkg := flag.String("package", "examples", "Package name of the generated file")
	maps := flag.String("maps", "", "Comma-separated map names (default: all)")
	flag.Parse()

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: regio-pathgen -output <file> [-package <name>] [-maps <names>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	names := examples.Names()
	if *maps != "" {
		names = strings.Split(*maps, ",")
	}

	if err := run(*output, *pkg, names); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(output, pkg string, names []string) error {
	var data fileData
	data.Package = pkg
	for _, name := range names {
		g, err := examples.Build(strings.TrimSpace(name), nil)
		if err != nil {
			return err
		}
		m, err := collect(g)
		if err != nil {
			return err
		}
		data.Maps = append(data.Maps, m)
	}

	code, err := Generate(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := writeFormatted(output, code); err != nil {
		return err
	}
	fmt.Printf("  generated %s\n", output)
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Keep the raw output around for debugging the templates.
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
