// Command pboptgen emits Go record structs for a YAML collection schema.
//
//	pboptgen -schema schema.yaml -pkg model -o model_gen.go
package main

import (
	"flag"
	"os"

	"github.com/fatih/color"

	pbopt "github.com/satohshi/pb-option-builder"
	"github.com/satohshi/pb-option-builder/gen"
)

func main() {
	schemaPath := flag.String("schema", "schema.yaml", "path to the YAML schema file")
	pkg := flag.String("pkg", "model", "package name for the generated file")
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	if err := run(*schemaPath, *pkg, *out); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "pboptgen: %v\n", err)
		os.Exit(1)
	}
}

func run(schemaPath, pkg, out string) error {
	schema, err := pbopt.LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	src, err := gen.File(schema, gen.Options{Package: pkg})
	if err != nil {
		return err
	}
	if out == "" {
		_, err = os.Stdout.Write(src)
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "pboptgen: wrote %s (%d collections)\n", out, len(schema.Collections))
	return nil
}
