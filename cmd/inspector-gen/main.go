// Package main provides the CLI entrypoint for inspector-gen.
//
// inspector-gen compiles per-field inspector directives into options tables:
//   - Reads YAML schemas and Go packages with //inspector:derive types
//   - Validates directives against the field types they apply to
//   - Generates <type>_options.go files registering each table
package main

import (
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := newRootCmd(afero.NewOsFs(), os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
