package analyze

import (
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/tools/go/packages"

	"inspector-options/internal/diagnostic"
	"inspector-options/internal/schema"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and extracts schemas from annotated types.
type Analyzer struct {
	dir   string
	tests bool
}

// NewAnalyzer creates a new Analyzer working in the current directory.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// WithDir sets the directory package patterns are resolved in.
func (a *Analyzer) WithDir(dir string) *Analyzer {
	a.dir = dir

	return a
}

// WithTests includes test files.
func (a *Analyzer) WithTests(tests bool) *Analyzer {
	a.tests = tests

	return a
}

// LoadPackages loads the specified packages and returns one schema file per
// package declaring derived types. Patterns are standard Go package patterns
// (e.g., "./game/...").
func (a *Analyzer) LoadPackages(patterns ...string) ([]*schema.File, diagnostic.Diagnostics, error) {
	cfg := &packages.Config{
		Mode:  LoadMode,
		Dir:   a.dir,
		Tests: a.tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, diagnostic.Diagnostics{}, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	var (
		files []*schema.File
		diags diagnostic.Diagnostics
	)

	for _, pkg := range pkgs {
		f, d := Extract(pkg.Fset, pkg.Name, pkg.Syntax, pkg.Types)
		diags.Merge(d)

		if f == nil {
			continue
		}

		if len(pkg.GoFiles) > 0 {
			f.Path = filepath.Dir(pkg.GoFiles[0])
		}

		files = append(files, f)
	}

	return files, diags, nil
}
