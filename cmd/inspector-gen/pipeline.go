package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"inspector-options/internal/analyze"
	"inspector-options/internal/diagnostic"
	"inspector-options/internal/gen"
	"inspector-options/internal/plan"
	"inspector-options/internal/schema"
)

// errDiagnostics is returned when compilation reported errors.
var errDiagnostics = errors.New("compilation failed")

// unit is one compiled input with the directory its output belongs to.
type unit struct {
	source string
	dir    string
	plan   *plan.Plan
}

// inputs loads all configured schema files and packages.
func (a *app) inputs() ([]*schema.File, []string, error) {
	if err := a.cfg.RequireInput(); err != nil {
		return nil, nil, err
	}

	var (
		files []*schema.File
		dirs  []string
	)

	paths, err := a.globSchemas()
	if err != nil {
		return nil, nil, err
	}

	for _, p := range paths {
		data, err := afero.ReadFile(a.fs, p)
		if err != nil {
			return nil, nil, fmt.Errorf("reading schema: %w", err)
		}

		f, err := schema.Parse(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", p, err)
		}

		f.SetPath(p)
		files = append(files, f)
		dirs = append(dirs, filepath.Dir(p))
		a.log.Debug("loaded schema", "path", p, "types", len(f.Types))
	}

	if len(a.cfg.Packages) > 0 {
		pkgFiles, diags, err := analyze.NewAnalyzer().WithDir(a.cfg.Dir).LoadPackages(a.cfg.Packages...)
		if err != nil {
			return nil, nil, err
		}

		if a.report(diags) {
			return nil, nil, errDiagnostics
		}

		for _, f := range pkgFiles {
			files = append(files, f)
			dirs = append(dirs, f.Path)
			a.log.Debug("analyzed package", "package", f.Package, "types", len(f.Types))
		}
	}

	return files, dirs, nil
}

func (a *app) globSchemas() ([]string, error) {
	iofs := afero.NewIOFS(a.fs)
	seen := make(map[string]bool)

	var out []string

	for _, pattern := range a.cfg.Schemas {
		matches, err := doublestar.Glob(iofs, filepath.ToSlash(filepath.Clean(pattern)))
		if err != nil {
			return nil, fmt.Errorf("bad schema pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			a.log.Warn("schema pattern matched nothing", "pattern", pattern)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	sort.Strings(out)

	return out, nil
}

// compile compiles every input and reports diagnostics.
func (a *app) compile() ([]unit, error) {
	files, dirs, err := a.inputs()
	if err != nil {
		return nil, err
	}

	var (
		units  []unit
		failed bool
	)

	for i, f := range files {
		p, diags := plan.Compile(f)
		if a.report(diags) || p == nil {
			failed = true

			continue
		}

		dir := dirs[i]
		if a.cfg.Output != "" {
			dir = a.cfg.Output
		}

		units = append(units, unit{source: sourceName(f), dir: dir, plan: p})
	}

	if failed {
		return nil, errDiagnostics
	}

	return units, nil
}

// report logs diagnostics and returns true when they fail the run.
func (a *app) report(d diagnostic.Diagnostics) bool {
	for _, e := range d.Errors {
		a.log.Error(e.String())
	}

	for _, w := range d.Warnings {
		a.log.Warn(w.String())
	}

	for _, i := range d.Infos {
		a.log.Debug(i.String())
	}

	return d.HasErrors() || (a.cfg.Strict && len(d.Warnings) > 0)
}

// generate renders the files of u.
func (a *app) generate(u unit) ([]gen.GeneratedFile, error) {
	cfg := gen.DefaultGeneratorConfig()
	cfg.PackageName = a.cfg.Package
	cfg.OutputDir = u.dir
	cfg.OptionsImport = a.cfg.OptionsImport
	cfg.GenerateComments = a.cfg.Comments

	files, err := gen.NewGenerator(cfg).WithFs(a.fs).Generate(u.plan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.source, err)
	}

	return files, nil
}

func sourceName(f *schema.File) string {
	if f.Path != "" {
		return f.Path
	}

	return f.Package
}
