package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/afero"

	"inspector-options/internal/bounds"
	"inspector-options/internal/common"
	"inspector-options/internal/plan"
	"inspector-options/options"
)

// DefaultOptionsImport is the import path of the runtime package.
const DefaultOptionsImport = "inspector-options/options"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName overrides the plan's package name.
	PackageName string
	// OutputDir is where WriteFiles puts generated files and where
	// unformatted sources are dumped when formatting fails.
	OutputDir string
	// OptionsImport is the import path of the runtime options package.
	OptionsImport string
	// GenerateComments adds a comment per table entry.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "",
		OutputDir:        ".",
		OptionsImport:    DefaultOptionsImport,
		GenerateComments: true,
	}
}

// Generator emits one Go file per planned type. Each file registers the
// type's concrete instantiations with the default registry from init and
// defines the routine building the type's options table.
type Generator struct {
	config GeneratorConfig
	fs     afero.Fs
}

// NewGenerator creates a generator writing debug output to the OS
// filesystem.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.OptionsImport == "" {
		config.OptionsImport = DefaultOptionsImport
	}

	return &Generator{config: config, fs: afero.NewOsFs()}
}

// WithFs sets the filesystem used for debug output.
func (g *Generator) WithFs(fs afero.Fs) *Generator {
	g.fs = fs

	return g
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "player_options.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate generates one file per type of p, in plan order.
func (g *Generator) Generate(p *plan.Plan) ([]GeneratedFile, error) {
	if p == nil {
		return nil, fmt.Errorf("generating: nil plan")
	}

	pkg := g.config.PackageName
	if pkg == "" {
		pkg = p.Package
	}

	if pkg == "" {
		return nil, fmt.Errorf("generating: no package name")
	}

	files := make([]GeneratedFile, 0, len(p.Types))

	for i := range p.Types {
		file, err := g.generateType(pkg, p, &p.Types[i])
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", p.Types[i].Name, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

type fileData struct {
	PackageName string
	Imports     []importSpec
	Comments    bool
	Type        typeData
}

type importSpec struct {
	Alias string
	Path  string
}

type typeData struct {
	Name       string
	Kind       string
	Builder    string
	TypeParams string
	// Self is the type as spelled inside its builder.
	Self string
	// Variants are the variant types, spelled inside the builder.
	Variants  []string
	Instances []registration
	Entries    []entryData
}

type registration struct {
	Type    string
	Builder string
}

type entryData struct {
	Target   string
	Name     string
	Field    string
	Type     string
	Settings []string
}

func (g *Generator) generateType(pkg string, p *plan.Plan, tp *plan.TypePlan) (*GeneratedFile, error) {
	data := &fileData{
		PackageName: pkg,
		Comments:    g.config.GenerateComments,
		Type: typeData{
			Name:       tp.Name,
			Kind:       string(tp.Kind),
			Builder:    builderName(tp.Name),
			TypeParams: bounds.TypeParamList(tp.Bounds),
			Self:       tp.Name + bounds.TypeArgList(tp.Bounds),
		},
	}

	for _, v := range tp.Variants {
		data.Type.Variants = append(data.Type.Variants, v.Name+bounds.TypeArgList(tp.Bounds))
	}

	instances := make([]string, 0, len(tp.Instances))

	for _, inst := range tp.Instances {
		builder := data.Type.Builder
		if len(inst.Args) > 0 {
			builder += "[" + strings.Join(inst.Args, ", ") + "]"
		}

		instances = append(instances, tp.TypeExpr(inst))
		data.Type.Instances = append(data.Type.Instances, registration{
			Type:    tp.TypeExpr(inst),
			Builder: builder,
		})
	}

	for _, e := range tp.Entries {
		settings := make([]string, len(e.Settings))

		for i, s := range e.Settings {
			expr, err := SettingExpr(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Field, err)
			}

			settings[i] = expr
		}

		data.Type.Entries = append(data.Type.Entries, entryData{
			Target:   targetExpr(e.Target),
			Name:     e.Name,
			Field:    e.Field,
			Type:     e.Type,
			Settings: settings,
		})
	}

	data.Imports = g.imports(p, tp, instances)

	var buf bytes.Buffer
	if err := optionsTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	filename := Filename(tp.Name)

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = writeDebugUnformatted(g.fs, g.config.OutputDir, filename, buf.Bytes())

		return &GeneratedFile{Filename: filename, Content: buf.Bytes()}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{Filename: filename, Content: formatted}, nil
}

// imports returns the runtime import plus the schema imports referenced by
// the type's field types and instances.
func (g *Generator) imports(p *plan.Plan, tp *plan.TypePlan, instances []string) []importSpec {
	used := strings.Join(instances, " ")
	for _, e := range tp.Entries {
		used += " " + e.Type
	}

	for _, b := range tp.Bounds {
		used += " " + b.Constraint()
	}

	out := []importSpec{{Path: g.config.OptionsImport}}

	for _, imp := range p.Imports {
		alias := imp.Alias
		if alias == "" {
			alias = common.PkgAlias(imp.Path)
		}

		if imp.Path == g.config.OptionsImport || !strings.Contains(used, alias+".") {
			continue
		}

		out = append(out, importSpec{Alias: imp.Alias, Path: imp.Path})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}

// Filename returns the generated file name of a type.
func Filename(typeName string) string {
	return snakecase(typeName) + "_options.go"
}

var snakecase = sprig.TxtFuncMap()["snakecase"].(func(string) string)

func builderName(typeName string) string {
	return "build" + strings.ToUpper(typeName[:1]) + typeName[1:] + "Options"
}

func targetExpr(t options.Target) string {
	if t.Kind == options.TargetVariantField {
		return fmt.Sprintf("options.VariantField(%d, %d)", t.Variant, t.Index)
	}

	return fmt.Sprintf("options.Field(%d)", t.Index)
}

var optionsTemplate = template.Must(template.New("options").Funcs(sprig.TxtFuncMap()).Parse(`// Code generated by inspector-gen. DO NOT EDIT.

package {{.PackageName}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}{{quote .Path}}
{{end}})
{{with .Type}}
{{if .Instances}}
func init() {
{{range .Instances}}	options.MustRegister[{{.Type}}]({{.Builder}})
{{end}}}
{{end}}
// {{.Builder}} builds the options table of {{.Name}}.
func {{.Builder}}{{.TypeParams}}() (*options.Table, error) {
	b := options.NewBuilderFor[{{.Self}}]({{range $i, $v := .Variants}}{{if $i}}, {{end}}options.VariantOf[{{$v}}](){{end}})
{{range .Entries}}
{{if $.Comments}}	// {{.Field}}
{{end}}	b.InsertField({{.Target}}, {{quote .Name}}, options.For[{{.Type}}]({{join ", " .Settings}}))
{{end}}
	return b.Build()
}
{{end}}`))
