package main

import (
	"fmt"
	"io"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"inspector-options/internal/config"
	"inspector-options/internal/logger"
	"inspector-options/options"
)

// app is the state shared by subcommands.
type app struct {
	fs     afero.Fs
	out    io.Writer
	errOut io.Writer

	configFile string
	cfg        *config.Config
	log        *charmlog.Logger
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"schemas":        "schemas",
	"packages":       "packages",
	"dir":            "dir",
	"output":         "output",
	"package-name":   "package",
	"options-import": "options_import",
	"comments":       "comments",
	"strict":         "strict",
	"log-level":      "log.level",
	"log-json":       "log.json",
}

func newRootCmd(fs afero.Fs, out, errOut io.Writer) *cobra.Command {
	a := &app{fs: fs, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "inspector-gen",
		Short: "Compile inspector directives into options tables",
		Long: `inspector-gen reads annotated types from YAML schemas and Go packages,
checks every inspector directive against its field type and generates the
code registering each type's options table.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags())
		},
	}

	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to a YAML configuration file")
	flags.StringSliceP("schemas", "s", nil, "Schema file globs (doublestar syntax)")
	flags.StringSliceP("packages", "p", nil, "Go package patterns to scan for derived types")
	flags.String("dir", ".", "Directory package patterns are resolved in")
	flags.StringP("output", "o", "", "Output directory (default: next to each input)")
	flags.String("package-name", "", "Override the package name of generated files")
	flags.String("options-import", "", "Import path of the runtime options package")
	flags.Bool("comments", true, "Comment each generated table entry")
	flags.Bool("strict", false, "Treat warnings as errors")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "Log as JSON")

	cmd.AddCommand(
		newGenCmd(a),
		newCheckCmd(a),
		newPlanCmd(a),
	)

	return cmd
}

// setup loads the configuration with changed flags taking precedence.
func (a *app) setup(flags *pflag.FlagSet) error {
	overrides := make(map[string]any)

	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}

		switch f.Value.Type() {
		case "stringSlice":
			v, _ := flags.GetStringSlice(name)
			overrides[key] = v
		case "bool":
			v, _ := flags.GetBool(name)
			overrides[key] = v
		default:
			overrides[key] = f.Value.String()
		}
	}

	cfg, err := config.NewLoader(a.fs).Load(a.configFile, overrides)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a.cfg = cfg
	a.log = logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Output: a.errOut,
		JSON:   cfg.Log.JSON,
	})
	options.Default().SetLogger(logger.Slog(a.log))

	return nil
}
