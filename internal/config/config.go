// Package config loads inspector-gen settings.
//
// Sources are applied in order, later ones winning: built-in defaults, an
// optional YAML file, INSPECTOR_GEN_* environment variables and command-line
// flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EnvPrefix prefixes environment variables, e.g. INSPECTOR_GEN_LOG_LEVEL.
const EnvPrefix = "INSPECTOR_GEN_"

// Config holds generator settings.
type Config struct {
	// Schemas are doublestar globs of YAML schema files.
	Schemas []string `koanf:"schemas"`
	// Packages are Go package patterns scanned for derived types.
	Packages []string `koanf:"packages"`
	// Dir is the working directory patterns are resolved in.
	Dir string `koanf:"dir"`
	// Output is the directory generated files go to. Empty means next to
	// each schema file or package.
	Output string `koanf:"output"`
	// Package overrides the package name of generated files.
	Package string `koanf:"package" validate:"omitempty,excludesall=/."`
	// OptionsImport is the import path of the runtime options package.
	OptionsImport string `koanf:"options_import" validate:"required"`
	// Comments adds a comment per table entry.
	Comments bool `koanf:"comments"`
	// Strict turns warnings into errors.
	Strict bool `koanf:"strict"`

	Log LogConfig `koanf:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Schemas:       []string{},
		Packages:      []string{},
		Dir:           ".",
		OptionsImport: "inspector-options/options",
		Comments:      true,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ErrNoInput is returned when neither schemas nor packages are configured.
var ErrNoInput = errors.New("no schemas or packages to process")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}

		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = fmt.Sprintf("%s: failed %q (got %v)", strings.ToLower(fe.Namespace()), fe.Tag(), fe.Value())
		}

		return errors.New("invalid configuration: " + strings.Join(msgs, "; "))
	}

	return nil
}

// RequireInput returns ErrNoInput when there is nothing to process.
func (c *Config) RequireInput() error {
	if len(c.Schemas) == 0 && len(c.Packages) == 0 {
		return ErrNoInput
	}

	return nil
}
