package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Loader merges configuration sources.
type Loader struct {
	fs      afero.Fs
	environ func() []string
}

// NewLoader creates a loader reading files from fs and variables from the
// process environment.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs, environ: os.Environ}
}

// WithEnviron replaces the environment source.
func (l *Loader) WithEnviron(environ func() []string) *Loader {
	l.environ = environ

	return l
}

// Load merges defaults, the YAML file at path (skipped when empty), the
// environment and overrides, then validates the result. Override keys are
// koanf paths such as "log.level".
func (l *Loader) Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		data, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}

		if err := k.Load(rawMap(raw), nil); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := l.loadEnvironment(k); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		for key, v := range overrides {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("applying %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EnvVar returns the environment variable of a koanf path.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// loadEnvironment maps INSPECTOR_GEN_* variables onto the known keys. Unknown
// variables are ignored.
func (l *Loader) loadEnvironment(k *koanf.Koanf) error {
	envToPath := make(map[string]string)
	for _, key := range k.Keys() {
		envToPath[EnvVar(key)] = key
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix:      EnvPrefix,
		EnvironFunc: l.environ,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envToPath[key]
			if !ok {
				return "", nil
			}

			switch k.Get(path).(type) {
			case []string, []any:
				return path, splitList(value)
			}

			if b, err := strconv.ParseBool(value); err == nil {
				if _, isBool := k.Get(path).(bool); isBool {
					return path, b
				}
			}

			return path, value
		},
	}), nil)
	if err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	return nil
}

func splitList(s string) []string {
	out := []string{}

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// rawMap is a koanf.Provider adapter for decoded YAML data.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("ReadBytes not implemented")
}
