// Package config loads the project's .wren.yml.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/wren/internal/naming"
)

// FileName is the config file looked up in the project root.
const FileName = ".wren.yml"

// EnvPrefix prefixes environment overrides, e.g. WREN_TEMPLATES_DIR.
const EnvPrefix = "WREN"

// ErrExists is returned by WriteDefault when the file is already present.
var ErrExists = errors.New("config file already exists")

// Config is the decoded .wren.yml.
type Config struct {
	PluginDirs []string  `mapstructure:"plugin_dirs" yaml:"plugin_dirs" validate:"min=1,dive,required"`
	Templates  Templates `mapstructure:"templates" yaml:"templates"`
	Output     Output    `mapstructure:"output" yaml:"output"`
	Conflict   Conflict  `mapstructure:"conflict" yaml:"conflict"`
}

// Templates configures the template store.
type Templates struct {
	Dir             string `mapstructure:"dir" yaml:"dir"`
	AllowUnresolved bool   `mapstructure:"allow_unresolved" yaml:"allow_unresolved"`
}

// Output configures what the operator sees.
type Output struct {
	Highlight bool   `mapstructure:"highlight" yaml:"highlight"`
	Style     string `mapstructure:"style" yaml:"style" validate:"required"`
}

// Conflict selects how existing files are handled when no flag is given.
type Conflict struct {
	Strategy string `mapstructure:"strategy" yaml:"strategy" validate:"oneof=interactive force skip merge"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		PluginDirs: []string{"custom/plugins", "custom/static-plugins"},
		Output:     Output{Highlight: true, Style: "monokai"},
		Conflict:   Conflict{Strategy: "interactive"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("plugin_dirs", d.PluginDirs)
	v.SetDefault("templates.dir", d.Templates.Dir)
	v.SetDefault("templates.allow_unresolved", d.Templates.AllowUnresolved)
	v.SetDefault("output.highlight", d.Output.Highlight)
	v.SetDefault("output.style", d.Output.Style)
	v.SetDefault("conflict.strategy", d.Conflict.Strategy)
}

// Load reads the config for projectDir. An explicit path must exist; the
// default .wren.yml is optional. Environment variables override both.
// A relative templates.dir is resolved against projectDir.
func Load(fsys afero.Fs, projectDir, explicit string) (*Config, error) {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := explicit
	if path == "" {
		path = filepath.Join(projectDir, FileName)
	}
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if !exists && explicit != "" {
		return nil, fmt.Errorf("config file %s not found", explicit)
	}
	if exists {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.Templates.Dir != "" && !filepath.IsAbs(cfg.Templates.Dir) {
		cfg.Templates.Dir = filepath.Join(projectDir, cfg.Templates.Dir)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints, reporting every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	errs := make(naming.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, naming.ValidationError{
			Field:   fe.Namespace(),
			Value:   fmt.Sprint(fe.Value()),
			Message: describe(fe),
		})
	}
	return errs
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "needs at least " + fe.Param() + " entry"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "failed " + fe.Tag() + " check"
}

// DefaultYAML renders the default configuration as a commented YAML file.
func DefaultYAML() ([]byte, error) {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	header := "# wren configuration\n# Environment variables override keys, e.g. WREN_OUTPUT_STYLE=dracula\n"
	return append([]byte(header), data...), nil
}

// WriteDefault writes DefaultYAML to path unless it exists and force is unset.
func WriteDefault(fsys afero.Fs, path string, force bool) error {
	if exists, _ := afero.Exists(fsys, path); exists && !force {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}

	data, err := DefaultYAML()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
