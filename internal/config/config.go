// Package config loads typewriter settings from a config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"typewriter/internal/emit"
	"typewriter/internal/gen"
	"typewriter/internal/naming"
	"typewriter/internal/typemap"
)

// EnvPrefix prefixes environment overrides: TYPEWRITER_OUT, TYPEWRITER_LOG_LEVEL.
const EnvPrefix = "TYPEWRITER"

// Config is the decoded configuration.
type Config struct {
	Packages          []string   `mapstructure:"packages"`
	Schemas           []string   `mapstructure:"schemas"`
	Languages         []string   `mapstructure:"languages"`
	Out               string     `mapstructure:"out"`
	BaseName          string     `mapstructure:"basename"`
	Order             string     `mapstructure:"order"`
	Header            bool       `mapstructure:"header"`
	Strict            bool       `mapstructure:"strict"`
	OptionalOmitEmpty bool       `mapstructure:"optional_omitempty"`
	FieldCase         string     `mapstructure:"field_case"`
	Overrides         []Override `mapstructure:"overrides"`
	Log               Log        `mapstructure:"log"`
}

// Override maps an external Go type to a target type.
// Overrides are a list because viper lower-cases map keys.
type Override struct {
	Type string `mapstructure:"type"`
	To   string `mapstructure:"to"`
}

// Log configures logging.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment overrides.
func New() *viper.Viper {
	v := viper.New()

	def := gen.DefaultGeneratorConfig()

	v.SetDefault("packages", []string{})
	v.SetDefault("schemas", []string{})
	v.SetDefault("languages", []string{string(emit.Flow)})
	v.SetDefault("out", def.OutputDir)
	v.SetDefault("basename", def.BaseName)
	v.SetDefault("order", string(def.Order))
	v.SetDefault("header", def.Header)
	v.SetDefault("strict", false)
	v.SetDefault("optional_omitempty", false)
	v.SetDefault("field_case", string(naming.CaseGo))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file at path into v and decodes the result. With an
// empty path, typewriter.yaml is looked up in the working directory and may
// be absent.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("typewriter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &c, nil
}

// Generator converts the configuration into a generator configuration.
func (c *Config) Generator() (gen.GeneratorConfig, error) {
	out := gen.DefaultGeneratorConfig()

	if len(c.Languages) > 0 {
		out.Languages = out.Languages[:0]

		for _, name := range c.Languages {
			lang, err := emit.ParseLanguage(name)
			if err != nil {
				return out, err
			}

			out.Languages = append(out.Languages, lang)
		}
	}

	order, err := gen.ParseOrder(c.Order)
	if err != nil {
		return out, err
	}

	fieldCase, err := naming.ParseCase(c.FieldCase)
	if err != nil {
		return out, err
	}

	if c.Out != "" {
		out.OutputDir = c.Out
	}

	if c.BaseName != "" {
		out.BaseName = c.BaseName
	}

	out.Order = order
	out.Header = c.Header
	out.Mapper = typemap.Options{
		StrictAll:         c.Strict,
		OptionalOmitEmpty: c.OptionalOmitEmpty,
		FieldCase:         fieldCase,
		Overrides:         make(map[string]string, len(c.Overrides)),
	}

	for _, o := range c.Overrides {
		if o.Type == "" || o.To == "" {
			return out, fmt.Errorf("override needs both type and to: %+v", o)
		}

		out.Mapper.Overrides[o.Type] = o.To
	}

	return out, nil
}

// Inputs returns the sources named by the configuration.
func (c *Config) Inputs() gen.Inputs {
	return gen.Inputs{
		Packages: c.Packages,
		Schemas:  c.Schemas,
	}
}
