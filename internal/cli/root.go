// Package cli implements the typewriter command line.
package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"typewriter/internal/config"
	"typewriter/internal/gen"
	"typewriter/internal/logger"
)

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	log        *logrus.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:   "typewriter",
		Short: "Generate Flow, TypeScript and Elm declarations from Go types",
		Long: `typewriter reads Go packages or YAML schema files and writes structural type
declarations that mirror them for a frontend type-checker.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./typewriter.yaml if present)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")

	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", pf.Lookup("log-format"))

	cmd.AddCommand(
		a.genCmd(),
		a.inspectCmd(),
		a.watchCmd(),
		langsCmd(),
	)

	return cmd
}

// flagKeys maps generation flags to config keys.
var flagKeys = map[string]string{
	"package":            "packages",
	"schema":             "schemas",
	"lang":               "languages",
	"out":                "out",
	"basename":           "basename",
	"order":              "order",
	"header":             "header",
	"strict":             "strict",
	"optional-omitempty": "optional_omitempty",
	"field-case":         "field_case",
}

// addGenFlags registers the flags shared by gen, inspect and watch.
func addGenFlags(fs *pflag.FlagSet) {
	def := gen.DefaultGeneratorConfig()

	fs.StringSliceP("package", "p", nil, "Go package pattern to read (repeatable)")
	fs.StringSliceP("schema", "s", nil, "YAML schema file to read (repeatable)")
	fs.StringSliceP("lang", "l", []string{"flow"}, "target language: flow, typescript (ts), elm (repeatable)")
	fs.StringP("out", "o", def.OutputDir, "output directory")
	fs.String("basename", def.BaseName, "base name of generated files")
	fs.String("order", string(def.Order), "declaration order: alpha, source or dependency")
	fs.Bool("header", def.Header, "write a generated-code header")
	fs.Bool("strict", false, "make every record exact (Flow)")
	fs.Bool("optional-omitempty", false, "make omitempty fields optional")
	fs.String("field-case", "go", "names of fields without a json tag: go, snake or camel")
}

// setup binds the flags of the running command, loads the configuration
// and configures logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}

	log, err := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log

	if used := a.v.ConfigFileUsed(); used != "" {
		log.WithField("config", used).Debug("config loaded")
	}

	return nil
}

// generator builds a generator from the loaded configuration.
func (a *app) generator() (*gen.Generator, error) {
	gc, err := a.cfg.Generator()
	if err != nil {
		return nil, err
	}

	return gen.NewGenerator(gc, a.log), nil
}
