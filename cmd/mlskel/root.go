package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/mlskel/pkg/logging"
	"github.com/arthur-debert/mlskel/pkg/manifest"
)

const envPrefix = "MLSKEL"

// app carries the per-invocation configuration shared by all commands.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree. Running the root command without
// arguments generates the sample project in the current directory.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "mlskel",
		Short: "Generate a machine-learning project skeleton",
		Long: heredoc.Doc(`
			mlskel creates the directory layout, placeholder modules and the
			config, docker, test and script stubs of a machine-learning project.

			Running it again is safe: directories that exist are kept and files
			are rewritten with their generated content.
		`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	defaults := manifest.DefaultValues()
	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.mlskel.yaml)")
	pf.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	pf.String("name", defaults.Name, "project name, used as the python package name")
	pf.String("project-version", defaults.Version, "initial project version (semver)")
	pf.String("description", defaults.Description, "project description")
	pf.String("author", defaults.Author, "project author")
	pf.String("manifest", "", "YAML or TOML manifest to use instead of the built-in skeleton")

	f := cmd.Flags()
	f.String("root", ".", "directory to generate the project in")
	f.Bool("dry-run", false, "show what would change without writing anything")

	cmd.AddCommand(newVersionCommand(a))
	cmd.AddCommand(newManifestCommand(a))
	cmd.AddCommand(newTrainCommand(a))
	cmd.AddCommand(newPredictCommand(a))

	return cmd
}

// loadConfig binds flags, MLSKEL_* environment variables and the optional
// config file, in increasing order of precedence: file, env, flag.
func (a *app) loadConfig(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	a.v.AddConfigPath(home)
	a.v.SetConfigName(".mlskel")
	a.v.SetConfigType("yaml")
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// logger builds the CLI logger. Logs go to stderr so stdout only carries
// command output.
func (a *app) logger(component string) (zerolog.Logger, error) {
	level, err := logging.LogLevelFromString(a.v.GetString("log-level"))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid --log-level: %w", err)
	}
	cfg := logging.Default(level)
	cfg.Component = component
	return cfg.NewLogger(a.stderr), nil
}

func (a *app) values() manifest.Values {
	return manifest.Values{
		Name:        a.v.GetString("name"),
		Version:     a.v.GetString("project-version"),
		Description: a.v.GetString("description"),
		Author:      a.v.GetString("author"),
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  `Print the version number of mlskel`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "mlskel version %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
