package main

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/mlskel/pkg/logging"
	"github.com/arthur-debert/mlskel/pkg/pipeline"
	"github.com/arthur-debert/mlskel/pkg/projectconfig"
)

// pipelineLogger loads the generated project's logging configuration,
// honoring LOG_CFG, and falls back to info-level console logging.
func (a *app) pipelineLogger(dir string) (zerolog.Logger, error) {
	cfg, err := logging.Load(filepath.Join(dir, logging.DefaultPath), logging.DefaultEnvKey, logging.Default(zerolog.InfoLevel))
	if err != nil {
		return zerolog.Logger{}, err
	}
	cfg.Component = "pipeline"
	return cfg.NewLogger(a.stderr), nil
}

func newTrainCommand(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run the placeholder training pipeline of a generated project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.pipelineLogger(dir)
			if err != nil {
				return err
			}
			settings, err := projectconfig.Load(filepath.Join(dir, projectconfig.DefaultPath))
			if err != nil {
				return err
			}
			logger.Debug().
				Str("data_path", settings.DataPath).
				Str("db_host", settings.Database.Host).
				Int("db_port", settings.Database.Port).
				Msg("loaded project settings")

			p := pipeline.New(logger, a.stdout)
			if err := p.RunTraining(cmd.Context()); err != nil {
				return err
			}
			return p.SaveModel(settings.ModelPath)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "generated project directory")
	return cmd
}

func newPredictCommand(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run the placeholder prediction pipeline of a generated project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.pipelineLogger(dir)
			if err != nil {
				return err
			}
			return pipeline.New(logger, a.stdout).RunPrediction(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "generated project directory")
	return cmd
}
