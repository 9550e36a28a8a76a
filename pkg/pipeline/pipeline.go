// Package pipeline is the placeholder training pipeline of a generated
// project. Every stage only reports that it ran.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Seed is the random seed shared by the pipeline stages.
const Seed = 42

// Stage is one step of a pipeline.
type Stage struct {
	Name string
	Run  func() error
}

// Pipeline runs stub stages and reports progress to out.
type Pipeline struct {
	logger zerolog.Logger
	out    io.Writer
}

// New creates a pipeline that prints progress to out and logs with logger.
func New(logger zerolog.Logger, out io.Writer) *Pipeline {
	return &Pipeline{logger: logger, out: out}
}

func (p *Pipeline) say(msg string) error {
	_, err := fmt.Fprintln(p.out, msg)
	return err
}

// IngestData is the data ingestion stage.
func (p *Pipeline) IngestData() error {
	return p.say("Ingesting data...")
}

// TransformData is the data transformation stage.
func (p *Pipeline) TransformData() error {
	return p.say("Transforming data...")
}

// TrainModel is the model training stage.
func (p *Pipeline) TrainModel() error {
	return p.say("Training model...")
}

// EvaluateModel is the model evaluation stage.
func (p *Pipeline) EvaluateModel() error {
	return p.say("Evaluating model...")
}

// SaveModel reports where a model would be saved.
func (p *Pipeline) SaveModel(modelPath string) error {
	return p.say("Saving model to " + modelPath)
}

// TrainingStages returns the training stages in execution order.
func (p *Pipeline) TrainingStages() []Stage {
	return []Stage{
		{Name: "ingest", Run: p.IngestData},
		{Name: "transform", Run: p.TransformData},
		{Name: "train", Run: p.TrainModel},
		{Name: "evaluate", Run: p.EvaluateModel},
	}
}

// RunTraining runs the training stages in order. Cancellation is checked
// between stages.
func (p *Pipeline) RunTraining(ctx context.Context) error {
	p.logger.Info().Int("seed", Seed).Msg("Starting the training pipeline.")
	return p.run(ctx, p.TrainingStages())
}

// RunPrediction runs the prediction stage.
func (p *Pipeline) RunPrediction(ctx context.Context) error {
	return p.run(ctx, []Stage{{
		Name: "predict",
		Run:  func() error { return p.say("Running prediction pipeline...") },
	}})
}

func (p *Pipeline) run(ctx context.Context, stages []Stage) error {
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline stopped before %s: %w", stage.Name, err)
		}
		p.logger.Debug().Str("stage", stage.Name).Msg("running stage")
		if err := stage.Run(); err != nil {
			return fmt.Errorf("stage %s failed: %w", stage.Name, err)
		}
	}
	return nil
}
