package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/mlskel/pkg/blueprint"
	"github.com/arthur-debert/mlskel/pkg/manifest"
	"github.com/arthur-debert/mlskel/pkg/scaffold"
	"github.com/arthur-debert/mlskel/pkg/scaffold/filesystem"
)

// resolveManifest returns the rendered manifest to generate and the
// message to print once it is on disk.
func (a *app) resolveManifest() (manifest.Manifest, string, error) {
	var (
		m          manifest.Manifest
		err        error
		completion = blueprint.CompletionMessage
	)
	if path := a.v.GetString("manifest"); path != "" {
		m, err = manifest.Load(path)
		completion = scaffold.DefaultCompletionMessage
	} else {
		m, err = blueprint.Manifest()
	}
	if err != nil {
		return manifest.Manifest{}, "", err
	}

	rendered, err := manifest.Render(m, a.values())
	if err != nil {
		return manifest.Manifest{}, "", fmt.Errorf("failed to render manifest: %w", err)
	}
	return rendered, completion, nil
}

func (a *app) generate(cmd *cobra.Command) error {
	logger, err := a.logger("scaffold")
	if err != nil {
		return err
	}
	m, completion, err := a.resolveManifest()
	if err != nil {
		return err
	}

	root := a.v.GetString("root")
	fsys := filesystem.NewOSFileSystem(root)
	logger.Debug().Str("root", root).Int("entries", m.Len()).Msg("generating project")

	if a.v.GetBool("dry-run") {
		return a.dryRun(fsys, m, logger)
	}

	_, err = scaffold.New(fsys,
		scaffold.WithLogger(logger),
		scaffold.WithOutput(a.stdout),
		scaffold.WithCompletionMessage(completion),
	).Run(m)
	return err
}

// dryRun executes the manifest against an in-memory overlay of fsys so
// collisions are reported, then prints what a real run would change.
func (a *app) dryRun(fsys *filesystem.OSFileSystem, m manifest.Manifest, logger zerolog.Logger) error {
	result, err := scaffold.New(filesystem.NewDryRunFS(fsys), scaffold.WithLogger(logger)).Run(m)
	if err != nil {
		return fmt.Errorf("dry run failed: %w", err)
	}

	changes, err := scaffold.Changes(fsys, m)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "DRY RUN: %s would get %d directories, %d files, %d executables\n",
		fsys.Root(),
		result.Count(scaffold.StepMkdir),
		result.Count(scaffold.StepWrite),
		result.Count(scaffold.StepChmod),
	)
	for _, c := range changes {
		fmt.Fprintf(a.stdout, "  %-9s %s\n", c.Kind, c.Path)
	}
	for _, c := range changes {
		if c.Kind == scaffold.ChangeModify {
			fmt.Fprint(a.stdout, c.Unified)
		}
	}
	return nil
}
