package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mlskel/pkg/blueprint"
	"github.com/arthur-debert/mlskel/pkg/manifest"
	"github.com/arthur-debert/mlskel/pkg/scaffold"
)

// run executes the command tree with args and an isolated HOME.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmdSetup(t *testing.T) {
	cmd := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, "mlskel", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"version", "manifest", "train", "predict"}, names)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mlskel version dev")
}

func TestGenerate_NoFlags(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, _, err := run(t)
	require.NoError(t, err)
	assert.Equal(t, blueprint.CompletionMessage+"\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Sample_project\n\nProject description goes here.\n", string(data))

	for _, script := range blueprint.Executables {
		info, err := os.Stat(filepath.Join(dir, script))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), script)
	}

	out, _, err = run(t)
	require.NoError(t, err, "second run")
	assert.Equal(t, blueprint.CompletionMessage+"\n", out)
}

func TestGenerate_NameFromFlagAndEnv(t *testing.T) {
	root := t.TempDir()
	_, _, err := run(t, "--root", root, "--name", "churn")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "src", "churn", "main.py"))
	assert.NoError(t, err)

	root = t.TempDir()
	t.Setenv("MLSKEL_NAME", "from_env")
	_, _, err = run(t, "--root", root)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "src", "from_env", "main.py"))
	assert.NoError(t, err)
}

func TestGenerate_ConfigFile(t *testing.T) {
	root := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "mlskel.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("name: configured\nproject-version: 1.2.3\n"), 0644))

	_, _, err := run(t, "--config", cfg, "--root", root)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `name = "configured"`)
	assert.Contains(t, string(data), `version = "1.2.3"`)
}

func TestGenerate_InvalidName(t *testing.T) {
	_, _, err := run(t, "--root", t.TempDir(), "--name", "not-valid")
	assert.Error(t, err)
}

func TestGenerate_RootOccupiedByFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, []byte("keep"), 0644))

	out, _, err := run(t, "--root", root)
	require.Error(t, err)

	var ioErr *scaffold.IOError
	assert.True(t, errors.As(err, &ioErr))
	assert.Empty(t, out)

	data, err := os.ReadFile(root)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestGenerate_DryRun(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "LICENSE"), []byte("Apache\n"), 0644))

	out, _, err := run(t, "--root", root, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN")
	assert.Contains(t, out, "modify")
	assert.Contains(t, out, "-Apache")
	assert.Contains(t, out, "+MIT License")

	_, err = os.Stat(filepath.Join(root, "README.md"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(root, "LICENSE"))
	require.NoError(t, err)
	assert.Equal(t, "Apache\n", string(data))
}

func TestManifestCommand_RoundTrip(t *testing.T) {
	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			out, _, err := run(t, "manifest", "--format", format, "--name", "exported")
			require.NoError(t, err)

			f, err := manifest.ParseFormat(format)
			require.NoError(t, err)
			m, err := manifest.Parse([]byte(out), f, "stdout")
			require.NoError(t, err)
			assert.Len(t, m.Files(), len(blueprint.Files))
			_, ok := m.File("src/exported/main.py")
			assert.True(t, ok)
			assert.Equal(t, blueprint.Executables, m.Executables())
		})
	}
}

func TestGenerate_CustomManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skeleton.toml")
	doc := `
directories = ["a/b"]

[[files]]
path = "a/b/c.txt"
content = "  hello {{.Name}}  "

[[files]]
path = "bin/run.sh"
content = "#!/bin/sh"
executable = true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	root := filepath.Join(dir, "out")

	out, _, err := run(t, "--manifest", path, "--root", root)
	require.NoError(t, err)
	assert.Equal(t, scaffold.DefaultCompletionMessage+"\n", out)

	data, err := os.ReadFile(filepath.Join(root, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello sample_project\n", string(data))

	info, err := os.Stat(filepath.Join(root, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestTrain(t *testing.T) {
	root := t.TempDir()
	_, _, err := run(t, "--root", root)
	require.NoError(t, err)

	t.Setenv("LOG_CFG", "")
	out, _, err := run(t, "train", "--dir", root)
	require.NoError(t, err)
	assert.Equal(t, "Ingesting data...\nTransforming data...\nTraining model...\nEvaluating model...\nSaving model to models/\n", out)

	out, _, err = run(t, "predict", "--dir", root)
	require.NoError(t, err)
	assert.Equal(t, "Running prediction pipeline...\n", out)
}

func TestTrain_MissingProject(t *testing.T) {
	t.Setenv("LOG_CFG", "")
	_, _, err := run(t, "train", "--dir", t.TempDir())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
