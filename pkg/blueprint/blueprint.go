// Package blueprint holds the built-in machine-learning project skeleton.
//
// The skeleton declares its directories, files and executable scripts
// explicitly; file bodies are text/template payloads embedded from the
// skeleton/ tree and rendered with manifest.Values.
package blueprint

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/arthur-debert/mlskel/pkg/manifest"
)

//go:embed all:skeleton
var skeleton embed.FS

// CompletionMessage is printed after the skeleton has been materialized.
const CompletionMessage = "Project structure with sample files and docker-compose.yml created successfully."

const pkg = "src/{{.Name}}"

// Directories lists the directories of the skeleton in creation order.
var Directories = []string{
	pkg + "/components",
	pkg + "/pipelines",
	pkg + "/utils",
	pkg + "/constants",
	pkg + "/entities",
	"config",
	"data/raw",
	"data/processed",
	"data/external",
	"docs",
	"notebooks/exploratory",
	"notebooks/experiments",
	"notebooks/production",
	"tests",
	"scripts",
	"templates",
	".github/workflows",
}

// Files lists the file paths of the skeleton.
var Files = []string{
	".gitignore",
	".dockerignore",
	"README.md",
	"LICENSE",
	"Dockerfile",
	"docker-compose.yml",
	"Makefile",
	"pyproject.toml",
	"config/config.yaml",
	"config/logging.yaml",
	pkg + "/__init__.py",
	pkg + "/main.py",
	pkg + "/components/__init__.py",
	pkg + "/components/data_ingestion.py",
	pkg + "/components/data_transformation.py",
	pkg + "/components/model_trainer.py",
	pkg + "/components/model_evaluation.py",
	pkg + "/pipelines/__init__.py",
	pkg + "/pipelines/train_pipeline.py",
	pkg + "/pipelines/predict_pipeline.py",
	pkg + "/utils/__init__.py",
	pkg + "/utils/logging.py",
	pkg + "/utils/config.py",
	pkg + "/utils/common.py",
	pkg + "/constants/__init__.py",
	pkg + "/entities/__init__.py",
	"tests/__init__.py",
	"tests/test_components.py",
	"scripts/run_tests.sh",
	"scripts/build_docker.sh",
	"scripts/deploy.sh",
	"templates/index.html",
	".env.example",
}

// Executables is the allow-list of files made executable after writing.
var Executables = []string{
	"scripts/run_tests.sh",
	"scripts/build_docker.sh",
	"scripts/deploy.sh",
}

// Manifest returns the unrendered skeleton manifest.
func Manifest() (manifest.Manifest, error) {
	b := manifest.NewBuilder().Dir(Directories...)
	for _, p := range Files {
		content, err := payload(p)
		if err != nil {
			return manifest.Manifest{}, err
		}
		b.File(p, content)
	}
	return b.Executable(Executables...).Build()
}

// Render returns the skeleton manifest rendered with v.
func Render(v manifest.Values) (manifest.Manifest, error) {
	m, err := Manifest()
	if err != nil {
		return manifest.Manifest{}, err
	}
	return manifest.Render(m, v)
}

// payload reads the embedded template for a skeleton path. The package
// directory is stored as skeleton/src/project.
func payload(p string) (string, error) {
	name := path.Join("skeleton", strings.Replace(p, pkg, "src/project", 1)+".tmpl")
	data, err := skeleton.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("missing skeleton payload for %s: %w", p, err)
	}
	return string(data), nil
}
