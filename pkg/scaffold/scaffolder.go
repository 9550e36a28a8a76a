// Package scaffold materializes a manifest on a filesystem.
//
// A run is a single linear batch: all directories, then all files, then the
// executable bits of the allow-list. It stops at the first filesystem error
// and does not roll back; rerunning is safe because directory creation is
// idempotent and file writes overwrite.
//
//	fsys := filesystem.NewOSFileSystem(".")
//	m, _ := blueprint.Render(manifest.DefaultValues())
//	result, err := scaffold.New(fsys, scaffold.WithOutput(os.Stdout)).Run(m)
package scaffold

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/mlskel/pkg/manifest"
	"github.com/arthur-debert/mlskel/pkg/scaffold/filesystem"
)

const (
	// DirMode is the mode directories are created with.
	DirMode fs.FileMode = 0755
	// FileMode is the mode new files are created with.
	FileMode fs.FileMode = 0644
	// ExecutableMode is forced onto allow-listed files.
	ExecutableMode fs.FileMode = 0755
)

// DefaultCompletionMessage is printed after a successful run.
const DefaultCompletionMessage = "Project structure created successfully."

// Scaffolder creates directories and files on a filesystem.
type Scaffolder struct {
	fs         filesystem.FileSystem
	logger     zerolog.Logger
	out        io.Writer
	completion string
}

// Option configures a Scaffolder.
type Option func(*Scaffolder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scaffolder) {
		s.logger = logger
	}
}

// WithOutput sets where the completion message is printed. A nil writer
// suppresses it.
func WithOutput(w io.Writer) Option {
	return func(s *Scaffolder) {
		s.out = w
	}
}

// WithCompletionMessage replaces DefaultCompletionMessage.
func WithCompletionMessage(msg string) Option {
	return func(s *Scaffolder) {
		s.completion = msg
	}
}

// New creates a Scaffolder writing to fsys.
func New(fsys filesystem.FileSystem, opts ...Option) *Scaffolder {
	s := &Scaffolder{
		fs:         fsys,
		logger:     zerolog.Nop(),
		completion: DefaultCompletionMessage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Materialize runs m against the OS filesystem rooted at root.
func Materialize(m manifest.Manifest, root string, opts ...Option) (*Result, error) {
	return New(filesystem.NewOSFileSystem(root), opts...).Run(m)
}

// Normalize strips leading and trailing whitespace from content and
// terminates it with exactly one newline.
func Normalize(content string) string {
	return strings.TrimSpace(content) + "\n"
}

// CreateDirectories creates each path and its missing ancestors. Existing
// directories are not an error.
func (s *Scaffolder) CreateDirectories(paths ...string) error {
	for _, p := range paths {
		if err := s.fs.MkdirAll(p, DirMode); err != nil {
			return &IOError{Op: "mkdir", Path: p, Err: err}
		}
		s.logger.Debug().Str("path", p).Msg("directory created")
	}
	return nil
}

// WriteFile writes the normalized content to p, replacing any existing
// file. A parent directory the manifest never declared, the root included,
// is created on demand.
func (s *Scaffolder) WriteFile(p, content string) error {
	if err := s.fs.MkdirAll(path.Dir(p), DirMode); err != nil {
		return &IOError{Op: "write", Path: p, Err: err}
	}
	data := Normalize(content)
	if err := s.fs.WriteFile(p, []byte(data), FileMode); err != nil {
		return &IOError{Op: "write", Path: p, Err: err}
	}
	s.logger.Debug().Str("path", p).Int("bytes", len(data)).Msg("file written")
	return nil
}

// SetExecutable sets the mode of p to 0755. The file must exist.
func (s *Scaffolder) SetExecutable(p string) error {
	if err := s.fs.Chmod(p, ExecutableMode); err != nil {
		return &IOError{Op: "chmod", Path: p, Err: err}
	}
	s.logger.Debug().Str("path", p).Msg("executable bit set")
	return nil
}

// Run plans and executes m, then prints the completion message.
func (s *Scaffolder) Run(m manifest.Manifest) (*Result, error) {
	plan, err := BuildPlan(m)
	if err != nil {
		return nil, fmt.Errorf("failed to plan scaffold: %w", err)
	}
	result, err := s.Execute(plan)
	if err != nil {
		return result, err
	}
	if s.out != nil && s.completion != "" {
		if _, err := fmt.Fprintln(s.out, s.completion); err != nil {
			return result, fmt.Errorf("failed to report completion: %w", err)
		}
	}
	return result, nil
}

// Execute runs the steps of a plan in order and stops at the first error.
// Unresolved plans are resolved first.
func (s *Scaffolder) Execute(plan *Plan) (*Result, error) {
	if !plan.Resolved() {
		if err := plan.Resolve(); err != nil {
			return nil, err
		}
	}

	result := &Result{Steps: make([]StepResult, 0, plan.Len())}
	start := time.Now()
	for _, step := range plan.Steps() {
		stepStart := time.Now()
		err := s.execute(step)
		sr := StepResult{Step: step, Status: StatusSuccess, Duration: time.Since(stepStart)}
		if err != nil {
			sr.Status = StatusFailure
			sr.Error = err
			result.Steps = append(result.Steps, sr)
			result.Duration = time.Since(start)
			s.logger.Error().Err(err).Str("step", string(step.ID)).Msg("scaffold step failed")
			return result, err
		}
		result.Steps = append(result.Steps, sr)
	}
	result.Success = true
	result.Duration = time.Since(start)

	s.logger.Info().
		Int("directories", result.Count(StepMkdir)).
		Int("files", result.Count(StepWrite)).
		Int("executables", result.Count(StepChmod)).
		Dur("duration", result.Duration).
		Msg("scaffold complete")
	return result, nil
}

func (s *Scaffolder) execute(step Step) error {
	switch step.Kind {
	case StepMkdir:
		return s.CreateDirectories(step.Path)
	case StepWrite:
		return s.WriteFile(step.Path, step.Content)
	case StepChmod:
		return s.SetExecutable(step.Path)
	default:
		return fmt.Errorf("unknown step kind %v for %s", step.Kind, step.Path)
	}
}
