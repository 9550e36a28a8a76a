package manifest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPath is returned for empty, absolute or escaping paths.
	ErrInvalidPath = errors.New("invalid manifest path")
	// ErrDuplicatePath is returned when two files share a path.
	ErrDuplicatePath = errors.New("duplicate file path")
	// ErrPathConflict is returned when a path is declared both as a
	// directory and as a file.
	ErrPathConflict = errors.New("path declared as both directory and file")
	// ErrUnknownFormat is returned when a manifest document's format cannot
	// be derived from its file name.
	ErrUnknownFormat = errors.New("unknown manifest format")
)

// PathError records a manifest path that failed a structural check.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Path)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ValidationIssue represents a single schema violation.
type ValidationIssue struct {
	Path    string // Instance location (e.g. "/files/0/path")
	Message string
	Keyword string
}

// ValidationError is returned when a manifest document does not match the
// manifest schema.
type ValidationError struct {
	Source string
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	source := e.Source
	if source == "" {
		source = "manifest"
	}
	return fmt.Sprintf("%s does not match schema: %s", source, strings.Join(parts, "; "))
}
