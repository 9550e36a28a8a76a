package manifest

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultProjectName is the project name used when none is given.
	DefaultProjectName = "sample_project"
	// DefaultProjectVersion is the initial version written to generated
	// package metadata.
	DefaultProjectVersion = "0.1.0"
)

var projectNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Values is the substitution data available to path and content templates.
type Values struct {
	Name        string
	Version     string
	Description string
	Author      string
}

// DefaultValues returns the values of the stock sample project.
func DefaultValues() Values {
	return Values{
		Name:        DefaultProjectName,
		Version:     DefaultProjectVersion,
		Description: "Description of your project",
		Author:      "Your Name <you@example.com>",
	}
}

// Validate checks that the name is usable as an importable package name
// and that the version is a strict semantic version.
func (v Values) Validate() error {
	if !projectNamePattern.MatchString(v.Name) {
		return fmt.Errorf("invalid project name %q: must match %s", v.Name, projectNamePattern)
	}
	if _, err := semver.StrictNewVersion(v.Version); err != nil {
		return fmt.Errorf("invalid project version %q: %w", v.Version, err)
	}
	return nil
}

// TemplateFuncs returns the functions available to manifest templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"capitalize": Capitalize,
		"upper":      cases.Upper(language.Und).String,
		"lower":      cases.Lower(language.Und).String,
	}
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
func Capitalize(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

// Render executes every path and content template of m with v and returns
// the resulting manifest. Unknown fields are errors.
func Render(m Manifest, v Values) (Manifest, error) {
	if err := v.Validate(); err != nil {
		return Manifest{}, err
	}

	dirs := make([]Directory, 0, len(m.dirs))
	for _, d := range m.dirs {
		p, err := execute("dir:"+d.Path, d.Path, v)
		if err != nil {
			return Manifest{}, err
		}
		dirs = append(dirs, Directory{Path: p})
	}

	files := make([]File, 0, len(m.files))
	for _, f := range m.files {
		p, err := execute("path:"+f.Path, f.Path, v)
		if err != nil {
			return Manifest{}, err
		}
		content, err := execute(f.Path, f.Content, v)
		if err != nil {
			return Manifest{}, err
		}
		files = append(files, File{Path: p, Content: content, Executable: f.Executable})
	}

	executables := make([]string, 0, len(m.executables))
	for _, e := range m.executables {
		p, err := execute("exec:"+e, e, v)
		if err != nil {
			return Manifest{}, err
		}
		executables = append(executables, p)
	}

	return New(dirs, files, executables)
}

func execute(name, text string, v Values) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(TemplateFuncs()).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, v); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return sb.String(), nil
}
