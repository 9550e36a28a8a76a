package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a manifest document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath derives the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ParseFormat parses a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
}

type document struct {
	Directories []string       `yaml:"directories" toml:"directories"`
	Files       []fileDocument `yaml:"files" toml:"files"`
	Executables []string       `yaml:"executables,omitempty" toml:"executables,omitempty"`
}

type fileDocument struct {
	Path       string `yaml:"path" toml:"path"`
	Content    string `yaml:"content" toml:"content,multiline"`
	Executable bool   `yaml:"executable,omitempty" toml:"executable,omitempty"`
}

// Load reads a manifest document from path. The format is derived from the
// file extension and the document is checked against the manifest schema
// before it is decoded.
func Load(path string) (Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Manifest{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data, format, path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to load manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest document. source names the document in
// validation errors.
func Parse(data []byte, format Format, source string) (Manifest, error) {
	var raw interface{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Manifest{}, fmt.Errorf("parsing YAML: %w", err)
		}
	case FormatTOML:
		var table map[string]interface{}
		if err := toml.Unmarshal(data, &table); err != nil {
			return Manifest{}, fmt.Errorf("parsing TOML: %w", err)
		}
		raw = table
	default:
		return Manifest{}, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if err := validateDocument(source, raw); err != nil {
		return Manifest{}, err
	}

	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Manifest{}, fmt.Errorf("decoding YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return Manifest{}, fmt.Errorf("decoding TOML: %w", err)
		}
	}

	dirs := make([]Directory, 0, len(doc.Directories))
	for _, d := range doc.Directories {
		dirs = append(dirs, Directory{Path: d})
	}
	files := make([]File, 0, len(doc.Files))
	for _, f := range doc.Files {
		files = append(files, File{Path: f.Path, Content: f.Content, Executable: f.Executable})
	}
	return New(dirs, files, doc.Executables)
}

// Marshal encodes m as a manifest document that Parse accepts.
func Marshal(m Manifest, format Format) ([]byte, error) {
	doc := document{
		Directories: make([]string, 0, len(m.dirs)),
		Files:       make([]fileDocument, 0, len(m.files)),
	}
	for _, d := range m.dirs {
		doc.Directories = append(doc.Directories, d.Path)
	}
	for _, f := range m.files {
		doc.Files = append(doc.Files, fileDocument{Path: f.Path, Content: f.Content, Executable: f.Executable})
	}
	for _, e := range m.executables {
		if f, ok := m.File(e); ok && f.Executable {
			continue
		}
		doc.Executables = append(doc.Executables, e)
	}

	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return buf.Bytes(), nil
}
