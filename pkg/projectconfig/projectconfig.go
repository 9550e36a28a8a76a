// Package projectconfig loads the settings file of a generated project.
package projectconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings file written by the skeleton.
const DefaultPath = "config/config.yaml"

// Database holds the connection settings of the generated compose stack.
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"db_name"`
}

// Settings is the "default" section of config/config.yaml.
type Settings struct {
	DataPath  string   `yaml:"data_path"`
	ModelPath string   `yaml:"model_path"`
	LogPath   string   `yaml:"log_path"`
	Database  Database `yaml:"database"`
}

type document struct {
	Default *Settings `yaml:"default"`
}

// Load reads and decodes the settings file at path.
func Load(path string) (Settings, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a settings document.
func Parse(data []byte) (Settings, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Settings{}, fmt.Errorf("parsing YAML: %w", err)
	}
	if doc.Default == nil {
		return Settings{}, fmt.Errorf("missing \"default\" section")
	}
	return *doc.Default, nil
}
