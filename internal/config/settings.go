// Package config handles loading and validation of the uvstart settings file.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/uvstart/internal/catalog"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/fs"
)

// Settings represents the parsed config.yaml.
type Settings struct {
	Version  int      `yaml:"version"`
	Defaults Defaults `yaml:"defaults"`
	Paths    Paths    `yaml:"paths"`
	Tools    Tools    `yaml:"tools"`
	Metadata Metadata `yaml:"metadata"`
	LogLevel string   `yaml:"log_level"`

	// Derived (not from YAML):
	ResolvedTimeout  time.Duration `yaml:"-"`
	ResolvedLogLevel zerolog.Level `yaml:"-"`
}

// Defaults are the values `uvstart new` uses when a flag is not given.
type Defaults struct {
	PythonVersion string `yaml:"python_version"`
	BaseDir       string `yaml:"base_dir"`
	Git           bool   `yaml:"git"`
	StarterFiles  bool   `yaml:"starter_files"`
	Framework     string `yaml:"framework"`
	ProjectType   string `yaml:"project_type"`
}

type Paths struct {
	HubRoot      string `yaml:"hub_root"`
	TemplatesDir string `yaml:"templates_dir"`
}

type Tools struct {
	UV             string `yaml:"uv"`
	CommandTimeout string `yaml:"command_timeout"`
}

type Metadata struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	License     string `yaml:"license"`
}

// Default returns the built-in settings used when no file exists.
// Directory defaults are left empty; internal/paths supplies them.
func Default() Settings {
	return Settings{
		Version: 1,
		Defaults: Defaults{
			PythonVersion: catalog.DefaultPythonVersion,
			Git:           true,
			StarterFiles:  true,
		},
		LogLevel:         "warn",
		ResolvedLogLevel: zerolog.WarnLevel,
	}
}

// Load reads and parses the settings file at path.
// A missing or empty file yields Default().
// Returns E_INVALID_CONFIG for unreadable YAML, unknown keys or type mismatches.
// Does NOT perform semantic validation; call Validate for that.
func Load(filesystem fs.FS, path string) (Settings, error) {
	s := Default()

	data, err := filesystem.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return Settings{}, errors.Wrap(errors.EInvalidConfig, "failed to read "+path, err)
	}

	// Absent keys keep their defaults.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if stderrors.Is(err, io.EOF) {
			return Default(), nil
		}
		return Settings{}, errors.WrapWithDetails(errors.EInvalidConfig, "invalid yaml: "+err.Error(), err,
			map[string]string{"path": path})
	}
	return s, nil
}

// LoadAndValidate loads and validates the settings file.
func LoadAndValidate(filesystem fs.FS, path string) (Settings, error) {
	s, err := Load(filesystem, path)
	if err != nil {
		return Settings{}, err
	}
	return Validate(s)
}
