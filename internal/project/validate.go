package project

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/NielsdaWheelz/uvstart/internal/catalog"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
	"github.com/NielsdaWheelz/uvstart/internal/folder"
)

// MaxNameLength is the longest accepted project, folder or file name.
const MaxNameLength = 255

var (
	projectNameChars = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	projectNameStart = regexp.MustCompile(`^[A-Za-z_]`)
	entryNameChars   = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// ValidateName checks a project name. It must be usable both as a directory
// name and as a Python package name.
// Returns E_INVALID_NAME with a user-facing message.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.EInvalidName, "Project name cannot be empty.")
	}
	if len(name) > MaxNameLength {
		return errors.New(errors.EInvalidName,
			fmt.Sprintf("Project name exceeds maximum length of %d characters.", MaxNameLength))
	}
	if !projectNameChars.MatchString(name) {
		return errors.New(errors.EInvalidName,
			"Project name can only contain letters, numbers, hyphens, and underscores.")
	}
	if !projectNameStart.MatchString(name) {
		return errors.New(errors.EInvalidName, "Project name must start with a letter or underscore.")
	}
	if catalog.IsKeyword(name) {
		return errors.New(errors.EInvalidName,
			fmt.Sprintf("'%s' is a Python keyword and cannot be used.", name))
	}
	return nil
}

// ValidateEntryName checks a folder or file name from a layout. Dots are
// allowed; path separators and the names "." and ".." are not.
func ValidateEntryName(name string) error {
	if name == "" {
		return errors.New(errors.EInvalidName, "Name cannot be empty.")
	}
	if len(name) > MaxNameLength {
		return errors.New(errors.EInvalidName,
			fmt.Sprintf("Name exceeds maximum length of %d characters.", MaxNameLength))
	}
	if !entryNameChars.MatchString(name) {
		return errors.New(errors.EInvalidName,
			fmt.Sprintf("'%s': name can only contain letters, numbers, hyphens, underscores, and periods.", name))
	}
	if name == "." || name == ".." {
		return errors.New(errors.EInvalidName,
			fmt.Sprintf("'%s' is a reserved name and cannot be used.", name))
	}
	return nil
}

// ValidateLayout checks every folder and file name in nodes.
func ValidateLayout(nodes []folder.Node) error {
	for _, n := range nodes {
		if err := ValidateEntryName(n.Name); err != nil {
			return err
		}
		for _, f := range n.Files {
			if err := ValidateEntryName(f); err != nil {
				return err
			}
		}
		if err := ValidateLayout(n.Children); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks everything that can be checked without touching disk:
// name, selectors, license, and folder layout.
func (c Config) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if strings.TrimSpace(c.BaseDir) == "" {
		return errors.New(errors.EInvalidPath, "base directory is empty")
	}
	if c.Framework != "" {
		if _, ok := catalog.LookupFramework(c.Framework); !ok {
			return errors.New(errors.EUnknownFramework, fmt.Sprintf("unknown framework: %s", c.Framework))
		}
	}
	if c.ProjectType != "" && !catalog.IsProjectType(c.ProjectType) {
		return errors.New(errors.EUnknownProjectType, fmt.Sprintf("unknown project type: %s", c.ProjectType))
	}
	if c.Metadata.License != "" && !catalog.IsLicense(c.Metadata.License) {
		return errors.New(errors.EInvalidConfig, fmt.Sprintf("unknown license: %s (expected one of %s)",
			c.Metadata.License, strings.Join(catalog.Licenses, ", ")))
	}
	if c.GitEnabled && strings.TrimSpace(c.HubRoot) == "" {
		return errors.New(errors.EInvalidPath, "hub root is empty")
	}
	return ValidateLayout(c.Nodes())
}
