// Package catalog holds the static tables that drive project generation:
// frameworks, project types, their packages and entry points, licenses and
// reserved names.
package catalog

import (
	"strings"

	"github.com/NielsdaWheelz/uvstart/internal/core"
)

// PythonVersions lists the selectable runtime versions, newest first.
var PythonVersions = []string{"3.14", "3.13", "3.12", "3.11", "3.10"}

// DefaultPythonVersion is used when no version is configured.
const DefaultPythonVersion = "3.14"

// DefaultEntryPoint is used when neither framework nor project type decides.
const DefaultEntryPoint = "app.main:main"

// DefaultFolders is the last-resort folder layout.
var DefaultFolders = []string{"core", "ui", "utils", "assets"}

// Frameworks lists UI frameworks by display name, in menu order.
var Frameworks = []string{
	"flet",
	"PyQt6",
	"PySide6",
	"tkinter (built-in)",
	"customtkinter",
	"kivy",
	"pygame",
	"nicegui",
	"streamlit",
	"gradio",
}

// frameworkPackages maps display name to pip package. Empty = nothing to install.
var frameworkPackages = map[string]string{
	"flet":               "flet",
	"PyQt6":              "pyqt6",
	"PySide6":            "pyside6",
	"tkinter (built-in)": "",
	"customtkinter":      "customtkinter",
	"kivy":               "kivy",
	"pygame":             "pygame",
	"nicegui":            "nicegui",
	"streamlit":          "streamlit",
	"gradio":             "gradio",
}

// ProjectTypes lists project archetypes in menu order.
var ProjectTypes = []string{
	"django",
	"fastapi",
	"flask",
	"bottle",
	"data_analysis",
	"ml_sklearn",
	"dl_pytorch",
	"dl_tensorflow",
	"computer_vision",
	"cli_click",
	"cli_typer",
	"cli_rich",
	"api_fastapi",
	"api_graphql",
	"api_grpc",
	"browser_automation",
	"task_scheduler",
	"scraping",
	"basic_package",
	"testing",
	"async_app",
}

var projectTypePackages = map[string][]string{
	"django":             {"django"},
	"fastapi":            {"fastapi", "uvicorn"},
	"flask":              {"flask"},
	"bottle":             {"bottle"},
	"data_analysis":      {"pandas", "numpy", "matplotlib", "jupyter"},
	"ml_sklearn":         {"scikit-learn", "pandas", "numpy", "matplotlib"},
	"dl_pytorch":         {"torch", "torchvision", "numpy"},
	"dl_tensorflow":      {"tensorflow", "numpy"},
	"computer_vision":    {"opencv-python", "numpy", "pillow"},
	"cli_click":          {"click"},
	"cli_typer":          {"typer[all]"},
	"cli_rich":           {"rich"},
	"api_fastapi":        {"fastapi", "uvicorn", "pydantic"},
	"api_graphql":        {"strawberry-graphql[fastapi]"},
	"api_grpc":           {"grpcio", "grpcio-tools", "protobuf"},
	"browser_automation": {"playwright"},
	"task_scheduler":     {"apscheduler"},
	"scraping":           {"beautifulsoup4", "httpx", "lxml"},
	"basic_package":      {},
	"testing":            {"pytest", "pytest-cov", "pytest-mock"},
	"async_app":          {"aiohttp", "aiofiles"},
}

// Entry points. An empty value means the framework or type ships its own
// runner and gets no [project.scripts] entry.
var frameworkEntryPoints = map[string]string{
	"flet":               "app.main:run",
	"PyQt6":              "app.main:run",
	"PySide6":            "app.main:run",
	"tkinter (built-in)": "app.main:run",
	"customtkinter":      "app.main:run",
	"kivy":               "app.main:run",
	"pygame":             "app.main:run",
	"nicegui":            "app.main:run",
	"streamlit":          "",
	"gradio":             "",
}

var projectTypeEntryPoints = map[string]string{
	"django":             "",
	"fastapi":            "",
	"flask":              "",
	"bottle":             "",
	"api_fastapi":        "",
	"api_graphql":        "",
	"api_grpc":           "",
	"cli_click":          "app.main:cli",
	"cli_typer":          "app.main:app",
	"cli_rich":           "app.main:main",
	"data_analysis":      "app.main:main",
	"ml_sklearn":         "app.main:main",
	"dl_pytorch":         "app.main:main",
	"dl_tensorflow":      "app.main:main",
	"computer_vision":    "app.main:main",
	"browser_automation": "app.main:main",
	"task_scheduler":     "app.main:main",
	"scraping":           "app.main:main",
	"basic_package":      "app.main:main",
	"testing":            "app.main:main",
	"async_app":          "app.main:main",
}

// Licenses lists accepted SPDX identifiers.
var Licenses = []string{
	"MIT",
	"Apache-2.0",
	"GPL-3.0",
	"BSD-3-Clause",
	"BSD-2-Clause",
	"ISC",
	"MPL-2.0",
	"LGPL-3.0",
	"Unlicense",
}

// pythonKeywords are the hard keywords of Python 3.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// LookupFramework resolves s to a framework display name. Both the display
// name and its normalized form are accepted, case-insensitively.
// example: "pyqt6" -> "PyQt6", "tkinter" -> "tkinter (built-in)"
func LookupFramework(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	want := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Frameworks {
		if strings.ToLower(f) == want || core.NormalizeFrameworkName(f) == want {
			return f, true
		}
	}
	return "", false
}

// IsProjectType reports whether t names a known project type.
func IsProjectType(t string) bool {
	_, ok := projectTypePackages[t]
	return ok
}

// IsLicense reports whether l is an accepted license identifier.
func IsLicense(l string) bool {
	for _, known := range Licenses {
		if known == l {
			return true
		}
	}
	return false
}

// IsKeyword reports whether name is a reserved Python keyword.
func IsKeyword(name string) bool {
	return pythonKeywords[name]
}

// FrameworkPackage returns the package to install for a framework display
// name. ok is false for built-in or unknown frameworks.
func FrameworkPackage(framework string) (string, bool) {
	pkg := frameworkPackages[framework]
	return pkg, pkg != ""
}

// ProjectTypePackages returns a copy of the packages a project type requires.
func ProjectTypePackages(projectType string) []string {
	pkgs := projectTypePackages[projectType]
	out := make([]string, len(pkgs))
	copy(out, pkgs)
	return out
}

// EntryPoint resolves the [project.scripts] target. A set framework decides
// alone, then a set project type, then the default. A name missing from its
// table resolves to the default.
// Returns "" when no entry point should be written.
func EntryPoint(framework, projectType string) string {
	if framework != "" {
		return lookupEntryPoint(frameworkEntryPoints, framework)
	}
	if projectType != "" {
		return lookupEntryPoint(projectTypeEntryPoints, projectType)
	}
	return DefaultEntryPoint
}

func lookupEntryPoint(table map[string]string, key string) string {
	if ep, ok := table[key]; ok {
		return ep
	}
	return DefaultEntryPoint
}
