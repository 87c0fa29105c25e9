// Package scaffold provides the default settings file and .gitignore upkeep
// for generated projects.
package scaffold

// SettingsTemplate is the config.yaml written by `uvstart init`.
// Every value matches the built-in default; empty directories fall back to
// ~/Projects and ~/Projects/git-repos.
const SettingsTemplate = `version: 1

defaults:
  python_version: "3.14"
  base_dir: ""          # default ~/Projects
  git: true
  starter_files: true
  framework: ""
  project_type: ""

paths:
  hub_root: ""          # default ~/Projects/git-repos
  templates_dir: ""

tools:
  uv: ""
  command_timeout: ""

metadata:
  author_name: ""
  author_email: ""
  license: ""

log_level: "warn"
`
