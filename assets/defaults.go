package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultRulesYAML is written to security.rules_file on first use.
//
//go:embed defaults/rules.yaml
var DefaultRulesYAML []byte

// ZshWidgetTemplate is rendered by the shell installer for zsh.
//
//go:embed shell/zsh.tmpl
var ZshWidgetTemplate string

// BashWidgetTemplate is rendered by the shell installer for bash.
//
//go:embed shell/bash.tmpl
var BashWidgetTemplate string
