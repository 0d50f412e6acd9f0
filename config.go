package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const configFileName = "intlextract.toml"

// fileConfig holds intlextract.toml values. They provide flag defaults;
// flags given on the command line win.
type fileConfig struct {
	SuppressWarnings          bool   `toml:"suppress_warnings"`
	WarningsAreErrors         bool   `toml:"warnings_as_errors"`
	AllowEmbeddedPluralGender bool   `toml:"allow_embedded_plural_gender"`
	RequireExamples           bool   `toml:"require_examples"`
	RequireDescription        bool   `toml:"require_description"`
	IncludeSourceText         bool   `toml:"include_source_text"`
	GenerateNames             bool   `toml:"generate_names"`
	Locale                    string `toml:"locale"`
	Output                    string `toml:"output"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{Locale: "en"}
}

// findConfigFile searches startDir and its ancestors for intlextract.toml.
func findConfigFile(startDir string) string {
	dir := startDir
	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadConfig loads the nearest config file, falling back to defaults when
// none exists.
func loadConfig(startDir string) (fileConfig, string, error) {
	cfg := defaultFileConfig()
	path := findConfigFile(startDir)
	if path == "" {
		return cfg, "", nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, path, fmt.Errorf("loading %s: %w", path, err)
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	return cfg, path, nil
}
