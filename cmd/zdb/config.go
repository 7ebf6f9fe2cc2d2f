package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Config holds the REPL's preferences. The zero value has an empty
// prompt and no history file; DefaultConfig supplies the defaults.
type Config struct {
	Prompt      string `json:"prompt,omitempty"`
	HistoryFile string `json:"history_file,omitempty"` //nolint:tagliatelle // snake_case for the prefs file
}

// DefaultConfig returns the preferences used when .zdbrc is absent.
func DefaultConfig() Config {
	return Config{
		Prompt:      "zdb> ",
		HistoryFile: defaultHistoryFile(),
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".zdb_history")
}

// prefsFilePath returns ~/.zdbrc, or "" if the home directory can't be
// determined.
func prefsFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".zdbrc")
}

// loadPrefs reads and merges a hujson (JSON-with-comments) preferences
// file over cfg. A missing file is not an error; cfg is returned
// unchanged. Standardize strips comments/trailing commas before
// json.Unmarshal, the way calvinalkan-agent-task's config loader reads
// its own JSON-with-comments file.
func loadPrefs(path string, cfg Config) (Config, error) {
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return cfg, err
	}

	var loaded Config
	if err := json.Unmarshal(standardized, &loaded); err != nil {
		return cfg, err
	}

	if loaded.Prompt != "" {
		cfg.Prompt = loaded.Prompt
	}
	if loaded.HistoryFile != "" {
		cfg.HistoryFile = loaded.HistoryFile
	}
	return cfg, nil
}

// savePrefs writes cfg to path via an atomic rename, so a crash
// mid-write never leaves a truncated prefs file behind.
func savePrefs(path string, cfg Config) error {
	if path == "" {
		return nil
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return atomic.WriteFile(path, bytes.NewReader(data))
}
