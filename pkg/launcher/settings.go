package launcher

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults for a fresh install. The folder default matches the retail
// installer's drive layout.
const (
	DefaultFolder = "F:/Games/Monster Hunter Frontier Online"
	DefaultLoader = "mhf-iel.exe"
)

// Settings stores launcher preferences, persisted as YAML next to the
// binary. Credentials are deliberately not part of this file.
type Settings struct {
	Host     string `yaml:"host"`
	Folder   string `yaml:"mhf_folder"`
	Loader   string `yaml:"loader,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// DefaultSettings returns settings for a fresh install.
func DefaultSettings() *Settings {
	return &Settings{
		Host:   "local",
		Folder: DefaultFolder,
		Loader: DefaultLoader,
	}
}

func settingsPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "launcher.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "launcher.yaml")
}

// LoadSettings loads settings from path, or from launcher.yaml next to
// the binary when path is empty. A missing or unreadable file yields
// defaults so a fresh install starts without ceremony.
func LoadSettings(path string) *Settings {
	if path == "" {
		path = settingsPath()
	}

	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		slog.Error("failed to parse settings, using defaults", "path", path, "error", err)
		return DefaultSettings()
	}
	return s
}

// Save writes the settings to path, resolved the same way as
// LoadSettings.
func (s *Settings) Save(path string) error {
	if path == "" {
		path = settingsPath()
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoaderPath resolves the runtime loader executable. A relative loader
// lives inside the game folder.
func (s *Settings) LoaderPath() string {
	if filepath.IsAbs(s.Loader) {
		return s.Loader
	}
	return filepath.Join(s.Folder, s.Loader)
}
