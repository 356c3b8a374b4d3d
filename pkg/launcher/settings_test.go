package launcher

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.yaml")

	s := LoadSettings(path)
	if s.Host != "local" {
		t.Errorf("Host = %q, want local", s.Host)
	}
	if s.Folder != DefaultFolder {
		t.Errorf("Folder = %q", s.Folder)
	}
	if s.Loader != DefaultLoader {
		t.Errorf("Loader = %q", s.Loader)
	}
}

func TestSettingsRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.yaml")

	s := DefaultSettings()
	s.Host = "https://mhf.example.net"
	s.Folder = "D:/MHF"
	s.LogLevel = "debug"
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := LoadSettings(path)
	if got.Host != "https://mhf.example.net" || got.Folder != "D:/MHF" || got.LogLevel != "debug" {
		t.Errorf("unexpected settings: %+v", got)
	}
}

func TestLoadSettingsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.yaml")
	if err := os.WriteFile(path, []byte("host: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	s := LoadSettings(path)
	if s.Host != "local" {
		t.Errorf("Host = %q, want defaults on corrupt file", s.Host)
	}
}

func TestLoaderPath(t *testing.T) {
	s := &Settings{Folder: "/opt/mhf", Loader: "mhf-iel.exe"}
	if got := s.LoaderPath(); got != filepath.Join("/opt/mhf", "mhf-iel.exe") {
		t.Errorf("LoaderPath = %q", got)
	}

	s.Loader = "/usr/local/bin/loader"
	if got := s.LoaderPath(); got != "/usr/local/bin/loader" {
		t.Errorf("LoaderPath = %q, want absolute loader untouched", got)
	}
}
