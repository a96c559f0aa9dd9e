package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.MaxCycles != 1000000 {
		t.Errorf("expected MaxCycles=1000000, got %d", cfg.Execution.MaxCycles)
	}
	if cfg.Execution.BatchSize != 500 {
		t.Errorf("expected BatchSize=500, got %d", cfg.Execution.BatchSize)
	}
	if cfg.Execution.DefaultEntry != "main" {
		t.Errorf("expected DefaultEntry=main, got %s", cfg.Execution.DefaultEntry)
	}

	if cfg.Debugger.HistorySize != 1000 {
		t.Errorf("expected HistorySize=1000, got %d", cfg.Debugger.HistorySize)
	}
	if !cfg.Debugger.ShowSource {
		t.Error("expected ShowSource=true")
	}

	if cfg.Display.BytesPerLine != 16 {
		t.Errorf("expected BytesPerLine=16, got %d", cfg.Display.BytesPerLine)
	}
	if cfg.Display.NumberFormat != "hex" {
		t.Errorf("expected NumberFormat=hex, got %s", cfg.Display.NumberFormat)
	}

	if !cfg.Assembler.WarnForwardRefs {
		t.Error("expected WarnForwardRefs=true")
	}
	if cfg.Assembler.AllowRedefinition {
		t.Error("expected AllowRedefinition=false")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with config.toml, got %s", path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxCycles = 5000000
	cfg.Debugger.HistorySize = 500
	cfg.Display.ColorOutput = false
	cfg.Assembler.AllowRedefinition = true

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Execution.MaxCycles != 5000000 {
		t.Errorf("expected MaxCycles=5000000, got %d", loaded.Execution.MaxCycles)
	}
	if loaded.Debugger.HistorySize != 500 {
		t.Errorf("expected HistorySize=500, got %d", loaded.Debugger.HistorySize)
	}
	if loaded.Display.ColorOutput {
		t.Error("expected ColorOutput=false")
	}
	if !loaded.Assembler.AllowRedefinition {
		t.Error("expected AllowRedefinition=true")
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on a missing file: %v", err)
	}
	if cfg.Execution.MaxCycles != 1000000 {
		t.Error("expected default config when the file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalid := "[execution]\nmax_cycles = \"not a number\"\n"
	if err := os.WriteFile(configPath, []byte(invalid), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected an error loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}
