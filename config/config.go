// Package config loads and saves the toolchain's TOML configuration file,
// mirroring the shape and platform-path conventions of the teacher's own
// config package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the full set of user-tunable settings for the assembler,
// simulator, and debugger.
type Config struct {
	Execution struct {
		MaxCycles    uint64 `toml:"max_cycles"`
		BatchSize    int    `toml:"batch_size"`
		DefaultEntry string `toml:"default_entry"`
		EnableStats  bool   `toml:"enable_stats"`
	} `toml:"execution"`

	Debugger struct {
		HistorySize    int  `toml:"history_size"`
		AutoSaveBreaks bool `toml:"auto_save_breakpoints"`
		ShowSource     bool `toml:"show_source"`
		ShowRegisters  bool `toml:"show_registers"`
	} `toml:"debugger"`

	Display struct {
		ColorOutput   bool   `toml:"color_output"`
		BytesPerLine  int    `toml:"bytes_per_line"`
		DisasmContext int    `toml:"disasm_context"`
		SourceContext int    `toml:"source_context"`
		NumberFormat  string `toml:"number_format"` // hex, dec, bin
	} `toml:"display"`

	Assembler struct {
		WarnUnusedLabels  bool `toml:"warn_unused_labels"`
		WarnForwardRefs   bool `toml:"warn_forward_refs"`
		AllowRedefinition bool `toml:"allow_redefinition"`
	} `toml:"assembler"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 1000000
	cfg.Execution.BatchSize = 500
	cfg.Execution.DefaultEntry = "main"
	cfg.Execution.EnableStats = false

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.AutoSaveBreaks = true
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowRegisters = true

	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16
	cfg.Display.DisasmContext = 5
	cfg.Display.SourceContext = 5
	cfg.Display.NumberFormat = "hex"

	cfg.Assembler.WarnUnusedLabels = false
	cfg.Assembler.WarnForwardRefs = true
	cfg.Assembler.AllowRedefinition = false

	return cfg
}

// GetConfigPath returns the platform-specific path to the config file,
// creating its containing directory if necessary.
func GetConfigPath() string {
	var dir string

	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "sparc-edu-toolchain")

	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "sparc-edu-toolchain")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the config file at its default platform path, falling back
// to DefaultConfig when it does not exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads the config file at path, falling back to DefaultConfig
// when it does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to its default platform path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes c to path in TOML form.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("config: create directory for %s: %w", path, err)
	}

	f, err := os.Create(path) // #nosec G304 -- user-specified config path
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return nil
}
