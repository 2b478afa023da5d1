package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sheetDiff/internal/logger"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "configs/config.toml"

type Config struct {
	Compare CompareConfig `toml:"compare"`
	Scan    ScanConfig    `toml:"scan"`
	Report  ReportConfig  `toml:"report"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
	AI      AIConfig      `toml:"ai"`
}

type CompareConfig struct {
	DifferencesSheet string `toml:"differences_sheet"`
	HighlightColor   string `toml:"highlight_color"`
	SheetFilter      string `toml:"sheet_filter"`
}

type ScanConfig struct {
	InputDirectory string `toml:"input_directory"`
}

type ReportConfig struct {
	Output string `toml:"output"`
}

type LogConfig struct {
	Directory string `toml:"directory"`
	Level     string `toml:"level"`
}

type UIConfig struct {
	RowsPerPage int `toml:"rows_per_page"`
}

type AIConfig struct {
	Model                    string  `toml:"model"`
	Temperature              float64 `toml:"temperature"`
	TimeoutSeconds           int     `toml:"timeout_seconds"`
	MaxDifferencesPerRequest int     `toml:"max_differences_per_request"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			DifferencesSheet: "Differences",
			HighlightColor:   "FFA500",
		},
		Scan: ScanConfig{
			InputDirectory: "data/input",
		},
		Log: LogConfig{
			Directory: "logs",
			Level:     "info",
		},
		UI: UIConfig{
			RowsPerPage: 15,
		},
		AI: AIConfig{
			Model:                    "gemini-2.0-flash",
			Temperature:              0.1,
			TimeoutSeconds:           60,
			MaxDifferencesPerRequest: 100,
		},
	}
}

// LoadConfig loads configuration from the specified config file path,
// writing a default file first if none exists.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := Default()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	config.applyDefaults()

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := Default()

	if c.Compare.DifferencesSheet == "" {
		c.Compare.DifferencesSheet = def.Compare.DifferencesSheet
	}
	if c.Compare.HighlightColor == "" {
		c.Compare.HighlightColor = def.Compare.HighlightColor
	}
	if c.Scan.InputDirectory == "" {
		c.Scan.InputDirectory = def.Scan.InputDirectory
	}
	if c.Log.Directory == "" {
		c.Log.Directory = def.Log.Directory
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.UI.RowsPerPage == 0 {
		c.UI.RowsPerPage = def.UI.RowsPerPage
	}
	if c.AI.Model == "" {
		c.AI.Model = def.AI.Model
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = def.AI.Temperature
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = def.AI.TimeoutSeconds
	}
	if c.AI.MaxDifferencesPerRequest == 0 {
		c.AI.MaxDifferencesPerRequest = def.AI.MaxDifferencesPerRequest
	}
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
