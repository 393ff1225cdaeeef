package logger

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config controls log destinations and formats. Build one with LoadConfig;
// zero values mean the corresponding output is disabled.
type Config struct {
	Level          string
	ConsoleEnabled bool
	ConsoleFormat  string
	FileEnabled    bool
	FilePath       string
	FileFormat     string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
}

// fileOverlay is the YAML shape of the logging section. Pointer fields
// distinguish "absent" from an explicit false or zero, so a sparse file
// only overrides the keys it names.
type fileOverlay struct {
	Logging struct {
		Level          *string `yaml:"level"`
		ConsoleEnabled *bool   `yaml:"console_enabled"`
		ConsoleFormat  *string `yaml:"console_format"`
		FileEnabled    *bool   `yaml:"file_enabled"`
		FilePath       *string `yaml:"file_path"`
		FileFormat     *string `yaml:"file_format"`
		FileMaxSizeMB  *int    `yaml:"file_max_size_mb"`
		FileMaxBackups *int    `yaml:"file_max_backups"`
		FileMaxAgeDays *int    `yaml:"file_max_age_days"`
	} `yaml:"logging"`
}

// LoadConfig builds the logging configuration in three layers: defaults,
// then the YAML file at path when present, then DELVE_LOG_* environment
// variables. A missing or unparseable file keeps the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FilePath:       "logs/delved.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			var overlay fileOverlay
			if err := yaml.Unmarshal(data, &overlay); err == nil {
				applyOverlay(&cfg, overlay)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyOverlay(cfg *Config, overlay fileOverlay) {
	o := overlay.Logging
	if o.Level != nil {
		cfg.Level = *o.Level
	}
	if o.ConsoleEnabled != nil {
		cfg.ConsoleEnabled = *o.ConsoleEnabled
	}
	if o.ConsoleFormat != nil {
		cfg.ConsoleFormat = *o.ConsoleFormat
	}
	if o.FileEnabled != nil {
		cfg.FileEnabled = *o.FileEnabled
	}
	if o.FilePath != nil {
		cfg.FilePath = *o.FilePath
	}
	if o.FileFormat != nil {
		cfg.FileFormat = *o.FileFormat
	}
	if o.FileMaxSizeMB != nil {
		cfg.FileMaxSizeMB = *o.FileMaxSizeMB
	}
	if o.FileMaxBackups != nil {
		cfg.FileMaxBackups = *o.FileMaxBackups
	}
	if o.FileMaxAgeDays != nil {
		cfg.FileMaxAgeDays = *o.FileMaxAgeDays
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DELVE_LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("DELVE_LOG_CONSOLE_FORMAT"); v != "" {
		cfg.ConsoleFormat = v
	}
	if v := os.Getenv("DELVE_LOG_FILE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.FileEnabled = enabled
		}
	}
	if v := os.Getenv("DELVE_LOG_FILE_PATH"); v != "" {
		cfg.FilePath = v
	}
}
