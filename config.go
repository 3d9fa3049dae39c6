// Package resc holds the project-level configuration and the error catalog
// shared across the compiler packages.
package resc

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/resbuild/resc/codepage"
	"github.com/resbuild/resc/lang"
)

// Config is the optional resc.yaml project configuration. Every field is a
// default; command-line options always win.
type Config struct {
	// CodePage is the default code page for narrow string literals.
	CodePage uint32 `yaml:"code_page"`
	// Language is a BCP-47 tag naming the default resource language.
	Language string `yaml:"language"`
	// IncludePaths are extra resource file search directories.
	IncludePaths []string `yaml:"include_paths"`
	// Verbose enables per-resource progress output.
	Verbose bool `yaml:"verbose"`
	// NullTerminateStrings null-terminates STRINGTABLE entries, like /n.
	NullTerminateStrings bool `yaml:"null_terminate_strings"`
}

// getDefaultConfig returns the configuration used when no file exists.
func getDefaultConfig() *Config {
	return &Config{
		CodePage: codepage.Windows1252,
	}
}

// LoadConfig reads configPath, falling back to defaults when the file does
// not exist. A .env file in the working directory is loaded first so
// environment lookups (INCLUDE) see it.
func LoadConfig(configPath string) (*Config, error) {
	// Ignore missing .env; it is a development convenience.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return getDefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := getDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.CodePage != 0 && !codepage.IsValid(config.CodePage) {
		return fmt.Errorf("%w: unknown code page %d", ErrConfigValidation, config.CodePage)
	}
	if config.Language != "" {
		if _, err := lang.FromTag(config.Language); err != nil {
			return fmt.Errorf("%w: invalid language tag %q", ErrConfigValidation, config.Language)
		}
	}
	for _, dir := range config.IncludePaths {
		if dir == "" {
			return fmt.Errorf("%w: empty include path", ErrConfigValidation)
		}
	}
	return nil
}

// LanguageID resolves the configured language tag, or the rc.exe default.
func (c *Config) LanguageID() uint16 {
	if c.Language == "" {
		return lang.DefaultLanguage
	}
	id, err := lang.FromTag(c.Language)
	if err != nil {
		return lang.DefaultLanguage
	}
	return id
}
