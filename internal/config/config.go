// Package config loads application settings from the library directory.
//
// Settings live in config.yaml under the library root (~/.promptforge by
// default, overridable with PROMPTFORGE_DIR). A missing file yields the
// defaults; a malformed file is an error, since silently ignoring explicit
// configuration would be surprising.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"promptforge/internal/errors"
)

// Storage backend names accepted in config.yaml.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the application settings.
type Config struct {
	// LibraryDir is where state, config and the sqlite database live.
	LibraryDir string `yaml:"library_dir,omitempty"`
	// StorageBackend selects the persistence medium: "file" or "sqlite".
	StorageBackend string `yaml:"storage_backend"`
	// Port is the HTTP API listen port.
	Port int `yaml:"port"`
	// Vision configures the external image-description service.
	Vision VisionConfig `yaml:"vision"`
	// GenerateDelayMS is the fixed artificial delay, in milliseconds,
	// applied by the TUI before composing a prompt.
	GenerateDelayMS int `yaml:"generate_delay_ms"`
}

// VisionConfig points at the image-description collaborator.
type VisionConfig struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	// APIKeyEnv names the environment variable holding the API key. The
	// key itself never goes in the config file.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	// Language is the default description language code.
	Language string `yaml:"language"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		StorageBackend:  BackendFile,
		Port:            8080,
		GenerateDelayMS: 1200,
		Vision: VisionConfig{
			APIKeyEnv: "PROMPTFORGE_VISION_API_KEY",
			Language:  "en",
		},
	}
}

// DefaultLibraryDir resolves the library directory: PROMPTFORGE_DIR when
// set, otherwise ~/.promptforge.
func DefaultLibraryDir() (string, error) {
	if dir := os.Getenv("PROMPTFORGE_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".promptforge"), nil
}

// Load reads config.yaml from the library directory, falling back to the
// defaults when the file does not exist.
func Load(libraryDir string) (Config, error) {
	cfg := Default()
	cfg.LibraryDir = libraryDir

	path := filepath.Join(libraryDir, "config.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.StorageError("failed to read config file", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.ValidationError(fmt.Sprintf("malformed config file %s: %v", path, err))
	}
	if cfg.LibraryDir == "" {
		cfg.LibraryDir = libraryDir
	}
	if cfg.StorageBackend != BackendFile && cfg.StorageBackend != BackendSQLite {
		return cfg, errors.ValidationError(fmt.Sprintf("unknown storage backend: %q", cfg.StorageBackend))
	}
	return cfg, nil
}

// Save writes the config back to config.yaml, creating the library
// directory if needed.
func Save(cfg Config) error {
	if err := os.MkdirAll(cfg.LibraryDir, 0755); err != nil {
		return errors.StorageError("failed to create library directory", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.InternalError("failed to marshal config", err)
	}
	path := filepath.Join(cfg.LibraryDir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.StorageError("failed to write config file", err)
	}
	return nil
}

// VisionAPIKey resolves the API key for the vision endpoint from the
// configured environment variable.
func (c Config) VisionAPIKey() string {
	if c.Vision.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Vision.APIKeyEnv)
}

// DatabasePath returns the sqlite database location for this library.
func (c Config) DatabasePath() string {
	return filepath.Join(c.LibraryDir, "promptforge.db")
}
