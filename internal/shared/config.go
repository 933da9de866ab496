package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Google   GoogleConfig   `toml:"google"`
}

// APIConfig contains settings for the SEO analysis backend.
type APIConfig struct {
	BaseURL           string `toml:"base_url"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	UploadTimeoutSecs int    `toml:"upload_timeout_seconds"`
	StageTimeoutSecs  int    `toml:"stage_timeout_seconds"`
}

// Timeout returns the default per-call timeout (30s when unset).
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// UploadTimeout returns the video upload timeout (120s when unset).
func (a APIConfig) UploadTimeout() time.Duration {
	if a.UploadTimeoutSecs <= 0 {
		return 120 * time.Second
	}
	return time.Duration(a.UploadTimeoutSecs) * time.Second
}

// StageTimeout returns the timeout for extract/generate/rank calls (60s when unset).
func (a APIConfig) StageTimeout() time.Duration {
	if a.StageTimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(a.StageTimeoutSecs) * time.Second
}

// DatabaseConfig contains local cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// GoogleConfig contains optional OAuth client credentials for the direct
// YouTube connect flow. When empty, connecting goes through the backend's
// hosted flow instead.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A .env file in the working directory is loaded first (if present), and
// VSEO_API_URL overrides the configured base URL.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyEnvOverrides(&config)
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	_ = godotenv.Load()

	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}

	applyEnvOverrides(&config)
	return &config
}

func applyEnvOverrides(config *Config) {
	if url := os.Getenv("VSEO_API_URL"); url != "" {
		config.API.BaseURL = url
	}
	if path := os.Getenv("VSEO_DB_PATH"); path != "" {
		config.Database.Path = path
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// StateDir returns the directory for persisted client state (session
// credentials, cache database), creating it if needed. Defaults to
// ~/.vseo and can be overridden with VSEO_STATE_DIR.
func StateDir() (string, error) {
	dir := os.Getenv("VSEO_STATE_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".vseo")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}

	return dir, nil
}
