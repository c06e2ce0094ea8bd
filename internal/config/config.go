package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Storage StorageConfig
	Upload  UploadConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type StorageConfig struct {
	DataDir string
}

type UploadConfig struct {
	MaxBytes int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8600,
		},
		Gemini: GeminiConfig{
			Model: "gemini-1.5-flash",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Upload: UploadConfig{
			MaxBytes: 20 << 20, // 20MiB
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON config file at
// $XDG_CONFIG_HOME/docchat/config.json with DOCCHAT_* environment variables
// overriding file values. The Gemini API key additionally falls back to
// GOOGLE_API_KEY / GEMINI_API_KEY, the names the hosted API documents.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Gemini.APIKey == "" {
		if key := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); key != "" {
			cfg.Gemini.APIKey = key
		} else if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
			cfg.Gemini.APIKey = key
		}
	}

	if cfg.Gemini.APIKey == "" {
		return Config{}, fmt.Errorf("missing required config: Gemini API key. " +
			"Set it via DOCCHAT_GEMINI_API_KEY, GOOGLE_API_KEY, or GEMINI_API_KEY " +
			"(a .env file in the working directory is read at startup)")
	}

	return cfg, nil
}
