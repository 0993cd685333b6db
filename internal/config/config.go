package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	Server   ServerConfig
	Corpus   CorpusConfig
	Provider ProviderConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port  int
	Token string
}

type CorpusConfig struct {
	// Dir points at a directory of journal scripts. Empty means the
	// embedded example set is used and the watcher stays off.
	Dir   string
	Watch bool
}

type ProviderConfig struct {
	GroqAPIKey     string
	Model          string
	TimeoutSeconds int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Corpus: CorpusConfig{
			Watch: true,
		},
		Provider: ProviderConfig{
			Model:          "llama-3.3-70b-versatile",
			TimeoutSeconds: 60,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "nxbot-data"
		}
	}
	return filepath.Join(dir, "nxbot")
}

// Load reads configuration from the JSON config file at
// $XDG_CONFIG_HOME/nxbot/config.json, then applies NXBOT_* environment
// overrides. Secrets (the Groq API key and the server token) are never
// stored in the file and must come from the environment.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Honor the provider's conventional variable when ours is unset.
	if cfg.Provider.GroqAPIKey == "" {
		cfg.Provider.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	}

	if cfg.Provider.GroqAPIKey == "" {
		return Config{}, fmt.Errorf("missing required config: Groq API key. " +
			"Set it via environment variable NXBOT_GROQ_API_KEY or GROQ_API_KEY")
	}

	return cfg, nil
}
