// Package config loads simulation settings from environment variables with
// the AGENTSIM_ prefix and provides sensible defaults for every option.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration settings for the simulation runtime.
type Config struct {
	Storage     StorageConfig
	Synthesizer SynthesizerConfig
	Simulation  SimulationConfig
}

// StorageConfig selects and parameterizes the snapshot store.
type StorageConfig struct {
	Engine      string // Snapshot store: json, sqlite, postgres (default: json)
	DataPath    string // Path to data directory (default: ./data)
	PostgresDSN string // Connection string when Engine is postgres
}

// SynthesizerConfig controls the optional LLM emotion synthesizer.
type SynthesizerConfig struct {
	Enabled           bool          // Use the LLM synthesizer (default: false)
	BaseURL           string        // Ollama API URL (default: http://localhost:11434)
	Model             string        // Model name (default: phi3:mini)
	Timeout           time.Duration // Per-request timeout (default: 10s)
	RequestsPerSecond float64       // Outbound rate limit (default: 2)
}

// SimulationConfig contains the tunables of the simulation loop.
type SimulationConfig struct {
	DecayRate       float64 // Relation decay per day (default: 0.01)
	HistoryCap      int     // Per-agent emotion history bound (default: 100)
	NormalizeMethod string  // Relation normalization: minmax, zscore, softmax (default: minmax)
}

// LoadConfig reads configuration from environment variables, falling back to
// defaults. All variables use the AGENTSIM_ prefix.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Engine:      getEnv("AGENTSIM_STORAGE_ENGINE", "json"),
			DataPath:    getEnv("AGENTSIM_DATA_PATH", "./data"),
			PostgresDSN: getEnv("AGENTSIM_POSTGRES_DSN", ""),
		},
		Synthesizer: SynthesizerConfig{
			Enabled:           getEnvBool("AGENTSIM_SYNTHESIZER_ENABLED", false),
			BaseURL:           getEnv("AGENTSIM_OLLAMA_URL", "http://localhost:11434"),
			Model:             getEnv("AGENTSIM_OLLAMA_MODEL", "phi3:mini"),
			Timeout:           getEnvDuration("AGENTSIM_SYNTHESIZER_TIMEOUT", 10*time.Second),
			RequestsPerSecond: getEnvFloat("AGENTSIM_SYNTHESIZER_RPS", 2),
		},
		Simulation: SimulationConfig{
			DecayRate:       getEnvFloat("AGENTSIM_DECAY_RATE", 0.01),
			HistoryCap:      getEnvInt("AGENTSIM_HISTORY_CAP", 100),
			NormalizeMethod: getEnv("AGENTSIM_NORMALIZE_METHOD", "minmax"),
		},
	}

	switch cfg.Storage.Engine {
	case "json", "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("config: unknown storage engine %q", cfg.Storage.Engine)
	}
	if cfg.Storage.Engine == "postgres" && cfg.Storage.PostgresDSN == "" {
		return nil, fmt.Errorf("config: AGENTSIM_POSTGRES_DSN is required for the postgres engine")
	}
	if cfg.Simulation.DecayRate < 0 {
		return nil, fmt.Errorf("config: decay rate must be non-negative, got %v", cfg.Simulation.DecayRate)
	}
	if cfg.Simulation.HistoryCap <= 0 {
		return nil, fmt.Errorf("config: history cap must be positive, got %d", cfg.Simulation.HistoryCap)
	}

	return cfg, nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default
// value. Unparseable values fall back to the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default
// value. It recognizes "true", "1", "yes" and "false", "0", "no".
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable (Go duration
// syntax, e.g. "30s") or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
