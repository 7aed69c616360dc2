package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env     string
	HubURL  string
	AnonKey string
	// StatePath holds the persisted credential envelope between runs.
	StatePath string
}

// MustLoad reads the client configuration from .env and the environment.
// Environment variables win over the .env file.
func MustLoad() *Config {
	_ = godotenv.Load()

	viper.AutomaticEnv()
	cfg := &Config{
		Env:       viper.GetString("app_env"),
		HubURL:    viper.GetString("hub_url"),
		AnonKey:   viper.GetString("hub_anon_key"),
		StatePath: viper.GetString("markd_state"),
	}
	if cfg.Env == "" {
		cfg.Env = EnvLocal
	}
	if cfg.HubURL == "" {
		cfg.HubURL = "http://localhost:9999"
	}
	if cfg.StatePath == "" {
		cfg.StatePath = defaultStatePath()
	}

	return cfg
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".markd", "session.json")
	}
	return filepath.Join(home, ".markd", "session.json")
}
