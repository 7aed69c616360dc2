package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env    string
	Server server
	Hub    hub
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
	// PublicURL is the origin browsers reach the edge on, used to build
	// the identity provider's redirect back.
	PublicURL string `env:"PUBLIC_URL"`
}

type hub struct {
	URL     string `env:"HUB_URL"`
	AnonKey string `env:"HUB_ANON_KEY"`
}

type defaultConfig struct {
	Env        string
	RunAddress string
	PublicURL  string
	HubURL     string
	HubAnonKey string
}

// MustLoad reads the edge configuration from .env and the environment.
// Environment variables win over the .env file.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	d := defaultConfig{
		Env:        viper.GetString("app_env"),
		RunAddress: viper.GetString("run_address"),
		PublicURL:  viper.GetString("public_url"),
		HubURL:     viper.GetString("hub_url"),
		HubAnonKey: viper.GetString("hub_anon_key"),
	}
	if d.Env == "" {
		d.Env = EnvLocal
	}
	if d.RunAddress == "" {
		d.RunAddress = ":8080"
	}
	if d.HubURL == "" {
		d.HubURL = "http://localhost:9999"
	}
	if d.PublicURL == "" {
		d.PublicURL = "http://localhost" + d.RunAddress
	}

	return &Config{
		Env:    d.Env,
		Server: server{RunAddress: d.RunAddress, PublicURL: d.PublicURL},
		Hub:    hub{URL: d.HubURL, AnonKey: d.HubAnonKey},
	}
}

// SecureCookies reports whether envelope cookies must carry the Secure
// attribute. Local development runs over plain HTTP.
func (c *Config) SecureCookies() bool {
	return c.Env == EnvProd
}
