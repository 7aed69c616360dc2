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

	// devSecret signs access tokens when HUB_JWT_SECRET is unset. The hub
	// is a development stand-in; production deployments point the edge at
	// the real identity service instead.
	devSecret = "markd-dev-secret"
)

type Config struct {
	Env    string
	Server server
	DB     db
	Auth   auth
}

type server struct {
	RunAddress string `env:"HUB_RUN_ADDRESS"`
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type auth struct {
	JWTSecret string `env:"HUB_JWT_SECRET"`
	AnonKey   string `env:"HUB_ANON_KEY"`
}

type defaultConfig struct {
	Env         string
	RunAddress  string
	DatabaseURI string
	Migrations  string
	JWTSecret   string
	AnonKey     string
}

// MustLoad reads the hub configuration from .env and the environment.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	d := defaultConfig{
		Env:         viper.GetString("app_env"),
		RunAddress:  viper.GetString("hub_run_address"),
		DatabaseURI: viper.GetString("database_uri"),
		Migrations:  viper.GetString("migrations_path"),
		JWTSecret:   viper.GetString("hub_jwt_secret"),
		AnonKey:     viper.GetString("hub_anon_key"),
	}
	if d.Env == "" {
		d.Env = EnvLocal
	}
	if d.RunAddress == "" {
		d.RunAddress = ":9999"
	}
	if d.Migrations == "" {
		d.Migrations = "migrations"
	}
	if d.JWTSecret == "" {
		d.JWTSecret = devSecret
	}

	return &Config{
		Env:    d.Env,
		Server: server{RunAddress: d.RunAddress},
		DB:     db{DatabaseURI: d.DatabaseURI, Migrations: d.Migrations},
		Auth:   auth{JWTSecret: d.JWTSecret, AnonKey: d.AnonKey},
	}
}
