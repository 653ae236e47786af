package config

import (
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                int    `env:"PORT" envDefault:"8080"`
	Dsn                 string `env:"DSN" envDefault:"postgres://localhost:5432/breatheclean"`
	ClientOrigin        string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:3000"`
	JwtSecret           string `env:"ACCESS_TOKEN_SECRET"`
	JwtExpires          string `env:"ACCESS_TOKEN_EXPIRY" envDefault:"360h"`
	RefreshSecret       string `env:"REFRESH_TOKEN_SECRET"`
	RefreshExpiry       string `env:"REFRESH_TOKEN_EXPIRY" envDefault:"720h"`
	GoogleClientID      string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret  string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL   string `env:"GOOGLE_REDIRECT_URI"`
	MapboxToken         string `env:"MAPBOX_TOKEN"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}
