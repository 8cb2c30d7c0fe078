package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort    string
	Environment string

	GeminiAPIKey string
	DatabasePath string

	// Empty secret disables Bearer-token verification; the clerkId
	// carried by each request is then trusted as-is.
	AuthJWTSecret string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// Load reads .env (when present) and the environment. The Gemini key is the
// only hard requirement; everything else has a usable default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_PATH", "companion.db")
	v.AutomaticEnv()

	cfg := &Config{
		HTTPPort:            v.GetString("HTTP_PORT"),
		Environment:         v.GetString("APP_ENV"),
		GeminiAPIKey:        v.GetString("GEMINI_API_KEY"),
		DatabasePath:        v.GetString("DATABASE_PATH"),
		AuthJWTSecret:       v.GetString("AUTH_JWT_SECRET"),
		CloudinaryCloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    v.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: v.GetString("CLOUDINARY_API_SECRET"),
	}

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = v.GetString("GOOGLE_API_KEY")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	return cfg, nil
}

func (c *Config) Production() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
