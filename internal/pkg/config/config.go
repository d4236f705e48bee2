package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	JWTSecret   string `env:"JWT_SECRET"`
	BaseURL     string `env:"BASE_URL,     default=http://localhost:8080"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`

	Mongo    MongoConfig
	Redis    RedisConfig
	SendGrid SendGridConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=news_notify"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SendGridConfig struct {
	APIKey string `env:"SENDGRID_API_KEY"`
	From   string `env:"EMAIL_FROM, default=no-reply@example.com"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
