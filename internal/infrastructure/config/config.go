package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

// AuthConfig carries per-purpose token secrets and lifetimes. Access and
// refresh secrets are independent so one leak cannot forge the other kind of
// token; verification and reset tokens are opaque and only need lifetimes.
type AuthConfig struct {
	AccessSecret   string        `env:"ACCESS_SECRET"`
	AccessExpires  time.Duration `env:"ACCESS_EXPIRES,  default=1h"`
	RefreshSecret  string        `env:"REFRESH_SECRET"`
	RefreshExpires time.Duration `env:"REFRESH_EXPIRES, default=24h"`
	ResetExpires   time.Duration `env:"RESET_EXPIRES,   default=1h"`
	OTPExpires     time.Duration `env:"OTP_EXPIRES,     default=10m"`
	EmailWorkers   int           `env:"EMAIL_WORKERS,   default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=natours"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT, default=587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	From string `env:"SMTP_FROM, default=no-reply@natours.io"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
