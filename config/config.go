package config

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Port        string `envconfig:"PORT"         default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	GatewayBaseURL   string        `envconfig:"GATEWAY_BASE_URL"   default:"https://api.razorpay.com"`
	GatewayKeyID     string        `envconfig:"RAZORPAY_KEY_ID"    required:"true"`
	GatewayKeySecret string        `envconfig:"RAZORPAY_KEY_SECRET" required:"true"`
	GatewayTimeout   time.Duration `envconfig:"GATEWAY_TIMEOUT"    default:"10s"`
	GatewayCurrency  string        `envconfig:"GATEWAY_CURRENCY"   default:"INR"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		err = envconfig.Process("", &config)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: Port=%s, LogLevel=%s, GatewayBaseURL=%s", config.Port, config.LogLevel, config.GatewayBaseURL)
		if config.DatabaseURL == "" {
			logger.Fatal("Configuration error: DATABASE_URL is not set")
		}
	})
	return &config
}
