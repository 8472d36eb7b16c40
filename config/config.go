package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	APIBaseURL  string        `envconfig:"STOREFRONT_API_URL" default:"http://localhost:8090/api/v1"`
	Timeout     time.Duration `envconfig:"STOREFRONT_TIMEOUT" default:"15s"`
	StateDir    string        `envconfig:"STOREFRONT_STATE_DIR"`
	LogLevel    string        `envconfig:"LOG_LEVEL"          default:"info"`
	StubPort    string        `envconfig:"STUB_SERVER_PORT"   default:":8090"`
	StubLatency time.Duration `envconfig:"STUB_LATENCY"       default:"0s"`
}

func LoadConfig(logger *logrus.Logger) *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatalf("Failed to process configuration from environment variables: %v", err)
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.Fatalf("Failed to resolve home directory for state dir: %v", err)
		}
		cfg.StateDir = home + "/.storefront"
	}

	logger.Infof("Configuration loaded: API=%s, StateDir=%s, LogLevel=%s",
		cfg.APIBaseURL, cfg.StateDir, cfg.LogLevel)
	return &cfg
}

// NewLogger builds the shared logrus logger the way every entrypoint does.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}
