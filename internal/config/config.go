package config

import (
	"fmt"
	"strings"

	"github.com/Netflix/go-env"
)

type Config struct {
	APIPort     int    `env:"API_PORT,default=3001"`
	BaseURL     string `env:"BASE_URL"`
	StorageDir  string `env:"STORAGE_DIR,default=./invoices"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	EmailAPIURL string `env:"EMAIL_API_URL,required=true"`
	EmailAPIKey string `env:"EMAIL_API_KEY"`
	EmailFrom   string `env:"EMAIL_FROM,default=billing@localhost"`
	SMSAPIURL   string `env:"SMS_API_URL,required=true"`
	SMSAPIKey   string `env:"SMS_API_KEY"`
	SMSFrom     string `env:"SMS_FROM"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.APIPort)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &cfg, nil
}
