package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	ClientConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	IsDevelopment() bool
}

type ClientConfig interface {
	GetBaseURL() string
	GetHTTPTimeout() time.Duration
	GetRefreshPath() string
}

type StorageConfig interface {
	GetTokenFile() string
	GetStorageKey() string
}

type mainConfig struct {
	EnvVars
	Client
	Storage
}

// New parses the process environment into a Config.
func New() (Config, error) {
	c := mainConfig{}
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return c, nil
}
