package config

import (
	"os"
	"strings"
)

type EnvVars struct {
	AppName  string `env:"APP_NAME" envDefault:"Smart Booking"`
	Env      string `env:"BOOKING_ENV" envDefault:"DEV"`
	LogLevel string `env:"BOOKING_LOG_LEVEL" envDefault:"info"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) IsDevelopment() bool {
	return e.GetEnv() == "DEV"
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
