// Package config provides the application configuration, one interface
// per concern, all backed by environment variables.
package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	DatabasePath() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	APIVars
}

func New() Config {
	return mainConfig{}
}
