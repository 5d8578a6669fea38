package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
	logLevelVar   = "LOG_LEVEL"
	apiBaseURLVar = "VPET_API_URL"
	apiTimeoutVar = "VPET_API_TIMEOUT"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Virtual Pet")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

// DatabasePath is the SQLite store location inside the data folder.
func (e EnvVars) DatabasePath() string {
	return filepath.Join(e.GetDataFolder(), "vpet.db")
}

type APIVars struct{}

var _ APIConfig = APIVars{}

func (APIVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://127.0.0.1:8000/api")
}

func (APIVars) GetHTTPTimeout() time.Duration {
	raw := GetEnv(apiTimeoutVar, "15s")
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
