package config

import (
	"os"
	"strings"
)

const (
	defaultDBPath    = "./dev.db"
	defaultPort      = "8080"
	defaultEnv       = "dev"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	DBPath        string
	Port          string
	ScenariosPath string
	LogLevel      string
	LogFormat     string
	CORSOrigins   []string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:           os.Getenv("APP_ENV"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		ScenariosPath: os.Getenv("SCENARIOS_PATH"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS")),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}

	return cfg
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// Warnings lists settings that work but are probably not what a deployment wants.
func (c Config) Warnings() []string {
	var warnings []string
	if !c.IsDev() && c.DBPath == defaultDBPath {
		warnings = append(warnings, "DB_PATH is not set, using "+defaultDBPath)
	}
	if !c.IsDev() && c.LogFormat == "console" {
		warnings = append(warnings, "LOG_FORMAT=console outside dev; set LOG_FORMAT=json for log shipping")
	}
	for _, o := range c.CORSOrigins {
		if o == "*" && !c.IsDev() {
			warnings = append(warnings, "CORS_ORIGINS allows any origin outside dev")
			break
		}
	}
	return warnings
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
