package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "DB_PATH", "PORT", "SCENARIOS_PATH", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	chdir(t, t.TempDir())

	cfg := Load()

	if cfg.DBPath != defaultDBPath || cfg.Port != defaultPort {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected dev by default")
	}
	if len(cfg.Warnings()) != 0 {
		t.Fatalf("expected no warnings in dev, got %v", cfg.Warnings())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PATH", "/var/lib/docquote/quotes.db")
	t.Setenv("PORT", "9000")
	t.Setenv("SCENARIOS_PATH", "/etc/docquote/scenarios.yaml")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CORS_ORIGINS", "https://quotes.example.com, ,https://admin.example.com")
	chdir(t, t.TempDir())

	cfg := Load()

	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
	if cfg.DBPath != "/var/lib/docquote/quotes.db" || cfg.Port != "9000" || cfg.ScenariosPath != "/etc/docquote/scenarios.yaml" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if len(cfg.Warnings()) != 0 {
		t.Fatalf("expected no warnings, got %v", cfg.Warnings())
	}
}

func TestWarnings_ProductionDefaults(t *testing.T) {
	cfg := Config{Env: "production", DBPath: defaultDBPath, LogFormat: "console"}
	if got := len(cfg.Warnings()); got != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", got, cfg.Warnings())
	}
}

func TestWarnings_WildcardCORSOutsideDev(t *testing.T) {
	cfg := Config{Env: "production", DBPath: "/data/quotes.db", LogFormat: "json", CORSOrigins: []string{"*"}}
	if got := len(cfg.Warnings()); got != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", got, cfg.Warnings())
	}
	cfg.Env = "dev"
	if got := len(cfg.Warnings()); got != 0 {
		t.Fatalf("expected no warnings in dev, got %v", cfg.Warnings())
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
