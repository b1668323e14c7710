package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"AI_PROVIDER", "AI_MODEL", "PORT", "GEMINI_API_KEY", "OPENAI_API_KEY", "DATABASE_PASSWORD", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.AI.Provider != ProviderGemini || cfg.AI.Model != "gemini-1.5-flash" {
		t.Errorf("AI = %s/%s", cfg.AI.Provider, cfg.AI.Model)
	}
	if cfg.AI.APIKey != "" {
		t.Errorf("expected empty credential, got %q", cfg.AI.APIKey)
	}
	if cfg.Database.Driver != DriverNone {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
	if cfg.CredentialEnv() != "GEMINI_API_KEY" {
		t.Errorf("CredentialEnv = %q", cfg.CredentialEnv())
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("DATABASE_PASSWORD", "from-env")
	t.Setenv("PORT", "9090")

	path := writeConfig(t, `
server:
  port: 8081
  allowedOrigins: ["https://opticode.example"]
  rateLimit:
    capacity: 5
ai:
  provider: OpenAI
  timeoutSeconds: 30
database:
  driver: postgres
  host: db
  user: opticode
  password: from-file
  name: opticode
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("PORT env should win, got %d", cfg.Server.Port)
	}
	if cfg.Server.RateLimit.Capacity != 5 || cfg.Server.RateLimit.RefillPerSecond != 1 {
		t.Errorf("RateLimit = %+v", cfg.Server.RateLimit)
	}
	if cfg.AI.Provider != ProviderOpenAI || cfg.AI.Model != "gpt-4o-mini" || cfg.AI.TimeoutSeconds != 30 {
		t.Errorf("AI = %+v", cfg.AI)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.AI.APIKey)
	}
	if cfg.Database.Port != 5432 || cfg.Database.Password != "from-env" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	dsn := cfg.PostgresDSN()
	if !strings.Contains(dsn, "host=db port=5432") || !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("PostgresDSN = %q", dsn)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "ai:\n  provider: llama\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadRejectsIncompleteMinio(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "minio:\n  enabled: true\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for minio without endpoint")
	}
}

func TestMySQLDSN(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database:\n  driver: mysql\n  host: h\n  user: u\n  password: p\n  name: n\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "u:p@tcp(h:3306)/n?parseTime=true&charset=utf8mb4&loc=UTC"
	if got := cfg.MySQLDSN(); got != want {
		t.Fatalf("MySQLDSN = %q, want %q", got, want)
	}
}
