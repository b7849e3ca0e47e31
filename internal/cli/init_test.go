package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expensetracker/internal/config"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "RATE_LIMIT_PER_MINUTE", "DATA_BACKEND", "SQLITE_DB_PATH",
	"DATABASE_URL", "CURRENCY_SYMBOL", "AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE",
	"GOOGLE_SPREADSHEET_ID", "GOOGLE_SHEET_NAME", "GOOGLE_SERVICE_ACCOUNT_FILE",
	"GOOGLE_SERVICE_ACCOUNT_JSON", "MIRROR_INTERVAL", "LOG_LEVEL", "LOG_FORMAT",
}

// unsetEnv removes every key so a .env file can supply it; values are
// restored when the test ends.
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	unsetEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	env := "PORT=9090\nDATA_BACKEND=memory\nCURRENCY_SYMBOL=€\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DataBackend != config.BackendMemory || cfg.CurrencySymbol != "€" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigValidates(t *testing.T) {
	unsetEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("DATA_BACKEND", "sheets")

	_, err := LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "invalid data backend") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	logger := SetupLogger(cfg, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON warn line, got %s", out)
	}
}

func TestOpenBackendMemory(t *testing.T) {
	cfg := config.Defaults()
	cfg.DataBackend = config.BackendMemory

	var buf bytes.Buffer
	res, err := OpenBackend(context.Background(), SetupLogger(cfg, &buf), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer res.Cleanup()

	if err := res.Service.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpenBackendSQLite(t *testing.T) {
	cfg := config.Defaults()
	cfg.SQLiteDBPath = filepath.Join(t.TempDir(), "expenses.db")

	var buf bytes.Buffer
	res, err := OpenBackend(context.Background(), SetupLogger(cfg, &buf), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(cfg.SQLiteDBPath); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}
