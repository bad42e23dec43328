package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOT_TOKEN", "BOT_API_URL", "LISTEN_ADDR", "DOWNLOADS_DIR",
		"STATIC_DIR", "WORKERS", "STREAM_INTERVAL_MS", "MAX_FILE_SIZE",
	} {
		// t.Setenv registers restoration of the original value; the
		// variable must then be unset, not left empty, so envconfig
		// falls back to struct defaults.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":8000" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.DownloadsDir != "/downloads" {
		t.Fatalf("DownloadsDir = %q", cfg.DownloadsDir)
	}
	if cfg.Workers != 4 || cfg.StreamIntervalMS != 400 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestDeliveryLimitFollowsDeploymentMode(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.DeliveryLimit(); got != 50*1024*1024 {
		t.Fatalf("public API limit = %d", got)
	}

	cfg.BotAPIURL = "http://bot-api:8081"
	if got := cfg.DeliveryLimit(); got != 2*1024*1024*1024 {
		t.Fatalf("self-hosted limit = %d", got)
	}

	cfg.MaxFileSize = 123
	if got := cfg.DeliveryLimit(); got != 123 {
		t.Fatalf("override ignored: %d", got)
	}
}

func TestValidateBotRequiresToken(t *testing.T) {
	var cfg Config
	if err := cfg.ValidateBot(); err == nil {
		t.Fatal("expected error without BOT_TOKEN")
	}
	cfg.BotToken = "123:abc"
	if err := cfg.ValidateBot(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTEN_ADDR", ":9100")
	t.Setenv("WORKERS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":9100" || cfg.Workers != 2 {
		t.Fatalf("environment not applied: %+v", cfg)
	}
}
