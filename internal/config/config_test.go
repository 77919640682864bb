package config

import (
	"os"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	chdirTemp(t)

	cfg := Load()
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("database driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Upload.Image.MaxSize != 2*1024*1024 {
		t.Fatalf("image max size want 2MB got %d", cfg.Upload.Image.MaxSize)
	}
	if len(cfg.Upload.Video.AllowedExtensions) != 5 {
		t.Fatalf("video extensions want 5 got %v", cfg.Upload.Video.AllowedExtensions)
	}
	if cfg.Midtrans.SnapURL() != "https://app.sandbox.midtrans.com/snap/v1/transactions" {
		t.Fatalf("sandbox snap url expected, got %s", cfg.Midtrans.SnapURL())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-xyz")
	t.Setenv("MIDTRANS_IS_PRODUCTION", "true")
	t.Setenv("SERVER_PORT", "9090")

	cfg := Load()
	if cfg.Midtrans.ServerKey != "SB-Mid-server-xyz" {
		t.Fatalf("server key from env expected, got %q", cfg.Midtrans.ServerKey)
	}
	if cfg.Midtrans.SnapURL() != "https://app.midtrans.com/snap/v1/transactions" {
		t.Fatalf("production snap url expected, got %s", cfg.Midtrans.SnapURL())
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("server port want 9090 got %s", cfg.Server.Port)
	}
}

func TestMidtransTimeoutFallback(t *testing.T) {
	if got := (MidtransConfig{}).Timeout(); got != 15*time.Second {
		t.Fatalf("default timeout want 15s got %s", got)
	}
	if got := (MidtransConfig{TimeoutSeconds: 3}).Timeout(); got != 3*time.Second {
		t.Fatalf("timeout want 3s got %s", got)
	}
}
