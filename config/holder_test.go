package config_test

import (
	"os"
	"testing"

	"github.com/esmc/chaos/config"
	"github.com/rs/zerolog"
)

func TestHolder_GetAndReload(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8081\n")

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}
	defer h.Stop()

	if h.Get().Server.Port != 8081 {
		t.Fatalf("port = %d, want 8081", h.Get().Server.Port)
	}

	if err := os.WriteFile(path, []byte("server:\n  port: 8082\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if h.Get().Server.Port != 8082 {
		t.Errorf("port = %d, want 8082 after reload", h.Get().Server.Port)
	}
}

func TestHolder_ReloadKeepsOldConfigOnError(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8081\n")

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}
	defer h.Stop()

	if err := os.WriteFile(path, []byte("registry:\n  kinds: [general]\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := h.Reload(); err == nil {
		t.Fatal("Reload of invalid config succeeded")
	}
	if h.Get().Server.Port != 8081 {
		t.Errorf("port = %d, old config should survive a failed reload", h.Get().Server.Port)
	}
}

func TestHolder_OnChange(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8081\n")

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}
	defer h.Stop()

	var gotPort int
	h.OnChange(func(cfg *config.Config) { gotPort = cfg.Server.Port })

	if err := os.WriteFile(path, []byte("server:\n  port: 8083\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if gotPort != 8083 {
		t.Errorf("onChange saw port %d, want 8083", gotPort)
	}
}
