package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.QuorumSize != 10 {
		t.Errorf("QuorumSize = %d, want 10", cfg.QuorumSize)
	}
	if cfg.AcceptanceThreshold != 0.70 {
		t.Errorf("AcceptanceThreshold = %v, want 0.70", cfg.AcceptanceThreshold)
	}
	if cfg.SessionTimeout.Duration() != 30*time.Second {
		t.Errorf("SessionTimeout = %v, want 30s", cfg.SessionTimeout.Duration())
	}
	if cfg.WoTMaxDepth != 3 {
		t.Errorf("WoTMaxDepth = %d, want 3", cfg.WoTMaxDepth)
	}
}

func TestSlashFractionBands(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		delta        int
		wantPenalty  int
		wantFraction float64
	}{
		{1, 5, 0.0},
		{10, 5, 0.0},
		{11, 15, 0.05},
		{30, 15, 0.05},
		{31, 30, 0.10},
		{500, 30, 0.10},
	}
	for _, c := range cases {
		penalty, fraction := cfg.SlashFraction(c.delta)
		if penalty != c.wantPenalty || fraction != c.wantFraction {
			t.Errorf("SlashFraction(%d) = (%d, %v), want (%d, %v)", c.delta, penalty, fraction, c.wantPenalty, c.wantFraction)
		}
	}
}

func TestLoadOverlaysDefaultsAndSubstitutesEnvVars(t *testing.T) {
	os.Setenv("RC_TEST_LISTEN_ADDR", "127.0.0.1:9999")
	defer os.Unsetenv("RC_TEST_LISTEN_ADDR")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "quorum_size: 15\nlisten_addr: \"${RC_TEST_LISTEN_ADDR}\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QuorumSize != 15 {
		t.Errorf("QuorumSize = %d, want 15", cfg.QuorumSize)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %q, want substituted value", cfg.ListenAddr)
	}
	if cfg.AcceptanceThreshold != 0.70 {
		t.Errorf("AcceptanceThreshold should retain default, got %v", cfg.AcceptanceThreshold)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error loading missing file")
	}
}
