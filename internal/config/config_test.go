package config

import (
	"os"
	"testing"
	"time"

	"github.com/kiliankoe/tvquiz/internal/engine"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "GM_USER", "GM_PASS", "SINGLE_SESSION", "EXPORT_ENABLED", "ROUND_TIME", "PACE_FINAL_THINK"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("should parse: %v", err)
	}
	if c.Port != "8080" || !c.SingleSession || !c.ExportEnabled || c.RoundTime != 0 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.HasHostAuth() {
		t.Fatal("host auth needs both user and password")
	}
	if c.Pacing != engine.DefaultPacing() {
		t.Fatalf("pacing defaults should match DefaultPacing: %+v", c.Pacing)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("GM_USER", "host")
	t.Setenv("GM_PASS", "secret")
	t.Setenv("SINGLE_SESSION", "false")
	t.Setenv("ROUND_TIME", "5m")
	t.Setenv("PACE_FINAL_THINK", "10s")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("should parse: %v", err)
	}
	if c.Port != "3000" || c.SingleSession || !c.HasHostAuth() {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.RoundTime != 5*time.Minute {
		t.Fatalf("expected 5m round time, got %v", c.RoundTime)
	}
	if c.Pacing.FinalThink != 10*time.Second {
		t.Fatalf("expected final think override, got %v", c.Pacing.FinalThink)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	t.Setenv("SINGLE_SESSION", "maybe")
	if _, err := FromEnv(); err == nil {
		t.Fatal("invalid bool should fail")
	}
}
