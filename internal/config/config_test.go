package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "MAX_REFLECTIONS", "MIGRATE_ON_START", "KEY_REFLECTIONS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MaxReflections != 5000 {
		t.Errorf("MaxReflections = %d, want 5000", cfg.MaxReflections)
	}
	if !cfg.MigrateOnStart {
		t.Error("MigrateOnStart should default to true")
	}
	if cfg.KeyReflections != 1000 {
		t.Errorf("KeyReflections = %d, want 1000", cfg.KeyReflections)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MAX_REFLECTIONS", "42")
	t.Setenv("SWEEP_WORKERS", "not-a-number")
	t.Setenv("MIGRATE_ON_START", "false")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.MaxReflections != 42 {
		t.Errorf("MaxReflections = %d, want 42", cfg.MaxReflections)
	}
	if cfg.SweepWorkers != 8 {
		t.Errorf("SweepWorkers = %d, want fallback 8", cfg.SweepWorkers)
	}
	if cfg.MigrateOnStart {
		t.Error("MigrateOnStart should be false")
	}
}
