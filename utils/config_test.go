package utils

import (
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DEBUG", "FLASK_DEBUG", "GEMINI_API_KEY", "GEMINI_MODEL", "PROMPT_TEMPLATE_S3_URI", "VALKEY_HOST", "POSTGRES_HOST"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	if cfg.Port != "5000" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.Debug {
		t.Fatal("debug should default to false")
	}
	if cfg.CredentialPresent() {
		t.Fatal("credential should be absent")
	}
	if cfg.ValkeyEnabled() || cfg.PostgresEnabled() {
		t.Fatal("optional integrations should be disabled")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DEBUG", "")
	t.Setenv("FLASK_DEBUG", "True")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("VALKEY_HOST", "cache")

	cfg := LoadConfig()
	if cfg.Port != "8080" || !cfg.Debug || !cfg.CredentialPresent() || !cfg.ValkeyEnabled() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestGetEnvBool(t *testing.T) {
	cases := map[string]bool{"true": true, "TRUE": true, " true ": true, "1": false, "yes": false, "": false, "false": false}
	for v, want := range cases {
		t.Setenv("FUNNEL_TEST_BOOL", v)
		if got := GetEnvBool("FUNNEL_TEST_BOOL"); got != want {
			t.Errorf("GetEnvBool(%q) = %v, want %v", v, got, want)
		}
	}
}
