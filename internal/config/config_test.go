package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("default port = %q", cfg.HTTPPort)
	}
	if cfg.DatabasePath != "companion.db" {
		t.Errorf("default database path = %q", cfg.DatabasePath)
	}
	if cfg.Production() {
		t.Error("default environment should not be production")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("missing api key should fail")
	}
}

func TestLoadFallsBackToGoogleKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.GeminiAPIKey != "google-key" {
		t.Errorf("fallback key not used: %q", cfg.GeminiAPIKey)
	}
}

func TestProduction(t *testing.T) {
	for _, env := range []string{"production", "prod"} {
		c := Config{Environment: env}
		if !c.Production() {
			t.Errorf("%q should be production", env)
		}
	}
	if (&Config{Environment: "staging"}).Production() {
		t.Error("staging is not production")
	}
}
