package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://localhost:5000/api" {
		t.Fatalf("unexpected default api url: %s", cfg.APIURL)
	}
	if cfg.DBPath == "" {
		t.Fatal("db path should default to a non-empty path")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("TARGETFLOW_API_URL", "https://api.example.com")
	t.Cleanup(func() { os.Unsetenv("TARGETFLOW_API_URL") })

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Fatalf("env override ignored: %s", cfg.APIURL)
	}
}
