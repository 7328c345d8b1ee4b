package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.Port != "8888" {
		t.Errorf("Default port = %s, want 8888", cfg.Port)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("Default request timeout = %v", cfg.RequestTimeout)
	}
	if cfg.MaxRequestBodySize != 20*1024*1024 {
		t.Errorf("Default body size = %d", cfg.MaxRequestBodySize)
	}
	if cfg.AttentionOutRows != 240 || cfg.AttentionOutCols != 320 {
		t.Errorf("Default attention output shape = %dx%d", cfg.AttentionOutRows, cfg.AttentionOutCols)
	}
	if cfg.AttentionInputName != "input_1" || cfg.AttentionOutput != "output_1" {
		t.Errorf("Default tensor names = %s/%s", cfg.AttentionInputName, cfg.AttentionOutput)
	}
	if cfg.AzureEnabled() {
		t.Errorf("Azure should be disabled without credentials")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REQUEST_TIMEOUT", "90s")
	t.Setenv("ATTENTION_OUT_ROWS", "480")
	t.Setenv("AZURE_ACCOUNT_NAME", "acct")
	t.Setenv("AZURE_ACCOUNT_KEY", "key")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port override ignored: %s", cfg.Port)
	}
	if cfg.RequestTimeout != 90*time.Second {
		t.Errorf("Timeout override ignored: %v", cfg.RequestTimeout)
	}
	if cfg.AttentionOutRows != 480 {
		t.Errorf("Output shape override ignored: %d", cfg.AttentionOutRows)
	}
	if !cfg.AzureEnabled() {
		t.Errorf("Azure should be enabled with credentials")
	}
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	for _, port := range []string{"not-a-port", "0", "70000"} {
		t.Run(port, func(t *testing.T) {
			t.Setenv("PORT", port)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("Expected error for PORT=%s", port)
			}
		})
	}
}

func TestServerAddress(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "8888"}
	if got := cfg.ServerAddress(); got != "127.0.0.1:8888" {
		t.Errorf("ServerAddress() = %s", got)
	}
}
