package config

import (
	"strings"
	"testing"
	"time"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, key := range []string{
		"PORT", "AI_PROVIDER", "GOOGLE_API_KEY", "GEMINI_MODEL", "ARK_API_KEY", "ARK_ACCESS_KEY",
		"ARK_SECRET_KEY", "Model", "ARK_TEMPERATURE", "ARK_TOP_P", "ARK_MAX_TOKENS", "STORE_DRIVER",
		"MONGODB_URI", "DATABASE_URL", "STORE_RETRY_INTERVAL", "LOG_LEVEL", "LOG_FILE", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"GOOGLE_API_KEY": "key",
		"MONGODB_URI":    "mongodb://localhost:27017",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Fatalf("unexpected addr %s", cfg.Server.Addr)
	}
	if cfg.AI.Provider != ProviderGemini || cfg.AI.GeminiModel != "gemini-1.5-pro" {
		t.Fatalf("unexpected AI config %+v", cfg.AI)
	}
	if cfg.Store.Driver != DriverMongo || cfg.Store.MongoCollection != "chats" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Store.RetryInterval != 5*time.Second {
		t.Fatalf("unexpected retry interval %s", cfg.Store.RetryInterval)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setEnv(t, nil)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing api key and store uri")
	}
	for _, want := range []string{"GOOGLE_API_KEY", "MONGODB_URI"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in error: %v", want, err)
		}
	}
}

func TestLoadArkWithMemoryStore(t *testing.T) {
	setEnv(t, map[string]string{
		"AI_PROVIDER":    "ark",
		"ARK_API_KEY":    "ark-key",
		"Model":          "ep-123",
		"STORE_DRIVER":   "memory",
		"ARK_MAX_TOKENS": "256",
		"PORT":           "127.0.0.1:9000",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.AI.ArkEnabled() {
		t.Fatal("expected ark to be enabled")
	}
	if cfg.AI.MaxTokens == nil || *cfg.AI.MaxTokens != 256 {
		t.Fatalf("unexpected max tokens %v", cfg.AI.MaxTokens)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %s", cfg.Server.Addr)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	setEnv(t, map[string]string{
		"GOOGLE_API_KEY":       "key",
		"STORE_DRIVER":         "memory",
		"STORE_RETRY_INTERVAL": "soon",
	})
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid retry interval")
	}

	setEnv(t, map[string]string{"GOOGLE_API_KEY": "key", "STORE_DRIVER": "redis"})
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
