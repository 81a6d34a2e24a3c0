package config

import "testing"

func TestDefaultConfigHasSaneValues(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Server.Port == 0 {
		t.Fatal("default server port should not be zero")
	}
	if cfg.Bus.URL == "" {
		t.Fatal("default bus URL should not be empty")
	}
	if cfg.Bus.PingPeriod <= 0 {
		t.Fatal("default ping period should be positive")
	}
	if cfg.Redis != nil {
		t.Fatal("default config should not enable redis")
	}
}
