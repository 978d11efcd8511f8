package bootstrap

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:             "mongodb://localhost:27017",
		MongoDatabase:        "taskhub",
		SessionKey:           "0123456789abcdef0123456789abcdef",
		SessionName:          "taskhub-session",
		BaseURL:              "http://localhost:3000",
		ReportTimeout:        30 * time.Second,
		StateCleanupInterval: time.Hour,
	}
}

func TestValidateConfig_Accepts(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig rejected a valid config: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "not-a-uri" }},
		{"empty database", func(c *AppConfig) { c.MongoDatabase = "" }},
		{"oauth id without secret", func(c *AppConfig) { c.GoogleClientID = "client-id" }},
		{"oauth secret without id", func(c *AppConfig) { c.GoogleClientSecret = "secret" }},
		{"zero report timeout", func(c *AppConfig) { c.ReportTimeout = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validAppConfig()
			tc.mutate(&cfg)
			if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
				t.Error("ValidateConfig accepted an invalid config")
			}
		})
	}
}
