package config

import (
	"strings"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := validateConfig(GetDefaults()); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port too small",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "no detectors",
			mutate:  func(c *Config) { c.Detection.Detectors = nil },
			wantErr: "detection.detectors",
		},
		{
			name:    "bad llm timeout",
			mutate:  func(c *Config) { c.LLM.TimeoutSeconds = 0 },
			wantErr: "invalid llm timeout",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaults()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := GetDefaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if len(cfg.Detection.Detectors) != 1 || cfg.Detection.Detectors[0] != "all" {
		t.Errorf("default detectors = %v", cfg.Detection.Detectors)
	}
	if cfg.LLM.Endpoint != "http://localhost:11434" {
		t.Errorf("default llm endpoint = %q", cfg.LLM.Endpoint)
	}
	if !cfg.NER.Enabled {
		t.Error("ner should be enabled by default")
	}
}
