package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Detection DetectionConfig `yaml:"detection" mapstructure:"detection"`
	NER       NERConfig       `yaml:"ner" mapstructure:"ner"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	WebSocket WebSocketConfig `yaml:"websocket" mapstructure:"websocket"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	RateLimit    struct {
		Enabled        bool `yaml:"enabled" mapstructure:"enabled"`
		RequestsPerMin int  `yaml:"requests_per_min" mapstructure:"requests_per_min"`
		Burst          int  `yaml:"burst" mapstructure:"burst"`
	} `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// DetectionConfig selects which pattern detectors run
type DetectionConfig struct {
	Detectors []string `yaml:"detectors" mapstructure:"detectors"`
}

// NERConfig contains the named-entity model configuration
type NERConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
	VocabPath string `yaml:"vocab_path" mapstructure:"vocab_path"`
	MaxLength int    `yaml:"max_length" mapstructure:"max_length"`
}

// LLMConfig contains default connection settings for the generative endpoint
type LLMConfig struct {
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
	Model          string `yaml:"model" mapstructure:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Path     string `yaml:"path" mapstructure:"path"`
		MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
		Compress bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// WebSocketConfig contains dashboard event stream configuration
type WebSocketConfig struct {
	Enabled        bool     `yaml:"enabled" mapstructure:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Detection: DetectionConfig{
			Detectors: []string{"all"},
		},
		NER: NERConfig{
			Enabled:   true,
			ModelPath: "models/fr-ner.onnx",
			VocabPath: "models/fr-ner.vocab",
			MaxLength: 512,
		},
		LLM: LLMConfig{
			Endpoint:       "http://localhost:11434",
			Model:          "llama3.2:3b",
			TimeoutSeconds: 30,
		},
		WebSocket: WebSocketConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"}, // Allow all origins for development
		},
	}

	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RequestsPerMin = 120
	cfg.Server.RateLimit.Burst = 20

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Logging.File.Enabled = false
	cfg.Logging.File.Path = "logs/anonymizer.log"
	cfg.Logging.File.MaxSize = 100 // MB
	cfg.Logging.File.MaxAge = 30   // days
	cfg.Logging.File.Compress = true

	return cfg
}
