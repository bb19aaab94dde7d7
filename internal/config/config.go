package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig controls the streaming analysis engine.
type EngineConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ArtifactsDir string `yaml:"artifacts_dir"`
	TempDir      string `yaml:"temp_dir"`
}

// ConverterConfig selects how packet captures are turned into flow CSVs.
// Mode "exec" shells out to an external flow meter; "native" uses the
// built-in gopacket-based converter.
type ConverterConfig struct {
	Mode    string `yaml:"mode"`
	Command string `yaml:"command"`
}

// ClickHouseConfig holds connection settings for the ClickHouse sink.
type ClickHouseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GobSinkConfig holds settings for the on-disk gob sink.
type GobSinkConfig struct {
	Enabled  bool   `yaml:"enabled"`
	RootPath string `yaml:"root_path"`
}

// NATSSinkConfig holds settings for the NATS publishing sink.
type NATSSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// SinksConfig groups all configured persistence sinks.
type SinksConfig struct {
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Gob        GobSinkConfig    `yaml:"gob"`
	NATS       NATSSinkConfig   `yaml:"nats"`
}

// AlerterRule is a single threshold rule evaluated against an analysis summary.
type AlerterRule struct {
	Name      string  `yaml:"name"`
	Metric    string  `yaml:"metric"`
	Operator  string  `yaml:"operator"`
	Threshold float64 `yaml:"threshold"`
}

// AlerterConfig controls post-analysis alerting.
type AlerterConfig struct {
	Enabled bool          `yaml:"enabled"`
	Rules   []AlerterRule `yaml:"rules"`
}

// SMTPConfig holds settings for the email notifier.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// AIConfig holds settings for the optional narrative analysis service.
type AIConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// APIConfig holds settings for the HTTP API server.
type APIConfig struct {
	ListenAddr     string `yaml:"listen_addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Converter ConverterConfig `yaml:"converter"`
	Sinks     SinksConfig     `yaml:"sinks"`
	Alerter   AlerterConfig   `yaml:"alerter"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	AI        AIConfig        `yaml:"ai"`
	API       APIConfig       `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if cfg.Engine.ChunkSize <= 0 {
		cfg.Engine.ChunkSize = 50000
	}
	if cfg.Engine.TempDir == "" {
		cfg.Engine.TempDir = "temp_processing"
	}
	if cfg.Converter.Mode == "" {
		cfg.Converter.Mode = "native"
	}

	return &cfg, nil
}
