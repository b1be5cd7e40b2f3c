package config

import (
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/filex"
)

// S3Config addresses an S3-compatible bucket used for remote backups.
// Backups to S3 are disabled while Bucket is empty.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether enough is configured to upload.
func (s S3Config) Enabled() bool { return s.Bucket != "" }

// Config holds runtime settings for the vault CLI.
type Config struct {
	DataDir                string
	LogLevel               string
	SessionMonitorInterval time.Duration
	DefaultSessionTimeout  time.Duration
	AuditRetentionDays     int
	ExportFormat           string
	S3                     S3Config
}

// fallbackDataDir is used when the user config dir cannot be resolved.
const fallbackDataDir = "." + common.AppName

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir, err := filex.DefaultDataDir(common.AppName)
	if err != nil {
		dir = fallbackDataDir
	}
	c.DataDir = dir
	c.LogLevel = "info"
	c.SessionMonitorInterval = 5 * time.Second
	c.DefaultSessionTimeout = 300 * time.Second
	c.AuditRetentionDays = 90
	c.ExportFormat = "json"
	c.S3 = S3Config{Region: "us-east-1"}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	cfg.normalize()
	return cfg
}

// normalize replaces out-of-range durations and counts with their defaults.
// A zero monitor interval would otherwise stop the ticker from starting.
func (c *Config) normalize() {
	var d Config
	d.LoadDefaults()

	if c.SessionMonitorInterval <= 0 {
		c.SessionMonitorInterval = d.SessionMonitorInterval
	}
	if c.DefaultSessionTimeout <= 0 {
		c.DefaultSessionTimeout = d.DefaultSessionTimeout
	}
	if c.AuditRetentionDays < 0 {
		c.AuditRetentionDays = d.AuditRetentionDays
	}
}
