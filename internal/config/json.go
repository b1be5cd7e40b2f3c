package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vaultkeeper/internal/flagx"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
)

type jsonS3 struct {
	Endpoint  *string `json:"endpoint"`
	Region    *string `json:"region"`
	Bucket    *string `json:"bucket"`
	AccessKey *string `json:"access_key"`
	SecretKey *string `json:"secret_key"`
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero".
type JsonConfig struct {
	DataDir                *string         `json:"data_dir"`
	LogLevel               *string         `json:"log_level"`
	SessionMonitorInterval *timex.Duration `json:"session_monitor_interval"`
	DefaultSessionTimeout  *timex.Duration `json:"default_session_timeout"`
	AuditRetentionDays     *int            `json:"audit_retention_days"`
	ExportFormat           *string         `json:"export_format"`
	S3                     *jsonS3         `json:"s3"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.DataDir, jc.DataDir)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.AuditRetentionDays, jc.AuditRetentionDays)
	setIf(&cfg.ExportFormat, jc.ExportFormat)
	if jc.SessionMonitorInterval != nil {
		cfg.SessionMonitorInterval = jc.SessionMonitorInterval.Duration
	}
	if jc.DefaultSessionTimeout != nil {
		cfg.DefaultSessionTimeout = jc.DefaultSessionTimeout.Duration
	}
	if s := jc.S3; s != nil {
		setIf(&cfg.S3.Endpoint, s.Endpoint)
		setIf(&cfg.S3.Region, s.Region)
		setIf(&cfg.S3.Bucket, s.Bucket)
		setIf(&cfg.S3.AccessKey, s.AccessKey)
		setIf(&cfg.S3.SecretKey, s.SecretKey)
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
