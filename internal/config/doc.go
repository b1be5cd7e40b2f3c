// Package config loads runtime configuration for the vault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string          data directory (key, database, log, backups)
//	-l string          log level: debug, info, warn, error
//	-m int             session monitor interval (seconds)
//	-t int             default session timeout (seconds)
//	-r int             audit retention (days)
//	-f string          export format: json or yaml
//	-s3-endpoint       S3-compatible endpoint for backups
//	-s3-region         S3 region
//	-s3-bucket         S3 bucket
//	-s3-access-key     S3 access key
//	-s3-secret-key     S3 secret key
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "5s" or
// integer nanoseconds. Absent keys leave the earlier value untouched:
//
//	{
//	  "data_dir": "/home/me/.config/vaultkeeper",
//	  "log_level": "info",
//	  "session_monitor_interval": "5s",
//	  "default_session_timeout": "5m",
//	  "audit_retention_days": 90,
//	  "export_format": "json",
//	  "s3": {"endpoint": "http://127.0.0.1:9000", "region": "us-east-1", "bucket": "vault"}
//	}
package config
