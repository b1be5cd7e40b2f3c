package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/flagx"
)

var knownFlags = []string{
	"-d", "-l", "-m", "-t", "-r", "-f",
	"-s3-endpoint", "-s3-region", "-s3-bucket", "-s3-access-key", "-s3-secret-key",
}

// parseFlags populates Config fields from command-line flags. Only the
// flags listed in knownFlags are considered; parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	monitor := fs.Int("m", int(cfg.SessionMonitorInterval.Seconds()), "session monitor interval (in seconds)")
	timeout := fs.Int("t", int(cfg.DefaultSessionTimeout.Seconds()), "default session timeout (in seconds)")
	fs.IntVar(&cfg.AuditRetentionDays, "r", cfg.AuditRetentionDays, "audit retention (in days)")
	fs.StringVar(&cfg.ExportFormat, "f", cfg.ExportFormat, "export format (json|yaml)")

	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "S3 endpoint")
	fs.StringVar(&cfg.S3.Region, "s3-region", cfg.S3.Region, "S3 region")
	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3.AccessKey, "s3-access-key", cfg.S3.AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3.SecretKey, "s3-secret-key", cfg.S3.SecretKey, "S3 secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionMonitorInterval = time.Duration(*monitor) * time.Second
	cfg.DefaultSessionTimeout = time.Duration(*timeout) * time.Second
}
