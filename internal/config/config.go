package config

import (
	"fmt"
	"time"
)

const (
	DefaultTimeZone = "Asia/Kolkata"

	// Staging reaper
	DefaultReapSchedule = "*/10 * * * *"
	DefaultSessionTTL   = 2 * time.Hour

	DefaultStagingDir = "tmp/lotus-imports"
	DefaultS3Prefix   = "imports/"

	DefaultPerPage = 15
)

// Environment variables
const (
	EnvStagingBackend  = "STAGING_BACKEND"
	EnvStagingDir      = "STAGING_DIR"
	EnvStagingS3Bucket = "STAGING_S3_BUCKET"
	EnvStagingS3Region = "STAGING_S3_REGION"
	EnvStagingS3Prefix = "STAGING_S3_PREFIX"
)

// Int reads an integer setting from a services.yaml config block.
func Int(cfg map[string]interface{}, key string) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		var parsed int
		if _, err := fmt.Sscanf(v, "%d", &parsed); err == nil {
			return parsed
		}
	}
	return 0
}

func String(cfg map[string]interface{}, key, def string) string {
	if s, ok := cfg[key].(string); ok && s != "" {
		return s
	}
	return def
}

// Duration reads a Go duration string such as "90m", falling back to def.
func Duration(cfg map[string]interface{}, key string, def time.Duration) time.Duration {
	s, ok := cfg[key].(string)
	if !ok || s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
