package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays BOOK_* environment variables. Malformed numeric or
// duration values are ignored.
func parseEnv(config *Config) {
	envString("BOOK_HTTP_ADDR", &config.EndpointAddrHTTP)
	envString("BOOK_GRPC_ADDR", &config.EndpointAddrGRPC)
	envString("BOOK_DATABASE_DSN", &config.DatabaseDSN)
	envString("BOOK_SECRET_KEY", &config.SecretKey)
	envString("BOOK_ADMIN_PASSWORD_HASH", &config.AdminPasswordHash)
	envString("BOOK_S3_ROOT_USER", &config.S3RootUser)
	envString("BOOK_S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("BOOK_S3_BUCKET", &config.S3Bucket)
	envString("BOOK_S3_REGION", &config.S3Region)
	envString("BOOK_S3_ENDPOINT", &config.S3BaseEndpoint)
	envString("BOOK_S3_PUBLIC_URL", &config.S3PublicURL)
	envString("BOOK_LOG_LEVEL", &config.LogLevel)

	if v, ok := os.LookupEnv("BOOK_ADMIN_TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AdminTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("BOOK_MAX_UPLOAD_BYTES"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MaxUploadBytes = n
		}
	}
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
