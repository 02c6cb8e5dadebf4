package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/wisdombook/internal/flagx"
	"github.com/dmitrijs2005/wisdombook/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted. Only
// keys present in the file override the current values.
type FileConfig struct {
	EndpointAddrHTTP           *string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC           *string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN                *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                  *string         `json:"secret_key" yaml:"secret_key"`
	AdminTokenValidityDuration *timex.Duration `json:"admin_token_validity_duration" yaml:"admin_token_validity_duration"`
	AdminPasswordHash          *string         `json:"admin_password_hash" yaml:"admin_password_hash"`
	S3RootUser                 *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword             *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                   *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                   *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint             *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PublicURL                *string         `json:"s3_public_url" yaml:"s3_public_url"`
	MaxUploadBytes             *int64          `json:"max_upload_bytes" yaml:"max_upload_bytes"`
	LogLevel                   *string         `json:"log_level" yaml:"log_level"`
}

// parseFile loads the file named by -c/-config into config. Nothing happens
// when no file is given. An unreadable or malformed file panics, since the
// server cannot start on half-applied settings.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}
	if err := loadFile(path, config); err != nil {
		panic(err)
	}
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AdminTokenValidityDuration != nil {
		config.AdminTokenValidityDuration = c.AdminTokenValidityDuration.Duration
	}
	setString(&config.AdminPasswordHash, c.AdminPasswordHash)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
	if c.MaxUploadBytes != nil {
		config.MaxUploadBytes = *c.MaxUploadBytes
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
