package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int     `env:"LOG_LEVEL" envDefault:"0"`
	HTTP     HTTP    `envPrefix:"HTTP_"`
	Storage  Storage `envPrefix:"STORAGE_"`
	S3       S3      `envPrefix:"AWS_S3_"`
	MinIO    MinIO   `envPrefix:"MINIO_"`
	Upload   Upload  `envPrefix:"UPLOAD_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"3000"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Storage selects the object storage backend.
type Storage struct {
	Backend string `env:"BACKEND" envDefault:"s3"`
}

// S3 contains AWS S3 parameters. Endpoint is only set for S3-compatible services.
type S3 struct {
	Region          string `env:"REGION"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	Bucket          string `env:"BUCKET_NAME"`
	Endpoint        string `env:"ENDPOINT"`
	UsePathStyle    bool   `env:"USE_PATH_STYLE" envDefault:"false"`
}

// MinIO contains MinIO parameters.
type MinIO struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Upload contains upload handling parameters.
type Upload struct {
	ContentType string `env:"CONTENT_TYPE" envDefault:"image/jpeg"`
	KeyStrategy string `env:"KEY_STRATEGY" envDefault:"original"`
	TempDir     string `env:"TEMP_DIR"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Bucket returns the bucket name of the selected backend.
func (c *Config) Bucket() string {
	if c.Storage.Backend == "minio" {
		return c.MinIO.Bucket
	}
	return c.S3.Bucket
}
