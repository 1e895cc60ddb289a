package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	UploadFolder           string  `envconfig:"UPLOAD_FOLDER" default:"uploads"`
	InvoiceFolder          string  `envconfig:"INVOICE_FOLDER" default:"invoices"`
	MaxContentLengthMB     float64 `envconfig:"MAX_CONTENT_LENGTH_MB" default:"25"`
	SecretKey              string  `envconfig:"SECRET_KEY"`
	Port                   int     `envconfig:"PORT" default:"8000"`
	ShutdownTimeoutSeconds int     `envconfig:"SHUTDOWN_TIMEOUT_SECONDS" default:"10"`
	LedgerDSN              string  `envconfig:"LEDGER_DSN"`
	CatalogCSV             string  `envconfig:"CATALOG_CSV"`
	CORSAllowOrigins       string  `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	LogLevel               string  `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat              string  `envconfig:"LOG_FORMAT" default:"text"`
}

// FromEnv builds Config with defaults, overridden by environment variables.
// A random session secret is generated when SECRET_KEY is unset.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "process env")
	}
	if cfg.MaxContentLengthMB <= 0 {
		return Config{}, errors.Errorf("MAX_CONTENT_LENGTH_MB must be positive, got %v", cfg.MaxContentLengthMB)
	}
	if cfg.SecretKey == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.SecretKey = secret
	}
	return cfg, nil
}

// HTTPAddr is the listen address for the configured port.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MaxContentLength is the request body cap in bytes.
func (c Config) MaxContentLength() int64 {
	return int64(c.MaxContentLengthMB * 1024 * 1024)
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// EnsureDirs creates the upload and invoice directories if they are absent.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.UploadFolder, c.InvoiceFolder} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate secret key")
	}
	return hex.EncodeToString(buf), nil
}
