// Package config loads application settings from environment variables.
// Defaults cover a local setup; Validate reports every problem at once so a
// misconfigured deployment fails on startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Batch    BatchConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envAlt:"PORT" default:"5000"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight batches.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout applies to every route except /process.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds defaults for the connect form. Credentials
// themselves are entered per session and never configured here.
type DatabaseConfig struct {
	DefaultHost    string        `env:"DB_DEFAULT_HOST" default:"localhost"`
	DefaultPort    int           `env:"DB_DEFAULT_PORT" default:"5432"`
	SSLMode        string        `env:"DB_SSLMODE" default:"prefer"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// UploadConfig holds file upload settings.
type UploadConfig struct {
	// MaxRequestSize caps the whole multipart request (default: 100MB).
	MaxRequestSize int64 `env:"UPLOAD_MAX_REQUEST_SIZE" envAlt:"MAX_CONTENT_LENGTH" default:"104857600"`

	// TempDir receives uploaded files while they are processed. Empty means
	// the OS temp directory.
	TempDir string `env:"UPLOAD_TEMP_DIR"`

	// AllowedExtensions lists accepted file extensions.
	AllowedExtensions []string `env:"UPLOAD_ALLOWED_EXTENSIONS" default:"csv,xlsx,xls"`

	// Timeout bounds one /process request.
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"10m"`
}

// BatchConfig limits how many batches run at once.
type BatchConfig struct {
	MaxConcurrent int           `env:"BATCH_MAX_CONCURRENT" default:"4"`
	MaxWait       time.Duration `env:"BATCH_MAX_WAIT" default:"30s"`
}

// SessionConfig holds the cookie session settings.
type SessionConfig struct {
	// Secret signs and encrypts the session cookie. A random secret is
	// generated when empty, which logs everybody out on restart.
	Secret string        `env:"SESSION_SECRET" envAlt:"SECRET_KEY"`
	Name   string        `env:"SESSION_NAME" default:"sqlupload"`
	MaxAge time.Duration `env:"SESSION_MAX_AGE" default:"8h"`
	Secure bool          `env:"SESSION_SECURE" default:"false"`
}

// RateLimitConfig holds per-IP rate limits.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for /process (default: 10).
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers are believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is text or json.
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
