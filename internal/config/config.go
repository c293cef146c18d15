// Package config provides centralized configuration management for the
// application. Settings load from environment variables with defaults and are
// validated on startup to fail fast on misconfiguration.
//
// The envAlt tags accept the legacy secret names (AZ_CONTAINER,
// SALSIFY_HOSTNAME, ...) so existing deployment environments keep working
// unchanged.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Azure    AzureConfig
	Transfer TransferConfig
	Dataset  DatasetConfig
	Publish  PublishConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response. Publish
	// runs inside a request, so this must cover a full pipeline (default: 15m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 10m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"10m"`

	// TrustedProxies are CIDRs whose forwarded-IP headers are believed.
	// Empty means client IPs are taken from the connection only.
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES"`
}

// AzureConfig holds blob storage settings. The SAS token is normally entered
// by the operator when opening a session; the environment variable exists for
// headless CLI runs.
type AzureConfig struct {
	// AccountURL is the storage account endpoint (required)
	AccountURL string `env:"AZURE_ACCOUNT_URL" envAlt:"AZ_ACCOUNT_URL" required:"true"`

	// Container is the shared container holding all application data (required)
	Container string `env:"AZURE_CONTAINER" envAlt:"AZ_CONTAINER" required:"true"`

	// SASToken is an optional session token for CLI use
	SASToken string `env:"AZURE_SAS_TOKEN" envAlt:"AZ_SAS_TOKEN"`

	// OpTimeout bounds one blob operation (default: 2m)
	OpTimeout time.Duration `env:"AZURE_OP_TIMEOUT" default:"2m"`
}

// TransferConfig holds the FTP endpoint settings. The endpoint serves the
// vendor workbook and receives the published export; credentials are distinct
// from blob storage. Host may be left empty on read-only deployments, in
// which case publish is unavailable.
type TransferConfig struct {
	// Host is the FTP server name
	Host string `env:"FTP_HOST" envAlt:"SALSIFY_HOSTNAME"`

	// Port is the FTP control port (default: 21)
	Port int `env:"FTP_PORT" default:"21"`

	// User is the FTP account name
	User string `env:"FTP_USER" envAlt:"SALSIFY_USERNAME"`

	// Password is the FTP account password
	Password string `env:"FTP_PASSWORD" envAlt:"SALSIFY_PASSWORD"`

	// DialTimeout bounds the FTP connect (default: 30s)
	DialTimeout time.Duration `env:"FTP_DIAL_TIMEOUT" default:"30s"`
}

// DatasetConfig holds the blob key layout of the dataset and its reference
// data. The defaults mirror the live container; all keys are resolved under
// DataPrefix so persist and reload always address the same files.
type DatasetConfig struct {
	// DataPrefix scopes the dataset inside the container (default: salsify-product-info/)
	DataPrefix string `env:"DATA_PREFIX" default:"salsify-product-info/"`

	// PartitionDir is the dataset directory under DataPrefix (default: app-data/pig-info-table.parquet)
	PartitionDir string `env:"PARTITION_DIR" default:"app-data/pig-info-table.parquet"`

	// PartitionFile is the file name inside each status partition (default: data_0.parquet)
	PartitionFile string `env:"PARTITION_FILE" default:"data_0.parquet"`

	// ValidationDir holds the reference CSVs under DataPrefix (default: app-data/validation)
	ValidationDir string `env:"VALIDATION_DIR" default:"app-data/validation"`

	// Statuses are the partitions loaded at session bootstrap, essential
	// partition first (default: active,New,Obsolete)
	Statuses []string `env:"DATASET_STATUSES" default:"active,New,Obsolete"`

	// RepositoryPrefix is where accepted PIG workbooks are archived (default: pig-repository/)
	RepositoryPrefix string `env:"REPOSITORY_PREFIX" default:"pig-repository/"`
}

// PublishConfig holds the export artifact layout.
type PublishConfig struct {
	// ExportKey is the blob key of the published export (default: salsify-sftp/hbb_salsify.xlsx)
	ExportKey string `env:"PUBLISH_EXPORT_KEY" default:"salsify-sftp/hbb_salsify.xlsx"`

	// HistoryPrefix is where timestamped backups land (default: salsify-sftp/history/)
	HistoryPrefix string `env:"PUBLISH_HISTORY_PREFIX" default:"salsify-sftp/history/"`

	// VendorFile is the remote name of the vendor workbook (default: salsify.xlsx)
	VendorFile string `env:"PUBLISH_VENDOR_FILE" default:"salsify.xlsx"`

	// ExportFile is the remote name stored on the FTP endpoint (default: hbb_salsify.xlsx)
	ExportFile string `env:"PUBLISH_EXPORT_FILE" default:"hbb_salsify.xlsx"`
}

// UploadConfig holds PIG workbook intake settings.
type UploadConfig struct {
	// MaxFileSize is the maximum workbook size in bytes (default: 20MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"20971520"`

	// MaxTitleLength is the Product Title length policy (default: 100)
	MaxTitleLength int `env:"UPLOAD_MAX_TITLE_LENGTH" default:"100"`
}

// RateLimitConfig holds API rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the per-IP budget (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Addr returns the FTP dial address in host:port format.
func (c *TransferConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Enabled reports whether an FTP endpoint is configured at all.
func (c *TransferConfig) Enabled() bool {
	return c.Host != ""
}
